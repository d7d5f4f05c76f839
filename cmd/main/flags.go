package main

import (
	"github.com/spf13/cobra"

	"schemagen/internal/config"
)

type stringSetting struct {
	flag  string
	env   string
	usage string
	field func(*config.Config) *string
}

var stringSettings = []stringSetting{
	{"gcloud-storage-uri", "GCLOUD_STORAGE_BUCKET_FOLDER_URI", "remote folder the standardized CSVs are uploaded to",
		func(c *config.Config) *string { return &c.StorageURI }},
	{"bigquery-dataset", "BIGQUERY_DATASET", "dataset the external tables are created in",
		func(c *config.Config) *string { return &c.Dataset }},
	{"source-dir", "SOURCE_DIR", "directory with the source files",
		func(c *config.Config) *string { return &c.SourceDir }},
	{"standardized-dir", "STANDARDIZED_DIR", "output directory for standardized CSVs",
		func(c *config.Config) *string { return &c.StandardizedDir }},
	{"schema-dir", "SCHEMA_DIR", "output directory for schema JSON",
		func(c *config.Config) *string { return &c.SchemaDir }},
	{"table-definition-dir", "TABLE_DEFINITION_DIR", "output directory for table definitions",
		func(c *config.Config) *string { return &c.TableDefinitionDir }},
	{"scripts-dir", "SCRIPTS_DIR", "output directory for bq scripts and dbt_sources.yml",
		func(c *config.Config) *string { return &c.ScriptsDir }},
	{"log-level", "LOG_LEVEL", "debug, info, warn or error",
		func(c *config.Config) *string { return &c.LogLevel }},
	{"log-file", "LOG_FILE", `rotating log file, "off" to disable`,
		func(c *config.Config) *string { return &c.LogFile }},
}

const lintThresholdFlag = "lint-threshold"

// addSettingFlags registers one persistent flag per setting. Flag defaults are
// empty so the environment stays in charge unless a flag is given.
func addSettingFlags(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	for _, s := range stringSettings {
		fs.String(s.flag, "", s.usage+" (env "+s.env+")")
	}
	fs.Float64(lintThresholdFlag, 0, "similar column name warning threshold, 0 disables (env LINT_THRESHOLD)")
}

func applySettingFlags(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	for _, s := range stringSettings {
		if !fs.Changed(s.flag) {
			continue
		}
		v, err := fs.GetString(s.flag)
		if err != nil {
			return err
		}
		*s.field(cfg) = v
	}
	if fs.Changed(lintThresholdFlag) {
		v, err := fs.GetFloat64(lintThresholdFlag)
		if err != nil {
			return err
		}
		cfg.LintThreshold = v
	}
	return nil
}

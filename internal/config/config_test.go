package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagen/internal/normalize/model"
)

var settings = []string{
	"GCLOUD_STORAGE_BUCKET_FOLDER_URI", "BIGQUERY_DATASET",
	"SOURCE_DIR", "STANDARDIZED_DIR", "SCHEMA_DIR", "TABLE_DEFINITION_DIR", "SCRIPTS_DIR",
	"LINT_THRESHOLD", "LOG_LEVEL", "LOG_FILE",
}

// clearEnv unsets every setting for the test and restores it afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range settings {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{
		SourceDir:          "data/sources",
		StandardizedDir:    "data/sources_standardized",
		SchemaDir:          "data/schemas",
		TableDefinitionDir: "data/table_definition_files",
		ScriptsDir:         "transformers",
		LintThreshold:      0.85,
		LogLevel:           "info",
		LogFile:            "logs/schemagen.log",
	}, c)
}

func TestLoad_EnvFileAndProcessEnv(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"GCLOUD_STORAGE_BUCKET_FOLDER_URI=gs://from-file/raw\n"+
			"BIGQUERY_DATASET=file_ds\n"+
			"LINT_THRESHOLD=0.9\n",
	), 0o644))
	t.Setenv("BIGQUERY_DATASET", "process_ds")

	c, err := Load(envFile, filepath.Join(dir, ".env.local"))
	require.NoError(t, err)
	assert.Equal(t, "gs://from-file/raw", c.StorageURI)
	assert.Equal(t, "process_ds", c.Dataset)
	assert.InDelta(t, 0.9, c.LintThreshold, 1e-9)
	require.NoError(t, c.Validate())
}

func TestLoad_BadValue(t *testing.T) {
	clearEnv(t)
	t.Setenv("LINT_THRESHOLD", "high")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse environment")
}

func TestLoadEnv_NoFiles(t *testing.T) {
	n, err := LoadEnv([]string{filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	err := Config{StorageURI: "  "}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMissingConfig))

	var mc *model.MissingConfigError
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"GCLOUD_STORAGE_BUCKET_FOLDER_URI", "BIGQUERY_DATASET"}, mc.Settings)
	assert.Equal(t, "missing required configuration: GCLOUD_STORAGE_BUCKET_FOLDER_URI, BIGQUERY_DATASET", err.Error())

	err = Config{StorageURI: "gs://b"}.Validate()
	require.ErrorAs(t, err, &mc)
	assert.Equal(t, []string{"BIGQUERY_DATASET"}, mc.Settings)

	assert.NoError(t, Config{StorageURI: "gs://b", Dataset: "d"}.Validate())
}

func TestLayout(t *testing.T) {
	t.Parallel()

	l := Config{StandardizedDir: "s", SchemaDir: "j", TableDefinitionDir: "d", ScriptsDir: "t"}.Layout()
	assert.Equal(t, "s", l.StandardizedDir)
	assert.Equal(t, "j", l.SchemaDir)
	assert.Equal(t, "d", l.TableDefinitionDir)
	assert.Equal(t, "t", l.ScriptsDir)
}

func TestFileLogging(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]bool{
		"":                   false,
		"off":                false,
		"OFF":                false,
		"-":                  false,
		"logs/schemagen.log": true,
	} {
		assert.Equal(t, want, Config{LogFile: in}.FileLogging(), in)
	}
}

func TestSetupLogger_Console(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger, closeFn := SetupLogger(Config{LogLevel: "warn", LogFile: "off"}, &buf)
	defer closeFn()

	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	out := buf.String()
	assert.NotContains(t, out, "quiet")
	assert.Contains(t, out, "loud")
	assert.Contains(t, out, "run_id")
}

func TestSetupLogger_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var buf bytes.Buffer
	logger, closeFn := SetupLogger(Config{LogLevel: "bogus", LogFile: path}, &buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("file", "a.csv").Msg("Parsing")
	require.NoError(t, closeFn())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := bytes.Split(bytes.TrimSpace(raw), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "Parsing", entry["message"])
	assert.Equal(t, "a.csv", entry["file"])
	assert.Equal(t, "info", entry["level"])
	assert.NotEmpty(t, entry["run_id"])
}

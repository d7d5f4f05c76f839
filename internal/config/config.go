package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"schemagen/internal/artifact"
	"schemagen/internal/normalize/model"
)

// EnvFiles are loaded, when present, before the environment is parsed.
// Variables already set in the process win.
var EnvFiles = []string{".env", ".env.local"}

type Config struct {
	StorageURI string `env:"GCLOUD_STORAGE_BUCKET_FOLDER_URI"`
	Dataset    string `env:"BIGQUERY_DATASET"`

	SourceDir          string `env:"SOURCE_DIR" envDefault:"data/sources"`
	StandardizedDir    string `env:"STANDARDIZED_DIR" envDefault:"data/sources_standardized"`
	SchemaDir          string `env:"SCHEMA_DIR" envDefault:"data/schemas"`
	TableDefinitionDir string `env:"TABLE_DEFINITION_DIR" envDefault:"data/table_definition_files"`
	ScriptsDir         string `env:"SCRIPTS_DIR" envDefault:"transformers"`

	LintThreshold float64 `env:"LINT_THRESHOLD" envDefault:"0.85"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"LOG_FILE" envDefault:"logs/schemagen.log"`
}

// Load reads the existing env files and then the process environment.
func Load(envFiles ...string) (Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return Config{}, err
	}
	var c Config
	if err := env.Parse(&c); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

// LoadEnv loads the files that exist and returns how many did.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, f := range envFiles {
		if fi, err := os.Stat(f); err == nil && !fi.IsDir() {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return 0, fmt.Errorf("load %s: %w", strings.Join(existing, ", "), err)
	}
	return len(existing), nil
}

// Validate checks that the settings generate cannot run without are present.
func (c Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.StorageURI) == "" {
		missing = append(missing, "GCLOUD_STORAGE_BUCKET_FOLDER_URI")
	}
	if strings.TrimSpace(c.Dataset) == "" {
		missing = append(missing, "BIGQUERY_DATASET")
	}
	if len(missing) > 0 {
		return &model.MissingConfigError{Settings: missing}
	}
	return nil
}

func (c Config) Layout() artifact.Layout {
	return artifact.Layout{
		StandardizedDir:    c.StandardizedDir,
		SchemaDir:          c.SchemaDir,
		TableDefinitionDir: c.TableDefinitionDir,
		ScriptsDir:         c.ScriptsDir,
	}
}

// FileLogging reports whether a rotating log file is configured.
func (c Config) FileLogging() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogFile)) {
	case "", "off", "-":
		return false
	}
	return true
}

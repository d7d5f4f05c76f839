// Package artifact writes everything generated for a batch of sources: the
// standardized CSV copies, schema and table definition JSON, the bq scripts
// and the dbt sources manifest.
package artifact

import (
	"path/filepath"
	"strings"

	"schemagen/internal/normalize/model"
)

// Layout is where generated files go.
type Layout struct {
	StandardizedDir    string
	SchemaDir          string
	TableDefinitionDir string
	ScriptsDir         string
}

// Paths are the per-source output files.
type Paths struct {
	CSV             string
	Schema          string
	TableDefinition string
}

func (l Layout) For(src model.Source) Paths {
	table := src.TableName()
	return Paths{
		CSV:             filepath.Join(l.StandardizedDir, src.StandardizedName()),
		Schema:          filepath.Join(l.SchemaDir, table+".json"),
		TableDefinition: filepath.Join(l.TableDefinitionDir, table),
	}
}

const (
	MakeScript    = "bq_make_tables.sh"
	RemoveScript  = "bq_remove_tables.sh"
	DBTSourcesYML = "dbt_sources.yml"
)

func (l Layout) MakeScriptPath() string   { return filepath.Join(l.ScriptsDir, MakeScript) }
func (l Layout) RemoveScriptPath() string { return filepath.Join(l.ScriptsDir, RemoveScript) }
func (l Layout) ManifestPath() string     { return filepath.Join(l.ScriptsDir, DBTSourcesYML) }

// StorageURI joins the remote folder and the standardized file name.
func StorageURI(base string, src model.Source) string {
	return strings.TrimSuffix(base, "/") + "/" + src.StandardizedName()
}

package artifact

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

const shebang = "#!/bin/bash"

// Batch collects the per-table lines of the bq scripts and the manifest
// entries, in processing order.
type Batch struct {
	Dataset string

	mk     []string
	rm     []string
	tables []string
}

func NewBatch(dataset string) *Batch {
	return &Batch{Dataset: dataset}
}

// Add records one table created from fileName with the definition at defPath.
func (b *Batch) Add(fileName, table, defPath string) {
	if !filepath.IsAbs(defPath) {
		defPath = "./" + filepath.ToSlash(filepath.Clean(defPath))
	}
	ref := b.Dataset + "." + table

	b.mk = append(b.mk, fmt.Sprintf(
		"bq mk --table --force=true --description %s --external_table_definition=%s %s",
		shellQuote("Raw version of "+fileName), defPath, ref,
	))
	b.rm = append(b.rm, "bq rm -f -t "+ref)
	b.tables = append(b.tables, table)
}

func (b *Batch) Len() int { return len(b.tables) }

func (b *Batch) MakeLines() []string   { return slices.Clone(b.mk) }
func (b *Batch) RemoveLines() []string { return slices.Clone(b.rm) }

// shellQuote wraps s in single quotes; embedded quotes become '\''.
func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// WriteScripts writes bq_make_tables.sh and bq_remove_tables.sh.
func (b *Batch) WriteScripts(l Layout) error {
	if err := writeScript(l.MakeScriptPath(), b.mk); err != nil {
		return err
	}
	return writeScript(l.RemoveScriptPath(), b.rm)
}

func writeScript(path string, lines []string) error {
	var buf bytes.Buffer
	buf.WriteString(shebang + "\n")
	for _, ln := range lines {
		buf.WriteString(ln + "\n")
	}
	return writeFile(path, buf.Bytes(), 0o755)
}

type manifest struct {
	Version int              `yaml:"version"`
	Sources []manifestSource `yaml:"sources"`
}

type manifestSource struct {
	Name   string          `yaml:"name"`
	Tables []manifestTable `yaml:"tables"`
}

type manifestTable struct {
	Name string `yaml:"name"`
}

// Manifest renders the dbt sources fragment with tables sorted by name.
func (b *Batch) Manifest() ([]byte, error) {
	names := slices.Clone(b.tables)
	slices.Sort(names)

	tables := make([]manifestTable, 0, len(names))
	for _, n := range names {
		tables = append(tables, manifestTable{Name: n})
	}
	m := manifest{
		Version: 2,
		Sources: []manifestSource{{Name: b.Dataset, Tables: tables}},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

func (b *Batch) WriteManifest(l Layout) error {
	data, err := b.Manifest()
	if err != nil {
		return err
	}
	return writeFile(l.ManifestPath(), data, 0o644)
}

// writeFile also fixes the mode of a file that already existed.
func writeFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, perm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Chmod(path, perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}

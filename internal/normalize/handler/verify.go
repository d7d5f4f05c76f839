package handler

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"

	"schemagen/internal/artifact"
	"schemagen/internal/config"
	"schemagen/internal/fileio"
	"schemagen/internal/normalize/model"
	"schemagen/internal/normalize/service"
)

// TableCheck is the verify outcome for one source.
type TableCheck struct {
	File       string   `json:"file"`
	Table      string   `json:"table"`
	SourceRows int      `json:"source_rows"`
	CopyRows   int      `json:"copy_rows"`
	Problems   []string `json:"problems,omitempty"`
}

func (c *TableCheck) addf(format string, args ...any) {
	c.Problems = append(c.Problems, fmt.Sprintf(format, args...))
}

type VerifyReport struct {
	Tables []TableCheck `json:"tables"`
}

func (r VerifyReport) OK() bool {
	for _, t := range r.Tables {
		if len(t.Problems) > 0 {
			return false
		}
	}
	return true
}

// Verify re-reads every source and the files generated from it and records
// where they disagree. Only I/O failures are returned as errors.
func Verify(ctx context.Context, cfg config.Config, logger zerolog.Logger) (VerifyReport, error) {
	var rep VerifyReport

	srcs, err := fileio.ListSources(cfg.SourceDir)
	if err != nil {
		return rep, err
	}
	layout := cfg.Layout()

	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("stopped before %s: %w", src.FileName, err)
		}
		check, err := verifyOne(cfg, layout.For(src), src, logger)
		if err != nil {
			return rep, err
		}
		rep.Tables = append(rep.Tables, check)
	}
	return rep, nil
}

func verifyOne(cfg config.Config, paths artifact.Paths, src model.Source, logger zerolog.Logger) (check TableCheck, err error) {
	check = TableCheck{File: src.FileName, Table: src.TableName()}
	defer recoverSource(src, logger.With().Str("file", src.FileName).Logger(), &err)

	in, err := openSource(src)
	if err != nil {
		return check, err
	}
	defer in.close()

	fields, names := service.Normalize(in.header)

	if err := compareCopy(&check, paths.CSV, names, in.rows); err != nil {
		return check, err
	}

	var schema []model.ColumnSchema
	missingSchema, err := readJSON(paths.Schema, &schema)
	if err != nil {
		return check, err
	}
	var def model.TableDefinition
	missingDef, err := readJSON(paths.TableDefinition, &def)
	if err != nil {
		return check, err
	}

	switch {
	case missingSchema:
		check.addf("schema %s is missing", paths.Schema)
	case !slices.Equal(schema, fields):
		check.addf("schema %s does not match the source header", paths.Schema)
	}
	switch {
	case missingDef:
		check.addf("table definition %s is missing", paths.TableDefinition)
	case !slices.Equal(def.Schema.Fields, fields):
		check.addf("table definition %s schema.fields does not match the source header", paths.TableDefinition)
	}
	if !missingSchema && !missingDef && !slices.Equal(schema, def.Schema.Fields) {
		check.addf("schema and table definition disagree")
	}
	if !missingDef && cfg.StorageURI != "" {
		if want := artifact.StorageURI(cfg.StorageURI, src); !slices.Equal(def.SourceURIs, []string{want}) {
			check.addf("table definition points at %v, want %s", def.SourceURIs, want)
		}
	}
	return check, nil
}

// compareCopy walks the source body and the standardized copy side by side.
// Only the first row-width difference is reported.
func compareCopy(check *TableCheck, path string, names []string, src artifact.RowReader) error {
	f, err := os.Open(path) //nolint:gosec // path comes from the configured layout
	if errors.Is(err, os.ErrNotExist) {
		check.addf("standardized copy %s is missing", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	out := csv.NewReader(f)
	out.FieldsPerRecord = -1

	header, err := out.Read()
	if errors.Is(err, io.EOF) {
		check.addf("standardized copy %s is empty", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !slices.Equal(header, names) {
		check.addf("standardized header %v, want %v", header, names)
	}

	srcDone, outDone := false, false
	widthReported := false
	for !srcDone || !outDone {
		var a, b []string
		if !srcDone {
			a, err = src.Read()
			if errors.Is(err, io.EOF) {
				srcDone = true
			} else if err != nil {
				return fmt.Errorf("%s: read row %d: %w", check.File, check.SourceRows+1, err)
			} else {
				check.SourceRows++
			}
		}
		if !outDone {
			b, err = out.Read()
			if errors.Is(err, io.EOF) {
				outDone = true
			} else if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			} else {
				check.CopyRows++
			}
		}
		if a != nil && b != nil && len(a) != len(b) && !widthReported {
			check.addf("row %d has %d columns in the copy, %d in the source", check.CopyRows, len(b), len(a))
			widthReported = true
		}
	}

	if check.SourceRows != check.CopyRows {
		check.addf("copy has %d data rows, source has %d", check.CopyRows, check.SourceRows)
	}
	return nil
}

// readJSON reports a missing file instead of failing on it.
func readJSON(path string, v any) (missing bool, err error) {
	raw, err := os.ReadFile(path) //nolint:gosec // path comes from the configured layout
	if errors.Is(err, os.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return false, nil
}

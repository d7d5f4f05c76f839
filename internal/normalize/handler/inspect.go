package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"schemagen/internal/fileio"
	"schemagen/internal/normalize/model"
	"schemagen/internal/normalize/service"
)

// InspectLine is what inspect prints for one source.
type InspectLine struct {
	File      string          `json:"file"`
	Table     string          `json:"table"`
	Kind      string          `json:"kind"`
	Encoding  model.Encoding  `json:"encoding"`
	Delimiter string          `json:"delimiter"`
	Raw       model.RawHeader `json:"raw"`
	Columns   []string        `json:"columns"`
}

// Inspect detects and normalizes the header of every source in dir and
// prints one JSON line each. Nothing is written to disk.
func Inspect(ctx context.Context, dir string, w io.Writer) error {
	srcs, err := fileio.ListSources(dir)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	for _, src := range srcs {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("stopped before %s: %w", src.FileName, err)
		}

		d, raw, err := inspectHeader(src)
		if err != nil {
			return err
		}
		_, names := service.Normalize(raw)

		if err := enc.Encode(InspectLine{
			File:      src.FileName,
			Table:     src.TableName(),
			Kind:      src.Kind.String(),
			Encoding:  d.Encoding,
			Delimiter: d.Delimiter.String(),
			Raw:       raw,
			Columns:   names,
		}); err != nil {
			return fmt.Errorf("write inspect line: %w", err)
		}
	}
	return nil
}

func inspectHeader(src model.Source) (model.Dialect, model.RawHeader, error) {
	if src.Kind == model.KindCSV {
		return fileio.DetectFile(src)
	}
	header, _, err := fileio.ReadSheet(src)
	return model.StandardDialect, header, err
}

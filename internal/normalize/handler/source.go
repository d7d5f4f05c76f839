package handler

import (
	"fmt"

	"schemagen/internal/artifact"
	"schemagen/internal/fileio"
	"schemagen/internal/normalize/model"
)

// openedSource is a source with its dialect worked out, positioned on the
// first data row.
type openedSource struct {
	dialect model.Dialect
	header  model.RawHeader
	rows    artifact.RowReader
	close   func() error
}

// openSource is swapped out in tests that need a reader to fail.
var openSource = openSourceFile

// openSourceFile runs the detector for CSV files. Spreadsheets are read whole
// and treated as standard CSV.
func openSourceFile(src model.Source) (*openedSource, error) {
	if src.Kind != model.KindCSV {
		header, body, err := fileio.ReadSheet(src)
		if err != nil {
			return nil, err
		}
		return &openedSource{
			dialect: model.StandardDialect,
			header:  header,
			rows:    artifact.SliceRows(body),
			close:   func() error { return nil },
		}, nil
	}

	d, header, err := fileio.DetectFile(src)
	if err != nil {
		return nil, err
	}
	body, err := fileio.OpenCSVBody(src, d)
	if err != nil {
		return nil, err
	}
	return &openedSource{dialect: d, header: header, rows: body, close: body.Close}, nil
}

// checkTables fails when two sources would write the same table.
func checkTables(srcs []model.Source) error {
	byTable := make(map[string]string, len(srcs))
	for _, s := range srcs {
		if prev, ok := byTable[s.TableName()]; ok {
			return fmt.Errorf("%w: %q and %q both become %s", model.ErrDuplicateTable, prev, s.FileName, s.TableName())
		}
		byTable[s.TableName()] = s.FileName
	}
	return nil
}

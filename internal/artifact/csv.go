package artifact

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RowReader yields data rows until io.EOF. *csv.Reader satisfies it.
type RowReader interface {
	Read() ([]string, error)
}

type sliceRows struct {
	rows [][]string
	i    int
}

func (s *sliceRows) Read() ([]string, error) {
	if s.i >= len(s.rows) {
		return nil, io.EOF
	}
	s.i++
	return s.rows[s.i-1], nil
}

// SliceRows adapts rows already in memory, e.g. a spreadsheet body.
func SliceRows(rows [][]string) RowReader { return &sliceRows{rows: rows} }

// WriteCSV writes header and then every row from rows to path as
// comma-delimited UTF-8. It returns the number of data rows written.
func WriteCSV(path string, header []string, rows RowReader) (n int, err error) {
	f, err := create(path, 0o644)
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}

	for {
		rec, rerr := rows.Read()
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return n, fmt.Errorf("read row %d: %w", n+1, rerr)
		}
		if err := w.Write(rec); err != nil {
			return n, fmt.Errorf("write %s: %w", path, err)
		}
		n++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return n, fmt.Errorf("flush %s: %w", path, err)
	}
	return n, nil
}

func create(path string, perm os.FileMode) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // output layout is operator-configured
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}

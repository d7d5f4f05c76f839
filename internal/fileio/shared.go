package fileio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"schemagen/internal/normalize/model"
)

var compressionExts = []struct {
	ext string
	c   model.Compression
}{
	{".gz", model.CompressionGZ},
	{".bz2", model.CompressionBZ2},
	{".xz", model.CompressionXZ},
	{".zst", model.CompressionZSTD},
}

// ListSources returns the convertible files directly under dir, in name order.
// Sub-directories, dot files and unknown extensions are skipped.
func ListSources(dir string) ([]model.Source, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	var out []model.Source
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		src, ok := classify(e.Name())
		if !ok {
			continue
		}
		src.Path = filepath.Join(dir, e.Name())
		out = append(out, src)
	}
	return out, nil
}

// classify picks the reader by extension, case-insensitively.
// Only CSV may be compressed.
func classify(fileName string) (model.Source, bool) {
	src := model.Source{FileName: fileName}
	stem := fileName
	lower := strings.ToLower(fileName)

	for _, ce := range compressionExts {
		if strings.HasSuffix(lower, ce.ext) {
			src.Compression = ce.c
			stem = stem[:len(stem)-len(ce.ext)]
			lower = lower[:len(lower)-len(ce.ext)]
			break
		}
	}

	ext := filepath.Ext(lower)
	switch {
	case ext == ".csv":
		src.Kind = model.KindCSV
	case ext == ".xlsx" && src.Compression == model.CompressionNone:
		src.Kind = model.KindXLSX
	case ext == ".xls" && src.Compression == model.CompressionNone:
		src.Kind = model.KindXLS
	default:
		return src, false
	}

	src.Name = stem[:len(stem)-len(ext)]
	if src.Name == "" {
		return src, false
	}
	return src, true
}

// sheetRows splits spreadsheet rows into header and body. Body rows are padded
// to the header width and rows with nothing but blanks are dropped.
func sheetRows(rows [][]string) ([]string, [][]string, error) {
	if len(rows) == 0 {
		return nil, nil, model.ErrEmptySource
	}
	header := rows[0]

	body := make([][]string, 0, len(rows)-1)
	for _, rec := range rows[1:] {
		empty := true
		for _, v := range rec {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}
		if len(rec) < len(header) {
			padded := make([]string, len(header))
			copy(padded, rec)
			rec = padded
		}
		body = append(body, rec)
	}
	return header, body, nil
}

// ReadSheet reads the first sheet of an xlsx/xls source.
func ReadSheet(src model.Source) ([]string, [][]string, error) {
	rc, err := Open(src)
	if err != nil {
		return nil, nil, err
	}
	defer rc.Close()

	var rows [][]string
	switch src.Kind {
	case model.KindXLSX:
		rows, err = readXLSX(rc)
	case model.KindXLS:
		rows, err = readXLS(rc)
	default:
		return nil, nil, fmt.Errorf("%s: not a spreadsheet", src.FileName)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", src.FileName, err)
	}

	header, body, err := sheetRows(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", src.FileName, err)
	}
	return header, body, nil
}

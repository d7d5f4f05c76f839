package artifact

import (
	"encoding/json"
	"fmt"

	"schemagen/internal/normalize/model"
)

// WriteSchema writes the column list as a JSON array.
func WriteSchema(path string, fields []model.ColumnSchema) error {
	if fields == nil {
		fields = []model.ColumnSchema{}
	}
	return writeJSON(path, fields)
}

func WriteTableDefinition(path string, def model.TableDefinition) error {
	return writeJSON(path, def)
}

func writeJSON(path string, v any) (err error) {
	f, err := create(path, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}

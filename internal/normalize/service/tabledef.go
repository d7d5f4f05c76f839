package service

import "schemagen/internal/normalize/model"

const (
	sourceFormatCSV = "CSV"
	encodingUTF8    = "UTF-8"
)

// NewTableDefinition builds a fresh external table definition for a CSV body
// written in dialect d. fields is copied.
func NewTableDefinition(d model.Dialect, fields []model.ColumnSchema, uri string) model.TableDefinition {
	out := make([]model.ColumnSchema, len(fields))
	copy(out, fields)

	return model.TableDefinition{
		CSVOptions: model.CSVOptions{
			AllowJaggedRows:                false,
			AllowQuotedNewlines:            false,
			Encoding:                       encodingUTF8,
			FieldDelimiter:                 d.Delimiter.String(),
			PreserveASCIIControlCharacters: false,
			Quote:                          `"`,
			SkipLeadingRows:                1,
		},
		Schema:       model.TableSchema{Fields: out},
		SourceFormat: sourceFormatCSV,
		SourceURIs:   []string{uri},
	}
}

package model

import "strings"

type Encoding string

const (
	EncodingUTF8    Encoding = "utf8"
	EncodingUTF8BOM Encoding = "utf8-bom"
)

type Delimiter rune

const (
	DelimiterComma     Delimiter = ','
	DelimiterSemicolon Delimiter = ';'
)

func (d Delimiter) String() string { return string(rune(d)) }

// Dialect is inferred once per source file from its header line.
type Dialect struct {
	Encoding  Encoding
	Delimiter Delimiter
}

// StandardDialect is the dialect of every standardized CSV we write.
var StandardDialect = Dialect{Encoding: EncodingUTF8, Delimiter: DelimiterComma}

// RawHeader holds row 1 of a source file as it was split, before cleaning.
type RawHeader []string

const (
	TypeString   = "string"
	ModeNullable = "nullable"
)

type ColumnSchema struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Mode string `json:"mode"`
}

type CSVOptions struct {
	AllowJaggedRows                bool   `json:"allowJaggedRows"`
	AllowQuotedNewlines            bool   `json:"allowQuotedNewlines"`
	Encoding                       string `json:"encoding"`
	FieldDelimiter                 string `json:"fieldDelimiter"`
	PreserveASCIIControlCharacters bool   `json:"preserveAsciiControlCharacters"`
	Quote                          string `json:"quote"`
	SkipLeadingRows                int    `json:"skipLeadingRows"`
}

type TableSchema struct {
	Fields []ColumnSchema `json:"fields"`
}

// TableDefinition is a BigQuery external table definition.
type TableDefinition struct {
	CSVOptions   CSVOptions  `json:"csvOptions"`
	Schema       TableSchema `json:"schema"`
	SourceFormat string      `json:"sourceFormat"`
	SourceURIs   []string    `json:"sourceUris"`
}

type SourceKind int

const (
	KindCSV SourceKind = iota
	KindXLSX
	KindXLS
)

func (k SourceKind) String() string {
	switch k {
	case KindXLSX:
		return "xlsx"
	case KindXLS:
		return "xls"
	default:
		return "csv"
	}
}

type Compression int

const (
	CompressionNone Compression = iota
	CompressionGZ
	CompressionBZ2
	CompressionXZ
	CompressionZSTD
)

// Source is one input file picked up from the source directory.
type Source struct {
	Path        string      // full path to the file
	FileName    string      // base name as listed, e.g. "Scores 2023.csv.gz"
	Name        string      // base name without source extensions, e.g. "Scores 2023"
	Kind        SourceKind
	Compression Compression
}

// TableName is the warehouse table name: spaces become underscores.
func (s Source) TableName() string {
	return strings.ReplaceAll(s.Name, " ", "_")
}

// StandardizedName is the file name of the cleaned CSV copy and of the
// remote object the table definition points at.
func (s Source) StandardizedName() string {
	return s.TableName() + ".csv"
}

// SimilarPair is two canonical column names that look alike.
type SimilarPair struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Score float64 `json:"score"`
}

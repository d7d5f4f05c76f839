package fileio

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemagen/internal/normalize/model"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		dialect model.Dialect
		header  model.RawHeader
	}{
		{
			name:    "comma",
			input:   "a,b,c\n1,2,3\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{"a", "b", "c"},
		},
		{
			name:    "semicolon",
			input:   "a;b;c\n1;2;3\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{"a", "b", "c"},
		},
		{
			name:    "bom comma",
			input:   "\xEF\xBB\xBFStudent #,Pass %\r\n1,2\r\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8BOM, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{"Student #", "Pass %"},
		},
		{
			name:    "bom semicolon",
			input:   "\xEF\xBB\xBFName;Score\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8BOM, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{"Name", "Score"},
		},
		{
			name:    "quoted comma stays in field",
			input:   "\"Last, First\",Grade\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{"Last, First", "Grade"},
		},
		{
			name:    "doubled quotes",
			input:   "\"The \"\"Best\"\" One\",x\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{`The "Best" One`, "x"},
		},
		{
			name:    "quoted newline in header",
			input:   "\"Line\nBreak\",b\n1,2\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{"Line\nBreak", "b"},
		},
		{
			name:    "bare quote does not swallow the next line",
			input:   "5\" Height,b\n1,2\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{`5" Height`, "b"},
		},
		{
			name:    "single column is read as semicolon",
			input:   "name\nSmith, John\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{"name"},
		},
		{
			name:    "empty header line",
			input:   "\n1,2\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{""},
		},
		{
			name:    "fully quoted semicolon header",
			input:   "\"Name\";\"Score\"\n1;2\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{"Name", `"Score"`},
		},
		{
			name:    "quote after semicolon is text",
			input:   "a;\"b\nc\"\n",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterSemicolon},
			header:  model.RawHeader{"a", `"b`},
		},
		{
			name:    "no trailing newline",
			input:   "a,b",
			dialect: model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma},
			header:  model.RawHeader{"a", "b"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, h, err := Detect(strings.NewReader(tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.dialect, d)
			assert.Equal(t, tt.header, h)
		})
	}
}

func TestDetect_ReadsOnlyHeader(t *testing.T) {
	t.Parallel()

	// the body switches delimiter; only row 1 counts
	d, h, err := Detect(strings.NewReader("a;b\n1,2,3\n4,5,6\n"))
	require.NoError(t, err)
	assert.Equal(t, model.DelimiterSemicolon, d.Delimiter)
	assert.Equal(t, model.RawHeader{"a", "b"}, h)
}

func TestDetect_EmptySource(t *testing.T) {
	t.Parallel()

	_, _, err := Detect(strings.NewReader(""))
	assert.ErrorIs(t, err, model.ErrEmptySource)

	_, _, err = Detect(strings.NewReader("\xEF\xBB\xBF"))
	assert.ErrorIs(t, err, model.ErrEmptySource)
}

func TestDetect_NotUTF8(t *testing.T) {
	t.Parallel()

	latin1 := "Stra\xdfe,Gr\xf6\xdfe,H\xe4user\nM\xfcnchen,1,2\n"
	_, _, err := Detect(strings.NewReader(latin1))

	var de *model.DecodeError
	require.True(t, errors.As(err, &de), "want DecodeError, got %v", err)
	assert.Contains(t, de.Error(), "not valid UTF-8")
}

func TestReadHeaderLine_LeavesBodyInPlace(t *testing.T) {
	t.Parallel()

	br := bufio.NewReader(strings.NewReader("\"a\nb\",c\r\n1,2\r\n"))
	line, err := ReadHeaderLine(br, model.DelimiterComma)
	require.NoError(t, err)
	assert.Equal(t, "\"a\nb\",c", line)

	rest, err := io.ReadAll(br)
	require.NoError(t, err)
	assert.Equal(t, "1,2\r\n", string(rest))
}

func TestReadHeaderLine_SemicolonQuotes(t *testing.T) {
	t.Parallel()

	br := bufio.NewReader(strings.NewReader("\"a\nb\";c\n1;2\n"))
	line, err := ReadHeaderLine(br, model.DelimiterSemicolon)
	require.NoError(t, err)
	assert.Equal(t, "\"a\nb\";c", line)
}

func TestSplitFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		comma  model.Delimiter
		fields []string
		open   bool
	}{
		{`a,b`, model.DelimiterComma, []string{"a", "b"}, false},
		{``, model.DelimiterComma, []string{""}, false},
		{`a,,b,`, model.DelimiterComma, []string{"a", "", "b", ""}, false},
		{`"a,b`, model.DelimiterComma, []string{"a,b"}, true},
		{`"a",b`, model.DelimiterComma, []string{"a", "b"}, false},
		{`a,"b`, model.DelimiterComma, []string{"a", "b"}, true},
		{`a;"b`, model.DelimiterComma, []string{`a;"b`}, false},
		{`a;"b`, model.DelimiterSemicolon, []string{"a", "b"}, true},
		{`5" tall,b`, model.DelimiterComma, []string{`5" tall`, "b"}, false},
		{`"a""b",c`, model.DelimiterComma, []string{`a"b`, "c"}, false},
		{`"a""`, model.DelimiterComma, []string{`a"`}, true},
		{`"Name";"Score"`, model.DelimiterComma, []string{`Name;"Score"`}, false},
		{`"Name";"Score"`, model.DelimiterSemicolon, []string{"Name", "Score"}, false},
		{`"x"y,z`, model.DelimiterComma, []string{"xy", "z"}, false},
	}
	for _, tt := range tests {
		fields, open := splitFields(tt.line, tt.comma)
		assert.Equal(t, tt.fields, fields, "%q split on %q", tt.line, tt.comma)
		assert.Equal(t, tt.open, open, "%q split on %q", tt.line, tt.comma)
	}
}

func writeFile(t *testing.T, dir, name, content string) model.Source {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	src, ok := classify(name)
	require.True(t, ok, name)
	src.Path = p
	return src
}

func readAllRows(t *testing.T, body *CSVBody) [][]string {
	t.Helper()
	var rows [][]string
	for {
		rec, err := body.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		rows = append(rows, rec)
	}
	return rows
}

func TestOpenCSVBody(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    [][]string
	}{
		{
			name:    "plain.csv",
			content: "a,b\n1,2\n3,4\n",
			want:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:    "bom semicolon.csv",
			content: "\xEF\xBB\xBFa;b\r\n1;\"x;y\"\r\n3;4\r\n",
			want:    [][]string{{"1", "x;y"}, {"3", "4"}},
		},
		{
			name:    "multiline header.csv",
			content: "\"a\nb\",c\n1,2\n",
			want:    [][]string{{"1", "2"}},
		},
		{
			name:    "jagged.csv",
			content: "a,b,c\n1,2\n3,4,5,6\n",
			want:    [][]string{{"1", "2"}, {"3", "4", "5", "6"}},
		},
		{
			name:    "one column.csv",
			content: "name\nSmith, John\nDoe, Jane\n",
			want:    [][]string{{"Smith, John"}, {"Doe, Jane"}},
		},
		{
			name:    "quoted semicolon.csv",
			content: "\"Name\";\"Score\"\n\"Ann\";\"9;5\"\n",
			want:    [][]string{{"Ann", "9;5"}},
		},
		{
			name:    "blank lines.csv",
			content: "a,b\n1,2\n\n3,4\n\n",
			want:    [][]string{{"1", "2"}, {"3", "4"}},
		},
		{
			name:    "header only.csv",
			content: "a,b\n",
			want:    nil,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := writeFile(t, dir, tt.name, tt.content)
			d, _, err := DetectFile(src)
			require.NoError(t, err)

			body, err := OpenCSVBody(src, d)
			require.NoError(t, err)
			defer body.Close()

			assert.Equal(t, tt.want, readAllRows(t, body))
		})
	}
}

func TestDetectFile_NamesTheFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := writeFile(t, dir, "legacy.csv", "Gr\xf6\xdfe,b\n")

	_, _, err := DetectFile(src)
	var de *model.DecodeError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "legacy.csv", de.File)

	empty := writeFile(t, dir, "empty.csv", "")
	_, _, err = DetectFile(empty)
	assert.ErrorIs(t, err, model.ErrEmptySource)
	assert.Contains(t, err.Error(), "empty.csv")
}

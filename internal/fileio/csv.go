package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"schemagen/internal/normalize/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// how much of the file chardet gets to look at when the header is not UTF-8
const charsetSampleSize = 4096

// Detect works out the encoding and delimiter of a CSV stream from its header
// line alone and returns that header split into raw fields. Nothing after the
// header is read.
func Detect(r io.Reader) (model.Dialect, model.RawHeader, error) {
	br := bufio.NewReader(r)
	d := model.Dialect{Encoding: model.EncodingUTF8, Delimiter: model.DelimiterComma}

	// 1) BOM probe on raw bytes, before any decoding
	if peek, _ := br.Peek(len(utf8BOM)); bytes.Equal(peek, utf8BOM) {
		d.Encoding = model.EncodingUTF8BOM
		_, _ = br.Discard(len(utf8BOM))
	}

	// 2) header line
	line, err := ReadHeaderLine(br, model.DelimiterComma)
	if err != nil {
		return d, nil, err
	}

	// 3) anything other than UTF-8 is out of scope; say what it looks like
	if !utf8.ValidString(line) {
		sample := []byte(line)
		if rest, _ := br.Peek(charsetSampleSize); len(rest) > 0 {
			sample = append(sample, rest...)
		}
		return d, nil, guessCharset(sample)
	}

	// 4) quote-aware split on comma
	header, _ := splitFields(line, model.DelimiterComma)

	// 5) nothing split on comma: semicolon file
	if len(header) == 1 {
		d.Delimiter = model.DelimiterSemicolon
		header = strings.Split(header[0], string(model.DelimiterSemicolon))
	}

	return d, header, nil
}

// ReadHeaderLine reads the header's logical line: the first physical line,
// continued while a quoted field is still open when split on comma. The line
// ending is dropped. An empty stream gives model.ErrEmptySource.
func ReadHeaderLine(br *bufio.Reader, comma model.Delimiter) (string, error) {
	var b strings.Builder
	for {
		chunk, err := br.ReadString('\n')
		b.WriteString(chunk)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			if b.Len() == 0 {
				return "", model.ErrEmptySource
			}
			break
		}
		if _, open := splitFields(strings.TrimRight(b.String(), "\r\n"), comma); !open {
			break
		}
	}
	return strings.TrimRight(b.String(), "\r\n"), nil
}

type fieldState int

const (
	fieldStart fieldState = iota
	inField
	inQuoted
	quoteInQuoted
)

// splitFields splits one logical line the way a lenient (non-strict) CSV
// reader does: a quote opens a field only as its first character, "" inside
// quotes is a literal quote, and anything after a closing quote other than
// the delimiter is kept as plain text, so `"a";"b"` is one field `a;"b"`.
// open reports that the line ended inside a quoted field.
func splitFields(line string, comma model.Delimiter) (fields []string, open bool) {
	sep := byte(comma)
	state := fieldStart
	var cur strings.Builder

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch state {
		case fieldStart, inField:
			switch {
			case c == sep:
				fields = append(fields, cur.String())
				cur.Reset()
				state = fieldStart
			case c == '"' && state == fieldStart:
				state = inQuoted
			default:
				cur.WriteByte(c)
				state = inField
			}
		case inQuoted:
			if c == '"' {
				state = quoteInQuoted
			} else {
				cur.WriteByte(c)
			}
		case quoteInQuoted:
			switch c {
			case '"':
				cur.WriteByte(c)
				state = inQuoted
			case sep:
				fields = append(fields, cur.String())
				cur.Reset()
				state = fieldStart
			default:
				cur.WriteByte(c)
				state = inField
			}
		}
	}
	return append(fields, cur.String()), state == inQuoted
}

func guessCharset(sample []byte) *model.DecodeError {
	de := &model.DecodeError{}
	if det, err := chardet.NewTextDetector().DetectBest(sample); err == nil && det != nil {
		de.Charset = strings.ToLower(det.Charset)
		de.Confidence = det.Confidence
	}
	return de
}

// decoderFor returns the UTF-8 decoder for a detected encoding. Invalid byte
// sequences in the body come out as U+FFFD so the copy is always valid UTF-8.
func decoderFor(enc model.Encoding) transform.Transformer {
	if enc == model.EncodingUTF8BOM {
		return unicode.UTF8BOM.NewDecoder()
	}
	return unicode.UTF8.NewDecoder()
}

// CSVBody reads the data rows of a CSV source; the header is already consumed.
type CSVBody struct {
	*csv.Reader
	close func() error
}

func (b *CSVBody) Close() error { return b.close() }

// OpenCSVBody re-opens src, decodes it according to d and positions a CSV
// reader on the first data row.
func OpenCSVBody(src model.Source, d model.Dialect) (*CSVBody, error) {
	rc, err := Open(src)
	if err != nil {
		return nil, err
	}

	br := bufio.NewReader(transform.NewReader(rc, decoderFor(d.Encoding)))
	if _, err := ReadHeaderLine(br, d.Delimiter); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("%s: skip header: %w", src.FileName, err)
	}

	cr := csv.NewReader(br)
	cr.Comma = rune(d.Delimiter)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	return &CSVBody{Reader: cr, close: rc.Close}, nil
}

// DetectFile runs Detect over a source file and closes it again.
func DetectFile(src model.Source) (model.Dialect, model.RawHeader, error) {
	rc, err := Open(src)
	if err != nil {
		return model.Dialect{}, nil, err
	}
	defer rc.Close()

	d, h, err := Detect(rc)
	if err != nil {
		var de *model.DecodeError
		if errors.As(err, &de) {
			de.File = src.FileName
			return d, nil, de
		}
		return d, nil, fmt.Errorf("%s: %w", src.FileName, err)
	}
	return d, h, nil
}

package fileio

import (
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"

	"schemagen/internal/normalize/model"
)

type readCloser struct {
	io.Reader
	close func() error
}

func (r readCloser) Close() error { return r.close() }

// Open opens a source file and undoes its compression, if any.
// Closing the result closes the decompressor and the file.
func Open(src model.Source) (io.ReadCloser, error) {
	f, err := os.Open(src.Path) //nolint:gosec // path comes from the configured source dir
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", src.Path, err)
	}

	r, cleanup, err := decompress(f, src.Compression)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", src.FileName, err)
	}

	return readCloser{Reader: r, close: func() error {
		cerr := cleanup()
		if ferr := f.Close(); ferr != nil && cerr == nil {
			cerr = ferr
		}
		return cerr
	}}, nil
}

func decompress(r io.Reader, c model.Compression) (io.Reader, func() error, error) {
	nop := func() error { return nil }

	switch c {
	case model.CompressionNone:
		return r, nop, nil

	case model.CompressionGZ:
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip reader: %w", err)
		}
		return gz, gz.Close, nil

	case model.CompressionBZ2:
		return bzip2.NewReader(r), nop, nil

	case model.CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("xz reader: %w", err)
		}
		return xr, nop, nil

	case model.CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd reader: %w", err)
		}
		return dec, func() error {
			dec.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression: %d", c)
	}
}

package ingest

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"io"
	"strings"
)

type compression int

const (
	compressionNone compression = iota
	compressionGZ
	compressionBZ2
	compressionXZ
	compressionZSTD
)

const (
	extGZ   = ".gz"
	extBZ2  = ".bz2"
	extXZ   = ".xz"
	extZSTD = ".zst"
)

// detectCompression returns the compression implied by the filename suffix and the filename with
// that suffix removed.
func detectCompression(filename string) (compression, string) {
	lower := strings.ToLower(filename)
	for _, c := range []struct {
		ext  string
		kind compression
	}{
		{extGZ, compressionGZ},
		{extBZ2, compressionBZ2},
		{extXZ, compressionXZ},
		{extZSTD, compressionZSTD},
	} {
		if strings.HasSuffix(lower, c.ext) {
			return c.kind, filename[:len(filename)-len(c.ext)]
		}
	}
	return compressionNone, filename
}

// decompress inflates data held entirely in memory.
func decompress(kind compression, data []byte) ([]byte, error) {
	var (
		reader io.Reader
		closer = func() {}
	)
	src := bytes.NewReader(data)

	switch kind {
	case compressionNone:
		return data, nil

	case compressionGZ:
		gzReader, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		reader, closer = gzReader, func() { _ = gzReader.Close() }

	case compressionBZ2:
		reader = bzip2.NewReader(src)

	case compressionXZ:
		xzReader, err := xz.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		reader = xzReader

	case compressionZSTD:
		decoder, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		reader, closer = decoder, decoder.Close

	default:
		return nil, fmt.Errorf("unsupported compression type: %v", kind)
	}
	defer closer()

	out, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress: %w", err)
	}
	return out, nil
}

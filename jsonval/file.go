package jsonval

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the framing applied to a JSON file on disk.
type Compression uint8

const (
	// CompressionNone stores plain JSON text.
	CompressionNone Compression = iota
	// CompressionLZ4 stores an LZ4 frame (fast, for hot documents).
	CompressionLZ4
	// CompressionZSTD stores a zstd frame (better ratio, for cold documents).
	CompressionZSTD
)

// CompressionFor picks the compression from the file extension:
// ".lz4" for LZ4, ".zst" for zstd, anything else for plain text.
func CompressionFor(path string) Compression {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lz4":
		return CompressionLZ4
	case ".zst":
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// DecodeFile reads and parses the JSON file at path, decompressing it
// according to CompressionFor.
func DecodeFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return Value{}, fmt.Errorf("jsonval: open %s: %w", path, err)
	}
	defer f.Close()

	return DecodeReader(f, CompressionFor(path))
}

// DecodeReader parses one JSON document from r.
func DecodeReader(r io.Reader, c Compression) (Value, error) {
	var src io.Reader
	switch c {
	case CompressionLZ4:
		src = lz4.NewReader(r)
	case CompressionZSTD:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return Value{}, fmt.Errorf("jsonval: zstd reader: %w", err)
		}
		defer dec.Close()
		src = dec
	default:
		src = r
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return Value{}, fmt.Errorf("jsonval: read: %w", err)
	}
	return Decode(data)
}

// EncodeFile writes v to path, compressing it according to CompressionFor.
func EncodeFile(path string, v *Value) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("jsonval: create %s: %w", path, err)
	}
	if err := EncodeWriter(f, v, CompressionFor(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// EncodeWriter writes the JSON text of v to w.
func EncodeWriter(w io.Writer, v *Value, c Compression) error {
	data, err := v.MarshalJSON()
	if err != nil {
		return fmt.Errorf("jsonval: encode: %w", err)
	}

	var dst io.WriteCloser
	switch c {
	case CompressionLZ4:
		dst = lz4.NewWriter(w)
	case CompressionZSTD:
		enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("jsonval: zstd writer: %w", err)
		}
		dst = enc
	default:
		_, err := io.Copy(w, bytes.NewReader(data))
		return err
	}

	if _, err := dst.Write(data); err != nil {
		_ = dst.Close()
		return fmt.Errorf("jsonval: write: %w", err)
	}
	return dst.Close()
}

package replay

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
)

// Writer records envelopes as a replay stream
type Writer struct {
	enc     *json.Encoder
	flush   func() error
	closers []func() error
	count   int
}

// CompressionFor picks the compression implied by a file name
func CompressionFor(path string) Compression {
	switch {
	case strings.HasSuffix(path, ".zst"):
		return CompressionZstd
	case strings.HasSuffix(path, ".lz4"):
		return CompressionLZ4
	default:
		return CompressionNone
	}
}

// Create opens path for recording with the compression its suffix implies
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create replay: %w", err)
	}
	w, err := NewWriter(f, CompressionFor(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	w.closers = append(w.closers, f.Close)
	return w, nil
}

// NewWriter wraps dst. Closing the writer does not close dst.
func NewWriter(dst io.Writer, compression Compression) (*Writer, error) {
	w := &Writer{flush: func() error { return nil }}
	var body io.Writer = dst

	switch compression {
	case CompressionZstd:
		enc, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd encoder: %w", err)
		}
		w.flush = enc.Flush
		w.closers = append(w.closers, enc.Close)
		body = enc
	case CompressionLZ4:
		zw := lz4.NewWriter(dst)
		w.flush = zw.Flush
		w.closers = append(w.closers, zw.Close)
		body = zw
	case CompressionNone, "":
	default:
		return nil, fmt.Errorf("unsupported compression %q", compression)
	}

	w.enc = json.NewEncoder(body)
	return w, nil
}

// Write appends one envelope
func (w *Writer) Write(env wire.Envelope) error {
	if err := w.enc.Encode(env); err != nil {
		return fmt.Errorf("failed to write envelope: %w", err)
	}
	w.count++
	return nil
}

// Count is the number of envelopes written
func (w *Writer) Count() int { return w.count }

// Flush pushes buffered compressed data to the destination
func (w *Writer) Flush() error { return w.flush() }

// Close finalizes the stream, encoder first
func (w *Writer) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}

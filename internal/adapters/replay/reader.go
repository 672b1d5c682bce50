// Package replay reads and writes recorded simulation streams: one JSON
// envelope per line, optionally zstd or lz4 compressed.
package replay

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/andrescamacho/rtsbot-go/internal/adapters/wire"
)

// Compression of a replay stream
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

var (
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
)

// maxLine bounds a single envelope
const maxLine = 8 * 1024 * 1024

// Reader yields envelopes from a recorded stream
type Reader struct {
	scanner     *bufio.Scanner
	closers     []func()
	line        int
	compression Compression
}

// Open opens a replay file, detecting compression from its leading bytes
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open replay: %w", err)
	}
	r, err := NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.closers = append(r.closers, func() { _ = f.Close() })
	return r, nil
}

// NewReader wraps a stream, detecting compression from its leading bytes
func NewReader(src io.Reader) (*Reader, error) {
	br := bufio.NewReader(src)
	head, err := br.Peek(4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read replay header: %w", err)
	}

	r := &Reader{compression: CompressionNone}
	var body io.Reader = br
	switch {
	case bytes.Equal(head, zstdMagic):
		dec, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open zstd stream: %w", err)
		}
		r.closers = append(r.closers, dec.Close)
		r.compression = CompressionZstd
		body = dec
	case bytes.Equal(head, lz4Magic):
		r.compression = CompressionLZ4
		body = lz4.NewReader(br)
	}

	r.scanner = bufio.NewScanner(body)
	r.scanner.Buffer(make([]byte, 64*1024), maxLine)
	return r, nil
}

// Compression reports the detected stream compression
func (r *Reader) Compression() Compression { return r.compression }

// Next returns the next envelope, or io.EOF at the end of the stream.
// Blank lines are skipped.
func (r *Reader) Next() (wire.Envelope, error) {
	for r.scanner.Scan() {
		r.line++
		line := bytes.TrimSpace(r.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		env, err := wire.Decode(line)
		if err != nil {
			return env, fmt.Errorf("line %d: %w", r.line, err)
		}
		return env, nil
	}
	if err := r.scanner.Err(); err != nil {
		return wire.Envelope{}, fmt.Errorf("line %d: %w", r.line+1, err)
	}
	return wire.Envelope{}, io.EOF
}

// Close releases the decoder and the file, innermost first
func (r *Reader) Close() error {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
	return nil
}

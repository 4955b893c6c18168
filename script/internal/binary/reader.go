package binary

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrUnterminated is returned when a NUL-terminated string runs off the end of the data.
var ErrUnterminated = errors.New("unterminated string")

// Reader reads fixed-width little-endian fields from a byte slice with position tracking.
type Reader struct {
	data []byte
	pos  int
}

// NewReader creates a new Reader positioned at offset 0.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Position returns the current byte position.
func (r *Reader) Position() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// Reset seeks to the given position.
func (r *Reader) Reset(pos int) error {
	if pos < 0 || pos > len(r.data) {
		return r.wrapError(fmt.Errorf("seek to %d outside [0, %d]", pos, len(r.data)))
	}
	r.pos = pos
	return nil
}

// ReadU32LE reads a little-endian uint32 (fixed 4 bytes).
// It returns io.EOF when no bytes remain and io.ErrUnexpectedEOF when
// fewer than four do; the position is unchanged in both cases.
func (r *Reader) ReadU32LE() (uint32, error) {
	switch rem := r.Remaining(); {
	case rem == 0:
		return 0, io.EOF
	case rem < 4:
		return 0, io.ErrUnexpectedEOF
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

// ReadI32LE reads a little-endian int32 (fixed 4 bytes).
func (r *Reader) ReadI32LE() (int32, error) {
	v, err := r.ReadU32LE()
	return int32(v), err
}

// ReadF32LE reads a little-endian IEEE 754 float32 (fixed 4 bytes).
func (r *Reader) ReadF32LE() (float32, error) {
	v, err := r.ReadU32LE()
	return math.Float32frombits(v), err
}

// ReadCString reads bytes up to the next NUL and consumes the NUL.
// The returned slice excludes the terminator and aliases the input.
func (r *Reader) ReadCString() ([]byte, error) {
	start := r.pos
	for i := start; i < len(r.data); i++ {
		if r.data[i] == 0 {
			r.pos = i + 1
			return r.data[start:i], nil
		}
	}
	return nil, fmt.Errorf("at position %d: %w", start, ErrUnterminated)
}

// CStringAt reads the NUL-terminated string starting at off without moving the reader.
func (r *Reader) CStringAt(off int) ([]byte, error) {
	if off < 0 || off >= len(r.data) {
		return nil, r.wrapError(fmt.Errorf("offset %d outside [0, %d)", off, len(r.data)))
	}
	saved := r.pos
	r.pos = off
	b, err := r.ReadCString()
	r.pos = saved
	return b, err
}

func (r *Reader) wrapError(err error) error {
	return fmt.Errorf("at position %d: %w", r.pos, err)
}

package binary

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Writer provides buffered writing utilities for script image encoding.
type Writer struct {
	buf *bytes.Buffer
}

// NewWriter creates a new Writer with room for sizeHint bytes.
func NewWriter(sizeHint int) *Writer {
	buf := &bytes.Buffer{}
	if sizeHint > 0 {
		buf.Grow(sizeHint)
	}
	return &Writer{buf: buf}
}

// Bytes returns the written bytes.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

// Len returns the number of bytes written.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteBytes writes a byte slice.
func (w *Writer) WriteBytes(data []byte) {
	w.buf.Write(data)
}

// WriteU32LE writes a little-endian uint32 (fixed 4 bytes).
func (w *Writer) WriteU32LE(v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.buf.Write(buf[:])
}

// WriteCString writes data followed by a NUL terminator.
func (w *Writer) WriteCString(data []byte) {
	w.buf.Write(data)
	w.buf.WriteByte(0)
}

// Align appends zero bytes until Len is a multiple of n.
func (w *Writer) Align(n int) {
	for pad := AlignUp(w.buf.Len(), n) - w.buf.Len(); pad > 0; pad-- {
		w.buf.WriteByte(0)
	}
}

// PutU32LE overwrites 4 already-written bytes at off.
func (w *Writer) PutU32LE(off int, v uint32) error {
	if off < 0 || off+4 > w.buf.Len() {
		return fmt.Errorf("patch at %d outside written range [0, %d)", off, w.buf.Len())
	}
	binary.LittleEndian.PutUint32(w.buf.Bytes()[off:], v)
	return nil
}

// AlignUp rounds v up to the next multiple of n; n must be a power of two.
func AlignUp(v, n int) int {
	return (v + n - 1) &^ (n - 1)
}

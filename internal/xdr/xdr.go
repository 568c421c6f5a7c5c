// Package xdr reads and writes the little-endian sample encoding used
// inside OpenEXR pixel blocks.
//
// Every multi-byte value in a block payload is little-endian regardless of
// the host. The Reader is bounds checked and never panics on short input;
// the BufferWriter grows as needed.
package xdr

import (
	"encoding/binary"
	"errors"
	"math"
)

var (
	// ErrShortBuffer is returned when fewer bytes remain than a read needs.
	ErrShortBuffer = errors.New("xdr: buffer too short")

	// ErrNegativeSize is returned for negative element counts.
	ErrNegativeSize = errors.New("xdr: negative size")
)

// ByteOrder is the byte order of block payloads.
var ByteOrder = binary.LittleEndian

// Reader decodes values from a byte slice, tracking its position.
type Reader struct {
	data []byte
	pos  int
}

// NewReader returns a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.data) - r.pos
}

// Pos returns the number of bytes consumed so far.
func (r *Reader) Pos() int {
	return r.pos
}

// Need reports ErrShortBuffer unless n more bytes are available.
func (r *Reader) Need(n int) error {
	if n < 0 {
		return ErrNegativeSize
	}
	if n > r.Len() {
		return ErrShortBuffer
	}
	return nil
}

// ReadUint16s fills dst. Nothing is consumed if the buffer is too short.
func (r *Reader) ReadUint16s(dst []uint16) error {
	if err := r.Need(2 * len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = ByteOrder.Uint16(r.data[r.pos:])
		r.pos += 2
	}
	return nil
}

// ReadUint32s fills dst. Nothing is consumed if the buffer is too short.
func (r *Reader) ReadUint32s(dst []uint32) error {
	if err := r.Need(4 * len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = ByteOrder.Uint32(r.data[r.pos:])
		r.pos += 4
	}
	return nil
}

// ReadFloat32s fills dst. Nothing is consumed if the buffer is too short.
func (r *Reader) ReadFloat32s(dst []float32) error {
	if err := r.Need(4 * len(dst)); err != nil {
		return err
	}
	for i := range dst {
		dst[i] = math.Float32frombits(ByteOrder.Uint32(r.data[r.pos:]))
		r.pos += 4
	}
	return nil
}

// BufferWriter appends little-endian values to a growing buffer.
type BufferWriter struct {
	buf []byte
}

// NewBufferWriter returns a BufferWriter with the given initial capacity.
func NewBufferWriter(capacity int) *BufferWriter {
	return &BufferWriter{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written.
func (w *BufferWriter) Len() int {
	return len(w.buf)
}

// Bytes returns the written data. It aliases the internal buffer until the
// next write.
func (w *BufferWriter) Bytes() []byte {
	return w.buf
}

// WriteUint16s appends every value of src.
func (w *BufferWriter) WriteUint16s(src []uint16) {
	for _, v := range src {
		w.buf = ByteOrder.AppendUint16(w.buf, v)
	}
}

// WriteUint32s appends every value of src.
func (w *BufferWriter) WriteUint32s(src []uint32) {
	for _, v := range src {
		w.buf = ByteOrder.AppendUint32(w.buf, v)
	}
}

// WriteFloat32s appends the bit pattern of every value of src.
func (w *BufferWriter) WriteFloat32s(src []float32) {
	for _, v := range src {
		w.buf = ByteOrder.AppendUint32(w.buf, math.Float32bits(v))
	}
}

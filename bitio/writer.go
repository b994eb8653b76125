// Package bitio implements the §4.1 BitStream/ByteIO primitives: little-
// endian integer and IEEE-754 float encoding, four-byte magic tags, and
// length-prefixed UTF-8 strings, layered over plain io.Reader/io.Writer
// instead of the spec's C callback pair (the idiomatic sink/source
// replacement called for in spec.md §9).
//
// The stream is sequential and non-seekable; there is no internal buffering
// beyond a small scratch array per Writer/Reader.
package bitio

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/wangfeilong321/openctm/endian"
	"github.com/wangfeilong321/openctm/errs"
)

// Writer sequentially encodes little-endian primitives to an underlying
// io.Writer.
type Writer struct {
	w     io.Writer
	Count int64 // total bytes written so far
}

// NewWriter wraps w in a Writer.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) writeBytes(b []byte) error {
	n, err := w.w.Write(b)
	w.Count += int64(n)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrIO, err)
	}
	if n != len(b) {
		return fmt.Errorf("%w: short write: wrote %d of %d bytes", errs.ErrIO, n, len(b))
	}

	return nil
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	var b [4]byte
	endian.LittleEndian.PutUint32(b[:], v)

	return w.writeBytes(b[:])
}

// WriteI32 writes a little-endian two's-complement int32.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v)) //nolint: gosec
}

// WriteF32 writes an IEEE-754 32-bit little-endian float.
func (w *Writer) WriteF32(v float32) error {
	return w.WriteU32(f32bits(v))
}

// WriteTag writes a fixed 4-byte ASCII tag, e.g. "OCTM" or "INDX".
func (w *Writer) WriteTag(tag string) error {
	if len(tag) != 4 {
		return fmt.Errorf("%w: tag must be exactly 4 bytes, got %d", errs.ErrInternal, len(tag))
	}

	return w.writeBytes([]byte(tag))
}

// WriteString writes a length-prefixed UTF-8 string: a u32 byte count
// followed by the raw bytes, with no NUL terminator.
func (w *Writer) WriteString(s string) error {
	if err := w.WriteU32(uint32(len(s))); err != nil { //nolint: gosec
		return err
	}
	if len(s) == 0 {
		return nil
	}

	return w.writeBytes([]byte(s))
}

// WriteBytes writes a raw byte slice with no length prefix.
func (w *Writer) WriteBytes(b []byte) error {
	return w.writeBytes(b)
}

// WriteU32Slice writes n little-endian uint32 values back to back.
//
// On a little-endian host the slice's backing array is reinterpreted as
// bytes directly; on a big-endian host it falls back to a per-element Put
// loop. Both paths produce byte-identical output.
func (w *Writer) WriteU32Slice(v []uint32) error {
	if len(v) == 0 {
		return nil
	}
	if endian.IsNativeLittleEndian() {
		return w.writeBytes(u32sToBytes(v))
	}

	buf := make([]byte, 4*len(v))
	for i, x := range v {
		endian.LittleEndian.PutUint32(buf[i*4:], x)
	}

	return w.writeBytes(buf)
}

// WriteI32Slice writes n little-endian signed int32 values back to back.
func (w *Writer) WriteI32Slice(v []int32) error {
	if len(v) == 0 {
		return nil
	}
	u := make([]uint32, len(v))
	for i, x := range v {
		u[i] = uint32(x) //nolint: gosec
	}

	return w.WriteU32Slice(u)
}

// WriteF32Slice writes n IEEE-754 32-bit little-endian floats back to back.
func (w *Writer) WriteF32Slice(v []float32) error {
	if len(v) == 0 {
		return nil
	}
	if endian.IsNativeLittleEndian() {
		return w.writeBytes(f32sToBytes(v))
	}

	buf := make([]byte, 4*len(v))
	for i, x := range v {
		endian.LittleEndian.PutUint32(buf[i*4:], f32bits(x))
	}

	return w.writeBytes(buf)
}

func f32bits(v float32) uint32 {
	return *(*uint32)(unsafe.Pointer(&v))
}

// u32sToBytes reinterprets a []uint32 as a []byte without copying. Only
// safe to call on a little-endian host, and only for the lifetime of v.
func u32sToBytes(v []uint32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

// f32sToBytes reinterprets a []float32 as a []byte without copying. Only
// safe to call on a little-endian host, and only for the lifetime of v.
func f32sToBytes(v []float32) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v[0])), len(v)*4)
}

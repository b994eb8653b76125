package bitio

import (
	"fmt"
	"io"
	"unsafe"

	"github.com/wangfeilong321/openctm/endian"
	"github.com/wangfeilong321/openctm/errs"
)

// Reader sequentially decodes little-endian primitives from an underlying
// io.Reader.
type Reader struct {
	r     io.Reader
	Count int64 // total bytes read so far
}

// NewReader wraps r in a Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) readBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	nr, err := io.ReadFull(r.r, b)
	r.Count += int64(nr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrIO, err)
	}

	return b, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return 0, err
	}

	return endian.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian two's-complement int32.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.ReadU32()
	return int32(u), err //nolint: gosec
}

// ReadF32 reads an IEEE-754 32-bit little-endian float.
func (r *Reader) ReadF32() (float32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}

	return f32frombits(u), nil
}

// ReadTag reads a fixed 4-byte ASCII tag and returns it as a string.
func (r *Reader) ReadTag() (string, error) {
	b, err := r.readBytes(4)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ExpectTag reads a 4-byte tag and returns errs.ErrFormat if it doesn't
// equal want.
func (r *Reader) ExpectTag(want string) error {
	got, err := r.ReadTag()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("%w: expected tag %q, got %q", errs.ErrFormat, want, got)
	}

	return nil
}

// ReadString reads a u32 byte-length prefix followed by that many raw UTF-8
// bytes (no NUL terminator on the wire).
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := r.readBytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// ReadBytes reads n raw bytes with no length prefix.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	return r.readBytes(n)
}

// ReadU32Slice reads n little-endian uint32 values back to back.
func (r *Reader) ReadU32Slice(n int) ([]uint32, error) {
	if n == 0 {
		return nil, nil
	}
	b, err := r.readBytes(4 * n)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, n)
	for i := range out {
		out[i] = endian.LittleEndian.Uint32(b[i*4:])
	}

	return out, nil
}

// ReadI32Slice reads n little-endian signed int32 values back to back.
func (r *Reader) ReadI32Slice(n int) ([]int32, error) {
	u, err := r.ReadU32Slice(n)
	if err != nil {
		return nil, err
	}

	out := make([]int32, n)
	for i, x := range u {
		out[i] = int32(x) //nolint: gosec
	}

	return out, nil
}

// ReadF32Slice reads n IEEE-754 32-bit little-endian floats back to back.
func (r *Reader) ReadF32Slice(n int) ([]float32, error) {
	u, err := r.ReadU32Slice(n)
	if err != nil {
		return nil, err
	}

	out := make([]float32, n)
	for i, x := range u {
		out[i] = f32frombits(x)
	}

	return out, nil
}

func f32frombits(u uint32) float32 {
	return *(*float32)(unsafe.Pointer(&u))
}

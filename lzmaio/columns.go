// Column pack/unpack helpers shared by codec/mg1 and codec/mg2: every
// stream (index deltas, quantized coordinates, normal residuals, map
// channels) is a flat column of one fixed-width type, laid out little-endian
// and handed to Compress/Decompress as a single byte run. The scratch byte
// buffer is borrowed from internal/pool's chunk pool rather than allocated
// fresh per column, since MG1/MG2 bodies pack dozens of these per mesh.
package lzmaio

import (
	"math"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/internal/pool"
)

// CompressU32Column packs a column of raw uint32 values (cell ids, grid
// indices, ...) as one LZMA stage frame.
func CompressU32Column(w *bitio.Writer, col []uint32, level int) error {
	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.ExtendOrGrow(4 * len(col))
	raw := bb.Bytes()
	for i, v := range col {
		putU32LE(raw[i*4:], v)
	}

	return Compress(w, raw, level)
}

// DecompressU32Column reverses CompressU32Column.
func DecompressU32Column(r *bitio.Reader, n int) ([]uint32, error) {
	raw, err := Decompress(r)
	if err != nil {
		return nil, err
	}

	out := make([]uint32, n)
	for i := range out {
		out[i] = getU32LE(raw[i*4:])
	}

	return out, nil
}

// CompressI32Column packs a column of signed 32-bit values (deltas) as one
// LZMA stage frame, byte-plane transposed (see transposePlanes) so adjacent
// deltas' shared high-order bytes sit next to each other in the stream.
func CompressI32Column(w *bitio.Writer, col []int32, level int) error {
	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.ExtendOrGrow(4 * len(col))
	raw := bb.Bytes()
	for i, v := range col {
		putU32LE(raw[i*4:], uint32(v)) //nolint:gosec
	}

	tb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(tb)
	tb.ExtendOrGrow(4 * len(col))
	transposePlanes(tb.Bytes(), raw, len(col))

	return Compress(w, tb.Bytes(), level)
}

// DecompressI32Column reverses CompressI32Column.
func DecompressI32Column(r *bitio.Reader, n int) ([]int32, error) {
	raw, err := Decompress(r)
	if err != nil {
		return nil, err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.ExtendOrGrow(4 * n)
	untransposePlanes(bb.Bytes(), raw, n)
	plain := bb.Bytes()

	out := make([]int32, n)
	for i := range out {
		out[i] = int32(getU32LE(plain[i*4:])) //nolint:gosec
	}

	return out, nil
}

// CompressF32Column packs a column of IEEE-754 floats as one LZMA stage
// frame, byte-plane transposed so LZMA's dictionary sees the shared
// exponent/sign bytes of neighboring floats back to back (spec.md's
// "column-major transpose" glossary entry).
func CompressF32Column(w *bitio.Writer, col []float32, level int) error {
	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.ExtendOrGrow(4 * len(col))
	raw := bb.Bytes()
	for i, v := range col {
		putU32LE(raw[i*4:], math.Float32bits(v))
	}

	tb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(tb)
	tb.ExtendOrGrow(4 * len(col))
	transposePlanes(tb.Bytes(), raw, len(col))

	return Compress(w, tb.Bytes(), level)
}

// DecompressF32Column reverses CompressF32Column.
func DecompressF32Column(r *bitio.Reader, n int) ([]float32, error) {
	raw, err := Decompress(r)
	if err != nil {
		return nil, err
	}

	bb := pool.GetChunkBuffer()
	defer pool.PutChunkBuffer(bb)
	bb.ExtendOrGrow(4 * n)
	untransposePlanes(bb.Bytes(), raw, n)
	plain := bb.Bytes()

	out := make([]float32, n)
	for i := range out {
		out[i] = math.Float32frombits(getU32LE(plain[i*4:]))
	}

	return out, nil
}

func putU32LE(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
}

func getU32LE(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

// transposePlanes reorders n consecutive 4-byte little-endian values from
// interleaved layout (v0b0 v0b1 v0b2 v0b3 v1b0 ...) into byte-plane layout
// (all byte-0s, then all byte-1s, then all byte-2s, then all byte-3s), per
// spec.md's GLOSSARY "Column-major transpose (of floats)" entry.
func transposePlanes(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i] = src[i*4]
		dst[n+i] = src[i*4+1]
		dst[2*n+i] = src[i*4+2]
		dst[3*n+i] = src[i*4+3]
	}
}

// untransposePlanes reverses transposePlanes.
func untransposePlanes(dst, src []byte, n int) {
	for i := 0; i < n; i++ {
		dst[i*4] = src[i]
		dst[i*4+1] = src[n+i]
		dst[i*4+2] = src[2*n+i]
		dst[i*4+3] = src[3*n+i]
	}
}

package mg1

import (
	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/lzmaio"
	"github.com/wangfeilong321/openctm/mesh"
	"github.com/wangfeilong321/openctm/reorder"
)

// Decode reads an MG1 body from r into a freshly constructed mesh. The
// returned mesh's vertex order is the encoder's reordered order, not the
// original caller order (spec.md §8: round-trip is permutation-equivalent,
// not index-stable).
func Decode(r *bitio.Reader) (*mesh.Mesh, error) {
	vertexCount, triangleCount, uvMapCount, attribMapCount, hasNormals, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	m := mesh.New()

	if err := r.ExpectTag(format.TagINDX); err != nil {
		return nil, err
	}
	first, err := lzmaio.DecompressI32Column(r, int(triangleCount))
	if err != nil {
		return nil, err
	}
	second, err := lzmaio.DecompressI32Column(r, int(triangleCount))
	if err != nil {
		return nil, err
	}
	third, err := lzmaio.DecompressI32Column(r, int(triangleCount))
	if err != nil {
		return nil, err
	}
	m.Indices = reorder.DecodeIndexColumns(first, second, third)

	if err := r.ExpectTag(format.TagVERT); err != nil {
		return nil, err
	}
	m.Vertices, err = unpackVec3Columns(r, int(vertexCount))
	if err != nil {
		return nil, err
	}

	if hasNormals {
		if err := r.ExpectTag(format.TagNORM); err != nil {
			return nil, err
		}
		m.Normals, err = unpackVec3Columns(r, int(vertexCount))
		if err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < uvMapCount; i++ {
		tm, err := decodeTexMap(r, int(vertexCount))
		if err != nil {
			return nil, err
		}
		if _, err := m.AddTexMap(tm); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < attribMapCount; i++ {
		am, err := decodeAttribMap(r, int(vertexCount))
		if err != nil {
			return nil, err
		}
		if _, err := m.AddAttribMap(am); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func decodeTexMap(r *bitio.Reader, vertexCount int) (*mesh.TexMap, error) {
	if err := r.ExpectTag(format.TagTEXC); err != nil {
		return nil, err
	}
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	filename, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	precision, err := r.ReadF32()
	if err != nil {
		return nil, err
	}

	x, err := lzmaio.DecompressF32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}
	y, err := lzmaio.DecompressF32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}

	coords := make([]mesh.Vec2, vertexCount)
	for i := range coords {
		coords[i] = mesh.Vec2{X: x[i], Y: y[i]}
	}

	tm := mesh.NewTexMap(name, filename, coords)
	tm.Precision = precision

	return tm, nil
}

func decodeAttribMap(r *bitio.Reader, vertexCount int) (*mesh.AttribMap, error) {
	if err := r.ExpectTag(format.TagATTR); err != nil {
		return nil, err
	}
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	precision, err := r.ReadF32()
	if err != nil {
		return nil, err
	}

	cols := make([][]float32, 4)
	for i := range cols {
		col, err := lzmaio.DecompressF32Column(r, vertexCount)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}

	values := make([]mesh.Vec4, vertexCount)
	for i := range values {
		values[i] = mesh.Vec4{X: cols[0][i], Y: cols[1][i], Z: cols[2][i], W: cols[3][i]}
	}

	am := mesh.NewAttribMap(name, values)
	am.Precision = precision

	return am, nil
}

// readHeader reads and validates the "MG1\0" sub-header, returning the
// counts and flags it carries.
func readHeader(r *bitio.Reader) (vertexCount, triangleCount, uvMapCount, attribMapCount uint32, hasNormals bool, err error) {
	if err = r.ExpectTag(format.TagMG1); err != nil {
		return
	}
	if vertexCount, err = r.ReadU32(); err != nil {
		return
	}
	if triangleCount, err = r.ReadU32(); err != nil {
		return
	}
	if uvMapCount, err = r.ReadU32(); err != nil {
		return
	}
	if attribMapCount, err = r.ReadU32(); err != nil {
		return
	}

	flags, err := r.ReadU32()
	if err != nil {
		return
	}
	hasNormals = flags&format.FlagHasNormals != 0

	return
}

func unpackVec3Columns(r *bitio.Reader, n int) ([]mesh.Vec3, error) {
	x, err := lzmaio.DecompressF32Column(r, n)
	if err != nil {
		return nil, err
	}
	y, err := lzmaio.DecompressF32Column(r, n)
	if err != nil {
		return nil, err
	}
	z, err := lzmaio.DecompressF32Column(r, n)
	if err != nil {
		return nil, err
	}

	out := make([]mesh.Vec3, n)
	for i := range out {
		out[i] = mesh.Vec3{X: x[i], Y: y[i], Z: z[i]}
	}

	return out, nil
}

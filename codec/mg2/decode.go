package mg2

import (
	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/internal/delta"
	"github.com/wangfeilong321/openctm/lzmaio"
	"github.com/wangfeilong321/openctm/mesh"
	"github.com/wangfeilong321/openctm/reorder"
)

// Decode reads an MG2 body from r into a freshly constructed mesh. As with
// MG1, the returned vertex order is the encoder's internal order (reorder
// pass followed by grid sort), not the original caller order; positions,
// normals, and map values are recovered only up to their declared
// precisions.
func Decode(r *bitio.Reader) (*mesh.Mesh, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	vertexCount := int(h.VertexCount)
	triangleCount := int(h.TriangleCount)

	if err := r.ExpectTag(format.TagINDX); err != nil {
		return nil, err
	}
	first, err := lzmaio.DecompressI32Column(r, triangleCount)
	if err != nil {
		return nil, err
	}
	second, err := lzmaio.DecompressI32Column(r, triangleCount)
	if err != nil {
		return nil, err
	}
	third, err := lzmaio.DecompressI32Column(r, triangleCount)
	if err != nil {
		return nil, err
	}
	tris := reorder.DecodeIndexColumns(first, second, third)

	if err := r.ExpectTag(format.TagVERT); err != nil {
		return nil, err
	}
	cellID, err := lzmaio.DecompressU32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}
	qxDeltas, err := lzmaio.DecompressI32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}
	qyDeltas, err := lzmaio.DecompressI32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}
	qzDeltas, err := lzmaio.DecompressI32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}

	qx := delta.DecodeCellReset(qxDeltas, cellID)
	qy := delta.DecodeCellReset(qyDeltas, cellID)
	qz := delta.DecodeCellReset(qzDeltas, cellID)

	positions := reconstructPositions(qx, qy, qz, h.BBoxMin, h.VertexPrecision)

	m := mesh.New()
	m.Vertices = positions
	m.Indices = tris

	if h.HasNormals() {
		if err := r.ExpectTag(format.TagNORM); err != nil {
			return nil, err
		}
		predictors := predictNormals(positions, tris)
		normals, err := decodeNormals(r, predictors, h.NormalPrecision, vertexCount)
		if err != nil {
			return nil, err
		}
		m.Normals = normals
	}

	for i := uint32(0); i < h.UVMapCount; i++ {
		tm, err := decodeTexMap(r, vertexCount)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddTexMap(tm); err != nil {
			return nil, err
		}
	}

	for i := uint32(0); i < h.AttribMapCount; i++ {
		am, err := decodeAttribMap(r, vertexCount)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddAttribMap(am); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func decodeNormals(r *bitio.Reader, predictors []mesh.Vec3, precision float32, n int) ([]mesh.Vec3, error) {
	qmDeltas, err := lzmaio.DecompressI32Column(r, n)
	if err != nil {
		return nil, err
	}
	qpDeltas, err := lzmaio.DecompressI32Column(r, n)
	if err != nil {
		return nil, err
	}
	qtDeltas, err := lzmaio.DecompressI32Column(r, n)
	if err != nil {
		return nil, err
	}

	mags := dequantizeAxis(delta.Decode(qmDeltas), 0, precision)
	phis := dequantizeAxis(delta.Decode(qpDeltas), 0, precision)
	thetas := dequantizeAxis(delta.Decode(qtDeltas), 0, precision)

	out := make([]mesh.Vec3, n)
	for i := range out {
		out[i] = reconstructNormal(mags[i], phis[i], thetas[i], predictors[i])
	}

	return out, nil
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

	xDeltas, err := lzmaio.DecompressI32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}
	yDeltas, err := lzmaio.DecompressI32Column(r, vertexCount)
	if err != nil {
		return nil, err
	}

	x := dequantizeAxis(delta.Decode(xDeltas), 0, precision)
	y := dequantizeAxis(delta.Decode(yDeltas), 0, precision)

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

	chans := make([][]float32, 4)
	for i := range chans {
		deltas, err := lzmaio.DecompressI32Column(r, vertexCount)
		if err != nil {
			return nil, err
		}
		chans[i] = dequantizeAxis(delta.Decode(deltas), 0, precision)
	}

	values := make([]mesh.Vec4, vertexCount)
	for i := range values {
		values[i] = mesh.Vec4{X: chans[0][i], Y: chans[1][i], Z: chans[2][i], W: chans[3][i]}
	}

	am := mesh.NewAttribMap(name, values)
	am.Precision = precision

	return am, nil
}

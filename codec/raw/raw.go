// Package raw implements the RAW body encoding: verbatim little-endian
// serialization of a mesh with no reordering, no delta coding, and no LZMA
// stage (spec.md §1, §8 scenario 1).
//
// Body layout, written directly after the container header:
//
//	indices   : T*3 u32 (flat, triangle order)
//	vertices  : V*3 f32 (flat, X,Y,Z per vertex)
//	normals   : V*3 f32, only if the container's has-normals flag is set
//	tex maps  : one block per map: name, filename, precision:f32, V*2 f32 coords
//	attr maps : one block per map: name, precision:f32, V*4 f32 values
package raw

import (
	"fmt"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/errs"
	"github.com/wangfeilong321/openctm/mesh"
)

// Encode writes m's body in RAW layout to w.
func Encode(w *bitio.Writer, m *mesh.Mesh) error {
	for _, t := range m.Indices {
		if err := w.WriteU32Slice([]uint32{t.A, t.B, t.C}); err != nil {
			return err
		}
	}

	for _, v := range m.Vertices {
		if err := w.WriteF32Slice([]float32{v.X, v.Y, v.Z}); err != nil {
			return err
		}
	}

	if m.HasNormals() {
		for _, n := range m.Normals {
			if err := w.WriteF32Slice([]float32{n.X, n.Y, n.Z}); err != nil {
				return err
			}
		}
	}

	for _, tm := range m.TexMaps {
		if err := writeTexMap(w, tm); err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		if err := writeAttribMap(w, am); err != nil {
			return err
		}
	}

	return nil
}

func writeTexMap(w *bitio.Writer, tm *mesh.TexMap) error {
	if err := w.WriteString(tm.Name); err != nil {
		return err
	}
	if err := w.WriteString(tm.Filename); err != nil {
		return err
	}
	if err := w.WriteF32(tm.Precision); err != nil {
		return err
	}
	for _, c := range tm.Coords {
		if err := w.WriteF32Slice([]float32{c.X, c.Y}); err != nil {
			return err
		}
	}

	return nil
}

func writeAttribMap(w *bitio.Writer, am *mesh.AttribMap) error {
	if err := w.WriteString(am.Name); err != nil {
		return err
	}
	if err := w.WriteF32(am.Precision); err != nil {
		return err
	}
	for _, v := range am.Values {
		if err := w.WriteF32Slice([]float32{v.X, v.Y, v.Z, v.W}); err != nil {
			return err
		}
	}

	return nil
}

// Decode reads a RAW body from r into a freshly constructed mesh using the
// counts already parsed from the container header.
func Decode(r *bitio.Reader, vertexCount, triangleCount, uvMapCount, attribMapCount uint32, hasNormals bool) (*mesh.Mesh, error) {
	m := mesh.New()

	m.Indices = make([]mesh.Triangle, triangleCount)
	for i := range m.Indices {
		idx, err := r.ReadU32Slice(3)
		if err != nil {
			return nil, err
		}
		m.Indices[i] = mesh.Triangle{A: idx[0], B: idx[1], C: idx[2]}
	}

	m.Vertices = make([]mesh.Vec3, vertexCount)
	for i := range m.Vertices {
		p, err := r.ReadF32Slice(3)
		if err != nil {
			return nil, err
		}
		m.Vertices[i] = mesh.Vec3{X: p[0], Y: p[1], Z: p[2]}
	}

	if hasNormals {
		m.Normals = make([]mesh.Vec3, vertexCount)
		for i := range m.Normals {
			n, err := r.ReadF32Slice(3)
			if err != nil {
				return nil, err
			}
			m.Normals[i] = mesh.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
	}

	for i := uint32(0); i < uvMapCount; i++ {
		tm, err := readTexMap(r, vertexCount)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddTexMap(tm); err != nil {
			return nil, fmt.Errorf("%w: tex map %d: %v", errs.ErrFormat, i, err)
		}
	}

	for i := uint32(0); i < attribMapCount; i++ {
		am, err := readAttribMap(r, vertexCount)
		if err != nil {
			return nil, err
		}
		if _, err := m.AddAttribMap(am); err != nil {
			return nil, fmt.Errorf("%w: attrib map %d: %v", errs.ErrFormat, i, err)
		}
	}

	return m, nil
}

func readTexMap(r *bitio.Reader, vertexCount uint32) (*mesh.TexMap, error) {
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

	coords := make([]mesh.Vec2, vertexCount)
	for i := range coords {
		c, err := r.ReadF32Slice(2)
		if err != nil {
			return nil, err
		}
		coords[i] = mesh.Vec2{X: c[0], Y: c[1]}
	}

	tm := mesh.NewTexMap(name, filename, coords)
	tm.Precision = precision

	return tm, nil
}

func readAttribMap(r *bitio.Reader, vertexCount uint32) (*mesh.AttribMap, error) {
	name, err := r.ReadString()
	if err != nil {
		return nil, err
	}
	precision, err := r.ReadF32()
	if err != nil {
		return nil, err
	}

	values := make([]mesh.Vec4, vertexCount)
	for i := range values {
		v, err := r.ReadF32Slice(4)
		if err != nil {
			return nil, err
		}
		values[i] = mesh.Vec4{X: v[0], Y: v[1], Z: v[2], W: v[3]}
	}

	am := mesh.NewAttribMap(name, values)
	am.Precision = precision

	return am, nil
}

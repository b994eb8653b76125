// Package mg1 implements the MG1 body encoding (spec.md §4.5): lossless
// geometry compression via the shared index reorderer, column-major
// transposition, and the LZMA stage.
//
// Body layout after the "MG1\0" header:
//
//	"INDX" chunk: delta-coded index columns, column-major (all firsts, then
//	  all seconds, then all thirds), LZMA-packed.
//	"VERT" chunk: reordered vertex positions, column-major (X,Y,Z), LZMA-packed.
//	"NORM" chunk (if present): reordered normals, column-major, LZMA-packed.
//	one "TEXC" chunk per UV map: tag, name, filename, precision, then
//	  column-major coords, LZMA-packed.
//	one "ATTR" chunk per attribute map: tag, name, precision, then
//	  column-major values, LZMA-packed.
package mg1

import (
	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/lzmaio"
	"github.com/wangfeilong321/openctm/mesh"
	"github.com/wangfeilong321/openctm/reorder"
)

// Encode writes m's body in MG1 layout to w at the given LZMA level.
func Encode(w *bitio.Writer, m *mesh.Mesh, level int) error {
	if err := writeHeader(w, m); err != nil {
		return err
	}

	plan := reorder.Reorder(m)
	positions := reorder.ApplyPermutation(m.Vertices, plan.Permutation)

	if err := w.WriteTag(format.TagINDX); err != nil {
		return err
	}
	first, second, third := reorder.IndexColumns(plan.Triangles)
	if err := lzmaio.CompressI32Column(w, first, level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, second, level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, third, level); err != nil {
		return err
	}

	if err := w.WriteTag(format.TagVERT); err != nil {
		return err
	}
	if err := packVec3Columns(w, positions, level); err != nil {
		return err
	}

	if m.HasNormals() {
		normals := reorder.ApplyPermutation(m.Normals, plan.Permutation)
		if err := w.WriteTag(format.TagNORM); err != nil {
			return err
		}
		if err := packVec3Columns(w, normals, level); err != nil {
			return err
		}
	}

	for _, tm := range m.TexMaps {
		if err := encodeTexMap(w, tm, plan.Permutation, level); err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		if err := encodeAttribMap(w, am, plan.Permutation, level); err != nil {
			return err
		}
	}

	return nil
}

// writeHeader writes the "MG1\0" sub-header (spec.md §4.5): vertex_count,
// triangle_count, uv_map_count, attrib_map_count, flags. These duplicate
// the counts already present in the outer container header.
func writeHeader(w *bitio.Writer, m *mesh.Mesh) error {
	if err := w.WriteTag(format.TagMG1); err != nil {
		return err
	}
	if err := w.WriteU32(uint32(m.VertexCount())); err != nil { //nolint:gosec
		return err
	}
	if err := w.WriteU32(uint32(m.TriangleCount())); err != nil { //nolint:gosec
		return err
	}
	if err := w.WriteU32(uint32(len(m.TexMaps))); err != nil { //nolint:gosec
		return err
	}
	if err := w.WriteU32(uint32(len(m.AttribMaps))); err != nil { //nolint:gosec
		return err
	}

	var flags uint32
	if m.HasNormals() {
		flags |= format.FlagHasNormals
	}

	return w.WriteU32(flags)
}

func encodeTexMap(w *bitio.Writer, tm *mesh.TexMap, perm []uint32, level int) error {
	if err := w.WriteTag(format.TagTEXC); err != nil {
		return err
	}
	if err := w.WriteString(tm.Name); err != nil {
		return err
	}
	if err := w.WriteString(tm.Filename); err != nil {
		return err
	}
	if err := w.WriteF32(tm.Precision); err != nil {
		return err
	}

	coords := reorder.ApplyPermutation(tm.Coords, perm)
	x := make([]float32, len(coords))
	y := make([]float32, len(coords))
	for i, c := range coords {
		x[i], y[i] = c.X, c.Y
	}

	if err := lzmaio.CompressF32Column(w, x, level); err != nil {
		return err
	}

	return lzmaio.CompressF32Column(w, y, level)
}

func encodeAttribMap(w *bitio.Writer, am *mesh.AttribMap, perm []uint32, level int) error {
	if err := w.WriteTag(format.TagATTR); err != nil {
		return err
	}
	if err := w.WriteString(am.Name); err != nil {
		return err
	}
	if err := w.WriteF32(am.Precision); err != nil {
		return err
	}

	values := reorder.ApplyPermutation(am.Values, perm)
	x := make([]float32, len(values))
	y := make([]float32, len(values))
	z := make([]float32, len(values))
	w4 := make([]float32, len(values))
	for i, v := range values {
		x[i], y[i], z[i], w4[i] = v.X, v.Y, v.Z, v.W
	}

	for _, col := range [][]float32{x, y, z, w4} {
		if err := lzmaio.CompressF32Column(w, col, level); err != nil {
			return err
		}
	}

	return nil
}

func packVec3Columns(w *bitio.Writer, v []mesh.Vec3, level int) error {
	x := make([]float32, len(v))
	y := make([]float32, len(v))
	z := make([]float32, len(v))
	for i, p := range v {
		x[i], y[i], z[i] = p.X, p.Y, p.Z
	}

	for _, col := range [][]float32{x, y, z} {
		if err := lzmaio.CompressF32Column(w, col, level); err != nil {
			return err
		}
	}

	return nil
}

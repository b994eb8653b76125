// Package mg2 implements the MG2 body encoding (spec.md §3, §4.6): lossy
// fixed-point geometry compression with cell-based spatial sorting,
// normal-space decomposition, and per-channel UV/attribute delta coding.
//
// Encoding pipeline, after the shared index-reorder pass (package reorder):
//
//  1. Quantize reordered positions to an integer grid from the vertex
//     precision and the mesh's bounding box.
//  2. Sort vertices by grid cell id, then quantized Y, then quantized X,
//     stably preserving the reorderer's output order as the tie-break.
//  3. Emit the grid cell-id stream and three per-cell-reset delta streams
//     for (qx, qy, qz).
//  4. If present, predict each vertex's normal from the already-quantized
//     positions and encode only the residual rotation in local spherical
//     coordinates, delta-coded.
//  5. Quantize and delta-code each UV/attribute channel independently.
//
// Every stream is its own LZMA stage frame (package lzmaio); the column
// tags reuse MG1's vocabulary ("INDX", "VERT", "NORM", "TEXC", "ATTR") since
// the underlying chunk-dispatch discipline is identical.
package mg2

import (
	"sort"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/internal/delta"
	"github.com/wangfeilong321/openctm/internal/pool"
	"github.com/wangfeilong321/openctm/lzmaio"
	"github.com/wangfeilong321/openctm/mesh"
	"github.com/wangfeilong321/openctm/reorder"
)

// Encode writes m's body in MG2 layout to w, quantizing positions at
// vertexPrecision and normal residuals at normalPrecision.
func Encode(w *bitio.Writer, m *mesh.Mesh, vertexPrecision, normalPrecision float32, level int) error {
	plan := reorder.Reorder(m)
	positionsR := reorder.ApplyPermutation(m.Vertices, plan.Permutation)

	box := computeAABB(positionsR)
	xs, ys, zs, releaseAxes := splitVec3(positionsR)
	defer releaseAxes()

	qx := quantizeAxis(xs, box.Min.X, vertexPrecision)
	qy := quantizeAxis(ys, box.Min.Y, vertexPrecision)
	qz := quantizeAxis(zs, box.Min.Z, vertexPrecision)

	divx := gridDivisor(box.Min.X, box.Max.X, vertexPrecision)
	divy := gridDivisor(box.Min.Y, box.Max.Y, vertexPrecision)
	divz := gridDivisor(box.Min.Z, box.Max.Z, vertexPrecision)

	nx := cellCounts(box.Min.X, box.Max.X, vertexPrecision, divx)
	ny := cellCounts(box.Min.Y, box.Max.Y, vertexPrecision, divy)

	cellIDsR := cellIDs(qx, qy, qz, divx, divy, divz, nx, ny)
	gridPerm := computeGridPermutation(cellIDsR, qy, qx)

	qxG := reorder.ApplyPermutation(qx, gridPerm)
	qyG := reorder.ApplyPermutation(qy, gridPerm)
	qzG := reorder.ApplyPermutation(qz, gridPerm)
	cellIDG := reorder.ApplyPermutation(cellIDsR, gridPerm)

	invGridPerm := reorder.InversePermutation(gridPerm)
	finalTriangles := make([]mesh.Triangle, len(plan.Triangles))
	for i, t := range plan.Triangles {
		finalTriangles[i] = mesh.Triangle{A: invGridPerm[t.A], B: invGridPerm[t.B], C: invGridPerm[t.C]}
	}

	var flags uint32
	if m.HasNormals() {
		flags |= format.FlagHasNormals
	}

	if err := writeHeader(w, header{
		VertexCount:     uint32(m.VertexCount()),    //nolint:gosec
		TriangleCount:   uint32(m.TriangleCount()),  //nolint:gosec
		UVMapCount:      uint32(len(m.TexMaps)),      //nolint:gosec
		AttribMapCount:  uint32(len(m.AttribMaps)),   //nolint:gosec
		Flags:           flags,
		VertexPrecision: vertexPrecision,
		NormalPrecision: normalPrecision,
		BBoxMin:         box.Min,
		BBoxMax:         box.Max,
		DivX:            divx,
		DivY:            divy,
		DivZ:            divz,
	}); err != nil {
		return err
	}

	if err := w.WriteTag(format.TagINDX); err != nil {
		return err
	}
	first, second, third := reorder.IndexColumns(finalTriangles)
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
	if err := lzmaio.CompressU32Column(w, cellIDG, level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, delta.EncodeCellReset(qxG, cellIDG), level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, delta.EncodeCellReset(qyG, cellIDG), level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, delta.EncodeCellReset(qzG, cellIDG), level); err != nil {
		return err
	}

	if m.HasNormals() {
		decodedPositionsG := reconstructPositions(qxG, qyG, qzG, box.Min, vertexPrecision)
		predictors := predictNormals(decodedPositionsG, finalTriangles)
		normalsG := reorder.ApplyPermutation(reorder.ApplyPermutation(m.Normals, plan.Permutation), gridPerm)

		if err := w.WriteTag(format.TagNORM); err != nil {
			return err
		}
		if err := encodeNormals(w, normalsG, predictors, normalPrecision, level); err != nil {
			return err
		}
	}

	for _, tm := range m.TexMaps {
		coordsG := reorder.ApplyPermutation(reorder.ApplyPermutation(tm.Coords, plan.Permutation), gridPerm)
		if err := encodeTexMap(w, tm, coordsG, level); err != nil {
			return err
		}
	}

	for _, am := range m.AttribMaps {
		valuesG := reorder.ApplyPermutation(reorder.ApplyPermutation(am.Values, plan.Permutation), gridPerm)
		if err := encodeAttribMap(w, am, valuesG, level); err != nil {
			return err
		}
	}

	return nil
}

// splitVec3 separates v into per-axis scratch slices pulled from the typed
// slice pool; the caller must invoke the returned release func once done
// with x, y, z.
func splitVec3(v []mesh.Vec3) (x, y, z []float32, release func()) {
	x, relX := pool.GetFloat32Slice(len(v))
	y, relY := pool.GetFloat32Slice(len(v))
	z, relZ := pool.GetFloat32Slice(len(v))
	for i, p := range v {
		x[i], y[i], z[i] = p.X, p.Y, p.Z
	}

	return x, y, z, func() { relX(); relY(); relZ() }
}

func reconstructPositions(qx, qy, qz []int32, min mesh.Vec3, precision float32) []mesh.Vec3 {
	x := dequantizeAxis(qx, min.X, precision)
	y := dequantizeAxis(qy, min.Y, precision)
	z := dequantizeAxis(qz, min.Z, precision)

	out := make([]mesh.Vec3, len(qx))
	for i := range out {
		out[i] = mesh.Vec3{X: x[i], Y: y[i], Z: z[i]}
	}

	return out
}

// computeGridPermutation returns the permutation (new grid index -> old
// R-order index) sorting primarily by cell id, then quantized Y, then
// quantized X, stable on ties.
func computeGridPermutation(cellID []uint32, qy, qx []int32) []uint32 {
	n := len(cellID)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}

	sort.SliceStable(idx, func(i, j int) bool {
		a, b := idx[i], idx[j]
		if cellID[a] != cellID[b] {
			return cellID[a] < cellID[b]
		}
		if qy[a] != qy[b] {
			return qy[a] < qy[b]
		}

		return qx[a] < qx[b]
	})

	perm := make([]uint32, n)
	for i, v := range idx {
		perm[i] = uint32(v) //nolint:gosec
	}

	return perm
}

func encodeNormals(w *bitio.Writer, normals, predictors []mesh.Vec3, precision float32, level int) error {
	mags := make([]float32, len(normals))
	phis := make([]float32, len(normals))
	thetas := make([]float32, len(normals))
	for i := range normals {
		mags[i], phis[i], thetas[i] = sphericalResidual(normals[i], predictors[i])
	}

	qm := delta.Encode(quantizeAxis(mags, 0, precision))
	qp := delta.Encode(quantizeAxis(phis, 0, precision))
	qt := delta.Encode(quantizeAxis(thetas, 0, precision))

	if err := lzmaio.CompressI32Column(w, qm, level); err != nil {
		return err
	}
	if err := lzmaio.CompressI32Column(w, qp, level); err != nil {
		return err
	}

	return lzmaio.CompressI32Column(w, qt, level)
}

func encodeTexMap(w *bitio.Writer, tm *mesh.TexMap, coords []mesh.Vec2, level int) error {
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

	x := make([]float32, len(coords))
	y := make([]float32, len(coords))
	for i, c := range coords {
		x[i], y[i] = c.X, c.Y
	}

	if err := lzmaio.CompressI32Column(w, delta.Encode(quantizeAxis(x, 0, tm.Precision)), level); err != nil {
		return err
	}

	return lzmaio.CompressI32Column(w, delta.Encode(quantizeAxis(y, 0, tm.Precision)), level)
}

func encodeAttribMap(w *bitio.Writer, am *mesh.AttribMap, values []mesh.Vec4, level int) error {
	if err := w.WriteTag(format.TagATTR); err != nil {
		return err
	}
	if err := w.WriteString(am.Name); err != nil {
		return err
	}
	if err := w.WriteF32(am.Precision); err != nil {
		return err
	}

	chans := make([][]float32, 4)
	for i := range chans {
		chans[i] = make([]float32, len(values))
	}
	for i, v := range values {
		chans[0][i], chans[1][i], chans[2][i], chans[3][i] = v.X, v.Y, v.Z, v.W
	}

	for _, c := range chans {
		if err := lzmaio.CompressI32Column(w, delta.Encode(quantizeAxis(c, 0, am.Precision)), level); err != nil {
			return err
		}
	}

	return nil
}

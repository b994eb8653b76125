package mg2

import (
	"math"

	"github.com/wangfeilong321/openctm/mesh"
)

// aabb is the axis-aligned bounding box of a set of positions.
type aabb struct {
	Min, Max mesh.Vec3
}

// computeAABB returns the bounding box of positions. positions must be
// non-empty.
func computeAABB(positions []mesh.Vec3) aabb {
	box := aabb{Min: positions[0], Max: positions[0]}
	for _, p := range positions[1:] {
		box.Min.X = min(box.Min.X, p.X)
		box.Min.Y = min(box.Min.Y, p.Y)
		box.Min.Z = min(box.Min.Z, p.Z)
		box.Max.X = max(box.Max.X, p.X)
		box.Max.Y = max(box.Max.Y, p.Y)
		box.Max.Z = max(box.Max.Z, p.Z)
	}

	return box
}

// quantizeAxis maps each value through q = round((v - lo) / precision).
func quantizeAxis(values []float32, lo, precision float32) []int32 {
	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(math.Round(float64((v - lo) / precision)))
	}

	return out
}

// dequantizeAxis reverses quantizeAxis: v = lo + q*precision.
func dequantizeAxis(q []int32, lo, precision float32) []float32 {
	out := make([]float32, len(q))
	for i, v := range q {
		out[i] = lo + float32(v)*precision
	}

	return out
}

// gridDivisor implements §3's divn = max(1, ceil((max-min)/precision/256)):
// the number of quantized steps spanned by one grid cell along an axis.
func gridDivisor(lo, hi, precision float32) uint32 {
	qRange := (hi - lo) / precision
	divn := uint32(math.Ceil(float64(qRange) / 256))
	if divn < 1 {
		divn = 1
	}

	return divn
}

// cellCounts returns the number of grid cells spanning the quantized range
// of an axis, given its divisor.
func cellCounts(lo, hi, precision float32, divn uint32) uint32 {
	qRange := uint32(math.Round(float64((hi - lo) / precision)))

	return qRange/divn + 1
}

// cellIDs computes the row-major grid cell id of every vertex from its
// quantized coordinates.
func cellIDs(qx, qy, qz []int32, divx, divy, divz, nx, ny uint32) []uint32 {
	out := make([]uint32, len(qx))
	for i := range out {
		cx := uint32(qx[i]) / divx //nolint:gosec
		cy := uint32(qy[i]) / divy //nolint:gosec
		cz := uint32(qz[i]) / divz //nolint:gosec
		out[i] = cx + nx*(cy+ny*cz)
	}

	return out
}

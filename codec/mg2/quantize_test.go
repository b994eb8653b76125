package mg2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/mesh"
)

func TestQuantizeAxis_RoundTrip(t *testing.T) {
	values := []float32{0, 0.5, 1.0, 1.5, 2.0}
	precision := float32(0.25)

	q := quantizeAxis(values, 0, precision)
	got := dequantizeAxis(q, 0, precision)

	require.InDeltaSlice(t, toFloat64s(values), toFloat64s(got), float64(precision))
}

func TestGridDivisor_MinimumOne(t *testing.T) {
	require.Equal(t, uint32(1), gridDivisor(0, 1, 1.0/1024.0))
}

func TestGridDivisor_LargeRangeGrowsDivisor(t *testing.T) {
	d := gridDivisor(0, 1000, 1.0/1024.0)
	require.Greater(t, d, uint32(1))
}

func TestCellIDs_SameBucketSameID(t *testing.T) {
	qx := []int32{0, 1, 300}
	qy := []int32{0, 1, 300}
	qz := []int32{0, 1, 300}
	divx, divy, divz := uint32(4), uint32(4), uint32(4)
	nx, ny := uint32(10), uint32(10)

	ids := cellIDs(qx, qy, qz, divx, divy, divz, nx, ny)
	require.Equal(t, ids[0], ids[1])
	require.NotEqual(t, ids[0], ids[2])
}

func TestComputeAABB(t *testing.T) {
	positions := []mesh.Vec3{
		{1, -2, 3},
		{-1, 4, 0},
		{2, 0, -5},
	}
	box := computeAABB(positions)
	require.Equal(t, mesh.Vec3{X: -1, Y: -2, Z: -5}, box.Min)
	require.Equal(t, mesh.Vec3{X: 2, Y: 4, Z: 3}, box.Max)
}

func toFloat64s(v []float32) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}

	return out
}

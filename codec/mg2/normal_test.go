package mg2

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/mesh"
)

func TestSphericalResidual_RoundTrip(t *testing.T) {
	predictor := mesh.Vec3{X: 0, Y: 0, Z: 1}
	n := mesh.Vec3{X: 0.1, Y: 0.2, Z: 0.97}.Normalized()

	mag, phi, theta := sphericalResidual(n, predictor)
	got := reconstructNormal(mag, phi, theta, predictor)

	require.InDelta(t, n.X, got.X, 1e-5)
	require.InDelta(t, n.Y, got.Y, 1e-5)
	require.InDelta(t, n.Z, got.Z, 1e-5)
}

func TestSphericalResidual_PredictorMatchesNormalIsZeroResidual(t *testing.T) {
	predictor := mesh.Vec3{X: 0, Y: 1, Z: 0}

	mag, phi, theta := sphericalResidual(predictor, predictor)
	require.InDelta(t, 1.0, mag, 1e-6)
	require.InDelta(t, 0.0, theta, 1e-6)
	_ = phi // undefined at the pole, not asserted
}

func TestPredictNormals_FlatPlaneMatchesFaceNormal(t *testing.T) {
	positions := []mesh.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
	}
	tris := []mesh.Triangle{{A: 0, B: 1, C: 2}}

	predictors := predictNormals(positions, tris)
	for _, p := range predictors {
		require.InDelta(t, 0, p.X, 1e-6)
		require.InDelta(t, 0, p.Y, 1e-6)
		require.InDelta(t, 1, p.Z, 1e-6)
	}
}

func TestLocalFrame_Orthonormal(t *testing.T) {
	predictor := mesh.Vec3{X: 0.267, Y: 0.535, Z: 0.802}.Normalized()
	tangent, bitangent, z := localFrame(predictor)

	require.InDelta(t, 1.0, tangent.Length(), 1e-5)
	require.InDelta(t, 1.0, bitangent.Length(), 1e-5)
	require.InDelta(t, 0.0, tangent.Dot(bitangent), 1e-5)
	require.InDelta(t, 0.0, tangent.Dot(z), 1e-5)
	require.InDelta(t, 0.0, bitangent.Dot(z), 1e-5)
}

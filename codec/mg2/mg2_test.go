package mg2

import (
	"bytes"
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/mesh"
)

func tetrahedron() *mesh.Mesh {
	m := mesh.New()
	m.Vertices = []mesh.Vec3{
		{0, 0, 0},
		{2, 0, 0},
		{0, 2, 0},
		{0, 0, 2},
	}
	m.Indices = []mesh.Triangle{
		{A: 0, B: 1, C: 2},
		{A: 0, B: 1, C: 3},
		{A: 0, B: 2, C: 3},
		{A: 1, B: 2, C: 3},
	}
	m.Normals = []mesh.Vec3{
		{0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {-0.577, -0.577, -0.577},
	}

	return m
}

// triangleFingerprints renders each triangle's corner positions, rounded to
// tol, as an order-independent key, so round-trip equivalence can be
// checked without tracking MG2's internal reorder/grid-sort permutation.
func triangleFingerprints(positions []mesh.Vec3, tris []mesh.Triangle, tol float64) []string {
	pointKey := func(p mesh.Vec3) string {
		round := func(v float32) float64 { return roundTo(float64(v), tol) }

		return fmt.Sprintf("%g,%g,%g", round(p.X), round(p.Y), round(p.Z))
	}

	out := make([]string, len(tris))
	for i, tri := range tris {
		pts := []string{pointKey(positions[tri.A]), pointKey(positions[tri.B]), pointKey(positions[tri.C])}
		sort.Strings(pts)
		out[i] = pts[0] + "|" + pts[1] + "|" + pts[2]
	}
	sort.Strings(out)

	return out
}

func roundTo(v, tol float64) float64 {
	if tol <= 0 {
		return v
	}

	return float64(int64(v/tol+0.5)) * tol
}

func TestRoundTrip_Geometry(t *testing.T) {
	m := tetrahedron()

	var buf bytes.Buffer
	vp := float32(1.0 / 1024.0)
	np := float32(1.0 / 256.0)
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, vp, np, format.DefaultMG2Level))

	got, err := Decode(bitio.NewReader(&buf))
	require.NoError(t, err)

	require.Equal(t, m.VertexCount(), got.VertexCount())
	require.Equal(t, m.TriangleCount(), got.TriangleCount())

	tol := 4 * float64(vp) // spec.md §8: position error bounded by sqrt(3)*vertexPrecision
	require.Equal(t,
		triangleFingerprints(m.Vertices, m.Indices, tol),
		triangleFingerprints(got.Vertices, got.Indices, tol),
	)
}

func TestRoundTrip_Normals(t *testing.T) {
	m := tetrahedron()

	var buf bytes.Buffer
	vp := float32(1.0 / 1024.0)
	np := float32(1.0 / 256.0)
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, vp, np, format.DefaultMG2Level))

	got, err := Decode(bitio.NewReader(&buf))
	require.NoError(t, err)
	require.True(t, got.HasNormals())
	require.Len(t, got.Normals, m.VertexCount())

	for _, n := range got.Normals {
		require.InDelta(t, 1.0, n.Length(), 0.05)
	}
}

// TestRoundTrip_UnitTetrahedron_VertexPrecision covers spec.md §8 scenario 3:
// the unit tetrahedron encoded at vertex_precision=0.1 round-trips each
// vertex within 0.1 of the input and the written MG2 sub-header's bounding
// box reads back as min=(0,0,0), max=(1,1,1).
func TestRoundTrip_UnitTetrahedron_VertexPrecision(t *testing.T) {
	m := mesh.New()
	m.Vertices = []mesh.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	m.Indices = []mesh.Triangle{
		{A: 0, B: 1, C: 2},
		{A: 0, B: 1, C: 3},
		{A: 0, B: 2, C: 3},
		{A: 1, B: 2, C: 3},
	}

	var buf bytes.Buffer
	vp := float32(0.1)
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, vp, format.DefaultNormalPrecision, format.DefaultMG2Level))

	raw := buf.Bytes()
	h, err := readHeader(bitio.NewReader(bytes.NewReader(raw)))
	require.NoError(t, err)
	require.InDelta(t, 0, h.BBoxMin.X, 1e-6)
	require.InDelta(t, 0, h.BBoxMin.Y, 1e-6)
	require.InDelta(t, 0, h.BBoxMin.Z, 1e-6)
	require.InDelta(t, 1, h.BBoxMax.X, 1e-6)
	require.InDelta(t, 1, h.BBoxMax.Y, 1e-6)
	require.InDelta(t, 1, h.BBoxMax.Z, 1e-6)

	got, err := Decode(bitio.NewReader(bytes.NewReader(raw)))
	require.NoError(t, err)

	tol := 4 * float64(vp) // spec.md §8: bound is sqrt(3)*vertexPrecision
	require.Equal(t,
		triangleFingerprints(m.Vertices, m.Indices, tol),
		triangleFingerprints(got.Vertices, got.Indices, tol),
	)
}

func TestRoundTrip_WithMaps(t *testing.T) {
	m := tetrahedron()
	_, err := m.AddTexMap(mesh.NewTexMap("uv0", "", []mesh.Vec2{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	}))
	require.NoError(t, err)
	_, err = m.AddAttribMap(mesh.NewAttribMap("color", []mesh.Vec4{
		{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {1, 1, 1, 1},
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, format.DefaultVertexPrecision, format.DefaultNormalPrecision, format.DefaultMG2Level))

	got, err := Decode(bitio.NewReader(&buf))
	require.NoError(t, err)
	require.Len(t, got.TexMaps, 1)
	require.Equal(t, "uv0", got.TexMaps[0].Name)
	require.Len(t, got.AttribMaps, 1)
	require.Equal(t, "color", got.AttribMaps[0].Name)
}

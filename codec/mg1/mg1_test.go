package mg1

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/mesh"
	"github.com/wangfeilong321/openctm/reorder"
)

func tetrahedron() *mesh.Mesh {
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
	m.Normals = []mesh.Vec3{
		{0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {-1, -1, -1},
	}

	return m
}

func TestRoundTrip(t *testing.T) {
	m := tetrahedron()

	var buf bytes.Buffer
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, format.DefaultMG1Level))

	got, err := Decode(bitio.NewReader(&buf))
	require.NoError(t, err)

	plan := reorder.Reorder(m)
	wantPositions := reorder.ApplyPermutation(m.Vertices, plan.Permutation)
	wantNormals := reorder.ApplyPermutation(m.Normals, plan.Permutation)

	require.Equal(t, plan.Triangles, got.Indices)
	require.InDeltaSlice(t, toFloats(wantPositions), toFloats(got.Vertices), 1e-5)
	require.InDeltaSlice(t, toFloats(wantNormals), toFloats(got.Normals), 1e-5)
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
	require.NoError(t, Encode(bitio.NewWriter(&buf), m, format.DefaultMG1Level))

	got, err := Decode(bitio.NewReader(&buf))
	require.NoError(t, err)
	require.Len(t, got.TexMaps, 1)
	require.Equal(t, "uv0", got.TexMaps[0].Name)
	require.Len(t, got.AttribMaps, 1)
	require.Equal(t, "color", got.AttribMaps[0].Name)
}

func toFloats(vs []mesh.Vec3) []float64 {
	out := make([]float64, 0, len(vs)*3)
	for _, v := range vs {
		out = append(out, float64(v.X), float64(v.Y), float64(v.Z))
	}

	return out
}

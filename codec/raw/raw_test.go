package raw

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/mesh"
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

	return m
}

func TestRoundTrip_NoExtras(t *testing.T) {
	m := tetrahedron()

	var buf bytes.Buffer
	require.NoError(t, Encode(bitio.NewWriter(&buf), m))

	got, err := Decode(bitio.NewReader(&buf), 4, 4, 0, 0, false)
	require.NoError(t, err)
	require.Equal(t, m.Vertices, got.Vertices)
	require.Equal(t, m.Indices, got.Indices)
	require.Empty(t, got.Normals)
}

func TestRoundTrip_WithNormalsAndMaps(t *testing.T) {
	m := tetrahedron()
	m.Normals = []mesh.Vec3{
		{0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {-1, -1, -1},
	}
	_, err := m.AddTexMap(mesh.NewTexMap("uv0", "tex.png", []mesh.Vec2{
		{0, 0}, {1, 0}, {0, 1}, {1, 1},
	}))
	require.NoError(t, err)
	_, err = m.AddAttribMap(mesh.NewAttribMap("color", []mesh.Vec4{
		{1, 0, 0, 1}, {0, 1, 0, 1}, {0, 0, 1, 1}, {1, 1, 1, 1},
	}))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(bitio.NewWriter(&buf), m))

	got, err := Decode(bitio.NewReader(&buf), 4, 4, 1, 1, true)
	require.NoError(t, err)
	require.Equal(t, m.Normals, got.Normals)
	require.Len(t, got.TexMaps, 1)
	require.Equal(t, "uv0", got.TexMaps[0].Name)
	require.Equal(t, m.TexMaps[0].Coords, got.TexMaps[0].Coords)
	require.Len(t, got.AttribMaps, 1)
	require.Equal(t, m.AttribMaps[0].Values, got.AttribMaps[0].Values)
}

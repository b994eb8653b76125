package openctm

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/mesh"
)

func tetrahedron() ([]mesh.Vec3, []mesh.Triangle, []mesh.Vec3) {
	vertices := []mesh.Vec3{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	indices := []mesh.Triangle{
		{A: 0, B: 1, C: 2},
		{A: 0, B: 1, C: 3},
		{A: 0, B: 2, C: 3},
		{A: 1, B: 2, C: 3},
	}
	normals := []mesh.Vec3{
		{0, 0, 1}, {0, 1, 0}, {1, 0, 0}, {-1, -1, -1},
	}

	return vertices, indices, normals
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	vertices, indices, normals := tetrahedron()

	exportCtx, err := NewContext(ModeExport)
	require.NoError(t, err)
	require.NoError(t, exportCtx.DefineMesh(vertices, indices, normals))
	require.NoError(t, exportCtx.SetCompressionMethod(MethodMG1))
	require.NoError(t, exportCtx.SetFileComment("tetrahedron"))

	var buf bytes.Buffer
	require.NoError(t, exportCtx.SaveCustom(&buf))

	importCtx, err := NewContext(ModeImport)
	require.NoError(t, err)
	require.NoError(t, importCtx.LoadCustom(&buf))

	require.Equal(t, 4, importCtx.VertexCount())
	require.Equal(t, 4, importCtx.TriangleCount())
	require.Equal(t, "tetrahedron", importCtx.Comment())
	require.Equal(t, ErrorNone, importCtx.LastError())
}

func TestAddTexMap_RequiresDefinedMesh(t *testing.T) {
	ctx, err := NewContext(ModeExport)
	require.NoError(t, err)

	_, err = ctx.AddTexMap([]mesh.Vec2{{0, 0}}, "uv0", "")
	require.Error(t, err)
	require.Equal(t, ErrorInvalidOperation, ctx.LastError())
}

func TestSaveCustom_WrongModeIsInvalidOperation(t *testing.T) {
	ctx, err := NewContext(ModeImport)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = ctx.SaveCustom(&buf)
	require.Error(t, err)
	require.Equal(t, ErrorInvalidOperation, ctx.LastError())
	require.Equal(t, ErrorNone, ctx.LastError())
}

func TestLoadCustom_BadMagicIsFormatError(t *testing.T) {
	ctx, err := NewContext(ModeImport)
	require.NoError(t, err)

	err = ctx.LoadCustom(strings.NewReader("NOPE0000000000000000"))
	require.Error(t, err)
	require.Equal(t, ErrorFormat, ctx.LastError())
}

// TestLastError_ClearsAfterRead covers spec.md §8 scenario 6: a reader that
// returns fewer bytes than requested mid-header (here, inside the 4-byte
// magic tag itself) latches ErrorFile, and the latch clears on next read.
func TestLastError_ClearsAfterRead(t *testing.T) {
	ctx, err := NewContext(ModeImport)
	require.NoError(t, err)

	err = ctx.LoadCustom(strings.NewReader("bad"))
	require.Error(t, err)
	require.Equal(t, ErrorFile, ctx.LastError())
	require.Equal(t, ErrorNone, ctx.LastError())
}

func TestSetVertexPrecisionRel_UsesMeanEdgeLength(t *testing.T) {
	vertices, indices, _ := tetrahedron()

	ctx, err := NewContext(ModeExport)
	require.NoError(t, err)
	require.NoError(t, ctx.DefineMesh(vertices, indices, nil))
	require.NoError(t, ctx.SetVertexPrecisionRel(0.01))

	// Unique edges: three of length 1 and three of length sqrt(2).
	require.InDelta(t, 0.01*(1+math.Sqrt2)/2, float64(ctx.vertexPrecision), 1e-6)
}

// TestSaveLoad_UVMapRoundTrip covers spec.md §8 scenario 4: a quad's named
// UV map survives an MG1 round-trip with bit-identical coordinates and a
// resolvable name lookup.
func TestSaveLoad_UVMapRoundTrip(t *testing.T) {
	vertices := []mesh.Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
	}
	indices := []mesh.Triangle{
		{A: 0, B: 1, C: 2},
		{A: 1, B: 3, C: 2},
	}
	coords := []mesh.Vec2{{0, 0}, {1, 0}, {0, 1}, {1, 1}}

	exportCtx, err := NewContext(ModeExport)
	require.NoError(t, err)
	require.NoError(t, exportCtx.DefineMesh(vertices, indices, nil))
	_, err = exportCtx.AddTexMap(coords, "P", "")
	require.NoError(t, err)
	require.NoError(t, exportCtx.SetCompressionMethod(MethodMG1))

	var buf bytes.Buffer
	require.NoError(t, exportCtx.SaveCustom(&buf))

	importCtx, err := NewContext(ModeImport)
	require.NoError(t, err)
	require.NoError(t, importCtx.LoadCustom(&buf))

	id, ok := importCtx.TexMapByName("P")
	require.True(t, ok)
	tm, ok := importCtx.TexMap(id)
	require.True(t, ok)
	require.Equal(t, coords, tm.Coords)
}

// TestDefineMesh_RejectsTooFewVertices covers spec.md §8's validation
// property: V<3 latches ErrorInvalidMesh.
func TestDefineMesh_RejectsTooFewVertices(t *testing.T) {
	ctx, err := NewContext(ModeExport)
	require.NoError(t, err)

	err = ctx.DefineMesh(
		[]mesh.Vec3{{0, 0, 0}, {1, 0, 0}},
		[]mesh.Triangle{{A: 0, B: 0, C: 1}},
		nil,
	)
	require.Error(t, err)
	require.Equal(t, ErrorInvalidMesh, ctx.LastError())
}

// TestDefineMesh_RejectsOutOfRangeIndex covers spec.md §8's validation
// property: an out-of-range triangle index latches ErrorInvalidMesh.
func TestDefineMesh_RejectsOutOfRangeIndex(t *testing.T) {
	vertices, _, _ := tetrahedron()

	ctx, err := NewContext(ModeExport)
	require.NoError(t, err)

	err = ctx.DefineMesh(vertices, []mesh.Triangle{{A: 0, B: 1, C: 99}}, nil)
	require.Error(t, err)
	require.Equal(t, ErrorInvalidMesh, ctx.LastError())
}

func TestNewContext_WithOptions(t *testing.T) {
	ctx, err := NewContext(ModeExport, WithCompressionMethod(MethodMG2), WithVertexPrecision(0.25), WithFileComment("opts"))
	require.NoError(t, err)
	require.Equal(t, "opts", ctx.Comment())
	require.Equal(t, format.MethodMG2, ctx.method)
}

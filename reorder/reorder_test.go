package reorder

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

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
		{A: 3, B: 1, C: 2},
		{A: 0, B: 2, C: 1},
		{A: 0, B: 3, C: 2},
		{A: 1, B: 3, C: 0},
	}

	return m
}

func TestReorder_FirstIndexIsSmallestAfterRotation(t *testing.T) {
	m := tetrahedron()
	plan := Reorder(m)

	for _, nt := range plan.Triangles {
		oa := plan.Permutation[nt.A]
		ob := plan.Permutation[nt.B]
		oc := plan.Permutation[nt.C]
		require.True(t, oa <= ob && oa <= oc, "expected smallest index first: %d %d %d", oa, ob, oc)
	}
}

func TestReorder_SortedByFirstThenSecond(t *testing.T) {
	m := tetrahedron()
	plan := Reorder(m)

	for i := 1; i < len(plan.Triangles); i++ {
		// The sort runs on the rotated original indices, before the
		// first-touch remap, so compare through Permutation (new -> old).
		prev := plan.Triangles[i-1]
		cur := plan.Triangles[i]
		pa, pb := plan.Permutation[prev.A], plan.Permutation[prev.B]
		ca, cb := plan.Permutation[cur.A], plan.Permutation[cur.B]
		require.True(t, pa < ca || (pa == ca && pb <= cb))
	}
}

func TestReorder_PermutationEquivalence(t *testing.T) {
	m := tetrahedron()
	plan := Reorder(m)

	require.Len(t, plan.Permutation, len(m.Vertices))

	seen := make([]bool, len(m.Vertices))
	for _, old := range plan.Permutation {
		require.False(t, seen[old], "duplicate original index %d in permutation", old)
		seen[old] = true
	}

	newVerts := ApplyPermutation(m.Vertices, plan.Permutation)

	origTriPositions := make(map[[3]mesh.Vec3]bool)
	for _, tri := range m.Indices {
		origTriPositions[[3]mesh.Vec3{m.Vertices[tri.A], m.Vertices[tri.B], m.Vertices[tri.C]}] = true
	}

	require.Equal(t, len(origTriPositions), len(plan.Triangles))
	for _, tri := range plan.Triangles {
		candidate := [3]mesh.Vec3{newVerts[tri.A], newVerts[tri.B], newVerts[tri.C]}
		found := false
		for orig := range origTriPositions {
			if samePointSet(orig, candidate) {
				found = true
				break
			}
		}
		require.True(t, found, "reordered triangle %v has no matching original", candidate)
	}
}

func samePointSet(a, b [3]mesh.Vec3) bool {
	as := []mesh.Vec3{a[0], a[1], a[2]}
	bs := []mesh.Vec3{b[0], b[1], b[2]}
	sort.Slice(as, func(i, j int) bool { return less(as[i], as[j]) })
	sort.Slice(bs, func(i, j int) bool { return less(bs[i], bs[j]) })

	return as[0] == bs[0] && as[1] == bs[1] && as[2] == bs[2]
}

func less(a, b mesh.Vec3) bool {
	if a.X != b.X {
		return a.X < b.X
	}
	if a.Y != b.Y {
		return a.Y < b.Y
	}

	return a.Z < b.Z
}

func TestIndexColumns_RoundTrip(t *testing.T) {
	m := tetrahedron()
	plan := Reorder(m)

	first, second, third := IndexColumns(plan.Triangles)
	got := DecodeIndexColumns(first, second, third)
	require.Equal(t, plan.Triangles, got)
}

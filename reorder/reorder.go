// Package reorder implements the §4.4 index reorderer shared by MG1 and
// MG2: canonical triangle rotation, a stable lexicographic sort, and the
// first-touch vertex remap that both codecs reorder their per-vertex
// arrays by before delta-coding.
//
// The remap keeps the same claimed/committed bookkeeping shape mebo's
// NumericEncoder uses to track encoder-lifecycle state (blob/numeric_encoder.go),
// adapted here to track "old index -> new index" assignment state instead
// of metric-claim state.
package reorder

import (
	"sort"

	"github.com/wangfeilong321/openctm/internal/delta"
	"github.com/wangfeilong321/openctm/mesh"
)

// Plan holds the output of Reorder: the rotated, sorted, reindexed
// triangles plus the permutation needed to reorder every per-vertex array.
type Plan struct {
	// Triangles are rotated, sorted, and reindexed against the new vertex
	// numbering (Permutation).
	Triangles []mesh.Triangle

	// Permutation maps new vertex index -> original vertex index, in
	// first-touch order. len(Permutation) == original vertex count.
	Permutation []uint32
}

// Reorder computes the canonical triangle order and vertex permutation for
// m. It does not mutate m.
func Reorder(m *mesh.Mesh) *Plan {
	tris := make([]mesh.Triangle, len(m.Indices))
	copy(tris, m.Indices)

	for i, t := range tris {
		tris[i] = rotate(t)
	}

	sort.SliceStable(tris, func(i, j int) bool {
		if tris[i].A != tris[j].A {
			return tris[i].A < tris[j].A
		}

		return tris[i].B < tris[j].B
	})

	perm := make([]uint32, 0, len(m.Vertices))
	assigned := make([]bool, len(m.Vertices))
	newIndexOf := make([]uint32, len(m.Vertices))

	touch := func(old uint32) uint32 {
		if assigned[old] {
			return newIndexOf[old]
		}
		newIdx := uint32(len(perm)) //nolint: gosec
		assigned[old] = true
		newIndexOf[old] = newIdx
		perm = append(perm, old)

		return newIdx
	}

	remapped := make([]mesh.Triangle, len(tris))
	for i, t := range tris {
		remapped[i] = mesh.Triangle{
			A: touch(t.A),
			B: touch(t.B),
			C: touch(t.C),
		}
	}

	return &Plan{Triangles: remapped, Permutation: perm}
}

// rotate cyclically rotates t so its smallest index comes first, without
// flipping winding order.
func rotate(t mesh.Triangle) mesh.Triangle {
	switch {
	case t.A <= t.B && t.A <= t.C:
		return t
	case t.B <= t.A && t.B <= t.C:
		return mesh.Triangle{A: t.B, B: t.C, C: t.A}
	default:
		return mesh.Triangle{A: t.C, B: t.A, C: t.B}
	}
}

// InversePermutation returns inv such that inv[perm[i]] == i, i.e. a map
// from original index to new index.
func InversePermutation(perm []uint32) []uint32 {
	inv := make([]uint32, len(perm))
	for newIdx, oldIdx := range perm {
		inv[oldIdx] = uint32(newIdx) //nolint: gosec
	}

	return inv
}

// ApplyPermutation returns a new slice where out[i] = values[perm[i]].
func ApplyPermutation[T any](values []T, perm []uint32) []T {
	out := make([]T, len(perm))
	for i, oldIdx := range perm {
		out[i] = values[oldIdx]
	}

	return out
}

// IndexColumns splits triangles into the three delta-ready columns
// described in §4.4: first-index deltas (signed, relative to the previous
// triangle's first index), and second/third deltas relative to their own
// triangle's first index. Because the sort runs before the first-touch
// remap, a first-index delta can be negative.
func IndexColumns(tris []mesh.Triangle) (first, second, third []int32) {
	first = make([]int32, len(tris))
	second = make([]int32, len(tris))
	third = make([]int32, len(tris))
	for i, t := range tris {
		first[i] = int32(t.A)  //nolint: gosec
		second[i] = int32(t.B) //nolint: gosec
		third[i] = int32(t.C)  //nolint: gosec
	}

	firstDeltas := delta.Encode(first)
	secondRel := delta.EncodeRelative(second, first)
	thirdRel := delta.EncodeRelative(third, first)

	return firstDeltas, secondRel, thirdRel
}

// DecodeIndexColumns reverses IndexColumns.
func DecodeIndexColumns(first, second, third []int32) []mesh.Triangle {
	firstAbs := delta.Decode(first)
	secondAbs := delta.DecodeRelative(second, firstAbs)
	thirdAbs := delta.DecodeRelative(third, firstAbs)

	tris := make([]mesh.Triangle, len(firstAbs))
	for i := range tris {
		tris[i] = mesh.Triangle{
			A: uint32(firstAbs[i]),  //nolint: gosec
			B: uint32(secondAbs[i]), //nolint: gosec
			C: uint32(thirdAbs[i]),  //nolint: gosec
		}
	}

	return tris
}

package mesh

import (
	"fmt"

	"github.com/wangfeilong321/openctm/errs"
)

// MeanEdgeLength returns the mean length of every unique edge across all
// triangles (§4.3, used by SetVertexPrecisionRel). An edge (i,j) with i<j
// is only counted once even if shared by two triangles.
//
// Returns ErrInvalidOperation if the mesh has no vertices or triangles
// defined yet.
func (m *Mesh) MeanEdgeLength() (float32, error) {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return 0, fmt.Errorf("%w: mesh must be defined before computing edge length", errs.ErrInvalidOperation)
	}

	type edgeKey struct{ lo, hi uint32 }
	seen := make(map[edgeKey]struct{}, len(m.Indices)*3)

	var sum float64
	var count int
	addEdge := func(a, b uint32) {
		k := edgeKey{a, b}
		if a > b {
			k = edgeKey{b, a}
		}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}

		pa := m.Vertices[a]
		pb := m.Vertices[b]
		sum += float64(pa.Sub(pb).Length())
		count++
	}

	for _, tri := range m.Indices {
		addEdge(tri.A, tri.B)
		addEdge(tri.B, tri.C)
		addEdge(tri.C, tri.A)
	}

	if count == 0 {
		return 0, fmt.Errorf("%w: mesh has no edges", errs.ErrInvalidMesh)
	}

	return float32(sum / float64(count)), nil
}

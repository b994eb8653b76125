package mesh

import (
	"fmt"
	"math"

	"github.com/wangfeilong321/openctm/errs"
	"github.com/wangfeilong321/openctm/format"
)

// Mesh is the in-memory representation shared by every codec: vertex
// positions, triangle indices, an optional normal array, and the ordered
// texture/attribute map lists, §3.
//
// A Mesh built by an encoder borrows the caller's slices; a Mesh produced by
// a decoder owns freshly allocated slices for the lifetime of the owning
// Context (or until the Context is reused by another Load).
type Mesh struct {
	Vertices []Vec3
	Indices  []Triangle
	Normals  []Vec3 // nil if the mesh has no normals

	TexMaps    []*TexMap
	AttribMaps []*AttribMap

	Comment string

	texNames  *nameRegistry
	attrNames *nameRegistry
}

// New creates an empty Mesh with its name registries initialized.
func New() *Mesh {
	return &Mesh{
		texNames:  newNameRegistry(),
		attrNames: newNameRegistry(),
	}
}

// VertexCount returns len(m.Vertices).
func (m *Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns len(m.Indices).
func (m *Mesh) TriangleCount() int { return len(m.Indices) }

// HasNormals reports whether the mesh carries a per-vertex normal array.
func (m *Mesh) HasNormals() bool { return len(m.Normals) > 0 }

// AddTexMap registers a new UV map, rejecting a name already used by
// another map on this Mesh or a map whose length doesn't match the vertex
// count.
func (m *Mesh) AddTexMap(tm *TexMap) (TexMapID, error) {
	if m.texNames == nil {
		m.texNames = newNameRegistry()
	}
	if len(m.TexMaps) >= format.MaxTexMaps {
		return 0, fmt.Errorf("%w: at most %d texture maps are supported", errs.ErrInvalidArgument, format.MaxTexMaps)
	}
	if tm.Name == "" || len(tm.Name) > format.MaxMapNameLen {
		return 0, fmt.Errorf("%w: texture map name must be 1-%d bytes", errs.ErrInvalidArgument, format.MaxMapNameLen)
	}
	if !m.texNames.add(tm.Name) {
		return 0, fmt.Errorf("%w: duplicate texture map name %q", errs.ErrInvalidArgument, tm.Name)
	}
	if len(m.Vertices) > 0 && len(tm.Coords) != len(m.Vertices) {
		return 0, fmt.Errorf("%w: texture map %q has %d coords, want %d", errs.ErrInvalidMesh, tm.Name, len(tm.Coords), len(m.Vertices))
	}
	if tm.Precision <= 0 || math.IsNaN(float64(tm.Precision)) || math.IsInf(float64(tm.Precision), 0) {
		return 0, fmt.Errorf("%w: texture map %q precision must be positive and finite", errs.ErrInvalidArgument, tm.Name)
	}

	m.TexMaps = append(m.TexMaps, tm)

	return TexMapID(len(m.TexMaps) - 1), nil
}

// AddAttribMap registers a new generic attribute map, with the same
// uniqueness and length rules as AddTexMap.
func (m *Mesh) AddAttribMap(am *AttribMap) (AttribMapID, error) {
	if m.attrNames == nil {
		m.attrNames = newNameRegistry()
	}
	if len(m.AttribMaps) >= format.MaxAttribMaps {
		return 0, fmt.Errorf("%w: at most %d attribute maps are supported", errs.ErrInvalidArgument, format.MaxAttribMaps)
	}
	if am.Name == "" || len(am.Name) > format.MaxMapNameLen {
		return 0, fmt.Errorf("%w: attribute map name must be 1-%d bytes", errs.ErrInvalidArgument, format.MaxMapNameLen)
	}
	if !m.attrNames.add(am.Name) {
		return 0, fmt.Errorf("%w: duplicate attribute map name %q", errs.ErrInvalidArgument, am.Name)
	}
	if len(m.Vertices) > 0 && len(am.Values) != len(m.Vertices) {
		return 0, fmt.Errorf("%w: attribute map %q has %d values, want %d", errs.ErrInvalidMesh, am.Name, len(am.Values), len(m.Vertices))
	}
	if am.Precision <= 0 || math.IsNaN(float64(am.Precision)) || math.IsInf(float64(am.Precision), 0) {
		return 0, fmt.Errorf("%w: attribute map %q precision must be positive and finite", errs.ErrInvalidArgument, am.Name)
	}

	m.AttribMaps = append(m.AttribMaps, am)

	return AttribMapID(len(m.AttribMaps) - 1), nil
}

// TexMapByName returns the id of the named texture map, or ok=false if no
// such map is registered.
func (m *Mesh) TexMapByName(name string) (TexMapID, bool) {
	for i, tm := range m.TexMaps {
		if tm.Name == name {
			return TexMapID(i), true
		}
	}

	return 0, false
}

// AttribMapByName returns the id of the named attribute map, or ok=false if
// no such map is registered.
func (m *Mesh) AttribMapByName(name string) (AttribMapID, bool) {
	for i, am := range m.AttribMaps {
		if am.Name == name {
			return AttribMapID(i), true
		}
	}

	return 0, false
}

// Validate checks every §3 structural invariant: vertex/triangle count
// floors, in-range non-degenerate triangle indices, map-length agreement
// with the vertex count, and strictly positive finite precisions. It is
// called by encoders before any codec work and by decoders immediately
// after a mesh is reconstructed.
func (m *Mesh) Validate() error {
	v := len(m.Vertices)
	t := len(m.Indices)

	if v < 3 {
		return fmt.Errorf("%w: mesh has %d vertices, need at least 3", errs.ErrInvalidMesh, v)
	}
	if t < 1 {
		return fmt.Errorf("%w: mesh has %d triangles, need at least 1", errs.ErrInvalidMesh, t)
	}
	if v > format.MaxVertexCount {
		return fmt.Errorf("%w: vertex count %d exceeds limit", errs.ErrInvalidMesh, v)
	}
	if t > format.MaxTriangleCount {
		return fmt.Errorf("%w: triangle count %d exceeds limit", errs.ErrInvalidMesh, t)
	}

	for i, tri := range m.Indices {
		if tri.Degenerate() {
			return fmt.Errorf("%w: triangle %d is degenerate (%d,%d,%d)", errs.ErrInvalidMesh, i, tri.A, tri.B, tri.C)
		}
		if int(tri.A) >= v || int(tri.B) >= v || int(tri.C) >= v {
			return fmt.Errorf("%w: triangle %d references out-of-range vertex", errs.ErrInvalidMesh, i)
		}
	}

	if m.HasNormals() && len(m.Normals) != v {
		return fmt.Errorf("%w: normal array has %d entries, want %d", errs.ErrInvalidMesh, len(m.Normals), v)
	}

	for _, tm := range m.TexMaps {
		if len(tm.Coords) != v {
			return fmt.Errorf("%w: texture map %q has %d coords, want %d", errs.ErrInvalidMesh, tm.Name, len(tm.Coords), v)
		}
		if tm.Precision <= 0 || math.IsNaN(float64(tm.Precision)) || math.IsInf(float64(tm.Precision), 0) {
			return fmt.Errorf("%w: texture map %q precision must be positive and finite", errs.ErrInvalidMesh, tm.Name)
		}
	}
	for _, am := range m.AttribMaps {
		if len(am.Values) != v {
			return fmt.Errorf("%w: attribute map %q has %d values, want %d", errs.ErrInvalidMesh, am.Name, len(am.Values), v)
		}
		if am.Precision <= 0 || math.IsNaN(float64(am.Precision)) || math.IsInf(float64(am.Precision), 0) {
			return fmt.Errorf("%w: attribute map %q precision must be positive and finite", errs.ErrInvalidMesh, am.Name)
		}
	}

	return nil
}

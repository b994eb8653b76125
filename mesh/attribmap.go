package mesh

import "github.com/wangfeilong321/openctm/format"

// AttribMapID identifies a generic attribute map within a Mesh's ordered
// list. IDs are stable for the lifetime of the Mesh they were returned
// from.
type AttribMapID int

// AttribMap is a single 4-channel generic attribute map, §3.
type AttribMap struct {
	// Name uniquely identifies this map within its Mesh.
	Name string
	// Values holds one 4-tuple per mesh vertex.
	Values []Vec4
	// Precision is the quantization step used by MG2 for this map's
	// channels; must be strictly positive.
	Precision float32
}

// NewAttribMap creates an AttribMap with the default precision (§3).
func NewAttribMap(name string, values []Vec4) *AttribMap {
	return &AttribMap{
		Name:      name,
		Values:    values,
		Precision: format.DefaultAttribPrecision,
	}
}

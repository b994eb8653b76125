package mesh

import "github.com/wangfeilong321/openctm/format"

// TexMapID identifies a texture coordinate map within a Mesh's ordered
// list. IDs are stable for the lifetime of the Mesh they were returned
// from.
type TexMapID int

// TexMap is a single 2-channel UV coordinate map, §3.
type TexMap struct {
	// Name uniquely identifies this map within its Mesh (≤256 bytes).
	Name string
	// Filename is an optional reference to an external texture image; the
	// codec never reads or interprets the file it names.
	Filename string
	// Coords holds one UV pair per mesh vertex.
	Coords []Vec2
	// Precision is the quantization step used by MG2 for this map's
	// channels; must be strictly positive.
	Precision float32
}

// NewTexMap creates a TexMap with the default precision (§3).
func NewTexMap(name, filename string, coords []Vec2) *TexMap {
	return &TexMap{
		Name:      name,
		Filename:  filename,
		Coords:    coords,
		Precision: format.DefaultTexCoordPrec,
	}
}

// Package format defines the wire constants shared by the container framing
// and the three body codecs: the container magic and version, the method
// enum, per-mesh flag bits, and the chunk tags used inside MG1/MG2 bodies.
package format

// Method selects the body encoding used for a container's mesh payload.
type Method uint32

const (
	// MethodRaw stores vertex/index/map data as verbatim little-endian
	// values with no reordering, delta coding, or compression.
	MethodRaw Method = 1
	// MethodMG1 is the lossless geometry pipeline (reorder + delta + LZMA).
	MethodMG1 Method = 2
	// MethodMG2 is the lossy fixed-point geometry pipeline.
	MethodMG2 Method = 3
)

func (m Method) String() string {
	switch m {
	case MethodRaw:
		return "RAW"
	case MethodMG1:
		return "MG1"
	case MethodMG2:
		return "MG2"
	default:
		return "Unknown"
	}
}

// Valid reports whether m is one of the three known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodRaw, MethodMG1, MethodMG2:
		return true
	default:
		return false
	}
}

// MagicOCTM is the four-byte tag at the start of every container file.
const MagicOCTM = "OCTM"

// Version is the only container version this module reads or writes.
const Version uint32 = 4

// Flag bits, packed into the container header's flags:u32 field.
const (
	// FlagHasNormals indicates the mesh carries a per-vertex normal array.
	FlagHasNormals uint32 = 1 << 0
)

// Body tags: the first chunk of an MG1 or MG2 body names the encoding that
// follows, mirroring the counts already present in the container header.
const (
	TagMG1 = "MG1\x00"
	TagMG2 = "MG2\x00"
)

// Chunk tags used inside MG1 and MG2 bodies (§4.5, §4.6).
const (
	TagINDX = "INDX"
	TagVERT = "VERT"
	TagNORM = "NORM"
	TagTEXC = "TEXC"
	TagATTR = "ATTR"
)

// Default precisions (§3) used when a Context or Mesh does not override them.
const (
	DefaultVertexPrecision = 1.0 / 1024.0 // 2^-10
	DefaultNormalPrecision = 1.0 / 256.0  // 2^-8
	DefaultTexCoordPrec    = 1.0 / 4096.0 // 2^-12
	DefaultAttribPrecision = 1.0 / 256.0  // 2^-8
)

// Compression levels accepted by the LZMA stage (§4.2), and the defaults
// used by MG1 (fast) and MG2 (max ratio).
const (
	MinCompressionLevel = 0
	MaxCompressionLevel = 9

	DefaultMG1Level = 1
	DefaultMG2Level = 9
)

// Limits enforced by container framing (§4.7).
const (
	MaxVertexCount   = 1<<31 - 1
	MaxTriangleCount = (1<<31 - 1) / 3

	MaxTexMaps    = 8
	MaxAttribMaps = 8

	MaxMapNameLen = 256
)

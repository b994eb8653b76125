package mg2

import (
	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/mesh"
)

// header is the "MG2\0" sub-header, spec.md §3.
type header struct {
	VertexCount    uint32
	TriangleCount  uint32
	UVMapCount     uint32
	AttribMapCount uint32
	Flags          uint32

	VertexPrecision float32
	NormalPrecision float32

	BBoxMin, BBoxMax mesh.Vec3

	DivX, DivY, DivZ uint32
}

func (h header) HasNormals() bool { return h.Flags&format.FlagHasNormals != 0 }

func writeHeader(w *bitio.Writer, h header) error {
	if err := w.WriteTag(format.TagMG2); err != nil {
		return err
	}
	if err := w.WriteU32(h.VertexCount); err != nil {
		return err
	}
	if err := w.WriteU32(h.TriangleCount); err != nil {
		return err
	}
	if err := w.WriteU32(h.UVMapCount); err != nil {
		return err
	}
	if err := w.WriteU32(h.AttribMapCount); err != nil {
		return err
	}
	if err := w.WriteU32(h.Flags); err != nil {
		return err
	}
	if err := w.WriteF32(h.VertexPrecision); err != nil {
		return err
	}
	if err := w.WriteF32(h.NormalPrecision); err != nil {
		return err
	}
	if err := w.WriteF32Slice([]float32{h.BBoxMin.X, h.BBoxMin.Y, h.BBoxMin.Z}); err != nil {
		return err
	}
	if err := w.WriteF32Slice([]float32{h.BBoxMax.X, h.BBoxMax.Y, h.BBoxMax.Z}); err != nil {
		return err
	}
	if err := w.WriteU32(h.DivX); err != nil {
		return err
	}
	if err := w.WriteU32(h.DivY); err != nil {
		return err
	}

	return w.WriteU32(h.DivZ)
}

func readHeader(r *bitio.Reader) (header, error) {
	var h header
	if err := r.ExpectTag(format.TagMG2); err != nil {
		return h, err
	}

	var err error
	if h.VertexCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.TriangleCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.UVMapCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.AttribMapCount, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.Flags, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.VertexPrecision, err = r.ReadF32(); err != nil {
		return h, err
	}
	if h.NormalPrecision, err = r.ReadF32(); err != nil {
		return h, err
	}

	bmin, err := r.ReadF32Slice(3)
	if err != nil {
		return h, err
	}
	h.BBoxMin = mesh.Vec3{X: bmin[0], Y: bmin[1], Z: bmin[2]}

	bmax, err := r.ReadF32Slice(3)
	if err != nil {
		return h, err
	}
	h.BBoxMax = mesh.Vec3{X: bmax[0], Y: bmax[1], Z: bmax[2]}

	if h.DivX, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.DivY, err = r.ReadU32(); err != nil {
		return h, err
	}
	if h.DivZ, err = r.ReadU32(); err != nil {
		return h, err
	}

	return h, nil
}

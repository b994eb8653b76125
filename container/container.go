// Package container implements the §4.7 outer file framing shared by every
// body encoding: the "OCTM" magic, version, method selector, structural
// counts, flags, and comment string, followed by a method-specific body
// dispatched to codec/raw, codec/mg1, or codec/mg2.
package container

import (
	"fmt"
	"io"

	"github.com/wangfeilong321/openctm/bitio"
	"github.com/wangfeilong321/openctm/codec/mg1"
	"github.com/wangfeilong321/openctm/codec/mg2"
	"github.com/wangfeilong321/openctm/codec/raw"
	"github.com/wangfeilong321/openctm/errs"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/mesh"
)

// EncodeOptions controls the body encoding chosen by Encode.
type EncodeOptions struct {
	Method          format.Method
	VertexPrecision float32
	NormalPrecision float32
	LZMALevel       int
}

// DefaultEncodeOptions returns the MG1 lossless defaults (§3).
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Method:          format.MethodMG1,
		VertexPrecision: format.DefaultVertexPrecision,
		NormalPrecision: format.DefaultNormalPrecision,
		LZMALevel:       format.DefaultMG1Level,
	}
}

// Encode validates m and writes it to w as a complete OpenCTM file under
// opts.
func Encode(w io.Writer, m *mesh.Mesh, opts EncodeOptions) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if !opts.Method.Valid() {
		return fmt.Errorf("%w: unknown compression method %d", errs.ErrFormat, opts.Method)
	}

	bw := bitio.NewWriter(w)

	if err := bw.WriteTag(format.MagicOCTM); err != nil {
		return err
	}
	if err := bw.WriteU32(format.Version); err != nil {
		return err
	}
	if err := bw.WriteU32(uint32(opts.Method)); err != nil {
		return err
	}
	if err := bw.WriteU32(uint32(m.VertexCount())); err != nil { //nolint:gosec
		return err
	}
	if err := bw.WriteU32(uint32(m.TriangleCount())); err != nil { //nolint:gosec
		return err
	}
	if err := bw.WriteU32(uint32(len(m.TexMaps))); err != nil { //nolint:gosec
		return err
	}
	if err := bw.WriteU32(uint32(len(m.AttribMaps))); err != nil { //nolint:gosec
		return err
	}

	var flags uint32
	if m.HasNormals() {
		flags |= format.FlagHasNormals
	}
	if err := bw.WriteU32(flags); err != nil {
		return err
	}
	if err := bw.WriteString(m.Comment); err != nil {
		return err
	}

	switch opts.Method {
	case format.MethodRaw:
		return raw.Encode(bw, m)
	case format.MethodMG1:
		return mg1.Encode(bw, m, opts.LZMALevel)
	case format.MethodMG2:
		return mg2.Encode(bw, m, opts.VertexPrecision, opts.NormalPrecision, opts.LZMALevel)
	default:
		return fmt.Errorf("%w: unknown compression method %d", errs.ErrFormat, opts.Method)
	}
}

// Decode reads a complete OpenCTM file from r, dispatching to the body
// codec named by its method field. The method actually used is returned
// alongside the mesh so callers (e.g. Context.Load) can report it back.
func Decode(r io.Reader) (*mesh.Mesh, format.Method, error) {
	br := bitio.NewReader(r)

	if err := br.ExpectTag(format.MagicOCTM); err != nil {
		return nil, 0, err
	}

	version, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	if version != format.Version {
		return nil, 0, fmt.Errorf("%w: unsupported version %d", errs.ErrFormat, version)
	}

	methodRaw, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	method := format.Method(methodRaw)
	if !method.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown compression method %d", errs.ErrFormat, methodRaw)
	}

	vertexCount, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	triangleCount, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	uvMapCount, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	attribMapCount, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	flags, err := br.ReadU32()
	if err != nil {
		return nil, 0, err
	}
	comment, err := br.ReadString()
	if err != nil {
		return nil, 0, err
	}

	if vertexCount > format.MaxVertexCount {
		return nil, 0, fmt.Errorf("%w: vertex count %d exceeds limit", errs.ErrFormat, vertexCount)
	}
	if triangleCount > format.MaxTriangleCount {
		return nil, 0, fmt.Errorf("%w: triangle count %d exceeds limit", errs.ErrFormat, triangleCount)
	}
	if uvMapCount > format.MaxTexMaps {
		return nil, 0, fmt.Errorf("%w: uv map count %d exceeds limit", errs.ErrFormat, uvMapCount)
	}
	if attribMapCount > format.MaxAttribMaps {
		return nil, 0, fmt.Errorf("%w: attrib map count %d exceeds limit", errs.ErrFormat, attribMapCount)
	}

	hasNormals := flags&format.FlagHasNormals != 0

	var (
		m    *mesh.Mesh
		body error
	)

	switch method {
	case format.MethodRaw:
		m, body = raw.Decode(br, vertexCount, triangleCount, uvMapCount, attribMapCount, hasNormals)
	case format.MethodMG1:
		m, body = mg1.Decode(br)
	case format.MethodMG2:
		m, body = mg2.Decode(br)
	default:
		return nil, 0, fmt.Errorf("%w: unknown compression method %d", errs.ErrFormat, methodRaw)
	}
	if body != nil {
		return nil, 0, body
	}

	m.Comment = comment

	if err := m.Validate(); err != nil {
		return nil, 0, err
	}

	return m, method, nil
}

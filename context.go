// Package openctm is the Go-native caller API for the OpenCTM compressed
// triangle-mesh format: a Context owns one mesh slot, tracks mode-specific
// lifecycle state, and exposes typed mutators/accessors plus Load/Save
// entry points, §4.8 and §6.
package openctm

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/wangfeilong321/openctm/container"
	"github.com/wangfeilong321/openctm/errs"
	"github.com/wangfeilong321/openctm/format"
	"github.com/wangfeilong321/openctm/internal/options"
	"github.com/wangfeilong321/openctm/mesh"
)

// Method re-exports format.Method so callers never need to import the
// format package directly.
type Method = format.Method

const (
	MethodRaw = format.MethodRaw
	MethodMG1 = format.MethodMG1
	MethodMG2 = format.MethodMG2
)

// ContextOption configures a Context at construction time, mirroring the
// functional-option pattern used throughout this codebase's ambient stack.
type ContextOption = options.Option[*Context]

// Context is the owner of one mesh slot and its lifecycle state, §4.8. It
// is not safe for concurrent use, matching the single-threaded,
// non-reentrant-per-context model of §5.
type Context struct {
	mode  Mode
	state state
	err   error

	mesh *mesh.Mesh

	method          format.Method
	vertexPrecision float32
	normalPrecision float32
}

// WithCompressionMethod sets the method Save will encode with.
func WithCompressionMethod(m format.Method) ContextOption {
	return options.New(func(c *Context) error {
		return c.SetCompressionMethod(m)
	})
}

// WithVertexPrecision sets the absolute vertex quantization step used by
// MG2.
func WithVertexPrecision(p float32) ContextOption {
	return options.New(func(c *Context) error {
		return c.SetVertexPrecision(p)
	})
}

// WithNormalPrecision sets the normal quantization step used by MG2.
func WithNormalPrecision(p float32) ContextOption {
	return options.New(func(c *Context) error {
		return c.SetNormalPrecision(p)
	})
}

// WithFileComment sets the comment string that Save will embed.
func WithFileComment(s string) ContextOption {
	return options.New(func(c *Context) error {
		return c.SetFileComment(s)
	})
}

// NewContext creates an empty Context in its mode's initial Fresh state.
func NewContext(mode Mode, opts ...ContextOption) (*Context, error) {
	c := &Context{
		mode:            mode,
		state:           stateFresh,
		mesh:            mesh.New(),
		method:          format.MethodMG1,
		vertexPrecision: format.DefaultVertexPrecision,
		normalPrecision: format.DefaultNormalPrecision,
	}

	if err := options.Apply(c, opts...); err != nil {
		c.fail(err)

		return c, err
	}

	return c, nil
}

// Free releases c's mesh slot. Per §4.8, Free is honored even in Failed
// state; it is idempotent.
func (c *Context) Free() {
	c.mesh = nil
	c.state = stateFailed
	c.err = nil
}

// LastError returns and clears the latched error code, §7/§8. A second
// call before any further operation returns ErrorNone.
func (c *Context) LastError() ErrorKind {
	k := classify(c.err)
	c.err = nil

	return k
}

// fail latches err and transitions c to Failed, returning err unchanged so
// callers can `return c.fail(err)`.
func (c *Context) fail(err error) error {
	c.err = err
	c.state = stateFailed

	return err
}

// requireMode returns ErrInvalidOperation (and latches Failed) if c is not
// in want mode.
func (c *Context) requireMode(want Mode) error {
	if c.mode != want {
		return c.fail(fmt.Errorf("%w: operation requires mode %s, context is %s", errs.ErrInvalidOperation, want, c.mode))
	}

	return nil
}

// DefineMesh registers vertices, indices, and (optionally) normals on an
// Export context, transitioning Fresh(Export) -> Defined. normals may be
// nil.
func (c *Context) DefineMesh(vertices []mesh.Vec3, indices []mesh.Triangle, normals []mesh.Vec3) error {
	if err := c.requireMode(ModeExport); err != nil {
		return err
	}
	if c.state != stateFresh && c.state != stateDefined {
		return c.fail(fmt.Errorf("%w: define_mesh requires Fresh or Defined state", errs.ErrInvalidOperation))
	}

	m := mesh.New()
	m.Vertices = vertices
	m.Indices = indices
	m.Normals = normals
	m.Comment = c.mesh.Comment

	if err := m.Validate(); err != nil {
		return c.fail(err)
	}

	c.mesh = m
	c.state = stateDefined

	return nil
}

// AddTexMap registers a UV map on a Defined Export context.
func (c *Context) AddTexMap(coords []mesh.Vec2, name, filename string) (mesh.TexMapID, error) {
	if err := c.requireDefined(); err != nil {
		return 0, err
	}

	tm := mesh.NewTexMap(name, filename, coords)

	id, err := c.mesh.AddTexMap(tm)
	if err != nil {
		return 0, c.fail(err)
	}

	return id, nil
}

// AddAttribMap registers a generic attribute map on a Defined Export
// context.
func (c *Context) AddAttribMap(values []mesh.Vec4, name string) (mesh.AttribMapID, error) {
	if err := c.requireDefined(); err != nil {
		return 0, err
	}

	am := mesh.NewAttribMap(name, values)

	id, err := c.mesh.AddAttribMap(am)
	if err != nil {
		return 0, c.fail(err)
	}

	return id, nil
}

func (c *Context) requireDefined() error {
	if err := c.requireMode(ModeExport); err != nil {
		return err
	}
	if c.state != stateDefined {
		return c.fail(fmt.Errorf("%w: mesh must be defined first", errs.ErrInvalidOperation))
	}

	return nil
}

// SetCompressionMethod selects the body encoding Save will use.
func (c *Context) SetCompressionMethod(m format.Method) error {
	if !m.Valid() {
		return c.fail(fmt.Errorf("%w: unknown compression method %d", errs.ErrInvalidArgument, m))
	}

	c.method = m

	return nil
}

// SetVertexPrecision sets the absolute MG2 vertex quantization step.
func (c *Context) SetVertexPrecision(p float32) error {
	if !positiveFinite(p) {
		return c.fail(fmt.Errorf("%w: vertex precision must be positive and finite", errs.ErrInvalidArgument))
	}

	c.vertexPrecision = p

	return nil
}

// SetVertexPrecisionRel sets the vertex precision to k times the mesh's
// mean edge length. The mesh must already be defined.
func (c *Context) SetVertexPrecisionRel(k float32) error {
	if err := c.requireDefined(); err != nil {
		return err
	}
	if !positiveFinite(k) {
		return c.fail(fmt.Errorf("%w: relative precision factor must be positive and finite", errs.ErrInvalidArgument))
	}

	mean, err := c.mesh.MeanEdgeLength()
	if err != nil {
		return c.fail(err)
	}

	c.vertexPrecision = k * mean

	return nil
}

// SetNormalPrecision sets the MG2 normal quantization step.
func (c *Context) SetNormalPrecision(p float32) error {
	if !positiveFinite(p) {
		return c.fail(fmt.Errorf("%w: normal precision must be positive and finite", errs.ErrInvalidArgument))
	}

	c.normalPrecision = p

	return nil
}

// SetTexCoordPrecision sets the MG2 quantization step for one registered
// UV map.
func (c *Context) SetTexCoordPrecision(id mesh.TexMapID, p float32) error {
	if err := c.requireDefined(); err != nil {
		return err
	}
	if !positiveFinite(p) {
		return c.fail(fmt.Errorf("%w: texture precision must be positive and finite", errs.ErrInvalidArgument))
	}
	if int(id) < 0 || int(id) >= len(c.mesh.TexMaps) {
		return c.fail(fmt.Errorf("%w: unknown texture map id %d", errs.ErrInvalidArgument, id))
	}

	c.mesh.TexMaps[id].Precision = p

	return nil
}

// SetAttribPrecision sets the MG2 quantization step for one registered
// attribute map.
func (c *Context) SetAttribPrecision(id mesh.AttribMapID, p float32) error {
	if err := c.requireDefined(); err != nil {
		return err
	}
	if !positiveFinite(p) {
		return c.fail(fmt.Errorf("%w: attribute precision must be positive and finite", errs.ErrInvalidArgument))
	}
	if int(id) < 0 || int(id) >= len(c.mesh.AttribMaps) {
		return c.fail(fmt.Errorf("%w: unknown attribute map id %d", errs.ErrInvalidArgument, id))
	}

	c.mesh.AttribMaps[id].Precision = p

	return nil
}

// SetFileComment sets the comment string Save will embed in the container
// header.
func (c *Context) SetFileComment(s string) error {
	c.mesh.Comment = s

	return nil
}

func positiveFinite(v float32) bool {
	return v > 0 && v < float32(1e30) && v == v // v==v rejects NaN
}

// Vertices returns the current mesh's vertex positions, borrowed until the
// next mutating call.
func (c *Context) Vertices() []mesh.Vec3 { return c.mesh.Vertices }

// Indices returns the current mesh's triangle indices.
func (c *Context) Indices() []mesh.Triangle { return c.mesh.Indices }

// Normals returns the current mesh's per-vertex normals, or nil if the
// mesh has none.
func (c *Context) Normals() []mesh.Vec3 { return c.mesh.Normals }

// VertexCount returns the current mesh's vertex count.
func (c *Context) VertexCount() int { return c.mesh.VertexCount() }

// TriangleCount returns the current mesh's triangle count.
func (c *Context) TriangleCount() int { return c.mesh.TriangleCount() }

// Comment returns the current mesh's comment string.
func (c *Context) Comment() string { return c.mesh.Comment }

// TexMapCount returns the number of registered UV maps.
func (c *Context) TexMapCount() int { return len(c.mesh.TexMaps) }

// TexMap returns the id'th registered UV map, or ok=false if id is out of
// range.
func (c *Context) TexMap(id mesh.TexMapID) (*mesh.TexMap, bool) {
	if int(id) < 0 || int(id) >= len(c.mesh.TexMaps) {
		return nil, false
	}

	return c.mesh.TexMaps[id], true
}

// TexMapByName returns the id of the named UV map, or ok=false if no such
// map is registered.
func (c *Context) TexMapByName(name string) (mesh.TexMapID, bool) {
	return c.mesh.TexMapByName(name)
}

// AttribMapCount returns the number of registered attribute maps.
func (c *Context) AttribMapCount() int { return len(c.mesh.AttribMaps) }

// AttribMap returns the id'th registered attribute map, or ok=false if id
// is out of range.
func (c *Context) AttribMap(id mesh.AttribMapID) (*mesh.AttribMap, bool) {
	if int(id) < 0 || int(id) >= len(c.mesh.AttribMaps) {
		return nil, false
	}

	return c.mesh.AttribMaps[id], true
}

// AttribMapByName returns the id of the named attribute map, or ok=false
// if no such map is registered.
func (c *Context) AttribMapByName(name string) (mesh.AttribMapID, bool) {
	return c.mesh.AttribMapByName(name)
}

// LoadCustom decodes a complete OpenCTM file from r into c's mesh slot,
// transitioning Fresh(Import)/Loaded -> Loaded on success or -> Failed on
// any error (§4.8).
func (c *Context) LoadCustom(r io.Reader) error {
	if err := c.requireMode(ModeImport); err != nil {
		return err
	}

	m, method, err := container.Decode(r)
	if err != nil {
		return c.fail(err)
	}

	c.mesh = m
	c.method = method
	c.state = stateLoaded

	return nil
}

// Load opens filename and decodes it via a memory-mapped fast path,
// falling back to a buffered reader if mapping the file fails (e.g. it is
// empty, per mmap-go's documented zero-length restriction).
func (c *Context) Load(filename string) error {
	if err := c.requireMode(ModeImport); err != nil {
		return err
	}

	f, err := os.Open(filename)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", errs.ErrFile, err))
	}
	defer f.Close()

	data, mmapErr := mmap.Map(f, mmap.RDONLY, 0)
	if mmapErr != nil {
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return c.fail(fmt.Errorf("%w: %v", errs.ErrFile, err))
		}

		return c.LoadCustom(bufio.NewReader(f))
	}
	defer data.Unmap() //nolint:errcheck

	return c.LoadCustom(bytes.NewReader(data))
}

// SaveCustom validates and encodes c's mesh to w under the current
// compression method and precisions. The context must be in Defined state
// (§4.8: `save` is reentrant in Defined).
func (c *Context) SaveCustom(w io.Writer) error {
	if err := c.requireMode(ModeExport); err != nil {
		return err
	}
	if c.state != stateDefined {
		return c.fail(fmt.Errorf("%w: save requires a defined mesh", errs.ErrInvalidOperation))
	}

	level := format.DefaultMG1Level
	if c.method == format.MethodMG2 {
		level = format.DefaultMG2Level
	}

	opts := container.EncodeOptions{
		Method:          c.method,
		VertexPrecision: c.vertexPrecision,
		NormalPrecision: c.normalPrecision,
		LZMALevel:       level,
	}

	if err := container.Encode(w, c.mesh, opts); err != nil {
		return c.fail(err)
	}

	return nil
}

// Save creates (or truncates) filename and encodes c's mesh to it.
func (c *Context) Save(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return c.fail(fmt.Errorf("%w: %v", errs.ErrFile, err))
	}

	bw := bufio.NewWriter(f)
	if err := c.SaveCustom(bw); err != nil {
		f.Close()

		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()

		return c.fail(fmt.Errorf("%w: %v", errs.ErrFile, err))
	}

	if err := f.Close(); err != nil {
		return c.fail(fmt.Errorf("%w: %v", errs.ErrFile, err))
	}

	return nil
}

// Package errs defines the sentinel errors used throughout openctm.
//
// Internal functions return ordinary Go errors wrapping one of these
// sentinels with fmt.Errorf("%w: ..."). The root openctm package is the
// only place that translates a returned error into a latched ErrorKind,
// matching the boundary-only error-facade guidance for this codec.
package errs

import "errors"

var (
	// ErrInvalidContext is the sentinel for the InvalidContext error kind.
	// No operation in this module returns it: calls on a freed context fail
	// with ErrInvalidOperation instead.
	ErrInvalidContext = errors.New("openctm: invalid context")

	// ErrInvalidArgument is returned for out-of-range ids, unknown names, or
	// malformed option values.
	ErrInvalidArgument = errors.New("openctm: invalid argument")

	// ErrInvalidOperation is returned when a call is made in the wrong
	// context mode or state (e.g. Save on an Import context).
	ErrInvalidOperation = errors.New("openctm: invalid operation for current state")

	// ErrInvalidMesh is returned when a mesh fails the §3 structural
	// invariants (vertex/triangle counts, degenerate triangles, map length
	// mismatches, non-positive precisions).
	ErrInvalidMesh = errors.New("openctm: invalid mesh")

	// ErrOutOfMemory is the sentinel for the OutOfMemory error kind. No
	// operation in this module returns it; a failed allocation is not
	// recovered.
	ErrOutOfMemory = errors.New("openctm: out of memory")

	// ErrFile is returned when opening, seeking, flushing, or closing a file
	// path fails. A failed memory map is not an error: Load falls back to a
	// buffered reader.
	ErrFile = errors.New("openctm: file error")

	// ErrIO is returned when a reader/writer callback returns fewer bytes
	// than requested, or returns an error mid-operation.
	ErrIO = errors.New("openctm: io error")

	// ErrFormat is returned for a bad magic tag, unsupported version,
	// unknown compression method, or out-of-order/unexpected chunk tag.
	ErrFormat = errors.New("openctm: format error")

	// ErrLZMA is returned when the LZMA stage fails to compress or
	// decompress a chunk payload.
	ErrLZMA = errors.New("openctm: lzma error")

	// ErrInternal is returned for conditions that should be unreachable
	// given the invariants already checked (defensive backstop, not a
	// substitute for validation).
	ErrInternal = errors.New("openctm: internal error")
)

package openctm

import (
	"errors"

	"github.com/wangfeilong321/openctm/errs"
)

// ErrorKind is the latched error code surfaced by Context.LastError, §7.
type ErrorKind int

const (
	ErrorNone ErrorKind = iota
	ErrorInvalidContext
	ErrorInvalidArgument
	ErrorInvalidOperation
	ErrorInvalidMesh
	ErrorOutOfMemory
	ErrorFile
	ErrorFormat
	ErrorLZMA
	ErrorInternal
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorNone:
		return "None"
	case ErrorInvalidContext:
		return "InvalidContext"
	case ErrorInvalidArgument:
		return "InvalidArgument"
	case ErrorInvalidOperation:
		return "InvalidOperation"
	case ErrorInvalidMesh:
		return "InvalidMesh"
	case ErrorOutOfMemory:
		return "OutOfMemory"
	case ErrorFile:
		return "FileError"
	case ErrorFormat:
		return "FormatError"
	case ErrorLZMA:
		return "LZMAError"
	case ErrorInternal:
		return "InternalError"
	default:
		return "Unknown"
	}
}

// classify maps an internal sentinel-wrapped error to its ErrorKind.
// errs.ErrIO (a short read/write or a reader/writer error, which bitio
// always wraps in ErrIO) is reported as ErrorFile. Any error that doesn't
// match a known sentinel is reported as ErrorInternal.
func classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, errs.ErrInvalidContext):
		return ErrorInvalidContext
	case errors.Is(err, errs.ErrInvalidArgument):
		return ErrorInvalidArgument
	case errors.Is(err, errs.ErrInvalidOperation):
		return ErrorInvalidOperation
	case errors.Is(err, errs.ErrInvalidMesh):
		return ErrorInvalidMesh
	case errors.Is(err, errs.ErrOutOfMemory):
		return ErrorOutOfMemory
	case errors.Is(err, errs.ErrFile):
		return ErrorFile
	case errors.Is(err, errs.ErrFormat):
		return ErrorFormat
	case errors.Is(err, errs.ErrIO):
		return ErrorFile
	case errors.Is(err, errs.ErrLZMA):
		return ErrorLZMA
	case errors.Is(err, errs.ErrInternal):
		return ErrorInternal
	default:
		return ErrorInternal
	}
}

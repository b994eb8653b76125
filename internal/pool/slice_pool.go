package pool

import "sync"

// Typed slice pools reused when transforming a mesh's row-based arrays
// (vertices, normals, map channels) into the column-major layout MG1/MG2
// feed to the LZMA stage, adapted from the teacher's int64/float64/string
// slice pools.
var (
	float32SlicePool = sync.Pool{New: func() any { return &[]float32{} }}
	int32SlicePool   = sync.Pool{New: func() any { return &[]int32{} }}
	uint32SlicePool  = sync.Pool{New: func() any { return &[]uint32{} }}
)

// GetFloat32Slice retrieves a float32 slice of exact length size from the
// pool, along with a cleanup function the caller must invoke (typically via
// defer) to return it.
func GetFloat32Slice(size int) ([]float32, func()) {
	ptr, _ := float32SlicePool.Get().(*[]float32)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]float32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float32SlicePool.Put(ptr) }
}

// GetInt32Slice retrieves an int32 slice of exact length size from the pool.
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}

// GetUint32Slice retrieves a uint32 slice of exact length size from the pool.
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]uint32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { uint32SlicePool.Put(ptr) }
}

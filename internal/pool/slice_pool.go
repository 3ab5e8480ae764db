package pool

import "sync"

// Slice pools for scratch slices used while flattening per-row input into a
// single column.
var (
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	stringSlicePool = sync.Pool{
		New: func() any { return &[]string{} },
	}
)

// GetInt64Slice retrieves and resizes an int64 slice from the pool.
//
// The returned slice has exactly size elements. If the pooled slice has
// insufficient capacity, a new slice is allocated. Enum columns use it to
// hold the resolved codes before they are narrowed to the enum value type.
//
// Parameters:
//   - size: The desired length of the slice
//
// Returns:
//   - []int64: A slice with length equal to size
//   - func(): Cleanup function that must be called (typically with defer) to return the slice to the pool
//
// Example:
//
//	codes, cleanup := pool.GetInt64Slice(len(names))
//	defer cleanup()
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int64, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int64SlicePool.Put(ptr) }
}

// GetStringSlice retrieves a zero-length string slice with at least size capacity.
//
// Unlike GetInt64Slice the slice is returned empty, ready for append. The
// cleanup function clears the backing array so pooled slices do not keep
// strings alive.
//
// Parameters:
//   - size: The minimum capacity of the slice
//
// Returns:
//   - []string: An empty slice with capacity of at least size
//   - func(): Cleanup function that must be called (typically with defer) to return the slice to the pool
func GetStringSlice(size int) ([]string, func()) {
	ptr, _ := stringSlicePool.Get().(*[]string)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]string, 0, size)
	}
	*ptr = slice

	return slice, func() {
		clear((*ptr)[:cap(*ptr)])
		stringSlicePool.Put(ptr)
	}
}

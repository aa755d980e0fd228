package pool

import "sync"

var (
	int64SlicePool = sync.Pool{
		New: func() any { return &[]int64{} },
	}
	float64SlicePool = sync.Pool{
		New: func() any { return &[]float64{} },
	}
)

// GetInt64Slice returns an int64 slice of length size and a cleanup function
// that must be called to return it to the pool.
//
// Example:
//
//	timestamps, cleanup := pool.GetInt64Slice(series.Len())
//	defer cleanup()
func GetInt64Slice(size int) ([]int64, func()) {
	ptr, _ := int64SlicePool.Get().(*[]int64)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]int64, size)
	} else {
		slice = slice[:size]
	}

	return slice, func() {
		*ptr = slice[:0]
		int64SlicePool.Put(ptr)
	}
}

// GetFloat64Slice returns a zero-length float64 slice with capacity for at
// least size values and a cleanup function returning it to the pool.
func GetFloat64Slice(size int) ([]float64, func()) {
	ptr, _ := float64SlicePool.Get().(*[]float64)
	slice := (*ptr)[:0]
	if cap(slice) < size {
		slice = make([]float64, 0, size)
	}

	return slice, func() {
		*ptr = slice[:0]
		float64SlicePool.Put(ptr)
	}
}

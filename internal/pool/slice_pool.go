package pool

import "sync"

var runeSlicePool = sync.Pool{
	New: func() any { return &[]rune{} },
}

// GetRuneSlice retrieves a rune slice of length size from the pool.
//
// The caller must call the returned cleanup function to return the slice to the pool.
//
// Example:
//
//	chunk, cleanup := pool.GetRuneSlice(4096)
//	defer cleanup()
func GetRuneSlice(size int) ([]rune, func()) {
	ptr, _ := runeSlicePool.Get().(*[]rune)
	slice := *ptr

	if cap(slice) < size {
		slice = make([]rune, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { runeSlicePool.Put(ptr) }
}

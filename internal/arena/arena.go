// Package arena implements the bump allocator behind the column regions.
//
// An Arena hands out consecutive byte ranges from a single slice. Every
// allocation checks the remaining capacity first and then either grows the
// backing slice or fails with errs.ErrCapacityExceeded, so a write never
// lands outside the region.
package arena

import (
	"fmt"
	"math"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/internal/pool"
)

// MaxSize is the largest region an arena can address; references into a
// region are stored as uint32.
const MaxSize = math.MaxUint32

// Policy controls what happens when an allocation does not fit.
type Policy struct {
	// Growable allows the arena to reallocate a larger backing slice.
	Growable bool
	// Limit caps the region size in bytes. Zero means MaxSize.
	Limit int
}

func (p Policy) limit() int {
	if p.Limit <= 0 || p.Limit > MaxSize {
		return MaxSize
	}

	return p.Limit
}

// Arena is a bump allocator over a byte slice.
//
// The whole backing slice is addressable; bytes at and after the cursor are
// free. Arena is not safe for concurrent use.
type Arena struct {
	buf    []byte
	cursor int
	policy Policy
	grows  int
}

// New creates an arena with capacity zeroed bytes.
func New(capacity int, policy Policy) *Arena {
	if capacity < 0 {
		capacity = 0
	}

	return &Arena{buf: make([]byte, capacity), policy: policy}
}

// Wrap creates an arena over an existing slice whose first cursor bytes are
// already in use. The slice is not copied.
func Wrap(buf []byte, cursor int, policy Policy) (*Arena, error) {
	if cursor < 0 || cursor > len(buf) {
		return nil, fmt.Errorf("%w: cursor %d outside region of %d bytes", errs.ErrInvalidForm, cursor, len(buf))
	}

	return &Arena{buf: buf, cursor: cursor, policy: policy}, nil
}

// Alloc reserves n bytes and returns their offset.
//
// On failure the cursor and the contents are left unchanged.
func (a *Arena) Alloc(n int) (int, error) {
	if err := a.Reserve(n); err != nil {
		return 0, err
	}

	off := a.cursor
	a.cursor += n

	return off, nil
}

// Reserve makes sure n bytes fit after the cursor without moving it.
func (a *Arena) Reserve(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: negative allocation %d", errs.ErrCapacityExceeded, n)
	}

	required := a.cursor + n
	if required <= len(a.buf) {
		return nil
	}

	limit := a.policy.limit()
	if !a.policy.Growable || required > limit {
		return fmt.Errorf("%w: need %d bytes, capacity %d, limit %d",
			errs.ErrCapacityExceeded, required, len(a.buf), limit)
	}

	next := pool.GrowCapacity(len(a.buf), required)
	if next > limit {
		next = limit
	}

	grown := make([]byte, next)
	copy(grown, a.buf[:a.cursor])
	a.buf = grown
	a.grows++

	return nil
}

// Slice returns n bytes starting at off. It panics when the range is outside
// the backing slice.
func (a *Arena) Slice(off, n int) []byte {
	return a.buf[off : off+n : off+n]
}

// Contains reports whether [off, off+n) lies within the written part.
func (a *Arena) Contains(off, n int) bool {
	return off >= 0 && n >= 0 && off <= a.cursor && n <= a.cursor-off
}

// Bytes returns the whole backing slice, including free capacity.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Written returns the bytes before the cursor.
func (a *Arena) Written() []byte {
	return a.buf[:a.cursor]
}

// Cursor returns the offset of the next free byte.
func (a *Arena) Cursor() int {
	return a.cursor
}

// Cap returns the size of the backing slice.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Grows returns how many times the backing slice was reallocated.
func (a *Arena) Grows() int {
	return a.grows
}

// Clone returns a copy of the backing slice.
func (a *Arena) Clone() []byte {
	out := make([]byte, len(a.buf))
	copy(out, a.buf)

	return out
}

package column

import (
	"fmt"
	"math"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/internal/arena"
)

const (
	tagWidth    = 1
	offsetWidth = 4
	// maxFixedWidth is the widest fixed payload (Number).
	maxFixedWidth = 8

	// MaxLength is the largest row count whose planned buffer still fits the
	// uint32 offsets.
	MaxLength = arena.MaxSize / (tagWidth + offsetWidth + maxFixedWidth)
)

// Layout is the planned size of every region of a column.
//
// The main buffer is laid out as [TagBytes][OffsetBytes][FixedBytes]; the
// string pool is a separate buffer.
type Layout struct {
	Length      int
	TagBytes    int
	OffsetBytes int
	FixedBytes  int
	PoolBytes   int
}

// PlanLayout computes the region sizes for length rows.
//
// The fixed region is sized for the worst case of every row holding a Number,
// so a single index-ascending pass never needs to grow it. The string pool
// starts at poolBytesPerRow bytes per row and grows on demand.
func PlanLayout(length, poolBytesPerRow int) (Layout, error) {
	if length < 0 || length > MaxLength {
		return Layout{}, fmt.Errorf("%w: %d not in [0, %d]", errs.ErrInvalidLength, length, MaxLength)
	}

	pool := length * poolBytesPerRow
	if poolBytesPerRow > 0 && pool/poolBytesPerRow != length || pool > math.MaxUint32 {
		pool = math.MaxUint32
	}

	return Layout{
		Length:      length,
		TagBytes:    length * tagWidth,
		OffsetBytes: length * offsetWidth,
		FixedBytes:  length * maxFixedWidth,
		PoolBytes:   pool,
	}, nil
}

// HeaderBytes returns the size of the tag and offset tables.
func (l Layout) HeaderBytes() int {
	return l.TagBytes + l.OffsetBytes
}

// BufferBytes returns the planned size of the main buffer.
func (l Layout) BufferBytes() int {
	return l.HeaderBytes() + l.FixedBytes
}

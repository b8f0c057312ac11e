package encoding

import (
	"fmt"
	"time"

	"github.com/arloliu/bytecol/errs"
)

const (
	dateYearShift  = 9
	dateMonthShift = 5
	dateMonthMask  = 0x1e0
	dateDayMask    = 0x1f

	// MaxDateYear is the largest year the packed date layout can hold.
	MaxDateYear = 1<<(32-dateYearShift) - 1
)

// EncodeDate packs the UTC year, zero-based month and day of t into a uint32.
//
// Returns errs.ErrDateOutOfRange when the UTC year is negative or above MaxDateYear.
func EncodeDate(t time.Time) (uint32, error) {
	y, m, d := t.UTC().Date()
	if y < 0 || y > MaxDateYear {
		return 0, fmt.Errorf("%w: year %d not in [0, %d]", errs.ErrDateOutOfRange, y, MaxDateYear)
	}

	return uint32(y)<<dateYearShift | uint32(m-1)<<dateMonthShift | uint32(d), nil //nolint:gosec
}

// DecodeDate returns UTC midnight of the day packed in v.
//
// Out-of-range month or day fields are normalized the way time.Date does.
func DecodeDate(v uint32) time.Time {
	y := int(v >> dateYearShift)
	m := int(v&dateMonthMask) >> dateMonthShift
	d := int(v & dateDayMask)

	return time.Date(y, time.Month(m+1), d, 0, 0, 0, 0, time.UTC)
}

// TruncateDate returns UTC midnight of the UTC day of t, which is what a
// date round trip through EncodeDate and DecodeDate yields.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

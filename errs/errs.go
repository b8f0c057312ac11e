// Package errs defines the sentinel errors returned by bytecol packages.
//
// Errors are wrapped with additional context using fmt.Errorf("%w: ...") and
// should be matched with errors.Is.
package errs

import "errors"

// Encoding errors.
var (
	// ErrUnsupportedValue is returned when a Go value cannot be classified as
	// one of the five supported value kinds.
	ErrUnsupportedValue = errors.New("unsupported value type")
	// ErrCapacityExceeded is returned when a write does not fit into a region and
	// the region is not allowed to grow any further.
	ErrCapacityExceeded = errors.New("column capacity exceeded")
	// ErrSeparatorCollision is returned by the batch strategy when a string
	// contains the separator code point.
	ErrSeparatorCollision = errors.New("string contains batch separator")
	// ErrInvalidString is returned when a string is not valid UTF-8.
	ErrInvalidString = errors.New("string is not valid UTF-8")
	// ErrInvalidSeparator is returned when the configured batch separator is not
	// a valid scalar code point.
	ErrInvalidSeparator = errors.New("invalid batch separator")
	// ErrDateOutOfRange is returned when a date year does not fit the packed date layout.
	ErrDateOutOfRange = errors.New("date out of range")
	// ErrInvalidLength is returned when a column length is negative or too large.
	ErrInvalidLength = errors.New("invalid column length")
	// ErrInvalidOption is returned when an option value is not acceptable.
	ErrInvalidOption = errors.New("invalid option")
)

// Decoding errors.
var (
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrTypeMismatch    = errors.New("value type mismatch")
	ErrInvalidForm     = errors.New("invalid serialized form")
)

// Frame errors.
var (
	ErrInvalidHeaderSize  = errors.New("invalid header size")
	ErrInvalidHeaderFlags = errors.New("invalid header flags")
	ErrInvalidMagicNumber = errors.New("invalid magic number")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrFrameTruncated     = errors.New("frame truncated")
)

// Transfer errors.
var (
	ErrPipeClosed = errors.New("pipe closed")
	ErrFormMoved  = errors.New("serialized form already moved")
)

// Package bytecol encodes columns of mixed scalar values into two flat byte
// buffers that can be handed to another goroutine or process and decoded
// there without parsing.
//
// A column holds one value per row. Each value is undefined, a string, a
// number (float64), a boolean or a calendar date. Strings are stored in a
// pool buffer using one of three strategies:
//
//   - Direct: every string is written as a length-prefixed UTF-8 entry
//   - Dictionary: repeated strings are written once and shared
//   - Batch: strings are joined with a separator and written in one pass
//
// # Basic Usage
//
// Encoding values:
//
//	import "github.com/arloliu/bytecol"
//
//	c, _ := bytecol.FromValues([]any{true, 42.5, "hé", time.Now(), nil},
//	    column.WithStrategy(format.StrategyDictionary))
//	form, _ := bytecol.ToSerializedForm(c)
//
// Decoding on the receiving side:
//
//	restored, _ := bytecol.FromSerializedForm(form)
//	values, _ := bytecol.ToValues(restored)
//
// Flattening a column into one self-describing frame:
//
//	data, _ := bytecol.Marshal(c, column.WithCompression(format.CompressionZstd))
//	restored, _ = bytecol.Unmarshal(data)
//
// # Package Structure
//
// This package provides top-level wrappers around the column package for the
// most common use cases. For typed accessors, statistics and streaming
// iteration, use the column package directly.
package bytecol

import (
	"github.com/arloliu/bytecol/column"
	"github.com/arloliu/bytecol/value"
)

// FromValues classifies every element of values and encodes them into a new
// column. Supported element types are nil, string, bool, time.Time and all
// Go integer and float types.
func FromValues(values []any, opts ...column.Option) (*column.Column, error) {
	return column.FromAny(values, opts...)
}

// ToSerializedForm returns a copy of the column's buffers and metadata.
func ToSerializedForm(c *column.Column) (column.SerializedForm, error) {
	return c.ToSerializedForm()
}

// FromSerializedForm reconstructs a column over the buffers of form without
// copying them.
func FromSerializedForm(form column.SerializedForm, opts ...column.Option) (*column.Column, error) {
	return column.FromSerializedForm(form, opts...)
}

// ToValues decodes every row of c.
//
// The returned slice is owned by the column and is returned again on later
// calls; callers must not modify it.
func ToValues(c *column.Column) ([]value.Value, error) {
	return c.Reify()
}

// GetValue decodes the value at index.
func GetValue(c *column.Column, index int) (value.Value, error) {
	return c.Value(index)
}

// Marshal flattens c into a frame: a fixed header followed by the
// optionally compressed buffers.
func Marshal(c *column.Column, opts ...column.FrameOption) ([]byte, error) {
	return c.MarshalFrame(opts...)
}

// Unmarshal verifies a frame produced by Marshal and reconstructs the column.
func Unmarshal(data []byte, opts ...column.Option) (*column.Column, error) {
	return column.UnmarshalFrame(data, opts...)
}

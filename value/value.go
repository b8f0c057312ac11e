// Package value defines Value, the closed tagged union of scalars a column stores.
//
// A Value is one of Undefined, Date, String, Number or Boolean. The zero
// Value is Undefined. Values are immutable and safe to copy.
//
// Go values coming from untyped sources are turned into Values with Classify:
//
//	v, err := value.Classify(42)          // Number(42)
//	v, err = value.Classify(time.Now())   // Date
//	v, err = value.Classify([]int{1})     // errs.ErrUnsupportedValue
package value

import (
	"math"
	"strconv"
	"time"

	"github.com/arloliu/bytecol/encoding"
	"github.com/arloliu/bytecol/format"
)

// Value is a single scalar of one of the five supported kinds.
type Value struct {
	typ  format.ValueType
	b    bool
	num  float64
	str  string
	date time.Time
}

// Undefined returns the absent value.
func Undefined() Value {
	return Value{}
}

// String returns a text value.
func String(s string) Value {
	return Value{typ: format.TypeString, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{typ: format.TypeNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{typ: format.TypeBoolean, b: b}
}

// Date returns a date value holding t as given. Columns store only the UTC
// day; see encoding.EncodeDate.
func Date(t time.Time) Value {
	return Value{typ: format.TypeDate, date: t}
}

// Type returns the value tag.
func (v Value) Type() format.ValueType {
	return v.typ
}

// IsUndefined reports whether v is the absent value.
func (v Value) IsUndefined() bool {
	return v.typ == format.TypeUndefined
}

// Str returns the text of a String value and "" otherwise.
func (v Value) Str() string {
	return v.str
}

// Num returns the number of a Number value and 0 otherwise.
func (v Value) Num() float64 {
	return v.num
}

// Bool returns the flag of a Boolean value and false otherwise.
func (v Value) Bool() bool {
	return v.b
}

// Time returns the time of a Date value and the zero time otherwise.
func (v Value) Time() time.Time {
	return v.date
}

// Any returns v as a plain Go value: nil, time.Time, string, float64 or bool.
func (v Value) Any() any {
	switch v.typ {
	case format.TypeDate:
		return v.date
	case format.TypeString:
		return v.str
	case format.TypeNumber:
		return v.num
	case format.TypeBoolean:
		return v.b
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same value as a column would
// store it: dates compare by UTC calendar day and numbers compare by their
// IEEE-754 bits, so NaN equals NaN and -0 differs from +0.
func (v Value) Equal(other Value) bool {
	if v.typ != other.typ {
		return false
	}

	switch v.typ {
	case format.TypeDate:
		return encoding.TruncateDate(v.date).Equal(encoding.TruncateDate(other.date))
	case format.TypeString:
		return v.str == other.str
	case format.TypeNumber:
		return math.Float64bits(v.num) == math.Float64bits(other.num)
	case format.TypeBoolean:
		return v.b == other.b
	default:
		return true
	}
}

// String returns a readable form of v for logs and test failures.
func (v Value) String() string {
	switch v.typ {
	case format.TypeDate:
		return "Date(" + v.date.UTC().Format(time.DateOnly) + ")"
	case format.TypeString:
		return "String(" + strconv.Quote(v.str) + ")"
	case format.TypeNumber:
		return "Number(" + strconv.FormatFloat(v.num, 'g', -1, 64) + ")"
	case format.TypeBoolean:
		return "Boolean(" + strconv.FormatBool(v.b) + ")"
	default:
		return "Undefined"
	}
}

// EqualSlices reports whether xs and ys have the same length and pairwise
// Equal elements. It returns the first differing index, or -1.
func EqualSlices(xs, ys []Value) (bool, int) {
	n := min(len(xs), len(ys))
	for i := range n {
		if !xs[i].Equal(ys[i]) {
			return false, i
		}
	}

	if len(xs) != len(ys) {
		return false, n
	}

	return true, -1
}

package value

import (
	"fmt"
	"time"

	"github.com/arloliu/bytecol/errs"
)

// Classify converts a Go value into a Value.
//
// Supported inputs:
//   - nil: Undefined
//   - Value, *Value (non-nil): the value itself
//   - string: String
//   - all integer and floating point kinds: Number (converted to float64)
//   - bool: Boolean
//   - time.Time, *time.Time (non-nil): Date
//
// Any other input returns an error wrapping errs.ErrUnsupportedValue.
func Classify(x any) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Undefined(), nil
	case Value:
		return v, nil
	case *Value:
		if v != nil {
			return *v, nil
		}
	case string:
		return String(v), nil
	case bool:
		return Bool(v), nil
	case float64:
		return Number(v), nil
	case float32:
		return Number(float64(v)), nil
	case int:
		return Number(float64(v)), nil
	case int8:
		return Number(float64(v)), nil
	case int16:
		return Number(float64(v)), nil
	case int32:
		return Number(float64(v)), nil
	case int64:
		return Number(float64(v)), nil
	case uint:
		return Number(float64(v)), nil
	case uint8:
		return Number(float64(v)), nil
	case uint16:
		return Number(float64(v)), nil
	case uint32:
		return Number(float64(v)), nil
	case uint64:
		return Number(float64(v)), nil
	case time.Time:
		return Date(v), nil
	case *time.Time:
		if v != nil {
			return Date(*v), nil
		}
	}

	return Value{}, fmt.Errorf("%w: %T", errs.ErrUnsupportedValue, x)
}

// ClassifyAll classifies every element of xs and fails on the first
// unsupported element, reporting its index.
func ClassifyAll(xs []any) ([]Value, error) {
	out := make([]Value, len(xs))
	for i, x := range xs {
		v, err := Classify(x)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = v
	}

	return out, nil
}

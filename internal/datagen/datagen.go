// Package datagen produces deterministic mixed value sequences for tests,
// benchmarks and the roundtrip harness.
//
// Sequences come from the mulberry32 generator, so a seed reproduces the
// same values on every platform.
package datagen

import (
	"time"

	"github.com/arloliu/bytecol/value"
)

const base32Digits = "0123456789abcdefghijklmnopqrstuv"

var (
	// DateMin and DateMax bound the generated dates.
	DateMin = time.Date(1902, time.June, 1, 0, 0, 0, 0, time.UTC)
	DateMax = time.Date(2050, time.November, 10, 0, 0, 0, 0, time.UTC)
)

// Mix holds the relative weights of the generated value kinds.
type Mix struct {
	Boolean float64
	Number  float64
	String  float64
	Date    float64
}

var (
	// DefaultMix generates every kind equally often.
	DefaultMix = Mix{Boolean: 1, Number: 1, String: 1, Date: 1}
	// StringsOnly generates only strings.
	StringsOnly = Mix{String: 1}
)

func (m Mix) total() float64 {
	return m.Boolean + m.Number + m.String + m.Date
}

// Generator is a mulberry32 pseudo random generator. It is not safe for
// concurrent use.
type Generator struct {
	state uint32
	mix   Mix
}

// New creates a generator. A mix with no positive weight falls back to
// DefaultMix.
func New(seed uint32, mix Mix) *Generator {
	if mix.total() <= 0 {
		mix = DefaultMix
	}

	return &Generator{state: seed, mix: mix}
}

// Uint32 returns the next raw output.
func (g *Generator) Uint32() uint32 {
	g.state += 0x6d2b79f5
	t := g.state
	t = (t ^ (t >> 15)) * (t | 1)
	t ^= t + (t^(t>>7))*(t|61)

	return t ^ (t >> 14)
}

// Float64 returns a value in [0, 1).
func (g *Generator) Float64() float64 {
	return float64(g.Uint32()) / (1 << 32)
}

// Value returns the next value according to the mix.
func (g *Generator) Value() value.Value {
	r := g.Float64() * g.mix.total()

	switch {
	case r < g.mix.Boolean:
		return value.Bool(g.Float64() < 0.5)
	case r < g.mix.Boolean+g.mix.Number:
		return value.Number(g.Float64()*100000 - 50000)
	case r < g.mix.Boolean+g.mix.Number+g.mix.String:
		return value.String(g.Text())
	default:
		return value.Date(g.Date())
	}
}

// Text returns six base-32 fractions of consecutive outputs, concatenated.
func (g *Generator) Text() string {
	buf := make([]byte, 0, 6*7)
	for range 6 {
		buf = appendBase32Fraction(buf, g.Uint32())
	}

	return string(buf)
}

// appendBase32Fraction appends the base-32 digits of u / 2^32 after the
// radix point. The expansion is exact and has at most seven digits.
func appendBase32Fraction(dst []byte, u uint32) []byte {
	f := uint64(u)
	for f != 0 {
		f *= 32
		dst = append(dst, base32Digits[f>>32])
		f &= 1<<32 - 1
	}

	return dst
}

// Date returns a time between DateMin and DateMax with millisecond
// resolution.
func (g *Generator) Date() time.Time {
	span := DateMax.UnixMilli() - DateMin.UnixMilli()
	ms := DateMin.UnixMilli() + int64(g.Float64()*float64(span))

	return time.UnixMilli(ms).UTC()
}

// Values returns the next n values.
func (g *Generator) Values(n int) []value.Value {
	out := make([]value.Value, n)
	for i := range out {
		out[i] = g.Value()
	}

	return out
}

// Make returns n values with DefaultMix.
func Make(n int, seed uint32) []value.Value {
	return New(seed, DefaultMix).Values(n)
}

// ToAny converts values to plain Go values, for APIs that classify input.
func ToAny(values []value.Value) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v.Any()
	}

	return out
}

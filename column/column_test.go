package column

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/value"
)

var allStrategies = []format.StringStrategy{
	format.StrategyDirect,
	format.StrategyDictionary,
	format.StrategyBatch,
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func mixedValues() []value.Value {
	return []value.Value{
		value.Bool(true),
		value.Number(42.5),
		value.Date(day(2023, time.June, 14)),
		value.String("hé"),
		value.Undefined(),
		value.String(""),
		value.String("日本語テキスト"),
		value.String("emoji 🎉 and more"),
		value.Number(math.Inf(-1)),
		value.Number(math.NaN()),
		value.Number(math.Copysign(0, -1)),
		value.Bool(false),
		value.String("hé"),
		value.Date(day(1902, time.June, 1)),
		value.Date(day(2050, time.November, 10)),
		value.Undefined(),
		value.String("a longer string that repeats a longer string that repeats"),
	}
}

func requireSameValues(t *testing.T, want, got []value.Value) {
	t.Helper()

	ok, idx := value.EqualSlices(want, got)
	if !ok {
		require.Failf(t, "values differ", "first difference at row %d: want %v, got %v",
			idx, safeAt(want, idx), safeAt(got, idx))
	}
}

func safeAt(vs []value.Value, i int) string {
	if i < 0 || i >= len(vs) {
		return "<missing>"
	}

	return vs[i].String()
}

func TestRoundTrip(t *testing.T) {
	orders := []struct {
		name string
		opt  Option
	}{
		{"big endian", WithBigEndian()},
		{"little endian", WithLittleEndian()},
	}

	for _, strategy := range allStrategies {
		for _, order := range orders {
			t.Run(fmt.Sprintf("%s/%s", strategy, order.name), func(t *testing.T) {
				want := mixedValues()

				c, err := FromValues(want, WithStrategy(strategy), order.opt)
				require.NoError(t, err)
				require.Equal(t, len(want), c.Len())

				got, err := c.Values()
				require.NoError(t, err)
				requireSameValues(t, want, got)

				form, err := c.ToSerializedForm()
				require.NoError(t, err)
				require.Equal(t, strategy, form.Strategy)

				restored, err := FromSerializedForm(form)
				require.NoError(t, err)
				require.Equal(t, c.ByteOrder(), restored.ByteOrder())

				got, err = restored.Reify()
				require.NoError(t, err)
				requireSameValues(t, want, got)
			})
		}
	}
}

func TestConcreteScenario(t *testing.T) {
	c, err := FromValues([]value.Value{
		value.Bool(true),
		value.Number(42.5),
		value.Date(day(2023, time.June, 14)),
		value.String("hé"),
		value.Undefined(),
	})
	require.NoError(t, err)

	form, err := c.ToSerializedForm()
	require.NoError(t, err)

	require.Equal(t, uint32(5), form.Length)
	require.Len(t, form.Buffer, 13*5)
	require.Equal(t, uint32(1+8+4+4), form.ByteOffset)

	tags := form.Buffer[:5]
	assert.Equal(t, []byte{4, 3, 1, 2, 0}, tags)

	offsets := form.Buffer[5:25]
	assert.Equal(t, []byte{
		0, 0, 0, 0,
		0, 0, 0, 1,
		0, 0, 0, 9,
		0, 0, 0, 13,
		0, 0, 0, 0,
	}, offsets)

	fixed := form.Buffer[25:]
	assert.Equal(t, byte(1), fixed[0])
	assert.Equal(t, []byte{0x40, 0x45, 0x40, 0, 0, 0, 0, 0}, fixed[1:9])
	// 2023<<9 | 5<<5 | 14
	assert.Equal(t, []byte{0x00, 0x0F, 0xCE, 0xAE}, fixed[9:13])
	assert.Equal(t, []byte{0, 0, 0, 0}, fixed[13:17])

	require.Equal(t, uint32(7), form.StringOffset)
	assert.Equal(t, []byte{0, 0, 0, 3, 'h', 0xC3, 0xA9}, form.StringBuffer[:7])

	restored, err := FromSerializedForm(form)
	require.NoError(t, err)

	s, err := restored.GetString(3)
	require.NoError(t, err)
	assert.Equal(t, "hé", s)

	n, err := restored.GetNumber(1)
	require.NoError(t, err)
	assert.InDelta(t, 42.5, n, 0)

	d, err := restored.GetDate(2)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.June, 14), d)

	b, err := restored.GetBool(0)
	require.NoError(t, err)
	assert.True(t, b)

	v, err := restored.Value(4)
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())
}

func TestLittleEndianPayloads(t *testing.T) {
	c, err := FromValues([]value.Value{value.Number(42.5)}, WithLittleEndian())
	require.NoError(t, err)

	form, err := c.ToSerializedForm()
	require.NoError(t, err)
	assert.Equal(t, format.LittleEndian, form.ByteOrder)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0x40, 0x45, 0x40}, form.Buffer[5:13])
}

func TestDateTruncation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 02:00 in Tokyo on the 15th is 17:00 UTC on the 14th.
	in := time.Date(2023, time.June, 15, 2, 0, 0, 0, tokyo)

	c, err := New(1)
	require.NoError(t, err)
	require.NoError(t, c.SetDate(0, in))

	got, err := c.GetDate(0)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.June, 14), got)
	assert.Equal(t, time.UTC, got.Location())

	memo, err := c.ReifyValue(0)
	require.NoError(t, err)
	assert.Equal(t, day(2023, time.June, 14), memo.Time())
}

func TestDateOutOfRange(t *testing.T) {
	c, err := New(1)
	require.NoError(t, err)

	err = c.SetDate(0, time.Date(-1, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, errs.ErrDateOutOfRange)

	typ, err := c.Type(0)
	require.NoError(t, err)
	assert.Equal(t, format.TypeUndefined, typ)
	assert.Zero(t, c.Stats().FixedBytes)
}

func TestOffsetsMonotonic(t *testing.T) {
	for _, strategy := range allStrategies {
		t.Run(strategy.String(), func(t *testing.T) {
			c, err := FromValues(mixedValues(), WithStrategy(strategy))
			require.NoError(t, err)

			form, err := c.ToSerializedForm()
			require.NoError(t, err)

			n := int(form.Length)
			end := 0
			for i := range n {
				typ := format.ValueType(form.Buffer[i])
				if typ == format.TypeUndefined {
					continue
				}

				off := int(uint32(form.Buffer[n+4*i])<<24 | uint32(form.Buffer[n+4*i+1])<<16 |
					uint32(form.Buffer[n+4*i+2])<<8 | uint32(form.Buffer[n+4*i+3]))
				require.GreaterOrEqual(t, off, end, "row %d overlaps the previous payload", i)
				end = off + typ.FixedWidth()
			}
			require.Equal(t, int(form.ByteOffset), end)
		})
	}
}

func TestIndexOutOfRange(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	for _, idx := range []int{-1, 2, 100} {
		require.ErrorIs(t, c.SetNumber(idx, 1), errs.ErrIndexOutOfRange)
		require.ErrorIs(t, c.SetString(idx, "x"), errs.ErrIndexOutOfRange)
		require.ErrorIs(t, c.SetUndefined(idx), errs.ErrIndexOutOfRange)

		_, err := c.Value(idx)
		require.ErrorIs(t, err, errs.ErrIndexOutOfRange)

		_, err = c.ReifyValue(idx)
		require.ErrorIs(t, err, errs.ErrIndexOutOfRange)
	}

	assert.Zero(t, c.Stats().PoolWrites)
}

func TestTypeMismatch(t *testing.T) {
	c, err := FromValues([]value.Value{value.String("x"), value.Undefined()})
	require.NoError(t, err)

	_, err = c.GetNumber(0)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = c.GetBool(0)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = c.GetDate(1)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)

	_, err = c.GetString(1)
	require.ErrorIs(t, err, errs.ErrTypeMismatch)
}

func TestFromAny(t *testing.T) {
	c, err := FromAny([]any{true, 42.5, day(2023, time.June, 14), "hé", nil, 7})
	require.NoError(t, err)

	got, err := c.Reify()
	require.NoError(t, err)
	requireSameValues(t, []value.Value{
		value.Bool(true),
		value.Number(42.5),
		value.Date(day(2023, time.June, 14)),
		value.String("hé"),
		value.Undefined(),
		value.Number(7),
	}, got)
}

func TestFromAny_UnsupportedValue(t *testing.T) {
	c, err := FromAny([]any{"ok", struct{}{}, 1})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
	require.Nil(t, c)

	c, err = FromAny([]any{[]int{1}})
	require.ErrorIs(t, err, errs.ErrUnsupportedValue)
	require.Nil(t, c)
}

func TestOverwriteRow(t *testing.T) {
	c, err := New(1)
	require.NoError(t, err)

	require.NoError(t, c.SetString(0, "first"))
	require.NoError(t, c.SetNumber(0, 3))
	require.NoError(t, c.SetBool(0, true))

	v, err := c.Value(0)
	require.NoError(t, err)
	assert.True(t, v.Equal(value.Bool(true)))

	require.NoError(t, c.SetUndefined(0))
	v, err = c.Value(0)
	require.NoError(t, err)
	assert.True(t, v.IsUndefined())

	// Abandoned payloads stay allocated.
	assert.Equal(t, 4+8+1, c.Stats().FixedBytes)
}

func TestReify_Memoized(t *testing.T) {
	c, err := FromValues(mixedValues(), WithStrategy(format.StrategyDictionary))
	require.NoError(t, err)

	form, err := c.ToSerializedForm()
	require.NoError(t, err)
	restored, err := FromSerializedForm(form)
	require.NoError(t, err)

	first, err := restored.Reify()
	require.NoError(t, err)
	hits := restored.Stats().CacheHits

	second, err := restored.Reify()
	require.NoError(t, err)
	require.Same(t, &first[0], &second[0])
	assert.Equal(t, hits, restored.Stats().CacheHits)

	// SetValue keeps the memo current.
	require.NoError(t, restored.SetNumber(0, 99))
	third, err := restored.Reify()
	require.NoError(t, err)
	assert.True(t, third[0].Equal(value.Number(99)))
}

func TestReifyValue_Memoized(t *testing.T) {
	c, err := FromValues([]value.Value{value.String("x")}, WithStrategy(format.StrategyDictionary))
	require.NoError(t, err)

	form, err := c.ToSerializedForm()
	require.NoError(t, err)
	restored, err := FromSerializedForm(form)
	require.NoError(t, err)

	_, err = restored.ReifyValue(0)
	require.NoError(t, err)
	_, err = restored.ReifyValue(0)
	require.NoError(t, err)
	assert.Zero(t, restored.Stats().CacheHits)

	// Value bypasses the memo and hits the decode cache instead.
	_, err = restored.Value(0)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.Stats().CacheHits)
}

func TestAll(t *testing.T) {
	want := mixedValues()
	c, err := FromValues(want)
	require.NoError(t, err)

	var got []value.Value
	for i, v := range c.All() {
		require.Equal(t, len(got), i)
		got = append(got, v)
	}
	requireSameValues(t, want, got)

	count := 0
	for range c.All() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestEmptyColumn(t *testing.T) {
	for _, strategy := range allStrategies {
		t.Run(strategy.String(), func(t *testing.T) {
			c, err := New(0, WithStrategy(strategy))
			require.NoError(t, err)

			form, err := c.ToSerializedForm()
			require.NoError(t, err)
			assert.Empty(t, form.Buffer)

			restored, err := FromSerializedForm(form)
			require.NoError(t, err)

			got, err := restored.Reify()
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestNew_InvalidLength(t *testing.T) {
	_, err := New(-1)
	require.ErrorIs(t, err, errs.ErrInvalidLength)

	_, err = New(MaxLength + 1)
	require.ErrorIs(t, err, errs.ErrInvalidLength)
}

func TestFingerprint(t *testing.T) {
	a, err := FromValues(mixedValues(), WithStrategy(format.StrategyBatch))
	require.NoError(t, err)
	b, err := FromValues(mixedValues(), WithStrategy(format.StrategyBatch))
	require.NoError(t, err)

	fa, err := a.Fingerprint()
	require.NoError(t, err)
	fb, err := b.Fingerprint()
	require.NoError(t, err)
	require.Equal(t, fa, fb)

	require.NoError(t, b.SetString(0, "changed"))
	fb, err = b.Fingerprint()
	require.NoError(t, err)
	require.NotEqual(t, fa, fb)
}

package column

import (
	"fmt"
	"iter"
	"math"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/encoding"
	"github.com/arloliu/bytecol/endian"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/arena"
	"github.com/arloliu/bytecol/internal/options"
	"github.com/arloliu/bytecol/value"
)

// Column is a fixed-length sequence of values encoded into flat buffers.
//
// The main buffer holds one tag byte per row, one 4-byte offset per row and
// the fixed-width payloads; strings live in a separate pool managed by the
// configured string strategy.
//
// Column is not safe for concurrent use. Reads may update caches and
// counters, so even concurrent readers need external synchronization.
type Column struct {
	cfg    *Config
	engine endian.EndianEngine
	logger *zap.Logger
	length int

	tags    []byte
	offsets []byte
	fixed   *arena.Arena
	strs    stringStrategy

	memo     []value.Value
	memoized []bool
	reified  bool

	stats Stats
}

// New creates a column of length rows, all Undefined.
func New(length int, opts ...Option) (*Column, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}

	layout, err := PlanLayout(length, cfg.poolBytesPerRow)
	if err != nil {
		return nil, err
	}

	c := newColumn(cfg, length)
	header := make([]byte, layout.HeaderBytes())
	c.tags = header[:layout.TagBytes:layout.TagBytes]
	c.offsets = header[layout.TagBytes:]
	c.fixed = arena.New(layout.FixedBytes, cfg.regionPolicy())
	c.strs = newStringStrategy(cfg, layout, c.env())

	return c, nil
}

// FromValues encodes values in index order. On the first failing write the
// partially built column is discarded.
func FromValues(values []value.Value, opts ...Option) (*Column, error) {
	c, err := New(len(values), opts...)
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		if err := c.SetValue(i, v); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
	}

	return c, nil
}

// FromAny classifies values and encodes them. Classification of every
// element happens before any byte is written.
func FromAny(values []any, opts ...Option) (*Column, error) {
	vals, err := value.ClassifyAll(values)
	if err != nil {
		return nil, err
	}

	return FromValues(vals, opts...)
}

func newConfig(opts ...Option) (*Config, error) {
	cfg := NewConfig()
	if err := options.ApplyValidated(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newColumn(cfg *Config, length int) *Column {
	return &Column{
		cfg:      cfg,
		engine:   cfg.engine,
		logger:   cfg.logger,
		length:   length,
		memo:     make([]value.Value, length),
		memoized: make([]bool, length),
		stats:    Stats{Rows: length},
	}
}

func (c *Column) env() strategyEnv {
	return strategyEnv{engine: c.engine, stats: &c.stats, logger: c.logger}
}

// Len returns the number of rows.
func (c *Column) Len() int {
	return c.length
}

// Strategy returns the string strategy of the column.
func (c *Column) Strategy() format.StringStrategy {
	return c.cfg.strategy
}

// ByteOrder returns the byte order of numeric payloads and offsets.
func (c *Column) ByteOrder() format.ByteOrder {
	return c.cfg.byteOrder
}

// Stats returns a snapshot of the column counters.
func (c *Column) Stats() Stats {
	s := c.stats
	s.FixedBytes = c.fixed.Cursor()
	s.PoolBytes = c.strs.poolBytes()
	s.Grows = c.fixed.Grows() + c.strs.grows()

	return s
}

// Type returns the tag of row index.
func (c *Column) Type(index int) (format.ValueType, error) {
	if err := c.checkIndex(index); err != nil {
		return format.TypeUndefined, err
	}

	typ := format.ValueType(c.tags[index])
	if !typ.IsValid() {
		return typ, fmt.Errorf("%w: row %d has tag %d", errs.ErrInvalidForm, index, typ)
	}

	return typ, nil
}

func (c *Column) checkIndex(index int) error {
	if index < 0 || index >= c.length {
		return fmt.Errorf("%w: %d not in [0, %d)", errs.ErrIndexOutOfRange, index, c.length)
	}

	return nil
}

// SetValue stores v at row index.
//
// A failed write leaves the row and every cursor unchanged.
func (c *Column) SetValue(index int, v value.Value) error {
	switch v.Type() {
	case format.TypeString:
		return c.SetString(index, v.Str())
	case format.TypeNumber:
		return c.SetNumber(index, v.Num())
	case format.TypeDate:
		return c.SetDate(index, v.Time())
	case format.TypeBoolean:
		return c.SetBool(index, v.Bool())
	default:
		return c.SetUndefined(index)
	}
}

// SetUndefined marks row index as absent. No payload is written.
func (c *Column) SetUndefined(index int) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	c.tags[index] = byte(format.TypeUndefined)
	c.engine.PutUint32(c.offsets[index*offsetWidth:], 0)
	c.remember(index, value.Undefined())

	return nil
}

// SetNumber stores f at row index.
func (c *Column) SetNumber(index int, f float64) error {
	buf, err := c.slot(index, format.TypeNumber)
	if err != nil {
		return err
	}
	c.engine.PutUint64(buf, math.Float64bits(f))
	c.remember(index, value.Number(f))

	return nil
}

// SetBool stores b at row index.
func (c *Column) SetBool(index int, b bool) error {
	buf, err := c.slot(index, format.TypeBoolean)
	if err != nil {
		return err
	}
	buf[0] = 0
	if b {
		buf[0] = 1
	}
	c.remember(index, value.Bool(b))

	return nil
}

// SetDate stores the UTC calendar day of t at row index. The time of day
// is dropped.
func (c *Column) SetDate(index int, t time.Time) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	packed, err := encoding.EncodeDate(t)
	if err != nil {
		return err
	}

	buf, err := c.slot(index, format.TypeDate)
	if err != nil {
		return err
	}
	c.engine.PutUint32(buf, packed)
	c.remember(index, value.Date(encoding.DecodeDate(packed)))

	return nil
}

// SetString stores s at row index through the string strategy.
//
// s must be valid UTF-8; otherwise SetString fails with errs.ErrInvalidString
// and nothing is written.
func (c *Column) SetString(index int, s string) error {
	if err := c.checkIndex(index); err != nil {
		return err
	}

	if !utf8.ValidString(s) {
		return fmt.Errorf("%w: %q", errs.ErrInvalidString, s)
	}

	// The reference slot must fit before the strategy writes the payload.
	if err := c.fixed.Reserve(format.TypeString.FixedWidth()); err != nil {
		return fmt.Errorf("fixed region: %w", err)
	}

	ref, err := c.strs.write(s)
	if err != nil {
		return err
	}

	buf, err := c.slot(index, format.TypeString)
	if err != nil {
		return err
	}
	c.engine.PutUint32(buf, ref)
	c.remember(index, value.String(s))

	return nil
}

// slot allocates the fixed payload of row index, points the row at it and
// tags it. The caller fills the returned bytes.
func (c *Column) slot(index int, typ format.ValueType) ([]byte, error) {
	if err := c.checkIndex(index); err != nil {
		return nil, err
	}

	width := typ.FixedWidth()
	off, err := c.fixed.Alloc(width)
	if err != nil {
		return nil, fmt.Errorf("fixed region: %w", err)
	}

	c.engine.PutUint32(c.offsets[index*offsetWidth:], uint32(off)) //nolint:gosec
	c.tags[index] = byte(typ)

	return c.fixed.Slice(off, width), nil
}

func (c *Column) remember(index int, v value.Value) {
	c.memo[index] = v
	c.memoized[index] = true
}

// Value decodes row index.
func (c *Column) Value(index int) (value.Value, error) {
	typ, err := c.Type(index)
	if err != nil {
		return value.Value{}, err
	}

	if typ == format.TypeUndefined {
		return value.Undefined(), nil
	}

	buf, err := c.payload(index, typ)
	if err != nil {
		return value.Value{}, err
	}

	switch typ {
	case format.TypeNumber:
		return value.Number(math.Float64frombits(c.engine.Uint64(buf))), nil
	case format.TypeDate:
		return value.Date(encoding.DecodeDate(c.engine.Uint32(buf))), nil
	case format.TypeBoolean:
		return value.Bool(buf[0] != 0), nil
	default:
		s, err := c.strs.read(c.engine.Uint32(buf))
		if err != nil {
			return value.Value{}, fmt.Errorf("row %d: %w", index, err)
		}

		return value.String(s), nil
	}
}

// payload returns the fixed bytes of row index.
func (c *Column) payload(index int, typ format.ValueType) ([]byte, error) {
	off := int(c.engine.Uint32(c.offsets[index*offsetWidth:]))
	width := typ.FixedWidth()
	if !c.fixed.Contains(off, width) {
		return nil, fmt.Errorf("%w: row %d offset %d outside fixed region of %d bytes",
			errs.ErrInvalidForm, index, off, c.fixed.Cursor())
	}

	return c.fixed.Slice(off, width), nil
}

func (c *Column) typed(index int, want format.ValueType) (value.Value, error) {
	v, err := c.Value(index)
	if err != nil {
		return v, err
	}

	if v.Type() != want {
		return v, fmt.Errorf("%w: row %d is %s, not %s", errs.ErrTypeMismatch, index, v.Type(), want)
	}

	return v, nil
}

// GetString returns the string at row index.
func (c *Column) GetString(index int) (string, error) {
	v, err := c.typed(index, format.TypeString)
	return v.Str(), err
}

// GetNumber returns the number at row index.
func (c *Column) GetNumber(index int) (float64, error) {
	v, err := c.typed(index, format.TypeNumber)
	return v.Num(), err
}

// GetDate returns the date at row index as UTC midnight.
func (c *Column) GetDate(index int) (time.Time, error) {
	v, err := c.typed(index, format.TypeDate)
	if err != nil {
		return time.Time{}, err
	}

	return v.Time(), nil
}

// GetBool returns the boolean at row index.
func (c *Column) GetBool(index int) (bool, error) {
	v, err := c.typed(index, format.TypeBoolean)
	return v.Bool(), err
}

// ReifyValue decodes row index once and returns the remembered value on
// later calls.
func (c *Column) ReifyValue(index int) (value.Value, error) {
	if err := c.checkIndex(index); err != nil {
		return value.Value{}, err
	}

	if c.memoized[index] {
		return c.memo[index], nil
	}

	v, err := c.Value(index)
	if err != nil {
		return v, err
	}
	c.remember(index, v)

	return v, nil
}

// Reify decodes the whole column once. Later calls return the same slice,
// which callers must not modify.
func (c *Column) Reify() ([]value.Value, error) {
	if c.reified {
		return c.memo, nil
	}

	for i := range c.length {
		if _, err := c.ReifyValue(i); err != nil {
			return nil, err
		}
	}
	c.reified = true

	return c.memo, nil
}

// Values decodes every row into a new slice without using or filling the
// memo.
func (c *Column) Values() ([]value.Value, error) {
	out := make([]value.Value, c.length)
	for i := range out {
		v, err := c.Value(i)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

// All iterates over the rows in index order. Iteration stops at the first
// row that fails to decode; use Values to get the error.
func (c *Column) All() iter.Seq2[int, value.Value] {
	return func(yield func(int, value.Value) bool) {
		for i := range c.length {
			v, err := c.Value(i)
			if err != nil {
				c.logger.Debug("column iteration stopped", zap.Int("row", i), zap.Error(err))
				return
			}
			if !yield(i, v) {
				return
			}
		}
	}
}

package column

import (
	"fmt"
	"unicode/utf8"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/arena"
	"github.com/arloliu/bytecol/internal/hash"
)

// SerializedForm is the transferable state of a column: the two buffers
// plus the cursors needed to keep reading and writing them.
type SerializedForm struct {
	Strategy  format.StringStrategy
	ByteOrder format.ByteOrder

	// StringBuffer is the string pool.
	StringBuffer []byte
	// Buffer is [tags][offsets][fixed region].
	Buffer []byte

	// ByteOffset is the fixed region cursor, relative to the region start.
	ByteOffset uint32
	// StringOffset is the pool cursor for the direct and dictionary
	// strategies and the string count for the batch strategy.
	StringOffset uint32
	// StringCount is the number of strings in a batch pool.
	StringCount uint32
	// Separator is the code point joining the strings of a batch pool. It is
	// zero for the other strategies.
	Separator rune
	// Length is the number of rows.
	Length uint32
}

// Validate checks that the cursors and sizes of the form are consistent.
func (f *SerializedForm) Validate() error {
	if !f.Strategy.IsValid() {
		return fmt.Errorf("%w: string strategy %d", errs.ErrInvalidForm, f.Strategy)
	}

	if f.ByteOrder != format.BigEndian && f.ByteOrder != format.LittleEndian {
		return fmt.Errorf("%w: byte order %d", errs.ErrInvalidForm, f.ByteOrder)
	}

	n := int(f.Length)
	if n > MaxLength {
		return fmt.Errorf("%w: length %d exceeds %d", errs.ErrInvalidForm, n, MaxLength)
	}

	header := n * (tagWidth + offsetWidth)
	if len(f.Buffer) < header {
		return fmt.Errorf("%w: buffer of %d bytes cannot hold %d rows", errs.ErrInvalidForm, len(f.Buffer), n)
	}

	if int(f.ByteOffset) > len(f.Buffer)-header {
		return fmt.Errorf("%w: byte offset %d outside fixed region of %d bytes",
			errs.ErrInvalidForm, f.ByteOffset, len(f.Buffer)-header)
	}

	if f.Strategy == format.StrategyBatch {
		if !utf8.ValidRune(f.Separator) {
			return fmt.Errorf("%w: batch separator %U", errs.ErrInvalidForm, f.Separator)
		}
		if f.StringOffset != f.StringCount {
			return fmt.Errorf("%w: batch string offset %d differs from count %d",
				errs.ErrInvalidForm, f.StringOffset, f.StringCount)
		}

		return nil
	}

	if int(f.StringOffset) > len(f.StringBuffer) {
		return fmt.Errorf("%w: string offset %d outside pool of %d bytes",
			errs.ErrInvalidForm, f.StringOffset, len(f.StringBuffer))
	}

	return nil
}

// ToSerializedForm finalizes the string pool and returns copies of the
// buffers. The column stays usable.
//
// The fixed region is copied up to the larger of its cursor and the planned
// size of Len() Numbers; free capacity left by growth is not copied.
func (c *Column) ToSerializedForm() (SerializedForm, error) {
	pool, cursor, count, err := c.strs.finalize()
	if err != nil {
		return SerializedForm{}, err
	}

	fixedLen := max(c.fixed.Cursor(), min(c.length*maxFixedWidth, c.fixed.Cap()))
	header := len(c.tags) + len(c.offsets)
	buf := make([]byte, header+fixedLen)
	copy(buf, c.tags)
	copy(buf[len(c.tags):], c.offsets)
	copy(buf[header:], c.fixed.Bytes()[:fixedLen])

	strBuf := make([]byte, len(pool))
	copy(strBuf, pool)

	form := SerializedForm{
		Strategy:     c.cfg.strategy,
		ByteOrder:    c.cfg.byteOrder,
		StringBuffer: strBuf,
		Buffer:       buf,
		ByteOffset:   uint32(c.fixed.Cursor()), //nolint:gosec
		StringOffset: cursor,
		StringCount:  count,
		Length:       uint32(c.length), //nolint:gosec
	}
	if c.cfg.strategy == format.StrategyBatch {
		form.Separator = c.cfg.separator
	}

	return form, nil
}

// FromSerializedForm creates a column over the buffers of form without
// copying them. Strategy, byte order and batch separator come from the
// form; opts may set the remaining options (logger, growth policy).
//
// Writes to the returned column modify the form's buffers until a region
// has to grow.
func FromSerializedForm(form SerializedForm, opts ...Option) (*Column, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	cfg.strategy = form.Strategy
	cfg.setByteOrder(form.ByteOrder)
	if form.Strategy == format.StrategyBatch {
		cfg.separator = form.Separator
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	n := int(form.Length)
	c := newColumn(cfg, n)
	tagEnd := n * tagWidth
	offEnd := tagEnd + n*offsetWidth
	c.tags = form.Buffer[:tagEnd:tagEnd]
	c.offsets = form.Buffer[tagEnd:offEnd:offEnd]

	c.fixed, err = arena.Wrap(form.Buffer[offEnd:len(form.Buffer):len(form.Buffer)], int(form.ByteOffset), cfg.regionPolicy())
	if err != nil {
		return nil, fmt.Errorf("fixed region: %w", err)
	}

	c.strs, err = restoreStringStrategy(cfg, &form, c.env())
	if err != nil {
		return nil, err
	}

	return c, nil
}

// Fingerprint returns the xxHash64 of the used part of the column buffers.
// Columns with equal fingerprints encode the same rows the same way.
func (c *Column) Fingerprint() (uint64, error) {
	pool, cursor, _, err := c.strs.finalize()
	if err != nil {
		return 0, err
	}

	if c.cfg.strategy != format.StrategyBatch {
		pool = pool[:cursor]
	}

	return hash.Parts(c.tags, c.offsets, c.fixed.Written(), pool), nil
}

package column

import (
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/endian"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/arena"
	"github.com/arloliu/bytecol/internal/options"
)

const (
	// DefaultPoolBytesPerRow is the initial string pool size per row.
	DefaultPoolBytesPerRow = 17

	// DefaultBatchSeparator joins batch strings in the pool (ASCII record separator).
	DefaultBatchSeparator = '\u001e'
)

// Config holds the column settings chosen at construction.
type Config struct {
	strategy        format.StringStrategy
	byteOrder       format.ByteOrder
	engine          endian.EndianEngine
	poolBytesPerRow int
	maxPoolBytes    int
	growable        bool
	separator       rune
	logger          *zap.Logger
}

// NewConfig returns the default configuration: direct strings, big-endian,
// growable regions, no logging.
func NewConfig() *Config {
	return &Config{
		strategy:        format.StrategyDirect,
		byteOrder:       format.BigEndian,
		engine:          endian.GetBigEndianEngine(),
		poolBytesPerRow: DefaultPoolBytesPerRow,
		growable:        true,
		separator:       DefaultBatchSeparator,
		logger:          zap.NewNop(),
	}
}

// Validate checks option combinations that single options cannot check alone.
func (c *Config) Validate() error {
	if !c.strategy.IsValid() {
		return fmt.Errorf("%w: string strategy %d", errs.ErrInvalidOption, c.strategy)
	}

	if c.strategy == format.StrategyBatch {
		if !utf8.ValidRune(c.separator) {
			return fmt.Errorf("%w: %U", errs.ErrInvalidSeparator, c.separator)
		}
	}

	return nil
}

// Strategy returns the configured string strategy.
func (c *Config) Strategy() format.StringStrategy {
	return c.strategy
}

// ByteOrder returns the configured byte order.
func (c *Config) ByteOrder() format.ByteOrder {
	return c.byteOrder
}

func (c *Config) setByteOrder(order format.ByteOrder) {
	c.byteOrder = order
	c.engine = endian.ForByteOrder(order)
}

func (c *Config) regionPolicy() arena.Policy {
	return arena.Policy{Growable: c.growable, Limit: c.maxPoolBytes}
}

// Option is a functional option for configuring a Column.
type Option = options.Option[*Config]

// WithStrategy selects the string encoding strategy.
func WithStrategy(strategy format.StringStrategy) Option {
	return options.New(func(c *Config) error {
		if !strategy.IsValid() {
			return fmt.Errorf("%w: string strategy %d", errs.ErrInvalidOption, strategy)
		}
		c.strategy = strategy

		return nil
	})
}

// WithBigEndian writes numeric payloads and offsets in big-endian order (default).
func WithBigEndian() Option {
	return options.NoError(func(c *Config) {
		c.setByteOrder(format.BigEndian)
	})
}

// WithLittleEndian writes numeric payloads and offsets in little-endian order.
func WithLittleEndian() Option {
	return options.NoError(func(c *Config) {
		c.setByteOrder(format.LittleEndian)
	})
}

// WithPoolBytesPerRow sets the initial string pool size per row.
func WithPoolBytesPerRow(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: pool bytes per row %d", errs.ErrInvalidOption, n)
		}
		c.poolBytesPerRow = n

		return nil
	})
}

// WithMaxPoolBytes caps the size any region may grow to. Zero removes the cap.
func WithMaxPoolBytes(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("%w: max pool bytes %d", errs.ErrInvalidOption, n)
		}
		c.maxPoolBytes = n

		return nil
	})
}

// WithFixedCapacity disables region growth: a write that does not fit the
// planned capacity fails with errs.ErrCapacityExceeded.
func WithFixedCapacity() Option {
	return options.NoError(func(c *Config) {
		c.growable = false
	})
}

// WithBatchSeparator sets the code point joining strings in the batch strategy.
func WithBatchSeparator(sep rune) Option {
	return options.New(func(c *Config) error {
		if !utf8.ValidRune(sep) {
			return fmt.Errorf("%w: %U", errs.ErrInvalidSeparator, sep)
		}
		c.separator = sep

		return nil
	})
}

// WithLogger sets the logger used for diagnostics. A nil logger disables logging.
func WithLogger(logger *zap.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger == nil {
			logger = zap.NewNop()
		}
		c.logger = logger
	})
}

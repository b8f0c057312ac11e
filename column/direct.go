package column

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/encoding"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/internal/arena"
)

// poolLengthWidth is the size of the length prefix of a pool entry.
const poolLengthWidth = 4

// directStrategy writes every string as its own pool entry:
//
//	[u32 byte length][UTF-8 bytes]
//
// The reference stored in the fixed region is the entry's pool position.
type directStrategy struct {
	strategyEnv
	pool *arena.Arena
}

func newDirectStrategy(pool *arena.Arena, env strategyEnv) *directStrategy {
	return &directStrategy{strategyEnv: env, pool: pool}
}

func (d *directStrategy) write(s string) (uint32, error) {
	n := encoding.CountString(s)

	grows := d.pool.Grows()
	off, err := d.pool.Alloc(poolLengthWidth + n)
	if err != nil {
		return 0, fmt.Errorf("string pool: %w", err)
	}
	if d.pool.Grows() != grows {
		d.logger.Debug("string pool grown", zap.Int("capacity", d.pool.Cap()))
	}

	entry := d.pool.Slice(off, poolLengthWidth+n)
	d.engine.PutUint32(entry, uint32(n)) //nolint:gosec
	encoding.EncodeString(s, entry, poolLengthWidth)
	d.stats.PoolWrites++

	return uint32(off), nil //nolint:gosec
}

func (d *directStrategy) read(ref uint32) (string, error) {
	off := int(ref)
	if !d.pool.Contains(off, poolLengthWidth) {
		return "", fmt.Errorf("%w: string reference %d outside pool of %d bytes",
			errs.ErrInvalidForm, ref, d.pool.Cursor())
	}

	n := int(d.engine.Uint32(d.pool.Slice(off, poolLengthWidth)))
	start := off + poolLengthWidth
	if !d.pool.Contains(start, n) {
		// A corrupted length is clamped instead of read past the pool.
		d.stats.ClampedLengths++
		d.logger.Warn("clamped string length",
			zap.Uint32("ref", ref),
			zap.Int("length", n),
			zap.Int("pool_cursor", d.pool.Cursor()),
		)
		n = 0
	}

	s, malformed := encoding.DecodeStringCounted(d.pool.Bytes(), start, n)
	if malformed > 0 {
		d.stats.MalformedBytes += malformed
		d.logger.Warn("malformed UTF-8 lead bytes in string pool",
			zap.Uint32("ref", ref),
			zap.Int("count", malformed),
		)
	}

	return s, nil
}

func (d *directStrategy) finalize() ([]byte, uint32, uint32, error) {
	return d.pool.Bytes(), uint32(d.pool.Cursor()), 0, nil //nolint:gosec
}

func (d *directStrategy) poolBytes() int {
	return d.pool.Cursor()
}

func (d *directStrategy) grows() int {
	return d.pool.Grows()
}

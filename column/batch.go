package column

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/encoding"
	"github.com/arloliu/bytecol/errs"
)

// batchStrategy queues strings and writes the whole pool at once.
//
// The reference stored in the fixed region is the string's position in the
// queue. At finalization the queue is joined with the separator and
// transcoded in one pass; the pool is sized to exactly the bytes written.
// Reading a restored pool splits it once and keeps the pieces.
type batchStrategy struct {
	strategyEnv
	separator rune
	sepBytes  int
	limit     int

	strs    []string
	loaded  bool
	loadErr error
	// encoded is the number of pool bytes strs will occupy.
	encoded int

	pool     []byte
	poolOK   bool
	restored uint32
}

func newBatchStrategy(sep rune, sizeHint int, limit int, env strategyEnv) *batchStrategy {
	return &batchStrategy{
		strategyEnv: env,
		separator:   sep,
		sepBytes:    utf8.RuneLen(sep),
		limit:       limit,
		strs:        make([]string, 0, sizeHint/2),
		loaded:      true,
	}
}

func restoreBatchStrategy(sep rune, pool []byte, count uint32, limit int, env strategyEnv) *batchStrategy {
	return &batchStrategy{
		strategyEnv: env,
		separator:   sep,
		sepBytes:    utf8.RuneLen(sep),
		limit:       limit,
		encoded:     len(pool),
		pool:        pool,
		poolOK:      true,
		restored:    count,
	}
}

func (b *batchStrategy) write(s string) (uint32, error) {
	if strings.ContainsRune(s, b.separator) {
		return 0, fmt.Errorf("%w: %U in %q", errs.ErrSeparatorCollision, b.separator, s)
	}

	if err := b.load(); err != nil {
		return 0, err
	}

	if len(b.strs) >= math.MaxUint32 {
		return 0, fmt.Errorf("%w: batch string count", errs.ErrCapacityExceeded)
	}

	need := encoding.CountString(s)
	if len(b.strs) > 0 {
		need += b.sepBytes
	}
	if b.limit >= 0 && b.encoded+need > b.limit {
		return 0, fmt.Errorf("%w: batch pool needs %d bytes, limit %d",
			errs.ErrCapacityExceeded, b.encoded+need, b.limit)
	}

	ref := uint32(len(b.strs)) //nolint:gosec
	b.strs = append(b.strs, s)
	b.encoded += need
	b.poolOK = false
	b.stats.PoolWrites++

	return ref, nil
}

func (b *batchStrategy) read(ref uint32) (string, error) {
	if err := b.load(); err != nil {
		return "", err
	}

	if int(ref) >= len(b.strs) {
		return "", fmt.Errorf("%w: batch reference %d, %d strings", errs.ErrInvalidForm, ref, len(b.strs))
	}

	return b.strs[ref], nil
}

// load splits a restored pool into strings. It runs at most once; a failed
// split is remembered and returned on every later call.
func (b *batchStrategy) load() error {
	if b.loaded || b.loadErr != nil {
		return b.loadErr
	}

	var parts []string
	if b.restored > 0 {
		text, malformed := encoding.DecodeStringCounted(b.pool, 0, len(b.pool))
		if malformed > 0 {
			b.stats.MalformedBytes += malformed
			b.logger.Warn("malformed UTF-8 lead bytes in batch pool", zap.Int("count", malformed))
		}
		parts = strings.Split(text, string(b.separator))
	}
	b.stats.Splits++

	if len(parts) != int(b.restored) {
		b.loadErr = fmt.Errorf("%w: batch pool holds %d strings, form declares %d",
			errs.ErrInvalidForm, len(parts), b.restored)

		return b.loadErr
	}

	b.strs = parts
	b.loaded = true

	return nil
}

func (b *batchStrategy) finalize() ([]byte, uint32, uint32, error) {
	if !b.poolOK {
		joined := strings.Join(b.strs, string(b.separator))
		pool := make([]byte, encoding.CountString(joined))
		n := encoding.EncodeString(joined, pool, 0)
		b.pool = pool[:n:n]
		b.poolOK = true
	}

	count := b.restored
	if b.loaded {
		count = uint32(len(b.strs)) //nolint:gosec
	}

	return b.pool, count, count, nil
}

func (b *batchStrategy) poolBytes() int {
	return b.encoded
}

func (b *batchStrategy) grows() int {
	return 0
}

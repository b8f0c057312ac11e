package column

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/arloliu/bytecol/endian"
	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
	"github.com/arloliu/bytecol/internal/arena"
)

// stringStrategy stores the string payloads of a column.
//
// The column keeps a 4-byte reference per String row in its fixed region;
// what the reference means (pool position or string counter) is up to the
// strategy.
type stringStrategy interface {
	// write stores s and returns its reference. A failed write leaves the
	// strategy able to accept further writes.
	write(s string) (uint32, error)
	// read returns the string for ref.
	read(ref uint32) (string, error)
	// finalize returns the pool, the pool cursor (or string count) and the
	// string count. The returned pool must not be modified.
	finalize() (pool []byte, cursor uint32, count uint32, err error)
	// poolBytes returns the number of pool bytes in use.
	poolBytes() int
	// grows returns how many times the pool was reallocated.
	grows() int
}

// strategyEnv is the state shared between a column and its strategy.
type strategyEnv struct {
	engine endian.EndianEngine
	stats  *Stats
	logger *zap.Logger
}

// newStringStrategy creates an empty strategy for a fresh column.
func newStringStrategy(cfg *Config, layout Layout, env strategyEnv) stringStrategy {
	policy := cfg.regionPolicy()
	poolCap := layout.PoolBytes
	if policy.Limit > 0 && poolCap > policy.Limit {
		poolCap = policy.Limit
	}

	switch cfg.strategy {
	case format.StrategyDictionary:
		return newDictionaryStrategy(arena.New(poolCap, policy), layout.Length, env)
	case format.StrategyBatch:
		return newBatchStrategy(cfg.separator, layout.Length, batchLimit(policy, poolCap), env)
	default:
		return newDirectStrategy(arena.New(poolCap, policy), env)
	}
}

// restoreStringStrategy creates a strategy over the pool of a serialized form.
func restoreStringStrategy(cfg *Config, form *SerializedForm, env strategyEnv) (stringStrategy, error) {
	switch form.Strategy {
	case format.StrategyDirect, format.StrategyDictionary:
		pool, err := arena.Wrap(form.StringBuffer, int(form.StringOffset), cfg.regionPolicy())
		if err != nil {
			return nil, fmt.Errorf("string pool: %w", err)
		}
		if form.Strategy == format.StrategyDictionary {
			return newDictionaryStrategy(pool, int(form.Length), env), nil
		}

		return newDirectStrategy(pool, env), nil
	case format.StrategyBatch:
		limit := batchLimit(cfg.regionPolicy(), len(form.StringBuffer))

		return restoreBatchStrategy(cfg.separator, form.StringBuffer, form.StringCount, limit, env), nil
	default:
		return nil, fmt.Errorf("%w: string strategy %d", errs.ErrInvalidForm, form.Strategy)
	}
}

// batchLimit returns the pool size a batch strategy may reach, or -1 when
// it is unbounded.
func batchLimit(policy arena.Policy, capacity int) int {
	switch {
	case !policy.Growable:
		return capacity
	case policy.Limit > 0:
		return policy.Limit
	default:
		return -1
	}
}

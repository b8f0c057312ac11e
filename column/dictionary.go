package column

import (
	"github.com/arloliu/bytecol/internal/arena"
	"github.com/arloliu/bytecol/internal/intern"
)

// dictionaryStrategy uses the direct pool format but writes each distinct
// string once. Repeated strings reuse the reference of the first occurrence.
//
// Decoded strings are cached by reference, so every distinct string is
// decoded at most once per column.
type dictionaryStrategy struct {
	*directStrategy
	index *intern.Index
	cache map[uint32]string
}

func newDictionaryStrategy(pool *arena.Arena, sizeHint int, env strategyEnv) *dictionaryStrategy {
	return &dictionaryStrategy{
		directStrategy: newDirectStrategy(pool, env),
		index:          intern.NewIndex(sizeHint / 4),
		cache:          make(map[uint32]string),
	}
}

func (d *dictionaryStrategy) write(s string) (uint32, error) {
	if ref, ok := d.index.Lookup(s); ok {
		d.stats.DictionaryHits++
		return ref, nil
	}

	ref, err := d.directStrategy.write(s)
	if err != nil {
		return 0, err
	}
	d.index.Insert(s, ref)
	d.stats.DictionaryCollisions = d.index.Collisions()

	return ref, nil
}

func (d *dictionaryStrategy) read(ref uint32) (string, error) {
	if s, ok := d.cache[ref]; ok {
		d.stats.CacheHits++
		return s, nil
	}

	s, err := d.directStrategy.read(ref)
	if err != nil {
		return "", err
	}
	d.cache[ref] = s

	return s, nil
}

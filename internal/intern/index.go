// Package intern provides the string-to-reference index used by the
// dictionary string strategy.
package intern

import "github.com/arloliu/bytecol/internal/hash"

type entry struct {
	value string
	ref   uint32
}

// Index maps strings to the pool reference of their first occurrence.
//
// Strings are bucketed by their xxHash64; each bucket keeps the exact
// strings so distinct values with equal hashes never share a reference.
// Such collisions are counted and chained in the bucket.
type Index struct {
	buckets    map[uint64][]entry
	count      int
	collisions int
}

// NewIndex creates an index sized for roughly sizeHint distinct strings.
func NewIndex(sizeHint int) *Index {
	if sizeHint < 0 {
		sizeHint = 0
	}

	return &Index{buckets: make(map[uint64][]entry, sizeHint)}
}

// Lookup returns the reference recorded for s.
func (x *Index) Lookup(s string) (uint32, bool) {
	return x.lookup(hash.String(s), s)
}

func (x *Index) lookup(h uint64, s string) (uint32, bool) {
	for _, e := range x.buckets[h] {
		if e.value == s {
			return e.ref, true
		}
	}

	return 0, false
}

// Insert records ref for s unless s is already present, in which case the
// existing reference is returned and inserted is false.
func (x *Index) Insert(s string, ref uint32) (existing uint32, inserted bool) {
	return x.insert(hash.String(s), s, ref)
}

func (x *Index) insert(h uint64, s string, ref uint32) (uint32, bool) {
	if r, ok := x.lookup(h, s); ok {
		return r, false
	}

	bucket := x.buckets[h]
	if len(bucket) > 0 {
		x.collisions++
	}
	x.buckets[h] = append(bucket, entry{value: s, ref: ref})
	x.count++

	return ref, true
}

// Len returns the number of distinct strings recorded.
func (x *Index) Len() int {
	return x.count
}

// Collisions returns how many inserted strings shared a hash with an
// already recorded, different string.
func (x *Index) Collisions() int {
	return x.collisions
}

// Reset clears all entries and keeps the map allocation.
func (x *Index) Reset() {
	clear(x.buckets)
	x.count = 0
	x.collisions = 0
}

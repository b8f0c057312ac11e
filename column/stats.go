package column

// Stats reports counters collected by a column since construction.
type Stats struct {
	// Rows is the column length.
	Rows int
	// FixedBytes is the number of fixed region bytes in use.
	FixedBytes int
	// PoolBytes is the number of string pool bytes in use (for the batch
	// strategy, the size the pool will have once finalized).
	PoolBytes int
	// Grows counts reallocations of the fixed region and the string pool.
	Grows int

	// PoolWrites counts string payloads written to the pool.
	PoolWrites int
	// DictionaryHits counts strings stored as a back-reference to an earlier
	// identical string.
	DictionaryHits int
	// DictionaryCollisions counts distinct strings sharing a hash bucket.
	DictionaryCollisions int
	// CacheHits counts string reads served from the decode cache.
	CacheHits int
	// Splits counts splits of a batch pool into its strings.
	Splits int

	// ClampedLengths counts pool entries whose length ran past the pool and
	// were read as the empty string.
	ClampedLengths int
	// MalformedBytes counts invalid UTF-8 lead bytes met while decoding.
	MalformedBytes int
}

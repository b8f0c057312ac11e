// Package hash wraps xxHash64 for string interning keys and content checksums.
package hash

import "github.com/cespare/xxhash/v2"

// String computes the xxHash64 of s.
func String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// Bytes computes the xxHash64 of b.
func Bytes(b []byte) uint64 {
	return xxhash.Sum64(b)
}

// Parts computes the xxHash64 of the concatenation of parts without
// materializing the concatenation.
func Parts(parts ...[]byte) uint64 {
	d := xxhash.New()
	for _, p := range parts {
		_, _ = d.Write(p)
	}

	return d.Sum64()
}

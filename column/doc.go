// Package column encodes a fixed-length sequence of mixed scalar values into
// flat byte buffers and decodes them again.
//
// # Layout
//
// A column of n rows owns two buffers. The main buffer is
//
//	[n tag bytes][n 4-byte offsets][fixed region]
//
// where every row's offset points at its payload in the fixed region:
// Number 8 bytes (IEEE-754 bits), Date 4 bytes (packed year/month/day),
// Boolean 1 byte, String 4 bytes (a string reference). Undefined rows have
// no payload. Offsets and payloads use the column byte order, big-endian by
// default.
//
// The string pool is the second buffer. Its contents depend on the string
// strategy chosen with WithStrategy:
//
//   - direct: every string is a [u32 length][UTF-8] entry; the reference is
//     the entry position.
//   - dictionary: the direct format, but repeated strings share the entry of
//     their first occurrence.
//   - batch: strings are queued and joined with a separator when the column
//     is serialized; the reference is the string's queue position.
//
// # Usage
//
//	c, err := column.FromAny([]any{true, 42.5, "hé", nil},
//		column.WithStrategy(format.StrategyDictionary))
//	if err != nil {
//		return err
//	}
//
//	form, err := c.ToSerializedForm()
//	// ... hand form to another goroutine ...
//	restored, err := column.FromSerializedForm(form)
//	values, err := restored.Reify()
//
// A serialized form can also be flattened into one byte slice with
// MarshalForm and read back with UnmarshalForm; see package section for the
// frame header layout.
package column

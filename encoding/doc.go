// Package encoding provides the stateless primitives behind the column
// format: a UTF-8 transcoder and a packed calendar date codec.
//
// # UTF-8 Transcoder
//
// EncodeString and EncodeUTF16 write UTF-8 into a caller-provided slice at a
// given offset and return the number of bytes written. The caller sizes the
// destination, typically with CountString or CountUTF16:
//
//	n := encoding.CountString(text)
//	buf := make([]byte, n)
//	written := encoding.EncodeString(text, buf, 0) // written == n
//
// DecodeString and DecodeUTF16 are the inverse. They interpret the bytes
// themselves instead of relying on a generic text decoder and process the
// input in chunks of DecodeChunkSize code points, so decoding a very long
// pool never builds an unbounded intermediate slice:
//
//	text := encoding.DecodeString(buf, 0, written)
//
// UTF-16 input is supported so text produced by UTF-16 hosts, including
// surrogate pairs, can be written without an intermediate conversion. A
// well-formed surrogate pair becomes one 4-byte sequence; a lone surrogate is
// written as its 3-byte form and decoded back to the same code unit.
//
// Malformed leading bytes are not rejected. Each one is passed through as the
// code point with the byte's value and counted; DecodeStringCounted reports
// the count so callers can surface it.
//
// # Date Codec
//
// EncodeDate packs the UTC calendar fields of a time into 32 bits:
//
//	bits 9..31  year (0 .. MaxDateYear)
//	bits 5..8   month, zero based
//	bits 0..4   day of month
//
// DecodeDate returns UTC midnight of the packed day. Time of day and zone
// offset are dropped on purpose: the codec stores days, not instants.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use.
package encoding

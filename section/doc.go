// Package section defines the binary header of a column frame.
//
// A frame flattens a serialized column into one byte slice:
//
//	+----------------------+---------------------------------------+
//	| FrameHeader (44 B)   | body: Buffer || StringBuffer          |
//	|                      | (compressed as a whole, optionally)   |
//	+----------------------+---------------------------------------+
//
// Header layout:
//
//	0-1    options: magic 0xEC10 (bits 4-15), big-endian flag (bit 1)
//	2      string strategy
//	3      body compression
//	4-7    row count
//	8-11   fixed region cursor
//	12-15  string pool cursor (string count for the batch strategy)
//	16-19  string count
//	20-23  main buffer size
//	24-27  string pool size
//	28-31  stored body size
//	32-35  batch separator code point (zero for other strategies)
//	36-43  xxHash64 of the uncompressed body
//
// The options field is always little-endian; the remaining fields use the
// byte order named by the endianness bit, which is also the byte order of
// the column payloads.
package section

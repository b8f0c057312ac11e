// Package compress provides the codecs that compress a column frame body.
//
// A frame body is the concatenation of the main buffer and the string pool.
// Its uncompressed size is recorded in the frame header, so every codec
// decompresses into an exactly sized destination:
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	packed, err := codec.Compress(body)
//	body, err = codec.Decompress(packed, len(body))
//
// Supported algorithms:
//   - None: body stored as is
//   - Zstd: best ratio, pure Go (klauspost/compress/zstd)
//   - S2: balanced speed and ratio (klauspost/compress/s2)
//   - LZ4: fastest decompression (pierrec/lz4 block format)
//
// Codecs returned by GetCodec are stateless values backed by pooled
// encoders and are safe for concurrent use.
package compress

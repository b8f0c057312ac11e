package compress

import (
	"errors"
	"fmt"

	"github.com/arloliu/bytecol/format"
)

// ErrIncompressible is returned by a codec that cannot represent the input
// in fewer bytes. Callers store the data uncompressed instead.
var ErrIncompressible = errors.New("data is incompressible")

// Compressor compresses a frame body.
type Compressor interface {
	// Compress returns the compressed form of data in a newly allocated
	// slice. data is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a frame body.
type Decompressor interface {
	// Decompress returns the original bytes of data. size is the exact
	// uncompressed length; a result of any other length is an error.
	Decompress(data []byte, size int) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
}

// Stats describes one compression.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int
	CompressedSize int
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the saved space in percent.
func (s Stats) SpaceSavings() float64 {
	return (1 - s.Ratio()) * 100
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in codec for compressionType.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

func checkSize(algorithm string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s: decompressed %d bytes, expected %d", algorithm, got, want)
	}

	return nil
}

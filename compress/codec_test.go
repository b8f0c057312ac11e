package compress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bytecol/format"
)

func compressibleBody(size int) []byte {
	pattern := []byte("\x02\x03\x04\x00\x00\x00\x00\x00\x00\x00\x08hello world")
	return bytes.Repeat(pattern, size/len(pattern)+1)[:size]
}

func TestCodecs_RoundTrip(t *testing.T) {
	types := []format.CompressionType{
		format.CompressionNone,
		format.CompressionZstd,
		format.CompressionS2,
		format.CompressionLZ4,
	}
	sizes := []int{1024, 64 * 1024}

	for _, typ := range types {
		for _, size := range sizes {
			t.Run(typ.String(), func(t *testing.T) {
				codec, err := GetCodec(typ)
				require.NoError(t, err)

				data := compressibleBody(size)
				packed, err := codec.Compress(data)
				require.NoError(t, err)
				if typ != format.CompressionNone {
					require.Less(t, len(packed), len(data))
				}

				out, err := codec.Decompress(packed, len(data))
				require.NoError(t, err)
				require.Equal(t, data, out)
			})
		}
	}
}

func TestCodecs_Empty(t *testing.T) {
	for _, typ := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			packed, err := codec.Compress(nil)
			require.NoError(t, err)

			out, err := codec.Decompress(packed, 0)
			require.NoError(t, err)
			require.Empty(t, out)
		})
	}
}

func TestCodecs_SizeMismatch(t *testing.T) {
	data := compressibleBody(4096)

	for _, typ := range []format.CompressionType{format.CompressionNone, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			packed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = codec.Decompress(packed, len(data)+1)
			require.Error(t, err)
		})
	}
}

func TestCodecs_CorruptInput(t *testing.T) {
	garbage := []byte{0xff, 0xfe, 0xfd, 0xfc, 0xfb, 0xfa, 0xf9, 0xf8}

	for _, typ := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		t.Run(typ.String(), func(t *testing.T) {
			codec, err := GetCodec(typ)
			require.NoError(t, err)

			_, err = codec.Decompress(garbage, 100)
			require.Error(t, err)
		})
	}
}

func TestLZ4_Incompressible(t *testing.T) {
	data := []byte{0x01, 0x9a, 0x33, 0xc4, 0x7e}

	_, err := NewLZ4Compressor().Compress(data)
	require.ErrorIs(t, err, ErrIncompressible)
}

func TestNoOp_CompressCopies(t *testing.T) {
	data := []byte("abc")
	packed, err := NewNoOpCompressor().Compress(data)
	require.NoError(t, err)

	packed[0] = 'x'
	require.Equal(t, []byte("abc"), data)
}

func TestGetCodec_Unknown(t *testing.T) {
	_, err := GetCodec(format.CompressionType(99))
	require.Error(t, err)
}

func TestStats(t *testing.T) {
	s := Stats{Algorithm: format.CompressionZstd, OriginalSize: 200, CompressedSize: 50}
	require.InDelta(t, 0.25, s.Ratio(), 1e-9)
	require.InDelta(t, 75.0, s.SpaceSavings(), 1e-9)
	require.Zero(t, Stats{}.Ratio())
}

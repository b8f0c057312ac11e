package section

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/bytecol/errs"
	"github.com/arloliu/bytecol/format"
)

func TestNewFrameFlag(t *testing.T) {
	flag := NewFrameFlag()

	require.True(t, flag.IsBigEndian())
	require.Equal(t, format.BigEndian, flag.ByteOrder())
	require.Equal(t, uint16(MagicFrameV1Opt), flag.GetMagicNumber())
	require.Equal(t, format.StrategyDirect, flag.GetStrategy())
	require.Equal(t, format.CompressionNone, flag.GetCompression())
	require.NoError(t, flag.Validate())
}

func TestFrameFlag_ByteOrder(t *testing.T) {
	flag := NewFrameFlag()

	flag.SetByteOrder(format.LittleEndian)
	require.False(t, flag.IsBigEndian())
	require.Equal(t, format.LittleEndian, flag.ByteOrder())
	require.Equal(t, uint16(MagicFrameV1Opt), flag.GetMagicNumber())

	flag.SetByteOrder(format.BigEndian)
	require.True(t, flag.IsBigEndian())
}

func TestFrameFlag_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(f *FrameFlag)
		err    error
	}{
		{name: "valid batch zstd", mutate: func(f *FrameFlag) {
			f.SetStrategy(format.StrategyBatch)
			f.SetCompression(format.CompressionZstd)
		}},
		{name: "bad magic", mutate: func(f *FrameFlag) { f.Options = 0xEB10 }, err: errs.ErrInvalidMagicNumber},
		{name: "reserved bit", mutate: func(f *FrameFlag) { f.Options |= 0x0001 }, err: errs.ErrInvalidHeaderFlags},
		{name: "unknown strategy", mutate: func(f *FrameFlag) { f.Strategy = 9 }, err: errs.ErrInvalidHeaderFlags},
		{name: "zero strategy", mutate: func(f *FrameFlag) { f.Strategy = 0 }, err: errs.ErrInvalidHeaderFlags},
		{name: "unknown compression", mutate: func(f *FrameFlag) { f.Compression = 7 }, err: errs.ErrInvalidHeaderFlags},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag := NewFrameFlag()
			tt.mutate(&flag)

			err := flag.Validate()
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

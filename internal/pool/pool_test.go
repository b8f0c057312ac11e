package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestByteBuffer_WriteAndGrow(t *testing.T) {
	bb := NewByteBuffer(4)

	n, err := bb.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	n, err = bb.WriteString("defg")
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, "abcdefg", string(bb.Bytes()))

	bb.Grow(100)
	require.GreaterOrEqual(t, bb.Cap()-bb.Len(), 100)
	require.Equal(t, "abcdefg", string(bb.Bytes()))

	bb.Reset()
	require.Zero(t, bb.Len())
}

func TestGrowCapacity(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		required int
		want     int
	}{
		{"small buffer grows by default size", 1024, 1100, 1024 + ScratchBufferDefaultSize},
		{"large buffer grows by a quarter", 1 << 20, (1 << 20) + 10, (1 << 20) + (1 << 18)},
		{"never below required", 0, 1 << 20, 1 << 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GrowCapacity(tt.current, tt.required))
		})
	}
}

func TestByteBufferPool(t *testing.T) {
	p := NewByteBufferPool(8, 64)

	bb := p.Get()
	require.NotNil(t, bb)
	require.Zero(t, bb.Len())

	_, _ = bb.WriteString("payload")
	p.Put(bb)

	again := p.Get()
	require.Zero(t, again.Len(), "pooled buffers are reset")

	// Oversized buffers are dropped without panicking.
	p.Put(NewByteBuffer(1024))
	p.Put(nil)
}

func TestScratchBuffer(t *testing.T) {
	bb := GetScratchBuffer()
	defer PutScratchBuffer(bb)

	require.NotNil(t, bb)
	require.Zero(t, bb.Len())
}

func TestGetRuneSlice(t *testing.T) {
	s, cleanup := GetRuneSlice(16)
	require.Len(t, s, 16)
	s[0] = 'x'
	cleanup()

	s2, cleanup2 := GetRuneSlice(4)
	defer cleanup2()
	require.Len(t, s2, 4)

	big, cleanup3 := GetRuneSlice(1 << 12)
	defer cleanup3()
	require.Len(t, big, 1<<12)
}

package intern

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIndex_InsertLookup(t *testing.T) {
	x := NewIndex(4)

	ref, inserted := x.Insert("a", 0)
	require.True(t, inserted)
	require.Equal(t, uint32(0), ref)

	ref, inserted = x.Insert("b", 5)
	require.True(t, inserted)
	require.Equal(t, uint32(5), ref)

	ref, inserted = x.Insert("a", 99)
	require.False(t, inserted)
	require.Equal(t, uint32(0), ref)

	got, ok := x.Lookup("b")
	require.True(t, ok)
	require.Equal(t, uint32(5), got)

	_, ok = x.Lookup("missing")
	require.False(t, ok)

	require.Equal(t, 2, x.Len())
	require.Zero(t, x.Collisions())
}

func TestIndex_EmptyString(t *testing.T) {
	x := NewIndex(0)

	_, inserted := x.Insert("", 12)
	require.True(t, inserted)

	ref, ok := x.Lookup("")
	require.True(t, ok)
	require.Equal(t, uint32(12), ref)
}

func TestIndex_CollisionChaining(t *testing.T) {
	x := NewIndex(0)

	// Two different strings forced into one bucket.
	const h = uint64(42)
	_, inserted := x.insert(h, "first", 1)
	require.True(t, inserted)
	_, inserted = x.insert(h, "second", 2)
	require.True(t, inserted)

	r, ok := x.lookup(h, "second")
	require.True(t, ok)
	require.Equal(t, uint32(2), r)

	r, inserted = x.insert(h, "first", 3)
	require.False(t, inserted)
	require.Equal(t, uint32(1), r)

	require.Equal(t, 2, x.Len())
	require.Equal(t, 1, x.Collisions())
}

func TestIndex_Reset(t *testing.T) {
	x := NewIndex(16)
	for i := range 16 {
		x.Insert(fmt.Sprintf("v%d", i), uint32(i))
	}
	require.Equal(t, 16, x.Len())

	x.Reset()
	require.Zero(t, x.Len())
	_, ok := x.Lookup("v3")
	require.False(t, ok)
}

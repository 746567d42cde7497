package arena_test

import (
	"testing"

	"github.com/static-alloc/salloc"
	"github.com/static-alloc/salloc/arena"
	"github.com/stretchr/testify/require"
)

func pattern(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = byte(i + 1)
	}
	return p
}

func TestReallocGrowPreservesData(t *testing.T) {
	heap, err := arena.NewHeap(256)
	require.NoError(t, err)

	block, err := heap.AllocAligned(16, 1)
	require.NoError(t, err)
	copy(block, pattern(16))

	grown, err := heap.ReallocAligned(block, 64, 1)
	require.NoError(t, err)
	require.Len(t, grown, 64)
	require.Equal(t, 64, heap.BlockSize(grown))
	require.Equal(t, pattern(16), grown[:16])

	// the old block was freed
	require.Equal(t, 1, heap.AllocationCount())
	require.NoError(t, heap.Validate())
}

func TestReallocShrinkBoundsTheCopy(t *testing.T) {
	heap, err := arena.NewHeap(256)
	require.NoError(t, err)

	block, err := heap.AllocAligned(32, 1)
	require.NoError(t, err)
	copy(block, pattern(32))

	sentinel, err := heap.AllocAligned(16, 1)
	require.NoError(t, err)
	for i := range sentinel {
		sentinel[i] = 0xEE
	}

	shrunk, err := heap.ReallocAligned(block, 8, 1)
	require.NoError(t, err)
	require.Len(t, shrunk, 8)
	require.Equal(t, pattern(32)[:8], shrunk)

	// only the first 8 bytes may have been copied; the neighbor is intact
	for _, b := range sentinel {
		require.Equal(t, byte(0xEE), b)
	}

	require.Equal(t, 2, heap.AllocationCount())
	require.NoError(t, heap.Validate())
}

func TestReallocFailureIsNoop(t *testing.T) {
	heap, err := arena.NewHeap(64)
	require.NoError(t, err)

	block, err := heap.AllocAligned(32, 1)
	require.NoError(t, err)
	copy(block, pattern(32))

	_, err = heap.ReallocAligned(block, 60, 1)
	require.ErrorIs(t, err, salloc.OutOfMemoryError)

	// the original block is completely untouched
	require.Equal(t, 32, heap.BlockSize(block))
	require.Equal(t, pattern(32), block[:32])
	require.Equal(t, 1, heap.AllocationCount())
	require.NoError(t, heap.Validate())
}

func TestReallocNegativeSizeRejected(t *testing.T) {
	heap, err := arena.NewHeap(256)
	require.NoError(t, err)

	block, err := heap.AllocAligned(16, 1)
	require.NoError(t, err)
	copy(block, pattern(16))

	_, err = heap.ReallocAligned(block, -8, 1)
	require.ErrorIs(t, err, salloc.ZeroSizeError)

	// the original block is completely untouched
	require.Equal(t, 16, heap.BlockSize(block))
	require.Equal(t, pattern(16), block)
	require.Equal(t, 1, heap.AllocationCount())
	require.NoError(t, heap.Validate())
}

func TestReallocDefaultAlignment(t *testing.T) {
	heap, err := arena.NewHeap(512)
	require.NoError(t, err)

	block, err := heap.Alloc(24)
	require.NoError(t, err)
	copy(block, pattern(24))

	moved, err := heap.Realloc(block, 48)
	require.NoError(t, err)
	require.Equal(t, pattern(24), moved[:24])
	require.Equal(t, 48, heap.BlockSize(moved))
}

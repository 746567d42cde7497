package arena

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWidthForCapacity(t *testing.T) {
	require.Equal(t, 1, widthForCapacity(1))
	require.Equal(t, 1, widthForCapacity(255))
	require.Equal(t, 2, widthForCapacity(256))
	require.Equal(t, 2, widthForCapacity(65535))
	require.Equal(t, 4, widthForCapacity(65536))
	require.Equal(t, 4, widthForCapacity(1<<31-1))

	if bits.UintSize == 64 {
		// capacities past 32 bits only exist on 64-bit platforms; the shift
		// count is a variable so the constants stay representable elsewhere
		shift := 32
		require.Equal(t, 4, widthForCapacity(1<<shift-1))
		require.Equal(t, 8, widthForCapacity(1<<shift))
		require.Equal(t, 8, widthForCapacity(1<<(shift+8)))
	}
}

func TestMetadataCodec(t *testing.T) {
	cases := map[int][]int{
		1: {0, 1, 200, 255},
		2: {0, 256, 65535},
		4: {0, 65536, 1<<31 - 1},
		8: {0, 1 << 20},
	}

	if bits.UintSize == 64 {
		shift := 32
		cases[4] = append(cases[4], 1<<shift-1)
		cases[8] = append(cases[8], 1<<shift, 1<<(shift+8))
	}

	for width, values := range cases {
		h := &Heap{memory: make([]byte, 16), metaWidth: width}
		for _, value := range values {
			h.writeMetadata(4, value)
			require.Equalf(t, value, h.readMetadata(4), "width %d value %d", width, value)
		}
	}
}

func TestOccupancy(t *testing.T) {
	used := newOccupancy(128)
	require.Zero(t, used.Count())

	used.SetRange(10, 20)
	require.Equal(t, 20, used.Count())
	require.False(t, used.Get(9))
	require.True(t, used.Get(10))
	require.True(t, used.Get(29))
	require.False(t, used.Get(30))

	used.ClearRange(15, 5)
	require.Equal(t, 15, used.Count())
	require.True(t, used.Get(14))
	require.False(t, used.Get(15))
	require.False(t, used.Get(19))
	require.True(t, used.Get(20))

	used.Reset()
	require.Zero(t, used.Count())
	require.False(t, used.Get(10))
}

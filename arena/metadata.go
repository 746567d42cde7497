package arena

import (
	"encoding/binary"
	"fmt"
	"math/bits"
)

// metadataWidths is the menu of size-field widths, in bytes. The constructor
// picks the smallest entry able to represent every value in [0, capacity].
var metadataWidths = [...]int{1, 2, 4, 8}

func widthForCapacity(capacity int) int {
	needed := bits.Len(uint(capacity))

	for _, width := range metadataWidths {
		if needed <= width*8 {
			return width
		}
	}

	panic(fmt.Sprintf("no metadata width can represent a capacity of %d bytes", capacity))
}

// writeMetadata stores a payload size into the metadata field starting at the
// given span offset.
func (h *Heap) writeMetadata(spanStart, size int) {
	field := h.memory[spanStart : spanStart+h.metaWidth]

	switch h.metaWidth {
	case 1:
		field[0] = byte(size)
	case 2:
		binary.LittleEndian.PutUint16(field, uint16(size))
	case 4:
		binary.LittleEndian.PutUint32(field, uint32(size))
	case 8:
		binary.LittleEndian.PutUint64(field, uint64(size))
	default:
		panic(fmt.Sprintf("metadata width %d is not in the supported menu", h.metaWidth))
	}
}

// readMetadata returns the payload size stored in the metadata field starting
// at the given span offset. The value is only meaningful while the span's
// occupancy bits are set.
func (h *Heap) readMetadata(spanStart int) int {
	field := h.memory[spanStart : spanStart+h.metaWidth]

	switch h.metaWidth {
	case 1:
		return int(field[0])
	case 2:
		return int(binary.LittleEndian.Uint16(field))
	case 4:
		return int(binary.LittleEndian.Uint32(field))
	case 8:
		return int(binary.LittleEndian.Uint64(field))
	default:
		panic(fmt.Sprintf("metadata width %d is not in the supported menu", h.metaWidth))
	}
}

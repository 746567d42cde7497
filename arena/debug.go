package arena

import (
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"golang.org/x/exp/slog"
)

// Raw makes a copy of the heap's buffer for inspection. Diagnostic only; the
// copy has no effect on allocator state.
func (h *Heap) Raw() []byte {
	buf := make([]byte, len(h.memory))
	copy(buf, h.memory)
	return buf
}

// OccupancyBits returns a snapshot of the occupancy tracker, one bool per
// buffer byte. Diagnostic only.
func (h *Heap) OccupancyBits() []bool {
	bits := make([]bool, len(h.memory))
	for i := range bits {
		bits[i] = h.used.Get(i)
	}
	return bits
}

// HeapJsonData populates a json object with summary information about this heap
func (h *Heap) HeapJsonData(json jwriter.ObjectState) {
	json.Name("TotalBytes").Int(len(h.memory))
	json.Name("UnusedBytes").Int(h.SumFreeSize())
	json.Name("MetadataWidth").Int(h.metaWidth)
	json.Name("Allocations").Int(h.allocCount)
	json.Name("UnusedRanges").Int(h.FreeRegionsCount())
}

// PrintDetailedMap writes a json object describing the heap and every region
// in it, allocated and free, in offset order.
func (h *Heap) PrintDetailedMap(writer *jwriter.Writer) {
	objState := writer.Object()
	defer objState.End()

	arrayState := objState.Name("Blocks").Array()

	_ = h.VisitAllRegions(func(offset, size int, free bool) error {
		obj := arrayState.Object()
		defer obj.End()

		obj.Name("Offset").Int(offset)
		if free {
			obj.Name("Type").String("FREE")
			obj.Name("Size").Int(size)
		} else {
			obj.Name("Type").String("BLOCK")
			obj.Name("Size").Int(size)
			obj.Name("PayloadSize").Int(size - h.metaWidth)
		}

		return nil
	})
	arrayState.End()

	// HeapJsonData receives objState by value, and jwriter.ObjectState tracks
	// its comma state in the value. It must only be passed by value after the
	// original objState has written its first member, or the copy's writes
	// desync the original's comma state and the output is malformed.
	h.HeapJsonData(objState)
}

// DebugLogAllAllocations walks the live allocations in offset order and calls
// logFunc for each with the span offset and payload size.
func (h *Heap) DebugLogAllAllocations(logger *slog.Logger, logFunc func(log *slog.Logger, offset int, size int)) {
	for _, start := range h.spanStarts() {
		size, _ := h.live.Get(start)
		logFunc(logger, start, size)
	}
}

package arena

import (
	"github.com/pkg/errors"
)

// Validate performs internal consistency checks on the heap: every live span
// must sit inside the buffer with all of its occupancy bits set and its
// stored metadata matching the registered size, no two spans may overlap, and
// no occupancy bit may be set outside a live span. These checks walk the
// whole buffer; when the implementation is functioning correctly it should
// not be possible for this method to return an error.
//
// Validate inspects the heap's own bookkeeping only. It cannot prove a
// caller's pointer valid, but it can surface the bitmap drift a double free
// leaves behind.
func (h *Heap) Validate() error {
	if h.allocCount != h.live.Count() {
		return errors.Errorf("the heap reports %d live allocations, but %d spans are registered", h.allocCount, h.live.Count())
	}

	var sumBytes, sumSpan, prevEnd int
	prevStart := -1

	for _, start := range h.spanStarts() {
		size, _ := h.live.Get(start)
		span := size + h.metaWidth

		if start < 0 || start+span > len(h.memory) {
			return errors.Errorf("span at offset %d with length %d does not fit the %d-byte buffer", start, span, len(h.memory))
		}

		if start < prevEnd {
			return errors.Errorf("span at offset %d overlaps the span at offset %d", start, prevStart)
		}

		if stored := h.readMetadata(start); stored != size {
			return errors.Errorf("span at offset %d stores a payload size of %d, but %d is registered", start, stored, size)
		}

		for i := start; i < start+span; i++ {
			if !h.used.Get(i) {
				return errors.Errorf("byte %d inside the span at offset %d is not marked occupied", i, start)
			}
		}

		sumBytes += size
		sumSpan += span
		prevStart = start
		prevEnd = start + span
	}

	if sumBytes != h.allocationBytes {
		return errors.Errorf("live spans hold %d payload bytes, but the heap reports %d", sumBytes, h.allocationBytes)
	}

	if occupied := h.used.Count(); occupied != sumSpan {
		return errors.Errorf("%d bytes are marked occupied, but live spans only cover %d", occupied, sumSpan)
	}

	return nil
}

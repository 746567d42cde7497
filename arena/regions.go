package arena

import (
	"golang.org/x/exp/slices"
)

// spanStarts returns the offsets of all live spans in ascending order.
func (h *Heap) spanStarts() []int {
	starts := make([]int, 0, h.live.Count())
	h.live.Iter(func(start, _ int) (stop bool) {
		starts = append(starts, start)
		return false
	})
	slices.Sort(starts)
	return starts
}

// VisitAllRegions will call the provided callback once for each live block
// and free run in the heap, in offset order. For blocks, size is the full
// span (metadata field plus payload); for free runs it is the run length.
// Visiting stops at the first error, which is returned.
func (h *Heap) VisitAllRegions(visit func(offset, size int, free bool) error) error {
	cursor := 0

	for _, start := range h.spanStarts() {
		if start > cursor {
			if err := visit(cursor, start-cursor, true); err != nil {
				return err
			}
		}

		size, _ := h.live.Get(start)
		span := size + h.metaWidth
		if err := visit(start, span, false); err != nil {
			return err
		}
		cursor = start + span
	}

	if cursor < len(h.memory) {
		return visit(cursor, len(h.memory)-cursor, true)
	}

	return nil
}

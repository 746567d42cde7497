package arena

import (
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/static-alloc/salloc"
)

// Alloc reserves a payload of the given size with DefaultAlignment. See
// AllocAligned.
func (h *Heap) Alloc(size int) ([]byte, error) {
	return h.AllocAligned(size, DefaultAlignment)
}

// AllocAligned reserves a contiguous payload of the given size whose address
// satisfies the given alignment, and returns it as a slice aliasing the
// heap's buffer. The search is a single first-fit pass over the buffer; the
// first free, correctly aligned run large enough for the metadata field plus
// the payload wins.
//
// Alignment is expected to be a power of two; that is only enforced under the
// debug_salloc build tag. A non-positive size, a size above the heap capacity
// or a zero alignment fail immediately; an exhausted heap fails after the scan
// with salloc.OutOfMemoryError. Callers must check the error before using the
// payload.
func (h *Heap) AllocAligned(size int, alignment uint) ([]byte, error) {
	if size <= 0 {
		return nil, salloc.ZeroSizeError
	}
	if size > len(h.memory) {
		return nil, cerrors.Wrapf(salloc.SizeTooLargeError, "requested %d bytes from a %d-byte heap", size, len(h.memory))
	}
	if alignment == 0 {
		return nil, salloc.ZeroAlignmentError
	}

	salloc.DebugCheckPow2(alignment, "alignment")
	h.initialized = true

	spanLength := size + h.metaWidth
	base := uintptr(unsafe.Pointer(unsafe.SliceData(h.memory)))

	spanStart := -1
	freeRun := 0

	for i := 0; i < len(h.memory); i++ {
		// skip already issued bytes
		if h.used.Get(i) {
			spanStart = -1
			freeRun = 0
			continue
		}

		if spanStart < 0 {
			// the candidate's payload would start metaWidth bytes in; if that
			// address is misaligned this byte cannot open a span, but the next
			// free byte gets its own chance
			payloadAddr := base + uintptr(i+h.metaWidth)
			if payloadAddr%uintptr(alignment) != 0 {
				continue
			}
			spanStart = i
		}

		freeRun++
		if freeRun == spanLength {
			h.used.SetRange(spanStart, spanLength)
			h.writeMetadata(spanStart, size)
			h.live.Put(spanStart, size)
			h.allocCount++
			h.allocationBytes += size

			salloc.DebugValidate(h)

			payloadStart := spanStart + h.metaWidth
			return h.memory[payloadStart : payloadStart+size : payloadStart+size], nil
		}
	}

	return nil, cerrors.Wrapf(salloc.OutOfMemoryError, "no aligned free run of %d bytes", spanLength)
}

// Free releases a payload previously returned by this heap, clearing the
// occupancy bits of its whole span. The metadata bytes are left in place but
// must not be trusted once this returns.
//
// Before the first allocation attempt, Free is a no-op. Freeing a payload
// twice, or a pointer that was never returned by this heap, is undefined
// behavior.
func (h *Heap) Free(block []byte) {
	if !h.initialized {
		return
	}

	spanStart := h.payloadIndex(block) - h.metaWidth
	size := h.readMetadata(spanStart)

	h.used.ClearRange(spanStart, size+h.metaWidth)
	h.live.Delete(spanStart)
	h.allocCount--
	h.allocationBytes -= size

	salloc.DebugValidate(h)
}

// Realloc moves a payload to a new block of the given size with
// DefaultAlignment. See ReallocAligned.
func (h *Heap) Realloc(block []byte, newSize int) ([]byte, error) {
	return h.ReallocAligned(block, newSize, DefaultAlignment)
}

// ReallocAligned allocates a new block of the given size and alignment,
// copies over as much of the old payload as the new one can hold, frees the
// old block and returns the new payload. When the new allocation fails, the
// old block is left completely untouched and remains valid.
func (h *Heap) ReallocAligned(block []byte, newSize int, alignment uint) ([]byte, error) {
	if !h.initialized {
		return nil, salloc.NotInitializedError
	}

	newBlock, err := h.AllocAligned(newSize, alignment)
	if err != nil {
		return nil, err
	}

	oldStart := h.payloadIndex(block)
	oldSize := h.readMetadata(oldStart - h.metaWidth)
	if oldSize > newSize {
		oldSize = newSize
	}
	copy(newBlock, h.memory[oldStart:oldStart+oldSize])

	h.Free(block)
	return newBlock, nil
}

// BlockSize returns the stored payload size for a live payload, or 0 before
// the first allocation attempt. Liveness is not checked; the result for a
// freed payload is meaningless.
func (h *Heap) BlockSize(block []byte) int {
	if !h.initialized {
		return 0
	}

	return h.readMetadata(h.payloadIndex(block) - h.metaWidth)
}

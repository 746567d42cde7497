package arena

import (
	"math"
	"unsafe"

	cerrors "github.com/cockroachdb/errors"
	"github.com/dolthub/swiss"
	"github.com/static-alloc/salloc"
)

// DefaultAlignment is the alignment applied by Alloc and Realloc. It is the
// strictest alignment the platform guarantees for a primitive type.
const DefaultAlignment uint = uint(unsafe.Alignof(complex128(0)))

// DefaultHeapSize is a reasonable capacity for consumers that have no
// particular sizing requirements.
const DefaultHeapSize = 1 << 16

// Heap is a first-fit allocator over a single fixed-capacity byte buffer.
// The buffer is created at construction and never grows; every payload handed
// out by the allocation methods aliases a region of it. Each allocation is
// preceded in the buffer by a fixed-width metadata field holding the payload
// size, and occupancy is tracked with one bit per buffer byte, so freeing
// adjacent blocks implicitly coalesces their spans into one free run.
//
// Heap is not safe for concurrent use. Callers that share one across
// goroutines must serialize access themselves.
//
// Passing a slice that was not returned by this Heap's allocation methods (or
// was already freed) to Free, Realloc or BlockSize is undefined behavior.
// Pointers from outside the buffer entirely are detected and trap.
type Heap struct {
	memory    []byte
	used      occupancy
	metaWidth int

	// initialized flips when the first allocation attempt passes argument
	// checks; before that, Free and BlockSize no-op and Realloc fails.
	initialized bool

	// live maps span start offsets to payload sizes. It exists for
	// diagnostics, statistics and Validate only; the allocation search
	// never consults it.
	live *swiss.Map[int, int]

	allocCount      int
	allocationBytes int
}

var _ salloc.Validatable = &Heap{}

// NewHeap creates a Heap managing a zeroed buffer of the given capacity in
// bytes. The metadata width is resolved here, once, from the capacity.
func NewHeap(capacity int) (*Heap, error) {
	if capacity <= 0 {
		return nil, cerrors.Wrapf(salloc.CapacityError, "requested capacity is %d", capacity)
	}
	if capacity > math.MaxUint32 {
		return nil, cerrors.Wrapf(salloc.CapacityError, "requested capacity %d exceeds the occupancy tracker's addressable range", capacity)
	}

	return &Heap{
		memory:    make([]byte, capacity),
		used:      newOccupancy(capacity),
		metaWidth: widthForCapacity(capacity),
		live:      swiss.NewMap[int, int](42),
	}, nil
}

// Capacity returns the size in bytes of the managed buffer.
func (h *Heap) Capacity() int {
	return len(h.memory)
}

// MetadataWidth returns the number of bytes each allocation spends on its
// size field.
func (h *Heap) MetadataWidth() int {
	return h.metaWidth
}

// AllocationCount returns the number of live allocations in the heap.
func (h *Heap) AllocationCount() int {
	return h.allocCount
}

// IsEmpty will return true if this heap has no live allocations
func (h *Heap) IsEmpty() bool {
	return h.allocCount == 0
}

// SumFreeSize returns the number of free bytes of memory in the heap.
func (h *Heap) SumFreeSize() int {
	return len(h.memory) - h.used.Count()
}

// FreeRegionsCount returns the number of contiguous free runs in the heap.
// Adjacent freed spans count as a single run.
func (h *Heap) FreeRegionsCount() int {
	var count int
	_ = h.VisitAllRegions(func(offset, size int, free bool) error {
		if free {
			count++
		}
		return nil
	})
	return count
}

// Clear instantly frees all allocations. Stale metadata bytes are left in the
// buffer, as with Free.
func (h *Heap) Clear() {
	h.used.Reset()
	h.live = swiss.NewMap[int, int](42)
	h.allocCount = 0
	h.allocationBytes = 0
}

// AddStatistics sums this heap's allocation statistics into the statistics
// currently present in the provided salloc.Statistics object.
func (h *Heap) AddStatistics(stats *salloc.Statistics) {
	stats.HeapCount++
	stats.HeapBytes += len(h.memory)
	stats.AllocationCount += h.allocCount
	stats.AllocationBytes += h.allocationBytes
}

// AddDetailedStatistics sums this heap's allocation statistics into the
// statistics currently present in the provided salloc.DetailedStatistics
// object.
func (h *Heap) AddDetailedStatistics(stats *salloc.DetailedStatistics) {
	stats.HeapCount++
	stats.HeapBytes += len(h.memory)

	_ = h.VisitAllRegions(func(offset, size int, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddAllocation(size - h.metaWidth)
		}
		return nil
	})
}

// payloadIndex maps a payload slice back to its offset in the buffer. It traps
// when the slice does not point into the buffer at all; that is never a valid
// call and recovering from it is not possible.
func (h *Heap) payloadIndex(block []byte) int {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(h.memory)))
	addr := uintptr(unsafe.Pointer(unsafe.SliceData(block)))

	if addr < base+uintptr(h.metaWidth) || addr >= base+uintptr(len(h.memory)) {
		panic("salloc: pointer is not a payload in this heap")
	}

	return int(addr - base)
}

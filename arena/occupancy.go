package arena

import (
	kbitmap "github.com/kelindar/bitmap"
)

// occupancy tracks one bit per heap byte: set means the byte belongs to a live
// block's span (metadata or payload), clear means free. The bit-to-word layout
// inside the backing bitmap carries no meaning outside this type.
type occupancy struct {
	kb kbitmap.Bitmap
}

func newOccupancy(capacity int) occupancy {
	return occupancy{make(kbitmap.Bitmap, (capacity>>6)+1)}
}

func (o *occupancy) Get(i int) bool {
	return o.kb.Contains(uint32(i))
}

func (o *occupancy) SetRange(start, length int) {
	for i := start; i < start+length; i++ {
		o.kb.Set(uint32(i))
	}
}

func (o *occupancy) ClearRange(start, length int) {
	for i := start; i < start+length; i++ {
		o.kb.Remove(uint32(i))
	}
}

func (o *occupancy) Count() int {
	return o.kb.Count()
}

func (o *occupancy) Reset() {
	o.kb.Clear()
}

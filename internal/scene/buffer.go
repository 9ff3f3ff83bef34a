package scene

import (
	"errors"
	"fmt"

	"cpu-raytracer/internal/primitive"
)

// ErrBufferOverflow is returned when a write targets a slot at or beyond the
// buffer capacity.
var ErrBufferOverflow = errors.New("scene: buffer overflow")

// Layout describes a buffer's capacity and the half-open range
// [First, Last) of slots processed by the tracer.
type Layout struct {
	Size  int `json:"size"`
	First int `json:"first"`
	Last  int `json:"last"`
}

// FullLayout processes every slot of a buffer with the given capacity.
func FullLayout(size int) Layout {
	return Layout{Size: size, First: 0, Last: size}
}

// Buffer is an owning, fixed-capacity collection of primitives. Every stored
// primitive is a private clone. A nil slot is a valid empty entry.
//
// Buffer is not safe for concurrent mutation. It must not be modified while
// a render pass that uses it is running.
type Buffer struct {
	layout Layout
	slots  []primitive.Primitive
}

// NewBuffer allocates an empty buffer with the given layout.
func NewBuffer(layout Layout) *Buffer {
	b := &Buffer{}
	b.SetLayout(layout)
	return b
}

// Layout returns the buffer layout.
func (b *Buffer) Layout() Layout {
	return b.layout
}

// Len returns the capacity.
func (b *Buffer) Len() int {
	return len(b.slots)
}

// Range returns the processable slot range clamped to the capacity.
func (b *Buffer) Range() (first, last int) {
	first, last = b.layout.First, b.layout.Last
	if first < 0 {
		first = 0
	}
	if last > len(b.slots) {
		last = len(b.slots)
	}
	if first > last {
		first = last
	}
	return first, last
}

// SetLayout changes the layout. Entries inside the new capacity are kept,
// entries beyond it are released.
func (b *Buffer) SetLayout(layout Layout) {
	if layout.Size < 0 {
		layout.Size = 0
	}
	b.layout = layout
	b.ClearRange(layout.Size, len(b.slots))

	if layout.Size <= cap(b.slots) {
		b.slots = b.slots[:layout.Size]
		return
	}
	grown := make([]primitive.Primitive, layout.Size)
	copy(grown, b.slots)
	b.slots = grown
}

// Set stores a clone of p at pos, releasing the previous occupant. A nil p,
// including a typed nil pointer, empties the slot.
func (b *Buffer) Set(pos int, p primitive.Primitive) error {
	if pos < 0 || pos >= len(b.slots) {
		return fmt.Errorf("%w: slot %d, capacity %d", ErrBufferOverflow, pos, len(b.slots))
	}
	b.slots[pos] = nil
	if p != nil {
		b.slots[pos] = p.Clone()
	}
	return nil
}

// SetRange stores clones of prims into consecutive slots starting at start.
// The whole range is validated before anything is written, so an overflow
// leaves the buffer unchanged.
func (b *Buffer) SetRange(start int, prims []primitive.Primitive) error {
	end := start + len(prims)
	if start < 0 || end > len(b.slots) {
		return fmt.Errorf("%w: slots [%d, %d), capacity %d", ErrBufferOverflow, start, end, len(b.slots))
	}
	for i, p := range prims {
		if err := b.Set(start+i, p); err != nil {
			return err
		}
	}
	return nil
}

// Map exposes the internal slots for reading and writing. Its length is the
// capacity and it may contain nil entries. Nil when the capacity is zero.
func (b *Buffer) Map() []primitive.Primitive {
	if len(b.slots) == 0 {
		return nil
	}
	return b.slots
}

// MapReadOnly returns a copy of the slot table. The primitives themselves
// are shared and must be treated as immutable.
func (b *Buffer) MapReadOnly() []primitive.Primitive {
	if len(b.slots) == 0 {
		return nil
	}
	out := make([]primitive.Primitive, len(b.slots))
	copy(out, b.slots)
	return out
}

// Clear releases every entry.
func (b *Buffer) Clear() {
	b.ClearRange(0, len(b.slots))
}

// ClearRange releases entries in [begin, end). Out of range indices are
// ignored.
func (b *Buffer) ClearRange(begin, end int) {
	if begin < 0 {
		begin = 0
	}
	for i := begin; i < end && i < len(b.slots); i++ {
		b.slots[i] = nil
	}
}

// Clone returns a deep copy: same layout, every primitive cloned.
func (b *Buffer) Clone() *Buffer {
	c := NewBuffer(b.layout)
	for i, p := range b.slots {
		if p != nil {
			c.slots[i] = p.Clone()
		}
	}
	return c
}

// MoveFrom takes over src's layout and primitives, leaving src empty with a
// zero layout.
func (b *Buffer) MoveFrom(src *Buffer) {
	if src == b {
		return
	}
	b.layout = src.layout
	b.slots = src.slots
	src.layout = Layout{}
	src.slots = nil
}

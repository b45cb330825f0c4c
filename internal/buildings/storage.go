// Package buildings provides the fixed-footprint structures units own and use:
// houses with storage, farms with plots, and markets with stalls.
// Structures never move and every slot maps to one tile of the footprint.
package buildings

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Slots is the number of storage slots in any structure, one per footprint tile.
const Slots = world.Footprint * world.Footprint

// ItemRef names one item across the per-kind registries.
// The zero value is an empty slot.
type ItemRef struct {
	Kind items.Kind `json:"kind"`
	ID   items.ID   `json:"id"`
}

// Empty reports whether the ref names no item.
func (r ItemRef) Empty() bool { return r.ID == 0 }

// Storage is a bounded set of item slots keyed by footprint offset.
// Insertion never overwrites an occupied slot.
type Storage struct {
	slots [Slots]ItemRef
}

// Insert places ref in the first empty slot and returns its index.
// Returns false and leaves storage unchanged when every slot is taken.
func (s *Storage) Insert(ref ItemRef) (int, bool) {
	if ref.Empty() {
		return 0, false
	}
	for i := range s.slots {
		if s.slots[i].Empty() {
			s.slots[i] = ref
			return i, true
		}
	}
	return 0, false
}

// Remove clears the slot holding ref. Returns false if ref is not stored.
func (s *Storage) Remove(ref ItemRef) bool {
	for i := range s.slots {
		if s.slots[i] == ref && !ref.Empty() {
			s.slots[i] = ItemRef{}
			return true
		}
	}
	return false
}

// RemoveAt clears slot i and returns what it held.
func (s *Storage) RemoveAt(i int) (ItemRef, bool) {
	if i < 0 || i >= Slots || s.slots[i].Empty() {
		return ItemRef{}, false
	}
	ref := s.slots[i]
	s.slots[i] = ItemRef{}
	return ref, true
}

// First returns the lowest slot holding an item of kind.
func (s *Storage) First(kind items.Kind) (int, ItemRef, bool) {
	for i, ref := range s.slots {
		if !ref.Empty() && ref.Kind == kind {
			return i, ref, true
		}
	}
	return 0, ItemRef{}, false
}

// Slot returns the contents of slot i.
func (s *Storage) Slot(i int) ItemRef {
	if i < 0 || i >= Slots {
		return ItemRef{}
	}
	return s.slots[i]
}

// Count returns the number of stored items of kind.
func (s *Storage) Count(kind items.Kind) int {
	n := 0
	for _, ref := range s.slots {
		if !ref.Empty() && ref.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the number of occupied slots.
func (s *Storage) Len() int {
	n := 0
	for _, ref := range s.slots {
		if !ref.Empty() {
			n++
		}
	}
	return n
}

// HasSpace reports whether Insert would succeed.
func (s *Storage) HasSpace() bool { return s.Len() < Slots }

// Refs returns the occupied slots in slot order.
func (s *Storage) Refs() []ItemRef {
	out := make([]ItemRef, 0, Slots)
	for _, ref := range s.slots {
		if !ref.Empty() {
			out = append(out, ref)
		}
	}
	return out
}

// SlotPixel returns the world position of slot i of a structure at rect.
func SlotPixel(g *world.Grid, rect world.Rect, i int) world.Pixel {
	return g.GridToPixel(rect.Cell(i))
}

// Package items holds the registries of loose world resources (food, seeds, coins)
// and the ownership transitions units perform on them.
//
// Every item is in exactly one ownership state. Transitions go through the
// registry so a carried item can never also be stored, and a claim on anything
// that is not free always fails.
package items

import (
	"errors"
	"fmt"

	"github.com/talgya/hamlet/internal/world"
)

// ID is the stable identity of an item within its registry. Zero means "none".
type ID uint64

// Kind distinguishes the three resource registries.
type Kind uint8

const (
	Food Kind = iota
	Seed
	Coin
)

// Kinds lists every resource kind in registry order.
var Kinds = [...]Kind{Food, Seed, Coin}

func (k Kind) String() string {
	switch k {
	case Food:
		return "food"
	case Seed:
		return "seed"
	case Coin:
		return "coin"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Occupant maps the kind to its grid occupant list.
func (k Kind) Occupant() world.OccupantKind {
	switch k {
	case Seed:
		return world.OccupantSeed
	case Coin:
		return world.OccupantCoin
	default:
		return world.OccupantFood
	}
}

// State is an item's ownership state.
type State uint8

const (
	Free    State = iota // On the ground, claimable by anyone
	Carried              // Held by a unit
	Stored               // Held in a house slot or stall on behalf of a unit
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case Carried:
		return "carried"
	case Stored:
		return "stored"
	default:
		return "unknown"
	}
}

// Sentinel errors for ownership transitions.
var (
	ErrNotFound   = errors.New("item not found")
	ErrNotFree    = errors.New("item is not free")
	ErrNotCarried = errors.New("item is not carried by unit")
	ErrNotStored  = errors.New("item is not stored")
)

// Item is one resource in the world.
type Item struct {
	ID   ID          `json:"id"`
	Kind Kind        `json:"kind"`
	Pos  world.Pixel `json:"pos"`

	state  State
	holder world.UnitID // carrier when Carried, owner when Stored
}

// State returns the item's ownership state.
func (it *Item) State() State { return it.state }

// Free reports whether anyone may claim the item.
func (it *Item) Free() bool { return it.state == Free }

// CarriedBy returns the carrying unit, or 0 if the item is not carried.
func (it *Item) CarriedBy() world.UnitID {
	if it.state == Carried {
		return it.holder
	}
	return 0
}

// OwnedBy returns the storing unit, or 0 if the item is not stored.
func (it *Item) OwnedBy() world.UnitID {
	if it.state == Stored {
		return it.holder
	}
	return 0
}

// Holder returns the unit attached to the item in either non-free state.
func (it *Item) Holder() world.UnitID { return it.holder }

// Registry is a flat collection of items of one kind, keyed by stable ID.
// Iteration follows spawn order.
type Registry struct {
	kind   Kind
	items  map[ID]*Item
	order  []ID
	nextID ID
}

// NewRegistry creates an empty registry for kind.
func NewRegistry(kind Kind) *Registry {
	return &Registry{
		kind:   kind,
		items:  make(map[ID]*Item),
		nextID: 1,
	}
}

// Kind returns the kind of item held.
func (r *Registry) Kind() Kind { return r.kind }

// Len returns the number of live items.
func (r *Registry) Len() int { return len(r.items) }

// Spawn creates a free item at pos and returns it.
func (r *Registry) Spawn(pos world.Pixel) *Item {
	it := &Item{ID: r.nextID, Kind: r.kind, Pos: pos}
	r.nextID++
	r.items[it.ID] = it
	r.order = append(r.order, it.ID)
	return it
}

// Get returns the item with id, or nil.
func (r *Registry) Get(id ID) *Item {
	if id == 0 {
		return nil
	}
	return r.items[id]
}

// Each calls fn for every item in registry order until fn returns false.
func (r *Registry) Each(fn func(*Item) bool) {
	for _, id := range r.order {
		it, ok := r.items[id]
		if !ok {
			continue
		}
		if !fn(it) {
			return
		}
	}
}

// All returns the live items in registry order.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	r.Each(func(it *Item) bool {
		out = append(out, it)
		return true
	})
	return out
}

// Count returns the number of items in state s.
func (r *Registry) Count(s State) int {
	n := 0
	for _, it := range r.items {
		if it.state == s {
			n++
		}
	}
	return n
}

// Filter selects candidate items for Nearest.
type Filter func(*Item) bool

// FreeOnly accepts items anyone may claim.
func FreeOnly(it *Item) bool { return it.state == Free }

// FreeOrOwnedBy accepts free items and items stored on behalf of unit.
func FreeOrOwnedBy(unit world.UnitID) Filter {
	return func(it *Item) bool {
		return it.state == Free || (it.state == Stored && it.holder == unit)
	}
}

// Nearest returns the item accepted by filter with the lowest Manhattan grid
// distance from from. Ties go to the first match in registry order. A radius
// of zero or less means unlimited.
func (r *Registry) Nearest(g *world.Grid, from world.GridCoord, radius int, filter Filter) *Item {
	var best *Item
	bestDist := 0
	r.Each(func(it *Item) bool {
		if filter != nil && !filter(it) {
			return true
		}
		d := world.Manhattan(from, g.PixelToGrid(it.Pos))
		if radius > 0 && d > radius {
			return true
		}
		if best == nil || d < bestDist {
			best, bestDist = it, d
		}
		return true
	})
	return best
}

// Claim moves a free item into unit's hands at pos.
func (r *Registry) Claim(id ID, unit world.UnitID, pos world.Pixel) error {
	it := r.Get(id)
	if it == nil {
		return fmt.Errorf("claim %s %d: %w", r.kind, id, ErrNotFound)
	}
	if it.state != Free {
		return fmt.Errorf("claim %s %d: %w", r.kind, id, ErrNotFree)
	}
	it.state, it.holder, it.Pos = Carried, unit, pos
	return nil
}

// Store moves an item carried by unit into storage owned by owner at pos.
func (r *Registry) Store(id ID, unit, owner world.UnitID, pos world.Pixel) error {
	it := r.Get(id)
	if it == nil {
		return fmt.Errorf("store %s %d: %w", r.kind, id, ErrNotFound)
	}
	if it.state != Carried || it.holder != unit {
		return fmt.Errorf("store %s %d: %w", r.kind, id, ErrNotCarried)
	}
	it.state, it.holder, it.Pos = Stored, owner, pos
	return nil
}

// Withdraw moves a stored item into unit's hands at pos.
func (r *Registry) Withdraw(id ID, unit world.UnitID, pos world.Pixel) error {
	it := r.Get(id)
	if it == nil {
		return fmt.Errorf("withdraw %s %d: %w", r.kind, id, ErrNotFound)
	}
	if it.state != Stored {
		return fmt.Errorf("withdraw %s %d: %w", r.kind, id, ErrNotStored)
	}
	it.state, it.holder, it.Pos = Carried, unit, pos
	return nil
}

// Release returns an item to the free state at pos, whatever its state.
func (r *Registry) Release(id ID, pos world.Pixel) error {
	it := r.Get(id)
	if it == nil {
		return fmt.Errorf("release %s %d: %w", r.kind, id, ErrNotFound)
	}
	it.state, it.holder, it.Pos = Free, 0, pos
	return nil
}

// Consume removes an item from the world.
func (r *Registry) Consume(id ID) error {
	if r.Get(id) == nil {
		return fmt.Errorf("consume %s %d: %w", r.kind, id, ErrNotFound)
	}
	delete(r.items, id)
	// Compact lazily so order stays proportional to live items.
	if len(r.order) > 2*len(r.items)+16 {
		live := r.order[:0]
		for _, oid := range r.order {
			if _, ok := r.items[oid]; ok {
				live = append(live, oid)
			}
		}
		r.order = live
	}
	return nil
}

// MoveCarried snaps an item carried by unit to pos. It reports false if the
// item is gone or no longer carried by unit.
func (r *Registry) MoveCarried(id ID, unit world.UnitID, pos world.Pixel) bool {
	it := r.Get(id)
	if it == nil || it.state != Carried || it.holder != unit {
		return false
	}
	it.Pos = pos
	return true
}

// Snapshot is a read-only copy of an item for render consumers.
type Snapshot struct {
	ID        ID           `json:"id"`
	Kind      string       `json:"kind"`
	Pos       world.Pixel  `json:"pos"`
	State     string       `json:"state"`
	CarriedBy world.UnitID `json:"carried_by,omitempty"`
	OwnedBy   world.UnitID `json:"owned_by,omitempty"`
}

// Snapshot copies the item's public and ownership fields.
func (it *Item) Snapshot() Snapshot {
	return Snapshot{
		ID:        it.ID,
		Kind:      it.Kind.String(),
		Pos:       it.Pos,
		State:     it.state.String(),
		CarriedBy: it.CarriedBy(),
		OwnedBy:   it.OwnedBy(),
	}
}

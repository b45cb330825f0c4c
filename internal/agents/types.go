// Package agents provides the unit data model, the per-unit action queue,
// and the scheduler that advances one unit per tick.
package agents

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Unit is an autonomous agent living on the grid.
type Unit struct {
	ID   world.UnitID `json:"id"`
	Name string       `json:"name"`

	// Location
	Pos  world.Pixel       `json:"pos"`
	Path []world.GridCoord `json:"path,omitempty"` // Tiles still to traverse, next first

	// Condition
	Health   int  `json:"health"`
	Hunger   int  `json:"hunger"`   // 0 (starving) to max (fed)
	Morality int  `json:"morality"` // 0 to max
	Alive    bool `json:"alive"`

	// Carried resources, one slot per kind. Zero means empty.
	CarriedFood items.ID `json:"carried_food,omitempty"`
	CarriedSeed items.ID `json:"carried_seed,omitempty"`
	CarriedCoin items.ID `json:"carried_coin,omitempty"`

	// Crime bookkeeping
	StolenFromBy  world.UnitID `json:"stolen_from_by,omitempty"`  // Grievance against a thief
	JustStoleFrom world.UnitID `json:"just_stole_from,omitempty"` // Cleared by the engine after reporting

	Queue Queue `json:"-"`

	LastMove         uint64 `json:"-"`
	LastHungerUpdate uint64 `json:"-"`

	pathGoal world.GridCoord
	hasGoal  bool
	current  Task // top task last stepped; a change drops the path
}

// Carried returns the id held in the slot for kind.
func (u *Unit) Carried(kind items.Kind) items.ID {
	switch kind {
	case items.Food:
		return u.CarriedFood
	case items.Seed:
		return u.CarriedSeed
	case items.Coin:
		return u.CarriedCoin
	}
	return 0
}

// SetCarried fills or clears the slot for kind.
func (u *Unit) SetCarried(kind items.Kind, id items.ID) {
	switch kind {
	case items.Food:
		u.CarriedFood = id
	case items.Seed:
		u.CarriedSeed = id
	case items.Coin:
		u.CarriedCoin = id
	}
}

// Cell returns the tile the unit stands on.
func (u *Unit) Cell(g *world.Grid) world.GridCoord {
	return g.PixelToGrid(u.Pos)
}

func (u *Unit) clearPath() {
	u.Path = nil
	u.hasGoal = false
}

// UnitLookup resolves unit ids to live units.
type UnitLookup interface {
	Unit(id world.UnitID) *Unit
}

// Snapshot is a read-only copy of a unit for render consumers.
type Snapshot struct {
	ID          world.UnitID      `json:"id"`
	Name        string            `json:"name"`
	Pos         world.Pixel       `json:"pos"`
	Cell        world.GridCoord   `json:"cell"`
	Path        []world.GridCoord `json:"path,omitempty"`
	Health      int               `json:"health"`
	Hunger      int               `json:"hunger"`
	Morality    int               `json:"morality"`
	Alive       bool              `json:"alive"`
	CarriedFood items.ID          `json:"carried_food,omitempty"`
	CarriedSeed items.ID          `json:"carried_seed,omitempty"`
	CarriedCoin items.ID          `json:"carried_coin,omitempty"`
	Action      string            `json:"action,omitempty"`
	Queued      int               `json:"queued"`
}

// Snapshot copies the unit's render-visible state.
func (u *Unit) Snapshot(g *world.Grid) Snapshot {
	s := Snapshot{
		ID:          u.ID,
		Name:        u.Name,
		Pos:         u.Pos,
		Cell:        u.Cell(g),
		Health:      u.Health,
		Hunger:      u.Hunger,
		Morality:    u.Morality,
		Alive:       u.Alive,
		CarriedFood: u.CarriedFood,
		CarriedSeed: u.CarriedSeed,
		CarriedCoin: u.CarriedCoin,
		Queued:      u.Queue.Len(),
	}
	if len(u.Path) > 0 {
		s.Path = append([]world.GridCoord(nil), u.Path...)
	}
	if top, ok := u.Queue.Peek(); ok {
		s.Action = top.Task.Kind().String()
	}
	return s
}

package engine

import (
	"github.com/talgya/hamlet/internal/agents"
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Snapshot is a consistent, read-only copy of the world for renderers.
type Snapshot struct {
	Tick      uint64            `json:"tick"`
	Units     []agents.Snapshot `json:"units"`
	Items     []items.Snapshot  `json:"items"`
	Buildings BuildingsSnapshot `json:"buildings"`
	Stats     SimStats          `json:"stats"`
}

// BuildingsSnapshot lists every structure with its slot contents.
type BuildingsSnapshot struct {
	Houses  []HouseSnapshot  `json:"houses"`
	Farms   []FarmSnapshot   `json:"farms"`
	Markets []MarketSnapshot `json:"markets"`
}

type HouseSnapshot struct {
	Owner   world.UnitID        `json:"owner"`
	Origin  world.GridCoord     `json:"origin"`
	Storage []buildings.ItemRef `json:"storage"`
}

type FarmSnapshot struct {
	Owner  world.UnitID     `json:"owner"`
	Origin world.GridCoord  `json:"origin"`
	Plots  []buildings.Plot `json:"plots"`
}

type MarketSnapshot struct {
	ID     uint64            `json:"id"`
	Origin world.GridCoord   `json:"origin"`
	Stalls []buildings.Stall `json:"stalls"`
}

// CellSnapshot lists what stands on one tile as of the last tick.
type CellSnapshot struct {
	Coord    world.GridCoord `json:"coord"`
	Walkable bool            `json:"walkable"`
	Units    []world.UnitID  `json:"units"`
	Food     []items.ID      `json:"food"`
	Seeds    []items.ID      `json:"seeds"`
	Coins    []items.ID      `json:"coins"`
}

// GridSnapshot describes the static terrain in row-major order.
type GridSnapshot struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	TileSize int    `json:"tile_size"`
	Walkable []bool `json:"walkable"`
}

// Snapshot copies the current world state.
func (s *Simulation) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Tick:      s.LastTick,
		Units:     s.unitSnapshots(),
		Items:     s.itemSnapshots(),
		Buildings: s.buildingSnapshots(),
		Stats:     s.Stats,
	}
}

// UnitSnapshots copies every living unit.
func (s *Simulation) UnitSnapshots() []agents.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.unitSnapshots()
}

// UnitSnapshot copies one unit.
func (s *Simulation) UnitSnapshot(id world.UnitID) (agents.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u := s.UnitIndex[id]
	if u == nil {
		return agents.Snapshot{}, false
	}
	return u.Snapshot(s.Grid), true
}

// ItemSnapshots copies every item of every kind.
func (s *Simulation) ItemSnapshots() []items.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemSnapshots()
}

// BuildingSnapshots copies every structure.
func (s *Simulation) BuildingSnapshots() BuildingsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buildingSnapshots()
}

// StatsSnapshot returns the statistics as of the last tick.
func (s *Simulation) StatsSnapshot() SimStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.Stats
}

// GridSnapshot copies the walkability map.
func (s *Simulation) GridSnapshot() GridSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g := s.Grid
	out := GridSnapshot{
		Width:    g.Width(),
		Height:   g.Height(),
		TileSize: g.TileSize(),
		Walkable: make([]bool, 0, g.Width()*g.Height()),
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			out.Walkable = append(out.Walkable, g.IsCellWalkable(x, y))
		}
	}
	return out
}

func (s *Simulation) unitSnapshots() []agents.Snapshot {
	out := make([]agents.Snapshot, 0, len(s.Units))
	for _, u := range s.Units {
		out = append(out, u.Snapshot(s.Grid))
	}
	return out
}

func (s *Simulation) itemSnapshots() []items.Snapshot {
	out := make([]items.Snapshot, 0, s.Food.Len()+s.Seeds.Len()+s.Coins.Len())
	for _, reg := range []*items.Registry{s.Food, s.Seeds, s.Coins} {
		reg.Each(func(it *items.Item) bool {
			out = append(out, it.Snapshot())
			return true
		})
	}
	return out
}

func (s *Simulation) buildingSnapshots() BuildingsSnapshot {
	var out BuildingsSnapshot
	for _, h := range s.Buildings.Houses() {
		out.Houses = append(out.Houses, HouseSnapshot{Owner: h.Owner, Origin: h.Rect.Origin, Storage: h.Storage.Refs()})
	}
	for _, f := range s.Buildings.Farms() {
		out.Farms = append(out.Farms, FarmSnapshot{Owner: f.Owner, Origin: f.Rect.Origin, Plots: f.Plots()})
	}
	for _, m := range s.Buildings.Markets() {
		out.Markets = append(out.Markets, MarketSnapshot{ID: m.ID, Origin: m.Rect.Origin, Stalls: m.Stalls()})
	}
	return out
}

// CellSnapshot copies the occupant lists of tile c. It reports false when c
// is off the grid.
func (s *Simulation) CellSnapshot(c world.GridCoord) (CellSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cell := s.Grid.Cell(c)
	if cell == nil {
		return CellSnapshot{}, false
	}
	out := CellSnapshot{Coord: c, Walkable: cell.Walkable}
	for _, id := range cell.Occupants(world.OccupantUnit) {
		out.Units = append(out.Units, world.UnitID(id))
	}
	out.Food = itemIDs(cell.Occupants(world.OccupantFood))
	out.Seeds = itemIDs(cell.Occupants(world.OccupantSeed))
	out.Coins = itemIDs(cell.Occupants(world.OccupantCoin))
	return out, true
}

func itemIDs(raw []uint64) []items.ID {
	if len(raw) == 0 {
		return nil
	}
	out := make([]items.ID, len(raw))
	for i, id := range raw {
		out[i] = items.ID(id)
	}
	return out
}

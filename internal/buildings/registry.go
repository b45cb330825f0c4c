package buildings

import (
	"github.com/talgya/hamlet/internal/world"
)

// Kind distinguishes structure types.
type Kind uint8

const (
	KindHouse Kind = iota
	KindFarm
	KindMarket
)

func (k Kind) String() string {
	switch k {
	case KindHouse:
		return "house"
	case KindFarm:
		return "farm"
	case KindMarket:
		return "market"
	default:
		return "unknown"
	}
}

// House is a unit's home: a footprint with storage.
type House struct {
	Owner   world.UnitID `json:"owner"`
	Rect    world.Rect   `json:"rect"`
	Storage Storage      `json:"-"`
}

// Registry holds every structure in the world. Each unit owns at most one
// house and one farm, and no two structures overlap.
type Registry struct {
	houses     map[world.UnitID]*House
	houseOrder []world.UnitID
	farms      map[world.UnitID]*Farm
	farmOrder  []world.UnitID
	markets    []*Market
}

// NewRegistry creates an empty structure registry.
func NewRegistry() *Registry {
	return &Registry{
		houses: make(map[world.UnitID]*House),
		farms:  make(map[world.UnitID]*Farm),
	}
}

// Occupied reports whether rect overlaps any existing structure.
func (r *Registry) Occupied(rect world.Rect) bool {
	for _, id := range r.houseOrder {
		if h := r.houses[id]; h != nil && h.Rect.Overlaps(rect) {
			return true
		}
	}
	for _, id := range r.farmOrder {
		if f := r.farms[id]; f != nil && f.Rect.Overlaps(rect) {
			return true
		}
	}
	for _, m := range r.markets {
		if m.Rect.Overlaps(rect) {
			return true
		}
	}
	return false
}

// StructureAt returns the kind of structure covering c.
func (r *Registry) StructureAt(c world.GridCoord) (Kind, bool) {
	for _, id := range r.houseOrder {
		if h := r.houses[id]; h != nil && h.Rect.Contains(c) {
			return KindHouse, true
		}
	}
	for _, id := range r.farmOrder {
		if f := r.farms[id]; f != nil && f.Rect.Contains(c) {
			return KindFarm, true
		}
	}
	for _, m := range r.markets {
		if m.Rect.Contains(c) {
			return KindMarket, true
		}
	}
	return 0, false
}

// AddHouse registers owner's house at origin.
// Fails if owner already has a house or the footprint overlaps a structure.
func (r *Registry) AddHouse(owner world.UnitID, origin world.GridCoord) (*House, bool) {
	rect := world.Rect{Origin: origin}
	if owner == 0 || r.houses[owner] != nil || r.Occupied(rect) {
		return nil, false
	}
	h := &House{Owner: owner, Rect: rect}
	r.houses[owner] = h
	r.houseOrder = append(r.houseOrder, owner)
	return h, true
}

// House returns owner's house, or nil.
func (r *Registry) House(owner world.UnitID) *House { return r.houses[owner] }

// Houses returns every house in registration order.
func (r *Registry) Houses() []*House {
	out := make([]*House, 0, len(r.houses))
	for _, id := range r.houseOrder {
		if h := r.houses[id]; h != nil {
			out = append(out, h)
		}
	}
	return out
}

// AddFarm registers owner's farm at origin.
// Fails if owner already has a farm or the footprint overlaps a structure.
func (r *Registry) AddFarm(owner world.UnitID, origin world.GridCoord) (*Farm, bool) {
	rect := world.Rect{Origin: origin}
	if owner == 0 || r.farms[owner] != nil || r.Occupied(rect) {
		return nil, false
	}
	f := &Farm{Owner: owner, Rect: rect}
	r.farms[owner] = f
	r.farmOrder = append(r.farmOrder, owner)
	return f, true
}

// Farm returns owner's farm, or nil.
func (r *Registry) Farm(owner world.UnitID) *Farm { return r.farms[owner] }

// Farms returns every farm in registration order.
func (r *Registry) Farms() []*Farm {
	out := make([]*Farm, 0, len(r.farms))
	for _, id := range r.farmOrder {
		if f := r.farms[id]; f != nil {
			out = append(out, f)
		}
	}
	return out
}

// AddMarket registers a market at origin. Fails on overlap.
func (r *Registry) AddMarket(origin world.GridCoord) (*Market, bool) {
	rect := world.Rect{Origin: origin}
	if r.Occupied(rect) {
		return nil, false
	}
	m := &Market{ID: uint64(len(r.markets) + 1), Rect: rect}
	r.markets = append(r.markets, m)
	return m, true
}

// Market returns the market with id, or nil.
func (r *Registry) Market(id uint64) *Market {
	if id == 0 || id > uint64(len(r.markets)) {
		return nil
	}
	return r.markets[id-1]
}

// Markets returns every market in registration order.
func (r *Registry) Markets() []*Market {
	out := make([]*Market, len(r.markets))
	copy(out, r.markets)
	return out
}

// NearestMarket returns the market whose origin is closest to from.
// Ties go to the earlier market.
func (r *Registry) NearestMarket(from world.GridCoord) *Market {
	var best *Market
	bestDist := 0
	for _, m := range r.markets {
		d := world.Manhattan(from, m.Rect.Origin)
		if best == nil || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// MarketWithSeller returns the market and stall index run by seller.
func (r *Registry) MarketWithSeller(seller world.UnitID) (*Market, int, bool) {
	for _, m := range r.markets {
		if i, ok := m.StallOf(seller); ok {
			return m, i, true
		}
	}
	return nil, 0, false
}

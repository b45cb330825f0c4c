// Structure placement: finds a free square footprint near a preferred tile.
package world

// Footprint is the edge length in tiles of every structure.
const Footprint = 3

// Rect is a Footprint×Footprint area anchored at its top-left tile.
type Rect struct {
	Origin GridCoord `json:"origin"`
}

// Contains reports whether c lies inside the rect.
func (r Rect) Contains(c GridCoord) bool {
	return c.X >= r.Origin.X && c.X < r.Origin.X+Footprint &&
		c.Y >= r.Origin.Y && c.Y < r.Origin.Y+Footprint
}

// Overlaps reports whether two rects share any tile.
func (r Rect) Overlaps(o Rect) bool {
	return r.Origin.X < o.Origin.X+Footprint && o.Origin.X < r.Origin.X+Footprint &&
		r.Origin.Y < o.Origin.Y+Footprint && o.Origin.Y < r.Origin.Y+Footprint
}

// Cell returns the tile at slot offset i (row-major, 0..Footprint²-1).
func (r Rect) Cell(i int) GridCoord {
	return r.Origin.Add(i%Footprint, i/Footprint)
}

// Fits reports whether a footprint anchored at origin lies fully on the grid
// and every tile under it is walkable.
func (g *Grid) Fits(origin GridCoord) bool {
	for dy := 0; dy < Footprint; dy++ {
		for dx := 0; dx < Footprint; dx++ {
			if !g.Walkable(origin.Add(dx, dy)) {
				return false
			}
		}
	}
	return true
}

// FindSite searches rings of increasing Manhattan distance around preferred
// (up to radius) for an origin whose footprint fits the grid and is not
// rejected by taken. Within a ring, candidates are scanned top to bottom,
// left to right, so the result is deterministic.
func FindSite(g *Grid, preferred GridCoord, radius int, taken func(Rect) bool) (GridCoord, bool) {
	for d := 0; d <= radius; d++ {
		for dy := -d; dy <= d; dy++ {
			rem := d - abs(dy)
			dxs := [2]int{-rem, rem}
			n := 2
			if rem == 0 {
				n = 1
			}
			for _, dx := range dxs[:n] {
				c := preferred.Add(dx, dy)
				if !g.Fits(c) {
					continue
				}
				if taken != nil && taken(Rect{Origin: c}) {
					continue
				}
				return c, true
			}
		}
	}
	return GridCoord{}, false
}

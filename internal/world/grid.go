// Package world provides the tile grid, terrain, and spatial data structures.
// World positions are continuous pixel coordinates; grid coordinates address
// fixed-size square tiles and are derived from pixels by floor division.
package world

import "fmt"

// DefaultTileSize is the edge length of one tile in world pixels.
const DefaultTileSize = 40

// UnitID is the stable identity of a unit. Zero means "no unit".
type UnitID uint64

// GridCoord addresses a single tile on the grid.
type GridCoord struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns the coordinate offset by (dx, dy).
func (c GridCoord) Add(dx, dy int) GridCoord {
	return GridCoord{X: c.X + dx, Y: c.Y + dy}
}

// Pixel is a position in world space.
type Pixel struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Manhattan returns the 4-directional distance between two grid coordinates.
func Manhattan(a, b GridCoord) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Terrain types for tiles.
type Terrain uint8

const (
	TerrainGrass Terrain = iota // Open ground
	TerrainRock                 // Impassable outcrop
	TerrainWater                // Impassable pond
)

// OccupantKind selects one of the per-cell occupant lists.
type OccupantKind uint8

const (
	OccupantUnit OccupantKind = iota
	OccupantFood
	OccupantSeed
	OccupantCoin
	numOccupantKinds
)

// Cell is one tile of the grid.
type Cell struct {
	Coord    GridCoord `json:"coord"`
	Terrain  Terrain   `json:"terrain"`
	Walkable bool      `json:"walkable"`

	// Occupant IDs by kind, rebuilt by the simulation each tick for render consumers.
	occupants [numOccupantKinds][]uint64
}

// Occupants returns the IDs of the given kind currently in the cell.
func (c *Cell) Occupants(kind OccupantKind) []uint64 {
	if kind >= numOccupantKinds {
		return nil
	}
	return c.occupants[kind]
}

// Grid is a fixed-size 2D array of cells covering the world.
// It is created once and never resized.
type Grid struct {
	width    int // in cells
	height   int // in cells
	tileSize int // pixels per cell edge
	cells    []Cell
}

// NewGrid creates a grid covering widthPx × heightPx world pixels.
// Partial tiles at the right and bottom edges are rounded up to whole cells.
// Every cell starts walkable grass.
func NewGrid(widthPx, heightPx, tileSize int) *Grid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	w := (widthPx + tileSize - 1) / tileSize
	h := (heightPx + tileSize - 1) / tileSize
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	g := &Grid{
		width:    w,
		height:   h,
		tileSize: tileSize,
		cells:    make([]Cell, w*h),
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			g.cells[y*w+x] = Cell{Coord: GridCoord{X: x, Y: y}, Walkable: true}
		}
	}
	return g
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// TileSize returns the tile edge length in pixels.
func (g *Grid) TileSize() int { return g.tileSize }

// WidthPixels returns the grid width in world pixels.
func (g *Grid) WidthPixels() int { return g.width * g.tileSize }

// HeightPixels returns the grid height in world pixels.
func (g *Grid) HeightPixels() int { return g.height * g.tileSize }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c GridCoord) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < g.width && c.Y < g.height
}

// PixelToGrid converts a world position to the tile containing it.
func (g *Grid) PixelToGrid(p Pixel) GridCoord {
	return GridCoord{X: floorDiv(p.X, g.tileSize), Y: floorDiv(p.Y, g.tileSize)}
}

// GridToPixel converts a tile to the world position of its top-left corner.
func (g *Grid) GridToPixel(c GridCoord) Pixel {
	return Pixel{X: c.X * g.tileSize, Y: c.Y * g.tileSize}
}

// IsCellWalkable reports whether (x, y) can be entered.
// Out-of-bounds coordinates are never walkable.
func (g *Grid) IsCellWalkable(x, y int) bool {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return false
	}
	return g.cells[y*g.width+x].Walkable
}

// Walkable is IsCellWalkable for a GridCoord.
func (g *Grid) Walkable(c GridCoord) bool {
	return g.IsCellWalkable(c.X, c.Y)
}

// Cell returns the cell at c, or nil if out of bounds.
func (g *Grid) Cell(c GridCoord) *Cell {
	if !g.InBounds(c) {
		return nil
	}
	return &g.cells[c.Y*g.width+c.X]
}

// SetTerrain sets a cell's terrain and derives its walkability.
// Returns false if c is out of bounds.
func (g *Grid) SetTerrain(c GridCoord, t Terrain) bool {
	cell := g.Cell(c)
	if cell == nil {
		return false
	}
	cell.Terrain = t
	cell.Walkable = t == TerrainGrass
	return true
}

// SetWalkable places or removes an obstacle without changing terrain.
func (g *Grid) SetWalkable(c GridCoord, walkable bool) bool {
	cell := g.Cell(c)
	if cell == nil {
		return false
	}
	cell.Walkable = walkable
	return true
}

// AddOccupant records id in the occupant list of the cell at c.
func (g *Grid) AddOccupant(c GridCoord, kind OccupantKind, id uint64) {
	cell := g.Cell(c)
	if cell == nil || kind >= numOccupantKinds {
		return
	}
	cell.occupants[kind] = append(cell.occupants[kind], id)
}

// ClearOccupants empties every occupant list, keeping the backing arrays.
func (g *Grid) ClearOccupants() {
	for i := range g.cells {
		for k := range g.cells[i].occupants {
			g.cells[i].occupants[k] = g.cells[i].occupants[k][:0]
		}
	}
}

// WalkableCount returns the number of walkable cells.
func (g *Grid) WalkableCount() int {
	n := 0
	for i := range g.cells {
		if g.cells[i].Walkable {
			n++
		}
	}
	return n
}

// String returns a summary of the grid.
func (g *Grid) String() string {
	return fmt.Sprintf("Grid(%dx%d cells, tile=%dpx)", g.width, g.height, g.tileSize)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGridRoundsUpPartialTiles(t *testing.T) {
	g := NewGrid(401, 80, 40)
	assert.Equal(t, 11, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.Equal(t, 440, g.WidthPixels())
	assert.True(t, g.IsCellWalkable(10, 1))
}

func TestPixelGridConversions(t *testing.T) {
	g := NewGrid(400, 400, 40)

	tests := []struct {
		px   Pixel
		want GridCoord
	}{
		{Pixel{0, 0}, GridCoord{0, 0}},
		{Pixel{39, 39}, GridCoord{0, 0}},
		{Pixel{40, 79}, GridCoord{1, 1}},
		{Pixel{399, 0}, GridCoord{9, 0}},
		{Pixel{-1, -40}, GridCoord{-1, -1}},
		{Pixel{-41, 0}, GridCoord{-2, 0}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, g.PixelToGrid(tt.px), "pixel %+v", tt.px)
	}

	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := GridCoord{X: x, Y: y}
			require.Equal(t, c, g.PixelToGrid(g.GridToPixel(c)))
		}
	}
	assert.Equal(t, Pixel{X: 200, Y: 120}, g.GridToPixel(GridCoord{X: 5, Y: 3}))
}

func TestWalkabilityOutOfBounds(t *testing.T) {
	g := NewGrid(200, 200, 40)
	assert.False(t, g.IsCellWalkable(-1, 0))
	assert.False(t, g.IsCellWalkable(0, -1))
	assert.False(t, g.IsCellWalkable(5, 0))
	assert.False(t, g.IsCellWalkable(0, 5))
	assert.Nil(t, g.Cell(GridCoord{X: 5, Y: 5}))

	require.True(t, g.SetTerrain(GridCoord{X: 2, Y: 2}, TerrainRock))
	assert.False(t, g.IsCellWalkable(2, 2))
	require.True(t, g.SetWalkable(GridCoord{X: 2, Y: 2}, true))
	assert.True(t, g.IsCellWalkable(2, 2))
	assert.False(t, g.SetWalkable(GridCoord{X: 9, Y: 9}, false))
}

func TestOccupants(t *testing.T) {
	g := NewGrid(200, 200, 40)
	c := GridCoord{X: 1, Y: 1}
	g.AddOccupant(c, OccupantUnit, 7)
	g.AddOccupant(c, OccupantFood, 3)
	g.AddOccupant(c, OccupantFood, 4)
	g.AddOccupant(GridCoord{X: -1, Y: 0}, OccupantFood, 9)

	assert.Equal(t, []uint64{7}, g.Cell(c).Occupants(OccupantUnit))
	assert.Equal(t, []uint64{3, 4}, g.Cell(c).Occupants(OccupantFood))

	g.ClearOccupants()
	assert.Empty(t, g.Cell(c).Occupants(OccupantFood))
}

func TestManhattan(t *testing.T) {
	assert.Equal(t, 0, Manhattan(GridCoord{1, 1}, GridCoord{1, 1}))
	assert.Equal(t, 7, Manhattan(GridCoord{0, 0}, GridCoord{3, -4}))
}

func TestFindSite(t *testing.T) {
	g := NewGrid(400, 400, 40)

	site, ok := FindSite(g, GridCoord{X: 2, Y: 2}, 4, nil)
	require.True(t, ok)
	assert.Equal(t, GridCoord{X: 2, Y: 2}, site)

	// Block the preferred footprint; the nearest fitting origin wins.
	g.SetTerrain(GridCoord{X: 3, Y: 3}, TerrainWater)
	site, ok = FindSite(g, GridCoord{X: 2, Y: 2}, 4, nil)
	require.True(t, ok)
	assert.False(t, Rect{Origin: site}.Contains(GridCoord{X: 3, Y: 3}))
	assert.True(t, g.Fits(site))

	// Reject everything.
	_, ok = FindSite(g, GridCoord{X: 2, Y: 2}, 4, func(Rect) bool { return true })
	assert.False(t, ok)

	// Near the edge the footprint must stay in bounds.
	site, ok = FindSite(NewGrid(400, 400, 40), GridCoord{X: 9, Y: 9}, 4, nil)
	require.True(t, ok)
	assert.True(t, site.X <= 7 && site.Y <= 7)
}

func TestRectGeometry(t *testing.T) {
	r := Rect{Origin: GridCoord{X: 5, Y: 5}}
	assert.True(t, r.Contains(GridCoord{X: 7, Y: 7}))
	assert.False(t, r.Contains(GridCoord{X: 8, Y: 5}))
	assert.Equal(t, GridCoord{X: 5, Y: 5}, r.Cell(0))
	assert.Equal(t, GridCoord{X: 6, Y: 5}, r.Cell(1))
	assert.Equal(t, GridCoord{X: 7, Y: 7}, r.Cell(8))
	assert.True(t, r.Overlaps(Rect{Origin: GridCoord{X: 7, Y: 3}}))
	assert.False(t, r.Overlaps(Rect{Origin: GridCoord{X: 8, Y: 5}}))
}

func TestGenerateDeterministicWithClearEdge(t *testing.T) {
	cfg := SmallTestConfig()
	a := Generate(cfg)
	b := Generate(cfg)

	require.Equal(t, a.Width(), b.Width())
	for y := 0; y < a.Height(); y++ {
		for x := 0; x < a.Width(); x++ {
			require.Equal(t, a.IsCellWalkable(x, y), b.IsCellWalkable(x, y))
		}
	}
	for x := 0; x < a.Width(); x++ {
		assert.True(t, a.IsCellWalkable(x, 0))
		assert.True(t, a.IsCellWalkable(x, a.Height()-1))
	}

	counts := TerrainCounts(a)
	total := 0
	for _, n := range counts {
		total += n
	}
	assert.Equal(t, a.Width()*a.Height(), total)
	assert.Equal(t, counts[TerrainGrass], a.WalkableCount())
}

// World generation using layered simplex noise.
// Low elevation becomes water, high elevation becomes rock; both block movement.
package world

import (
	"math/rand"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds world generation parameters.
type GenConfig struct {
	WidthPx    int     // World width in pixels
	HeightPx   int     // World height in pixels
	TileSize   int     // Pixels per tile
	Seed       int64   // Random seed (0 = random)
	WaterLevel float64 // Elevation below which a tile is water (0.0–1.0)
	RockLevel  float64 // Elevation above which a tile is rock (0.0–1.0)
	ClearEdge  int     // Width in tiles of the always-open border ring
}

// DefaultGenConfig returns a reasonable starting configuration.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		WidthPx:    1920,
		HeightPx:   1000,
		TileSize:   DefaultTileSize,
		Seed:       0,
		WaterLevel: 0.22,
		RockLevel:  0.80,
		ClearEdge:  1,
	}
}

// SmallTestConfig returns a tiny world for rapid iteration.
func SmallTestConfig() GenConfig {
	return GenConfig{
		WidthPx:    400,
		HeightPx:   400,
		TileSize:   DefaultTileSize,
		Seed:       42,
		WaterLevel: 0.20,
		RockLevel:  0.85,
		ClearEdge:  1,
	}
}

// Generate creates a grid and carves obstacles into it from noise.
func Generate(cfg GenConfig) *Grid {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}

	elevNoise := opensimplex.NewNormalized(seed)
	g := NewGrid(cfg.WidthPx, cfg.HeightPx, cfg.TileSize)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			c := GridCoord{X: x, Y: y}
			if onEdge(g, c, cfg.ClearEdge) {
				continue
			}
			elev := octaveNoise(elevNoise, float64(x), float64(y), 4, 0.09, 0.5)
			g.SetTerrain(c, deriveTerrain(elev, cfg))
		}
	}
	return g
}

func deriveTerrain(elev float64, cfg GenConfig) Terrain {
	if elev < cfg.WaterLevel {
		return TerrainWater
	}
	if elev > cfg.RockLevel {
		return TerrainRock
	}
	return TerrainGrass
}

func onEdge(g *Grid, c GridCoord, ring int) bool {
	return c.X < ring || c.Y < ring || c.X >= g.width-ring || c.Y >= g.height-ring
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}

// TerrainCounts returns a summary of terrain type distribution.
func TerrainCounts(g *Grid) map[Terrain]int {
	counts := make(map[Terrain]int)
	for i := range g.cells {
		counts[g.cells[i].Terrain]++
	}
	return counts
}

// TerrainName returns a human-readable name for a terrain type.
func TerrainName(t Terrain) string {
	switch t {
	case TerrainGrass:
		return "Grass"
	case TerrainRock:
		return "Rock"
	case TerrainWater:
		return "Water"
	default:
		return "Unknown"
	}
}

// Rand is the slice of math/rand used by placement helpers.
type Rand interface {
	Intn(n int) int
}

// RandomWalkable picks a uniformly random walkable cell, trying at most
// attempts times. Returns false if none was found.
func RandomWalkable(g *Grid, rng Rand, attempts int) (GridCoord, bool) {
	for i := 0; i < attempts; i++ {
		c := GridCoord{X: rng.Intn(g.width), Y: rng.Intn(g.height)}
		if g.Walkable(c) {
			return c, true
		}
	}
	return GridCoord{}, false
}

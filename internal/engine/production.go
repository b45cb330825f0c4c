// Resource production: the land regrows food and seeds up to a cap.
package engine

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// spawnResources drops one free food and one free seed per configured
// interval while their free counts are under the caps.
func (s *Simulation) spawnResources(now uint64) {
	sp := s.Tuning.Spawn
	s.lastFoodSpawn = s.regrow(s.Food, now, s.lastFoodSpawn, sp.FoodEveryMs, sp.MaxFreeFood)
	s.lastSeedSpawn = s.regrow(s.Seeds, now, s.lastSeedSpawn, sp.SeedsEveryMs, sp.MaxFreeSeeds)
}

func (s *Simulation) regrow(reg *items.Registry, now, last, every uint64, limit int) uint64 {
	if every == 0 || now < last || now-last < every {
		return last
	}
	if reg.Count(items.Free) >= limit {
		return now
	}
	c, ok := world.RandomWalkable(s.Grid, s.rng, 50)
	if !ok {
		return now
	}
	reg.Spawn(s.Grid.GridToPixel(c))
	return now
}

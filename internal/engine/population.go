// Population upkeep: deaths free whatever the dead held.
package engine

import (
	"github.com/talgya/hamlet/internal/agents"
)

// processDeaths removes dead units from the world. Carried items fall where
// the unit stood and any stall it ran is closed with its goods released.
// Houses and farms stay standing.
func (s *Simulation) processDeaths() {
	alive := s.Units[:0]
	for _, u := range s.Units {
		if u.Alive {
			alive = append(alive, u)
			continue
		}
		agents.Drop(u, &s.env)
		if m, i, ok := s.Buildings.MarketWithSeller(u.ID); ok {
			s.releaseStall(m.Close(i))
		}
		delete(s.UnitIndex, u.ID)
		s.Stats.Deaths++
		s.emitf("death", "%s has died", u.Name)
	}
	for i := len(alive); i < len(s.Units); i++ {
		s.Units[i] = nil
	}
	s.Units = alive
}

// Market upkeep: stalls left unattended too long are closed.
package engine

import (
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/items"
)

// expireStalls closes every stall whose seller has been away longer than the
// stall timeout. The listed item and any waiting payment become free where
// they lie.
func (s *Simulation) expireStalls(now uint64) {
	for _, m := range s.Buildings.Markets() {
		for _, st := range m.ExpireStalls(now, s.Tuning.Market.StallTimeoutMs) {
			s.log.Debug("stall expired", "market", m.ID, "seller", st.Seller, "tick", now)
			s.releaseStall(st)
		}
	}
}

// releaseStall frees the goods of a closed stall.
func (s *Simulation) releaseStall(st buildings.Stall) {
	if st.Item != 0 {
		s.releaseInPlace(s.registry(st.ItemKind), st.Item)
	}
	if st.Payment != 0 {
		s.releaseInPlace(s.Coins, st.Payment)
	}
}

func (s *Simulation) releaseInPlace(reg *items.Registry, id items.ID) {
	it := reg.Get(id)
	if it == nil {
		return
	}
	if err := reg.Release(id, it.Pos); err != nil {
		s.log.Debug("release failed", "item", id, "error", err)
	}
}

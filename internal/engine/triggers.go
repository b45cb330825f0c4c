// Goal selection: decides which actions to enqueue for a unit before its
// scheduler step. The scheduler itself only ever falls back to wandering.
package engine

import (
	"github.com/talgya/hamlet/internal/agents"
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// trigger inspects u and the world and enqueues whatever u should be doing.
// Kinds already queued are not enqueued twice.
func (s *Simulation) trigger(u *agents.Unit) {
	s.triggerFight(u)
	if agents.Hungry(u, &s.Tuning.Needs) {
		s.triggerFood(u)
	}

	house := s.Buildings.House(u.ID)
	farm := s.Buildings.Farm(u.ID)

	if house == nil {
		s.enqueue(u, &agents.Build{Structure: buildings.KindHouse})
	} else if farm == nil && s.seedAvailable(u, house) {
		s.enqueue(u, &agents.Build{Structure: buildings.KindFarm})
	}

	if m, i, ok := s.Buildings.MarketWithSeller(u.ID); ok {
		// Keep attending an existing stall.
		s.enqueue(u, &agents.Sell{Item: m.Stall(i).ItemKind})
	} else if house != nil && house.Storage.Count(items.Food) >= s.Tuning.Market.SellSurplus && len(s.Buildings.Markets()) > 0 {
		s.enqueue(u, &agents.Sell{Item: items.Food})
	}

	if farm != nil {
		if _, ok := farm.RipePlot(s.LastTick, s.Tuning.Farming.GrowthMs); ok {
			s.enqueue(u, &agents.Harvest{})
		} else if farm.HasSpace() && s.seedAvailable(u, house) {
			s.enqueue(u, &agents.Plant{})
		}
	}

	if u.Queue.Len() > 0 {
		return
	}
	// Idle: bank anything in hand, then gather, then wander.
	for _, kind := range items.Kinds {
		if u.Carried(kind) != 0 {
			s.enqueue(u, &agents.BringToHouse{Item: kind})
			return
		}
	}
	if house != nil && house.Storage.HasSpace() {
		for _, kind := range [...]items.Kind{items.Coin, items.Food} {
			if s.registry(kind).Count(items.Free) > 0 {
				s.enqueue(u, &agents.BringToHouse{Item: kind})
				return
			}
		}
	}
	s.enqueue(u, &agents.Wander{})
}

// triggerFight sends a victim after its thief once the thief comes near.
func (s *Simulation) triggerFight(u *agents.Unit) {
	if u.StolenFromBy == 0 {
		return
	}
	thief := s.UnitIndex[u.StolenFromBy]
	if thief == nil || !thief.Alive {
		u.StolenFromBy = 0
		return
	}
	if world.Manhattan(u.Cell(s.Grid), thief.Cell(s.Grid)) <= s.Tuning.Search.FightRadius {
		s.enqueue(u, &agents.Fight{Target: thief.ID})
	}
}

// triggerFood picks the first workable way for a hungry unit to eat.
func (s *Simulation) triggerFood(u *agents.Unit) {
	for _, k := range [...]agents.Kind{agents.KindEat, agents.KindEatFromStorage, agents.KindSteal, agents.KindBuy} {
		if u.Queue.Has(k) {
			return
		}
	}
	house := s.Buildings.House(u.ID)

	switch {
	case u.CarriedFood != 0:
		s.enqueue(u, &agents.Eat{})
	case house != nil && house.Storage.Count(items.Food) > 0:
		s.enqueue(u, &agents.EatFromStorage{})
	case s.Food.Count(items.Free) > 0:
		s.enqueue(u, &agents.Eat{})
	default:
		if u.Morality <= s.Tuning.Needs.ThiefMorality {
			if victim := s.stealTarget(u, items.Food); victim != 0 {
				s.enqueue(u, &agents.Steal{Victim: victim, Item: items.Food})
				return
			}
		}
		if s.coinAvailable(u, house) && agents.HasListing(&s.env, u, items.Food) {
			s.enqueue(u, &agents.Buy{Item: items.Food})
		}
	}
}

// stealTarget returns the owner of the nearest other house holding kind.
func (s *Simulation) stealTarget(u *agents.Unit, kind items.Kind) world.UnitID {
	here := u.Cell(s.Grid)
	var best world.UnitID
	bestDist := 0
	for _, h := range s.Buildings.Houses() {
		if h.Owner == u.ID || h.Storage.Count(kind) == 0 {
			continue
		}
		d := world.Manhattan(here, h.Rect.Origin)
		if best == 0 || d < bestDist {
			best, bestDist = h.Owner, d
		}
	}
	return best
}

func (s *Simulation) seedAvailable(u *agents.Unit, house *buildings.House) bool {
	if u.CarriedSeed != 0 {
		return true
	}
	if house != nil && house.Storage.Count(items.Seed) > 0 {
		return true
	}
	return s.Seeds.Count(items.Free) > 0
}

func (s *Simulation) coinAvailable(u *agents.Unit, house *buildings.House) bool {
	return u.CarriedCoin != 0 || (house != nil && house.Storage.Count(items.Coin) > 0)
}

// enqueue inserts task at its configured priority unless its kind is already queued.
func (s *Simulation) enqueue(u *agents.Unit, task agents.Task) {
	kind := task.Kind()
	if u.Queue.Has(kind) {
		return
	}
	u.Queue.Insert(agents.NewAction(agents.PriorityFor(s.Tuning.Priorities, kind), task))
}

func (s *Simulation) registry(kind items.Kind) *items.Registry {
	return s.env.Registry(kind)
}

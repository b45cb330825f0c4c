package agents

import (
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/items"
)

// Plant sows one seed in the unit's farm. The seed comes from the unit's hands,
// its house, or the nearest free seed, in that order.
type Plant struct {
	pickup
}

func (p *Plant) step(u *Unit, env *Env) status {
	farm := env.Buildings.Farm(u.ID)
	if farm == nil {
		return abandoned
	}
	plot, ok := farm.FreePlot()
	if !ok {
		return abandoned
	}

	if u.CarriedSeed == 0 {
		var st status
		if house := env.Buildings.House(u.ID); house != nil && house.Storage.Count(items.Seed) > 0 && p.target == 0 {
			st = withdrawHome(u, env, items.Seed)
		} else {
			st = p.fetch(u, env, items.Seed, items.FreeOnly)
		}
		if st != done {
			return st
		}
		return running
	}

	switch travelTo(u, env, farm.Rect.Cell(plot)) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	seed := u.CarriedSeed
	i, ok := farm.Plant(seed, env.Now)
	if !ok {
		return abandoned
	}
	if err := env.Seeds.Store(seed, u.ID, u.ID, buildings.SlotPixel(env.Grid, farm.Rect, i)); err != nil {
		farm.Harvest(i)
		u.CarriedSeed = 0
		return abandoned
	}
	u.CarriedSeed = 0
	env.logger().Debug("seed planted", "unit", u.ID, "plot", i, "tick", env.Now)
	return done
}

// Harvest collects the first ripe plot of the unit's farm as a new food item
// and carries it home.
type Harvest struct {
	harvested bool
}

func (h *Harvest) step(u *Unit, env *Env) status {
	if h.harvested {
		return deliverHome(u, env, items.Food)
	}
	if u.CarriedFood != 0 {
		// Bank the food already in hand, then come back for the plot.
		deliverHome(u, env, items.Food)
		return running
	}
	farm := env.Buildings.Farm(u.ID)
	if farm == nil {
		return abandoned
	}
	plot, ok := farm.RipePlot(env.Now, env.Tuning.Farming.GrowthMs)
	if !ok {
		return abandoned
	}

	switch travelTo(u, env, farm.Rect.Cell(plot)) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	seed, ok := farm.Harvest(plot)
	if !ok {
		return abandoned
	}
	_ = env.Seeds.Consume(seed)
	food := env.Food.Spawn(u.Pos)
	if err := env.Food.Claim(food.ID, u.ID, u.Pos); err != nil {
		return abandoned
	}
	u.CarriedFood = food.ID
	h.harvested = true
	env.record("harvest", "%s harvested food", u.Name)
	return running
}

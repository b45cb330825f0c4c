package agents

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Steal raids the Victim's house for one item of the Item kind. Stolen food is eaten
// on the spot; anything else is carried off. The victim learns who did it.
type Steal struct {
	Victim world.UnitID
	Item   items.Kind
}

func (s *Steal) step(u *Unit, env *Env) status {
	if s.Victim == u.ID {
		return abandoned
	}
	if s.Item != items.Food && u.Carried(s.Item) != 0 {
		return abandoned
	}
	house := env.Buildings.House(s.Victim)
	if house == nil {
		return abandoned
	}
	switch travelTo(u, env, house.Rect.Origin) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	slot, ref, ok := house.Storage.First(s.Item)
	if !ok {
		// Emptied before we got here.
		return abandoned
	}
	house.Storage.RemoveAt(slot)
	reg := env.Registry(s.Item)
	if s.Item == items.Food {
		if err := reg.Consume(ref.ID); err != nil {
			return abandoned
		}
		u.feed(env)
	} else {
		if err := reg.Withdraw(ref.ID, u.ID, u.Pos); err != nil {
			return abandoned
		}
		u.SetCarried(s.Item, ref.ID)
	}

	u.JustStoleFrom = s.Victim
	victimName := "someone"
	if v := env.unit(s.Victim); v != nil {
		v.StolenFromBy = u.ID
		victimName = v.Name
	}
	env.logger().Debug("theft", "thief", u.ID, "victim", s.Victim, "kind", s.Item.String())
	env.record("crime", "%s stole %s from %s", u.Name, s.Item, victimName)
	return done
}

// Fight pursues Target and strikes once in range, settling the grievance.
type Fight struct {
	Target world.UnitID
}

func (f *Fight) step(u *Unit, env *Env) status {
	target := env.unit(f.Target)
	if target == nil || !target.Alive || target == u {
		if u.StolenFromBy == f.Target {
			u.StolenFromBy = 0
		}
		return abandoned
	}

	here := u.Cell(env.Grid)
	there := target.Cell(env.Grid)
	if world.Manhattan(here, there) > env.Tuning.Combat.Range {
		if travelTo(u, env, there) == unreachable {
			return abandoned
		}
		return running
	}

	target.Health -= env.Tuning.Combat.Damage
	if target.Health <= 0 {
		target.Health = 0
		target.Alive = false
	}
	if u.StolenFromBy == f.Target {
		u.StolenFromBy = 0
	}
	u.clearPath()
	env.logger().Debug("strike", "attacker", u.ID, "target", target.ID, "target_health", target.Health)
	env.record("fight", "%s struck %s", u.Name, target.Name)
	return done
}

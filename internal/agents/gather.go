package agents

import (
	"github.com/talgya/hamlet/internal/items"
)

// Eat walks to the nearest free food, picks it up and eats it.
// Food already in hand is eaten on the spot.
type Eat struct {
	pickup
}

func (e *Eat) step(u *Unit, env *Env) status {
	if u.CarriedFood == 0 {
		switch st := e.fetch(u, env, items.Food, items.FreeOnly); st {
		case running, abandoned:
			return st
		}
	}
	if err := env.Food.Consume(u.CarriedFood); err != nil {
		u.CarriedFood = 0
		return abandoned
	}
	u.CarriedFood = 0
	u.feed(env)
	return done
}

// BringToHouse fetches a free item of the Item kind and stores it at home.
type BringToHouse struct {
	Item items.Kind
	pickup
}

func (b *BringToHouse) step(u *Unit, env *Env) status {
	if u.Carried(b.Item) != 0 {
		return deliverHome(u, env, b.Item)
	}
	house := env.Buildings.House(u.ID)
	if house == nil || !house.Storage.HasSpace() {
		return abandoned
	}
	switch st := b.fetch(u, env, b.Item, items.FreeOnly); st {
	case running, abandoned:
		return st
	}
	return running
}

// EatFromStorage walks home and eats a stored food item.
type EatFromStorage struct{}

func (e *EatFromStorage) step(u *Unit, env *Env) status {
	house := env.Buildings.House(u.ID)
	if house == nil {
		return abandoned
	}
	switch travelTo(u, env, house.Rect.Origin) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	slot, ref, ok := house.Storage.First(items.Food)
	if !ok {
		return abandoned
	}
	house.Storage.RemoveAt(slot)
	if err := env.Food.Consume(ref.ID); err != nil {
		env.logger().Debug("stored food missing", "unit", u.ID, "error", err)
		return abandoned
	}
	u.feed(env)
	return done
}

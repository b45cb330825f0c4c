package agents

import (
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Sell lists one stored item of the Item kind at the nearest market, attends the
// stall until a buyer pays, then carries the coin home.
// A unit that already runs a stall goes back to attend it.
type Sell struct {
	Item items.Kind

	market    uint64
	collected bool
}

func (s *Sell) step(u *Unit, env *Env) status {
	if s.collected {
		return deliverHome(u, env, items.Coin)
	}
	reg := env.Buildings

	if m, i, ok := reg.MarketWithSeller(u.ID); ok {
		return s.attend(u, env, m, i)
	}

	if u.Carried(s.Item) == 0 {
		switch st := withdrawHome(u, env, s.Item); st {
		case running, abandoned:
			return st
		}
		return running
	}

	if s.market == 0 {
		m := reg.NearestMarket(u.Cell(env.Grid))
		if m == nil {
			return abandoned
		}
		s.market = m.ID
	}
	m := reg.Market(s.market)
	if m == nil {
		return abandoned
	}
	switch travelTo(u, env, m.Rect.Origin) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	item := u.Carried(s.Item)
	i, ok := m.OpenStall(u.ID, s.Item, item, env.Now)
	if !ok {
		return abandoned
	}
	if err := env.Registry(s.Item).Store(item, u.ID, u.ID, buildings.SlotPixel(env.Grid, m.Rect, i)); err != nil {
		m.Close(i)
		u.SetCarried(s.Item, 0)
		return abandoned
	}
	u.SetCarried(s.Item, 0)
	env.logger().Debug("stall opened", "unit", u.ID, "market", m.ID, "stall", i)
	return running
}

// attend keeps the seller at its stall and collects payment once a buyer
// has paid. Anything in hand is banked first; time away from the stall
// counts toward its expiry.
func (s *Sell) attend(u *Unit, env *Env, m *buildings.Market, i int) status {
	for _, kind := range items.Kinds {
		if u.Carried(kind) != 0 {
			// Bank whatever is in hand before standing at the stall.
			deliverHome(u, env, kind)
			return running
		}
	}
	switch travelTo(u, env, m.Rect.Cell(i)) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}
	m.Touch(i, env.Now)

	if !m.Stall(i).Paid() {
		return running
	}
	coin, ok := m.Collect(i, u.ID)
	if !ok {
		return abandoned
	}
	if err := env.Coins.Withdraw(coin, u.ID, u.Pos); err != nil {
		env.logger().Debug("payment missing", "unit", u.ID, "error", err)
		return abandoned
	}
	u.CarriedCoin = coin
	s.collected = true
	return running
}

// Buy takes a coin from home, pays for a listed item of the Item kind at the nearest
// market offering one, and carries the purchase home.
type Buy struct {
	Item items.Kind

	market uint64
	bought bool
}

func (b *Buy) step(u *Unit, env *Env) status {
	if b.bought {
		return deliverHome(u, env, b.Item)
	}
	if u.Carried(b.Item) != 0 {
		return abandoned
	}
	if u.CarriedCoin == 0 {
		switch st := withdrawHome(u, env, items.Coin); st {
		case running, abandoned:
			return st
		}
		return running
	}

	reg := env.Buildings
	if b.market == 0 {
		m := nearestListing(env, u, b.Item)
		if m == nil {
			return abandoned
		}
		b.market = m.ID
	}
	m := reg.Market(b.market)
	if m == nil {
		return abandoned
	}
	switch travelTo(u, env, m.Rect.Origin) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	i, ok := m.FindListing(b.Item, u.ID)
	if !ok {
		return abandoned
	}
	stall := m.Stall(i)
	coin := u.CarriedCoin
	item, ok := m.Buy(i, coin)
	if !ok {
		return abandoned
	}
	if err := env.Coins.Store(coin, u.ID, stall.Seller, buildings.SlotPixel(env.Grid, m.Rect, i)); err != nil {
		// The coin was not really in hand; put the listing back.
		m.Refund(i, item)
		u.CarriedCoin = 0
		env.logger().Debug("payment failed", "unit", u.ID, "error", err)
		return abandoned
	}
	u.CarriedCoin = 0
	if err := env.Registry(b.Item).Withdraw(item, u.ID, u.Pos); err != nil {
		env.logger().Debug("listed item missing", "unit", u.ID, "error", err)
		return abandoned
	}
	u.SetCarried(b.Item, item)
	b.bought = true

	seller := "someone"
	if su := env.unit(stall.Seller); su != nil {
		seller = su.Name
	}
	env.record("trade", "%s bought %s from %s", u.Name, b.Item, seller)
	return running
}

// nearestListing returns the closest market with a listing of kind that u may buy.
func nearestListing(env *Env, u *Unit, kind items.Kind) *buildings.Market {
	here := u.Cell(env.Grid)
	var best *buildings.Market
	bestDist := 0
	for _, m := range env.Buildings.Markets() {
		if _, ok := m.FindListing(kind, u.ID); !ok {
			continue
		}
		d := world.Manhattan(here, m.Rect.Origin)
		if best == nil || d < bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// HasListing reports whether any market offers kind to u.
func HasListing(env *Env, u *Unit, kind items.Kind) bool {
	return nearestListing(env, u, kind) != nil
}

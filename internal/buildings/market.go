package buildings

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Stall is one trade slot of a market. An open stall has no seller.
// A listed stall holds the seller's item. Once bought, the item is gone
// and the buyer's coin waits in Payment until the seller collects it.
type Stall struct {
	Seller       world.UnitID `json:"seller,omitempty"`
	Item         items.ID     `json:"item,omitempty"`
	ItemKind     items.Kind   `json:"item_kind"`
	Payment      items.ID     `json:"payment,omitempty"`
	ListedAt     uint64       `json:"listed_at,omitempty"`
	LastAttended uint64       `json:"last_attended,omitempty"`
}

// Open reports whether a seller may claim the stall.
func (s Stall) Open() bool { return s.Seller == 0 }

// Listed reports whether the stall has goods on offer.
func (s Stall) Listed() bool { return s.Seller != 0 && s.Item != 0 && s.Payment == 0 }

// Paid reports whether a payment is waiting for the seller.
func (s Stall) Paid() bool { return s.Seller != 0 && s.Payment != 0 }

// Market holds nine stalls arranged over its footprint.
type Market struct {
	ID     uint64     `json:"id"`
	Rect   world.Rect `json:"rect"`
	stalls [Slots]Stall
}

// OpenStall lists item in the first open stall on behalf of seller.
// A seller may run at most one stall per market.
func (m *Market) OpenStall(seller world.UnitID, kind items.Kind, item items.ID, now uint64) (int, bool) {
	if seller == 0 || item == 0 {
		return 0, false
	}
	if _, ok := m.StallOf(seller); ok {
		return 0, false
	}
	for i := range m.stalls {
		if m.stalls[i].Open() {
			m.stalls[i] = Stall{Seller: seller, Item: item, ItemKind: kind, ListedAt: now, LastAttended: now}
			return i, true
		}
	}
	return 0, false
}

// StallOf returns the stall run by seller.
func (m *Market) StallOf(seller world.UnitID) (int, bool) {
	if seller == 0 {
		return 0, false
	}
	for i, s := range m.stalls {
		if s.Seller == seller {
			return i, true
		}
	}
	return 0, false
}

// Stall returns stall i.
func (m *Market) Stall(i int) Stall {
	if i < 0 || i >= Slots {
		return Stall{}
	}
	return m.stalls[i]
}

// Stalls returns a copy of every stall in slot order.
func (m *Market) Stalls() []Stall {
	out := make([]Stall, Slots)
	copy(out, m.stalls[:])
	return out
}

// Touch records that the seller of stall i is present at now.
func (m *Market) Touch(i int, now uint64) {
	if i < 0 || i >= Slots || m.stalls[i].Open() {
		return
	}
	m.stalls[i].LastAttended = now
}

// FindListing returns the lowest stall offering kind from someone other than buyer.
func (m *Market) FindListing(kind items.Kind, buyer world.UnitID) (int, bool) {
	for i, s := range m.stalls {
		if s.Listed() && s.ItemKind == kind && s.Seller != buyer {
			return i, true
		}
	}
	return 0, false
}

// Buy pays coin into stall i and hands over its listed item.
// Fails unless the stall is listed.
func (m *Market) Buy(i int, coin items.ID) (items.ID, bool) {
	if i < 0 || i >= Slots || coin == 0 || !m.stalls[i].Listed() {
		return 0, false
	}
	item := m.stalls[i].Item
	m.stalls[i].Item = 0
	m.stalls[i].Payment = coin
	return item, true
}

// Refund reverses a Buy on stall i: item goes back on offer and the
// payment is dropped from the stall.
func (m *Market) Refund(i int, item items.ID) bool {
	if i < 0 || i >= Slots || item == 0 || !m.stalls[i].Paid() {
		return false
	}
	m.stalls[i].Item = item
	m.stalls[i].Payment = 0
	return true
}

// Collect closes a paid stall and returns the payment to its seller.
func (m *Market) Collect(i int, seller world.UnitID) (items.ID, bool) {
	if i < 0 || i >= Slots || !m.stalls[i].Paid() || m.stalls[i].Seller != seller {
		return 0, false
	}
	coin := m.stalls[i].Payment
	m.stalls[i] = Stall{}
	return coin, true
}

// Close empties stall i and returns what it held.
func (m *Market) Close(i int) Stall {
	if i < 0 || i >= Slots {
		return Stall{}
	}
	s := m.stalls[i]
	m.stalls[i] = Stall{}
	return s
}

// ExpireStalls closes every stall whose seller has been absent for more than
// timeout and returns the closed stalls so their goods can be released.
func (m *Market) ExpireStalls(now, timeout uint64) []Stall {
	var expired []Stall
	for i, s := range m.stalls {
		if s.Open() || now < s.LastAttended {
			continue
		}
		if now-s.LastAttended > timeout {
			expired = append(expired, s)
			m.stalls[i] = Stall{}
		}
	}
	return expired
}

package buildings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

func TestStorageCapacityNeverExceeded(t *testing.T) {
	var s Storage
	for i := 0; i < Slots; i++ {
		slot, ok := s.Insert(ItemRef{Kind: items.Food, ID: items.ID(i + 1)})
		require.True(t, ok)
		assert.Equal(t, i, slot)
	}
	assert.False(t, s.HasSpace())

	before := s
	_, ok := s.Insert(ItemRef{Kind: items.Coin, ID: 100})
	assert.False(t, ok)
	assert.Equal(t, before, s, "failed insert leaves state unchanged")
	assert.Equal(t, Slots, s.Len())
}

func TestStorageRemoveAndFirst(t *testing.T) {
	var s Storage
	_, ok := s.Insert(ItemRef{})
	assert.False(t, ok, "empty refs are rejected")

	s.Insert(ItemRef{Kind: items.Coin, ID: 1})
	s.Insert(ItemRef{Kind: items.Food, ID: 1})
	s.Insert(ItemRef{Kind: items.Food, ID: 2})

	i, ref, ok := s.First(items.Food)
	require.True(t, ok)
	assert.Equal(t, 1, i)
	assert.Equal(t, ItemRef{Kind: items.Food, ID: 1}, ref)
	assert.Equal(t, 2, s.Count(items.Food))

	assert.True(t, s.Remove(ref))
	assert.False(t, s.Remove(ref))
	_, ok = s.RemoveAt(1)
	assert.False(t, ok)

	// The freed slot is reused first.
	slot, ok := s.Insert(ItemRef{Kind: items.Seed, ID: 9})
	require.True(t, ok)
	assert.Equal(t, 1, slot)

	got, ok := s.RemoveAt(0)
	require.True(t, ok)
	assert.Equal(t, ItemRef{Kind: items.Coin, ID: 1}, got)
	assert.Equal(t, []ItemRef{{Kind: items.Seed, ID: 9}, {Kind: items.Food, ID: 2}}, s.Refs())
}

func TestSlotPixel(t *testing.T) {
	g := world.NewGrid(400, 400, 40)
	rect := world.Rect{Origin: world.GridCoord{X: 5, Y: 5}}
	assert.Equal(t, world.Pixel{X: 200, Y: 200}, SlotPixel(g, rect, 0))
	assert.Equal(t, world.Pixel{X: 240, Y: 200}, SlotPixel(g, rect, 1))
	assert.Equal(t, world.Pixel{X: 200, Y: 240}, SlotPixel(g, rect, 3))
}

func TestRipeBoundary(t *testing.T) {
	const planted, growth = 1000, 500
	assert.False(t, Ripe(planted, planted, growth))
	assert.False(t, Ripe(planted, planted+growth-1, growth))
	assert.True(t, Ripe(planted, planted+growth, growth))
	assert.True(t, Ripe(planted, planted+growth+1, growth))
	assert.False(t, Ripe(planted, planted-1, growth), "clock before planting")
}

func TestFarmPlantHarvest(t *testing.T) {
	f := &Farm{Owner: 1}
	i, ok := f.Plant(7, 100)
	require.True(t, ok)
	assert.Equal(t, 0, i)
	assert.Equal(t, Plot{Seed: 7, PlantedAt: 100}, f.Plot(0))

	_, ok = f.RipePlot(599, 500)
	assert.False(t, ok)
	i, ok = f.RipePlot(600, 500)
	require.True(t, ok)

	seed, ok := f.Harvest(i)
	require.True(t, ok)
	assert.Equal(t, items.ID(7), seed)
	assert.Zero(t, f.Planted())
	_, ok = f.Harvest(i)
	assert.False(t, ok)

	for n := 0; n < Slots; n++ {
		_, ok := f.Plant(items.ID(n+1), 0)
		require.True(t, ok)
	}
	assert.False(t, f.HasSpace())
	_, ok = f.Plant(99, 0)
	assert.False(t, ok)
}

func TestMarketStallLifecycle(t *testing.T) {
	m := &Market{ID: 1}

	i, ok := m.OpenStall(10, items.Food, 3, 1000)
	require.True(t, ok)
	_, ok = m.OpenStall(10, items.Food, 4, 1000)
	assert.False(t, ok, "one stall per seller")

	_, ok = m.FindListing(items.Food, 10)
	assert.False(t, ok, "sellers do not buy from themselves")
	_, ok = m.FindListing(items.Seed, 11)
	assert.False(t, ok)
	j, ok := m.FindListing(items.Food, 11)
	require.True(t, ok)
	assert.Equal(t, i, j)

	_, ok = m.Buy(j, 0)
	assert.False(t, ok)
	item, ok := m.Buy(j, 55)
	require.True(t, ok)
	assert.Equal(t, items.ID(3), item)
	_, ok = m.Buy(j, 56)
	assert.False(t, ok, "sold stalls are not listed")
	assert.True(t, m.Stall(j).Paid())

	_, ok = m.Collect(j, 11)
	assert.False(t, ok, "only the seller collects")
	coin, ok := m.Collect(j, 10)
	require.True(t, ok)
	assert.Equal(t, items.ID(55), coin)
	assert.True(t, m.Stall(j).Open())
}

func TestMarketRefundRestoresListing(t *testing.T) {
	m := &Market{ID: 1}
	i, _ := m.OpenStall(10, items.Food, 3, 1000)
	assert.False(t, m.Refund(i, 3), "nothing paid yet")

	item, ok := m.Buy(i, 55)
	require.True(t, ok)
	assert.False(t, m.Refund(i, 0))
	assert.False(t, m.Refund(Slots, item))
	require.True(t, m.Refund(i, item))

	st := m.Stall(i)
	assert.False(t, st.Paid())
	assert.Equal(t, item, st.Item)
	assert.Equal(t, world.UnitID(10), st.Seller)
	j, ok := m.FindListing(items.Food, 11)
	require.True(t, ok)
	assert.Equal(t, i, j)
}

func TestMarketExpireStalls(t *testing.T) {
	m := &Market{ID: 1}
	a, _ := m.OpenStall(1, items.Food, 1, 0)
	b, _ := m.OpenStall(2, items.Food, 2, 0)
	m.Touch(b, 4000)

	assert.Empty(t, m.ExpireStalls(5000, 5000), "exactly at the timeout is still attended")
	expired := m.ExpireStalls(5001, 5000)
	require.Len(t, expired, 1)
	assert.Equal(t, world.UnitID(1), expired[0].Seller)
	assert.True(t, m.Stall(a).Open())
	assert.False(t, m.Stall(b).Open())
}

func TestRegistryRejectsOverlapAndDuplicates(t *testing.T) {
	r := NewRegistry()
	h, ok := r.AddHouse(1, world.GridCoord{X: 2, Y: 2})
	require.True(t, ok)
	assert.Same(t, h, r.House(1))

	_, ok = r.AddHouse(1, world.GridCoord{X: 10, Y: 10})
	assert.False(t, ok, "one house per owner")
	_, ok = r.AddHouse(2, world.GridCoord{X: 4, Y: 4})
	assert.False(t, ok, "overlapping footprint")
	_, ok = r.AddFarm(2, world.GridCoord{X: 3, Y: 0})
	assert.False(t, ok)

	f, ok := r.AddFarm(1, world.GridCoord{X: 5, Y: 2})
	require.True(t, ok)
	assert.Same(t, f, r.Farm(1))

	m, ok := r.AddMarket(world.GridCoord{X: 20, Y: 20})
	require.True(t, ok)
	assert.Same(t, m, r.Market(m.ID))
	assert.Nil(t, r.Market(0))

	kind, ok := r.StructureAt(world.GridCoord{X: 6, Y: 3})
	require.True(t, ok)
	assert.Equal(t, KindFarm, kind)
	_, ok = r.StructureAt(world.GridCoord{X: 0, Y: 0})
	assert.False(t, ok)

	assert.Len(t, r.Houses(), 1)
	assert.Len(t, r.Farms(), 1)
}

func TestNearestMarketAndSeller(t *testing.T) {
	r := NewRegistry()
	far, _ := r.AddMarket(world.GridCoord{X: 30, Y: 30})
	near, _ := r.AddMarket(world.GridCoord{X: 5, Y: 5})
	assert.Same(t, near, r.NearestMarket(world.GridCoord{X: 0, Y: 0}))
	assert.Same(t, far, r.NearestMarket(world.GridCoord{X: 28, Y: 28}))
	assert.Nil(t, NewRegistry().NearestMarket(world.GridCoord{}))

	i, ok := far.OpenStall(4, items.Food, 1, 0)
	require.True(t, ok)
	m, j, ok := r.MarketWithSeller(4)
	require.True(t, ok)
	assert.Same(t, far, m)
	assert.Equal(t, i, j)
}

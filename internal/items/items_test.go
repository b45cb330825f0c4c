package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hamlet/internal/world"
)

func px(x, y int) world.Pixel { return world.Pixel{X: x, Y: y} }

func TestSpawnAssignsStableIDs(t *testing.T) {
	r := NewRegistry(Food)
	a := r.Spawn(px(0, 0))
	b := r.Spawn(px(40, 0))
	assert.Equal(t, ID(1), a.ID)
	assert.Equal(t, ID(2), b.ID)
	assert.Equal(t, Food, b.Kind)
	assert.True(t, a.Free())

	require.NoError(t, r.Consume(a.ID))
	c := r.Spawn(px(80, 0))
	assert.Equal(t, ID(3), c.ID, "ids are never reused")
	assert.Nil(t, r.Get(a.ID))
	assert.Nil(t, r.Get(0))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []*Item{b, c}, r.All())
}

func TestClaimTransitions(t *testing.T) {
	r := NewRegistry(Coin)
	it := r.Spawn(px(10, 10))

	require.NoError(t, r.Claim(it.ID, 1, px(0, 0)))
	assert.Equal(t, Carried, it.State())
	assert.Equal(t, world.UnitID(1), it.CarriedBy())
	assert.Zero(t, it.OwnedBy())
	assert.Equal(t, px(0, 0), it.Pos)

	// A carried item cannot be claimed again, by anyone.
	assert.ErrorIs(t, r.Claim(it.ID, 2, px(0, 0)), ErrNotFree)
	assert.ErrorIs(t, r.Claim(it.ID, 1, px(0, 0)), ErrNotFree)
	assert.Equal(t, world.UnitID(1), it.CarriedBy())

	// Only the carrier may store it.
	assert.ErrorIs(t, r.Store(it.ID, 2, 2, px(5, 5)), ErrNotCarried)
	require.NoError(t, r.Store(it.ID, 1, 1, px(200, 200)))
	assert.Equal(t, Stored, it.State())
	assert.Zero(t, it.CarriedBy())
	assert.Equal(t, world.UnitID(1), it.OwnedBy())
	assert.Equal(t, px(200, 200), it.Pos)

	// Stored items are not claimable either.
	assert.ErrorIs(t, r.Claim(it.ID, 3, px(0, 0)), ErrNotFree)

	require.NoError(t, r.Withdraw(it.ID, 3, px(40, 40)))
	assert.Equal(t, world.UnitID(3), it.CarriedBy())
	assert.ErrorIs(t, r.Withdraw(it.ID, 3, px(40, 40)), ErrNotStored)

	require.NoError(t, r.Release(it.ID, px(80, 80)))
	assert.True(t, it.Free())
	assert.Zero(t, it.Holder())

	assert.ErrorIs(t, r.Claim(99, 1, px(0, 0)), ErrNotFound)
	assert.ErrorIs(t, r.Consume(99), ErrNotFound)
}

func TestMoveCarried(t *testing.T) {
	r := NewRegistry(Seed)
	it := r.Spawn(px(0, 0))
	assert.False(t, r.MoveCarried(it.ID, 1, px(40, 0)), "free items do not follow")

	require.NoError(t, r.Claim(it.ID, 1, px(0, 0)))
	assert.False(t, r.MoveCarried(it.ID, 2, px(40, 0)))
	assert.True(t, r.MoveCarried(it.ID, 1, px(40, 0)))
	assert.Equal(t, px(40, 0), it.Pos)
	assert.False(t, r.MoveCarried(77, 1, px(0, 0)))
}

func TestNearest(t *testing.T) {
	g := world.NewGrid(800, 800, 40)
	r := NewRegistry(Food)
	far := r.Spawn(px(400, 400)) // (10,10)
	tieA := r.Spawn(px(120, 40)) // (3,1)
	tieB := r.Spawn(px(40, 120)) // (1,3)
	mine := r.Spawn(px(40, 40))  // (1,1)
	taken := r.Spawn(px(0, 0))   // (0,0)
	require.NoError(t, r.Claim(taken.ID, 9, taken.Pos))

	from := world.GridCoord{X: 0, Y: 0}

	// Carried items are skipped by FreeOnly; mine is nearest free.
	assert.Equal(t, mine, r.Nearest(g, from, 0, FreeOnly))

	// Once stored for unit 5, mine is visible only to unit 5.
	require.NoError(t, r.Claim(mine.ID, 5, mine.Pos))
	require.NoError(t, r.Store(mine.ID, 5, 5, mine.Pos))
	assert.Equal(t, mine, r.Nearest(g, from, 0, FreeOrOwnedBy(5)))
	// Equal distance 4: registry order decides.
	assert.Equal(t, tieA, r.Nearest(g, from, 0, FreeOnly))
	assert.Equal(t, tieA, r.Nearest(g, from, 0, FreeOrOwnedBy(6)))
	require.NoError(t, r.Claim(tieA.ID, 6, tieA.Pos))
	assert.Equal(t, tieB, r.Nearest(g, from, 0, FreeOnly))

	// Radius limits the search.
	assert.Nil(t, r.Nearest(g, from, 3, FreeOnly))
	assert.Equal(t, far, r.Nearest(g, world.GridCoord{X: 12, Y: 12}, 5, FreeOnly))
}

func TestCountAndSnapshot(t *testing.T) {
	r := NewRegistry(Coin)
	a := r.Spawn(px(0, 0))
	r.Spawn(px(40, 0))
	require.NoError(t, r.Claim(a.ID, 4, px(0, 0)))

	assert.Equal(t, 1, r.Count(Free))
	assert.Equal(t, 1, r.Count(Carried))
	assert.Equal(t, 0, r.Count(Stored))

	s := a.Snapshot()
	assert.Equal(t, "coin", s.Kind)
	assert.Equal(t, "carried", s.State)
	assert.Equal(t, world.UnitID(4), s.CarriedBy)
	assert.Zero(t, s.OwnedBy)
}

package agents

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/hamlet/internal/config"
)

func TestQueueInsertIntoEmpty(t *testing.T) {
	var q Queue
	_, ok := q.Peek()
	assert.False(t, ok)
	_, ok = q.Pop()
	assert.False(t, ok)

	w := &Wander{}
	q.Insert(NewAction(1, w))
	top, ok := q.Peek()
	require.True(t, ok)
	assert.Same(t, w, top.Task)
	assert.Equal(t, 1, q.Len())
}

func TestQueueHigherPriorityPreempts(t *testing.T) {
	var q Queue
	q.Insert(NewAction(3, &Wander{}))
	q.Insert(NewAction(3, &EatFromStorage{}))
	q.Insert(NewAction(1, &Plant{}))
	require.Equal(t, 3, q.Len())

	fight := &Fight{Target: 2}
	q.Insert(NewAction(5, fight))
	assert.Equal(t, 1, q.Len(), "everything queued before is discarded")
	top, _ := q.Peek()
	assert.Same(t, fight, top.Task)
	assert.False(t, q.Has(KindWander))
}

func TestQueueEqualAndLowerPriorityCoexist(t *testing.T) {
	var q Queue
	a, b := &Wander{}, &Wander{}
	low := &Harvest{}
	q.Insert(NewAction(2, a))
	q.Insert(NewAction(1, low))
	q.Insert(NewAction(2, b))
	require.Equal(t, 3, q.Len())

	// Equal priorities pop in insertion order, then the lower one.
	first, _ := q.Pop()
	second, _ := q.Pop()
	third, _ := q.Pop()
	assert.Same(t, a, first.Task)
	assert.Same(t, b, second.Task)
	assert.Same(t, low, third.Task)
	assert.Zero(t, q.Len())
}

func TestQueueIgnoresNilTask(t *testing.T) {
	var q Queue
	q.Insert(Action{Priority: 9})
	assert.Zero(t, q.Len())
}

func TestQueuePreemptionProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		var q Queue
		for n := 0; n < 20; n++ {
			p := rng.Intn(6)
			top, hadTop := q.Peek()
			q.Insert(NewAction(p, &Wander{}))
			if hadTop && p > top.Priority {
				require.Equal(t, 1, q.Len(), "trial %d insert %d", trial, n)
			}
			got, _ := q.Peek()
			require.GreaterOrEqual(t, got.Priority, p)
		}
	}
}

func TestQueueHas(t *testing.T) {
	var q Queue
	q.Insert(NewAction(2, &Sell{}))
	q.Insert(NewAction(1, &BringToHouse{}))
	assert.True(t, q.Has(KindSell))
	assert.True(t, q.Has(KindBringToHouse))
	assert.False(t, q.Has(KindBuy))
}

func TestPriorityForCoversEveryKind(t *testing.T) {
	p := config.Default().Priorities
	for k := KindWander; k <= KindHarvest; k++ {
		assert.Positive(t, PriorityFor(p, k), k.String())
	}
	assert.Equal(t, p.Fight, PriorityFor(p, KindFight))
	assert.Zero(t, PriorityFor(p, Kind(200)))
}

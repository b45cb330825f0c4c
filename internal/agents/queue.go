package agents

import (
	"container/heap"

	"github.com/talgya/hamlet/internal/config"
)

// Action is a queued goal: a task and the priority it was enqueued at.
type Action struct {
	Priority int
	Task     Task
	seq      uint64
}

// NewAction pairs a task with a priority.
func NewAction(priority int, task Task) Action {
	return Action{Priority: priority, Task: task}
}

// PriorityFor returns the configured priority of an action kind.
func PriorityFor(p config.Priorities, k Kind) int {
	switch k {
	case KindWander:
		return p.Wander
	case KindEat:
		return p.Eat
	case KindBringToHouse:
		return p.BringToHouse
	case KindEatFromStorage:
		return p.EatFromStorage
	case KindBuild:
		return p.Build
	case KindSell:
		return p.Sell
	case KindBuy:
		return p.Buy
	case KindSteal:
		return p.Steal
	case KindFight:
		return p.Fight
	case KindPlant:
		return p.Plant
	case KindHarvest:
		return p.Harvest
	}
	return 0
}

// actionHeap is a max-heap on priority; equal priorities pop in insertion order.
type actionHeap []Action

func (h actionHeap) Len() int { return len(h) }

func (h actionHeap) Less(i, j int) bool {
	if h[i].Priority != h[j].Priority {
		return h[i].Priority > h[j].Priority
	}
	return h[i].seq < h[j].seq
}

func (h actionHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *actionHeap) Push(x any) { *h = append(*h, x.(Action)) }

func (h *actionHeap) Pop() any {
	old := *h
	n := len(old)
	a := old[n-1]
	old[n-1] = Action{}
	*h = old[:n-1]
	return a
}

// Queue is a unit's pending goals. Inserting an action that outranks the
// current top discards everything queued before it.
type Queue struct {
	h   actionHeap
	seq uint64
}

// Insert enqueues a. A strictly higher priority than the top clears the queue first.
func (q *Queue) Insert(a Action) {
	if a.Task == nil {
		return
	}
	if len(q.h) > 0 && a.Priority > q.h[0].Priority {
		clear(q.h)
		q.h = q.h[:0]
	}
	q.seq++
	a.seq = q.seq
	heap.Push(&q.h, a)
}

// Peek returns the highest-priority action without removing it.
func (q *Queue) Peek() (Action, bool) {
	if len(q.h) == 0 {
		return Action{}, false
	}
	return q.h[0], true
}

// Pop removes and returns the highest-priority action.
func (q *Queue) Pop() (Action, bool) {
	if len(q.h) == 0 {
		return Action{}, false
	}
	return heap.Pop(&q.h).(Action), true
}

// Len returns the number of queued actions.
func (q *Queue) Len() int { return len(q.h) }

// Has reports whether an action of kind is queued.
func (q *Queue) Has(kind Kind) bool {
	for _, a := range q.h {
		if a.Task.Kind() == kind {
			return true
		}
	}
	return false
}

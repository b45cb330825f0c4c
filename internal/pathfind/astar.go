// Package pathfind implements 4-directional A* search over a walkability grid.
//
// Nodes live in a per-search arena and refer to their parents by index, so a
// search owns all of its allocations and drops them when it returns.
package pathfind

import (
	"container/heap"

	"github.com/talgya/hamlet/internal/world"
)

// Grid is the walkability view a search runs over. *world.Grid satisfies it.
type Grid interface {
	Width() int
	Height() int
	IsCellWalkable(x, y int) bool
}

var neighborOffsets = [4]world.GridCoord{
	{X: 1, Y: 0},
	{X: -1, Y: 0},
	{X: 0, Y: 1},
	{X: 0, Y: -1},
}

const noParent = -1

type node struct {
	coord  world.GridCoord
	g      int
	f      int
	parent int // arena index, noParent for the start node
}

// openSet is a min-heap of arena indices ordered by f, then by push order.
type openSet struct {
	arena []node
	items []int
}

func (o *openSet) Len() int { return len(o.items) }

func (o *openSet) Less(i, j int) bool {
	a, b := o.items[i], o.items[j]
	if o.arena[a].f != o.arena[b].f {
		return o.arena[a].f < o.arena[b].f
	}
	// Arena indices grow with push order.
	return a < b
}

func (o *openSet) Swap(i, j int) { o.items[i], o.items[j] = o.items[j], o.items[i] }

func (o *openSet) Push(x any) { o.items = append(o.items, x.(int)) }

func (o *openSet) Pop() any {
	n := len(o.items)
	item := o.items[n-1]
	o.items = o.items[:n-1]
	return item
}

func heuristic(a, b world.GridCoord) int {
	return world.Manhattan(a, b)
}

// FindPath returns the tiles from start to goal inclusive, moving only between
// 4-adjacent walkable tiles at unit cost. It returns nil when goal cannot be
// reached. When start equals goal the result is the single tile start.
func FindPath(start, goal world.GridCoord, grid Grid) []world.GridCoord {
	if start == goal {
		return []world.GridCoord{start}
	}
	w, h := grid.Width(), grid.Height()
	inBounds := func(c world.GridCoord) bool {
		return c.X >= 0 && c.Y >= 0 && c.X < w && c.Y < h
	}
	if !inBounds(start) || !inBounds(goal) || !grid.IsCellWalkable(goal.X, goal.Y) {
		return nil
	}
	hash := func(c world.GridCoord) int { return c.Y*w + c.X }

	open := &openSet{}
	best := make(map[int]int) // cell hash → lowest g seen

	open.arena = append(open.arena, node{coord: start, g: 0, f: heuristic(start, goal), parent: noParent})
	heap.Push(open, 0)
	best[hash(start)] = 0

	for open.Len() > 0 {
		idx := heap.Pop(open).(int)
		current := open.arena[idx]

		// Stale entry: a cheaper route to this cell was queued after it.
		if g, ok := best[hash(current.coord)]; ok && current.g > g {
			continue
		}

		if current.coord == goal {
			return reconstruct(open.arena, idx)
		}

		for _, d := range neighborOffsets {
			next := current.coord.Add(d.X, d.Y)
			if !inBounds(next) || !grid.IsCellWalkable(next.X, next.Y) {
				continue
			}
			ng := current.g + 1
			nh := hash(next)
			if g, seen := best[nh]; seen && ng >= g {
				continue
			}
			best[nh] = ng
			open.arena = append(open.arena, node{
				coord:  next,
				g:      ng,
				f:      ng + heuristic(next, goal),
				parent: idx,
			})
			heap.Push(open, len(open.arena)-1)
		}
	}

	return nil
}

func reconstruct(arena []node, idx int) []world.GridCoord {
	n := 0
	for i := idx; i != noParent; i = arena[i].parent {
		n++
	}
	path := make([]world.GridCoord, n)
	for i := idx; i != noParent; i = arena[i].parent {
		n--
		path[n] = arena[i].coord
	}
	return path
}

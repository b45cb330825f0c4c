package agents

import (
	"github.com/talgya/hamlet/internal/pathfind"
	"github.com/talgya/hamlet/internal/world"
)

// Wander walks to a random nearby walkable tile. It is the idle fallback.
type Wander struct {
	started bool
}

func (w *Wander) step(u *Unit, env *Env) status {
	if w.started {
		if len(u.Path) == 0 {
			return done
		}
		return running
	}

	here := u.Cell(env.Grid)
	offset := env.Tuning.Search.WanderOffset
	span := 2*offset + 1
	for attempt := 0; attempt < env.Tuning.Search.WanderAttempts; attempt++ {
		dx := env.Rand.Intn(span) - offset
		dy := env.Rand.Intn(span) - offset
		if dx == 0 && dy == 0 {
			continue
		}
		goal := here.Add(dx, dy)
		if !env.Grid.Walkable(goal) {
			continue
		}
		path := pathfind.FindPath(here, goal, env.Grid)
		if len(path) < 2 {
			continue
		}
		setPath(u, path, goal)
		w.started = true
		return running
	}
	// Boxed in; let the caller retry later.
	return abandoned
}

func setPath(u *Unit, path []world.GridCoord, goal world.GridCoord) {
	u.Path = path[1:]
	u.pathGoal = goal
	u.hasGoal = true
}

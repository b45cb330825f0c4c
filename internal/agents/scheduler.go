package agents

import (
	"fmt"
	"log/slog"

	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/config"
	"github.com/talgya/hamlet/internal/entropy"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/pathfind"
	"github.com/talgya/hamlet/internal/world"
)

// Env is everything a unit's actions may read or mutate during one tick.
// The caller owns every registry and serializes all calls to Advance.
type Env struct {
	Grid      *world.Grid
	Food      *items.Registry
	Seeds     *items.Registry
	Coins     *items.Registry
	Buildings *buildings.Registry
	Units     UnitLookup
	Tuning    *config.Tuning
	Rand      entropy.Source
	Log       *slog.Logger

	// Now is the simulated clock in milliseconds.
	Now uint64

	// Record receives notable events (trades, thefts, builds). May be nil.
	Record func(category, description string)
}

// Registry returns the item registry for kind.
func (e *Env) Registry(kind items.Kind) *items.Registry {
	switch kind {
	case items.Seed:
		return e.Seeds
	case items.Coin:
		return e.Coins
	default:
		return e.Food
	}
}

func (e *Env) logger() *slog.Logger {
	if e.Log != nil {
		return e.Log
	}
	return slog.Default()
}

func (e *Env) record(category, format string, args ...any) {
	if e.Record != nil {
		e.Record(category, fmt.Sprintf(format, args...))
	}
}

func (e *Env) unit(id world.UnitID) *Unit {
	if e.Units == nil || id == 0 {
		return nil
	}
	return e.Units.Unit(id)
}

// Advance runs one scheduler tick for u: a rate-limited movement step along
// its path, then one step of its highest-priority action. An action that
// completes or cannot progress is popped; an empty queue does nothing.
func Advance(u *Unit, env *Env) {
	if !u.Alive {
		return
	}
	top, hasTop := u.Queue.Peek()
	if !hasTop {
		u.current = nil
		move(u, env, false)
		return
	}
	if top.Task != u.current {
		// A different action took over; its predecessor's route is stale.
		u.clearPath()
		u.current = top.Task
	}

	move(u, env, top.Task.Kind() == KindFight)

	switch top.Task.step(u, env) {
	case done:
		u.Queue.Pop()
	case abandoned:
		env.logger().Debug("action abandoned", "unit", u.ID, "action", top.Task.Kind().String(), "tick", env.Now)
		u.Queue.Pop()
		u.clearPath()
	}
}

// move steps u one tile along its path if the move delay has elapsed and
// brings any carried items along.
func move(u *Unit, env *Env, chasing bool) {
	if len(u.Path) == 0 {
		return
	}
	delay := env.Tuning.Movement.DelayMs
	if chasing {
		delay = env.Tuning.Movement.ChaseDelayMs
	}
	if env.Now < u.LastMove || env.Now-u.LastMove < delay {
		return
	}

	next := u.Path[0]
	if !env.Grid.Walkable(next) {
		// Terrain changed under the route; the action will replan.
		u.clearPath()
		return
	}
	u.Path = u.Path[1:]
	u.Pos = env.Grid.GridToPixel(next)
	u.LastMove = env.Now
	syncCarried(u, env)
}

// syncCarried snaps every carried item to the unit. A slot whose item no
// longer exists or is no longer held by u is cleared.
func syncCarried(u *Unit, env *Env) {
	for _, kind := range items.Kinds {
		id := u.Carried(kind)
		if id == 0 {
			continue
		}
		if !env.Registry(kind).MoveCarried(id, u.ID, u.Pos) {
			u.SetCarried(kind, 0)
		}
	}
}

// travel is the outcome of a travelTo call.
type travel uint8

const (
	arrived travel = iota
	enRoute
	unreachable
)

// travelTo keeps u heading for goal. It requests a path only when none is
// active for this goal and reports arrival once u stands on it.
func travelTo(u *Unit, env *Env, goal world.GridCoord) travel {
	here := u.Cell(env.Grid)
	if here == goal {
		u.clearPath()
		return arrived
	}
	if len(u.Path) > 0 && u.hasGoal && u.pathGoal == goal {
		return enRoute
	}
	path := pathfind.FindPath(here, goal, env.Grid)
	if len(path) == 0 {
		u.clearPath()
		return unreachable
	}
	u.Path = path[1:]
	u.pathGoal = goal
	u.hasGoal = true
	return enRoute
}

// pickup is the locate → approach → claim sequence for one free item.
// The target is chosen once and never re-scanned.
type pickup struct {
	target items.ID
	cell   world.GridCoord
}

func (p *pickup) fetch(u *Unit, env *Env, kind items.Kind, filter items.Filter) status {
	reg := env.Registry(kind)
	if p.target == 0 {
		it := reg.Nearest(env.Grid, u.Cell(env.Grid), env.Tuning.Search.ItemRadius, filter)
		if it == nil {
			return abandoned
		}
		p.target = it.ID
		p.cell = env.Grid.PixelToGrid(it.Pos)
	}

	switch travelTo(u, env, p.cell) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	if err := reg.Claim(p.target, u.ID, u.Pos); err != nil {
		env.logger().Debug("pickup failed", "unit", u.ID, "error", err)
		return abandoned
	}
	u.SetCarried(kind, p.target)
	return done
}

// withdrawHome walks u to its house and takes the first stored item of kind.
func withdrawHome(u *Unit, env *Env, kind items.Kind) status {
	house := env.Buildings.House(u.ID)
	if house == nil {
		return abandoned
	}
	if _, _, ok := house.Storage.First(kind); !ok {
		return abandoned
	}
	switch travelTo(u, env, house.Rect.Origin) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}
	slot, ref, ok := house.Storage.First(kind)
	if !ok {
		return abandoned
	}
	house.Storage.RemoveAt(slot)
	if err := env.Registry(kind).Withdraw(ref.ID, u.ID, u.Pos); err != nil {
		env.logger().Debug("withdraw failed", "unit", u.ID, "error", err)
		return abandoned
	}
	u.SetCarried(kind, ref.ID)
	return done
}

// deliverHome carries the item held for kind into u's house storage.
// When the house is missing, unreachable or full the item is dropped
// free at u's feet and the delivery is abandoned.
func deliverHome(u *Unit, env *Env, kind items.Kind) status {
	id := u.Carried(kind)
	if id == 0 {
		return abandoned
	}
	house := env.Buildings.House(u.ID)
	if house == nil {
		drop(u, env, kind)
		return abandoned
	}
	switch travelTo(u, env, house.Rect.Origin) {
	case unreachable:
		drop(u, env, kind)
		return abandoned
	case enRoute:
		return running
	}

	slot, ok := house.Storage.Insert(buildings.ItemRef{Kind: kind, ID: id})
	if !ok {
		env.logger().Debug("house full, dropping", "unit", u.ID, "kind", kind.String(), "item", id)
		drop(u, env, kind)
		return abandoned
	}
	pos := buildings.SlotPixel(env.Grid, house.Rect, slot)
	if err := env.Registry(kind).Store(id, u.ID, u.ID, pos); err != nil {
		house.Storage.RemoveAt(slot)
		u.SetCarried(kind, 0)
		env.logger().Debug("store failed", "unit", u.ID, "error", err)
		return abandoned
	}
	u.SetCarried(kind, 0)
	return done
}

// drop releases the item carried for kind as a free item at u's position.
func drop(u *Unit, env *Env, kind items.Kind) {
	id := u.Carried(kind)
	if id == 0 {
		return
	}
	_ = env.Registry(kind).Release(id, u.Pos)
	u.SetCarried(kind, 0)
}

// Drop releases every carried item at u's position.
func Drop(u *Unit, env *Env) {
	for _, kind := range items.Kinds {
		drop(u, env, kind)
	}
}

func (u *Unit) feed(env *Env) {
	u.Hunger = env.Tuning.Needs.MaxHunger
}

// Simulation ties together the grid, registries and units and runs them each tick.
package engine

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/talgya/hamlet/internal/agents"
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/config"
	"github.com/talgya/hamlet/internal/entropy"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Simulation holds the complete world state. Every mutation happens inside
// Tick under the write lock; readers take snapshots under the read lock.
type Simulation struct {
	mu sync.RWMutex

	Grid      *world.Grid
	Units     []*agents.Unit // Iteration order decides contention
	UnitIndex map[world.UnitID]*agents.Unit
	Food      *items.Registry
	Seeds     *items.Registry
	Coins     *items.Registry
	Buildings *buildings.Registry
	Tuning    config.Tuning

	Spawner *agents.Spawner

	Events   []Event // Most recent events, oldest first
	LastTick uint64  // Clock value of the most recent tick
	Ticks    uint64  // Ticks processed

	Stats SimStats

	rng     entropy.Source
	log     *slog.Logger
	env     agents.Env
	pending []Event // Not yet handed to the chronicle

	lastFoodSpawn uint64
	lastSeedSpawn uint64

	subMu   sync.Mutex
	subs    map[int]chan Event
	nextSub int
}

// Event is a notable occurrence in the world.
type Event struct {
	Tick        uint64 `json:"tick"`
	Description string `json:"description"`
	Category    string `json:"category"` // "trade", "crime", "fight", "death", "build", "harvest"
}

// SimStats tracks aggregate world statistics.
type SimStats struct {
	Population   int     `json:"population"`
	Deaths       int     `json:"deaths"`
	Thefts       int     `json:"thefts"`
	Trades       int     `json:"trades"`
	Houses       int     `json:"houses"`
	Farms        int     `json:"farms"`
	FreeFood     int     `json:"free_food"`
	StoredFood   int     `json:"stored_food"`
	FreeCoins    int     `json:"free_coins"`
	ListedStalls int     `json:"listed_stalls"`
	AvgHunger    float64 `json:"avg_hunger"`
	AvgMorality  float64 `json:"avg_morality"`
}

// NewSimulation creates an empty world on g. Units, items and markets are
// added by Populate or directly through the registries.
func NewSimulation(g *world.Grid, tun config.Tuning, rng entropy.Source, logger *slog.Logger) *Simulation {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Simulation{
		Grid:      g,
		UnitIndex: make(map[world.UnitID]*agents.Unit),
		Food:      items.NewRegistry(items.Food),
		Seeds:     items.NewRegistry(items.Seed),
		Coins:     items.NewRegistry(items.Coin),
		Buildings: buildings.NewRegistry(),
		Tuning:    tun,
		Spawner:   agents.NewSpawner(rng, tun.Needs),
		rng:       rng,
		log:       logger,
		subs:      make(map[int]chan Event),
	}
	s.env = agents.Env{
		Grid:      s.Grid,
		Food:      s.Food,
		Seeds:     s.Seeds,
		Coins:     s.Coins,
		Buildings: s.Buildings,
		Units:     s,
		Tuning:    &s.Tuning,
		Rand:      rng,
		Log:       logger,
		Record:    func(category, description string) { s.emit(category, description) },
	}
	return s
}

// Populate places the configured markets, units and starting items at now.
func (s *Simulation) Populate(now uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sp := s.Tuning.Spawn
	s.placeMarkets(sp.Markets)
	for _, u := range s.Spawner.SpawnPopulation(s.Grid, sp.Units, now) {
		s.addUnit(u)
	}
	s.scatter(s.Food, sp.Food)
	s.scatter(s.Seeds, sp.Seeds)
	s.scatter(s.Coins, sp.Coins)

	s.LastTick = now
	s.lastFoodSpawn = now
	s.lastSeedSpawn = now
	s.rebuildOccupants()
	s.updateStats()

	s.log.Info("world populated",
		"units", len(s.Units),
		"markets", len(s.Buildings.Markets()),
		"food", s.Food.Len(),
		"seeds", s.Seeds.Len(),
		"coins", s.Coins.Len(),
	)
}

// AddUnit registers u at the end of the iteration order.
func (s *Simulation) AddUnit(u *agents.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addUnit(u)
}

func (s *Simulation) addUnit(u *agents.Unit) {
	s.Units = append(s.Units, u)
	s.UnitIndex[u.ID] = u
}

// Unit returns the live unit with id, or nil. Callers outside Tick must
// hold no reference past the call; use Snapshot for reads.
func (s *Simulation) Unit(id world.UnitID) *agents.Unit {
	return s.UnitIndex[id]
}

// CurrentTick returns the clock value of the most recent tick.
func (s *Simulation) CurrentTick() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastTick
}

// placeMarkets spreads n markets across the grid's width.
func (s *Simulation) placeMarkets(n int) {
	radius := max(s.Grid.Width(), s.Grid.Height())
	for i := 0; i < n; i++ {
		preferred := world.GridCoord{
			X: s.Grid.Width() * (i + 1) / (n + 1),
			Y: s.Grid.Height() / 2,
		}
		origin, ok := world.FindSite(s.Grid, preferred, radius, s.Buildings.Occupied)
		if !ok {
			s.log.Warn("no room for market", "index", i)
			return
		}
		s.Buildings.AddMarket(origin)
	}
}

// scatter spawns n free items of reg's kind on random walkable tiles.
func (s *Simulation) scatter(reg *items.Registry, n int) {
	for i := 0; i < n; i++ {
		c, ok := world.RandomWalkable(s.Grid, s.rng, 200)
		if !ok {
			return
		}
		reg.Spawn(s.Grid.GridToPixel(c))
	}
}

// Tick advances the whole world to now: per unit in array order, needs decay,
// triggers enqueue work, and the scheduler takes one step. Housekeeping runs
// after every unit has moved.
func (s *Simulation) Tick(now uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.LastTick = now
	s.Ticks++
	s.env.Now = now

	for _, u := range s.Units {
		if !u.Alive {
			continue
		}
		if agents.UpdateNeeds(u, &s.Tuning.Needs, now) {
			continue
		}
		s.trigger(u)
		agents.Advance(u, &s.env)
	}

	s.processCrime()
	s.processDeaths()
	s.expireStalls(now)
	s.spawnResources(now)
	s.rebuildOccupants()
	s.updateStats()
}

// emit records an event at the current tick and fans it out to subscribers.
func (s *Simulation) emit(category, description string) {
	e := Event{Tick: s.LastTick, Category: category, Description: description}
	s.Events = append(s.Events, e)
	if limit := s.Tuning.Chronicle.RecentEvents; limit > 0 && len(s.Events) > limit {
		s.Events = s.Events[len(s.Events)-limit:]
	}
	s.pending = append(s.pending, e)
	if category == "trade" {
		s.Stats.Trades++
	}

	s.log.Info("event", "category", category, "description", description, "tick", e.Tick)
	s.publish(e)
}

func (s *Simulation) emitf(category, format string, args ...any) {
	s.emit(category, fmt.Sprintf(format, args...))
}

// DrainEvents returns events recorded since the last drain.
func (s *Simulation) DrainEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}

// RecentEvents returns up to limit of the newest in-memory events, oldest first.
func (s *Simulation) RecentEvents(limit int) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if limit > 0 && len(s.Events) > limit {
		start = len(s.Events) - limit
	}
	return append([]Event(nil), s.Events[start:]...)
}

// Subscribe registers a listener for new events. Slow listeners miss events
// rather than stall the tick.
func (s *Simulation) Subscribe() (int, <-chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.nextSub++
	ch := make(chan Event, 64)
	s.subs[s.nextSub] = ch
	return s.nextSub, ch
}

// Unsubscribe removes and closes a listener.
func (s *Simulation) Unsubscribe(id int) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if ch, ok := s.subs[id]; ok {
		delete(s.subs, id)
		close(ch)
	}
}

func (s *Simulation) publish(e Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, ch := range s.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// rebuildOccupants refreshes the per-cell occupant lists for renderers.
func (s *Simulation) rebuildOccupants() {
	s.Grid.ClearOccupants()
	for _, u := range s.Units {
		s.Grid.AddOccupant(u.Cell(s.Grid), world.OccupantUnit, uint64(u.ID))
	}
	for _, reg := range []*items.Registry{s.Food, s.Seeds, s.Coins} {
		kind := reg.Kind().Occupant()
		reg.Each(func(it *items.Item) bool {
			s.Grid.AddOccupant(s.Grid.PixelToGrid(it.Pos), kind, uint64(it.ID))
			return true
		})
	}
}

func (s *Simulation) updateStats() {
	alive := 0
	hunger, morality := 0, 0
	for _, u := range s.Units {
		if !u.Alive {
			continue
		}
		alive++
		hunger += u.Hunger
		morality += u.Morality
	}

	stored := 0
	for _, h := range s.Buildings.Houses() {
		stored += h.Storage.Count(items.Food)
	}
	listed := 0
	for _, m := range s.Buildings.Markets() {
		for _, st := range m.Stalls() {
			if st.Listed() {
				listed++
			}
		}
	}

	s.Stats.Population = alive
	s.Stats.Houses = len(s.Buildings.Houses())
	s.Stats.Farms = len(s.Buildings.Farms())
	s.Stats.FreeFood = s.Food.Count(items.Free)
	s.Stats.StoredFood = stored
	s.Stats.FreeCoins = s.Coins.Count(items.Free)
	s.Stats.ListedStalls = listed
	s.Stats.AvgHunger, s.Stats.AvgMorality = 0, 0
	if alive > 0 {
		s.Stats.AvgHunger = float64(hunger) / float64(alive)
		s.Stats.AvgMorality = float64(morality) / float64(alive)
	}
}

// Unit spawning: creates the initial population at walkable tiles.
package agents

import (
	"github.com/talgya/hamlet/internal/config"
	"github.com/talgya/hamlet/internal/entropy"
	"github.com/talgya/hamlet/internal/world"
)

// Spawner creates units for the simulation.
type Spawner struct {
	rng    entropy.Source
	needs  config.NeedsTuning
	nextID world.UnitID
}

// NewSpawner creates a unit spawner drawing names from rng.
func NewSpawner(rng entropy.Source, needs config.NeedsTuning) *Spawner {
	return &Spawner{
		rng:    rng,
		needs:  needs,
		nextID: 1,
	}
}

// SetNextID sets the next unit ID to be issued.
func (s *Spawner) SetNextID(id world.UnitID) {
	s.nextID = id
}

// Spawn creates a fed, healthy unit standing at pos.
func (s *Spawner) Spawn(pos world.Pixel, now uint64) *Unit {
	id := s.nextID
	s.nextID++
	return &Unit{
		ID:               id,
		Name:             s.generateName(),
		Pos:              pos,
		Health:           s.needs.MaxHealth,
		Hunger:           s.needs.MaxHunger,
		Morality:         s.needs.MaxMorality,
		Alive:            true,
		LastHungerUpdate: now,
	}
}

// SpawnPopulation places count units on random walkable tiles.
// Fewer are returned if the grid has too little open ground.
func (s *Spawner) SpawnPopulation(g *world.Grid, count int, now uint64) []*Unit {
	units := make([]*Unit, 0, count)
	for i := 0; i < count; i++ {
		c, ok := world.RandomWalkable(g, s.rng, 200)
		if !ok {
			break
		}
		units = append(units, s.Spawn(g.GridToPixel(c), now))
	}
	return units
}

func (s *Spawner) generateName() string {
	firsts := maleNames
	if s.rng.Intn(2) == 1 {
		firsts = femaleNames
	}
	first := firsts[s.rng.Intn(len(firsts))]
	last := lastNames[s.rng.Intn(len(lastNames))]
	return first + " " + last
}

var maleNames = []string{
	"Aldric", "Bram", "Cedric", "Doran", "Erik", "Finn", "Gareth",
	"Halvard", "Ivan", "Jasper", "Kael", "Leif", "Magnus", "Nils",
	"Oswin", "Per", "Quinn", "Rowan", "Stellan", "Theron", "Ulric",
}

var femaleNames = []string{
	"Astrid", "Brenna", "Calla", "Daria", "Elara", "Freya", "Greta",
	"Helene", "Iris", "Juno", "Kira", "Lena", "Mira", "Nessa",
	"Olwen", "Petra", "Runa", "Senna", "Thea", "Una", "Vera",
}

var lastNames = []string{
	"Voss", "Thornwood", "Ashford", "Dunmore", "Greenvale", "Millward",
	"Copperfield", "Silverdale", "Stoneheart", "Deepwell", "Brightwater",
	"Marshwood", "Riverstone", "Holloway", "Farrow", "Thatcher",
	"Briar", "Caldwell", "Harper", "Mercer", "Ward",
}

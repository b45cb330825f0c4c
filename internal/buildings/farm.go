package buildings

import (
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/world"
)

// Plot is one farm slot. A planted plot holds the seed it was sown with.
type Plot struct {
	Seed      items.ID `json:"seed,omitempty"`
	PlantedAt uint64   `json:"planted_at,omitempty"`
}

// Planted reports whether the plot holds a seed.
func (p Plot) Planted() bool { return p.Seed != 0 }

// Farm is a unit's field: nine plots, each growing one seed.
type Farm struct {
	Owner world.UnitID `json:"owner"`
	Rect  world.Rect   `json:"rect"`
	plots [Slots]Plot
}

// Ripe reports whether a seed planted at plantedAt has finished growing by now.
func Ripe(plantedAt, now, growth uint64) bool {
	return now >= plantedAt && now-plantedAt >= growth
}

// Plant sows seed in the first empty plot, stamping it with now.
// Returns false when every plot is in use.
func (f *Farm) Plant(seed items.ID, now uint64) (int, bool) {
	if seed == 0 {
		return 0, false
	}
	i, ok := f.FreePlot()
	if !ok {
		return 0, false
	}
	f.plots[i] = Plot{Seed: seed, PlantedAt: now}
	return i, true
}

// FreePlot returns the lowest unsown plot.
func (f *Farm) FreePlot() (int, bool) {
	for i := range f.plots {
		if !f.plots[i].Planted() {
			return i, true
		}
	}
	return 0, false
}

// Plot returns plot i.
func (f *Farm) Plot(i int) Plot {
	if i < 0 || i >= Slots {
		return Plot{}
	}
	return f.plots[i]
}

// RipePlot returns the lowest ripe plot.
func (f *Farm) RipePlot(now, growth uint64) (int, bool) {
	for i, p := range f.plots {
		if p.Planted() && Ripe(p.PlantedAt, now, growth) {
			return i, true
		}
	}
	return 0, false
}

// Harvest clears plot i and returns the seed that grew there.
func (f *Farm) Harvest(i int) (items.ID, bool) {
	if i < 0 || i >= Slots || !f.plots[i].Planted() {
		return 0, false
	}
	seed := f.plots[i].Seed
	f.plots[i] = Plot{}
	return seed, true
}

// Planted returns the number of sown plots.
func (f *Farm) Planted() int {
	n := 0
	for _, p := range f.plots {
		if p.Planted() {
			n++
		}
	}
	return n
}

// HasSpace reports whether Plant would succeed.
func (f *Farm) HasSpace() bool { return f.Planted() < Slots }

// Plots returns a copy of every plot in slot order.
func (f *Farm) Plots() []Plot {
	out := make([]Plot, Slots)
	copy(out, f.plots[:])
	return out
}

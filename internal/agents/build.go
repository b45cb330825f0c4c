package agents

import (
	"github.com/talgya/hamlet/internal/buildings"
	"github.com/talgya/hamlet/internal/world"
)

// Build raises a house, or a farm next to the unit's house.
// The site is chosen once; if it is taken before arrival the build is abandoned.
type Build struct {
	Structure buildings.Kind

	site   world.GridCoord
	chosen bool
}

func (b *Build) step(u *Unit, env *Env) status {
	reg := env.Buildings
	var preferred world.GridCoord

	switch b.Structure {
	case buildings.KindHouse:
		if reg.House(u.ID) != nil {
			return done
		}
		preferred = u.Cell(env.Grid)
	case buildings.KindFarm:
		house := reg.House(u.ID)
		if house == nil {
			return abandoned
		}
		if reg.Farm(u.ID) != nil {
			return done
		}
		preferred = house.Rect.Origin.Add(env.Tuning.Search.FarmOffset, 0)
	default:
		return abandoned
	}

	if !b.chosen {
		site, ok := world.FindSite(env.Grid, preferred, env.Tuning.Search.BuildRadius, reg.Occupied)
		if !ok {
			return abandoned
		}
		b.site, b.chosen = site, true
	}

	switch travelTo(u, env, b.site) {
	case unreachable:
		return abandoned
	case enRoute:
		return running
	}

	var ok bool
	if b.Structure == buildings.KindHouse {
		_, ok = reg.AddHouse(u.ID, b.site)
	} else {
		_, ok = reg.AddFarm(u.ID, b.site)
	}
	if !ok {
		return abandoned
	}
	env.logger().Debug("structure built", "unit", u.ID, "kind", b.Structure.String(), "x", b.site.X, "y", b.site.Y)
	env.record("build", "%s built a %s at (%d,%d)", u.Name, b.Structure, b.site.X, b.site.Y)
	return done
}

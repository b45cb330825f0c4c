// Needs decay: hunger falls on a fixed interval; starvation erodes morality
// and health, a full stomach slowly restores morality.
package agents

import "github.com/talgya/hamlet/internal/config"

// maxNeedSteps bounds catch-up after a long pause in the clock.
const maxNeedSteps = 1000

// UpdateNeeds applies every hunger interval elapsed since the unit's last
// update. It reports whether the unit died of starvation.
func UpdateNeeds(u *Unit, t *config.NeedsTuning, now uint64) bool {
	if !u.Alive {
		return false
	}
	if now < u.LastHungerUpdate || u.LastHungerUpdate == 0 {
		u.LastHungerUpdate = now
		return false
	}

	steps := (now - u.LastHungerUpdate) / t.HungerIntervalMs
	if steps == 0 {
		return false
	}
	u.LastHungerUpdate += steps * t.HungerIntervalMs
	if steps > maxNeedSteps {
		steps = maxNeedSteps
	}

	for i := uint64(0); i < steps; i++ {
		u.Hunger = clamp(u.Hunger-t.HungerDecay, 0, t.MaxHunger)
		switch {
		case u.Hunger < t.StarvingThreshold:
			u.Morality = clamp(u.Morality-t.MoralityDecay, 0, t.MaxMorality)
			u.Health = clamp(u.Health-t.StarveDamage, 0, t.MaxHealth)
		case u.Hunger >= t.HungryThreshold:
			u.Morality = clamp(u.Morality+t.MoralityRecovery, 0, t.MaxMorality)
		}
		if u.Health == 0 {
			u.Alive = false
			return true
		}
	}
	return false
}

// Hungry reports whether food-seeking triggers should fire.
func Hungry(u *Unit, t *config.NeedsTuning) bool {
	return u.Hunger < t.HungryThreshold
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package config holds the tuning values consumed by the simulation core.
// Defaults are built in; a YAML file may override any subset of them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for values the simulation cannot run with.
var ErrInvalid = errors.New("invalid tuning")

// Tuning is the full set of simulation knobs. Durations are in milliseconds
// of simulated clock.
type Tuning struct {
	World      WorldTuning     `yaml:"world"`
	TickMs     uint64          `yaml:"tick_ms"`
	Movement   MovementTuning  `yaml:"movement"`
	Priorities Priorities      `yaml:"priorities"`
	Needs      NeedsTuning     `yaml:"needs"`
	Search     SearchTuning    `yaml:"search"`
	Farming    FarmingTuning   `yaml:"farming"`
	Market     MarketTuning    `yaml:"market"`
	Combat     CombatTuning    `yaml:"combat"`
	Spawn      SpawnTuning     `yaml:"spawn"`
	Chronicle  ChronicleTuning `yaml:"chronicle"`
}

type WorldTuning struct {
	WidthPx    int     `yaml:"width_px"`
	HeightPx   int     `yaml:"height_px"`
	TileSize   int     `yaml:"tile_size"`
	WaterLevel float64 `yaml:"water_level"`
	RockLevel  float64 `yaml:"rock_level"`
	ClearEdge  int     `yaml:"clear_edge"`
}

type MovementTuning struct {
	DelayMs      uint64 `yaml:"delay_ms"`       // Time between tile steps
	ChaseDelayMs uint64 `yaml:"chase_delay_ms"` // Step time while pursuing a fight target
}

// Priorities ranks action kinds. A strictly higher priority preempts.
type Priorities struct {
	Wander         int `yaml:"wander"`
	Eat            int `yaml:"eat"`
	BringToHouse   int `yaml:"bring_to_house"`
	EatFromStorage int `yaml:"eat_from_storage"`
	Build          int `yaml:"build"`
	Sell           int `yaml:"sell"`
	Buy            int `yaml:"buy"`
	Steal          int `yaml:"steal"`
	Fight          int `yaml:"fight"`
	Plant          int `yaml:"plant"`
	Harvest        int `yaml:"harvest"`
}

type NeedsTuning struct {
	MaxHunger         int    `yaml:"max_hunger"`
	HungerIntervalMs  uint64 `yaml:"hunger_interval_ms"` // Time per hunger decay step
	HungerDecay       int    `yaml:"hunger_decay"`
	HungryThreshold   int    `yaml:"hungry_threshold"`   // Below this, food triggers fire
	StarvingThreshold int    `yaml:"starving_threshold"` // Below this, morality and health drop
	StarveDamage      int    `yaml:"starve_damage"`
	MaxMorality       int    `yaml:"max_morality"`
	MoralityDecay     int    `yaml:"morality_decay"`
	MoralityRecovery  int    `yaml:"morality_recovery"`
	ThiefMorality     int    `yaml:"thief_morality"` // At or below this a hungry unit steals
	MaxHealth         int    `yaml:"max_health"`
}

type SearchTuning struct {
	ItemRadius     int `yaml:"item_radius"`  // Tiles; 0 = unlimited
	BuildRadius    int `yaml:"build_radius"` // Rings searched for a free footprint
	FarmOffset     int `yaml:"farm_offset"`  // Preferred distance of a farm from its house
	WanderAttempts int `yaml:"wander_attempts"`
	WanderOffset   int `yaml:"wander_offset"` // Max per-axis wander distance in tiles
	FightRadius    int `yaml:"fight_radius"`  // Victims notice thieves within this many tiles
}

type FarmingTuning struct {
	GrowthMs uint64 `yaml:"growth_ms"`
}

type MarketTuning struct {
	StallTimeoutMs uint64 `yaml:"stall_timeout_ms"`
	SellSurplus    int    `yaml:"sell_surplus"` // Stored food at which a unit sells one
}

type CombatTuning struct {
	Damage int `yaml:"damage"`
	Range  int `yaml:"range"` // Tiles
}

type SpawnTuning struct {
	Units        int    `yaml:"units"`
	Food         int    `yaml:"food"`
	Seeds        int    `yaml:"seeds"`
	Coins        int    `yaml:"coins"`
	Markets      int    `yaml:"markets"`
	FoodEveryMs  uint64 `yaml:"food_every_ms"`
	SeedsEveryMs uint64 `yaml:"seeds_every_ms"`
	MaxFreeFood  int    `yaml:"max_free_food"`
	MaxFreeSeeds int    `yaml:"max_free_seeds"`
}

type ChronicleTuning struct {
	RecentEvents int    `yaml:"recent_events"` // In-memory ring size
	FlushEveryMs uint64 `yaml:"flush_every_ms"`
}

// Default returns the built-in tuning.
func Default() Tuning {
	return Tuning{
		World: WorldTuning{
			WidthPx:    1920,
			HeightPx:   1000,
			TileSize:   40,
			WaterLevel: 0.22,
			RockLevel:  0.80,
			ClearEdge:  1,
		},
		TickMs: 50,
		Movement: MovementTuning{
			DelayMs:      200,
			ChaseDelayMs: 50,
		},
		Priorities: Priorities{
			Wander:         1,
			BringToHouse:   3,
			Plant:          4,
			Sell:           4,
			Harvest:        5,
			Build:          6,
			Buy:            7,
			EatFromStorage: 8,
			Eat:            8,
			Steal:          9,
			Fight:          10,
		},
		Needs: NeedsTuning{
			MaxHunger:         100,
			HungerIntervalMs:  1000,
			HungerDecay:       1,
			HungryThreshold:   50,
			StarvingThreshold: 10,
			StarveDamage:      1,
			MaxMorality:       100,
			MoralityDecay:     2,
			MoralityRecovery:  1,
			ThiefMorality:     30,
			MaxHealth:         100,
		},
		Search: SearchTuning{
			ItemRadius:     0,
			BuildRadius:    8,
			FarmOffset:     4,
			WanderAttempts: 10,
			WanderOffset:   5,
			FightRadius:    6,
		},
		Farming: FarmingTuning{GrowthMs: 30_000},
		Market: MarketTuning{
			StallTimeoutMs: 10_000,
			SellSurplus:    3,
		},
		Combat: CombatTuning{Damage: 20, Range: 1},
		Spawn: SpawnTuning{
			Units:        12,
			Food:         40,
			Seeds:        15,
			Coins:        30,
			Markets:      1,
			FoodEveryMs:  2_000,
			SeedsEveryMs: 6_000,
			MaxFreeFood:  60,
			MaxFreeSeeds: 20,
		},
		Chronicle: ChronicleTuning{
			RecentEvents: 200,
			FlushEveryMs: 5_000,
		},
	}
}

// Load reads a YAML file over Default and validates the result.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects sizes and cadences the simulation cannot run with.
func (t Tuning) Validate() error {
	switch {
	case t.World.WidthPx <= 0 || t.World.HeightPx <= 0:
		return fmt.Errorf("%w: world size %dx%d", ErrInvalid, t.World.WidthPx, t.World.HeightPx)
	case t.World.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalid, t.World.TileSize)
	case t.TickMs == 0:
		return fmt.Errorf("%w: tick_ms must be positive", ErrInvalid)
	case t.Movement.DelayMs == 0 || t.Movement.ChaseDelayMs == 0:
		return fmt.Errorf("%w: movement delays must be positive", ErrInvalid)
	case t.Needs.MaxHunger <= 0 || t.Needs.MaxHealth <= 0 || t.Needs.MaxMorality <= 0:
		return fmt.Errorf("%w: need maxima must be positive", ErrInvalid)
	case t.Needs.HungerIntervalMs == 0:
		return fmt.Errorf("%w: hunger_interval_ms must be positive", ErrInvalid)
	case t.Search.WanderAttempts <= 0 || t.Search.WanderOffset <= 0:
		return fmt.Errorf("%w: wander attempts and offset must be positive", ErrInvalid)
	case t.Combat.Range <= 0:
		return fmt.Errorf("%w: combat range must be positive", ErrInvalid)
	case t.Spawn.Units < 0 || t.Spawn.Food < 0 || t.Spawn.Seeds < 0 || t.Spawn.Coins < 0 || t.Spawn.Markets < 0:
		return fmt.Errorf("%w: spawn counts must not be negative", ErrInvalid)
	}
	return nil
}

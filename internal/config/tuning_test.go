package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	d := Default()
	require.NoError(t, d.Validate())
	assert.Greater(t, d.Priorities.Fight, d.Priorities.Steal)
	assert.Greater(t, d.Priorities.Eat, d.Priorities.BringToHouse)
	assert.Greater(t, d.Movement.DelayMs, d.Movement.ChaseDelayMs)
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
tick_ms: 25
movement:
  delay_ms: 120
farming:
  growth_ms: 900
spawn:
  units: 3
`), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(25), got.TickMs)
	assert.Equal(t, uint64(120), got.Movement.DelayMs)
	assert.Equal(t, Default().Movement.ChaseDelayMs, got.Movement.ChaseDelayMs, "unset keys keep defaults")
	assert.Equal(t, uint64(900), got.Farming.GrowthMs)
	assert.Equal(t, 3, got.Spawn.Units)
	assert.Equal(t, Default().Priorities, got.Priorities)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tick_ms: [oops"), 0o644))
	_, err = Load(bad)
	assert.Error(t, err)

	zero := filepath.Join(t.TempDir(), "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("world:\n  tile_size: 0\n"), 0o644))
	_, err = Load(zero)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
	}{
		{"zero tick", func(t *Tuning) { t.TickMs = 0 }},
		{"zero move delay", func(t *Tuning) { t.Movement.DelayMs = 0 }},
		{"negative width", func(t *Tuning) { t.World.WidthPx = -1 }},
		{"no wander attempts", func(t *Tuning) { t.Search.WanderAttempts = 0 }},
		{"negative units", func(t *Tuning) { t.Spawn.Units = -2 }},
		{"zero hunger interval", func(t *Tuning) { t.Needs.HungerIntervalMs = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}
}

// Command worldsim runs the hamlet tile-world simulation.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/hamlet/internal/api"
	"github.com/talgya/hamlet/internal/config"
	"github.com/talgya/hamlet/internal/engine"
	"github.com/talgya/hamlet/internal/entropy"
	"github.com/talgya/hamlet/internal/persistence"
	"github.com/talgya/hamlet/internal/world"
)

func main() {
	configPath := flag.String("config", "", "YAML tuning file (defaults built in)")
	dbPath := flag.String("db", "data/hamlet.db", "event chronicle database")
	apiPort := flag.Int("port", 8080, "HTTP API port")
	seedFlag := flag.Int64("seed", 0, "world seed (0 = reuse saved seed or draw a new one)")
	debug := flag.Bool("debug", false, "log scheduler decisions")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("hamlet: tile-world simulation")

	// ── Tuning ───────────────────────────────────────────────────────
	tun := config.Default()
	if *configPath != "" {
		var err error
		tun, err = config.Load(*configPath)
		if err != nil {
			slog.Error("failed to load tuning", "path", *configPath, "error", err)
			os.Exit(1)
		}
		slog.Info("tuning loaded", "path", *configPath)
	}

	// ── Chronicle ────────────────────────────────────────────────────
	if err := os.MkdirAll(filepath.Dir(*dbPath), 0o755); err != nil {
		slog.Error("failed to create data directory", "error", err)
		os.Exit(1)
	}
	db, err := persistence.Open(*dbPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", *dbPath)

	seed, startTick := resolveSeed(db, *seedFlag)
	if err := db.SaveMeta("seed", strconv.FormatInt(seed, 10)); err != nil {
		slog.Error("failed to record seed", "error", err)
	}

	// ── World ────────────────────────────────────────────────────────
	gen := world.GenConfig{
		WidthPx:    tun.World.WidthPx,
		HeightPx:   tun.World.HeightPx,
		TileSize:   tun.World.TileSize,
		Seed:       seed,
		WaterLevel: tun.World.WaterLevel,
		RockLevel:  tun.World.RockLevel,
		ClearEdge:  tun.World.ClearEdge,
	}
	grid := world.Generate(gen)
	slog.Info("world generated",
		"seed", seed,
		"tiles", fmt.Sprintf("%dx%d", grid.Width(), grid.Height()),
		"walkable", grid.WalkableCount(),
	)

	sim := engine.NewSimulation(grid, tun, entropy.NewSeeded(seed+1), logger)
	sim.Populate(startTick)

	eng := engine.NewEngine(sim)
	eng.OnFlush = func(events []engine.Event) {
		if err := db.Flush(sim.CurrentTick(), events); err != nil {
			slog.Error("chronicle flush failed", "error", err, "events", len(events))
		}
	}

	// ── API ──────────────────────────────────────────────────────────
	adminKey := os.Getenv("HAMLET_ADMIN_KEY")
	if adminKey == "" {
		slog.Warn("HAMLET_ADMIN_KEY not set, admin POST endpoints will be disabled")
	}
	apiServer := api.NewServer(sim, eng, db, *apiPort)
	apiServer.AdminKey = adminKey
	httpServer := apiServer.Start()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("\nHamlet is alive: %d units on a %dx%d grid.\n", len(sim.Units), grid.Width(), grid.Height())
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", *apiPort)
	if startTick > 0 {
		fmt.Printf("Resuming clock at %s\n", engine.SimTime(startTick))
	}
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP shutdown failed", "error", err)
	}
	fmt.Println("Simulation stopped. Events saved.")
}

// resolveSeed picks the world seed and starting clock. An explicit flag wins;
// otherwise a saved seed is reused so the terrain stays the same across
// restarts, and a fresh one is drawn from random.org or crypto/rand.
func resolveSeed(db *persistence.DB, flagSeed int64) (seed int64, startTick uint64) {
	if v, err := db.GetMeta("last_tick"); err == nil {
		if t, err := strconv.ParseUint(v, 10, 64); err == nil {
			startTick = t
		}
	}

	if flagSeed != 0 {
		return flagSeed, startTick
	}

	saved, err := db.GetMeta("seed")
	switch {
	case err == nil:
		if s, perr := strconv.ParseInt(saved, 10, 64); perr == nil && s != 0 {
			slog.Info("reusing saved world seed", "seed", s)
			return s, startTick
		}
	case !errors.Is(err, persistence.ErrNoMeta):
		slog.Warn("could not read saved seed", "error", err)
	}

	rc := entropy.NewClient(os.Getenv("RANDOM_ORG_API_KEY"))
	if rc.Enabled() {
		slog.Info("drawing world seed from random.org")
	}
	return rc.Seed(), startTick
}

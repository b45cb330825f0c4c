// Package engine provides the tick-based simulation loop.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Engine drives the simulation forward on a fixed simulated cadence.
type Engine struct {
	Sim *Simulation

	Now    uint64 // Simulated clock in ms (monotonic, never resets)
	StepMs uint64 // Simulated ms per tick

	// Interval is the real time between ticks at speed 1.
	Interval time.Duration

	// OnFlush receives drained events every FlushEvery simulated ms.
	OnFlush    func(events []Event)
	FlushEvery uint64

	mu        sync.Mutex
	speed     float64 // 1.0 = real-time, 0 = paused
	running   bool
	lastFlush uint64
	stop      chan struct{}
}

// NewEngine creates an engine that continues sim's clock from its last tick.
func NewEngine(sim *Simulation) *Engine {
	step := sim.Tuning.TickMs
	if step == 0 {
		step = 50
	}
	return &Engine{
		Sim:        sim,
		Now:        sim.CurrentTick(),
		StepMs:     step,
		Interval:   time.Duration(step) * time.Millisecond,
		FlushEvery: sim.Tuning.Chronicle.FlushEveryMs,
		speed:      1.0,
		lastFlush:  sim.CurrentTick(),
	}
}

// Run ticks the simulation until ctx is done or Stop is called.
// Remaining events are flushed before it returns.
func (e *Engine) Run(ctx context.Context) {
	e.mu.Lock()
	e.running = true
	e.stop = make(chan struct{})
	stop := e.stop
	e.mu.Unlock()

	slog.Info("simulation engine started", "now", e.Now, "step_ms", e.StepMs, "speed", e.Speed())
	defer func() {
		e.flush()
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
		slog.Info("simulation engine stopped", "now", e.Now)
	}()

	for {
		speed := e.Speed()
		wait := 100 * time.Millisecond
		if speed > 0 {
			start := time.Now()
			e.Step()
			wait = time.Duration(float64(e.Interval)/speed) - time.Since(start)
		}

		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-time.After(max(wait, 0)):
		}
	}
}

// Stop halts a running loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.running && e.stop != nil {
		close(e.stop)
		e.stop = nil
	}
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. Zero pauses; negatives are clamped.
func (e *Engine) SetSpeed(speed float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = max(speed, 0)
}

// Step moves the clock forward and ticks the simulation once.
func (e *Engine) Step() {
	e.Now += e.StepMs
	e.Sim.Tick(e.Now)

	if e.FlushEvery > 0 && e.Now-e.lastFlush >= e.FlushEvery {
		e.flush()
	}
}

func (e *Engine) flush() {
	e.lastFlush = e.Now
	if e.OnFlush == nil {
		return
	}
	if events := e.Sim.DrainEvents(); len(events) > 0 {
		e.OnFlush(events)
	}
}

// SimTime formats a simulated clock value as elapsed h:mm:ss.mmm.
func SimTime(now uint64) string {
	ms := now % 1000
	secs := now / 1000
	return fmt.Sprintf("%d:%02d:%02d.%03d", secs/3600, secs/60%60, secs%60, ms)
}

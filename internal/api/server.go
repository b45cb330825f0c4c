// Package api provides the HTTP API for observing the world.
// GET endpoints and the websocket stream are public (read-only observation).
// POST endpoints require a bearer token (admin control plane).
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/talgya/hamlet/internal/engine"
	"github.com/talgya/hamlet/internal/items"
	"github.com/talgya/hamlet/internal/persistence"
	"github.com/talgya/hamlet/internal/world"
)

const (
	maxStreamConns   = 8
	defaultEventPage = 50
	maxEventPage     = 500
)

// Server serves the world state over HTTP.
type Server struct {
	Sim      *engine.Simulation
	Eng      *engine.Engine
	DB       *persistence.DB // Optional; events fall back to memory
	Port     int
	AdminKey string // Bearer token for POST endpoints. Empty = POST disabled.

	// StreamEvery is the interval between snapshot frames on the stream.
	StreamEvery time.Duration

	// Limiter throttles GET requests per client IP. Nil disables it.
	Limiter *RateLimiter

	upgrader    websocket.Upgrader
	streamConns atomic.Int32
}

// NewServer creates a server for sim with default stream and rate settings.
func NewServer(sim *engine.Simulation, eng *engine.Engine, db *persistence.DB, port int) *Server {
	return &Server{
		Sim:         sim,
		Eng:         eng,
		DB:          db,
		Port:        port,
		StreamEvery: 250 * time.Millisecond,
		Limiter:     NewRateLimiter(600, time.Minute),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // read-only feed
		},
	}
}

// Handler returns the full route table wrapped in CORS handling.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Public endpoints (GET, read-only: anyone can watch the world).
	mux.HandleFunc("GET /api/v1/status", s.limited(s.handleStatus))
	mux.HandleFunc("GET /api/v1/stats", s.limited(s.handleStats))
	mux.HandleFunc("GET /api/v1/units", s.limited(s.handleUnits))
	mux.HandleFunc("GET /api/v1/units/{id}", s.limited(s.handleUnitDetail))
	mux.HandleFunc("GET /api/v1/items", s.limited(s.handleItems))
	mux.HandleFunc("GET /api/v1/buildings", s.limited(s.handleBuildings))
	mux.HandleFunc("GET /api/v1/events", s.limited(s.handleEvents))
	mux.HandleFunc("GET /api/v1/grid", s.limited(s.handleGrid))
	mux.HandleFunc("GET /api/v1/cell/{x}/{y}", s.limited(s.handleCell))

	// Snapshot and event feed for renderers.
	mux.HandleFunc("GET /api/v1/stream", s.handleStream)

	// Admin endpoints (POST, require bearer token).
	mux.HandleFunc("POST /api/v1/speed", s.adminOnly(s.handleSpeed))

	return corsMiddleware(mux)
}

// Start begins serving the HTTP API in a goroutine. The returned server
// may be shut down by the caller.
func (s *Server) Start() *http.Server {
	addr := fmt.Sprintf(":%d", s.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("HTTP API starting", "addr", addr, "admin_auth", s.AdminKey != "", "chronicle", s.DB != nil)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server error", "error", err)
		}
	}()
	return srv
}

// corsMiddleware adds CORS headers for allowed frontend origins.
// Set HAMLET_CORS_ORIGINS to a comma-separated list of allowed origins.
// Localhost dev servers are always allowed.
func corsMiddleware(next http.Handler) http.Handler {
	allowedOrigins := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:4173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("HAMLET_CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				allowedOrigins[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) limited(next http.HandlerFunc) http.HandlerFunc {
	if s.Limiter == nil {
		return next
	}
	return RateLimitMiddleware(s.Limiter, next)
}

func (s *Server) checkBearerToken(r *http.Request) bool {
	auth := r.Header.Get("Authorization")
	return strings.HasPrefix(auth, "Bearer ") && strings.TrimPrefix(auth, "Bearer ") == s.AdminKey
}

// adminOnly wraps a handler to require a valid admin bearer token.
func (s *Server) adminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.AdminKey == "" {
			http.Error(w, "admin endpoints disabled (no admin key)", http.StatusForbidden)
			return
		}
		if !s.checkBearerToken(r) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	tick := s.Sim.CurrentTick()
	stats := s.Sim.StatsSnapshot()
	status := map[string]any{
		"name":       "hamlet",
		"tick":       tick,
		"sim_time":   engine.SimTime(tick),
		"population": stats.Population,
		"deaths":     stats.Deaths,
		"houses":     stats.Houses,
		"farms":      stats.Farms,
	}
	if s.Eng != nil {
		status["speed"] = s.Eng.Speed()
		status["running"] = s.Eng.Running()
	}
	writeJSON(w, status)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"stats": s.Sim.StatsSnapshot()}
	if s.DB != nil {
		counts, err := s.DB.EventCounts()
		if err != nil {
			slog.Error("event counts", "error", err)
			http.Error(w, "chronicle unavailable", http.StatusInternalServerError)
			return
		}
		resp["event_counts"] = counts
	}
	writeJSON(w, resp)
}

func (s *Server) handleUnits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.UnitSnapshots())
}

func (s *Server) handleUnitDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid unit id", http.StatusBadRequest)
		return
	}
	u, ok := s.Sim.UnitSnapshot(world.UnitID(id))
	if !ok {
		http.Error(w, "unit not found", http.StatusNotFound)
		return
	}
	writeJSON(w, u)
}

// handleItems lists items, optionally filtered by ?kind=food|seed|coin and
// ?state=free|carried|stored.
func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	kind := r.URL.Query().Get("kind")
	state := r.URL.Query().Get("state")

	all := s.Sim.ItemSnapshots()
	out := make([]items.Snapshot, 0, len(all))
	for _, it := range all {
		if kind != "" && it.Kind != kind {
			continue
		}
		if state != "" && it.State != state {
			continue
		}
		out = append(out, it)
	}
	writeJSON(w, out)
}

func (s *Server) handleBuildings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.BuildingSnapshots())
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Sim.GridSnapshot())
}

// handleCell returns what stands on one tile.
func (s *Server) handleCell(w http.ResponseWriter, r *http.Request) {
	x, errX := strconv.Atoi(r.PathValue("x"))
	y, errY := strconv.Atoi(r.PathValue("y"))
	if errX != nil || errY != nil {
		http.Error(w, "invalid coordinates", http.StatusBadRequest)
		return
	}
	cell, ok := s.Sim.CellSnapshot(world.GridCoord{X: x, Y: y})
	if !ok {
		http.Error(w, "cell out of bounds", http.StatusNotFound)
		return
	}
	writeJSON(w, cell)
}

// handleEvents returns recent events, newest first.
// Query: ?limit=N (default 50, max 500), ?category=trade
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	limit := defaultEventPage
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = min(n, maxEventPage)
	}
	category := r.URL.Query().Get("category")

	if s.DB != nil {
		events, err := s.DB.RecentEvents(limit, category)
		if err != nil {
			slog.Error("recent events", "error", err)
			http.Error(w, "chronicle unavailable", http.StatusInternalServerError)
			return
		}
		writeJSON(w, events)
		return
	}

	recent := s.Sim.RecentEvents(0)
	out := make([]engine.Event, 0, limit)
	for i := len(recent) - 1; i >= 0 && len(out) < limit; i-- {
		if category == "" || recent[i].Category == category {
			out = append(out, recent[i])
		}
	}
	writeJSON(w, out)
}

func (s *Server) handleSpeed(w http.ResponseWriter, r *http.Request) {
	if s.Eng == nil {
		http.Error(w, "engine not attached", http.StatusServiceUnavailable)
		return
	}
	var req struct {
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON body", http.StatusBadRequest)
		return
	}
	if req.Speed < 0 || req.Speed > 100 {
		http.Error(w, "speed must be between 0 and 100", http.StatusBadRequest)
		return
	}
	s.Eng.SetSpeed(req.Speed)
	slog.Info("speed changed", "speed", req.Speed)
	writeJSON(w, map[string]any{"speed": s.Eng.Speed()})
}

// streamMessage is one frame on the websocket feed.
type streamMessage struct {
	Type string `json:"type"` // "snapshot" or "event"
	Data any    `json:"data"`
}

// handleStream upgrades to a websocket and pushes a world snapshot every
// StreamEvery plus each event as it happens. Client messages are ignored.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	if s.streamConns.Add(1) > maxStreamConns {
		s.streamConns.Add(-1)
		http.Error(w, "too many stream connections", http.StatusServiceUnavailable)
		return
	}
	defer s.streamConns.Add(-1)

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	subID, events := s.Sim.Subscribe()
	defer s.Sim.Unsubscribe(subID)
	slog.Info("stream client connected", "sub_id", subID, "remote", r.RemoteAddr)

	// Reader: only detects the peer going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func(kind string, data any) error {
		_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		return conn.WriteJSON(streamMessage{Type: kind, Data: data})
	}

	if err := send("snapshot", s.Sim.Snapshot()); err != nil {
		return
	}

	every := s.StreamEvery
	if every <= 0 {
		every = time.Second
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			slog.Info("stream client disconnected", "sub_id", subID)
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := send("event", e); err != nil {
				return
			}
		case <-ticker.C:
			if err := send("snapshot", s.Sim.Snapshot()); err != nil {
				return
			}
		}
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		slog.Debug("write response", "error", err)
	}
}

// Package entropy provides the randomness injected into the simulation.
// Simulation code draws only from a Source so runs are reproducible from a seed.
// A random.org client can supply the seed itself, falling back to crypto/rand.
package entropy

import (
	"bytes"
	"crypto/rand"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	mrand "math/rand"
	"net/http"
	"sync"
	"time"
)

// Source is the random stream consumed by the scheduler and engine.
type Source interface {
	Intn(n int) int
	Float64() float64
}

// seeded is a deterministic Source backed by math/rand.
type seeded struct {
	r *mrand.Rand
}

// NewSeeded returns a deterministic Source. Equal seeds yield equal streams.
func NewSeeded(seed int64) Source {
	return &seeded{r: mrand.New(mrand.NewSource(seed))}
}

func (s *seeded) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return s.r.Intn(n)
}

func (s *seeded) Float64() float64 { return s.r.Float64() }

// Client fetches true random integers from random.org with a local pool.
type Client struct {
	apiKey string
	client *http.Client

	mu   sync.Mutex
	pool []int64
}

// NewClient creates a random.org client. Returns nil if apiKey is empty.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Seed returns a world seed. Uses the pool, refilling from random.org when
// empty. Falls back to crypto/rand on API failure or a nil client.
func (c *Client) Seed() int64 {
	if c == nil {
		return CryptoSeed()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) == 0 {
		if err := c.refill(); err != nil {
			slog.Debug("random.org refill failed", "error", err)
		}
	}
	if len(c.pool) == 0 {
		return CryptoSeed()
	}

	val := c.pool[0]
	c.pool = c.pool[1:]
	return val
}

func (c *Client) refill() error {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateIntegers",
		"params": map[string]any{
			"apiKey": c.apiKey,
			"n":      8,
			"min":    1,
			"max":    math.MaxInt32,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.client.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	var result struct {
		Result struct {
			Random struct {
				Data []int64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	if result.Error != nil {
		return fmt.Errorf("api error: %s", result.Error.Message)
	}

	c.pool = append(c.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
	return nil
}

// Enabled returns true if the client has a valid API key.
func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// CryptoSeed returns a positive seed drawn from crypto/rand.
func CryptoSeed() int64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return time.Now().UnixNano()
	}
	n := int64(binary.LittleEndian.Uint64(buf[:]) >> 1)
	if n == 0 {
		n = 1
	}
	return n
}

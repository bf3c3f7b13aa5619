package session

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultMaxIdle         = 24 * time.Hour
	DefaultMaxTurns        = 500
	DefaultCleanupInterval = 15 * time.Minute
)

// Cleanup evicts idle sessions and prunes long histories on a timer.
type Cleanup struct {
	store    *Store
	maxIdle  time.Duration
	maxTurns int
	interval time.Duration
	stopCh   chan struct{}
	running  bool
}

// NewCleanup creates a cleanup handler for the store. A zero maxIdle or
// maxTurns falls back to the defaults; negative values disable the
// corresponding pass.
func NewCleanup(store *Store, maxIdle time.Duration, maxTurns int) *Cleanup {
	if maxIdle == 0 {
		maxIdle = DefaultMaxIdle
	}
	if maxTurns == 0 {
		maxTurns = DefaultMaxTurns
	}

	return &Cleanup{
		store:    store,
		maxIdle:  maxIdle,
		maxTurns: maxTurns,
		interval: DefaultCleanupInterval,
		stopCh:   make(chan struct{}),
	}
}

// SetInterval overrides how often the cleanup pass runs. Must be called
// before Start.
func (c *Cleanup) SetInterval(interval time.Duration) {
	if interval > 0 {
		c.interval = interval
	}
}

// Start starts the cleanup loop.
func (c *Cleanup) Start() error {
	if c.running {
		return fmt.Errorf("cleanup is already running")
	}

	c.running = true
	go c.run()

	log.Info().
		Dur("max_idle", c.maxIdle).
		Int("max_turns", c.maxTurns).
		Dur("interval", c.interval).
		Msg("Session cleanup started")

	return nil
}

// Stop stops the cleanup loop.
func (c *Cleanup) Stop() error {
	if !c.running {
		return fmt.Errorf("cleanup is not running")
	}

	close(c.stopCh)
	c.running = false

	log.Info().Msg("Session cleanup stopped")

	return nil
}

// IsRunning returns whether the cleanup loop is running.
func (c *Cleanup) IsRunning() bool {
	return c.running
}

func (c *Cleanup) run() {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.CleanupNow()
		case <-c.stopCh:
			return
		}
	}
}

// CleanupNow immediately runs one cleanup pass.
func (c *Cleanup) CleanupNow() {
	now := time.Now()
	evicted := 0

	for _, id := range c.store.List() {
		if dropped := c.store.pruneHistory(id, c.maxTurns); dropped > 0 {
			log.Debug().
				Str("session_id", id).
				Int("dropped", dropped).
				Msg("Session history pruned")
		}

		if c.maxIdle <= 0 {
			continue
		}

		lastActive := c.store.idleSince(id)
		if lastActive.IsZero() {
			continue
		}

		if age := now.Sub(lastActive); age >= c.maxIdle {
			c.store.Delete(id)
			evicted++

			log.Debug().
				Str("session_id", id).
				Dur("age", age).
				Msg("Idle session evicted")
		}
	}

	if evicted > 0 {
		log.Info().Int("evicted", evicted).Msg("Cleaned up idle sessions")
	}
}

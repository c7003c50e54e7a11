// Package idgen generates customer and account identifiers: the current
// date and time down to the minute, concatenated with a six-digit counter
// that resets every hour.
package idgen

import (
	"fmt"
	"sync"
	"time"
)

// Generator produces unique string ids. Safe for concurrent use.
type Generator struct {
	mu        sync.Mutex
	counter   uint64
	lastReset time.Time
	now       func() time.Time
}

// New builds a Generator on the system clock.
func New() *Generator {
	return &Generator{now: time.Now}
}

// NewWithClock builds a Generator on a caller-supplied clock, for tests.
func NewWithClock(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Generate returns the next id, e.g. "202409011030000042".
func (g *Generator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Truncate(time.Hour) != g.lastReset.Truncate(time.Hour) {
		g.counter = 0
		g.lastReset = now
	}
	g.counter++
	return fmt.Sprintf("%s%06d", now.Format("200601021504"), g.counter)
}

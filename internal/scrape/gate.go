package scrape

import (
	"context"
	"sync"
)

// Gate is the cooperative pause/resume primitive shared by a whole run.
// Every job calls AwaitOpen before each unit of externally-visible work;
// there is no hard cancellation, only suspension at these checkpoints.
//
// The open state is broadcast through a channel that is closed while the
// gate is open, so any number of waiters block without spinning and a
// single Resume wakes them all.
type Gate struct {
	mu     sync.Mutex
	open   chan struct{}
	paused bool
}

// NewGate returns an open gate.
func NewGate() *Gate {
	g := &Gate{open: make(chan struct{})}
	close(g.open)
	return g
}

// Pause closes the gate. Idempotent and safe to race with Resume.
func (g *Gate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.open = make(chan struct{})
}

// Resume opens the gate and wakes every waiter. Idempotent.
func (g *Gate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	close(g.open)
}

// Paused reports the current gate state.
func (g *Gate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// AwaitOpen blocks the calling job until the gate is open or ctx finishes.
// Jobs that already passed their last checkpoint are unaffected until the
// next one.
func (g *Gate) AwaitOpen(ctx context.Context) error {
	g.mu.Lock()
	ch := g.open
	g.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Package status carries human-readable progress lines from the run to
// whoever is watching: the log, the control server, or nothing.
package status

import (
	"sync"

	"go.uber.org/zap"
)

// Reporter receives one status line per run milestone. Implementations must
// be safe for concurrent use and must not block the reporting job.
type Reporter interface {
	Report(line string)
}

// Nop discards every line.
type Nop struct{}

// Report implements Reporter.
func (Nop) Report(string) {}

// Log writes status lines to a zap logger.
type Log struct {
	logger *zap.Logger
}

// NewLog builds a Log reporter.
func NewLog(logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Log{logger: logger}
}

// Report implements Reporter.
func (l *Log) Report(line string) {
	l.logger.Info(line)
}

// Hub fans lines out to downstream reporters and retains the most recent
// ones for the control surface. Appending to the ring is a short critical
// section, so reporting never stalls a job.
type Hub struct {
	mu     sync.Mutex
	recent []string
	max    int
	next   []Reporter
}

// NewHub builds a Hub retaining up to max lines.
func NewHub(max int, next ...Reporter) *Hub {
	if max <= 0 {
		max = 64
	}
	return &Hub{max: max, next: next}
}

// Report implements Reporter.
func (h *Hub) Report(line string) {
	h.mu.Lock()
	h.recent = append(h.recent, line)
	if len(h.recent) > h.max {
		h.recent = h.recent[len(h.recent)-h.max:]
	}
	h.mu.Unlock()

	for _, r := range h.next {
		r.Report(line)
	}
}

// Recent returns a copy of the retained lines, oldest first.
func (h *Hub) Recent() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.recent))
	copy(out, h.recent)
	return out
}

package scrape

import "sync"

// Collector is the deduplicating result set shared by all query jobs.
// The check-then-insert pair is one atomic region under a single mutex so
// duplicates cannot slip through concurrent callers.
type Collector struct {
	mu      sync.Mutex
	records []*Record
	seen    map[identity]struct{}
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{seen: make(map[identity]struct{})}
}

// Add appends record iff its identity has not been seen before and reports
// whether it was inserted. Insertion order is the output order.
func (c *Collector) Add(record *Record) bool {
	if record == nil {
		return false
	}
	key := record.identity()

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, dup := c.seen[key]; dup {
		return false
	}
	c.seen[key] = struct{}{}
	c.records = append(c.records, record)
	return true
}

// Snapshot returns a copy of the current contents in insertion order.
func (c *Collector) Snapshot() []*Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*Record, len(c.records))
	copy(out, c.records)
	return out
}

// Len reports how many unique records have been collected.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Reset clears all state for reuse between runs.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = nil
	c.seen = make(map[identity]struct{})
}

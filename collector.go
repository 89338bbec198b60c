package thinwrap

import (
	"sync"

	"go.uber.org/zap"
)

// Collector queues handles whose owning wrapper was garbage collected without
// being dropped. The garbage collector runs cleanups on its own goroutine,
// which is the wrong thread for most graphics resources, so nothing is
// released until Drain is called from the thread that owns the resources.
//
//	col := thinwrap.NewCollector()
//	_ = thinwrap.Configure(thinwrap.WithCollector(col))
//	for !window.ShouldClose() {
//		drawFrame()
//		col.Drain()
//	}
//
// Bound wrappers are reachable from their binding until dropped, so they are
// never collected; Binding.Close releases them instead.
// Owned wrappers stop being tracked on their first Mut, since the collector
// could otherwise release a stale copy of the handle.
type Collector struct {
	mu      sync.Mutex
	pending []leak
	total   int
}

type leak struct {
	kind    string
	release func()
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// leakFunc returns the cleanup run by the garbage collector for a handle of
// the given kind. It only enqueues.
func leakFunc[H any](c *Collector, kind string, rel func(H)) func(H) {
	return func(h H) {
		c.mu.Lock()
		c.pending = append(c.pending, leak{kind: kind, release: func() { rel(h) }})
		c.mu.Unlock()
	}
}

// Pending returns the number of leaked handles awaiting Drain.
func (c *Collector) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Total returns the number of leaked handles released so far.
func (c *Collector) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// Drain releases every queued handle on the calling goroutine and returns how
// many were released. Releases run outside the collector's lock.
func (c *Collector) Drain() int {
	c.mu.Lock()
	batch := c.pending
	c.pending = nil
	c.total += len(batch)
	c.mu.Unlock()

	for _, l := range batch {
		Logger().Warn("releasing leaked handle", zap.String("kind", l.kind))
		l.release()
		if observed() {
			notify(Event{Kind: l.kind, Type: EventLeaked})
		}
	}
	return len(batch)
}

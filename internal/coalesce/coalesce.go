// Package coalesce batches the rapid-fire messages people send on chat
// apps ("hola", "una consulta", "hay pizzeria cerca?") into a single
// query. Each user's buffer flushes once the user has been quiet for
// the debounce window; a new message during the window restarts it.
package coalesce

import (
	"strings"
	"sync"
	"time"
)

// FlushFunc receives the joined text of a burst once it settles.
// messages is how many messages were merged.
type FlushFunc func(userID int64, text string, messages int)

type buffer struct {
	parts      []string
	generation uint64
	timer      *time.Timer
}

// Coalescer debounces per-user message bursts. A generation counter on
// each buffer guards against a timer that fires after a newer message
// already superseded it.
type Coalescer struct {
	mu      sync.Mutex
	window  time.Duration
	flush   FlushFunc
	buffers map[int64]*buffer
	stopped bool
}

// New builds a Coalescer that waits window after the last message of a
// burst before calling flush.
func New(window time.Duration, flush FlushFunc) *Coalescer {
	return &Coalescer{
		window:  window,
		flush:   flush,
		buffers: make(map[int64]*buffer),
	}
}

// Enqueue appends text to the user's pending burst and restarts the
// debounce window.
func (c *Coalescer) Enqueue(userID int64, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stopped {
		return
	}

	b, ok := c.buffers[userID]
	if !ok {
		b = &buffer{}
		c.buffers[userID] = b
	}

	b.parts = append(b.parts, text)
	b.generation++
	generation := b.generation

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(c.window, func() {
		c.fire(userID, generation)
	})
}

// fire flushes the user's buffer if no newer message arrived since the
// timer was armed. The callback runs outside the lock: it typically
// triggers retrieval and generation, which must not block Enqueue.
func (c *Coalescer) fire(userID int64, generation uint64) {
	c.mu.Lock()
	b, ok := c.buffers[userID]
	if !ok || b.generation != generation || c.stopped {
		c.mu.Unlock()
		return
	}
	delete(c.buffers, userID)
	parts := b.parts
	c.mu.Unlock()

	c.flush(userID, strings.Join(parts, " "), len(parts))
}

// Pending reports whether the user has an unflushed burst.
func (c *Coalescer) Pending(userID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.buffers[userID]
	return ok
}

// Discard drops the user's pending burst without flushing it. Used when
// the conversation is reset mid-burst.
func (c *Coalescer) Discard(userID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if b, ok := c.buffers[userID]; ok {
		if b.timer != nil {
			b.timer.Stop()
		}
		delete(c.buffers, userID)
	}
}

// Stop cancels all pending timers. Bursts in flight are dropped, not
// flushed.
func (c *Coalescer) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopped = true
	for userID, b := range c.buffers {
		if b.timer != nil {
			b.timer.Stop()
		}
		delete(c.buffers, userID)
	}
}

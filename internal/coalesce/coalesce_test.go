package coalesce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushes []flush
}

type flush struct {
	userID   int64
	text     string
	messages int
}

func (r *flushRecorder) record(userID int64, text string, messages int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flushes = append(r.flushes, flush{userID, text, messages})
}

func (r *flushRecorder) snapshot() []flush {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]flush(nil), r.flushes...)
}

func (r *flushRecorder) waitFor(t *testing.T, n int) []flush {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := r.snapshot(); len(got) >= n {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d flushes, got %d", n, len(r.snapshot()))
	return nil
}

func TestCoalescerMergesBurst(t *testing.T) {
	rec := &flushRecorder{}
	c := New(30*time.Millisecond, rec.record)
	defer c.Stop()

	c.Enqueue(7, "hola")
	c.Enqueue(7, "una consulta")
	c.Enqueue(7, "hay pizzeria cerca?")

	got := rec.waitFor(t, 1)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].userID)
	assert.Equal(t, "hola una consulta hay pizzeria cerca?", got[0].text)
	assert.Equal(t, 3, got[0].messages)
}

func TestCoalescerNewBurstAfterFlush(t *testing.T) {
	rec := &flushRecorder{}
	c := New(20*time.Millisecond, rec.record)
	defer c.Stop()

	c.Enqueue(7, "primera")
	rec.waitFor(t, 1)

	c.Enqueue(7, "segunda")
	got := rec.waitFor(t, 2)
	assert.Equal(t, "primera", got[0].text)
	assert.Equal(t, "segunda", got[1].text)
}

func TestCoalescerMessageRestartsWindow(t *testing.T) {
	rec := &flushRecorder{}
	c := New(60*time.Millisecond, rec.record)
	defer c.Stop()

	c.Enqueue(7, "uno")
	time.Sleep(30 * time.Millisecond)
	c.Enqueue(7, "dos")
	time.Sleep(30 * time.Millisecond)

	// 60ms since the first message, but only 30ms since the last: the
	// burst must still be pending.
	assert.Empty(t, rec.snapshot())
	assert.True(t, c.Pending(7))

	got := rec.waitFor(t, 1)
	assert.Equal(t, "uno dos", got[0].text)
}

func TestCoalescerIsolatesUsers(t *testing.T) {
	rec := &flushRecorder{}
	c := New(20*time.Millisecond, rec.record)
	defer c.Stop()

	c.Enqueue(1, "pizza")
	c.Enqueue(2, "farmacia")

	got := rec.waitFor(t, 2)
	byUser := map[int64]string{}
	for _, f := range got {
		byUser[f.userID] = f.text
	}
	assert.Equal(t, "pizza", byUser[1])
	assert.Equal(t, "farmacia", byUser[2])
}

func TestCoalescerDiscard(t *testing.T) {
	rec := &flushRecorder{}
	c := New(20*time.Millisecond, rec.record)
	defer c.Stop()

	c.Enqueue(7, "esto no deberia salir")
	c.Discard(7)

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
	assert.False(t, c.Pending(7))
}

func TestCoalescerStopDropsPending(t *testing.T) {
	rec := &flushRecorder{}
	c := New(20*time.Millisecond, rec.record)

	c.Enqueue(7, "pendiente")
	c.Stop()
	c.Enqueue(7, "despues de stop")

	time.Sleep(60 * time.Millisecond)
	assert.Empty(t, rec.snapshot())
}

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

func msgAt(role, content string, ts time.Time) Message {
	return Message{Role: role, Content: content, Timestamp: ts}
}

func TestTrim(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	messages := []Message{
		msgAt("user", "vieja", now.Add(-2*time.Hour)),
		msgAt("assistant", "tambien vieja", now.Add(-90*time.Minute)),
		msgAt("user", "reciente", now.Add(-10*time.Minute)),
		msgAt("assistant", "respuesta", now.Add(-9*time.Minute)),
	}

	trimmed := Trim(messages, now, time.Hour, 10)
	require.Len(t, trimmed, 2)
	assert.Equal(t, "reciente", trimmed[0].Content)
}

func TestTrimCapsMessageCount(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	var messages []Message
	for i := 0; i < 15; i++ {
		messages = append(messages, msgAt("user", "m", now.Add(-time.Duration(15-i)*time.Minute)))
	}

	trimmed := Trim(messages, now, time.Hour, 10)
	assert.Len(t, trimmed, 10)
	// The newest messages survive.
	assert.Equal(t, messages[14], trimmed[9])
}

func TestTrimEmpty(t *testing.T) {
	assert.Empty(t, Trim(nil, time.Now(), time.Hour, 10))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	now := time.Now()
	require.NoError(t, s.SaveHistory(ctx, 1, []Message{msgAt("user", "hola", now)}))
	require.NoError(t, s.SaveLocation(ctx, 1, Location{Lat: -34.87, Lon: -58.04}))

	messages, err := s.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hola", messages[0].Content)

	loc, err := s.Location(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.InDelta(t, -34.87, loc.Lat, 1e-9)
}

func TestMemoryStoreUnknownUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	messages, err := s.History(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, messages)

	loc, err := s.Location(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestMemoryStoreClear(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(10)

	require.NoError(t, s.SaveHistory(ctx, 1, []Message{msgAt("user", "hola", time.Now())}))
	require.NoError(t, s.Clear(ctx, 1))

	messages, err := s.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestMemoryStoreEvictsLeastRecentUser(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(2)

	require.NoError(t, s.SaveHistory(ctx, 1, []Message{msgAt("user", "a", time.Now())}))
	require.NoError(t, s.SaveHistory(ctx, 2, []Message{msgAt("user", "b", time.Now())}))
	require.NoError(t, s.SaveHistory(ctx, 3, []Message{msgAt("user", "c", time.Now())}))

	messages, err := s.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, messages, "user 1 must be evicted")
}

// failingStore errors on every call, standing in for a dead Redis.
type failingStore struct{}

var errDown = errors.New("connection refused")

func (failingStore) History(context.Context, int64) ([]Message, error)   { return nil, errDown }
func (failingStore) SaveHistory(context.Context, int64, []Message) error { return errDown }
func (failingStore) Location(context.Context, int64) (*Location, error)  { return nil, errDown }
func (failingStore) SaveLocation(context.Context, int64, Location) error { return errDown }
func (failingStore) Clear(context.Context, int64) error                  { return errDown }

func TestFallbackStoreDegrades(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Format: "json"})
	s := NewFallbackStore(failingStore{}, NewMemoryStore(10), log)

	require.NoError(t, s.SaveHistory(ctx, 1, []Message{msgAt("user", "hola", time.Now())}))

	messages, err := s.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "hola", messages[0].Content)
}

func TestFallbackStoreUsesPrimaryWhenHealthy(t *testing.T) {
	ctx := context.Background()
	log := logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Format: "json"})
	primary := NewMemoryStore(10)
	secondary := NewMemoryStore(10)
	s := NewFallbackStore(primary, secondary, log)

	require.NoError(t, s.SaveHistory(ctx, 1, []Message{msgAt("user", "hola", time.Now())}))

	direct, err := primary.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, direct, 1)

	untouched, err := secondary.History(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, untouched)
}

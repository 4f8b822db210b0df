package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hilacarreon/vecinito/internal/cache"
	"github.com/hilacarreon/vecinito/internal/catalog"
	"github.com/hilacarreon/vecinito/internal/config"
	"github.com/hilacarreon/vecinito/internal/llm"
	"github.com/hilacarreon/vecinito/internal/ratelimit"
	"github.com/hilacarreon/vecinito/internal/retrieval"
	"github.com/hilacarreon/vecinito/internal/session"
	"github.com/hilacarreon/vecinito/pkg/logger"
	"github.com/hilacarreon/vecinito/pkg/metrics"
)

type stubSearcher struct {
	results   []catalog.Annotated
	lastQuery string
	lastZone  string
	lastLoc   *retrieval.Location
	calls     int
}

func (s *stubSearcher) Search(_ context.Context, query, zone string, loc *retrieval.Location) []catalog.Annotated {
	s.calls++
	s.lastQuery = query
	s.lastZone = zone
	s.lastLoc = loc
	return s.results
}

type stubCompleter struct {
	reply string
	err   error
	calls int
}

func (c *stubCompleter) Complete(context.Context, string, []llm.Message) (string, error) {
	c.calls++
	return c.reply, c.err
}

func botConfig() config.BotConfig {
	return config.BotConfig{
		DebounceWindow:  1500 * time.Millisecond,
		CacheTTL:        2 * time.Minute,
		CacheCapacity:   100,
		RateLimit:       10,
		RateLimitWindow: time.Minute,
		HistoryWindow:   time.Hour,
		HistoryMax:      10,
		TopK:            6,
		SweepSchedule:   "@hourly",
	}
}

func newService(t *testing.T, searcher *stubSearcher, completer *stubCompleter) *Service {
	t.Helper()
	cfg := botConfig()
	log := logger.NewLogger(logger.Config{Level: logger.ErrorLevel, Format: "json"})
	return New(
		cfg,
		log,
		metrics.New(log),
		cache.NewReplyCache(cfg.CacheTTL, cfg.CacheCapacity),
		ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow),
		session.NewMemoryStore(100),
		searcher,
		completer,
		nil,
	)
}

func pizzeriaResults() []catalog.Annotated {
	return []catalog.Annotated{{
		Entry: catalog.Entry{
			Name:     "Pizzería Don Carlos",
			Category: "Pizzería",
			Zone:     "City Bell",
			Hours:    "Mar-Dom 18-24",
		},
		Distance: -1,
	}}
}

func TestRespondGeneratesReply(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Pizzería Don Carlos, es la posta."}
	s := newService(t, searcher, completer)

	reply := s.Respond(context.Background(), 42, "donde como pizza?")
	assert.Contains(t, reply, "Don Carlos")
	assert.Equal(t, 1, completer.calls)
}

func TestRespondServesRepeatFromCache(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Pizzería Don Carlos."}
	s := newService(t, searcher, completer)

	first := s.Respond(context.Background(), 42, "donde como pizza?")
	second := s.Respond(context.Background(), 42, "Dónde como PIZZA?")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, completer.calls, "repeat within TTL must not hit the model")
	assert.Equal(t, 1, searcher.calls)
}

func TestRespondNoResults(t *testing.T) {
	s := newService(t, &stubSearcher{}, &stubCompleter{reply: "no deberia llamarse"})

	reply := s.Respond(context.Background(), 42, "quiero sushi vegano")
	assert.Equal(t, noResultsReply, reply)
}

func TestRespondModelFailureApologizes(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{err: errors.New("rate limited")}
	s := newService(t, searcher, completer)

	reply := s.Respond(context.Background(), 42, "donde como pizza?")
	assert.Equal(t, apologyReply, reply)

	// A failed turn must not be cached.
	completer.err = nil
	completer.reply = "Probá Don Carlos."
	reply = s.Respond(context.Background(), 42, "donde como pizza?")
	assert.Equal(t, "Probá Don Carlos.", reply)
}

func TestRespondRefinementConcatenatesPreviousQuery(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Don Carlos."}
	s := newService(t, searcher, completer)

	ctx := context.Background()
	s.Respond(ctx, 42, "donde como pizza?")
	s.Respond(ctx, 42, "algo mas barato?")

	assert.Equal(t, "donde como pizza? algo mas barato?", searcher.lastQuery)
}

func TestRespondDetectsZoneFromQuery(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	s := newService(t, searcher, &stubCompleter{reply: "ok"})

	s.Respond(context.Background(), 42, "pizza en city bell")
	assert.Equal(t, "City Bell", searcher.lastZone)
}

func TestRespondPassesStoredLocation(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	s := newService(t, searcher, &stubCompleter{reply: "ok"})

	ctx := context.Background()
	s.SaveLocation(ctx, 42, -34.87, -58.04)
	s.Respond(ctx, 42, "donde como pizza?")

	require.NotNil(t, searcher.lastLoc)
	assert.InDelta(t, -34.87, searcher.lastLoc.Lat, 1e-9)
}

func TestRespondCacheIsolatedPerUser(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Don Carlos."}
	s := newService(t, searcher, completer)

	ctx := context.Background()
	s.Respond(ctx, 1, "donde como pizza?")
	s.Respond(ctx, 2, "donde como pizza?")

	assert.Equal(t, 2, completer.calls)
}

func TestResetClearsHistory(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Don Carlos."}
	s := newService(t, searcher, completer)

	ctx := context.Background()
	s.Respond(ctx, 42, "donde como pizza?")
	assert.Equal(t, resetReply, s.Reset(ctx, 42))

	// After the reset, a refinement has no previous query to attach to.
	s.Respond(ctx, 42, "algo mas barato?")
	assert.Equal(t, "algo mas barato?", searcher.lastQuery)
}

func TestHasHistory(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Don Carlos."}
	s := newService(t, searcher, completer)

	ctx := context.Background()
	assert.False(t, s.HasHistory(ctx, 42))

	s.Respond(ctx, 42, "donde como pizza?")
	assert.True(t, s.HasHistory(ctx, 42))

	s.Reset(ctx, 42)
	assert.False(t, s.HasHistory(ctx, 42))
}

func TestLastUserQuery(t *testing.T) {
	searcher := &stubSearcher{results: pizzeriaResults()}
	completer := &stubCompleter{reply: "Probá Don Carlos."}
	s := newService(t, searcher, completer)

	ctx := context.Background()
	_, ok := s.LastUserQuery(ctx, 42)
	assert.False(t, ok)

	s.Respond(ctx, 42, "donde como pizza?")
	query, ok := s.LastUserQuery(ctx, 42)
	require.True(t, ok)
	assert.Equal(t, "donde como pizza?", query)
}

func TestAllowRateLimits(t *testing.T) {
	s := newService(t, &stubSearcher{}, &stubCompleter{})

	for i := 0; i < 10; i++ {
		ok, _ := s.Allow(42)
		assert.True(t, ok)
	}
	ok, msg := s.Allow(42)
	assert.False(t, ok)
	assert.Equal(t, rateLimitedReply, msg)
}

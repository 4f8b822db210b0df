// Package assistant orchestrates a single conversational turn: session
// state, the reply cache, retrieval and text generation, plus the
// periodic maintenance sweep.
package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/hilacarreon/vecinito/internal/auditlog"
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

// Searcher runs the retrieval chain.
type Searcher interface {
	Search(ctx context.Context, query, zone string, loc *retrieval.Location) []catalog.Annotated
}

// Completer generates the final reply text.
type Completer interface {
	Complete(ctx context.Context, system string, history []llm.Message) (string, error)
}

// Service answers user queries. All state it touches is behind its
// collaborators, so a turn is a pure pipeline over them.
type Service struct {
	cfg      config.BotConfig
	log      logger.Logger
	metrics  *metrics.Metrics
	replies  *cache.ReplyCache
	limiter  *ratelimit.Limiter
	sessions session.Store
	search   Searcher
	model    Completer
	audit    *auditlog.Writer
	cron     *cron.Cron
	now      func() time.Time
}

// New wires a Service from its collaborators. audit may be nil to
// disable the CSV log.
func New(
	cfg config.BotConfig,
	log logger.Logger,
	m *metrics.Metrics,
	replies *cache.ReplyCache,
	limiter *ratelimit.Limiter,
	sessions session.Store,
	search Searcher,
	model Completer,
	audit *auditlog.Writer,
) *Service {
	return &Service{
		cfg:      cfg,
		log:      log,
		metrics:  m,
		replies:  replies,
		limiter:  limiter,
		sessions: sessions,
		search:   search,
		model:    model,
		audit:    audit,
		now:      time.Now,
	}
}

// Start schedules the maintenance sweep: expired cache entries and idle
// rate-limit windows.
func (s *Service) Start() error {
	s.cron = cron.New()
	_, err := s.cron.AddFunc(s.cfg.SweepSchedule, func() {
		swept := s.replies.SweepExpired()
		pruned := s.limiter.PruneIdle(s.cfg.RateLimitWindow * 2)
		s.log.Debug("maintenance sweep finished",
			logger.IntField("cache_entries_swept", swept),
			logger.IntField("rate_windows_pruned", pruned))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	return nil
}

// Stop halts the maintenance schedule and flushes the audit log.
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	if s.audit != nil {
		s.audit.Close()
	}
}

// Allow applies the per-user rate limit. The canned slow-down reply is
// returned alongside so callers answer consistently.
func (s *Service) Allow(userID int64) (bool, string) {
	if s.limiter.Allow(userID) {
		return true, ""
	}
	s.metrics.RateLimitedTotal.Inc()
	return false, rateLimitedReply
}

// Respond answers one settled query for userID. It never returns an
// error to the caller: failures degrade to the fixed apology so the
// user always hears back.
func (s *Service) Respond(ctx context.Context, userID int64, query string) string {
	loc, err := s.sessions.Location(ctx, userID)
	if err != nil {
		s.log.Warn("loading location failed", logger.ErrorField(err))
	}

	history, err := s.sessions.History(ctx, userID)
	if err != nil {
		s.log.Warn("loading history failed", logger.ErrorField(err))
	}
	history = session.Trim(history, s.now(), s.cfg.HistoryWindow, s.cfg.HistoryMax)

	effective := s.effectiveQuery(query, history)
	zone := catalog.DetectZone(effective)

	key := cache.Fingerprint(userID, effective, locLat(loc), locLon(loc), loc != nil)
	if reply, tier, ok := s.replies.Lookup(key); ok {
		s.metrics.CacheHitsTotal.WithLabelValues(string(tier)).Inc()
		s.finishTurn(ctx, userID, query, reply, "cache", zone, history)
		return reply
	}
	s.metrics.CacheMissesTotal.WithLabelValues(string(cache.TierPersonal)).Inc()

	var searchLoc *retrieval.Location
	if loc != nil {
		searchLoc = &retrieval.Location{Lat: loc.Lat, Lon: loc.Lon}
	}
	results := s.search.Search(ctx, effective, zone, searchLoc)
	if len(results) == 0 {
		s.finishTurn(ctx, userID, query, noResultsReply, "canned", zone, history)
		return noResultsReply
	}

	contextJSON, err := buildContext(results)
	if err != nil {
		s.log.Error("building prompt context failed", logger.ErrorField(err))
		return apologyReply
	}

	messages := make([]llm.Message, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llm.Message{Role: m.Role, Content: m.Content})
	}
	// The current date and time ride along with the question so relative
	// phrases ("ahora", "hoy a la noche") resolve correctly.
	messages = append(messages, llm.Message{
		Role:    "user",
		Content: fmt.Sprintf("[%s] %s", s.now().Format("Monday 15:04"), effective),
	})

	started := s.now()
	reply, err := s.model.Complete(ctx, systemPrompt(contextJSON), messages)
	s.metrics.GenerationDuration.Observe(s.now().Sub(started).Seconds())
	if err != nil {
		s.log.Error("generation failed",
			logger.Int64Field("user_id", userID),
			logger.ErrorField(err))
		s.finishTurn(ctx, userID, query, apologyReply, "canned", zone, history)
		return apologyReply
	}

	reply = postprocess(reply, results)
	s.replies.Store(key, reply)
	s.finishTurn(ctx, userID, query, reply, "model", zone, history)
	return reply
}

// Reset clears the user's session.
func (s *Service) Reset(ctx context.Context, userID int64) string {
	if err := s.sessions.Clear(ctx, userID); err != nil {
		s.log.Warn("clearing session failed", logger.ErrorField(err))
	}
	return resetReply
}

// SaveLocation stores the user's shared position.
func (s *Service) SaveLocation(ctx context.Context, userID int64, lat, lon float64) string {
	if err := s.sessions.SaveLocation(ctx, userID, session.Location{Lat: lat, Lon: lon}); err != nil {
		s.log.Warn("saving location failed", logger.ErrorField(err))
		return apologyReply
	}
	return locationSavedReply
}

// LastUserQuery returns the user's most recent question, if any. The
// connector uses it to re-run a search once a location arrives.
func (s *Service) LastUserQuery(ctx context.Context, userID int64) (string, bool) {
	history, err := s.sessions.History(ctx, userID)
	if err != nil {
		return "", false
	}
	history = session.Trim(history, s.now(), s.cfg.HistoryWindow, s.cfg.HistoryMax)
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content, true
		}
	}
	return "", false
}

// HasHistory reports whether the user has any stored conversation,
// trimmed or not. A store failure counts as no history so a welcome is
// at worst repeated, never withheld.
func (s *Service) HasHistory(ctx context.Context, userID int64) bool {
	history, err := s.sessions.History(ctx, userID)
	if err != nil {
		return false
	}
	return len(history) > 0
}

// Welcome returns the first-contact greeting.
func (s *Service) Welcome() string { return welcomeReply }

// LocationIntentReply acknowledges "te mando la ubicación" messages.
func (s *Service) LocationIntentReply() string { return locationIntentReply }

// effectiveQuery concatenates a refinement with the previous user
// question so "y mas barato?" searches for the right thing.
func (s *Service) effectiveQuery(query string, history []session.Message) string {
	if !isRefinement(query) {
		return query
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == "user" {
			return history[i].Content + " " + query
		}
	}
	return query
}

// finishTurn persists the turn and records it everywhere a turn is
// accounted for.
func (s *Service) finishTurn(ctx context.Context, userID int64, query, reply, source, zone string, history []session.Message) {
	now := s.now()
	history = append(history,
		session.Message{Role: "user", Content: query, Timestamp: now},
		session.Message{Role: "assistant", Content: reply, Timestamp: now},
	)
	history = session.Trim(history, now, s.cfg.HistoryWindow, s.cfg.HistoryMax)
	if err := s.sessions.SaveHistory(ctx, userID, history); err != nil {
		s.log.Warn("saving history failed", logger.ErrorField(err))
	}

	s.metrics.RepliesTotal.Inc()
	if s.audit != nil {
		s.audit.Append(auditlog.Record{
			Time:   now,
			UserID: userID,
			Query:  query,
			Reply:  reply,
			Source: source,
			Zone:   zone,
		})
	}
}

func locLat(loc *session.Location) float64 {
	if loc == nil {
		return 0
	}
	return loc.Lat
}

func locLon(loc *session.Location) float64 {
	if loc == nil {
		return 0
	}
	return loc.Lon
}

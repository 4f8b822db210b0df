package session

import (
	"context"

	"github.com/hilacarreon/vecinito/pkg/logger"
)

// FallbackStore tries the primary store and degrades to the secondary
// when the primary fails. Reads that miss on a degraded primary are
// retried against the secondary so a Redis outage loses durability but
// not the conversation in progress.
type FallbackStore struct {
	primary   Store
	secondary Store
	log       logger.Logger
}

// NewFallbackStore layers primary over secondary.
func NewFallbackStore(primary, secondary Store, log logger.Logger) *FallbackStore {
	return &FallbackStore{primary: primary, secondary: secondary, log: log}
}

func (s *FallbackStore) History(ctx context.Context, userID int64) ([]Message, error) {
	messages, err := s.primary.History(ctx, userID)
	if err != nil {
		s.warn("history read failed, using fallback store", err)
		return s.secondary.History(ctx, userID)
	}
	return messages, nil
}

func (s *FallbackStore) SaveHistory(ctx context.Context, userID int64, messages []Message) error {
	if err := s.primary.SaveHistory(ctx, userID, messages); err != nil {
		s.warn("history write failed, using fallback store", err)
		return s.secondary.SaveHistory(ctx, userID, messages)
	}
	return nil
}

func (s *FallbackStore) Location(ctx context.Context, userID int64) (*Location, error) {
	loc, err := s.primary.Location(ctx, userID)
	if err != nil {
		s.warn("location read failed, using fallback store", err)
		return s.secondary.Location(ctx, userID)
	}
	return loc, nil
}

func (s *FallbackStore) SaveLocation(ctx context.Context, userID int64, loc Location) error {
	if err := s.primary.SaveLocation(ctx, userID, loc); err != nil {
		s.warn("location write failed, using fallback store", err)
		return s.secondary.SaveLocation(ctx, userID, loc)
	}
	return nil
}

func (s *FallbackStore) Clear(ctx context.Context, userID int64) error {
	err := s.primary.Clear(ctx, userID)
	if err != nil {
		s.warn("session clear failed on primary store", err)
	}
	// Always clear the secondary too; both may hold state.
	if err2 := s.secondary.Clear(ctx, userID); err2 != nil {
		return err2
	}
	return err
}

func (s *FallbackStore) warn(msg string, err error) {
	s.log.Warn(msg, logger.ErrorField(err))
}

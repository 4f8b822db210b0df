package session

import (
	"context"

	"github.com/hilacarreon/vecinito/internal/cache"
)

type memoryState struct {
	messages []Message
	location *Location
}

// MemoryStore is the in-process fallback used when Redis is down or not
// configured. It is bounded: the least recently active users are
// evicted first.
type MemoryStore struct {
	users *cache.LRU[int64, *memoryState]
}

// NewMemoryStore builds a store tracking at most maxUsers users.
func NewMemoryStore(maxUsers int) *MemoryStore {
	return &MemoryStore{users: cache.NewLRU[int64, *memoryState](maxUsers)}
}

func (s *MemoryStore) History(_ context.Context, userID int64) ([]Message, error) {
	if state, ok := s.users.Get(userID); ok {
		return append([]Message(nil), state.messages...), nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveHistory(_ context.Context, userID int64, messages []Message) error {
	state := s.state(userID)
	state.messages = append([]Message(nil), messages...)
	s.users.Put(userID, state)
	return nil
}

func (s *MemoryStore) Location(_ context.Context, userID int64) (*Location, error) {
	if state, ok := s.users.Get(userID); ok && state.location != nil {
		loc := *state.location
		return &loc, nil
	}
	return nil, nil
}

func (s *MemoryStore) SaveLocation(_ context.Context, userID int64, loc Location) error {
	state := s.state(userID)
	state.location = &loc
	s.users.Put(userID, state)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, userID int64) error {
	s.users.Remove(userID)
	return nil
}

func (s *MemoryStore) state(userID int64) *memoryState {
	if state, ok := s.users.Get(userID); ok {
		return state
	}
	return &memoryState{}
}

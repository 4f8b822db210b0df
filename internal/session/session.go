// Package session stores per-user conversation state: recent history
// and the last shared location. The primary backend is Redis so state
// survives restarts; an in-memory fallback keeps the bot functional
// when Redis is unavailable.
package session

import (
	"context"
	"time"
)

// Message is one turn of a conversation.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Location is the user's last shared position.
type Location struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Store persists per-user conversation state.
type Store interface {
	// History returns the user's stored conversation, oldest first.
	History(ctx context.Context, userID int64) ([]Message, error)
	// SaveHistory replaces the user's stored conversation.
	SaveHistory(ctx context.Context, userID int64, messages []Message) error
	// Location returns the user's last shared location, nil when unknown.
	Location(ctx context.Context, userID int64) (*Location, error)
	// SaveLocation stores the user's location.
	SaveLocation(ctx context.Context, userID int64, loc Location) error
	// Clear removes all state for the user.
	Clear(ctx context.Context, userID int64) error
}

// Trim drops messages older than maxAge relative to now and keeps at
// most maxMessages of the newest remainder. History fed to the model
// stays short and recent.
func Trim(messages []Message, now time.Time, maxAge time.Duration, maxMessages int) []Message {
	cutoff := now.Add(-maxAge)
	start := 0
	for start < len(messages) && messages[start].Timestamp.Before(cutoff) {
		start++
	}
	trimmed := messages[start:]
	if len(trimmed) > maxMessages {
		trimmed = trimmed[len(trimmed)-maxMessages:]
	}
	return trimmed
}

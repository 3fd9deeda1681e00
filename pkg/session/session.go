// Package session stores game sessions for the map server.
//
// A [Session] carries one player's [turn.State] between requests. Stores
// come in three flavours:
//   - [MemoryStore]: in-process, for a single server instance and tests
//   - [FileStore]: JSON files, for the CLI and single-host servers
//   - [RedisStore]: shared storage for multi-instance deployments
//
// # Usage
//
//	sess := session.New(game.State(), session.DefaultTTL)
//	if err := store.Set(ctx, sess); err != nil {
//	    return err
//	}
//
//	sess, err := store.Get(ctx, id)
//	if err != nil {
//	    return err
//	}
//	if sess == nil {
//	    // unknown or expired
//	}
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/areamap/pkg/turn"
)

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = 24 * time.Hour

// Session is one game in progress.
type Session struct {
	ID        string      `json:"id"`
	State     *turn.State `json:"state"`
	CreatedAt time.Time   `json:"created_at"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// New creates a session with a random id.
func New(state *turn.State, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.NewString(),
		State:     state,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Touch extends the session's lifetime by ttl from now.
func (s *Session) Touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// ValidID reports whether id is a well-formed session id. Stores use it
// to keep ids out of file paths and key patterns.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, sessionID string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session.
	Delete(ctx context.Context, sessionID string) error

	// Cleanup removes expired sessions (may be a no-op).
	Cleanup(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

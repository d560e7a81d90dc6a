package session

import (
	"context"
	"time"
)

// Session holds the authenticated identity for one federated-login
// round trip. It stores only the user id, never the full identity
// record; callers look the user up on demand.
type Session struct {
	SessionID string    // unique session identifier
	UserID    string    // references users.id
	ExpiresAt time.Time // absolute expiry time
}

// Store defines how sessions are stored and retrieved.
// Implementations (e.g., Redis) must remain stateless and opaque.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
}

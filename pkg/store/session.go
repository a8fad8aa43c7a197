package store

import (
	"context"

	"github.com/google/uuid"
)

// Session is one logged-in browser. A random session id is issued at
// login and carried in a cookie, so concurrent clients never share or
// overwrite each other's identity.
type Session struct {
	ID       string    `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// SessionStore is the server-side map from session id to identity.
// Implementations expire entries after the configured TTL.
type SessionStore interface {
	Save(ctx context.Context, session *Session) error
	Get(ctx context.Context, sessionID string) (*Session, bool)
	Delete(ctx context.Context, sessionID string) error
}

func NewSession(userID uuid.UUID, username string) *Session {
	return &Session{
		ID:       uuid.New().String(),
		UserID:   userID,
		Username: username,
	}
}

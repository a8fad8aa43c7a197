package memory

import (
	"context"
	"time"

	"notekeeper-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Save(_ context.Context, session *store.Session) error {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}

package memory

import (
	"context"
	"sync"
	"time"

	domsession "example.com/storefront/app/internal/domain/session"
)

type entry struct {
	rec       domsession.Record
	expiresAt time.Time
}

// SessionRepository keeps session records in process memory. Records are
// lost on restart.
type SessionRepository struct {
	mu      sync.Mutex
	records map[string]entry
	now     func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		records: make(map[string]entry),
		now:     time.Now,
	}
}

func (r *SessionRepository) Save(_ context.Context, rec domsession.Record, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := entry{rec: rec}
	if ttl > 0 {
		e.expiresAt = r.now().Add(ttl)
	}
	r.records[rec.StorefrontID] = e
	return nil
}

func (r *SessionRepository) Load(_ context.Context, storefrontID string) (*domsession.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.records[storefrontID]
	if !ok {
		return nil, domsession.ErrSessionNotFound
	}
	if !e.expiresAt.IsZero() && !r.now().Before(e.expiresAt) {
		delete(r.records, storefrontID)
		return nil, domsession.ErrSessionNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (r *SessionRepository) Delete(_ context.Context, storefrontID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, storefrontID)
	return nil
}

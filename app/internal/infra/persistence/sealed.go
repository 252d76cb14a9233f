// Package persistence holds the session store backends. Only the session
// record is ever persisted; cart and wishlist state are always refetched.
package persistence

import (
	"context"
	"fmt"
	"time"

	domsession "example.com/storefront/app/internal/domain/session"
)

type Sealer interface {
	Seal(plain string) (string, error)
	Open(sealed string) (string, error)
}

// SealedRepository encrypts the credential on its way into a backend and
// decrypts it on the way out, so no backend ever holds it in the clear.
type SealedRepository struct {
	inner  domsession.Repository
	sealer Sealer
}

func NewSealedRepository(inner domsession.Repository, sealer Sealer) *SealedRepository {
	return &SealedRepository{inner: inner, sealer: sealer}
}

func (r *SealedRepository) Save(ctx context.Context, rec domsession.Record, ttl time.Duration) error {
	sealed, err := r.sealer.Seal(rec.Credential)
	if err != nil {
		return fmt.Errorf("seal credential: %w", err)
	}
	rec.Credential = sealed
	return r.inner.Save(ctx, rec, ttl)
}

// Load treats a record that no longer opens (rotated key) as missing.
func (r *SealedRepository) Load(ctx context.Context, storefrontID string) (*domsession.Record, error) {
	rec, err := r.inner.Load(ctx, storefrontID)
	if err != nil {
		return nil, err
	}
	plain, err := r.sealer.Open(rec.Credential)
	if err != nil {
		_ = r.inner.Delete(ctx, storefrontID)
		return nil, domsession.ErrSessionNotFound
	}
	rec.Credential = plain
	return rec, nil
}

func (r *SealedRepository) Delete(ctx context.Context, storefrontID string) error {
	return r.inner.Delete(ctx, storefrontID)
}

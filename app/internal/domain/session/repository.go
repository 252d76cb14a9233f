package session

import (
	"context"
	"time"
)

// Repository persists the session record of a browser session. Only the
// credential and identity are stored; cart and wishlist state never are.
type Repository interface {
	Save(ctx context.Context, rec Record, ttl time.Duration) error
	Load(ctx context.Context, storefrontID string) (*Record, error)
	Delete(ctx context.Context, storefrontID string) error
}

// Package storefront bundles the per-browser-session state: one session
// holder and the cart and wishlist synchronizers that follow it.
package storefront

import (
	"context"
	"log/slog"
	"time"

	domsession "example.com/storefront/app/internal/domain/session"
	authuc "example.com/storefront/app/internal/usecase/auth"
	cartuc "example.com/storefront/app/internal/usecase/cart"
	wishlistuc "example.com/storefront/app/internal/usecase/wishlist"
)

type Storefront struct {
	ID       string
	Auth     *authuc.Holder
	Cart     *cartuc.Synchronizer
	Wishlist *wishlistuc.Synchronizer

	lastSeen time.Time
}

// Session is a shorthand for the holder's current session.
func (s *Storefront) Session(ctx context.Context) domsession.Session {
	return s.Auth.Current(ctx)
}

// follow keeps the synchronizers and the session store in step with the
// holder: a new session reloads both views and is persisted, a sign-out
// clears both views and forgets the stored record.
func (r *Registry) follow(sf *Storefront) authuc.Listener {
	return func(ctx context.Context, s domsession.Session) {
		log := r.log.With(slog.String("storefront", sf.ID))
		switch s.State {
		case domsession.StateAuthenticated:
			if _, err := sf.Cart.Refresh(ctx, s); err != nil {
				log.Debug("cart refresh after sign-in failed", slog.Any("err", err))
			}
			if _, err := sf.Wishlist.Refresh(ctx, s); err != nil {
				log.Debug("wishlist refresh after sign-in failed", slog.Any("err", err))
			}
			rec := domsession.Record{
				StorefrontID: sf.ID,
				Credential:   s.Credential,
				User:         s.User,
				ExpiresAt:    s.ExpiresAt,
			}
			if err := r.store.Save(ctx, rec, r.ttl); err != nil {
				log.Error("persist session failed", slog.Any("err", err))
			}
		case domsession.StateUnauthenticated:
			sf.Cart.Reset()
			sf.Wishlist.Reset()
			if err := r.store.Delete(ctx, sf.ID); err != nil {
				log.Error("delete session failed", slog.Any("err", err))
			}
		}
	}
}

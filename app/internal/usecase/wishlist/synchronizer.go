package wishlist

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
	domwishlist "example.com/storefront/app/internal/domain/wishlist"
)

type WishlistGateway interface {
	domwishlist.Gateway
}

// Synchronizer owns the saved product ids of one browser session. Membership
// only ever comes from a full read; add/remove answers just gate the read.
type Synchronizer struct {
	gateway WishlistGateway
	log     *slog.Logger

	mu         sync.RWMutex
	saved      domwishlist.Set
	generation uint64
}

func NewSynchronizer(gateway WishlistGateway, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = slog.Default()
	}
	return &Synchronizer{
		gateway: gateway,
		log:     log.With("component", "wishlist"),
		saved:   domwishlist.NewSet(),
	}
}

func (s *Synchronizer) Contains(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved.Contains(productID)
}

func (s *Synchronizer) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved.IDs()
}

func (s *Synchronizer) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.saved)
}

// Reset empties the set and discards reads still in flight.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.saved = domwishlist.NewSet()
}

// Toggle removes productID when it is currently saved and adds it otherwise.
// A failed call changes nothing.
func (s *Synchronizer) Toggle(ctx context.Context, sess domsession.Session, productID string) (outcome.Outcome, error) {
	if !sess.Authenticated() {
		err := outcome.AuthRequired("please log in to use your wishlist")
		return outcome.Failed(err), err
	}

	var (
		ack domwishlist.Ack
		err error
		op  string
	)
	gen := s.currentGeneration()
	if s.Contains(productID) {
		op = "remove"
		ack, err = s.gateway.Remove(ctx, sess.Credential, productID)
		if ack.Message == "" {
			ack.Message = "Removed from wishlist"
		}
	} else {
		op = "add"
		ack, err = s.gateway.Add(ctx, sess.Credential, productID)
		ack.Message = "Added to wishlist"
	}
	if err != nil {
		s.log.Info("wishlist toggle failed", slog.String("op", op), slog.Any("err", err))
		return outcome.Failed(err), err
	}

	// a sign-out landed while the call was in flight
	if s.currentGeneration() != gen {
		return outcome.Failed(outcome.ErrDiscarded), outcome.ErrDiscarded
	}

	out := outcome.Succeeded(ack.Message)
	if _, err := s.refresh(ctx, sess, gen); err != nil {
		if errors.Is(err, outcome.ErrDiscarded) {
			return outcome.Failed(err), err
		}
		s.log.Warn("wishlist reconcile failed", slog.String("op", op), slog.Any("err", err))
		return out, nil
	}
	out.Reconciled = true
	return out, nil
}

// Refresh replaces the set with a fresh read. Without a credential no call is
// made; any failure leaves the set empty.
func (s *Synchronizer) Refresh(ctx context.Context, sess domsession.Session) (outcome.Outcome, error) {
	return s.refresh(ctx, sess, s.currentGeneration())
}

func (s *Synchronizer) refresh(ctx context.Context, sess domsession.Session, gen uint64) (outcome.Outcome, error) {
	if !sess.Authenticated() {
		s.store(gen, domwishlist.NewSet())
		err := outcome.AuthRequired("please log in to use your wishlist")
		return outcome.Failed(err), err
	}

	ids, err := s.gateway.Read(ctx, sess.Credential)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome.Failed(ctxErr), ctxErr
	}
	if err != nil {
		s.log.Warn("wishlist refresh failed", slog.Any("err", err))
		s.store(gen, domwishlist.NewSet())
		return outcome.Failed(err), err
	}

	if !s.store(gen, domwishlist.NewSet(ids...)) {
		return outcome.Failed(outcome.ErrDiscarded), outcome.ErrDiscarded
	}
	return outcome.Succeeded(""), nil
}

func (s *Synchronizer) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Synchronizer) store(gen uint64, set domwishlist.Set) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.saved = set
	return true
}

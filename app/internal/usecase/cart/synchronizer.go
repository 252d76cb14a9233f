package cart

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	domcart "example.com/storefront/app/internal/domain/cart"
	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
)

type CartGateway interface {
	domcart.Gateway
}

// Synchronizer owns the cart snapshot of one browser session.
//
// Mutations never patch the snapshot. A successful mutation is followed by
// a full read and the read result replaces the snapshot wholesale. Calls are
// not serialized against each other: when two overlap, whichever read
// completes last decides what is held.
type Synchronizer struct {
	gateway CartGateway
	log     *slog.Logger

	mu         sync.RWMutex
	snapshot   *domcart.Snapshot
	generation uint64
}

func NewSynchronizer(gateway CartGateway, log *slog.Logger) *Synchronizer {
	if log == nil {
		log = slog.Default()
	}
	return &Synchronizer{
		gateway: gateway,
		log:     log.With("component", "cart"),
	}
}

// Snapshot returns a copy of the held cart, or nil when none is loaded.
func (s *Synchronizer) Snapshot() *domcart.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot.Clone()
}

// Reset forgets the snapshot. Reads still in flight are discarded when they land.
func (s *Synchronizer) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.snapshot = nil
}

func (s *Synchronizer) Add(ctx context.Context, sess domsession.Session, productID string) (outcome.Outcome, error) {
	return s.mutate(ctx, sess, "add", func(credential string) (domcart.Ack, error) {
		return s.gateway.Create(ctx, credential, productID)
	})
}

// UpdateQuantity refuses counts below one without calling the upstream.
func (s *Synchronizer) UpdateQuantity(ctx context.Context, sess domsession.Session, productID string, count int64) (outcome.Outcome, error) {
	if count < 1 {
		err := &outcome.Error{Kind: outcome.ErrInvalidQuantity, Status: 422, Message: "quantity must be at least 1"}
		return outcome.Failed(err), err
	}
	return s.mutate(ctx, sess, "update", func(credential string) (domcart.Ack, error) {
		return s.gateway.Update(ctx, credential, productID, count)
	})
}

func (s *Synchronizer) Remove(ctx context.Context, sess domsession.Session, productID string) (outcome.Outcome, error) {
	return s.mutate(ctx, sess, "remove", func(credential string) (domcart.Ack, error) {
		return s.gateway.Delete(ctx, credential, productID)
	})
}

func (s *Synchronizer) Empty(ctx context.Context, sess domsession.Session) (outcome.Outcome, error) {
	return s.mutate(ctx, sess, "empty", func(credential string) (domcart.Ack, error) {
		return s.gateway.Clear(ctx, credential)
	})
}

// Refresh replaces the snapshot with a fresh read. Any failure, including a
// missing credential, leaves no snapshot at all rather than a stale one.
func (s *Synchronizer) Refresh(ctx context.Context, sess domsession.Session) (outcome.Outcome, error) {
	return s.refresh(ctx, sess, s.currentGeneration())
}

// refresh stores the read only if no Reset happened since gen was taken.
func (s *Synchronizer) refresh(ctx context.Context, sess domsession.Session, gen uint64) (outcome.Outcome, error) {
	if !sess.Authenticated() {
		err := outcome.AuthRequired("please log in to view your cart")
		s.store(gen, nil)
		return outcome.Failed(err), err
	}

	snap, err := s.gateway.Read(ctx, sess.Credential)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outcome.Failed(ctxErr), ctxErr
	}
	if err != nil {
		s.log.Warn("cart refresh failed", slog.Any("err", err))
		s.store(gen, nil)
		return outcome.Failed(err), err
	}

	if !s.store(gen, snap) {
		return outcome.Failed(outcome.ErrDiscarded), outcome.ErrDiscarded
	}
	return outcome.Succeeded(""), nil
}

func (s *Synchronizer) mutate(ctx context.Context, sess domsession.Session, op string, call func(credential string) (domcart.Ack, error)) (outcome.Outcome, error) {
	if !sess.Authenticated() {
		err := outcome.AuthRequired("please log in to change your cart")
		return outcome.Failed(err), err
	}

	gen := s.currentGeneration()
	ack, err := call(sess.Credential)
	if err != nil {
		s.log.Info("cart mutation failed", slog.String("op", op), slog.Any("err", err))
		return outcome.Failed(err), err
	}

	// signed out while the call was in flight: the old cart must not come back
	if s.currentGeneration() != gen {
		return outcome.Failed(outcome.ErrDiscarded), outcome.ErrDiscarded
	}

	out := outcome.Succeeded(ack.Message)
	if _, err := s.refresh(ctx, sess, gen); err != nil {
		if errors.Is(err, outcome.ErrDiscarded) {
			return outcome.Failed(err), err
		}
		s.log.Warn("cart reconcile failed", slog.String("op", op), slog.Any("err", err))
		return out, nil
	}
	out.Reconciled = true
	return out, nil
}

func (s *Synchronizer) currentGeneration() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

func (s *Synchronizer) store(gen uint64, snap *domcart.Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.snapshot = snap.Clone()
	return true
}

package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	domsession "example.com/storefront/app/internal/domain/session"
	domuser "example.com/storefront/app/internal/domain/user"
)

type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*domuser.SignInResult, error)
}

type Claims struct {
	UserID    string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// CredentialInspector reads the identity claims carried by an upstream
// credential without verifying it; the upstream remains the only verifier.
type CredentialInspector interface {
	Inspect(credential string) (*Claims, error)
}

// Listener observes session transitions. It runs synchronously after the
// transition, outside the holder's lock.
type Listener func(ctx context.Context, s domsession.Session)

type Option func(*Holder)

func WithClock(now func() time.Time) Option {
	return func(h *Holder) {
		h.now = now
	}
}

// Holder owns the credential of one browser session. Everything else reads
// copies through Current.
type Holder struct {
	authn     Authenticator
	inspector CredentialInspector
	now       func() time.Time

	mu        sync.Mutex
	current   domsession.Session
	listeners []Listener
}

func NewHolder(authn Authenticator, inspector CredentialInspector, opts ...Option) *Holder {
	h := &Holder{
		authn:     authn,
		inspector: inspector,
		now:       time.Now,
		current:   domsession.Anonymous(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

type LoginInput struct {
	Email    string
	Password string
}

func (h *Holder) Subscribe(l Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = append(h.listeners, l)
}

// SignIn runs the one-shot credential exchange. There is no retry. A failed
// exchange puts back the session held before it (unauthenticated for a
// first sign-in) and the caller decides what next.
func (h *Holder) SignIn(ctx context.Context, in LoginInput) (domsession.Session, error) {
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" || in.Password == "" {
		return h.Current(ctx), domsession.ErrInvalidCredential
	}

	h.mu.Lock()
	if h.current.State == domsession.StateAuthenticating {
		h.mu.Unlock()
		return domsession.Session{State: domsession.StateAuthenticating}, domsession.ErrSignInInProgress
	}
	prev := h.current
	h.current = domsession.Session{State: domsession.StateAuthenticating}
	h.mu.Unlock()
	h.notify(ctx, domsession.Session{State: domsession.StateAuthenticating})

	res, err := h.authn.SignIn(ctx, email, in.Password)
	if err != nil {
		back := domsession.Anonymous()
		if prev.Authenticated() && !prev.Expired(h.now()) {
			back = prev
		}
		h.transition(ctx, back)
		return back, err
	}

	s := h.sessionFrom(res)
	h.transition(ctx, s)
	return s, nil
}

// Restore reinstalls a session that was persisted earlier.
func (h *Holder) Restore(ctx context.Context, s domsession.Session) error {
	if !s.Authenticated() || s.Expired(h.now()) {
		return domsession.ErrInvalidCredential
	}
	h.transition(ctx, s)
	return nil
}

func (h *Holder) SignOut(ctx context.Context) {
	h.mu.Lock()
	was := h.current.State
	h.current = domsession.Anonymous()
	h.mu.Unlock()

	if was != domsession.StateUnauthenticated {
		h.notify(ctx, domsession.Anonymous())
	}
}

// Current returns a copy of the session. An expired credential is dropped
// here, which listeners see as a regular sign-out.
func (h *Holder) Current(ctx context.Context) domsession.Session {
	h.mu.Lock()
	s := h.current
	expired := s.State == domsession.StateAuthenticated && s.Expired(h.now())
	if expired {
		h.current = domsession.Anonymous()
		s = h.current
	}
	h.mu.Unlock()

	if expired {
		h.notify(ctx, s)
	}
	return s
}

func (h *Holder) transition(ctx context.Context, s domsession.Session) {
	h.mu.Lock()
	h.current = s
	h.mu.Unlock()
	h.notify(ctx, s)
}

func (h *Holder) notify(ctx context.Context, s domsession.Session) {
	h.mu.Lock()
	listeners := make([]Listener, len(h.listeners))
	copy(listeners, h.listeners)
	h.mu.Unlock()

	for _, l := range listeners {
		l(ctx, s)
	}
}

func (h *Holder) sessionFrom(res *domuser.SignInResult) domsession.Session {
	s := domsession.Session{
		State:      domsession.StateAuthenticated,
		Credential: res.Token,
		User: domsession.User{
			ID:    res.User.ID,
			Name:  res.User.Name,
			Email: res.User.Email,
			Role:  res.User.Role,
		},
	}

	// Opaque credentials are fine; they just carry no expiry or id.
	if h.inspector == nil {
		return s
	}
	claims, err := h.inspector.Inspect(res.Token)
	if err != nil {
		return s
	}
	if s.User.ID == "" {
		s.User.ID = claims.UserID
	}
	if s.User.Name == "" {
		s.User.Name = claims.Name
	}
	if s.User.Role == "" {
		s.User.Role = claims.Role
	}
	s.ExpiresAt = claims.ExpiresAt
	return s
}

package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
	domuser "example.com/storefront/app/internal/domain/user"
)

type mockAuthenticator struct {
	result   *domuser.SignInResult
	err      error
	calls    int
	lastMail string
	block    chan struct{}
}

func (m *mockAuthenticator) SignIn(ctx context.Context, email, password string) (*domuser.SignInResult, error) {
	m.calls++
	m.lastMail = email
	if m.block != nil {
		<-m.block
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

type mockInspector struct {
	claims *Claims
	err    error
}

func (m *mockInspector) Inspect(credential string) (*Claims, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.claims, nil
}

type transitionLog struct {
	states []domsession.State
}

func (l *transitionLog) listen(ctx context.Context, s domsession.Session) {
	l.states = append(l.states, s.State)
}

func newSignedInResult() *domuser.SignInResult {
	return &domuser.SignInResult{
		Token: "token-123",
		User:  domuser.User{Name: "Mona", Email: "mona@example.com", Role: "user"},
	}
}

func TestSignIn_Success(t *testing.T) {
	authn := &mockAuthenticator{result: newSignedInResult()}
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	inspector := &mockInspector{claims: &Claims{UserID: "u-1", Name: "Mona", ExpiresAt: exp}}
	h := NewHolder(authn, inspector)

	log := &transitionLog{}
	h.Subscribe(log.listen)

	s, err := h.SignIn(context.Background(), LoginInput{Email: "  Mona@Example.com ", Password: "secret1"})

	require.NoError(t, err)
	require.True(t, s.Authenticated())
	require.Equal(t, "token-123", s.Credential)
	require.Equal(t, "u-1", s.User.ID)
	require.Equal(t, "Mona", s.User.Name)
	require.Equal(t, exp, s.ExpiresAt)
	require.Equal(t, "mona@example.com", authn.lastMail)
	require.Equal(t, []domsession.State{domsession.StateAuthenticating, domsession.StateAuthenticated}, log.states)
	require.Equal(t, s, h.Current(context.Background()))
}

func TestSignIn_FailureReportsAndStaysUnauthenticated(t *testing.T) {
	rejected := outcome.Rejected(401, "Incorrect email or password")
	authn := &mockAuthenticator{err: rejected}
	h := NewHolder(authn, nil)

	log := &transitionLog{}
	h.Subscribe(log.listen)

	s, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "wrong-pass"})

	require.ErrorIs(t, err, outcome.ErrRejected)
	require.False(t, s.Authenticated())
	require.Equal(t, 1, authn.calls, "no retry on failure")
	require.Equal(t, domsession.StateUnauthenticated, h.Current(context.Background()).State)
	require.Equal(t, []domsession.State{domsession.StateAuthenticating, domsession.StateUnauthenticated}, log.states)
}

func TestSignIn_FailedReloginKeepsPreviousSession(t *testing.T) {
	authn := &mockAuthenticator{err: outcome.Rejected(401, "Incorrect email or password")}
	h := NewHolder(authn, nil)
	prev := domsession.Session{
		State:      domsession.StateAuthenticated,
		Credential: "token-old",
		User:       domsession.User{ID: "u-1", Name: "Mona"},
	}
	require.NoError(t, h.Restore(context.Background(), prev))

	log := &transitionLog{}
	h.Subscribe(log.listen)

	s, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "wrong-pass"})

	require.ErrorIs(t, err, outcome.ErrRejected)
	require.Equal(t, prev, s)
	require.Equal(t, prev, h.Current(context.Background()))
	require.Equal(t, []domsession.State{domsession.StateAuthenticating, domsession.StateAuthenticated}, log.states)
}

func TestSignIn_EmptyInputRejectedLocally(t *testing.T) {
	tests := []struct {
		name string
		in   LoginInput
	}{
		{name: "Empty email", in: LoginInput{Email: "  ", Password: "secret1"}},
		{name: "Empty password", in: LoginInput{Email: "mona@example.com"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authn := &mockAuthenticator{result: newSignedInResult()}
			h := NewHolder(authn, nil)

			_, err := h.SignIn(context.Background(), tt.in)

			require.ErrorIs(t, err, domsession.ErrInvalidCredential)
			require.Equal(t, 0, authn.calls)
		})
	}
}

func TestSignIn_ConcurrentExchangeRejected(t *testing.T) {
	authn := &mockAuthenticator{result: newSignedInResult(), block: make(chan struct{})}
	h := NewHolder(authn, nil)

	entered := make(chan struct{})
	h.Subscribe(func(ctx context.Context, s domsession.Session) {
		if s.State == domsession.StateAuthenticating {
			close(entered)
		}
	})

	done := make(chan error, 1)
	go func() {
		_, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "secret1"})
		done <- err
	}()
	<-entered

	_, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "secret1"})
	require.ErrorIs(t, err, domsession.ErrSignInInProgress)

	close(authn.block)
	require.NoError(t, <-done)
	require.True(t, h.Current(context.Background()).Authenticated())
}

func TestSignIn_OpaqueCredentialHasNoExpiry(t *testing.T) {
	authn := &mockAuthenticator{result: newSignedInResult()}
	h := NewHolder(authn, &mockInspector{err: errors.New("not a jwt")})

	s, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "secret1"})

	require.NoError(t, err)
	require.True(t, s.Authenticated())
	require.True(t, s.ExpiresAt.IsZero())
}

func TestSignOut_NotifiesOnlyOnTransition(t *testing.T) {
	authn := &mockAuthenticator{result: newSignedInResult()}
	h := NewHolder(authn, nil)
	log := &transitionLog{}

	h.SignOut(context.Background())
	h.Subscribe(log.listen)
	h.SignOut(context.Background())
	require.Empty(t, log.states)

	_, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "secret1"})
	require.NoError(t, err)
	h.SignOut(context.Background())

	require.Equal(t, domsession.StateUnauthenticated, log.states[len(log.states)-1])
	require.False(t, h.Current(context.Background()).Authenticated())
}

func TestCurrent_ExpiredCredentialSignsOut(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	authn := &mockAuthenticator{result: newSignedInResult()}
	inspector := &mockInspector{claims: &Claims{ExpiresAt: now.Add(time.Hour)}}
	h := NewHolder(authn, inspector, WithClock(func() time.Time { return now }))

	_, err := h.SignIn(context.Background(), LoginInput{Email: "mona@example.com", Password: "secret1"})
	require.NoError(t, err)
	require.True(t, h.Current(context.Background()).Authenticated())

	log := &transitionLog{}
	h.Subscribe(log.listen)
	now = now.Add(2 * time.Hour)

	s := h.Current(context.Background())
	require.False(t, s.Authenticated())
	require.Empty(t, s.Credential)
	require.Equal(t, []domsession.State{domsession.StateUnauthenticated}, log.states)
}

func TestRestore(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	h := NewHolder(&mockAuthenticator{}, nil, WithClock(func() time.Time { return now }))

	err := h.Restore(context.Background(), domsession.Session{State: domsession.StateAuthenticated, Credential: "tok", ExpiresAt: now.Add(-time.Minute)})
	require.ErrorIs(t, err, domsession.ErrInvalidCredential)

	err = h.Restore(context.Background(), domsession.Session{State: domsession.StateAuthenticated, Credential: "tok", User: domsession.User{Name: "Mona"}})
	require.NoError(t, err)
	require.Equal(t, "Mona", h.Current(context.Background()).User.Name)
}

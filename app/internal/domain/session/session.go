package session

import "time"

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateAuthenticating  State = "authenticating"
	StateAuthenticated   State = "authenticated"
)

type User struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Session is an immutable view of the authentication state. Holders hand out
// copies; nobody but the holder changes it.
type Session struct {
	State      State
	Credential string
	User       User
	ExpiresAt  time.Time
}

func Anonymous() Session {
	return Session{State: StateUnauthenticated}
}

func (s Session) Authenticated() bool {
	return s.State == StateAuthenticated && s.Credential != ""
}

// Expired reports whether the credential carried an expiry that has passed.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Record is what the session store keeps for one browser session.
type Record struct {
	StorefrontID string
	Credential   string
	User         User
	ExpiresAt    time.Time
}

func (r Record) Session() Session {
	return Session{
		State:      StateAuthenticated,
		Credential: r.Credential,
		User:       r.User,
		ExpiresAt:  r.ExpiresAt,
	}
}

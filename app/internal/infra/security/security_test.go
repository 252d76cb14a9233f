package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, expiresAt, err := svc.GenerateToken("sf-1")
	require.NoError(t, err)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	id, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "sf-1", id)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)
	token, _, err := svc.GenerateToken("sf-1")
	require.NoError(t, err)

	expired := NewJWTService("secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken("sf-1")
	require.NoError(t, err)

	tests := []struct {
		name  string
		svc   *JWTService
		token string
	}{
		{name: "Wrong secret", svc: NewJWTService("other", time.Hour), token: token},
		{name: "Expired", svc: svc, token: old},
		{name: "Garbage", svc: svc, token: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.svc.ParseToken(tt.token)
			require.ErrorIs(t, err, ErrInvalidSessionToken)
		})
	}
}

func TestCredentialInspector(t *testing.T) {
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	// signed with a key we do not know on the server side
	cred, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   "u1",
		"name": "Mona",
		"role": "user",
		"exp":  exp.Unix(),
	}).SignedString([]byte("upstream-only"))
	require.NoError(t, err)

	claims, err := NewCredentialInspector().Inspect(cred)

	require.NoError(t, err)
	require.Equal(t, "u1", claims.UserID)
	require.Equal(t, "Mona", claims.Name)
	require.Equal(t, "user", claims.Role)
	require.True(t, exp.Equal(claims.ExpiresAt))
}

func TestCredentialInspector_Opaque(t *testing.T) {
	_, err := NewCredentialInspector().Inspect("opaque-token")
	require.Error(t, err)
}

func TestSealer(t *testing.T) {
	s := NewSealer("seal-key")

	sealed, err := s.Seal("upstream-credential")
	require.NoError(t, err)
	require.NotContains(t, sealed, "upstream-credential")

	again, err := s.Seal("upstream-credential")
	require.NoError(t, err)
	require.NotEqual(t, sealed, again)

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	require.Equal(t, "upstream-credential", plain)

	_, err = NewSealer("other").Open(sealed)
	require.ErrorIs(t, err, ErrUnseal)

	_, err = s.Open("!!")
	require.ErrorIs(t, err, ErrUnseal)
}

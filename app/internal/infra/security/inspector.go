package security

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	authuc "example.com/storefront/app/internal/usecase/auth"
)

// CredentialInspector decodes the claims of an upstream credential without
// checking its signature. The upstream stays the only verifier; the claims
// are used for display and expiry only.
type CredentialInspector struct {
	parser *jwt.Parser
}

func NewCredentialInspector() *CredentialInspector {
	return &CredentialInspector{parser: jwt.NewParser()}
}

type upstreamClaims struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (i *CredentialInspector) Inspect(credential string) (*authuc.Claims, error) {
	var claims upstreamClaims
	if _, _, err := i.parser.ParseUnverified(credential, &claims); err != nil {
		return nil, err
	}
	if claims.ID == "" {
		return nil, errors.New("credential carries no user id")
	}

	out := &authuc.Claims{
		UserID: claims.ID,
		Name:   claims.Name,
		Role:   claims.Role,
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

package user

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"example.com/storefront/app/internal/domain/outcome"
	dom "example.com/storefront/app/internal/domain/user"
)

type Service struct {
	gateway dom.Gateway
}

func NewService(gateway dom.Gateway) *Service {
	return &Service{gateway: gateway}
}

// Register creates the upstream account. It does not sign in; the caller
// goes through the session holder for that.
func (s *Service) Register(ctx context.Context, reg dom.Registration) (*dom.User, error) {
	reg.Email = normalizeEmail(reg.Email)
	if reg.Password != reg.RePassword {
		return nil, dom.ErrPasswordsMismatch
	}

	res, err := s.gateway.SignUp(ctx, reg)
	if err != nil {
		if outcome.StatusOf(err) == http.StatusConflict {
			return nil, errors.Join(dom.ErrEmailAlreadyUsed, err)
		}
		return nil, err
	}
	return &res.User, nil
}

// ForgotPassword asks the upstream to mail a reset code.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	return s.gateway.ForgotPassword(ctx, normalizeEmail(email))
}

func (s *Service) VerifyResetCode(ctx context.Context, code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", dom.ErrInvalidResetCode
	}
	msg, err := s.gateway.VerifyResetCode(ctx, code)
	if err != nil {
		if errors.Is(err, outcome.ErrRejected) {
			return "", errors.Join(dom.ErrInvalidResetCode, err)
		}
		return "", err
	}
	return msg, nil
}

func (s *Service) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	return s.gateway.ResetPassword(ctx, normalizeEmail(email), newPassword)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

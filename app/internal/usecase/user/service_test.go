package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/storefront/app/internal/domain/outcome"
	dom "example.com/storefront/app/internal/domain/user"
)

type mockGateway struct {
	signUpErr   error
	verifyErr   error
	lastReg     dom.Registration
	lastEmail   string
	lastCode    string
	lastNewPass string
	calls       int
}

func (m *mockGateway) SignIn(ctx context.Context, email, password string) (*dom.SignInResult, error) {
	m.calls++
	return nil, errors.New("not used")
}

func (m *mockGateway) SignUp(ctx context.Context, reg dom.Registration) (*dom.SignInResult, error) {
	m.calls++
	m.lastReg = reg
	if m.signUpErr != nil {
		return nil, m.signUpErr
	}
	return &dom.SignInResult{Token: "t", User: dom.User{Name: reg.Name, Email: reg.Email, Role: "user"}}, nil
}

func (m *mockGateway) ForgotPassword(ctx context.Context, email string) (string, error) {
	m.calls++
	m.lastEmail = email
	return "Reset code sent to your email", nil
}

func (m *mockGateway) VerifyResetCode(ctx context.Context, code string) (string, error) {
	m.calls++
	m.lastCode = code
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	return "Success", nil
}

func (m *mockGateway) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	m.calls++
	m.lastEmail, m.lastNewPass = email, newPassword
	return "", nil
}

func TestRegister_Succeeds(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	u, err := svc.Register(context.Background(), dom.Registration{
		Name:       "Mona",
		Email:      "  Mona@Example.com ",
		Password:   "secret1",
		RePassword: "secret1",
		Phone:      "01000000000",
	})

	require.NoError(t, err)
	require.Equal(t, "Mona", u.Name)
	require.Equal(t, "mona@example.com", gw.lastReg.Email)
}

func TestRegister_PasswordsMismatch(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	_, err := svc.Register(context.Background(), dom.Registration{Email: "a@b.c", Password: "secret1", RePassword: "secret2"})

	require.ErrorIs(t, err, dom.ErrPasswordsMismatch)
	require.Zero(t, gw.calls)
}

func TestRegister_EmailTaken(t *testing.T) {
	gw := &mockGateway{signUpErr: outcome.Rejected(409, "Account Already Exists")}
	svc := NewService(gw)

	_, err := svc.Register(context.Background(), dom.Registration{Email: "a@b.c", Password: "secret1", RePassword: "secret1"})

	require.ErrorIs(t, err, dom.ErrEmailAlreadyUsed)
	require.ErrorIs(t, err, outcome.ErrRejected)
	require.Equal(t, "Account Already Exists", outcome.Message(err))
}

func TestVerifyResetCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		gwErr   error
		wantErr error
		calls   int
	}{
		{name: "Valid code", code: " 123456 ", calls: 1},
		{name: "Blank code", code: "  ", wantErr: dom.ErrInvalidResetCode},
		{name: "Rejected code", code: "000000", gwErr: outcome.Rejected(400, "Reset code is invalid or has expired"), wantErr: dom.ErrInvalidResetCode, calls: 1},
		{name: "Transport failure", code: "123456", gwErr: outcome.Transport(errors.New("dial")), wantErr: outcome.ErrTransport, calls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &mockGateway{verifyErr: tt.gwErr}
			svc := NewService(gw)

			msg, err := svc.VerifyResetCode(context.Background(), tt.code)

			require.Equal(t, tt.calls, gw.calls)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "Success", msg)
			require.Equal(t, "123456", gw.lastCode)
		})
	}
}

func TestForgotAndResetPassword_NormalizeEmail(t *testing.T) {
	gw := &mockGateway{}
	svc := NewService(gw)

	msg, err := svc.ForgotPassword(context.Background(), " Mona@Example.com")
	require.NoError(t, err)
	require.Equal(t, "Reset code sent to your email", msg)
	require.Equal(t, "mona@example.com", gw.lastEmail)

	_, err = svc.ResetPassword(context.Background(), "MONA@example.com", "newsecret")
	require.NoError(t, err)
	require.Equal(t, "mona@example.com", gw.lastEmail)
	require.Equal(t, "newsecret", gw.lastNewPass)
}

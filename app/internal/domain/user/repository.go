package user

import "context"

// Gateway is the upstream account API.
type Gateway interface {
	SignIn(ctx context.Context, email, password string) (*SignInResult, error)
	SignUp(ctx context.Context, reg Registration) (*SignInResult, error)
	ForgotPassword(ctx context.Context, email string) (string, error)
	VerifyResetCode(ctx context.Context, code string) (string, error)
	ResetPassword(ctx context.Context, email, newPassword string) (string, error)
}

package upstream

import (
	"context"
	"net/http"

	domuser "example.com/storefront/app/internal/domain/user"
)

// AccountAPI implements user.Gateway.
type AccountAPI struct {
	c *Client
}

func (a *AccountAPI) SignIn(ctx context.Context, email, password string) (*domuser.SignInResult, error) {
	var out wireSignIn
	_, err := a.c.do(ctx, call{
		op:     "auth.signin",
		method: http.MethodPost,
		path:   "/auth/signin",
		body:   map[string]string{"email": email, "password": password},
	}, &out)
	if err != nil {
		return nil, err
	}
	return signInResult(out), nil
}

func (a *AccountAPI) SignUp(ctx context.Context, reg domuser.Registration) (*domuser.SignInResult, error) {
	var out wireSignIn
	_, err := a.c.do(ctx, call{
		op:     "auth.signup",
		method: http.MethodPost,
		path:   "/auth/signup",
		body: map[string]string{
			"name":       reg.Name,
			"email":      reg.Email,
			"password":   reg.Password,
			"rePassword": reg.RePassword,
			"phone":      reg.Phone,
		},
	}, &out)
	if err != nil {
		return nil, err
	}
	return signInResult(out), nil
}

func (a *AccountAPI) ForgotPassword(ctx context.Context, email string) (string, error) {
	env, err := a.c.do(ctx, call{
		op:     "auth.forgot_password",
		method: http.MethodPost,
		path:   "/auth/forgotPasswords",
		body:   map[string]string{"email": email},
	}, nil)
	return env.message(), err
}

func (a *AccountAPI) VerifyResetCode(ctx context.Context, code string) (string, error) {
	env, err := a.c.do(ctx, call{
		op:     "auth.verify_reset_code",
		method: http.MethodPost,
		path:   "/auth/verifyResetCode",
		body:   map[string]string{"resetCode": code},
	}, nil)
	return env.message(), err
}

func (a *AccountAPI) ResetPassword(ctx context.Context, email, newPassword string) (string, error) {
	env, err := a.c.do(ctx, call{
		op:     "auth.reset_password",
		method: http.MethodPut,
		path:   "/auth/resetPassword",
		body:   map[string]string{"email": email, "newPassword": newPassword},
	}, nil)
	return env.message(), err
}

func signInResult(w wireSignIn) *domuser.SignInResult {
	return &domuser.SignInResult{
		Token: w.Token,
		User: domuser.User{
			Name:  w.User.Name,
			Email: w.User.Email,
			Role:  w.User.Role,
		},
	}
}

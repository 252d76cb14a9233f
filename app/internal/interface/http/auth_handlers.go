package http

import (
	"net/http"

	domuser "example.com/storefront/app/internal/domain/user"
	authuc "example.com/storefront/app/internal/usecase/auth"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type registerRequest struct {
	Name       string `json:"name" validate:"required,min=3,max=50"`
	Email      string `json:"email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=6"`
	RePassword string `json:"rePassword" validate:"required,eqfield=Password"`
	Phone      string `json:"phone" validate:"required,e164|numeric"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type verifyResetCodeRequest struct {
	ResetCode string `json:"resetCode" validate:"required"`
}

type resetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	var req loginRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	sess, err := sf.Auth.SignIn(r.Context(), authuc.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "success",
		"session":  mapSession(sess),
		"cart":     mapCart(sf.Cart.Snapshot()),
		"wishlist": sf.Wishlist.IDs(),
	})
}

func (a *API) handleLogout(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	sf.Auth.SignOut(r.Context())
	writeJSON(w, http.StatusOK, map[string]any{"message": "signed out"})
}

func (a *API) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	writeJSON(w, http.StatusOK, mapSession(sf.Session(r.Context())))
}

func (a *API) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	u, err := a.accountSvc.Register(r.Context(), domuser.Registration{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		RePassword: req.RePassword,
		Phone:      req.Phone,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": "success", "user": mapUser(u)})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	msg, err := a.accountSvc.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

func (a *API) handleVerifyResetCode(w http.ResponseWriter, r *http.Request) {
	var req verifyResetCodeRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	msg, err := a.accountSvc.VerifyResetCode(r.Context(), req.ResetCode)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

func (a *API) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	msg, err := a.accountSvc.ResetPassword(r.Context(), req.Email, req.NewPassword)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": msg})
}

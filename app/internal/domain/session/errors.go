package session

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSignInInProgress  = errors.New("sign-in already in progress")
	ErrInvalidCredential = errors.New("invalid credential")
)

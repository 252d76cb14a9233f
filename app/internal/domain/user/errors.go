package user

import "errors"

var (
	ErrEmailAlreadyUsed  = errors.New("email already used")
	ErrInvalidResetCode  = errors.New("reset code is invalid or has expired")
	ErrPasswordsMismatch = errors.New("passwords don't match")
)

package order

import "errors"

var (
	ErrInvalidPayment  = errors.New("invalid payment method")
	ErrEmptyOrderItems = errors.New("no items to checkout")
	ErrCartNotLoaded   = errors.New("cart is not loaded")
)

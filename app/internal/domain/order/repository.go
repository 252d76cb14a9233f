package order

import "context"

type Gateway interface {
	CreateCashOrder(ctx context.Context, credential, cartID string, addr ShippingAddress) (*Order, error)
	CreateCheckoutSession(ctx context.Context, credential, cartID string, addr ShippingAddress, returnURL string) (*CheckoutSession, error)
	ListByUser(ctx context.Context, credential, userID string) ([]*Order, error)
}

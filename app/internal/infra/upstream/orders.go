package upstream

import (
	"context"
	"net/http"
	"net/url"

	domorder "example.com/storefront/app/internal/domain/order"
)

// OrderAPI implements order.Gateway.
type OrderAPI struct {
	c *Client
}

func (a *OrderAPI) CreateCashOrder(ctx context.Context, credential, cartID string, addr domorder.ShippingAddress) (*domorder.Order, error) {
	var out struct {
		Data wireOrder `json:"data"`
	}
	_, err := a.c.do(ctx, call{
		op:         "orders.create_cash",
		method:     http.MethodPost,
		path:       "/orders/" + url.PathEscape(cartID),
		credential: credential,
		body:       map[string]wireAddress{"shippingAddress": addressOf(addr)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return out.Data.toDomain(), nil
}

func (a *OrderAPI) CreateCheckoutSession(ctx context.Context, credential, cartID string, addr domorder.ShippingAddress, returnURL string) (*domorder.CheckoutSession, error) {
	var out struct {
		Session struct {
			URL string `json:"url"`
		} `json:"session"`
	}
	_, err := a.c.do(ctx, call{
		op:         "orders.checkout_session",
		method:     http.MethodPost,
		path:       "/orders/checkout-session/" + url.PathEscape(cartID),
		credential: credential,
		query:      url.Values{"url": []string{returnURL}},
		body:       map[string]wireAddress{"shippingAddress": addressOf(addr)},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &domorder.CheckoutSession{URL: out.Session.URL}, nil
}

// ListByUser returns the user's orders; this endpoint answers with a bare array.
func (a *OrderAPI) ListByUser(ctx context.Context, credential, userID string) ([]*domorder.Order, error) {
	var out []wireOrder
	_, err := a.c.do(ctx, call{
		op:         "orders.list",
		method:     http.MethodGet,
		path:       "/orders/user/" + url.PathEscape(userID),
		credential: credential,
	}, &out)
	if err != nil {
		return nil, err
	}
	orders := make([]*domorder.Order, 0, len(out))
	for _, w := range out {
		orders = append(orders, w.toDomain())
	}
	return orders, nil
}

package upstream

import (
	"context"
	"net/http"
	"net/url"

	domcart "example.com/storefront/app/internal/domain/cart"
)

// CartAPI implements cart.Gateway.
type CartAPI struct {
	c *Client
}

func (a *CartAPI) Read(ctx context.Context, credential string) (*domcart.Snapshot, error) {
	var out wireCart
	if _, err := a.c.do(ctx, call{op: "cart.read", method: http.MethodGet, path: "/cart", credential: credential}, &out); err != nil {
		return nil, err
	}
	return out.toDomain(), nil
}

func (a *CartAPI) Create(ctx context.Context, credential, productID string) (domcart.Ack, error) {
	env, err := a.c.do(ctx, call{
		op:         "cart.create",
		method:     http.MethodPost,
		path:       "/cart",
		credential: credential,
		body:       map[string]string{"productId": productID},
	}, nil)
	return domcart.Ack{Message: env.message()}, err
}

func (a *CartAPI) Update(ctx context.Context, credential, productID string, count int64) (domcart.Ack, error) {
	env, err := a.c.do(ctx, call{
		op:         "cart.update",
		method:     http.MethodPut,
		path:       "/cart/" + url.PathEscape(productID),
		credential: credential,
		body:       map[string]int64{"count": count},
	}, nil)
	return domcart.Ack{Message: env.message()}, err
}

func (a *CartAPI) Delete(ctx context.Context, credential, productID string) (domcart.Ack, error) {
	env, err := a.c.do(ctx, call{
		op:         "cart.delete",
		method:     http.MethodDelete,
		path:       "/cart/" + url.PathEscape(productID),
		credential: credential,
	}, nil)
	return domcart.Ack{Message: env.message()}, err
}

func (a *CartAPI) Clear(ctx context.Context, credential string) (domcart.Ack, error) {
	env, err := a.c.do(ctx, call{op: "cart.clear", method: http.MethodDelete, path: "/cart", credential: credential}, nil)
	return domcart.Ack{Message: env.message()}, err
}

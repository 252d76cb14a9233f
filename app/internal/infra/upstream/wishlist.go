package upstream

import (
	"context"
	"net/http"
	"net/url"

	domwishlist "example.com/storefront/app/internal/domain/wishlist"
)

// WishlistAPI implements wishlist.Gateway.
type WishlistAPI struct {
	c *Client
}

// Read returns the ids of the saved products. Entries come back populated,
// keyed by either _id or id.
func (a *WishlistAPI) Read(ctx context.Context, credential string) ([]string, error) {
	var out wireWishlist
	if _, err := a.c.do(ctx, call{op: "wishlist.read", method: http.MethodGet, path: "/wishlist", credential: credential}, &out); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(out.Data))
	for _, r := range out.Data {
		if r.ID != "" {
			ids = append(ids, r.ID)
		}
	}
	return ids, nil
}

func (a *WishlistAPI) Add(ctx context.Context, credential, productID string) (domwishlist.Ack, error) {
	env, err := a.c.do(ctx, call{
		op:         "wishlist.add",
		method:     http.MethodPost,
		path:       "/wishlist",
		credential: credential,
		body:       map[string]string{"productId": productID},
	}, nil)
	return domwishlist.Ack{Message: env.message()}, err
}

func (a *WishlistAPI) Remove(ctx context.Context, credential, productID string) (domwishlist.Ack, error) {
	env, err := a.c.do(ctx, call{
		op:         "wishlist.remove",
		method:     http.MethodDelete,
		path:       "/wishlist/" + url.PathEscape(productID),
		credential: credential,
	}, nil)
	return domwishlist.Ack{Message: env.message()}, err
}

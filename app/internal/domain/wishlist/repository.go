package wishlist

import "context"

type Gateway interface {
	Read(ctx context.Context, credential string) ([]string, error)
	Add(ctx context.Context, credential, productID string) (Ack, error)
	Remove(ctx context.Context, credential, productID string) (Ack, error)
}

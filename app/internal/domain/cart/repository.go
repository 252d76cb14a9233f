package cart

import "context"

// Gateway is the upstream cart API. Every call carries the caller's credential.
type Gateway interface {
	Read(ctx context.Context, credential string) (*Snapshot, error)
	Create(ctx context.Context, credential, productID string) (Ack, error)
	Update(ctx context.Context, credential, productID string, count int64) (Ack, error)
	Delete(ctx context.Context, credential, productID string) (Ack, error)
	Clear(ctx context.Context, credential string) (Ack, error)
}

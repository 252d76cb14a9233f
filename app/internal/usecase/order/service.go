package order

import (
	"context"
	"sort"

	domorder "example.com/storefront/app/internal/domain/order"
	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
)

type OrderGateway interface {
	ListByUser(ctx context.Context, credential, userID string) ([]*domorder.Order, error)
}

type Service struct {
	gateway OrderGateway
}

func NewService(gateway OrderGateway) *Service {
	return &Service{gateway: gateway}
}

// ListOrders returns the signed-in user's orders, newest first.
func (s *Service) ListOrders(ctx context.Context, sess domsession.Session) ([]*domorder.Order, error) {
	if !sess.Authenticated() {
		return nil, outcome.AuthRequired("Please login to see your orders")
	}
	// the upstream lists orders by user id, which only the credential carries
	if sess.User.ID == "" {
		return nil, outcome.AuthRequired("Please login again to see your orders")
	}

	orders, err := s.gateway.ListByUser(ctx, sess.Credential, sess.User.ID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

package checkout

import (
	"context"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	"example.com/storefront/app/internal/domain/outcome"
	domsession "example.com/storefront/app/internal/domain/session"
)

// CartView is the part of the cart synchronizer checkout needs: the loaded
// snapshot to order from and a refetch once the upstream has emptied it.
type CartView interface {
	Snapshot() *domcart.Snapshot
	Refresh(ctx context.Context, sess domsession.Session) (outcome.Outcome, error)
}

type OrderGateway interface {
	CreateCashOrder(ctx context.Context, credential, cartID string, addr domorder.ShippingAddress) (*domorder.Order, error)
	CreateCheckoutSession(ctx context.Context, credential, cartID string, addr domorder.ShippingAddress, returnURL string) (*domorder.CheckoutSession, error)
}

type Service struct {
	orders OrderGateway
}

func NewService(orders OrderGateway) *Service {
	return &Service{orders: orders}
}

type Input struct {
	Method    domorder.PaymentMethod
	Address   domorder.ShippingAddress
	ReturnURL string
}

// Result carries either the placed order (cash) or the hosted payment page
// (card).
type Result struct {
	Order      *domorder.Order
	Session    *domorder.CheckoutSession
	Reconciled bool
}

func (s *Service) Checkout(ctx context.Context, sess domsession.Session, cart CartView, in Input) (*Result, error) {
	switch in.Method {
	case domorder.PaymentCash:
		return s.PlaceCashOrder(ctx, sess, cart, in.Address)
	case domorder.PaymentCard:
		return s.StartCardCheckout(ctx, sess, cart, in.Address, in.ReturnURL)
	default:
		return nil, domorder.ErrInvalidPayment
	}
}

// PlaceCashOrder turns the loaded cart into a cash-on-delivery order. The
// upstream empties the cart, so the snapshot is refetched afterwards.
func (s *Service) PlaceCashOrder(ctx context.Context, sess domsession.Session, cart CartView, addr domorder.ShippingAddress) (*Result, error) {
	cartID, err := orderableCart(sess, cart)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.CreateCashOrder(ctx, sess.Credential, cartID, addr)
	if err != nil {
		return nil, err
	}

	res := &Result{Order: order}
	if _, err := cart.Refresh(ctx, sess); err == nil {
		res.Reconciled = true
	}
	return res, nil
}

// StartCardCheckout opens a hosted payment page for the loaded cart. The
// cart stays as is until the payment completes upstream.
func (s *Service) StartCardCheckout(ctx context.Context, sess domsession.Session, cart CartView, addr domorder.ShippingAddress, returnURL string) (*Result, error) {
	cartID, err := orderableCart(sess, cart)
	if err != nil {
		return nil, err
	}

	session, err := s.orders.CreateCheckoutSession(ctx, sess.Credential, cartID, addr, returnURL)
	if err != nil {
		return nil, err
	}
	return &Result{Session: session, Reconciled: true}, nil
}

func orderableCart(sess domsession.Session, cart CartView) (string, error) {
	if !sess.Authenticated() {
		return "", outcome.AuthRequired("Please login to checkout")
	}
	snap := cart.Snapshot()
	if snap == nil || snap.ID == "" {
		return "", domorder.ErrCartNotLoaded
	}
	if snap.Empty() {
		return "", domorder.ErrEmptyOrderItems
	}
	return snap.ID, nil
}

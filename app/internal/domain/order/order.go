package order

import (
	"strings"
	"time"
)

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentCash, PaymentCard:
		return true
	default:
		return false
	}
}

// ParsePaymentMethod accepts the method names the checkout form sends.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cash", "cod":
		return PaymentCash, nil
	case "card", "bank", "online":
		return PaymentCard, nil
	default:
		return "", ErrInvalidPayment
	}
}

type ShippingAddress struct {
	Details string
	Phone   string
	City    string
}

type Order struct {
	ID              string
	Number          int64
	UserID          string
	Items           []OrderItem
	ShippingAddress ShippingAddress
	PaymentMethod   PaymentMethod
	TotalPrice      float64
	IsPaid          bool
	IsDelivered     bool
	CreatedAt       time.Time
}

type OrderItem struct {
	ProductID  string
	Title      string
	ImageCover string
	Price      float64
	Quantity   int64
}

// CheckoutSession is a hosted payment page the browser is sent to.
type CheckoutSession struct {
	URL string
}

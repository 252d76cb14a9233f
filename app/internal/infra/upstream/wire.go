package upstream

import (
	"bytes"
	"encoding/json"
	"time"

	domcart "example.com/storefront/app/internal/domain/cart"
	domorder "example.com/storefront/app/internal/domain/order"
	domproduct "example.com/storefront/app/internal/domain/product"
)

// ref is an upstream reference that arrives either as a bare id string or
// as a populated object, depending on the endpoint.
type ref struct {
	ID     string
	Object *wireProduct
}

func (r *ref) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var p wireProduct
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	r.Object = &p
	r.ID = p.id()
	return nil
}

type wireNamed struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

func (n wireNamed) category() domproduct.Category {
	return domproduct.Category{ID: n.ID, Name: n.Name, Slug: n.Slug, Image: n.Image}
}

func (n wireNamed) brand() domproduct.Brand {
	return domproduct.Brand{ID: n.ID, Name: n.Name, Slug: n.Slug, Image: n.Image}
}

type wireProduct struct {
	ObjectID           string    `json:"_id"`
	ID                 string    `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Description        string    `json:"description"`
	Quantity           int64     `json:"quantity"`
	Sold               int64     `json:"sold"`
	Price              float64   `json:"price"`
	PriceAfterDiscount float64   `json:"priceAfterDiscount"`
	ImageCover         string    `json:"imageCover"`
	Images             []string  `json:"images"`
	RatingsAverage     float64   `json:"ratingsAverage"`
	RatingsQuantity    int64     `json:"ratingsQuantity"`
	Category           wireNamed `json:"category"`
	Brand              wireNamed `json:"brand"`
}

func (p wireProduct) id() string {
	if p.ObjectID != "" {
		return p.ObjectID
	}
	return p.ID
}

func (p wireProduct) toDomain() domproduct.Product {
	return domproduct.Product{
		ID:             p.id(),
		Title:          p.Title,
		Slug:           p.Slug,
		Description:    p.Description,
		Price:          p.Price,
		PriceAfterDisc: p.PriceAfterDiscount,
		Quantity:       p.Quantity,
		Sold:           p.Sold,
		ImageCover:     p.ImageCover,
		Images:         p.Images,
		RatingsAverage: p.RatingsAverage,
		RatingsCount:   p.RatingsQuantity,
		Category:       p.Category.category(),
		Brand:          p.Brand.brand(),
	}
}

type wireCartLine struct {
	ID      string  `json:"_id"`
	Count   int64   `json:"count"`
	Price   float64 `json:"price"`
	Product ref     `json:"product"`
}

type wireCart struct {
	CartID         string `json:"cartId"`
	NumOfCartItems *int   `json:"numOfCartItems"`
	Data           struct {
		ID             string         `json:"_id"`
		CartOwner      string         `json:"cartOwner"`
		Products       []wireCartLine `json:"products"`
		TotalCartPrice float64        `json:"totalCartPrice"`
	} `json:"data"`
}

func (w wireCart) toDomain() *domcart.Snapshot {
	snap := &domcart.Snapshot{
		ID:         w.Data.ID,
		OwnerID:    w.Data.CartOwner,
		Items:      make([]domcart.LineItem, 0, len(w.Data.Products)),
		TotalPrice: w.Data.TotalCartPrice,
		ItemCount:  len(w.Data.Products),
	}
	if snap.ID == "" {
		snap.ID = w.CartID
	}
	if w.NumOfCartItems != nil {
		snap.ItemCount = *w.NumOfCartItems
	}
	for _, line := range w.Data.Products {
		item := domcart.LineItem{
			ID:       line.ID,
			Price:    line.Price,
			Quantity: line.Count,
			Product:  domcart.ProductRef{ID: line.Product.ID},
		}
		if p := line.Product.Object; p != nil {
			item.Product.Title = p.Title
			item.Product.ImageCover = p.ImageCover
			if item.Product.ImageCover == "" && len(p.Images) > 0 {
				item.Product.ImageCover = p.Images[0]
			}
			item.Product.Category = p.Category.Name
			item.Product.Brand = p.Brand.Name
		}
		snap.Items = append(snap.Items, item)
	}
	return snap
}

type wireWishlist struct {
	Data []ref `json:"data"`
}

type wireUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type wireSignIn struct {
	Message string   `json:"message"`
	User    wireUser `json:"user"`
	Token   string   `json:"token"`
}

type wireAddress struct {
	Details string `json:"details"`
	Phone   string `json:"phone"`
	City    string `json:"city"`
}

func addressOf(a domorder.ShippingAddress) wireAddress {
	return wireAddress{Details: a.Details, Phone: a.Phone, City: a.City}
}

type wireOrderLine struct {
	Count   int64   `json:"count"`
	Price   float64 `json:"price"`
	Product ref     `json:"product"`
}

type wireOrderUser struct {
	ID string
}

func (u *wireOrderUser) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &u.ID)
	}
	var obj struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	u.ID = obj.ID
	return nil
}

type wireOrder struct {
	ObjectID          string          `json:"_id"`
	Number            int64           `json:"id"`
	User              wireOrderUser   `json:"user"`
	CartItems         []wireOrderLine `json:"cartItems"`
	ShippingAddress   wireAddress     `json:"shippingAddress"`
	PaymentMethodType string          `json:"paymentMethodType"`
	TotalOrderPrice   float64         `json:"totalOrderPrice"`
	IsPaid            bool            `json:"isPaid"`
	IsDelivered       bool            `json:"isDelivered"`
	CreatedAt         time.Time       `json:"createdAt"`
}

func (w wireOrder) toDomain() *domorder.Order {
	o := &domorder.Order{
		ID:     w.ObjectID,
		Number: w.Number,
		UserID: w.User.ID,
		Items:  make([]domorder.OrderItem, 0, len(w.CartItems)),
		ShippingAddress: domorder.ShippingAddress{
			Details: w.ShippingAddress.Details,
			Phone:   w.ShippingAddress.Phone,
			City:    w.ShippingAddress.City,
		},
		PaymentMethod: domorder.PaymentCash,
		TotalPrice:    w.TotalOrderPrice,
		IsPaid:        w.IsPaid,
		IsDelivered:   w.IsDelivered,
		CreatedAt:     w.CreatedAt,
	}
	if w.PaymentMethodType == "card" {
		o.PaymentMethod = domorder.PaymentCard
	}
	for _, line := range w.CartItems {
		item := domorder.OrderItem{ProductID: line.Product.ID, Price: line.Price, Quantity: line.Count}
		if p := line.Product.Object; p != nil {
			item.Title = p.Title
			item.ImageCover = p.ImageCover
		}
		o.Items = append(o.Items, item)
	}
	return o
}

package http

import (
	"net/http"

	domorder "example.com/storefront/app/internal/domain/order"
	checkoutuc "example.com/storefront/app/internal/usecase/checkout"
)

type shippingAddressRequest struct {
	Details string `json:"details" validate:"required"`
	Phone   string `json:"phone" validate:"required,min=10,max=15"`
	City    string `json:"city" validate:"required"`
}

type placeOrderRequest struct {
	PaymentMethod   string                 `json:"paymentMethod" validate:"required"`
	ShippingAddress shippingAddressRequest `json:"shippingAddress" validate:"required"`
	ReturnURL       string                 `json:"returnUrl" validate:"omitempty,url"`
}

type checkoutSessionRequest struct {
	ShippingAddress shippingAddressRequest `json:"shippingAddress" validate:"required"`
	ReturnURL       string                 `json:"returnUrl" validate:"omitempty,url"`
}

func (req shippingAddressRequest) toDomain() domorder.ShippingAddress {
	return domorder.ShippingAddress{Details: req.Details, Phone: req.Phone, City: req.City}
}

func (a *API) checkoutReturnURL(requested string) string {
	if requested != "" {
		return requested
	}
	return a.returnURL
}

// handlePlaceOrder places a cash order or, for card payments, answers with
// the hosted payment page to send the browser to.
func (a *API) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	var req placeOrderRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}
	method, err := domorder.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	res, err := a.checkoutSvc.Checkout(r.Context(), sf.Session(r.Context()), sf.Cart, checkoutuc.Input{
		Method:    method,
		Address:   req.ShippingAddress.toDomain(),
		ReturnURL: a.checkoutReturnURL(req.ReturnURL),
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if res.Session != nil {
		writeJSON(w, http.StatusOK, map[string]any{"url": res.Session.URL})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"order":      mapOrder(res.Order),
		"reconciled": res.Reconciled,
		"cart":       mapCart(sf.Cart.Snapshot()),
	})
}

func (a *API) handleStartCheckout(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	var req checkoutSessionRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	res, err := a.checkoutSvc.StartCardCheckout(r.Context(), sf.Session(r.Context()), sf.Cart,
		req.ShippingAddress.toDomain(), a.checkoutReturnURL(req.ReturnURL))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"url": res.Session.URL})
}

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	orders, err := a.orderSvc.ListOrders(r.Context(), sf.Session(r.Context()))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, mapOrder(o))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

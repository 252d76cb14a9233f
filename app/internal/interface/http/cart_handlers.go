package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/storefront/app/internal/domain/outcome"
)

var errNoStorefront = errors.New("no storefront bound to request")

type addCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type updateCartItemRequest struct {
	Count int64 `json:"count"`
}

// writeCartOutcome answers a cart operation with its outcome and the
// snapshot held afterwards.
func (a *API) writeCartOutcome(w http.ResponseWriter, r *http.Request, status int, o outcome.Outcome, err error) {
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := mapOutcome(o)
	resp["cart"] = mapCart(getStorefront(r.Context()).Cart.Snapshot())
	writeJSON(w, status, resp)
}

func (a *API) handleGetCart(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cart": mapCart(sf.Cart.Snapshot())})
}

func (a *API) handleRefreshCart(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	o, err := sf.Cart.Refresh(r.Context(), sf.Session(r.Context()))
	a.writeCartOutcome(w, r, http.StatusOK, o, err)
}

func (a *API) handleAddCartItem(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	var req addCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	o, err := sf.Cart.Add(r.Context(), sf.Session(r.Context()), req.ProductID)
	a.writeCartOutcome(w, r, http.StatusCreated, o, err)
}

// handleUpdateCartItem leaves the count check to the synchronizer, which
// rejects anything below one without calling upstream.
func (a *API) handleUpdateCartItem(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}

	var req updateCartItemRequest
	if err := a.decodeAndValidate(r, &req); err != nil {
		respondValidation(w, err)
		return
	}

	o, err := sf.Cart.UpdateQuantity(r.Context(), sf.Session(r.Context()), chi.URLParam(r, "productID"), req.Count)
	a.writeCartOutcome(w, r, http.StatusOK, o, err)
}

func (a *API) handleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	o, err := sf.Cart.Remove(r.Context(), sf.Session(r.Context()), chi.URLParam(r, "productID"))
	a.writeCartOutcome(w, r, http.StatusOK, o, err)
}

func (a *API) handleEmptyCart(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	o, err := sf.Cart.Empty(r.Context(), sf.Session(r.Context()))
	a.writeCartOutcome(w, r, http.StatusOK, o, err)
}

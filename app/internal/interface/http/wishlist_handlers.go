package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/storefront/app/internal/domain/outcome"
	"example.com/storefront/app/internal/usecase/storefront"
)

func mapWishlist(sf *storefront.Storefront) map[string]any {
	return map[string]any{
		"product_ids": sf.Wishlist.IDs(),
		"count":       sf.Wishlist.Count(),
	}
}

func (a *API) writeWishlistOutcome(w http.ResponseWriter, sf *storefront.Storefront, o outcome.Outcome, err error) {
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := mapOutcome(o)
	resp["wishlist"] = mapWishlist(sf)
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleGetWishlist(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"wishlist": mapWishlist(sf)})
}

func (a *API) handleRefreshWishlist(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	o, err := sf.Wishlist.Refresh(r.Context(), sf.Session(r.Context()))
	a.writeWishlistOutcome(w, sf, o, err)
}

func (a *API) handleToggleWishlist(w http.ResponseWriter, r *http.Request) {
	sf := getStorefront(r.Context())
	if sf == nil {
		respondError(w, http.StatusUnauthorized, errNoStorefront)
		return
	}
	o, err := sf.Wishlist.Toggle(r.Context(), sf.Session(r.Context()), chi.URLParam(r, "productID"))
	a.writeWishlistOutcome(w, sf, o, err)
}

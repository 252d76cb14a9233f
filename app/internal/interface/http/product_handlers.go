package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domproduct "example.com/storefront/app/internal/domain/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domproduct.ListFilter{
		CategoryID: q.Get("category"),
		BrandID:    q.Get("brand"),
		Keyword:    q.Get("keyword"),
		Sort:       q.Get("sort"),
	}
	if v := q.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Page = n
		}
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}

	page, err := a.productSvc.ListProducts(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(page.Products))
	for i := range page.Products {
		resp = append(resp, mapProduct(&page.Products[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data":            resp,
		"results":         page.Results,
		"current_page":    page.CurrentPage,
		"number_of_pages": page.NumberOfPages,
	})
}

func (a *API) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := a.productSvc.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := a.productSvc.ListCategories(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(categories))
	for _, c := range categories {
		resp = append(resp, mapCategory(c))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleListBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := a.productSvc.ListBrands(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	resp := make([]map[string]any, 0, len(brands))
	for _, b := range brands {
		resp = append(resp, mapBrand(b))
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": resp})
}

func (a *API) handleGetBrand(w http.ResponseWriter, r *http.Request) {
	b, err := a.productSvc.GetBrand(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapBrand(*b))
}

package upstream

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	domproduct "example.com/storefront/app/internal/domain/product"
)

// CatalogAPI implements product.Catalog.
type CatalogAPI struct {
	c *Client
}

func (a *CatalogAPI) ListProducts(ctx context.Context, filter domproduct.ListFilter) (*domproduct.Page, error) {
	q := url.Values{}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Limit > 0 {
		q.Set("limit", strconv.Itoa(filter.Limit))
	}
	if filter.CategoryID != "" {
		q.Set("category[in]", filter.CategoryID)
	}
	if filter.BrandID != "" {
		q.Set("brand", filter.BrandID)
	}
	if filter.Keyword != "" {
		q.Set("keyword", filter.Keyword)
	}
	if filter.Sort != "" {
		q.Set("sort", filter.Sort)
	}

	var out struct {
		Results  int `json:"results"`
		Metadata struct {
			CurrentPage   int `json:"currentPage"`
			NumberOfPages int `json:"numberOfPages"`
		} `json:"metadata"`
		Data []wireProduct `json:"data"`
	}
	if _, err := a.c.do(ctx, call{op: "catalog.products", method: http.MethodGet, path: "/products", query: q}, &out); err != nil {
		return nil, err
	}

	page := &domproduct.Page{
		Products:      make([]domproduct.Product, 0, len(out.Data)),
		Results:       out.Results,
		CurrentPage:   out.Metadata.CurrentPage,
		NumberOfPages: out.Metadata.NumberOfPages,
	}
	for _, p := range out.Data {
		page.Products = append(page.Products, p.toDomain())
	}
	return page, nil
}

func (a *CatalogAPI) GetProduct(ctx context.Context, id string) (*domproduct.Product, error) {
	var out struct {
		Data *wireProduct `json:"data"`
	}
	_, err := a.c.do(ctx, call{op: "catalog.product", method: http.MethodGet, path: "/products/" + url.PathEscape(id)}, &out)
	if isNotFound(err) || (err == nil && out.Data == nil) {
		return nil, domproduct.ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	p := out.Data.toDomain()
	return &p, nil
}

func (a *CatalogAPI) ListCategories(ctx context.Context) ([]domproduct.Category, error) {
	var out struct {
		Data []wireNamed `json:"data"`
	}
	if _, err := a.c.do(ctx, call{op: "catalog.categories", method: http.MethodGet, path: "/categories"}, &out); err != nil {
		return nil, err
	}
	categories := make([]domproduct.Category, 0, len(out.Data))
	for _, c := range out.Data {
		categories = append(categories, c.category())
	}
	return categories, nil
}

func (a *CatalogAPI) ListBrands(ctx context.Context) ([]domproduct.Brand, error) {
	var out struct {
		Data []wireNamed `json:"data"`
	}
	if _, err := a.c.do(ctx, call{op: "catalog.brands", method: http.MethodGet, path: "/brands"}, &out); err != nil {
		return nil, err
	}
	brands := make([]domproduct.Brand, 0, len(out.Data))
	for _, b := range out.Data {
		brands = append(brands, b.brand())
	}
	return brands, nil
}

func (a *CatalogAPI) GetBrand(ctx context.Context, id string) (*domproduct.Brand, error) {
	var out struct {
		Data *wireNamed `json:"data"`
	}
	_, err := a.c.do(ctx, call{op: "catalog.brand", method: http.MethodGet, path: "/brands/" + url.PathEscape(id)}, &out)
	if isNotFound(err) || (err == nil && out.Data == nil) {
		return nil, domproduct.ErrBrandNotFound
	}
	if err != nil {
		return nil, err
	}
	b := out.Data.brand()
	return &b, nil
}

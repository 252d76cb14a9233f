package product

import "context"

// Catalog is the read-only upstream catalog.
type Catalog interface {
	ListProducts(ctx context.Context, filter ListFilter) (*Page, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	ListCategories(ctx context.Context) ([]Category, error)
	ListBrands(ctx context.Context) ([]Brand, error)
	GetBrand(ctx context.Context, id string) (*Brand, error)
}

package product

import (
	"context"
	"strings"

	dom "example.com/storefront/app/internal/domain/product"
)

const (
	defaultLimit = 40
	maxLimit     = 100
)

type Service struct {
	catalog dom.Catalog
}

func NewService(catalog dom.Catalog) *Service {
	return &Service{catalog: catalog}
}

func (s *Service) ListProducts(ctx context.Context, filter dom.ListFilter) (*dom.Page, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	filter.Keyword = strings.TrimSpace(filter.Keyword)
	return s.catalog.ListProducts(ctx, filter)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*dom.Product, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dom.ErrProductNotFound
	}
	return s.catalog.GetProduct(ctx, id)
}

func (s *Service) ListCategories(ctx context.Context) ([]dom.Category, error) {
	return s.catalog.ListCategories(ctx)
}

func (s *Service) ListBrands(ctx context.Context) ([]dom.Brand, error) {
	return s.catalog.ListBrands(ctx)
}

func (s *Service) GetBrand(ctx context.Context, id string) (*dom.Brand, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dom.ErrBrandNotFound
	}
	return s.catalog.GetBrand(ctx, id)
}

package service

import (
	"context"

	"samarithanna-api/internal/model"
)

type ProductRepository interface {
	Upsert(ctx context.Context, p *model.Product) error
	FindAll(ctx context.Context) ([]model.Product, error)
	FindBySlug(ctx context.Context, slug string) (*model.Product, error)
	CountByCategory(ctx context.Context) ([]model.CategoryCount, error)
}

// ProductService: catálogo de solo lectura. El motor de órdenes nunca toca
// productos; trabaja con snapshots.
type ProductService struct {
	products ProductRepository
}

func NewProductService(products ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) List(ctx context.Context) ([]model.Product, error) {
	return s.products.FindAll(ctx)
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return s.products.FindBySlug(ctx, slug)
}

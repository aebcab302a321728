package analytics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/otp-dashboard/internal/domain"
)

type Service interface {
	Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error)
	Catalog(ctx context.Context) (*domain.ProductCatalog, error)
}

type productSource interface {
	FetchProducts(ctx context.Context) (*domain.ProductPage, error)
}

type service struct {
	products productSource
}

func NewService(products productSource) Service {
	return &service{products: products}
}

func (s *service) Dashboard(ctx context.Context) (*domain.DashboardSnapshot, error) {
	page, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(page.Products), nil
}

func (s *service) Catalog(ctx context.Context) (*domain.ProductCatalog, error) {
	page, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	return &domain.ProductCatalog{ProductPage: *page, Summary: Summarize(page.Products)}, nil
}

func (s *service) fetch(ctx context.Context) (*domain.ProductPage, error) {
	page, err := s.products.FetchProducts(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "fetch products failed", "error", err)
		return nil, fmt.Errorf("fetch products: %w: %w", domain.ErrDependency, err)
	}
	if page.Products == nil {
		page.Products = []domain.Product{}
	}
	return page, nil
}

package service

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/rs/zerolog"
)

const (
	maxPerPage    = 100
	featuredLimit = 8
)

// productService implements ProductService.
type productService struct {
	productRepo  repository.ProductRepository
	itemsPerPage int
	logger       zerolog.Logger
}

// NewProductService creates a new product service. itemsPerPage is the page
// size used when a listing does not ask for one.
func NewProductService(productRepo repository.ProductRepository, itemsPerPage int, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo:  productRepo,
		itemsPerPage: itemsPerPage,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves one page of active products.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PerPage <= 0 {
		filter.PerPage = s.itemsPerPage
	}
	filter.PerPage = min(max(filter.PerPage, 1), maxPerPage)

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Int("page", filter.Page).
			Int("per_page", filter.PerPage).
			Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Int("count", len(products)).
		Int("total", total).
		Int("page", filter.Page).
		Msg("retrieved products")

	return &model.ProductPage{
		Page:     filter.Page,
		PerPage:  filter.PerPage,
		Total:    total,
		Products: products,
	}, nil
}

// Get retrieves an active product by ID or slug.
func (s *productService) Get(ctx context.Context, ref string) (*model.Product, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, model.ErrProductNotFound
	}

	product, err := s.productRepo.GetByID(ctx, ref)
	if err != nil {
		s.logger.Error().Err(err).Str("ref", ref).Msg("failed to get product by ID")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil || !product.IsActive {
		product, err = s.productRepo.GetBySlug(ctx, ref)
		if err != nil {
			s.logger.Error().Err(err).Str("ref", ref).Msg("failed to get product by slug")
			return nil, fmt.Errorf("failed to get product: %w", err)
		}
	}

	if product == nil || !product.IsActive {
		s.logger.Debug().Str("ref", ref).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// Featured retrieves the active featured products, newest first.
func (s *productService) Featured(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListFeatured(ctx, featuredLimit)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list featured products")
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

// Categories retrieves the catalogue's categories in alphabetical order.
func (s *productService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.productRepo.ListCategories(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

package service

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/model"
	"product-catalog/internal/repository"

	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// Create validates and stores a new product.
func (s *productService) Create(ctx context.Context, product model.Product) (*model.PersistedProduct, error) {
	if err := product.Validate(); err != nil {
		s.logger.Warn().Err(err).Msg("rejected invalid product")
		return nil, err
	}

	created, err := s.productRepo.Create(ctx, product)
	if err != nil {
		s.logger.Error().Err(err).Str("name", product.Name).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Int64("product_id", created.ID).Msg("product created")

	return created, nil
}

// Get retrieves a single product by id.
func (s *productService) Get(ctx context.Context, id int64) (*model.PersistedProduct, error) {
	product, err := s.productRepo.Find(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if product == nil {
		s.logger.Debug().Int64("product_id", id).Msg("product not found")
		return nil, model.ErrProductNotFound
	}

	return product, nil
}

// List retrieves the products matching the filter.
func (s *productService) List(ctx context.Context, filter ProductFilter) ([]model.PersistedProduct, error) {
	var (
		products []model.PersistedProduct
		err      error
		applied  string
	)

	switch {
	case filter.Category != nil:
		applied = "category"
		products, err = s.productRepo.FindByCategory(ctx, *filter.Category)
	case filter.Available != nil:
		applied = "available"
		products, err = s.productRepo.FindByAvailability(ctx, *filter.Available)
	case filter.Name != nil:
		applied = "name"
		products, err = s.productRepo.FindByName(ctx, *filter.Name)
	case filter.Price != nil:
		applied = "price"
		products, err = s.productRepo.FindByPrice(ctx, *filter.Price)
	default:
		applied = "none"
		products, err = s.productRepo.All(ctx)
	}

	if err != nil {
		s.logger.Error().Err(err).Str("filter", applied).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	s.logger.Debug().
		Str("filter", applied).
		Int("count", len(products)).
		Msg("listed products")

	return products, nil
}

// Update replaces the attributes of an existing product.
func (s *productService) Update(ctx context.Context, id int64, product model.Product) (*model.PersistedProduct, error) {
	if err := product.Validate(); err != nil {
		s.logger.Warn().Err(err).Int64("product_id", id).Msg("rejected invalid product")
		return nil, err
	}

	updated := model.PersistedProduct{ID: id, Product: product}
	if err := s.productRepo.Update(ctx, updated); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			s.logger.Debug().Int64("product_id", id).Msg("product to update not found")
			return nil, model.ErrProductNotFound
		}
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product updated")

	return &updated, nil
}

// Delete removes an existing product. The store treats deleting an absent
// row as success, so existence is checked first.
func (s *productService) Delete(ctx context.Context, id int64) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info().Int64("product_id", id).Msg("product deleted")

	return nil
}

package service

import (
	"context"

	"product-catalog/internal/model"

	"github.com/shopspring/decimal"
)

// ProductFilter selects a subset of products. At most one criterion is
// applied, in the order Category, Available, Name, Price.
type ProductFilter struct {
	Category  *model.Category
	Available *bool
	Name      *string
	Price     *decimal.Decimal
}

// ProductService defines operations for product management.
type ProductService interface {
	// Create validates and stores a new product.
	Create(ctx context.Context, product model.Product) (*model.PersistedProduct, error)

	// Get retrieves a single product by id.
	Get(ctx context.Context, id int64) (*model.PersistedProduct, error)

	// List retrieves the products matching the filter.
	List(ctx context.Context, filter ProductFilter) ([]model.PersistedProduct, error)

	// Update replaces the attributes of an existing product.
	Update(ctx context.Context, id int64, product model.Product) (*model.PersistedProduct, error)

	// Delete removes an existing product.
	Delete(ctx context.Context, id int64) error
}

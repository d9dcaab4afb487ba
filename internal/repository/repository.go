package repository

import (
	"context"

	"product-catalog/internal/model"

	"github.com/shopspring/decimal"
)

// ProductRepository defines the single-row persistence operations for products.
type ProductRepository interface {
	// Create inserts a new product and returns it with the id assigned by the store.
	Create(ctx context.Context, product model.Product) (*model.PersistedProduct, error)

	// Update overwrites every mutable column of the row matching product.ID.
	// Returns model.ErrProductNotFound when no such row exists.
	Update(ctx context.Context, product model.PersistedProduct) error

	// Delete removes the row matching id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id int64) error

	// Find retrieves a single product by id. Returns nil, nil when absent.
	Find(ctx context.Context, id int64) (*model.PersistedProduct, error)

	// All retrieves every product in insertion order.
	All(ctx context.Context) ([]model.PersistedProduct, error)

	// FindByName retrieves products whose name matches exactly.
	FindByName(ctx context.Context, name string) ([]model.PersistedProduct, error)

	// FindByCategory retrieves products in the given category.
	FindByCategory(ctx context.Context, category model.Category) ([]model.PersistedProduct, error)

	// FindByAvailability retrieves products whose availability matches.
	FindByAvailability(ctx context.Context, available bool) ([]model.PersistedProduct, error)

	// FindByPrice retrieves products whose price is numerically equal to price.
	FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.PersistedProduct, error)
}

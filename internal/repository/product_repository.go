package repository

import (
	"context"
	"errors"
	"fmt"

	"product-catalog/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const selectProducts = `
	SELECT id, name, description, price, available, category
	FROM products
`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// Create inserts a new product and returns it with the id assigned by the store.
func (r *productRepository) Create(ctx context.Context, product model.Product) (*model.PersistedProduct, error) {
	query := `
		INSERT INTO products (name, description, price, available, category)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Available, product.Category,
	).Scan(&id)
	if err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Int64("product_id", id).Msg("product created")

	return &model.PersistedProduct{ID: id, Product: product}, nil
}

// Update overwrites every mutable column of the row matching product.ID.
func (r *productRepository) Update(ctx context.Context, product model.PersistedProduct) error {
	if product.ID <= 0 {
		return model.ErrProductNotPersisted
	}

	query := `
		UPDATE products
		SET name = $2, description = $3, price = $4, available = $5, category = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.Available, product.Category,
	)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", product.ID).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}

	if tag.RowsAffected() == 0 {
		r.logger.Debug().Int64("product_id", product.ID).Msg("product to update not found")
		return model.ErrProductNotFound
	}

	return nil
}

// Delete removes the row matching id.
func (r *productRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to delete product")
		return fmt.Errorf("failed to delete product: %w", err)
	}

	r.logger.Debug().
		Int64("product_id", id).
		Int64("rows_affected", tag.RowsAffected()).
		Msg("product delete executed")

	return nil
}

// Find retrieves a single product by id.
func (r *productRepository) Find(ctx context.Context, id int64) (*model.PersistedProduct, error) {
	row := r.pool.QueryRow(ctx, selectProducts+` WHERE id = $1`, id)

	p, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("product_id", id).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return &p, nil
}

// All retrieves every product in insertion order.
func (r *productRepository) All(ctx context.Context) ([]model.PersistedProduct, error) {
	return r.list(ctx, "all", selectProducts+` ORDER BY id`)
}

// FindByName retrieves products whose name matches exactly.
func (r *productRepository) FindByName(ctx context.Context, name string) ([]model.PersistedProduct, error) {
	return r.list(ctx, "name", selectProducts+` WHERE name = $1 ORDER BY id`, name)
}

// FindByCategory retrieves products in the given category.
func (r *productRepository) FindByCategory(ctx context.Context, category model.Category) ([]model.PersistedProduct, error) {
	return r.list(ctx, "category", selectProducts+` WHERE category = $1 ORDER BY id`, category)
}

// FindByAvailability retrieves products whose availability matches.
func (r *productRepository) FindByAvailability(ctx context.Context, available bool) ([]model.PersistedProduct, error) {
	return r.list(ctx, "availability", selectProducts+` WHERE available = $1 ORDER BY id`, available)
}

// FindByPrice retrieves products whose price is numerically equal to price.
func (r *productRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.PersistedProduct, error) {
	return r.list(ctx, "price", selectProducts+` WHERE price = $1 ORDER BY id`, price)
}

func (r *productRepository) list(ctx context.Context, filter, query string, args ...interface{}) ([]model.PersistedProduct, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Str("filter", filter).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := []model.PersistedProduct{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	r.logger.Debug().Str("filter", filter).Int("count", len(products)).Msg("products queried")

	return products, nil
}

func scanProduct(row pgx.Row) (model.PersistedProduct, error) {
	var p model.PersistedProduct
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Available, &p.Category)
	return p, err
}

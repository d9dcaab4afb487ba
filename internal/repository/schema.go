package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const productSchema = `
	CREATE TABLE IF NOT EXISTS products (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description VARCHAR(250),
		price NUMERIC(14, 2) NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE,
		category VARCHAR(32) NOT NULL DEFAULT 'UNKNOWN'
	);
	CREATE INDEX IF NOT EXISTS idx_products_name ON products(name);
	CREATE INDEX IF NOT EXISTS idx_products_category ON products(category);
`

// EnsureSchema creates the products table and its indexes if they do not exist.
// It is safe to call on every start.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, productSchema); err != nil {
		return fmt.Errorf("failed to ensure product schema: %w", err)
	}
	return nil
}

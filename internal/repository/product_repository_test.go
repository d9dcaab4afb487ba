package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"product-catalog/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer and returns a connection pool
// with the product schema in place.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	require.NoError(t, EnsureSchema(ctx, pool))

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

func truncateProducts(t *testing.T, pool *pgxpool.Pool) {
	_, err := pool.Exec(context.Background(), "TRUNCATE products RESTART IDENTITY")
	require.NoError(t, err)
}

func sampleProduct(i int) model.Product {
	categories := model.Categories()
	return model.Product{
		Name:        fmt.Sprintf("Product %d", i%3),
		Description: model.StringPtr(fmt.Sprintf("Description %d", i)),
		Price:       decimal.New(int64(1000+(i%4)*250), -2),
		Available:   i%2 == 0,
		Category:    categories[i%len(categories)],
	}
}

func seedProducts(t *testing.T, repo ProductRepository, n int) []model.PersistedProduct {
	ctx := context.Background()
	created := make([]model.PersistedProduct, 0, n)
	for i := 0; i < n; i++ {
		p, err := repo.Create(ctx, sampleProduct(i))
		require.NoError(t, err)
		created = append(created, *p)
	}
	return created
}

func assertSameProduct(t *testing.T, expected, actual model.PersistedProduct) {
	t.Helper()
	assert.Equal(t, expected.ID, actual.ID)
	assert.Equal(t, expected.Name, actual.Name)
	assert.Equal(t, expected.Description, actual.Description)
	assert.True(t, expected.Price.Equal(actual.Price), "price %s != %s", expected.Price, actual.Price)
	assert.Equal(t, expected.Available, actual.Available)
	assert.Equal(t, expected.Category, actual.Category)
}

func TestProductRepository(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	t.Run("Create assigns an id and the row is retrievable", func(t *testing.T) {
		truncateProducts(t, pool)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)

		product := model.Product{
			Name:        "Fedora",
			Description: model.StringPtr("A red hat"),
			Price:       decimal.RequireFromString("12.50"),
			Available:   true,
			Category:    model.CategoryCloths,
		}

		created, err := repo.Create(ctx, product)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Positive(t, created.ID)

		found, err := repo.Find(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assertSameProduct(t, *created, *found)
		assert.Equal(t, "12.50", found.Serialize().Price)

		all, err = repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assertSameProduct(t, *created, all[0])
	})

	t.Run("Create stores a null description", func(t *testing.T) {
		truncateProducts(t, pool)

		product := sampleProduct(1)
		product.Description = nil

		created, err := repo.Create(ctx, product)
		require.NoError(t, err)

		found, err := repo.Find(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Nil(t, found.Description)
	})

	t.Run("Find returns nil for a missing id", func(t *testing.T) {
		truncateProducts(t, pool)

		found, err := repo.Find(ctx, 999)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Update persists the new price", func(t *testing.T) {
		truncateProducts(t, pool)
		created := seedProducts(t, repo, 1)[0]

		created.Price = decimal.RequireFromString("10.00")
		created.Name = "Renamed"
		require.NoError(t, repo.Update(ctx, created))

		found, err := repo.Find(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.True(t, decimal.NewFromInt(10).Equal(found.Price))
		assert.Equal(t, "Renamed", found.Name)
	})

	t.Run("Update of a deleted row fails with not found", func(t *testing.T) {
		truncateProducts(t, pool)
		created := seedProducts(t, repo, 1)[0]

		require.NoError(t, repo.Delete(ctx, created.ID))

		err := repo.Update(ctx, created)
		assert.ErrorIs(t, err, model.ErrProductNotFound)
	})

	t.Run("Update without an id is rejected", func(t *testing.T) {
		err := repo.Update(ctx, model.PersistedProduct{Product: sampleProduct(0)})
		assert.ErrorIs(t, err, model.ErrProductNotPersisted)
	})

	t.Run("Delete removes the row", func(t *testing.T) {
		truncateProducts(t, pool)
		created := seedProducts(t, repo, 2)

		require.NoError(t, repo.Delete(ctx, created[0].ID))

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, created[1].ID, all[0].ID)

		found, err := repo.Find(ctx, created[0].ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("Delete of a missing id is a no-op", func(t *testing.T) {
		truncateProducts(t, pool)
		seedProducts(t, repo, 1)

		require.NoError(t, repo.Delete(ctx, 12345))

		all, err := repo.All(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("All lists every product in insertion order", func(t *testing.T) {
		truncateProducts(t, pool)
		created := seedProducts(t, repo, 5)

		all, err := repo.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 5)
		for i := range created {
			assertSameProduct(t, created[i], all[i])
		}
	})
}

func TestProductRepository_Finders(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewProductRepository(pool, zerolog.Nop())
	ctx := context.Background()

	truncateProducts(t, pool)
	created := seedProducts(t, repo, 10)

	expect := func(match func(model.PersistedProduct) bool) []int64 {
		ids := []int64{}
		for _, p := range created {
			if match(p) {
				ids = append(ids, p.ID)
			}
		}
		return ids
	}
	idsOf := func(products []model.PersistedProduct) []int64 {
		ids := []int64{}
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		return ids
	}

	t.Run("FindByName", func(t *testing.T) {
		target := created[0].Name
		found, err := repo.FindByName(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, expect(func(p model.PersistedProduct) bool { return p.Name == target }), idsOf(found))
		for _, p := range found {
			assert.Equal(t, target, p.Name)
		}
	})

	t.Run("FindByName is case sensitive", func(t *testing.T) {
		found, err := repo.FindByName(ctx, "product 0")
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("FindByCategory", func(t *testing.T) {
		target := created[0].Category
		found, err := repo.FindByCategory(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, expect(func(p model.PersistedProduct) bool { return p.Category == target }), idsOf(found))
	})

	t.Run("FindByAvailability", func(t *testing.T) {
		for _, target := range []bool{true, false} {
			found, err := repo.FindByAvailability(ctx, target)
			require.NoError(t, err)
			assert.Equal(t, expect(func(p model.PersistedProduct) bool { return p.Available == target }), idsOf(found))
		}
	})

	t.Run("FindByPrice uses decimal equality", func(t *testing.T) {
		target := created[0].Price
		found, err := repo.FindByPrice(ctx, target)
		require.NoError(t, err)
		assert.Equal(t, expect(func(p model.PersistedProduct) bool { return p.Price.Equal(target) }), idsOf(found))

		// 10.0 and 10.00 are the same price.
		found, err = repo.FindByPrice(ctx, decimal.RequireFromString("10.0"))
		require.NoError(t, err)
		assert.Equal(t, expect(func(p model.PersistedProduct) bool { return p.Price.Equal(decimal.NewFromInt(10)) }), idsOf(found))
	})
}

func TestEnsureSchema_Idempotent(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, EnsureSchema(context.Background(), pool))
	require.NoError(t, EnsureSchema(context.Background(), pool))
}

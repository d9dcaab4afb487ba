package main

import (
	"context"
	"fmt"
	"os"

	"product-catalog/internal/config"
	"product-catalog/internal/database"
	"product-catalog/internal/model"
	"product-catalog/internal/repository"

	"github.com/shopspring/decimal"
)

// Seeds the configured database with a handful of products for local
// development. Run with: go run ./scripts
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("unable to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)
	ctx := context.Background()

	pool, err := database.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("unable to connect to database: %w", err)
	}
	defer pool.Close()

	var dbName string
	if err := pool.QueryRow(ctx, "SELECT current_database()").Scan(&dbName); err != nil {
		return fmt.Errorf("query current database: %w", err)
	}

	repo := repository.NewProductRepository(pool, logger)

	samples := sampleProducts()
	for _, p := range samples {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("invalid sample %q: %w", p.Name, err)
		}
		created, err := repo.Create(ctx, p)
		if err != nil {
			return fmt.Errorf("create %q: %w", p.Name, err)
		}
		fmt.Printf("Created product %d: %s (%s)\n", created.ID, created.Name, created.Category)
	}

	fmt.Printf("Seeded %d products into database: %s\n", len(samples), dbName)
	return nil
}

func sampleProducts() []model.Product {
	return []model.Product{
		{Name: "Fedora", Description: model.StringPtr("A red hat"), Price: decimal.RequireFromString("12.50"), Available: true, Category: model.CategoryCloths},
		{Name: "Sourdough", Description: model.StringPtr("Country loaf"), Price: decimal.RequireFromString("4.25"), Available: true, Category: model.CategoryFood},
		{Name: "Colander", Price: decimal.RequireFromString("9.99"), Available: false, Category: model.CategoryHousewares},
		{Name: "Wiper Blades", Description: model.StringPtr("Pair, 22 inch"), Price: decimal.RequireFromString("18.00"), Available: true, Category: model.CategoryAutomotive},
		{Name: "Claw Hammer", Price: decimal.RequireFromString("15.75"), Available: false, Category: model.CategoryTools},
	}
}

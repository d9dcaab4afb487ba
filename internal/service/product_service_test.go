package service

import (
	"context"
	"errors"
	"testing"

	"product-catalog/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of ProductRepository.
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product model.Product) (*model.PersistedProduct, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PersistedProduct), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product model.PersistedProduct) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Find(ctx context.Context, id int64) (*model.PersistedProduct, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PersistedProduct), args.Error(1)
}

func (m *MockProductRepository) All(ctx context.Context) ([]model.PersistedProduct, error) {
	args := m.Called(ctx)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductRepository) FindByName(ctx context.Context, name string) ([]model.PersistedProduct, error) {
	args := m.Called(ctx, name)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, category model.Category) ([]model.PersistedProduct, error) {
	args := m.Called(ctx, category)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductRepository) FindByAvailability(ctx context.Context, available bool) ([]model.PersistedProduct, error) {
	args := m.Called(ctx, available)
	return products(args.Get(0)), args.Error(1)
}

func (m *MockProductRepository) FindByPrice(ctx context.Context, price decimal.Decimal) ([]model.PersistedProduct, error) {
	args := m.Called(ctx, price)
	return products(args.Get(0)), args.Error(1)
}

func products(v interface{}) []model.PersistedProduct {
	if v == nil {
		return nil
	}
	return v.([]model.PersistedProduct)
}

func testProduct() model.Product {
	return model.Product{
		Name:        "Fedora",
		Description: model.StringPtr("A red hat"),
		Price:       decimal.RequireFromString("12.50"),
		Available:   true,
		Category:    model.CategoryCloths,
	}
}

func TestProductService_Create(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	invalid := testProduct()
	invalid.Name = ""

	tests := []struct {
		name        string
		product     model.Product
		expectRepo  bool
		mockReturn  *model.PersistedProduct
		mockError   error
		expectError bool
		validation  bool
	}{
		{
			name:       "Success",
			product:    testProduct(),
			expectRepo: true,
			mockReturn: &model.PersistedProduct{ID: 1, Product: testProduct()},
		},
		{
			name:        "Invalid product is not stored",
			product:     invalid,
			expectRepo:  false,
			expectError: true,
			validation:  true,
		},
		{
			name:        "Repository error",
			product:     testProduct(),
			expectRepo:  true,
			mockError:   errors.New("unique violation"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			if tt.expectRepo {
				mockRepo.On("Create", ctx, tt.product).Return(tt.mockReturn, tt.mockError)
			}

			created, err := service.Create(ctx, tt.product)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, created)
				var vErr *model.ValidationError
				assert.Equal(t, tt.validation, errors.As(err, &vErr))
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.mockReturn, created)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_Get(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	found := &model.PersistedProduct{ID: 3, Product: testProduct()}

	tests := []struct {
		name        string
		mockReturn  *model.PersistedProduct
		mockError   error
		expectedErr error
		expectError bool
	}{
		{name: "Success", mockReturn: found},
		{name: "Not found", expectError: true, expectedErr: model.ErrProductNotFound},
		{name: "Repository error", mockError: errors.New("connection reset"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			mockRepo.On("Find", ctx, int64(3)).Return(tt.mockReturn, tt.mockError)

			product, err := service.Get(ctx, 3)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, product)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, found, product)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestProductService_List(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	result := []model.PersistedProduct{{ID: 1, Product: testProduct()}}
	category := model.CategoryFood
	available := false
	name := "Fedora"
	price := decimal.RequireFromString("12.50")

	tests := []struct {
		name       string
		filter     ProductFilter
		method     string
		methodArgs []interface{}
	}{
		{
			name:       "No filter lists all",
			filter:     ProductFilter{},
			method:     "All",
			methodArgs: []interface{}{ctx},
		},
		{
			name:       "Category takes precedence over everything",
			filter:     ProductFilter{Category: &category, Available: &available, Name: &name, Price: &price},
			method:     "FindByCategory",
			methodArgs: []interface{}{ctx, category},
		},
		{
			name:       "Availability takes precedence over name",
			filter:     ProductFilter{Available: &available, Name: &name},
			method:     "FindByAvailability",
			methodArgs: []interface{}{ctx, available},
		},
		{
			name:       "Name takes precedence over price",
			filter:     ProductFilter{Name: &name, Price: &price},
			method:     "FindByName",
			methodArgs: []interface{}{ctx, name},
		},
		{
			name:       "Price alone",
			filter:     ProductFilter{Price: &price},
			method:     "FindByPrice",
			methodArgs: []interface{}{ctx, price},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			mockRepo.On(tt.method, tt.methodArgs...).Return(result, nil)

			products, err := service.List(ctx, tt.filter)

			require.NoError(t, err)
			assert.Equal(t, result, products)
			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, logger)

		mockRepo.On("All", ctx).Return(nil, errors.New("database error"))

		products, err := service.List(ctx, ProductFilter{})

		require.Error(t, err)
		assert.Nil(t, products)
		mockRepo.AssertExpectations(t)
	})
}

func TestProductService_Update(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	tests := []struct {
		name        string
		mockError   error
		expectError bool
		expectedErr error
	}{
		{name: "Success"},
		{name: "Not found", mockError: model.ErrProductNotFound, expectError: true, expectedErr: model.ErrProductNotFound},
		{name: "Repository error", mockError: errors.New("database error"), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockProductRepository)
			service := NewProductService(mockRepo, logger)

			expected := model.PersistedProduct{ID: 5, Product: testProduct()}
			mockRepo.On("Update", ctx, expected).Return(tt.mockError)

			updated, err := service.Update(ctx, 5, testProduct())

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, updated)
				if tt.expectedErr != nil {
					assert.Equal(t, tt.expectedErr, err)
				}
			} else {
				require.NoError(t, err)
				assert.Equal(t, &expected, updated)
			}

			mockRepo.AssertExpectations(t)
		})
	}

	t.Run("Invalid product is rejected before the store", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, logger)

		invalid := testProduct()
		invalid.Category = model.Category(42)

		_, err := service.Update(ctx, 5, invalid)

		var vErr *model.ValidationError
		require.ErrorAs(t, err, &vErr)
		mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestProductService_Delete(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, logger)

		mockRepo.On("Find", ctx, int64(9)).Return(&model.PersistedProduct{ID: 9, Product: testProduct()}, nil)
		mockRepo.On("Delete", ctx, int64(9)).Return(nil)

		require.NoError(t, service.Delete(ctx, 9))
		mockRepo.AssertExpectations(t)
	})

	t.Run("Not found does not reach the store delete", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, logger)

		mockRepo.On("Find", ctx, int64(9)).Return(nil, nil)

		err := service.Delete(ctx, 9)

		assert.Equal(t, model.ErrProductNotFound, err)
		mockRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Repository error", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewProductService(mockRepo, logger)

		mockRepo.On("Find", ctx, int64(9)).Return(&model.PersistedProduct{ID: 9, Product: testProduct()}, nil)
		mockRepo.On("Delete", ctx, int64(9)).Return(errors.New("database error"))

		require.Error(t, service.Delete(ctx, 9))
		mockRepo.AssertExpectations(t)
	})
}

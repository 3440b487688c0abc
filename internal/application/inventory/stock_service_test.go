package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	args := m.Called(ctx, barcode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) ExistsByBarcode(ctx context.Context, barcode string) (bool, error) {
	args := m.Called(ctx, barcode)
	return args.Bool(0), args.Error(1)
}

var _ catalog.ProductRepository = (*MockProductRepository)(nil)

func newTestProduct(t *testing.T, stock int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("Test Product", decimal.NewFromInt(100), decimal.NewFromInt(60))
	require.NoError(t, err)
	if stock != 0 {
		require.NoError(t, product.AdjustStock(decimal.NewFromInt(stock), false))
	}
	return product
}

func TestStockService_AdjustStock(t *testing.T) {
	ctx := context.Background()

	t.Run("applies a positive delta", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, false)

		product := newTestProduct(t, 5)

		mockRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		mockRepo.On("SaveWithLock", ctx, product).Return(nil)

		result, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     decimal.NewFromInt(10),
			Reason:    "stocktake correction",
		})

		require.NoError(t, err)
		assert.True(t, result.StockQuantity.Equal(decimal.NewFromInt(15)))
		mockRepo.AssertExpectations(t)
	})

	t.Run("rejects a delta that would go negative", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, false)

		product := newTestProduct(t, 3)

		mockRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)

		_, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     decimal.NewFromInt(-5),
			Reason:    "damage write-off",
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(3)))
		mockRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("allows negative stock when configured", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, true)

		product := newTestProduct(t, 3)

		mockRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		mockRepo.On("SaveWithLock", ctx, product).Return(nil)

		result, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     decimal.NewFromInt(-5),
		})

		require.NoError(t, err)
		assert.True(t, result.StockQuantity.Equal(decimal.NewFromInt(-2)))
	})

	t.Run("rejects a zero delta", func(t *testing.T) {
		mockRepo := new(MockProductRepository)
		service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, false)

		product := newTestProduct(t, 3)

		mockRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)

		_, err := service.AdjustStock(ctx, AdjustStockRequest{
			ProductID: product.ID,
			Delta:     decimal.Zero,
		})

		require.Error(t, err)
	})
}

func TestStockService_GetStock(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, false)

	product := newTestProduct(t, 8)
	mockRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	stock, err := service.GetStock(ctx, product.ID)

	require.NoError(t, err)
	assert.True(t, stock.Equal(decimal.NewFromInt(8)))
}

func TestStockService_ListLowStock(t *testing.T) {
	ctx := context.Background()

	mockRepo := new(MockProductRepository)
	service := NewStockService(mockRepo, &scope.NoOpScope{ProductRepo: mockRepo}, false)

	product := newTestProduct(t, 2)
	threshold := decimal.NewFromInt(5)

	mockRepo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		max, ok := f.Filters["max_stock"].(decimal.Decimal)
		return ok && max.Equal(threshold)
	})).Return([]catalog.Product{*product}, nil)

	products, err := service.ListLowStock(ctx, threshold, shared.DefaultFilter())

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, product.ID, products[0].ID)
}

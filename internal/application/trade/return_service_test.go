package trade

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockReturnRepository is a mock implementation of trade.ReturnRepository
type MockReturnRepository struct {
	mock.Mock
}

func (m *MockReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) FindByReturnNumber(ctx context.Context, returnNumber string) (*trade.Return, error) {
	args := m.Called(ctx, returnNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Return, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*trade.Return, error) {
	args := m.Called(ctx, saleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) FindByStatus(ctx context.Context, status trade.ReturnStatus, filter shared.Filter) ([]*trade.Return, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Return), args.Error(1)
}

func (m *MockReturnRepository) SumReturnedQuantityBySale(ctx context.Context, saleID uuid.UUID, statuses []trade.ReturnStatus) (map[uuid.UUID]decimal.Decimal, error) {
	args := m.Called(ctx, saleID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]decimal.Decimal), args.Error(1)
}

func (m *MockReturnRepository) CountByStatus(ctx context.Context) (map[trade.ReturnStatus]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[trade.ReturnStatus]int64), args.Error(1)
}

func (m *MockReturnRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepository) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	args := m.Called(ctx, ret)
	return args.Error(0)
}

func (m *MockReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ trade.ReturnRepository = (*MockReturnRepository)(nil)

func createTestSaleWithItem(t *testing.T, quantity int64) *trade.Sale {
	t.Helper()
	sale, err := trade.NewSale("INV-2026-1001", uuid.New(), time.Now())
	require.NoError(t, err)
	_, err = sale.AddItem(uuid.New(), "Test Product", decimal.NewFromInt(quantity),
		decimal.NewFromInt(100), decimal.NewFromInt(60))
	require.NoError(t, err)
	return sale
}

func createPendingReturn(t *testing.T, sale *trade.Sale, quantity int64) *trade.Return {
	t.Helper()
	item := sale.Items[0]
	ret, err := trade.NewReturn("RET-202608-000001", sale.ID, sale.CustomerID, "damaged", "alice")
	require.NoError(t, err)
	_, err = ret.AddItem(item.ID, item.ProductID, item.ProductName,
		decimal.NewFromInt(quantity), item.PriceAtSale, "damaged", true)
	require.NoError(t, err)
	return ret
}

func TestReturnService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("allows return within remaining quantity", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)
		itemID := sale.Items[0].ID

		returned := map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(4)}

		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, holdingStatuses).Return(returned, nil)
		mockReturnRepo.On("GenerateReturnNumber", ctx).Return("RET-202608-000002", nil)
		mockReturnRepo.On("Save", ctx, mock.AnythingOfType("*trade.Return")).Return(nil)

		req := CreateReturnRequest{
			SaleID: sale.ID,
			Items: []CreateReturnItemInput{
				{SaleItemID: itemID, Quantity: decimal.NewFromInt(6), Reason: "damaged"},
			},
			RequestedBy: "alice",
		}

		result, err := service.Create(ctx, req)

		require.NoError(t, err)
		require.NotNil(t, result)
		assert.Equal(t, "RET-202608-000002", result.ReturnNumber)
		assert.Equal(t, "600.00", result.TotalAmount)
		assert.Equal(t, "600.00", result.RefundAmount)
		mockReturnRepo.AssertExpectations(t)
		mockSaleRepo.AssertExpectations(t)
	})

	t.Run("counts pending returns against the remaining quantity", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)
		itemID := sale.Items[0].ID

		// 4 units held by an earlier, still pending return
		returned := map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(4)}

		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, holdingStatuses).Return(returned, nil)
		mockReturnRepo.On("GenerateReturnNumber", ctx).Return("RET-202608-000003", nil)

		req := CreateReturnRequest{
			SaleID: sale.ID,
			Items: []CreateReturnItemInput{
				{SaleItemID: itemID, Quantity: decimal.NewFromInt(7)},
			},
		}

		result, err := service.Create(ctx, req)

		require.Error(t, err)
		assert.Nil(t, result)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RETURN_EXCEEDS_SOLD", domainErr.Code)
		mockReturnRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown sale item", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)

		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, holdingStatuses).
			Return(map[uuid.UUID]decimal.Decimal{}, nil)
		mockReturnRepo.On("GenerateReturnNumber", ctx).Return("RET-202608-000004", nil)

		req := CreateReturnRequest{
			SaleID: sale.ID,
			Items: []CreateReturnItemInput{
				{SaleItemID: uuid.New(), Quantity: decimal.NewFromInt(1)},
			},
		}

		_, err := service.Create(ctx, req)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ITEM_NOT_FOUND", domainErr.Code)
	})

	t.Run("applies fees to the refund", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)
		itemID := sale.Items[0].ID

		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, holdingStatuses).
			Return(map[uuid.UUID]decimal.Decimal{}, nil)
		mockReturnRepo.On("GenerateReturnNumber", ctx).Return("RET-202608-000005", nil)
		mockReturnRepo.On("Save", ctx, mock.AnythingOfType("*trade.Return")).Return(nil)

		req := CreateReturnRequest{
			SaleID: sale.ID,
			Items: []CreateReturnItemInput{
				{SaleItemID: itemID, Quantity: decimal.NewFromInt(2)},
			},
			RestockingFee: decimal.NewFromInt(15),
			ProcessingFee: decimal.NewFromInt(5),
		}

		result, err := service.Create(ctx, req)

		require.NoError(t, err)
		assert.Equal(t, "200.00", result.TotalAmount)
		assert.Equal(t, "180.00", result.RefundAmount)
	})
}

func TestReturnService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("approves when settled returns leave room", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)
		ret := createPendingReturn(t, sale, 6)
		itemID := sale.Items[0].ID

		settled := map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(4)}

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, settledStatuses).Return(settled, nil)
		mockReturnRepo.On("SaveWithLock", ctx, ret).Return(nil)

		result, err := service.Approve(ctx, ret.ID, "bob")

		require.NoError(t, err)
		assert.Equal(t, string(trade.ReturnStatusApproved), result.Status)
		assert.Equal(t, "bob", result.ApprovedBy)
		mockReturnRepo.AssertExpectations(t)
	})

	t.Run("rejects approval when a competing return settled first", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		sale := createTestSaleWithItem(t, 10)
		ret := createPendingReturn(t, sale, 6)
		itemID := sale.Items[0].ID

		// 5 of 10 already approved elsewhere, only 5 left for this one
		settled := map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(5)}

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockSaleRepo.On("FindByIDForUpdate", ctx, sale.ID).Return(sale, nil)
		mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, settledStatuses).Return(settled, nil)

		result, err := service.Approve(ctx, ret.ID, "bob")

		require.Error(t, err)
		assert.Nil(t, result)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "RETURN_EXCEEDS_SOLD", domainErr.Code)
		assert.Equal(t, trade.ReturnStatusPending, ret.Status)
		mockReturnRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestReturnService_Process(t *testing.T) {
	ctx := context.Background()

	t.Run("restocks restockable items and completes", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		mockProductRepo := new(MockProductRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo, ProductRepo: mockProductRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		product := createTestProductWithStock(t, 100, 60, 5)

		ret, err := trade.NewReturn("RET-202608-000010", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)
		_, err = ret.AddItem(uuid.New(), product.ID, product.Name, decimal.NewFromInt(2), decimal.NewFromInt(100), "", true)
		require.NoError(t, err)
		_, err = ret.AddItem(uuid.New(), uuid.New(), "Broken Beyond Repair", decimal.NewFromInt(1), decimal.NewFromInt(50), "", false)
		require.NoError(t, err)
		require.NoError(t, ret.Approve("bob"))

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockProductRepo.On("FindByIDForUpdate", ctx, product.ID).Return(product, nil)
		mockProductRepo.On("SaveWithLock", ctx, product).Return(nil)
		mockReturnRepo.On("SaveWithLock", ctx, ret).Return(nil)

		result, err := service.Process(ctx, ret.ID, "carol", true)

		require.NoError(t, err)
		assert.Equal(t, string(trade.ReturnStatusCompleted), result.Status)
		assert.True(t, ret.InventoryAdjusted)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(7)))
		// the non-restockable line must not trigger a product lookup
		mockProductRepo.AssertNumberOfCalls(t, "FindByIDForUpdate", 1)
	})

	t.Run("completes without restocking when inventory adjustment is off", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		mockProductRepo := new(MockProductRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo, ProductRepo: mockProductRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		product := createTestProductWithStock(t, 100, 60, 5)

		ret, err := trade.NewReturn("RET-202608-000014", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)
		_, err = ret.AddItem(uuid.New(), product.ID, product.Name, decimal.NewFromInt(2), decimal.NewFromInt(100), "", true)
		require.NoError(t, err)
		require.NoError(t, ret.Approve("bob"))

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockReturnRepo.On("SaveWithLock", ctx, ret).Return(nil)

		result, err := service.Process(ctx, ret.ID, "carol", false)

		require.NoError(t, err)
		assert.Equal(t, string(trade.ReturnStatusCompleted), result.Status)
		assert.False(t, ret.InventoryAdjusted)
		assert.True(t, product.StockQuantity.Equal(decimal.NewFromInt(5)))
		mockProductRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
		mockProductRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("does not restock twice", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		mockProductRepo := new(MockProductRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo, ProductRepo: mockProductRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		ret, err := trade.NewReturn("RET-202608-000011", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)
		_, err = ret.AddItem(uuid.New(), uuid.New(), "Widget", decimal.NewFromInt(2), decimal.NewFromInt(100), "", true)
		require.NoError(t, err)
		require.NoError(t, ret.Approve("bob"))
		require.NoError(t, ret.MarkInventoryAdjusted())

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockReturnRepo.On("SaveWithLock", ctx, ret).Return(nil)

		result, err := service.Process(ctx, ret.ID, "carol", true)

		require.NoError(t, err)
		assert.Equal(t, string(trade.ReturnStatusCompleted), result.Status)
		mockProductRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
	})

	t.Run("skips restock for missing products", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		mockProductRepo := new(MockProductRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo, ProductRepo: mockProductRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		missingID := uuid.New()
		ret, err := trade.NewReturn("RET-202608-000012", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)
		_, err = ret.AddItem(uuid.New(), missingID, "Discontinued", decimal.NewFromInt(1), decimal.NewFromInt(100), "", true)
		require.NoError(t, err)
		require.NoError(t, ret.Approve("bob"))

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockProductRepo.On("FindByIDForUpdate", ctx, missingID).Return(nil, shared.ErrNotFound)
		mockReturnRepo.On("SaveWithLock", ctx, ret).Return(nil)

		result, err := service.Process(ctx, ret.ID, "carol", true)

		require.NoError(t, err)
		assert.Equal(t, string(trade.ReturnStatusCompleted), result.Status)
		assert.True(t, ret.InventoryAdjusted)
	})

	t.Run("rejects processing a pending return", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		txScope := &scope.NoOpScope{ReturnRepo: mockReturnRepo, SaleRepo: mockSaleRepo}
		service := NewReturnService(mockReturnRepo, mockSaleRepo, txScope)

		ret, err := trade.NewReturn("RET-202608-000013", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)

		_, err = service.Process(ctx, ret.ID, "carol", true)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_TRANSITION", domainErr.Code)
	})
}

func TestReturnService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes a pending return", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		service := NewReturnService(mockReturnRepo, mockSaleRepo, &scope.NoOpScope{})

		ret, err := trade.NewReturn("RET-202608-000020", uuid.New(), uuid.New(), "damaged", "alice")
		require.NoError(t, err)

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)
		mockReturnRepo.On("Delete", ctx, ret.ID).Return(nil)

		require.NoError(t, service.Delete(ctx, ret.ID))
		mockReturnRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete an approved return", func(t *testing.T) {
		mockReturnRepo := new(MockReturnRepository)
		mockSaleRepo := new(MockSaleRepository)
		service := NewReturnService(mockReturnRepo, mockSaleRepo, &scope.NoOpScope{})

		sale := createTestSaleWithItem(t, 10)
		ret := createPendingReturn(t, sale, 2)
		require.NoError(t, ret.Approve("bob"))

		mockReturnRepo.On("FindByID", ctx, ret.ID).Return(ret, nil)

		err := service.Delete(ctx, ret.ID)

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATUS", domainErr.Code)
		mockReturnRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestReturnService_RemainingReturnable(t *testing.T) {
	ctx := context.Background()

	mockReturnRepo := new(MockReturnRepository)
	mockSaleRepo := new(MockSaleRepository)
	service := NewReturnService(mockReturnRepo, mockSaleRepo, &scope.NoOpScope{})

	sale := createTestSaleWithItem(t, 10)
	itemID := sale.Items[0].ID

	returned := map[uuid.UUID]decimal.Decimal{itemID: decimal.NewFromInt(3)}

	mockSaleRepo.On("FindByID", ctx, sale.ID).Return(sale, nil)
	mockReturnRepo.On("SumReturnedQuantityBySale", ctx, sale.ID, holdingStatuses).Return(returned, nil)

	remaining, err := service.RemainingReturnable(ctx, sale.ID)

	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.True(t, remaining[itemID].Equal(decimal.NewFromInt(7)))
}

package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockService handles manual stock adjustments outside the sale and
// purchase flows (shrinkage, stocktake corrections, damage write-offs).
type StockService struct {
	productRepo   catalog.ProductRepository
	txScope       scope.TransactionScope
	allowNegative bool
}

// NewStockService creates a new StockService. allowNegative controls whether
// adjustments may drive stock below zero.
func NewStockService(productRepo catalog.ProductRepository, txScope scope.TransactionScope, allowNegative bool) *StockService {
	return &StockService{
		productRepo:   productRepo,
		txScope:       txScope,
		allowNegative: allowNegative,
	}
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Delta     decimal.Decimal `json:"delta" binding:"required"`
	Reason    string          `json:"reason" binding:"max=500"`
}

// StockAdjustmentResponse reports the stock level after an adjustment
type StockAdjustmentResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	Delta         decimal.Decimal `json:"delta"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
}

// AdjustStock applies a signed delta to a product's stock quantity. The
// product row is locked so concurrent adjustments serialize.
func (s *StockService) AdjustStock(ctx context.Context, req AdjustStockRequest) (*StockAdjustmentResponse, error) {
	var response *StockAdjustmentResponse
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}

		if err := product.AdjustStock(req.Delta, s.allowNegative); err != nil {
			return err
		}

		if err := repos.Products().SaveWithLock(ctx, product); err != nil {
			return err
		}

		logger.FromContext(ctx).Info("stock adjusted",
			zap.String("product_id", product.ID.String()),
			zap.String("delta", req.Delta.String()),
			zap.String("stock_quantity", product.StockQuantity.String()),
			zap.String("reason", req.Reason))

		response = &StockAdjustmentResponse{
			ProductID:     product.ID,
			Delta:         req.Delta,
			StockQuantity: product.StockQuantity,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// GetStock returns the current stock quantity for a product
func (s *StockService) GetStock(ctx context.Context, productID uuid.UUID) (decimal.Decimal, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return decimal.Zero, err
	}
	return product.StockQuantity, nil
}

// ListLowStock returns products whose stock quantity is at or below threshold
func (s *StockService) ListLowStock(ctx context.Context, threshold decimal.Decimal, filter shared.Filter) ([]catalog.Product, error) {
	if filter.Filters == nil {
		filter.Filters = make(map[string]interface{})
	}
	filter.Filters["max_stock"] = threshold
	return s.productRepo.FindAll(ctx, filter)
}

package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReturnRepository implements ReturnRepository using GORM
type GormReturnRepository struct {
	db *gorm.DB
}

// NewGormReturnRepository creates a new GormReturnRepository
func NewGormReturnRepository(db *gorm.DB) *GormReturnRepository {
	return &GormReturnRepository{db: db}
}

// FindByID finds a return with its items by ID
func (r *GormReturnRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindByReturnNumber finds a return by its return number
func (r *GormReturnRepository) FindByReturnNumber(ctx context.Context, returnNumber string) (*trade.Return, error) {
	var ret trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&ret, "return_number = ?", returnNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &ret, nil
}

// FindAll finds returns with filtering and pagination
func (r *GormReturnRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Return, error) {
	var returns []*trade.Return
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Return{}).Preload("Items"), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// Count counts returns matching the filter
func (r *GormReturnRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Return{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySale finds returns raised against a sale
func (r *GormReturnRepository) FindBySale(ctx context.Context, saleID uuid.UUID) ([]*trade.Return, error) {
	var returns []*trade.Return
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("sale_id = ?", saleID).
		Order("created_at DESC").
		Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// FindByStatus finds returns in a given status
func (r *GormReturnRepository) FindByStatus(ctx context.Context, status trade.ReturnStatus, filter shared.Filter) ([]*trade.Return, error) {
	var returns []*trade.Return
	query := r.db.WithContext(ctx).
		Model(&trade.Return{}).
		Preload("Items").
		Where("status = ?", status)
	query = applyPagination(query, filter)

	if err := query.Find(&returns).Error; err != nil {
		return nil, err
	}
	return returns, nil
}

// SumReturnedQuantityBySale aggregates already-returned quantities per sale
// item across the sale's returns in any of the given statuses
func (r *GormReturnRepository) SumReturnedQuantityBySale(ctx context.Context, saleID uuid.UUID, statuses []trade.ReturnStatus) (map[uuid.UUID]decimal.Decimal, error) {
	type row struct {
		SaleItemID uuid.UUID
		Total      decimal.Decimal
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&trade.ReturnItem{}).
		Select("return_items.sale_item_id AS sale_item_id, SUM(return_items.quantity) AS total").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("returns.sale_id = ? AND returns.status IN ?", saleID, statuses).
		Group("return_items.sale_item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[uuid.UUID]decimal.Decimal, len(rows))
	for _, row := range rows {
		result[row.SaleItemID] = row.Total
	}
	return result, nil
}

// CountByStatus counts returns grouped by lifecycle status
func (r *GormReturnRepository) CountByStatus(ctx context.Context) (map[trade.ReturnStatus]int64, error) {
	type row struct {
		Status trade.ReturnStatus
		Count  int64
	}

	var rows []row
	if err := r.db.WithContext(ctx).
		Model(&trade.Return{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make(map[trade.ReturnStatus]int64, len(rows))
	for _, row := range rows {
		result[row.Status] = row.Count
	}
	return result, nil
}

// GenerateReturnNumber generates the next return number.
// Format: RET-YYYYMM-NNNNNN, sequence resets each month.
func (r *GormReturnRepository) GenerateReturnNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("RET-%s-", time.Now().Format("200601"))

	var last trade.Return
	err := r.db.WithContext(ctx).
		Model(&trade.Return{}).
		Where("return_number LIKE ?", prefix+"%").
		Order("return_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.ReturnNumber != "" {
		parts := strings.Split(last.ReturnNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%06d", prefix, nextNum), nil
}

// Save creates or updates a return and reconciles its items
func (r *GormReturnRepository) Save(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(ret).Error; err != nil {
			return err
		}
		return saveChildren(tx, "return_id", ret.ID, ret.Items, func(it *trade.ReturnItem) uuid.UUID { return it.ID })
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormReturnRepository) SaveWithLock(ctx context.Context, ret *trade.Return) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := ret.Version
		ret.Version++
		ret.UpdatedAt = time.Now()

		result := tx.Model(&trade.Return{}).
			Where("id = ? AND version = ?", ret.ID, currentVersion).
			Updates(map[string]any{
				"status":             ret.Status,
				"total_amount":       ret.TotalAmount,
				"restocking_fee":     ret.RestockingFee,
				"processing_fee":     ret.ProcessingFee,
				"refund_amount":      ret.RefundAmount,
				"reason":             ret.Reason,
				"rejection_reason":   ret.RejectionReason,
				"inventory_adjusted": ret.InventoryAdjusted,
				"requested_by":       ret.RequestedBy,
				"approved_by":        ret.ApprovedBy,
				"processed_by":       ret.ProcessedBy,
				"approved_at":        ret.ApprovedAt,
				"processed_at":       ret.ProcessedAt,
				"completed_at":       ret.CompletedAt,
				"version":            ret.Version,
				"updated_at":         ret.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			ret.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		return saveChildren(tx, "return_id", ret.ID, ret.Items, func(it *trade.ReturnItem) uuid.UUID { return it.ID })
	})
}

// Delete removes a return and its items
func (r *GormReturnRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&trade.ReturnItem{}, "return_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Return{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormReturnRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("return_number ILIKE ?", "%"+filter.Search+"%")
	}
	if saleID, ok := filter.Filters["sale_id"]; ok {
		query = query.Where("sale_id = ?", saleID)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	return query
}

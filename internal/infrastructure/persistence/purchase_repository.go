package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase with its items by ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindByInvoiceNumber finds a purchase by its invoice number
func (r *GormPurchaseRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Purchase, error) {
	var purchase trade.Purchase
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&purchase, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds purchases with filtering and pagination
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Purchase{}).Preload("Items"), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Purchase{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySupplier finds purchases for a supplier with pagination
func (r *GormPurchaseRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	query := r.db.WithContext(ctx).
		Model(&trade.Purchase{}).
		Preload("Items").
		Where("supplier_id = ?", supplierID)
	query = applyPagination(query, filter)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindBySupplierBetween finds purchases for a supplier dated within [from, to],
// ordered by purchase date
func (r *GormPurchaseRepository) FindBySupplierBetween(ctx context.Context, supplierID uuid.UUID, from, to time.Time) ([]*trade.Purchase, error) {
	var purchases []*trade.Purchase
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ? AND purchase_date >= ? AND purchase_date <= ?", supplierID, from, to).
		Order("purchase_date ASC, created_at ASC").
		Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// ExistsByInvoiceNumber checks whether a purchase with the invoice number exists
func (r *GormPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Purchase{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a purchase and reconciles its items
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(purchase).Error; err != nil {
			return err
		}
		return saveChildren(tx, "purchase_id", purchase.ID, purchase.Items, func(it *trade.PurchaseItem) uuid.UUID { return it.ID })
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormPurchaseRepository) SaveWithLock(ctx context.Context, purchase *trade.Purchase) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := purchase.Version
		purchase.Version++
		purchase.UpdatedAt = time.Now()

		result := tx.Model(&trade.Purchase{}).
			Where("id = ? AND version = ?", purchase.ID, currentVersion).
			Updates(map[string]any{
				"invoice_number": purchase.InvoiceNumber,
				"supplier_id":    purchase.SupplierID,
				"total_amount":   purchase.TotalAmount,
				"purchase_date":  purchase.PurchaseDate,
				"version":        purchase.Version,
				"updated_at":     purchase.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			purchase.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		return saveChildren(tx, "purchase_id", purchase.ID, purchase.Items, func(it *trade.PurchaseItem) uuid.UUID { return it.ID })
	})
}

// Delete removes a purchase and its items
func (r *GormPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&trade.PurchaseItem{}, "purchase_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Purchase{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	if supplierID, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", supplierID)
	}
	if startDate, ok := filter.Filters["start_date"]; ok {
		query = query.Where("purchase_date >= ?", startDate)
	}
	if endDate, ok := filter.Filters["end_date"]; ok {
		query = query.Where("purchase_date <= ?", endDate)
	}
	return query
}

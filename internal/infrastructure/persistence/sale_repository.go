package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items by ID
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByIDForUpdate finds a sale by ID with a row-level write lock on the
// sale row. Item rows are loaded afterwards; the lock on the parent is what
// serializes return validation.
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("sale_id = ?", id).
		Order("created_at ASC").
		Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// FindByInvoiceNumber finds a sale by its invoice number
func (r *GormSaleRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Sale, error) {
	var sale trade.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&sale, "invoice_number = ?", invoiceNumber).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds sales with filtering and pagination
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Sale, error) {
	var sales []*trade.Sale
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Sale{}).Preload("Items"), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Sale{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByCustomer finds sales for a customer with pagination
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*trade.Sale, error) {
	var sales []*trade.Sale
	query := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Preload("Items").
		Where("customer_id = ?", customerID)
	query = applyPagination(query, filter)

	if err := query.Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// FindByCustomerBetween finds sales for a customer dated within [from, to],
// ordered by sale date
func (r *GormSaleRepository) FindByCustomerBetween(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]*trade.Sale, error) {
	var sales []*trade.Sale
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND sale_date >= ? AND sale_date <= ?", customerID, from, to).
		Order("sale_date ASC, created_at ASC").
		Find(&sales).Error; err != nil {
		return nil, err
	}
	return sales, nil
}

// ExistsByInvoiceNumber checks whether a sale with the invoice number exists
func (r *GormSaleRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.Sale{}).
		Where("invoice_number = ?", invoiceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a sale and reconciles its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}
		return saveChildren(tx, "sale_id", sale.ID, sale.Items, func(it *trade.SaleItem) uuid.UUID { return it.ID })
	})
}

// SaveWithLock saves with optimistic locking (version check)
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		currentVersion := sale.Version
		sale.Version++
		sale.UpdatedAt = time.Now()

		result := tx.Model(&trade.Sale{}).
			Where("id = ? AND version = ?", sale.ID, currentVersion).
			Updates(map[string]any{
				"invoice_number": sale.InvoiceNumber,
				"customer_id":    sale.CustomerID,
				"total_amount":   sale.TotalAmount,
				"total_profit":   sale.TotalProfit,
				"sale_date":      sale.SaleDate,
				"version":        sale.Version,
				"updated_at":     sale.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			sale.Version = currentVersion
			return shared.ErrConcurrencyConflict
		}

		return saveChildren(tx, "sale_id", sale.ID, sale.Items, func(it *trade.SaleItem) uuid.UUID { return it.ID })
	})
}

// Delete removes a sale and its items
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&trade.SaleItem{}, "sale_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&trade.Sale{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("invoice_number ILIKE ?", "%"+filter.Search+"%")
	}
	if customerID, ok := filter.Filters["customer_id"]; ok {
		query = query.Where("customer_id = ?", customerID)
	}
	if startDate, ok := filter.Filters["start_date"]; ok {
		query = query.Where("sale_date >= ?", startDate)
	}
	if endDate, ok := filter.Filters["end_date"]; ok {
		query = query.Where("sale_date <= ?", endDate)
	}
	return query
}

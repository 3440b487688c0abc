package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements the append-only LedgerEntryRepository
// using GORM. Entries are only ever inserted.
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// Append inserts a new ledger entry
func (r *GormLedgerEntryRepository) Append(ctx context.Context, entry *accounting.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// FindByAccount finds entries for an account with pagination, in canonical
// replay order
func (r *GormLedgerEntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]accounting.LedgerEntry, error) {
	var entries []accounting.LedgerEntry
	query := r.db.WithContext(ctx).
		Model(&accounting.LedgerEntry{}).
		Where("account_id = ?", accountID).
		Order("transaction_date ASC, created_at ASC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByAccountBetween finds entries in [start, end] in canonical replay order
func (r *GormLedgerEntryRepository) FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]accounting.LedgerEntry, error) {
	var entries []accounting.LedgerEntry
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND transaction_date >= ? AND transaction_date <= ?", accountID, start, end).
		Order("transaction_date ASC, created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// CountByAccount counts entries for an account
func (r *GormLedgerEntryRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&accounting.LedgerEntry{}).
		Where("account_id = ?", accountID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumByAccountBefore returns the net credit-minus-debit total of entries
// dated strictly before the given time
func (r *GormLedgerEntryRepository) SumByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&accounting.LedgerEntry{}).
		Select("SUM(credit - debit)").
		Where("account_id = ? AND transaction_date < ?", accountID, before).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

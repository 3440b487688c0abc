package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByID finds a voucher by its ID
func (r *GormVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Voucher, error) {
	var voucher accounting.Voucher
	if err := r.db.WithContext(ctx).First(&voucher, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &voucher, nil
}

// FindAll finds vouchers with filtering and pagination
func (r *GormVoucherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.Voucher, error) {
	var vouchers []accounting.Voucher
	query := r.applyFilter(r.db.WithContext(ctx).Model(&accounting.Voucher{}), filter)
	query = applyPagination(query, filter)

	if err := query.Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Count counts vouchers matching the filter
func (r *GormVoucherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&accounting.Voucher{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByAccount finds vouchers for an account with pagination
func (r *GormVoucherRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]accounting.Voucher, error) {
	var vouchers []accounting.Voucher
	query := r.db.WithContext(ctx).
		Model(&accounting.Voucher{}).
		Where("account_id = ?", accountID)
	query = applyPagination(query, filter)

	if err := query.Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// FindByAccountBefore finds vouchers dated strictly before the given time
func (r *GormVoucherRepository) FindByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]accounting.Voucher, error) {
	var vouchers []accounting.Voucher
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND transaction_date < ?", accountID, before).
		Order("transaction_date ASC, created_at ASC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// FindByAccountBetween finds vouchers dated within [start, end]
func (r *GormVoucherRepository) FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]accounting.Voucher, error) {
	var vouchers []accounting.Voucher
	if err := r.db.WithContext(ctx).
		Where("account_id = ? AND transaction_date >= ? AND transaction_date <= ?", accountID, start, end).
		Order("transaction_date ASC, created_at ASC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// Save creates a voucher. Vouchers are immutable once written.
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *accounting.Voucher) error {
	return r.db.WithContext(ctx).Save(voucher).Error
}

// GenerateVoucherNumber generates the next voucher number.
// Format: VCH-YYYYMM-NNNNNN, sequence resets each month.
func (r *GormVoucherRepository) GenerateVoucherNumber(ctx context.Context) (string, error) {
	prefix := fmt.Sprintf("VCH-%s-", time.Now().Format("200601"))

	var last accounting.Voucher
	err := r.db.WithContext(ctx).
		Model(&accounting.Voucher{}).
		Where("voucher_number LIKE ?", prefix+"%").
		Order("voucher_number DESC").
		First(&last).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && last.VoucherNumber != "" {
		parts := strings.Split(last.VoucherNumber, "-")
		if len(parts) == 3 {
			var num int64
			if _, parseErr := fmt.Sscanf(parts[2], "%d", &num); parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	return fmt.Sprintf("%s%06d", prefix, nextNum), nil
}

func (r *GormVoucherRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = query.Where("voucher_number ILIKE ?", "%"+filter.Search+"%")
	}
	if accountID, ok := filter.Filters["account_id"]; ok {
		query = query.Where("account_id = ?", accountID)
	}
	if voucherType, ok := filter.Filters["type"]; ok {
		query = query.Where("type = ?", voucherType)
	}
	return query
}

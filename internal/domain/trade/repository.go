package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleRepository defines the persistence interface for sales
type SaleRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)
	// FindByIDForUpdate loads the sale with a row-level lock so that
	// concurrent return validations against the same sale serialize.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Sale, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Sale, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Sale, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*Sale, error)
	FindByCustomerBetween(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]*Sale, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	Save(ctx context.Context, sale *Sale) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PurchaseRepository defines the persistence interface for purchases
type PurchaseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)
	FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*Purchase, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Purchase, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*Purchase, error)
	FindBySupplierBetween(ctx context.Context, supplierID uuid.UUID, from, to time.Time) ([]*Purchase, error)
	ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error)
	Save(ctx context.Context, purchase *Purchase) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, purchase *Purchase) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReturnRepository defines the persistence interface for sales returns
type ReturnRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Return, error)
	FindByReturnNumber(ctx context.Context, returnNumber string) (*Return, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Return, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindBySale(ctx context.Context, saleID uuid.UUID) ([]*Return, error)
	FindByStatus(ctx context.Context, status ReturnStatus, filter shared.Filter) ([]*Return, error)
	// SumReturnedQuantityBySale aggregates already-returned quantities per
	// sale item for returns of the sale in any of the given statuses.
	SumReturnedQuantityBySale(ctx context.Context, saleID uuid.UUID, statuses []ReturnStatus) (map[uuid.UUID]decimal.Decimal, error)
	CountByStatus(ctx context.Context) (map[ReturnStatus]int64, error)
	// GenerateReturnNumber produces the next number in the form
	// RET-YYYYMM-NNNNNN, where the sequence resets each month.
	GenerateReturnNumber(ctx context.Context) (string, error)
	Save(ctx context.Context, ret *Return) error
	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, ret *Return) error
	Delete(ctx context.Context, id uuid.UUID) error
}

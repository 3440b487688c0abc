package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the persistence contract for accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)
	// FindByIDForUpdate loads an account with a row-level write lock so that
	// concurrent postings against the same account are serialized.
	// Must be called within a transaction scope.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Account, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID) (*Account, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) (*Account, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Account, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, account *Account) error
}

// LedgerEntryRepository defines the append-only persistence contract for
// ledger entries. Entries are never updated or deleted.
type LedgerEntryRepository interface {
	Append(ctx context.Context, entry *LedgerEntry) error
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]LedgerEntry, error)
	// FindByAccountBetween returns entries in [start, end] in canonical replay
	// order (transaction date, then created at).
	FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]LedgerEntry, error)
	CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error)
	// SumByAccountBefore returns the net credit-minus-debit total of all
	// entries dated strictly before the given time.
	SumByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) (decimal.Decimal, error)
}

// VoucherRepository defines the persistence contract for vouchers
type VoucherRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Voucher, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Voucher, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]Voucher, error)
	// FindByAccountBefore returns vouchers dated strictly before the given time
	FindByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]Voucher, error)
	// FindByAccountBetween returns vouchers dated within [start, end]
	FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]Voucher, error)
	Save(ctx context.Context, voucher *Voucher) error
	GenerateVoucherNumber(ctx context.Context) (string, error)
}

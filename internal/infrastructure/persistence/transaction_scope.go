package persistence

import (
	"context"

	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopos/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormTransactionScope implements scope.TransactionScope using GORM
// transactions. Every repository handed to fn shares one transaction, so
// row locks taken through FindByIDForUpdate hold until commit or rollback.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context, repos scope.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormRepos{tx: tx})
	})
}

// gormRepos provides transaction-bound repositories
type gormRepos struct {
	tx *gorm.DB
}

func (r *gormRepos) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormRepos) Accounts() accounting.AccountRepository {
	return NewGormAccountRepository(r.tx)
}

func (r *gormRepos) LedgerEntries() accounting.LedgerEntryRepository {
	return NewGormLedgerEntryRepository(r.tx)
}

func (r *gormRepos) Vouchers() accounting.VoucherRepository {
	return NewGormVoucherRepository(r.tx)
}

func (r *gormRepos) Sales() trade.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormRepos) Purchases() trade.PurchaseRepository {
	return NewGormPurchaseRepository(r.tx)
}

func (r *gormRepos) Returns() trade.ReturnRepository {
	return NewGormReturnRepository(r.tx)
}

var _ scope.TransactionScope = (*GormTransactionScope)(nil)
var _ scope.Repos = (*gormRepos)(nil)

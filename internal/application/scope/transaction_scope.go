// Package scope provides the unit-of-work abstraction used by application
// services that must mutate several aggregates atomically.
package scope

import (
	"context"

	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopos/backend/internal/domain/trade"
)

// Repos exposes transaction-bound repositories. All repositories obtained
// from the same Repos share one database transaction.
type Repos interface {
	Products() catalog.ProductRepository
	Accounts() accounting.AccountRepository
	LedgerEntries() accounting.LedgerEntryRepository
	Vouchers() accounting.VoucherRepository
	Sales() trade.SaleRepository
	Purchases() trade.PurchaseRepository
	Returns() trade.ReturnRepository
}

// TransactionScope executes a function within a database transaction.
// If fn returns an error the transaction is rolled back, otherwise it
// is committed.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error
}

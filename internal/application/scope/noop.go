package scope

import (
	"context"

	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopos/backend/internal/domain/trade"
)

// NoOpScope runs the function directly against the supplied repositories
// without any transactional boundary. Intended for tests.
type NoOpScope struct {
	ProductRepo     catalog.ProductRepository
	AccountRepo     accounting.AccountRepository
	LedgerEntryRepo accounting.LedgerEntryRepository
	VoucherRepo     accounting.VoucherRepository
	SaleRepo        trade.SaleRepository
	PurchaseRepo    trade.PurchaseRepository
	ReturnRepo      trade.ReturnRepository
}

func (s *NoOpScope) Execute(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return fn(ctx, s)
}

func (s *NoOpScope) Products() catalog.ProductRepository             { return s.ProductRepo }
func (s *NoOpScope) Accounts() accounting.AccountRepository          { return s.AccountRepo }
func (s *NoOpScope) LedgerEntries() accounting.LedgerEntryRepository { return s.LedgerEntryRepo }
func (s *NoOpScope) Vouchers() accounting.VoucherRepository          { return s.VoucherRepo }
func (s *NoOpScope) Sales() trade.SaleRepository                     { return s.SaleRepo }
func (s *NoOpScope) Purchases() trade.PurchaseRepository             { return s.PurchaseRepo }
func (s *NoOpScope) Returns() trade.ReturnRepository                 { return s.ReturnRepo }

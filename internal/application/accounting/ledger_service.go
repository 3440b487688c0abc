package accounting

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/application/scope"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/shared"
)

// LedgerService handles account and ledger business operations. All balance
// mutations go through the transaction scope so that the balance snapshot on
// each ledger entry matches the account balance at the moment of append.
type LedgerService struct {
	accountRepo accounting.AccountRepository
	entryRepo   accounting.LedgerEntryRepository
	voucherRepo accounting.VoucherRepository
	txScope     scope.TransactionScope
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	accountRepo accounting.AccountRepository,
	entryRepo accounting.LedgerEntryRepository,
	voucherRepo accounting.VoucherRepository,
	txScope scope.TransactionScope,
) *LedgerService {
	return &LedgerService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		voucherRepo: voucherRepo,
		txScope:     txScope,
	}
}

// CreateAccount creates a new account, optionally linked to a customer or supplier
func (s *LedgerService) CreateAccount(ctx context.Context, req CreateAccountRequest) (*AccountResponse, error) {
	account, err := accounting.NewAccount(req.Name, accounting.AccountType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.CustomerID != nil {
		if err := account.LinkCustomer(*req.CustomerID); err != nil {
			return nil, err
		}
	}
	if req.SupplierID != nil {
		if err := account.LinkSupplier(*req.SupplierID); err != nil {
			return nil, err
		}
	}

	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	response := ToAccountResponse(account)
	return &response, nil
}

// GetAccount retrieves an account by ID
func (s *LedgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*AccountResponse, error) {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	response := ToAccountResponse(account)
	return &response, nil
}

// ListAccounts retrieves accounts with filtering and pagination
func (s *LedgerService) ListAccounts(ctx context.Context, filter AccountListFilter) (*shared.Paginated[AccountResponse], error) {
	f := shared.DefaultFilter()
	if filter.Page > 0 {
		f.Page = filter.Page
	}
	if filter.PageSize > 0 {
		f.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		f.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		f.OrderDir = filter.OrderDir
	}
	f.Search = filter.Search
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}

	accounts, err := s.accountRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	total, err := s.accountRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, ToAccountResponse(&accounts[i]))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// PostEntry posts a single debit or credit against an account. The account
// row is locked for the duration of the transaction, the balance is mutated,
// and an immutable entry carrying the resulting balance is appended. Both
// writes commit together or not at all.
func (s *LedgerService) PostEntry(ctx context.Context, req PostEntryRequest) (*LedgerEntryResponse, error) {
	direction := accounting.EntryDirection(req.Direction)
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction must be DEBIT or CREDIT")
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	var entry *accounting.LedgerEntry
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		account, err := repos.Accounts().FindByIDForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}

		balanceAfter, err := account.Apply(direction, req.Amount)
		if err != nil {
			return err
		}

		entry, err = accounting.NewLedgerEntry(account.ID, direction, req.Amount, balanceAfter, req.Description, transactionDate)
		if err != nil {
			return err
		}

		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return repos.LedgerEntries().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// CreateVoucher records a voucher against an account and posts the matching
// ledger entry. Cash received credits the account, expense vouchers debit it.
func (s *LedgerService) CreateVoucher(ctx context.Context, req CreateVoucherRequest) (*VoucherResponse, error) {
	voucherType := accounting.VoucherType(req.Type)
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", "Invalid voucher type")
	}

	transactionDate := time.Now()
	if req.TransactionDate != nil {
		transactionDate = *req.TransactionDate
	}

	var voucher *accounting.Voucher
	err := s.txScope.Execute(ctx, func(ctx context.Context, repos scope.Repos) error {
		account, err := repos.Accounts().FindByIDForUpdate(ctx, req.AccountID)
		if err != nil {
			return err
		}

		voucherNumber, err := repos.Vouchers().GenerateVoucherNumber(ctx)
		if err != nil {
			return err
		}

		voucher, err = accounting.NewVoucher(voucherNumber, account.ID, voucherType, req.Amount, transactionDate, req.Description)
		if err != nil {
			return err
		}

		direction := voucherType.LedgerDirection()
		balanceAfter, err := account.Apply(direction, req.Amount)
		if err != nil {
			return err
		}

		entry, err := accounting.NewLedgerEntry(account.ID, direction, req.Amount, balanceAfter, req.Description, transactionDate)
		if err != nil {
			return err
		}

		if err := repos.Vouchers().Save(ctx, voucher); err != nil {
			return err
		}
		if err := repos.Accounts().Save(ctx, account); err != nil {
			return err
		}
		return repos.LedgerEntries().Append(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	response := ToVoucherResponse(voucher)
	return &response, nil
}

// GetVoucher retrieves a voucher by ID
func (s *LedgerService) GetVoucher(ctx context.Context, voucherID uuid.UUID) (*VoucherResponse, error) {
	voucher, err := s.voucherRepo.FindByID(ctx, voucherID)
	if err != nil {
		return nil, err
	}
	response := ToVoucherResponse(voucher)
	return &response, nil
}

// ListVouchers retrieves vouchers for an account with pagination
func (s *LedgerService) ListVouchers(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*shared.Paginated[VoucherResponse], error) {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}

	vouchers, err := s.voucherRepo.FindByAccount(ctx, accountID, f)
	if err != nil {
		return nil, err
	}
	f.Filters["account_id"] = accountID
	total, err := s.voucherRepo.Count(ctx, f)
	if err != nil {
		return nil, err
	}

	items := make([]VoucherResponse, 0, len(vouchers))
	for i := range vouchers {
		items = append(items, ToVoucherResponse(&vouchers[i]))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

// ListEntries retrieves ledger entries for an account with pagination
func (s *LedgerService) ListEntries(ctx context.Context, accountID uuid.UUID, page, pageSize int) (*shared.Paginated[LedgerEntryResponse], error) {
	f := shared.DefaultFilter()
	if page > 0 {
		f.Page = page
	}
	if pageSize > 0 {
		f.PageSize = pageSize
	}
	f.OrderBy = "transaction_date"

	entries, err := s.entryRepo.FindByAccount(ctx, accountID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.entryRepo.CountByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	items := make([]LedgerEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, ToLedgerEntryResponse(&entries[i]))
	}

	result := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &result, nil
}

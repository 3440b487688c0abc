package report

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAccountRepository is a mock implementation of accounting.AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) (*accounting.Account, error) {
	args := m.Called(ctx, supplierID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.Account, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Account), args.Error(1)
}

func (m *MockAccountRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountRepository) Save(ctx context.Context, account *accounting.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

var _ accounting.AccountRepository = (*MockAccountRepository)(nil)

// MockLedgerEntryRepository is a mock implementation of accounting.LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) Append(ctx context.Context, entry *accounting.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) CountByAccount(ctx context.Context, accountID uuid.UUID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEntryRepository) SumByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, before)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ accounting.LedgerEntryRepository = (*MockLedgerEntryRepository)(nil)

// MockVoucherRepository is a mock implementation of accounting.VoucherRepository
type MockVoucherRepository struct {
	mock.Mock
}

func (m *MockVoucherRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Voucher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindAll(ctx context.Context, filter shared.Filter) ([]accounting.Voucher, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockVoucherRepository) FindByAccount(ctx context.Context, accountID uuid.UUID, filter shared.Filter) ([]accounting.Voucher, error) {
	args := m.Called(ctx, accountID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByAccountBefore(ctx context.Context, accountID uuid.UUID, before time.Time) ([]accounting.Voucher, error) {
	args := m.Called(ctx, accountID, before)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) FindByAccountBetween(ctx context.Context, accountID uuid.UUID, start, end time.Time) ([]accounting.Voucher, error) {
	args := m.Called(ctx, accountID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]accounting.Voucher), args.Error(1)
}

func (m *MockVoucherRepository) Save(ctx context.Context, voucher *accounting.Voucher) error {
	args := m.Called(ctx, voucher)
	return args.Error(0)
}

func (m *MockVoucherRepository) GenerateVoucherNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

var _ accounting.VoucherRepository = (*MockVoucherRepository)(nil)

// MockSaleRepository is a mock implementation of trade.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*trade.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Sale, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]*trade.Sale, error) {
	args := m.Called(ctx, customerID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCustomerBetween(ctx context.Context, customerID uuid.UUID, from, to time.Time) ([]*trade.Sale, error) {
	args := m.Called(ctx, customerID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Sale), args.Error(1)
}

func (m *MockSaleRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) SaveWithLock(ctx context.Context, sale *trade.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ trade.SaleRepository = (*MockSaleRepository)(nil)

// MockPurchaseRepository is a mock implementation of trade.PurchaseRepository
type MockPurchaseRepository struct {
	mock.Mock
}

func (m *MockPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Purchase, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindByInvoiceNumber(ctx context.Context, invoiceNumber string) (*trade.Purchase, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*trade.Purchase, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPurchaseRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID, filter shared.Filter) ([]*trade.Purchase, error) {
	args := m.Called(ctx, supplierID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) FindBySupplierBetween(ctx context.Context, supplierID uuid.UUID, from, to time.Time) ([]*trade.Purchase, error) {
	args := m.Called(ctx, supplierID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*trade.Purchase), args.Error(1)
}

func (m *MockPurchaseRepository) ExistsByInvoiceNumber(ctx context.Context, invoiceNumber string) (bool, error) {
	args := m.Called(ctx, invoiceNumber)
	return args.Bool(0), args.Error(1)
}

func (m *MockPurchaseRepository) Save(ctx context.Context, purchase *trade.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) SaveWithLock(ctx context.Context, purchase *trade.Purchase) error {
	args := m.Called(ctx, purchase)
	return args.Error(0)
}

func (m *MockPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

var _ trade.PurchaseRepository = (*MockPurchaseRepository)(nil)

func newTestReportService(
	accountRepo *MockAccountRepository,
	entryRepo *MockLedgerEntryRepository,
	voucherRepo *MockVoucherRepository,
	saleRepo *MockSaleRepository,
	purchaseRepo *MockPurchaseRepository,
) *LedgerReportService {
	return NewLedgerReportService(accountRepo, entryRepo, voucherRepo, saleRepo, purchaseRepo)
}

func testSale(customerID uuid.UUID, invoiceNumber string, amount int64, date time.Time) *trade.Sale {
	sale := &trade.Sale{
		InvoiceNumber: invoiceNumber,
		CustomerID:    customerID,
		TotalAmount:   decimal.NewFromInt(amount),
		SaleDate:      date,
	}
	sale.ID = uuid.New()
	return sale
}

func testPurchase(supplierID uuid.UUID, invoiceNumber string, amount int64, date time.Time) *trade.Purchase {
	purchase := &trade.Purchase{
		InvoiceNumber: invoiceNumber,
		SupplierID:    supplierID,
		TotalAmount:   decimal.NewFromInt(amount),
		PurchaseDate:  date,
	}
	purchase.ID = uuid.New()
	return purchase
}

func TestLedgerReportService_ComputeCustomerLedger(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 23, 59, 59, 0, time.UTC)

	t.Run("sales increase owed, cash received reduces it", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockVoucherRepo := new(MockVoucherRepository)
		mockSaleRepo := new(MockSaleRepository)
		service := newTestReportService(mockAccountRepo, new(MockLedgerEntryRepository), mockVoucherRepo, mockSaleRepo, new(MockPurchaseRepository))

		account, err := accounting.NewAccount("Acme Corp", accounting.AccountTypeReceivable)
		require.NoError(t, err)

		sales := []*trade.Sale{
			testSale(customerID, "INV-2026-0001", 500, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)),
			testSale(customerID, "INV-2026-0002", 300, time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)),
		}

		payment, err := accounting.NewVoucher("VCH-202602-000001", account.ID,
			accounting.VoucherTypeCashReceived, decimal.NewFromInt(200),
			time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC), "wire transfer")
		require.NoError(t, err)

		mockSaleRepo.On("FindByCustomerBetween", ctx, customerID, time.Time{}, to).Return(sales, nil)
		mockAccountRepo.On("FindByCustomer", ctx, customerID).Return(account, nil)
		mockVoucherRepo.On("FindByAccountBetween", ctx, account.ID, time.Time{}, to).
			Return([]accounting.Voucher{*payment}, nil)

		report, err := service.ComputeCustomerLedger(ctx, customerID, from, to)

		require.NoError(t, err)
		assert.Equal(t, "500.00", report.PreviousBalance)
		require.Len(t, report.Rows, 2)

		assert.Equal(t, RowTypeSale, report.Rows[0].Type)
		assert.Equal(t, "INV-2026-0002", report.Rows[0].Reference)
		assert.Equal(t, "300.00", report.Rows[0].Debit)
		assert.Equal(t, "800.00", report.Rows[0].Balance)

		assert.Equal(t, RowTypeVoucher, report.Rows[1].Type)
		assert.Equal(t, "200.00", report.Rows[1].Credit)
		assert.Equal(t, "600.00", report.Rows[1].Balance)

		assert.Equal(t, "300.00", report.TotalDebit)
		assert.Equal(t, "200.00", report.TotalCredit)
		assert.Equal(t, "600.00", report.ClosingBalance)
	})

	t.Run("customer without an account gets a sales-only statement", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockVoucherRepo := new(MockVoucherRepository)
		mockSaleRepo := new(MockSaleRepository)
		service := newTestReportService(mockAccountRepo, new(MockLedgerEntryRepository), mockVoucherRepo, mockSaleRepo, new(MockPurchaseRepository))

		sales := []*trade.Sale{
			testSale(customerID, "INV-2026-0003", 150, time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)),
		}

		mockSaleRepo.On("FindByCustomerBetween", ctx, customerID, time.Time{}, to).Return(sales, nil)
		mockAccountRepo.On("FindByCustomer", ctx, customerID).Return(nil, shared.ErrNotFound)

		report, err := service.ComputeCustomerLedger(ctx, customerID, from, to)

		require.NoError(t, err)
		assert.Equal(t, "0.00", report.PreviousBalance)
		require.Len(t, report.Rows, 1)
		assert.Equal(t, "150.00", report.ClosingBalance)
		mockVoucherRepo.AssertNotCalled(t, "FindByAccountBetween", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLedgerReportService_ComputeSupplierLedger(t *testing.T) {
	ctx := context.Background()
	supplierID := uuid.New()
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)

	t.Run("purchases increase owed and expenses add to it", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockVoucherRepo := new(MockVoucherRepository)
		mockPurchaseRepo := new(MockPurchaseRepository)
		service := newTestReportService(mockAccountRepo, new(MockLedgerEntryRepository), mockVoucherRepo, new(MockSaleRepository), mockPurchaseRepo)

		account, err := accounting.NewAccount("Supplies Inc", accounting.AccountTypePayable)
		require.NoError(t, err)

		purchases := []*trade.Purchase{
			testPurchase(supplierID, "PINV-2026-0001", 700, time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)),
		}

		expense, err := accounting.NewVoucher("VCH-202603-000001", account.ID,
			accounting.VoucherTypeExpense, decimal.NewFromInt(40),
			time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), "freight charge")
		require.NoError(t, err)

		mockPurchaseRepo.On("FindBySupplierBetween", ctx, supplierID, time.Time{}, to).Return(purchases, nil)
		mockAccountRepo.On("FindBySupplier", ctx, supplierID).Return(account, nil)
		mockVoucherRepo.On("FindByAccountBetween", ctx, account.ID, time.Time{}, to).
			Return([]accounting.Voucher{*expense}, nil)

		report, err := service.ComputeSupplierLedger(ctx, supplierID, from, to)

		require.NoError(t, err)
		require.Len(t, report.Rows, 2)

		assert.Equal(t, RowTypePurchase, report.Rows[0].Type)
		assert.Equal(t, "700.00", report.Rows[0].Debit)

		// the expense does not reduce what is owed, so it lands on the debit side
		assert.Equal(t, RowTypeVoucher, report.Rows[1].Type)
		assert.Equal(t, "40.00", report.Rows[1].Debit)
		assert.Equal(t, "freight charge", report.Rows[1].Description)

		assert.Equal(t, "740.00", report.ClosingBalance)
	})
}

func TestLedgerReportService_ComputeAccountLedger(t *testing.T) {
	ctx := context.Background()
	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 30, 23, 59, 59, 0, time.UTC)

	t.Run("entries accumulate on top of the stored opening balance", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		mockEntryRepo := new(MockLedgerEntryRepository)
		service := newTestReportService(mockAccountRepo, mockEntryRepo, new(MockVoucherRepository), new(MockSaleRepository), new(MockPurchaseRepository))

		account, err := accounting.NewAccount("Main Cash", accounting.AccountTypeGeneral)
		require.NoError(t, err)

		credit, err := accounting.NewLedgerEntry(account.ID, accounting.DirectionCredit,
			decimal.NewFromInt(50), decimal.NewFromInt(150), "cash in",
			time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		debit, err := accounting.NewLedgerEntry(account.ID, accounting.DirectionDebit,
			decimal.NewFromInt(30), decimal.NewFromInt(120), "cash out",
			time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)

		mockAccountRepo.On("FindByID", ctx, account.ID).Return(account, nil)
		mockEntryRepo.On("SumByAccountBefore", ctx, account.ID, from).Return(decimal.NewFromInt(100), nil)
		mockEntryRepo.On("FindByAccountBetween", ctx, account.ID, from, to).
			Return([]accounting.LedgerEntry{*credit, *debit}, nil)

		report, err := service.ComputeAccountLedger(ctx, account.ID, from, to)

		require.NoError(t, err)
		assert.Equal(t, "100.00", report.PreviousBalance)
		require.Len(t, report.Rows, 2)
		assert.Equal(t, "150.00", report.Rows[0].Balance)
		assert.Equal(t, "120.00", report.Rows[1].Balance)
		assert.Equal(t, "30.00", report.TotalDebit)
		assert.Equal(t, "50.00", report.TotalCredit)
		assert.Equal(t, "120.00", report.ClosingBalance)
	})

	t.Run("unknown account errors", func(t *testing.T) {
		mockAccountRepo := new(MockAccountRepository)
		service := newTestReportService(mockAccountRepo, new(MockLedgerEntryRepository), new(MockVoucherRepository), new(MockSaleRepository), new(MockPurchaseRepository))

		accountID := uuid.New()
		mockAccountRepo.On("FindByID", ctx, accountID).Return(nil, shared.ErrNotFound)

		_, err := service.ComputeAccountLedger(ctx, accountID, from, to)

		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

package report

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// LedgerReportService builds dated ledger statements. Reports are derived
// on read by replaying documents and vouchers; they take no locks and never
// mutate state.
type LedgerReportService struct {
	accountRepo  accounting.AccountRepository
	entryRepo    accounting.LedgerEntryRepository
	voucherRepo  accounting.VoucherRepository
	saleRepo     trade.SaleRepository
	purchaseRepo trade.PurchaseRepository
}

// NewLedgerReportService creates a new LedgerReportService
func NewLedgerReportService(
	accountRepo accounting.AccountRepository,
	entryRepo accounting.LedgerEntryRepository,
	voucherRepo accounting.VoucherRepository,
	saleRepo trade.SaleRepository,
	purchaseRepo trade.PurchaseRepository,
) *LedgerReportService {
	return &LedgerReportService{
		accountRepo:  accountRepo,
		entryRepo:    entryRepo,
		voucherRepo:  voucherRepo,
		saleRepo:     saleRepo,
		purchaseRepo: purchaseRepo,
	}
}

// event is an intermediate dated movement before running balances are applied
type event struct {
	date        time.Time
	rowType     string
	reference   string
	description string
	// signed: positive increases the amount owed, negative reduces it
	amount decimal.Decimal
}

// ComputeCustomerLedger builds a customer statement for [from, to]. Sales
// increase what the customer owes; cash received against the customer's
// account reduces it; expense vouchers increase it. The opening balance
// replays everything dated before from.
func (s *LedgerReportService) ComputeCustomerLedger(ctx context.Context, customerID uuid.UUID, from, to time.Time) (*LedgerReport, error) {
	sales, err := s.saleRepo.FindByCustomerBetween(ctx, customerID, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	var vouchers []accounting.Voucher
	account, err := s.accountRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		// No ledger account yet: the statement is sales only.
	} else {
		vouchers, err = s.voucherRepo.FindByAccountBetween(ctx, account.ID, time.Time{}, to)
		if err != nil {
			return nil, err
		}
	}

	events := make([]event, 0, len(sales)+len(vouchers))
	for _, sale := range sales {
		events = append(events, event{
			date:        sale.SaleDate,
			rowType:     RowTypeSale,
			reference:   sale.InvoiceNumber,
			description: "Sale invoice",
			amount:      sale.TotalAmount,
		})
	}
	events = append(events, voucherEvents(vouchers)...)

	return assembleReport(customerID, from, to, events), nil
}

// ComputeSupplierLedger builds a supplier statement for [from, to]. Purchases
// increase what the shop owes the supplier; cash received against the
// supplier's account reduces it; expense vouchers increase it. The same sign
// convention as the customer ledger applies on both sides.
func (s *LedgerReportService) ComputeSupplierLedger(ctx context.Context, supplierID uuid.UUID, from, to time.Time) (*LedgerReport, error) {
	purchases, err := s.purchaseRepo.FindBySupplierBetween(ctx, supplierID, time.Time{}, to)
	if err != nil {
		return nil, err
	}

	var vouchers []accounting.Voucher
	account, err := s.accountRepo.FindBySupplier(ctx, supplierID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	} else {
		vouchers, err = s.voucherRepo.FindByAccountBetween(ctx, account.ID, time.Time{}, to)
		if err != nil {
			return nil, err
		}
	}

	events := make([]event, 0, len(purchases)+len(vouchers))
	for _, purchase := range purchases {
		events = append(events, event{
			date:        purchase.PurchaseDate,
			rowType:     RowTypePurchase,
			reference:   purchase.InvoiceNumber,
			description: "Purchase invoice",
			amount:      purchase.TotalAmount,
		})
	}
	events = append(events, voucherEvents(vouchers)...)

	return assembleReport(supplierID, from, to, events), nil
}

// ComputeAccountLedger builds a statement for a raw ledger account from its
// entries. The opening balance is the stored net of all entries before from,
// so no replay of documents is needed.
func (s *LedgerReportService) ComputeAccountLedger(ctx context.Context, accountID uuid.UUID, from, to time.Time) (*LedgerReport, error) {
	if _, err := s.accountRepo.FindByID(ctx, accountID); err != nil {
		return nil, err
	}

	previous, err := s.entryRepo.SumByAccountBefore(ctx, accountID, from)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.FindByAccountBetween(ctx, accountID, from, to)
	if err != nil {
		return nil, err
	}

	rows := make([]LedgerRow, 0, len(entries))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	running := previous
	for i := range entries {
		entry := &entries[i]
		running = running.Add(entry.SignedAmount())
		totalDebit = totalDebit.Add(entry.Debit)
		totalCredit = totalCredit.Add(entry.Credit)
		rows = append(rows, LedgerRow{
			Date:        entry.TransactionDate,
			Type:        RowTypeEntry,
			Description: entry.Description,
			Debit:       entry.Debit.StringFixed(2),
			Credit:      entry.Credit.StringFixed(2),
			Balance:     running.StringFixed(2),
		})
	}

	return &LedgerReport{
		PartyID:         accountID,
		From:            from,
		To:              to,
		PreviousBalance: previous.StringFixed(2),
		Rows:            rows,
		TotalDebit:      totalDebit.StringFixed(2),
		TotalCredit:     totalCredit.StringFixed(2),
		ClosingBalance:  running.StringFixed(2),
	}, nil
}

func voucherEvents(vouchers []accounting.Voucher) []event {
	events := make([]event, 0, len(vouchers))
	for i := range vouchers {
		v := &vouchers[i]
		amount := v.Amount
		if v.Type.ReducesOwed() {
			amount = amount.Neg()
		}
		description := v.Description
		if description == "" {
			description = v.Type.String()
		}
		events = append(events, event{
			date:        v.TransactionDate,
			rowType:     RowTypeVoucher,
			reference:   v.VoucherNumber,
			description: description,
			amount:      amount,
		})
	}
	return events
}

// assembleReport splits events at from, accumulates the opening balance from
// the earlier ones and produces running-balance rows for the rest
func assembleReport(partyID uuid.UUID, from, to time.Time, events []event) *LedgerReport {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].date.Before(events[j].date)
	})

	previous := decimal.Zero
	inRange := make([]event, 0, len(events))
	for _, e := range events {
		if e.date.Before(from) {
			previous = previous.Add(e.amount)
		} else {
			inRange = append(inRange, e)
		}
	}

	rows := make([]LedgerRow, 0, len(inRange))
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	running := previous

	for _, e := range inRange {
		running = running.Add(e.amount)

		debit := decimal.Zero
		credit := decimal.Zero
		if e.amount.IsNegative() {
			credit = e.amount.Neg()
		} else {
			debit = e.amount
		}
		totalDebit = totalDebit.Add(debit)
		totalCredit = totalCredit.Add(credit)

		rows = append(rows, LedgerRow{
			Date:        e.date,
			Type:        e.rowType,
			Reference:   e.reference,
			Description: e.description,
			Debit:       debit.StringFixed(2),
			Credit:      credit.StringFixed(2),
			Balance:     running.StringFixed(2),
		})
	}

	return &LedgerReport{
		PartyID:         partyID,
		From:            from,
		To:              to,
		PreviousBalance: previous.StringFixed(2),
		Rows:            rows,
		TotalDebit:      totalDebit.StringFixed(2),
		TotalCredit:     totalCredit.StringFixed(2),
		ClosingBalance:  running.StringFixed(2),
	}
}

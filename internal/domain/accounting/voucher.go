package accounting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// VoucherType represents the kind of accounting transaction a voucher records
type VoucherType string

const (
	// VoucherTypeCashReceived records money received against an account (credit)
	VoucherTypeCashReceived VoucherType = "CASH_RECEIVED"
	// VoucherTypeExpense records an expense voucher against an account (debit)
	VoucherTypeExpense VoucherType = "EXPENSE_VOUCHER"
)

// IsValid checks if the type is a valid VoucherType
func (t VoucherType) IsValid() bool {
	return t == VoucherTypeCashReceived || t == VoucherTypeExpense
}

// String returns the string representation of VoucherType
func (t VoucherType) String() string {
	return string(t)
}

// LedgerDirection returns the ledger entry side a voucher of this type posts:
// cash received credits the account, expense vouchers debit it.
func (t VoucherType) LedgerDirection() EntryDirection {
	if t == VoucherTypeCashReceived {
		return DirectionCredit
	}
	return DirectionDebit
}

// ReducesOwed reports whether this voucher type reduces the amount owed by the
// entity behind the account (cash received settles outstanding balances).
func (t VoucherType) ReducesOwed() bool {
	return t == VoucherTypeCashReceived
}

// Voucher is an immutable accounting transaction posted against an account.
// Each voucher creation produces exactly one ledger entry and one account
// balance mutation; vouchers are never updated or reversed in place.
type Voucher struct {
	shared.BaseAggregateRoot
	VoucherNumber   string          `gorm:"uniqueIndex;not null;size:50"`
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:numeric(14,2);not null"` // always positive
	Type            VoucherType     `gorm:"not null;size:30"`
	TransactionDate time.Time       `gorm:"not null;index"`
	Description     string          `gorm:"size:500"`
}

// NewVoucher creates a new voucher
func NewVoucher(
	voucherNumber string,
	accountID uuid.UUID,
	voucherType VoucherType,
	amount decimal.Decimal,
	transactionDate time.Time,
	description string,
) (*Voucher, error) {
	voucherNumber = strings.TrimSpace(voucherNumber)
	if voucherNumber == "" {
		return nil, shared.NewDomainError("INVALID_VOUCHER_NUMBER", "Voucher number cannot be empty")
	}
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !voucherType.IsValid() {
		return nil, shared.NewDomainError("INVALID_VOUCHER_TYPE", "Invalid voucher type")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Voucher amount must be positive")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	return &Voucher{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		VoucherNumber:     voucherNumber,
		AccountID:         accountID,
		Amount:            amount,
		Type:              voucherType,
		TransactionDate:   transactionDate,
		Description:       description,
	}, nil
}

// SignedAmount returns the amount with the sign the voucher applies to the
// account balance: positive for cash received, negative for expenses.
func (v *Voucher) SignedAmount() decimal.Decimal {
	if v.Type.LedgerDirection() == DirectionDebit {
		return v.Amount.Neg()
	}
	return v.Amount
}

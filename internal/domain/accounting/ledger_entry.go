package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryDirection represents the side of a ledger entry
type EntryDirection string

const (
	DirectionDebit  EntryDirection = "DEBIT"
	DirectionCredit EntryDirection = "CREDIT"
)

// IsValid checks if the direction is valid
func (d EntryDirection) IsValid() bool {
	return d == DirectionDebit || d == DirectionCredit
}

// String returns the string representation of EntryDirection
func (d EntryDirection) String() string {
	return string(d)
}

// LedgerEntry is an immutable debit/credit record carrying the account balance
// as it stood immediately after the entry was applied. Entries are append-only;
// ordering by TransactionDate then CreatedAt defines the canonical replay order.
type LedgerEntry struct {
	shared.BaseEntity
	AccountID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Debit           decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Credit          decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Balance         decimal.Decimal `gorm:"type:numeric(14,2);not null"` // post-mutation snapshot
	Description     string          `gorm:"size:500"`
	TransactionDate time.Time       `gorm:"not null;index"`
}

// NewLedgerEntry creates an immutable ledger entry. Exactly one of debit/credit
// is set, determined by direction; balanceAfter is the account balance at the
// instant of append and must come from the same serialized mutation.
func NewLedgerEntry(
	accountID uuid.UUID,
	direction EntryDirection,
	amount decimal.Decimal,
	balanceAfter decimal.Decimal,
	description string,
	transactionDate time.Time,
) (*LedgerEntry, error) {
	if accountID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ACCOUNT", "Account ID cannot be empty")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Entry direction must be debit or credit")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Entry amount must be positive")
	}
	if transactionDate.IsZero() {
		transactionDate = time.Now()
	}

	entry := &LedgerEntry{
		BaseEntity:      shared.NewBaseEntity(),
		AccountID:       accountID,
		Debit:           decimal.Zero,
		Credit:          decimal.Zero,
		Balance:         balanceAfter,
		Description:     description,
		TransactionDate: transactionDate,
	}

	if direction == DirectionDebit {
		entry.Debit = amount
	} else {
		entry.Credit = amount
	}

	return entry, nil
}

// SignedAmount returns credit minus debit for this entry
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	return e.Credit.Sub(e.Debit)
}

// Direction returns the side of the entry
func (e *LedgerEntry) Direction() EntryDirection {
	if e.Debit.IsPositive() {
		return DirectionDebit
	}
	return DirectionCredit
}

// Amount returns the non-zero side of the entry
func (e *LedgerEntry) Amount() decimal.Decimal {
	if e.Debit.IsPositive() {
		return e.Debit
	}
	return e.Credit
}

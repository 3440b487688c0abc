package accounting

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountType represents the kind of balance an account carries
type AccountType string

const (
	AccountTypeReceivable AccountType = "RECEIVABLE" // backs a customer balance
	AccountTypePayable    AccountType = "PAYABLE"    // backs a supplier balance
	AccountTypeGeneral    AccountType = "GENERAL"    // general ledger account
)

// IsValid checks if the type is a valid AccountType
func (t AccountType) IsValid() bool {
	switch t {
	case AccountTypeReceivable, AccountTypePayable, AccountTypeGeneral:
		return true
	}
	return false
}

// String returns the string representation of AccountType
func (t AccountType) String() string {
	return string(t)
}

// Account is a balance-bearing aggregate root. Its Balance must always equal
// the sum of credits minus debits of all ledger entries posted against it;
// every mutation goes through Credit/Debit paired with an appended entry.
type Account struct {
	shared.BaseAggregateRoot
	Name       string          `gorm:"not null;size:200"`
	Type       AccountType     `gorm:"not null;size:20;index"`
	Balance    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	CustomerID *uuid.UUID      `gorm:"type:uuid;index"`
	SupplierID *uuid.UUID      `gorm:"type:uuid;index"`
}

// NewAccount creates a new account with a zero balance
func NewAccount(name string, accountType AccountType) (*Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Account name cannot be empty")
	}
	if !accountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Invalid account type")
	}

	return &Account{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Type:              accountType,
		Balance:           decimal.Zero,
	}, nil
}

// LinkCustomer attaches the account to a customer (receivable accounts)
func (a *Account) LinkCustomer(customerID uuid.UUID) error {
	if a.Type != AccountTypeReceivable {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Only receivable accounts can be linked to a customer")
	}
	if customerID == uuid.Nil {
		return shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	a.CustomerID = &customerID
	a.UpdatedAt = time.Now()
	return nil
}

// LinkSupplier attaches the account to a supplier (payable accounts)
func (a *Account) LinkSupplier(supplierID uuid.UUID) error {
	if a.Type != AccountTypePayable {
		return shared.NewDomainError("INVALID_ACCOUNT_TYPE", "Only payable accounts can be linked to a supplier")
	}
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	a.SupplierID = &supplierID
	a.UpdatedAt = time.Now()
	return nil
}

// Credit increases the balance by amount. Amount must be positive.
func (a *Account) Credit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Credit amount must be positive")
	}
	a.Balance = a.Balance.Add(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Debit decreases the balance by amount. Amount must be positive.
// The balance may go negative; sign carries meaning per account type.
func (a *Account) Debit(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Debit amount must be positive")
	}
	a.Balance = a.Balance.Sub(amount)
	a.UpdatedAt = time.Now()
	return nil
}

// Apply mutates the balance in the given direction and returns the resulting balance
func (a *Account) Apply(direction EntryDirection, amount decimal.Decimal) (decimal.Decimal, error) {
	switch direction {
	case DirectionCredit:
		if err := a.Credit(amount); err != nil {
			return decimal.Zero, err
		}
	case DirectionDebit:
		if err := a.Debit(amount); err != nil {
			return decimal.Zero, err
		}
	default:
		return decimal.Zero, shared.NewDomainError("INVALID_DIRECTION", "Entry direction must be debit or credit")
	}
	return a.Balance, nil
}

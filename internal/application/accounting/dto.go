package accounting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/accounting"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to create an account
type CreateAccountRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Type       string     `json:"type" binding:"required,oneof=RECEIVABLE PAYABLE GENERAL"`
	CustomerID *uuid.UUID `json:"customer_id"`
	SupplierID *uuid.UUID `json:"supplier_id"`
}

// PostEntryRequest represents a request to post a ledger entry directly
type PostEntryRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	Direction       string          `json:"direction" binding:"required,oneof=DEBIT CREDIT"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"max=500"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

// CreateVoucherRequest represents a request to record a voucher
type CreateVoucherRequest struct {
	AccountID       uuid.UUID       `json:"account_id" binding:"required"`
	Type            string          `json:"type" binding:"required,oneof=CASH_RECEIVED EXPENSE_VOUCHER"`
	Amount          decimal.Decimal `json:"amount" binding:"required"`
	Description     string          `json:"description" binding:"max=500"`
	TransactionDate *time.Time      `json:"transaction_date"`
}

// AccountListFilter represents filter options for the account list
type AccountListFilter struct {
	Search   string `form:"search"`
	Type     string `form:"type" binding:"omitempty,oneof=RECEIVABLE PAYABLE GENERAL"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Balance    string     `json:"balance"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
	Version    int        `json:"version"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID              uuid.UUID `json:"id"`
	AccountID       uuid.UUID `json:"account_id"`
	Debit           string    `json:"debit"`
	Credit          string    `json:"credit"`
	Balance         string    `json:"balance"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// VoucherResponse represents a voucher in API responses
type VoucherResponse struct {
	ID              uuid.UUID `json:"id"`
	VoucherNumber   string    `json:"voucher_number"`
	AccountID       uuid.UUID `json:"account_id"`
	Amount          string    `json:"amount"`
	Type            string    `json:"type"`
	Description     string    `json:"description"`
	TransactionDate time.Time `json:"transaction_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// ToAccountResponse converts an account to its response representation
func ToAccountResponse(a *accounting.Account) AccountResponse {
	return AccountResponse{
		ID:         a.ID,
		Name:       a.Name,
		Type:       a.Type.String(),
		Balance:    a.Balance.StringFixed(2),
		CustomerID: a.CustomerID,
		SupplierID: a.SupplierID,
		Version:    a.Version,
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

// ToLedgerEntryResponse converts a ledger entry to its response representation
func ToLedgerEntryResponse(e *accounting.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:              e.ID,
		AccountID:       e.AccountID,
		Debit:           e.Debit.StringFixed(2),
		Credit:          e.Credit.StringFixed(2),
		Balance:         e.Balance.StringFixed(2),
		Description:     e.Description,
		TransactionDate: e.TransactionDate,
		CreatedAt:       e.CreatedAt,
	}
}

// ToVoucherResponse converts a voucher to its response representation
func ToVoucherResponse(v *accounting.Voucher) VoucherResponse {
	return VoucherResponse{
		ID:              v.ID,
		VoucherNumber:   v.VoucherNumber,
		AccountID:       v.AccountID,
		Amount:          v.Amount.StringFixed(2),
		Type:            v.Type.String(),
		Description:     v.Description,
		TransactionDate: v.TransactionDate,
		CreatedAt:       v.CreatedAt,
	}
}

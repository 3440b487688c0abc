package report

import (
	"time"

	"github.com/google/uuid"
)

// Row types appearing in ledger reports
const (
	RowTypeSale     = "SALE"
	RowTypePurchase = "PURCHASE"
	RowTypeVoucher  = "VOUCHER"
	RowTypeEntry    = "ENTRY"
)

// LedgerRow is a single dated line of a ledger report. Debit increases the
// amount owed by the counterparty, credit reduces it, and Balance is the
// running balance after this row.
type LedgerRow struct {
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Reference   string    `json:"reference,omitempty"`
	Description string    `json:"description,omitempty"`
	Debit       string    `json:"debit"`
	Credit      string    `json:"credit"`
	Balance     string    `json:"balance"`
}

// LedgerReport is a date-ranged statement with an opening balance carried
// from everything before the range
type LedgerReport struct {
	PartyID         uuid.UUID   `json:"party_id"`
	From            time.Time   `json:"from"`
	To              time.Time   `json:"to"`
	PreviousBalance string      `json:"previous_balance"`
	Rows            []LedgerRow `json:"rows"`
	TotalDebit      string      `json:"total_debit"`
	TotalCredit     string      `json:"total_credit"`
	ClosingBalance  string      `json:"closing_balance"`
}

package trade

import (
	"time"

	"github.com/shopspring/decimal"
)

func timeOrNow(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}

func decimalOrZero(d *decimal.Decimal) decimal.Decimal {
	if d != nil {
		return *d
	}
	return decimal.Zero
}

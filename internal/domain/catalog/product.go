package catalog

import (
	"strings"
	"time"

	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product aggregate root.
// StockQuantity is the single on-hand counter mutated by sales, purchases and
// return restocking; it must stay consistent with the trade documents that moved it.
type Product struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"not null;size:200"`
	Barcode       *string         `gorm:"uniqueIndex;size:100"` // sparse unique: NULL when absent
	Price         decimal.Decimal `gorm:"type:numeric(14,2);not null"` // selling price
	Cost          decimal.Decimal `gorm:"type:numeric(14,2);not null"` // purchase cost
	StockQuantity decimal.Decimal `gorm:"type:numeric(14,3);not null"`
}

// NewProduct creates a new product
func NewProduct(name string, price, cost decimal.Decimal) (*Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Price:             price,
		Cost:              cost,
		StockQuantity:     decimal.Zero,
	}, nil
}

// SetBarcode assigns a barcode to the product
func (p *Product) SetBarcode(barcode string) error {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot be empty")
	}
	if len(barcode) > 100 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 100 characters")
	}
	p.Barcode = &barcode
	p.UpdatedAt = time.Now()
	return nil
}

// ClearBarcode removes the barcode from the product
func (p *Product) ClearBarcode() {
	p.Barcode = nil
	p.UpdatedAt = time.Now()
}

// ChangePrice updates the selling price
func (p *Product) ChangePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	return nil
}

// ChangeCost updates the purchase cost
func (p *Product) ChangeCost(cost decimal.Decimal) error {
	if cost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Product cost cannot be negative")
	}
	p.Cost = cost
	p.UpdatedAt = time.Now()
	return nil
}

// AdjustStock applies a signed stock delta.
// A negative delta that would drive stock below zero is rejected with
// INSUFFICIENT_STOCK unless allowNegative is set. Each call applies once;
// exactly-once invocation per logical event is the caller's responsibility.
func (p *Product) AdjustStock(delta decimal.Decimal, allowNegative bool) error {
	if delta.IsZero() {
		return shared.NewDomainError("INVALID_QUANTITY", "Stock adjustment delta cannot be zero")
	}

	next := p.StockQuantity.Add(delta)
	if next.IsNegative() && !allowNegative {
		return shared.ErrInsufficientStock
	}

	p.StockQuantity = next
	p.UpdatedAt = time.Now()
	return nil
}

// IsInStock returns true if there is stock available
func (p *Product) IsInStock() bool {
	return p.StockQuantity.IsPositive()
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// SaleItem represents a line item in a sale
type SaleItem struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SaleID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName   string          `gorm:"not null;size:200"`
	Quantity      decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	PriceAtSale   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(14,2);not null"` // cost snapshot at sale time
	Total         decimal.Decimal `gorm:"type:numeric(14,2);not null"` // Quantity * PriceAtSale
	Profit        decimal.Decimal `gorm:"type:numeric(14,2);not null"` // (PriceAtSale - PurchasePrice) * Quantity
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewSaleItem creates a new sale line item. Total and profit are derived from
// the inputs; client-supplied totals are never trusted.
func NewSaleItem(
	saleID, productID uuid.UUID,
	productName string,
	quantity, priceAtSale, purchasePrice decimal.Decimal,
) (*SaleItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if priceAtSale.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}

	now := time.Now()
	return &SaleItem{
		ID:            uuid.New(),
		SaleID:        saleID,
		ProductID:     productID,
		ProductName:   productName,
		Quantity:      quantity,
		PriceAtSale:   priceAtSale,
		PurchasePrice: purchasePrice,
		Total:         quantity.Mul(priceAtSale),
		Profit:        priceAtSale.Sub(purchasePrice).Mul(quantity),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// UpdateQuantity updates the quantity and recalculates total and profit
func (i *SaleItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.recalculate()
	return nil
}

// UpdatePrice updates the sale price and recalculates total and profit
func (i *SaleItem) UpdatePrice(priceAtSale decimal.Decimal) error {
	if priceAtSale.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Sale price cannot be negative")
	}
	i.PriceAtSale = priceAtSale
	i.recalculate()
	return nil
}

func (i *SaleItem) recalculate() {
	i.Total = i.Quantity.Mul(i.PriceAtSale)
	i.Profit = i.PriceAtSale.Sub(i.PurchasePrice).Mul(i.Quantity)
	i.UpdatedAt = time.Now()
}

// Sale represents a sale invoice aggregate root. Creating a sale decrements
// product stock by each item's quantity; deleting it increments stock back.
type Sale struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"uniqueIndex;not null;size:50"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items         []SaleItem      `gorm:"foreignKey:SaleID"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	TotalProfit   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	SaleDate      time.Time       `gorm:"not null;index"`
}

// NewSale creates a new sale
func NewSale(invoiceNumber string, customerID uuid.UUID, saleDate time.Time) (*Sale, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if saleDate.IsZero() {
		saleDate = time.Now()
	}

	return &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		CustomerID:        customerID,
		Items:             make([]SaleItem, 0),
		TotalAmount:       decimal.Zero,
		TotalProfit:       decimal.Zero,
		SaleDate:          saleDate,
	}, nil
}

// AddItem adds a new line item to the sale
func (s *Sale) AddItem(productID uuid.UUID, productName string, quantity, priceAtSale, purchasePrice decimal.Decimal) (*SaleItem, error) {
	for _, item := range s.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in sale, update quantity instead")
		}
	}

	item, err := NewSaleItem(s.ID, productID, productName, quantity, priceAtSale, purchasePrice)
	if err != nil {
		return nil, err
	}

	s.Items = append(s.Items, *item)
	s.RecalculateTotals()
	s.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
func (s *Sale) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			if err := s.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			s.RecalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// UpdateItemPrice updates the sale price of an existing line item
func (s *Sale) UpdateItemPrice(itemID uuid.UUID, priceAtSale decimal.Decimal) error {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			if err := s.Items[idx].UpdatePrice(priceAtSale); err != nil {
				return err
			}
			s.RecalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// RemoveItem removes a line item from the sale
func (s *Sale) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range s.Items {
		if item.ID == itemID {
			s.Items = append(s.Items[:idx], s.Items[idx+1:]...)
			s.RecalculateTotals()
			s.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Sale item not found")
}

// RecalculateTotals recomputes TotalAmount and TotalProfit from the items
func (s *Sale) RecalculateTotals() {
	totalAmount := decimal.Zero
	totalProfit := decimal.Zero
	for _, item := range s.Items {
		totalAmount = totalAmount.Add(item.Total)
		totalProfit = totalProfit.Add(item.Profit)
	}
	s.TotalAmount = totalAmount
	s.TotalProfit = totalProfit
}

// GetItem returns a line item by its ID
func (s *Sale) GetItem(itemID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ID == itemID {
			return &s.Items[idx]
		}
	}
	return nil
}

// GetItemByProduct returns the line item for a product
func (s *Sale) GetItemByProduct(productID uuid.UUID) *SaleItem {
	for idx := range s.Items {
		if s.Items[idx].ProductID == productID {
			return &s.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (s *Sale) ItemCount() int {
	return len(s.Items)
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseItem represents a line item in a purchase
type PurchaseItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null;size:200"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitCost    decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Total       decimal.Decimal `gorm:"type:numeric(14,2);not null"` // Quantity * UnitCost
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPurchaseItem creates a new purchase line item
func NewPurchaseItem(
	purchaseID, productID uuid.UUID,
	productName string,
	quantity, unitCost decimal.Decimal,
) (*PurchaseItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}

	now := time.Now()
	return &PurchaseItem{
		ID:          uuid.New(),
		PurchaseID:  purchaseID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitCost:    unitCost,
		Total:       quantity.Mul(unitCost),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateQuantity updates the quantity and recalculates the total
func (i *PurchaseItem) UpdateQuantity(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.Total = i.Quantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()
	return nil
}

// UpdateUnitCost updates the unit cost and recalculates the total
func (i *PurchaseItem) UpdateUnitCost(unitCost decimal.Decimal) error {
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit cost cannot be negative")
	}
	i.UnitCost = unitCost
	i.Total = i.Quantity.Mul(i.UnitCost)
	i.UpdatedAt = time.Now()
	return nil
}

// Purchase represents a purchase invoice aggregate root. Creating a purchase
// increments product stock by each item's quantity; deleting it decrements
// stock back.
type Purchase struct {
	shared.BaseAggregateRoot
	InvoiceNumber string          `gorm:"uniqueIndex;not null;size:50"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Items         []PurchaseItem  `gorm:"foreignKey:PurchaseID"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	PurchaseDate  time.Time       `gorm:"not null;index"`
}

// NewPurchase creates a new purchase
func NewPurchase(invoiceNumber string, supplierID uuid.UUID, purchaseDate time.Time) (*Purchase, error) {
	if invoiceNumber == "" {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot be empty")
	}
	if len(invoiceNumber) > 50 {
		return nil, shared.NewDomainError("INVALID_INVOICE_NUMBER", "Invoice number cannot exceed 50 characters")
	}
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier ID cannot be empty")
	}
	if purchaseDate.IsZero() {
		purchaseDate = time.Now()
	}

	return &Purchase{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InvoiceNumber:     invoiceNumber,
		SupplierID:        supplierID,
		Items:             make([]PurchaseItem, 0),
		TotalAmount:       decimal.Zero,
		PurchaseDate:      purchaseDate,
	}, nil
}

// AddItem adds a new line item to the purchase
func (p *Purchase) AddItem(productID uuid.UUID, productName string, quantity, unitCost decimal.Decimal) (*PurchaseItem, error) {
	for _, item := range p.Items {
		if item.ProductID == productID {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product already exists in purchase, update quantity instead")
		}
	}

	item, err := NewPurchaseItem(p.ID, productID, productName, quantity, unitCost)
	if err != nil {
		return nil, err
	}

	p.Items = append(p.Items, *item)
	p.RecalculateTotals()
	p.UpdatedAt = time.Now()

	return item, nil
}

// UpdateItemQuantity updates the quantity of an existing line item
func (p *Purchase) UpdateItemQuantity(itemID uuid.UUID, quantity decimal.Decimal) error {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			if err := p.Items[idx].UpdateQuantity(quantity); err != nil {
				return err
			}
			p.RecalculateTotals()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// UpdateItemUnitCost updates the unit cost of an existing line item
func (p *Purchase) UpdateItemUnitCost(itemID uuid.UUID, unitCost decimal.Decimal) error {
	for idx := range p.Items {
		if p.Items[idx].ID == itemID {
			if err := p.Items[idx].UpdateUnitCost(unitCost); err != nil {
				return err
			}
			p.RecalculateTotals()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// RemoveItem removes a line item from the purchase
func (p *Purchase) RemoveItem(itemID uuid.UUID) error {
	for idx, item := range p.Items {
		if item.ID == itemID {
			p.Items = append(p.Items[:idx], p.Items[idx+1:]...)
			p.RecalculateTotals()
			p.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("ITEM_NOT_FOUND", "Purchase item not found")
}

// RecalculateTotals recomputes TotalAmount from the items
func (p *Purchase) RecalculateTotals() {
	total := decimal.Zero
	for _, item := range p.Items {
		total = total.Add(item.Total)
	}
	p.TotalAmount = total
}

// GetItemByProduct returns the line item for a product
func (p *Purchase) GetItemByProduct(productID uuid.UUID) *PurchaseItem {
	for idx := range p.Items {
		if p.Items[idx].ProductID == productID {
			return &p.Items[idx]
		}
	}
	return nil
}

// ItemCount returns the number of line items
func (p *Purchase) ItemCount() int {
	return len(p.Items)
}

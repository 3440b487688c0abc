package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReturnStatus represents the lifecycle state of a sales return
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "PENDING"
	ReturnStatusApproved  ReturnStatus = "APPROVED"
	ReturnStatusRejected  ReturnStatus = "REJECTED"
	ReturnStatusProcessed ReturnStatus = "PROCESSED"
	ReturnStatusCompleted ReturnStatus = "COMPLETED"
)

// IsValid checks if the status is valid
func (s ReturnStatus) IsValid() bool {
	switch s {
	case ReturnStatusPending, ReturnStatusApproved, ReturnStatusRejected,
		ReturnStatusProcessed, ReturnStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo checks if transitioning to the target status is allowed
func (s ReturnStatus) CanTransitionTo(target ReturnStatus) bool {
	transitions := map[ReturnStatus][]ReturnStatus{
		ReturnStatusPending:   {ReturnStatusApproved, ReturnStatusRejected},
		ReturnStatusApproved:  {ReturnStatusProcessed},
		ReturnStatusProcessed: {ReturnStatusCompleted},
		ReturnStatusRejected:  {},
		ReturnStatusCompleted: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}
	for _, t := range allowed {
		if t == target {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnStatusRejected || s == ReturnStatusCompleted
}

// CountsTowardReturned reports whether a return in this status consumes
// returnable quantity on its sale. Pending returns hold their quantity so
// that concurrent requests cannot oversubscribe a line.
func (s ReturnStatus) CountsTowardReturned() bool {
	return s != ReturnStatusRejected
}

// ReturnItem represents a line item in a sales return
type ReturnItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductName string          `gorm:"not null;size:200"`
	Quantity    decimal.Decimal `gorm:"type:numeric(14,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(14,2);not null"` // price at original sale
	Total       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reason      string          `gorm:"size:500"`
	Restockable bool            `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewReturnItem creates a new return line item
func NewReturnItem(
	returnID, saleItemID, productID uuid.UUID,
	productName string,
	quantity, unitPrice decimal.Decimal,
	reason string,
	restockable bool,
) (*ReturnItem, error) {
	if saleItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE_ITEM", "Sale item ID cannot be empty")
	}
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if len(reason) > 500 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	now := time.Now()
	return &ReturnItem{
		ID:          uuid.New(),
		ReturnID:    returnID,
		SaleItemID:  saleItemID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Total:       quantity.Mul(unitPrice),
		Reason:      reason,
		Restockable: restockable,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Return represents a sales return aggregate root.
//
// Lifecycle: PENDING -> APPROVED -> PROCESSED -> COMPLETED, with
// PENDING -> REJECTED as the only other path. Rejected and completed
// returns are immutable.
type Return struct {
	shared.BaseAggregateRoot
	ReturnNumber      string          `gorm:"uniqueIndex;not null;size:50"`
	SaleID            uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status            ReturnStatus    `gorm:"not null;size:20;index;default:'PENDING'"`
	Items             []ReturnItem    `gorm:"foreignKey:ReturnID"`
	TotalAmount       decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	RestockingFee     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ProcessingFee     decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	RefundAmount      decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	Reason            string          `gorm:"size:500"`
	RejectionReason   string          `gorm:"size:500"`
	InventoryAdjusted bool            `gorm:"not null;default:false"`
	RequestedBy       string          `gorm:"size:100"`
	ApprovedBy        string          `gorm:"size:100"`
	ProcessedBy       string          `gorm:"size:100"`
	ApprovedAt        *time.Time
	ProcessedAt       *time.Time
	CompletedAt       *time.Time
}

// NewReturn creates a new sales return in PENDING status
func NewReturn(returnNumber string, saleID, customerID uuid.UUID, reason, requestedBy string) (*Return, error) {
	if returnNumber == "" {
		return nil, shared.NewDomainError("INVALID_RETURN_NUMBER", "Return number cannot be empty")
	}
	if saleID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SALE", "Sale ID cannot be empty")
	}
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CUSTOMER", "Customer ID cannot be empty")
	}
	if len(reason) > 500 {
		return nil, shared.NewDomainError("INVALID_REASON", "Reason cannot exceed 500 characters")
	}

	return &Return{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReturnNumber:      returnNumber,
		SaleID:            saleID,
		CustomerID:        customerID,
		Status:            ReturnStatusPending,
		Items:             make([]ReturnItem, 0),
		TotalAmount:       decimal.Zero,
		RestockingFee:     decimal.Zero,
		ProcessingFee:     decimal.Zero,
		RefundAmount:      decimal.Zero,
		Reason:            reason,
		RequestedBy:       requestedBy,
	}, nil
}

// AddItem adds a return line item. Only pending returns can be modified.
func (r *Return) AddItem(saleItemID, productID uuid.UUID, productName string, quantity, unitPrice decimal.Decimal, reason string, restockable bool) (*ReturnItem, error) {
	if r.Status != ReturnStatusPending {
		return nil, shared.NewDomainError("INVALID_STATUS", "Can only add items to pending returns")
	}
	for _, item := range r.Items {
		if item.SaleItemID == saleItemID {
			return nil, shared.NewDomainError("DUPLICATE_ITEM", "Sale item already included in this return")
		}
	}

	item, err := NewReturnItem(r.ID, saleItemID, productID, productName, quantity, unitPrice, reason, restockable)
	if err != nil {
		return nil, err
	}

	r.Items = append(r.Items, *item)
	r.recalculateAmounts()
	r.UpdatedAt = time.Now()

	return item, nil
}

// SetFees sets the restocking and processing fees and recalculates the
// refund amount. Fees can only be changed while financials are modifiable.
func (r *Return) SetFees(restockingFee, processingFee decimal.Decimal) error {
	if !r.CanModifyFinancials() {
		return shared.NewDomainError("INVALID_STATUS", "Fees can only be changed before processing")
	}
	if restockingFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Restocking fee cannot be negative")
	}
	if processingFee.IsNegative() {
		return shared.NewDomainError("INVALID_FEE", "Processing fee cannot be negative")
	}

	r.RestockingFee = restockingFee
	r.ProcessingFee = processingFee
	r.recalculateAmounts()
	r.UpdatedAt = time.Now()
	return nil
}

// recalculateAmounts recomputes TotalAmount from the items and derives the
// refund amount, floored at zero when fees exceed the total.
func (r *Return) recalculateAmounts() {
	total := decimal.Zero
	for _, item := range r.Items {
		total = total.Add(item.Total)
	}
	r.TotalAmount = total

	refund := total.Sub(r.RestockingFee).Sub(r.ProcessingFee)
	if refund.IsNegative() {
		refund = decimal.Zero
	}
	r.RefundAmount = refund
}

// Approve transitions the return from PENDING to APPROVED
func (r *Return) Approve(approvedBy string) error {
	if !r.Status.CanTransitionTo(ReturnStatusApproved) {
		return shared.NewDomainError("INVALID_TRANSITION", "Return cannot be approved from status "+string(r.Status))
	}
	if len(r.Items) == 0 {
		return shared.NewDomainError("EMPTY_RETURN", "Cannot approve a return with no items")
	}

	now := time.Now()
	r.Status = ReturnStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovedAt = &now
	r.UpdatedAt = now
	return nil
}

// Reject transitions the return from PENDING to REJECTED
func (r *Return) Reject(rejectedBy, reason string) error {
	if !r.Status.CanTransitionTo(ReturnStatusRejected) {
		return shared.NewDomainError("INVALID_TRANSITION", "Return cannot be rejected from status "+string(r.Status))
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason is required")
	}
	if len(reason) > 500 {
		return shared.NewDomainError("INVALID_REASON", "Rejection reason cannot exceed 500 characters")
	}

	r.Status = ReturnStatusRejected
	r.RejectionReason = reason
	r.ApprovedBy = rejectedBy
	r.UpdatedAt = time.Now()
	return nil
}

// MarkProcessed transitions the return from APPROVED to PROCESSED
func (r *Return) MarkProcessed(processedBy string) error {
	if !r.Status.CanTransitionTo(ReturnStatusProcessed) {
		return shared.NewDomainError("INVALID_TRANSITION", "Return cannot be processed from status "+string(r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusProcessed
	r.ProcessedBy = processedBy
	r.ProcessedAt = &now
	r.UpdatedAt = now
	return nil
}

// MarkInventoryAdjusted records that restockable items have been put back
// into stock. It can only happen once per return.
func (r *Return) MarkInventoryAdjusted() error {
	if r.InventoryAdjusted {
		return shared.NewDomainError("ALREADY_ADJUSTED", "Inventory has already been adjusted for this return")
	}
	r.InventoryAdjusted = true
	r.UpdatedAt = time.Now()
	return nil
}

// Complete transitions the return from PROCESSED to COMPLETED
func (r *Return) Complete() error {
	if !r.Status.CanTransitionTo(ReturnStatusCompleted) {
		return shared.NewDomainError("INVALID_TRANSITION", "Return cannot be completed from status "+string(r.Status))
	}

	now := time.Now()
	r.Status = ReturnStatusCompleted
	r.CompletedAt = &now
	r.UpdatedAt = now
	return nil
}

// CanModifyFinancials reports whether fees and items may still change
func (r *Return) CanModifyFinancials() bool {
	return r.Status == ReturnStatusPending || r.Status == ReturnStatusApproved
}

// CanDelete reports whether the return may be deleted
func (r *Return) CanDelete() bool {
	return r.Status == ReturnStatusPending || r.Status == ReturnStatusRejected
}

// RestockableItems returns the items flagged for restocking
func (r *Return) RestockableItems() []ReturnItem {
	items := make([]ReturnItem, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Restockable {
			items = append(items, item)
		}
	}
	return items
}

package trade

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// CreateSaleRequest represents a request to create a sale
type CreateSaleRequest struct {
	InvoiceNumber string                `json:"invoice_number" binding:"required,min=1,max=50"`
	CustomerID    uuid.UUID             `json:"customer_id" binding:"required"`
	SaleDate      *time.Time            `json:"sale_date"`
	Items         []CreateSaleItemInput `json:"items" binding:"required,min=1"`
}

// CreateSaleItemInput represents an item in the create sale request
type CreateSaleItemInput struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	ProductName string           `json:"product_name" binding:"max=200"`
	Quantity    decimal.Decimal  `json:"quantity" binding:"required"`
	UnitPrice   *decimal.Decimal `json:"unit_price"` // defaults to the product's current price
}

// UpdateSaleItemRequest represents a request to update a sale line item
type UpdateSaleItemRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Search     string     `form:"search"`
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// SaleItemResponse represents a sale line item in API responses
type SaleItemResponse struct {
	ID            uuid.UUID `json:"id"`
	ProductID     uuid.UUID `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Quantity      string    `json:"quantity"`
	PriceAtSale   string    `json:"price_at_sale"`
	PurchasePrice string    `json:"purchase_price"`
	Total         string    `json:"total"`
	Profit        string    `json:"profit"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID            uuid.UUID          `json:"id"`
	InvoiceNumber string             `json:"invoice_number"`
	CustomerID    uuid.UUID          `json:"customer_id"`
	Items         []SaleItemResponse `json:"items"`
	TotalAmount   string             `json:"total_amount"`
	TotalProfit   string             `json:"total_profit"`
	SaleDate      time.Time          `json:"sale_date"`
	Version       int                `json:"version"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// ToSaleResponse converts a sale to its response representation
func ToSaleResponse(s *trade.Sale) SaleResponse {
	items := make([]SaleItemResponse, 0, len(s.Items))
	for _, item := range s.Items {
		items = append(items, SaleItemResponse{
			ID:            item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity.String(),
			PriceAtSale:   item.PriceAtSale.StringFixed(2),
			PurchasePrice: item.PurchasePrice.StringFixed(2),
			Total:         item.Total.StringFixed(2),
			Profit:        item.Profit.StringFixed(2),
		})
	}
	return SaleResponse{
		ID:            s.ID,
		InvoiceNumber: s.InvoiceNumber,
		CustomerID:    s.CustomerID,
		Items:         items,
		TotalAmount:   s.TotalAmount.StringFixed(2),
		TotalProfit:   s.TotalProfit.StringFixed(2),
		SaleDate:      s.SaleDate,
		Version:       s.Version,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ==================== Purchase DTOs ====================

// CreatePurchaseRequest represents a request to create a purchase
type CreatePurchaseRequest struct {
	InvoiceNumber string                    `json:"invoice_number" binding:"required,min=1,max=50"`
	SupplierID    uuid.UUID                 `json:"supplier_id" binding:"required"`
	PurchaseDate  *time.Time                `json:"purchase_date"`
	Items         []CreatePurchaseItemInput `json:"items" binding:"required,min=1"`
}

// CreatePurchaseItemInput represents an item in the create purchase request
type CreatePurchaseItemInput struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	UnitCost  decimal.Decimal `json:"unit_cost" binding:"required"`
}

// UpdatePurchaseItemRequest represents a request to update a purchase line item
type UpdatePurchaseItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
	UnitCost *decimal.Decimal `json:"unit_cost"`
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	Search     string     `form:"search"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Page       int        `form:"page" binding:"min=0"`
	PageSize   int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PurchaseItemResponse represents a purchase line item in API responses
type PurchaseItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    string    `json:"quantity"`
	UnitCost    string    `json:"unit_cost"`
	Total       string    `json:"total"`
}

// PurchaseResponse represents a purchase in API responses
type PurchaseResponse struct {
	ID            uuid.UUID              `json:"id"`
	InvoiceNumber string                 `json:"invoice_number"`
	SupplierID    uuid.UUID              `json:"supplier_id"`
	Items         []PurchaseItemResponse `json:"items"`
	TotalAmount   string                 `json:"total_amount"`
	PurchaseDate  time.Time              `json:"purchase_date"`
	Version       int                    `json:"version"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// ToPurchaseResponse converts a purchase to its response representation
func ToPurchaseResponse(p *trade.Purchase) PurchaseResponse {
	items := make([]PurchaseItemResponse, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, PurchaseItemResponse{
			ID:          item.ID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.String(),
			UnitCost:    item.UnitCost.StringFixed(2),
			Total:       item.Total.StringFixed(2),
		})
	}
	return PurchaseResponse{
		ID:            p.ID,
		InvoiceNumber: p.InvoiceNumber,
		SupplierID:    p.SupplierID,
		Items:         items,
		TotalAmount:   p.TotalAmount.StringFixed(2),
		PurchaseDate:  p.PurchaseDate,
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ==================== Return DTOs ====================

// CreateReturnRequest represents a request to create a sales return
type CreateReturnRequest struct {
	SaleID        uuid.UUID               `json:"sale_id" binding:"required"`
	Items         []CreateReturnItemInput `json:"items" binding:"required,min=1"`
	Reason        string                  `json:"reason" binding:"max=500"`
	RestockingFee decimal.Decimal         `json:"restocking_fee"`
	ProcessingFee decimal.Decimal         `json:"processing_fee"`
	RequestedBy   string                  `json:"requested_by" binding:"max=100"`
}

// CreateReturnItemInput represents an item in the create return request
type CreateReturnItemInput struct {
	SaleItemID  uuid.UUID       `json:"sale_item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Reason      string          `json:"reason" binding:"max=500"`
	Restockable *bool           `json:"restockable"` // defaults to true
}

// UpdateReturnFeesRequest represents a request to change return fees
type UpdateReturnFeesRequest struct {
	RestockingFee decimal.Decimal `json:"restocking_fee"`
	ProcessingFee decimal.Decimal `json:"processing_fee"`
}

// RejectReturnRequest represents a request to reject a return
type RejectReturnRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// ProcessReturnRequest represents options for processing a return
type ProcessReturnRequest struct {
	AdjustInventory *bool `json:"adjust_inventory"` // defaults to true
}

// ReturnListFilter represents filter options for the return list
type ReturnListFilter struct {
	Search   string     `form:"search"`
	SaleID   *uuid.UUID `form:"sale_id"`
	Status   string     `form:"status" binding:"omitempty,oneof=PENDING APPROVED REJECTED PROCESSED COMPLETED"`
	Page     int        `form:"page" binding:"min=0"`
	PageSize int        `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ReturnItemResponse represents a return line item in API responses
type ReturnItemResponse struct {
	ID          uuid.UUID `json:"id"`
	SaleItemID  uuid.UUID `json:"sale_item_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    string    `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	Total       string    `json:"total"`
	Reason      string    `json:"reason,omitempty"`
	Restockable bool      `json:"restockable"`
}

// ReturnResponse represents a sales return in API responses
type ReturnResponse struct {
	ID                uuid.UUID            `json:"id"`
	ReturnNumber      string               `json:"return_number"`
	SaleID            uuid.UUID            `json:"sale_id"`
	CustomerID        uuid.UUID            `json:"customer_id"`
	Status            string               `json:"status"`
	Items             []ReturnItemResponse `json:"items"`
	TotalAmount       string               `json:"total_amount"`
	RestockingFee     string               `json:"restocking_fee"`
	ProcessingFee     string               `json:"processing_fee"`
	RefundAmount      string               `json:"refund_amount"`
	Reason            string               `json:"reason,omitempty"`
	RejectionReason   string               `json:"rejection_reason,omitempty"`
	InventoryAdjusted bool                 `json:"inventory_adjusted"`
	RequestedBy       string               `json:"requested_by,omitempty"`
	ApprovedBy        string               `json:"approved_by,omitempty"`
	ProcessedBy       string               `json:"processed_by,omitempty"`
	ApprovedAt        *time.Time           `json:"approved_at,omitempty"`
	ProcessedAt       *time.Time           `json:"processed_at,omitempty"`
	CompletedAt       *time.Time           `json:"completed_at,omitempty"`
	Version           int                  `json:"version"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
}

// ReturnStatusSummary reports return counts per lifecycle status
type ReturnStatusSummary struct {
	Pending   int64 `json:"pending"`
	Approved  int64 `json:"approved"`
	Rejected  int64 `json:"rejected"`
	Processed int64 `json:"processed"`
	Completed int64 `json:"completed"`
}

// ToReturnResponse converts a return to its response representation
func ToReturnResponse(r *trade.Return) ReturnResponse {
	items := make([]ReturnItemResponse, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, ReturnItemResponse{
			ID:          item.ID,
			SaleItemID:  item.SaleItemID,
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.UnitPrice.StringFixed(2),
			Total:       item.Total.StringFixed(2),
			Reason:      item.Reason,
			Restockable: item.Restockable,
		})
	}
	return ReturnResponse{
		ID:                r.ID,
		ReturnNumber:      r.ReturnNumber,
		SaleID:            r.SaleID,
		CustomerID:        r.CustomerID,
		Status:            string(r.Status),
		Items:             items,
		TotalAmount:       r.TotalAmount.StringFixed(2),
		RestockingFee:     r.RestockingFee.StringFixed(2),
		ProcessingFee:     r.ProcessingFee.StringFixed(2),
		RefundAmount:      r.RefundAmount.StringFixed(2),
		Reason:            r.Reason,
		RejectionReason:   r.RejectionReason,
		InventoryAdjusted: r.InventoryAdjusted,
		RequestedBy:       r.RequestedBy,
		ApprovedBy:        r.ApprovedBy,
		ProcessedBy:       r.ProcessedBy,
		ApprovedAt:        r.ApprovedAt,
		ProcessedAt:       r.ProcessedAt,
		CompletedAt:       r.CompletedAt,
		Version:           r.Version,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a product
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200"`
	Barcode      *string         `json:"barcode" binding:"omitempty,min=1,max=100"`
	Price        decimal.Decimal `json:"price" binding:"required"`
	Cost         decimal.Decimal `json:"cost" binding:"required"`
	InitialStock decimal.Decimal `json:"initial_stock"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name    *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Barcode *string          `json:"barcode" binding:"omitempty,max=100"`
	Price   *decimal.Decimal `json:"price"`
	Cost    *decimal.Decimal `json:"cost"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"min=0"`
	PageSize int    `form:"page_size" binding:"min=0,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Barcode       *string   `json:"barcode,omitempty"`
	Price         string    `json:"price"`
	Cost          string    `json:"cost"`
	StockQuantity string    `json:"stock_quantity"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToProductResponse converts a product to its response representation
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		Name:          p.Name,
		Barcode:       p.Barcode,
		Price:         p.Price.StringFixed(2),
		Cost:          p.Cost.StringFixed(2),
		StockQuantity: p.StockQuantity.String(),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

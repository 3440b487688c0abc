package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/shopos/backend/internal/application/catalog"
	inventoryapp "github.com/shopos/backend/internal/application/inventory"
	"github.com/shopos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryHandler handles stock adjustment API endpoints
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{
		stockService: stockService,
	}
}

// StockResponse represents a product's current stock level
type StockResponse struct {
	ProductID     uuid.UUID `json:"product_id"`
	StockQuantity string    `json:"stock_quantity"`
}

// Adjust handles POST /inventory/adjustments
func (h *InventoryHandler) Adjust(c *gin.Context) {
	var req inventoryapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	adjustment, err := h.stockService.AdjustStock(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, adjustment)
}

// GetStock handles GET /inventory/products/:id/stock
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	quantity, err := h.stockService.GetStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, StockResponse{
		ProductID:     productID,
		StockQuantity: quantity.String(),
	})
}

// ListLowStock handles GET /inventory/low-stock
func (h *InventoryHandler) ListLowStock(c *gin.Context) {
	threshold := decimal.Zero
	if raw := c.Query("threshold"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "Invalid threshold value")
			return
		}
		threshold = parsed
	}

	filter := shared.DefaultFilter()
	filter.OrderBy = "stock_quantity"
	filter.OrderDir = "asc"

	products, err := h.stockService.ListLowStock(c.Request.Context(), threshold, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	responses := make([]catalogapp.ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, catalogapp.ToProductResponse(&products[i]))
	}

	h.Success(c, responses)
}

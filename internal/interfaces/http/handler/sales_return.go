package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	tradeapp "github.com/shopos/backend/internal/application/trade"
)

// SalesReturnHandler handles sales return API endpoints
type SalesReturnHandler struct {
	BaseHandler
	returnService *tradeapp.ReturnService
}

// NewSalesReturnHandler creates a new SalesReturnHandler
func NewSalesReturnHandler(returnService *tradeapp.ReturnService) *SalesReturnHandler {
	return &SalesReturnHandler{
		returnService: returnService,
	}
}

// Create handles POST /trade/returns
func (h *SalesReturnHandler) Create(c *gin.Context) {
	var req tradeapp.CreateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.RequestedBy == "" {
		req.RequestedBy = getActingUser(c)
	}

	ret, err := h.returnService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, ret)
}

// GetByID handles GET /trade/returns/:id
func (h *SalesReturnHandler) GetByID(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.GetByID(c.Request.Context(), returnID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// GetByReturnNumber handles GET /trade/returns/number/:return_number
func (h *SalesReturnHandler) GetByReturnNumber(c *gin.Context) {
	returnNumber := c.Param("return_number")
	if returnNumber == "" {
		h.BadRequest(c, "Return number is required")
		return
	}

	ret, err := h.returnService.GetByReturnNumber(c.Request.Context(), returnNumber)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// List handles GET /trade/returns
func (h *SalesReturnHandler) List(c *gin.Context) {
	var filter tradeapp.ReturnListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	result, err := h.returnService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// UpdateFees handles PUT /trade/returns/:id/fees
func (h *SalesReturnHandler) UpdateFees(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	var req tradeapp.UpdateReturnFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.UpdateFees(c.Request.Context(), returnID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Approve handles POST /trade/returns/:id/approve
func (h *SalesReturnHandler) Approve(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	ret, err := h.returnService.Approve(c.Request.Context(), returnID, getActingUser(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Reject handles POST /trade/returns/:id/reject
func (h *SalesReturnHandler) Reject(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	var req tradeapp.RejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ret, err := h.returnService.Reject(c.Request.Context(), returnID, getActingUser(c), req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Process handles POST /trade/returns/:id/process
func (h *SalesReturnHandler) Process(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	adjustInventory := true
	var req tradeapp.ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.AdjustInventory != nil {
		adjustInventory = *req.AdjustInventory
	}

	ret, err := h.returnService.Process(c.Request.Context(), returnID, getActingUser(c), adjustInventory)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, ret)
}

// Delete handles DELETE /trade/returns/:id
func (h *SalesReturnHandler) Delete(c *gin.Context) {
	returnID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid return ID format")
		return
	}

	if err := h.returnService.Delete(c.Request.Context(), returnID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// GetStatusSummary handles GET /trade/returns/stats/summary
func (h *SalesReturnHandler) GetStatusSummary(c *gin.Context) {
	summary, err := h.returnService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// GetRemainingReturnable handles GET /trade/sales/:id/returnable
func (h *SalesReturnHandler) GetRemainingReturnable(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	remaining, err := h.returnService.RemainingReturnable(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	response := make(map[string]string, len(remaining))
	for itemID, quantity := range remaining {
		response[itemID.String()] = quantity.String()
	}

	h.Success(c, response)
}

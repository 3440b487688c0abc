package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	reportapp "github.com/shopos/backend/internal/application/report"
)

// ReportHandler handles ledger report API endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.LedgerReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.LedgerReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// LedgerDateRangeRequest carries the date range for ledger statements
type LedgerDateRangeRequest struct {
	StartDate string `form:"start_date" binding:"required"`
	EndDate   string `form:"end_date" binding:"required"`
}

// CustomerLedger handles GET /reports/ledger/customers/:id
func (h *ReportHandler) CustomerLedger(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	from, to, ok := h.bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.ComputeCustomerLedger(c.Request.Context(), customerID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// SupplierLedger handles GET /reports/ledger/suppliers/:id
func (h *ReportHandler) SupplierLedger(c *gin.Context) {
	supplierID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid supplier ID format")
		return
	}

	from, to, ok := h.bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.ComputeSupplierLedger(c.Request.Context(), supplierID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// AccountLedger handles GET /reports/ledger/accounts/:id
func (h *ReportHandler) AccountLedger(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	from, to, ok := h.bindDateRange(c)
	if !ok {
		return
	}

	report, err := h.reportService.ComputeAccountLedger(c.Request.Context(), accountID, from, to)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// bindDateRange parses start_date and end_date query parameters. The end
// date is extended to the end of its day so the range is inclusive.
func (h *ReportHandler) bindDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	var req LedgerDateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return time.Time{}, time.Time{}, false
	}

	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		h.BadRequest(c, "start_date: Invalid date format, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}

	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		h.BadRequest(c, "end_date: Invalid date format, expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to = to.Add(24*time.Hour - time.Nanosecond)

	if to.Before(from) {
		h.BadRequest(c, "end_date must not be before start_date")
		return time.Time{}, time.Time{}, false
	}

	return from, to, true
}

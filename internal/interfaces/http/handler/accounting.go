package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	accountingapp "github.com/shopos/backend/internal/application/accounting"
)

// AccountingHandler handles account and ledger API endpoints
type AccountingHandler struct {
	BaseHandler
	ledgerService *accountingapp.LedgerService
}

// NewAccountingHandler creates a new AccountingHandler
func NewAccountingHandler(ledgerService *accountingapp.LedgerService) *AccountingHandler {
	return &AccountingHandler{
		ledgerService: ledgerService,
	}
}

// CreateAccount handles POST /accounting/accounts
func (h *AccountingHandler) CreateAccount(c *gin.Context) {
	var req accountingapp.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, account)
}

// GetAccount handles GET /accounting/accounts/:id
func (h *AccountingHandler) GetAccount(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, account)
}

// ListAccounts handles GET /accounting/accounts
func (h *AccountingHandler) ListAccounts(c *gin.Context) {
	var filter accountingapp.AccountListFilter
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

	result, err := h.ledgerService.ListAccounts(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// PostEntry handles POST /accounting/entries
func (h *AccountingHandler) PostEntry(c *gin.Context) {
	var req accountingapp.PostEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// ListEntries handles GET /accounting/accounts/:id/entries
func (h *AccountingHandler) ListEntries(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var paging listPaging
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	paging.applyDefaults()

	result, err := h.ledgerService.ListEntries(c.Request.Context(), accountID, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// CreateVoucher handles POST /accounting/vouchers
func (h *AccountingHandler) CreateVoucher(c *gin.Context) {
	var req accountingapp.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	voucher, err := h.ledgerService.CreateVoucher(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, voucher)
}

// GetVoucher handles GET /accounting/vouchers/:id
func (h *AccountingHandler) GetVoucher(c *gin.Context) {
	voucherID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid voucher ID format")
		return
	}

	voucher, err := h.ledgerService.GetVoucher(c.Request.Context(), voucherID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, voucher)
}

// ListVouchers handles GET /accounting/accounts/:id/vouchers
func (h *AccountingHandler) ListVouchers(c *gin.Context) {
	accountID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid account ID format")
		return
	}

	var paging listPaging
	if err := c.ShouldBindQuery(&paging); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	paging.applyDefaults()

	result, err := h.ledgerService.ListVouchers(c.Request.Context(), accountID, paging.Page, paging.PageSize)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// listPaging carries page query parameters for scoped list endpoints
type listPaging struct {
	Page     int `form:"page" binding:"min=0"`
	PageSize int `form:"page_size" binding:"min=0,max=100"`
}

func (p *listPaging) applyDefaults() {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.PageSize <= 0 {
		p.PageSize = 20
	}
}

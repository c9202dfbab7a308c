package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// StockHandler exposes the stock summary, the ledger and the warehouse-in
// endpoint.
type StockHandler struct {
	svc *service.StockService
}

func NewStockHandler(svc *service.StockService) *StockHandler {
	return &StockHandler{svc: svc}
}

// ListSummaries GET /api/stock
func (h *StockHandler) ListSummaries(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListSummaries(repository.SummaryListParams{
		ItemKind: c.Query("item_kind"),
		Keyword:  c.Query("keyword"),
		Page:     page,
		Size:     pageSize,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
}

// GetSummary GET /api/stock/:kind/:code
func (h *StockHandler) GetSummary(c *gin.Context) {
	summary, err := h.svc.GetSummary(c.Param("kind"), c.Param("code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	if summary == nil {
		NotFound(c, "no stock record for this item")
		return
	}
	Success(c, summary)
}

// ListLedger GET /api/stock/ledger
func (h *StockHandler) ListLedger(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.ListEntries(repository.LedgerListParams{
		ItemKind: c.Query("item_kind"),
		ItemCode: c.Query("item_code"),
		Page:     page,
		Size:     pageSize,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
}

// WarehouseIn POST /api/stock/in
func (h *StockHandler) WarehouseIn(c *gin.Context) {
	var req service.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	entry, err := h.svc.WarehouseIn(req, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, entry)
}

package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// ProductionHandler exposes production orders and the component issuance
// flow under /api/productions.
type ProductionHandler struct {
	svc *service.ProductionService
}

func NewProductionHandler(svc *service.ProductionService) *ProductionHandler {
	return &ProductionHandler{svc: svc}
}

// Create POST /api/productions
func (h *ProductionHandler) Create(c *gin.Context) {
	var req service.CreateProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	order, err := h.svc.Create(req, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, order)
}

// List GET /api/productions
func (h *ProductionHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(repository.ProductionListParams{
		ProductCode: c.Query("product_code"),
		Status:      c.Query("status"),
		Page:        page,
		Size:        pageSize,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
}

// GetProcess GET /api/productions/process?production_id=...
//
// Returns the order header, the enriched BOM snapshot with used/remaining
// and live availability, and the issuance history.
func (h *ProductionHandler) GetProcess(c *gin.Context) {
	productionID := c.Query("production_id")
	if productionID == "" {
		productionID = c.Query("id")
	}
	if productionID == "" {
		BadRequest(c, "production_id is required")
		return
	}
	detail, err := h.svc.GetDetail(productionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, detail)
}

// PostProcess POST /api/productions/process
//
// Issues a component quantity against the order and returns the updated
// progress and status.
func (h *ProductionHandler) PostProcess(c *gin.Context) {
	var req service.IssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	result, err := h.svc.Issue(req, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, result)
}

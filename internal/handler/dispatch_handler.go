package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// DispatchHandler exposes dispatch items and the confirmation endpoint.
type DispatchHandler struct {
	svc *service.DispatchService
}

func NewDispatchHandler(svc *service.DispatchService) *DispatchHandler {
	return &DispatchHandler{svc: svc}
}

// Create POST /api/dispatch
func (h *DispatchHandler) Create(c *gin.Context) {
	var req service.CreateDispatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	item, err := h.svc.Create(req, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, item)
}

// ConfirmUpdate POST /api/dispatch/update
//
// Multipart form: id, serial_no, warehouse, optional remarks and proof
// file. Deducts one unit of stock the first time a serial is recorded;
// resubmissions only update the mutable fields.
func (h *DispatchHandler) ConfirmUpdate(c *gin.Context) {
	req := service.ConfirmDispatchRequest{
		ID:       c.PostForm("id"),
		SerialNo: c.PostForm("serial_no"),
		Godown:   c.PostForm("warehouse"),
		Remarks:  c.PostForm("remarks"),
	}
	if req.ID == "" {
		BadRequest(c, "id is required")
		return
	}
	if fileHeader, err := c.FormFile("proof"); err == nil {
		req.Proof = fileHeader
	}

	item, err := h.svc.ConfirmUpdate(c.Request.Context(), req, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, item)
}

// Get GET /api/dispatch/:id
func (h *DispatchHandler) Get(c *gin.Context) {
	item, err := h.svc.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, item)
}

// List GET /api/dispatch
func (h *DispatchHandler) List(c *gin.Context) {
	page, pageSize := GetPagination(c)
	items, total, err := h.svc.List(repository.DispatchListParams{
		OrderID:  c.Query("order_id"),
		ItemCode: c.Query("item_code"),
		Pending:  c.Query("pending") == "true",
		Page:     page,
		Size:     pageSize,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
}

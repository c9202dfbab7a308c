package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// CreateProduct POST /api/products
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req service.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	p, err := h.svc.CreateProduct(req)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, p)
}

// GetProduct GET /api/products/:code
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Param("code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, p)
}

// CreateSpare POST /api/spares (multipart form, optional image)
func (h *CatalogHandler) CreateSpare(c *gin.Context) {
	var req service.CreateSpareRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	fileHeader, _ := c.FormFile("image")
	sp, err := h.svc.CreateSpare(c.Request.Context(), req, fileHeader)
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, sp)
}

// GetSpare GET /api/spares/:code
func (h *CatalogHandler) GetSpare(c *gin.Context) {
	sp, err := h.svc.GetSpare(c.Param("code"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, sp)
}

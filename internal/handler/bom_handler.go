package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// BomHandler exposes the master BOM and the snapshot reconciliation flow.
type BomHandler struct {
	svc *service.BomService
}

func NewBomHandler(svc *service.BomService) *BomHandler {
	return &BomHandler{svc: svc}
}

// GetMaster GET /api/bom?product_code=...
func (h *BomHandler) GetMaster(c *gin.Context) {
	productCode := c.Query("product_code")
	if productCode == "" {
		BadRequest(c, "product_code is required")
		return
	}
	header, err := h.svc.GetMaster(productCode)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, header)
}

type replaceMasterRequest struct {
	ProductCode string                 `json:"product_code" binding:"required"`
	Items       []service.BomLineInput `json:"items" binding:"required"`
}

// ReplaceMaster POST /api/bom
func (h *BomHandler) ReplaceMaster(c *gin.Context) {
	var req replaceMasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	header, err := h.svc.ReplaceMaster(req.ProductCode, req.Items, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, header)
}

// ImportMaster POST /api/bom/import (multipart: product_code, file)
func (h *BomHandler) ImportMaster(c *gin.Context) {
	productCode := c.PostForm("product_code")
	if productCode == "" {
		BadRequest(c, "product_code is required")
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		BadRequest(c, "xlsx file is required")
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		BadRequest(c, "cannot read uploaded file")
		return
	}
	defer f.Close()

	header, err := h.svc.ImportMaster(productCode, f, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Created(c, header)
}

// Compare GET /api/productions/bom/compare?production_id=...
func (h *BomHandler) Compare(c *gin.Context) {
	productionID := c.Query("production_id")
	if productionID == "" {
		BadRequest(c, "production_id is required")
		return
	}
	cmp, err := h.svc.Compare(productionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, cmp)
}

type applyUpdateRequest struct {
	ProductionID string   `json:"production_id" binding:"required"`
	SpareIDs     []string `json:"spare_ids" binding:"required,min=1"`
}

// ApplyUpdate POST /api/productions/bom/compare
func (h *BomHandler) ApplyUpdate(c *gin.Context) {
	var req applyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	cmp, err := h.svc.ApplyUpdate(req.ProductionID, req.SpareIDs, GetUserID(c))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, cmp)
}

package handler

import (
	"mime/multipart"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/repository"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// RequestHandler serves both request routes: /api/stock-request for
// products and /api/spare/stock-request for spares. The item kind is fixed
// per route at registration time.
type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

func requestInputFromForm(c *gin.Context) (service.CreateRequestInput, error) {
	qty, err := strconv.ParseFloat(c.PostForm("quantity"), 64)
	if err != nil {
		return service.CreateRequestInput{}, err
	}
	return service.CreateRequestInput{
		ItemCode:         c.PostForm("item_code"),
		Quantity:         qty,
		SourceCompany:    c.PostForm("source_company"),
		DeliveryLocation: c.PostForm("delivery_location"),
		ContactName:      c.PostForm("contact_name"),
		ContactPhone:     c.PostForm("contact_phone"),
		TransportMode:    c.PostForm("transport_mode"),
		VehicleNo:        c.PostForm("vehicle_no"),
		DriverPhone:      c.PostForm("driver_phone"),
		TrainNo:          c.PostForm("train_no"),
		CourierName:      c.PostForm("courier_name"),
		DocketNo:         c.PostForm("docket_no"),
	}, nil
}

// Create returns the POST handler for one item kind. Multipart form with an
// optional "document" file.
func (h *RequestHandler) Create(itemKind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		in, err := requestInputFromForm(c)
		if err != nil {
			BadRequest(c, "quantity must be a number")
			return
		}
		if in.ItemCode == "" {
			BadRequest(c, "item_code is required")
			return
		}
		var document *multipart.FileHeader
		if fh, err := c.FormFile("document"); err == nil {
			document = fh
		}

		req, err := h.svc.Create(c.Request.Context(), itemKind, in, document, GetUserID(c))
		if err != nil {
			RespondError(c, err)
			return
		}
		Created(c, req)
	}
}

// List returns the GET handler for one item kind.
func (h *RequestHandler) List(itemKind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, pageSize := GetPagination(c)
		items, total, err := h.svc.List(repository.RequestListParams{
			ItemKind:  itemKind,
			Status:    c.Query("status"),
			CreatedBy: c.Query("created_by"),
			Page:      page,
			Size:      pageSize,
		})
		if err != nil {
			RespondError(c, err)
			return
		}
		Success(c, ListResponse{Items: items, Pagination: NewPagination(page, pageSize, total)})
	}
}

// Update PATCH /api/(spare/)stock-request/:id — transport details only,
// only while the request is still in "requested".
func (h *RequestHandler) Update(c *gin.Context) {
	var in service.UpdateRequestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		BadRequest(c, "Invalid request parameters: "+err.Error())
		return
	}
	req, err := h.svc.Update(c.Param("id"), in)
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, req)
}

// Advance PATCH /api/(spare/)stock-request/:id/status — one status step
// forward.
func (h *RequestHandler) Advance(c *gin.Context) {
	req, err := h.svc.Advance(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, req)
}

// Get GET /api/(spare/)stock-request/:id
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.svc.Get(c.Param("id"))
	if err != nil {
		RespondError(c, err)
		return
	}
	Success(c, req)
}

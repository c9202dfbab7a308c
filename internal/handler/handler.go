package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/apierror"
	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/service"
)

// Handlers is the HTTP handler collection.
type Handlers struct {
	Auth       *AuthHandler
	Catalog    *CatalogHandler
	Stock      *StockHandler
	Production *ProductionHandler
	Bom        *BomHandler
	Dispatch   *DispatchHandler
	Request    *RequestHandler
}

func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Auth:       NewAuthHandler(svc.Auth),
		Catalog:    NewCatalogHandler(svc.Catalog),
		Stock:      NewStockHandler(svc.Stock),
		Production: NewProductionHandler(svc.Production),
		Bom:        NewBomHandler(svc.Bom),
		Dispatch:   NewDispatchHandler(svc.Dispatch),
		Request:    NewRequestHandler(svc.Request),
	}
}

// Response is the common envelope.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse pairs a page of items with its pagination block.
type ListResponse struct {
	Items      interface{} `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

func NewPagination(page, pageSize int, total int64) *Pagination {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

func Unauthorized(c *gin.Context, message string) {
	Error(c, 40100, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, 40400, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, 50000, message)
}

// RespondError maps a service error onto the envelope. Typed errors keep
// their status and code; everything else is an opaque 500.
func RespondError(c *gin.Context, err error) {
	e := apierror.From(err)
	c.JSON(e.Status, Response{
		Code:    e.Code,
		Message: e.Message,
	})
}

// GetUserID returns the authenticated user's id from the context.
func GetUserID(c *gin.Context) string {
	userID, _ := c.Get("user_id")
	if id, ok := userID.(string); ok {
		return id
	}
	return ""
}

// GetPagination reads page/page_size query params with sane bounds.
func GetPagination(c *gin.Context) (page, pageSize int) {
	page = 1
	pageSize = 20

	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
			pageSize = v
		}
	}
	return page, pageSize
}

package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(req *entity.StockRequest) error {
	return r.db.Create(req).Error
}

func (r *RequestRepository) GetByID(id string) (*entity.StockRequest, error) {
	var req entity.StockRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// HasOpenDuplicate reports whether the creator already has a "requested" row
// matching on normalized SKU, quantity, source company, delivery location,
// contact and transport mode. Guards against double-submitted forms.
func (r *RequestRepository) HasOpenDuplicate(req *entity.StockRequest) (bool, error) {
	norm := func(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
	var count int64
	err := r.db.Model(&entity.StockRequest{}).
		Where("status = ? AND created_by = ? AND item_kind = ?",
			entity.RequestStatusRequested, req.CreatedBy, req.ItemKind).
		Where("LOWER(TRIM(item_code)) = ? AND quantity = ?", norm(req.ItemCode), req.Quantity).
		Where("LOWER(TRIM(source_company)) = ?", norm(req.SourceCompany)).
		Where("LOWER(TRIM(delivery_location)) = ?", norm(req.DeliveryLocation)).
		Where("LOWER(TRIM(contact_name)) = ?", norm(req.ContactName)).
		Where("LOWER(TRIM(transport_mode)) = ?", norm(req.TransportMode)).
		Count(&count).Error
	return count > 0, err
}

// UpdateWhileRequested applies the given column updates only if the row is
// still in "requested" state. Returns the number of rows affected; zero means
// the request has moved on and is no longer editable.
func (r *RequestRepository) UpdateWhileRequested(id string, updates map[string]interface{}) (int64, error) {
	res := r.db.Model(&entity.StockRequest{}).
		Where("id = ? AND status = ?", id, entity.RequestStatusRequested).
		Updates(updates)
	return res.RowsAffected, res.Error
}

// AdvanceStatus moves a request from one lifecycle state to the next. The
// WHERE clause on the current status makes the transition race-safe; zero
// rows affected means the request was not in the expected state.
func (r *RequestRepository) AdvanceStatus(id, from, to string) (int64, error) {
	res := r.db.Model(&entity.StockRequest{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

type RequestListParams struct {
	ItemKind  string
	Status    string
	CreatedBy string
	Page      int
	Size      int
}

func (r *RequestRepository) List(params RequestListParams) ([]entity.StockRequest, int64, error) {
	query := r.db.Model(&entity.StockRequest{})
	if params.ItemKind != "" {
		query = query.Where("item_kind = ?", params.ItemKind)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.CreatedBy != "" {
		query = query.Where("created_by = ?", params.CreatedBy)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var requests []entity.StockRequest
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&requests).Error
	return requests, total, err
}

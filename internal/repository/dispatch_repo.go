package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

type DispatchRepository struct {
	db *gorm.DB
}

func NewDispatchRepository(db *gorm.DB) *DispatchRepository {
	return &DispatchRepository{db: db}
}

func (r *DispatchRepository) Create(d *entity.DispatchItem) error {
	return r.db.Create(d).Error
}

func (r *DispatchRepository) GetByID(id string) (*entity.DispatchItem, error) {
	var d entity.DispatchItem
	err := r.db.Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DispatchRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.DispatchItem, error) {
	var d entity.DispatchItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// SerialExists reports whether another dispatch row already carries this
// serial number. Callers checking inside a transaction pass it as tx so the
// answer is consistent with their row locks.
func (r *DispatchRepository) SerialExists(tx *gorm.DB, serialNo, excludeID string) (bool, error) {
	var count int64
	err := tx.Model(&entity.DispatchItem{}).
		Where("serial_no = ? AND id <> ?", serialNo, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *DispatchRepository) Update(tx *gorm.DB, d *entity.DispatchItem) error {
	return tx.Save(d).Error
}

type DispatchListParams struct {
	OrderID  string
	ItemCode string
	Pending  bool
	Page     int
	Size     int
}

func (r *DispatchRepository) List(params DispatchListParams) ([]entity.DispatchItem, int64, error) {
	query := r.db.Model(&entity.DispatchItem{})
	if params.OrderID != "" {
		query = query.Where("order_id = ?", params.OrderID)
	}
	if params.ItemCode != "" {
		query = query.Where("item_code = ?", params.ItemCode)
	}
	if params.Pending {
		query = query.Where("stock_deducted = false")
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var items []entity.DispatchItem
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&items).Error
	return items, total, err
}

func (r *DispatchRepository) DB() *gorm.DB {
	return r.db
}

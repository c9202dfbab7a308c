package repository

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

var ErrNotFound = errors.New("record not found")

type ProductionRepository struct {
	db *gorm.DB
}

func NewProductionRepository(db *gorm.DB) *ProductionRepository {
	return &ProductionRepository{db: db}
}

func (r *ProductionRepository) Create(p *entity.ProductionOrder) error {
	return r.db.Create(p).Error
}

func (r *ProductionRepository) GetByID(id string) (*entity.ProductionOrder, error) {
	var p entity.ProductionOrder
	err := r.db.Preload("Components").Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetForUpdate locks the production row for the caller's transaction and
// loads its component snapshot.
func (r *ProductionRepository) GetForUpdate(tx *gorm.DB, id string) (*entity.ProductionOrder, error) {
	var p entity.ProductionOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := tx.Where("production_id = ?", id).Order("created_at ASC").Find(&p.Components).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductionRepository) Update(tx *gorm.DB, p *entity.ProductionOrder) error {
	return tx.Omit("Components").Save(p).Error
}

func (r *ProductionRepository) CreateComponents(tx *gorm.DB, comps []entity.ProductionComponent) error {
	if len(comps) == 0 {
		return nil
	}
	return tx.Create(&comps).Error
}

// ReplaceComponents swaps a production's snapshot for the given lines.
func (r *ProductionRepository) ReplaceComponents(tx *gorm.DB, productionID string, comps []entity.ProductionComponent) error {
	if err := tx.Where("production_id = ?", productionID).Delete(&entity.ProductionComponent{}).Error; err != nil {
		return err
	}
	return r.CreateComponents(tx, comps)
}

func (r *ProductionRepository) CreateIssue(tx *gorm.DB, issue *entity.BomIssue) error {
	return tx.Create(issue).Error
}

// SumIssued returns cumulative issued quantity per spare for a production.
func (r *ProductionRepository) SumIssued(tx *gorm.DB, productionID string) (map[string]float64, error) {
	var rows []struct {
		SpareCode string
		Total     float64
	}
	err := tx.Model(&entity.BomIssue{}).
		Select("spare_code, COALESCE(SUM(qty_used), 0) AS total").
		Where("production_id = ?", productionID).
		Group("spare_code").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	issued := make(map[string]float64, len(rows))
	for _, row := range rows {
		issued[row.SpareCode] = row.Total
	}
	return issued, nil
}

// ListIssues returns the issuance history for a production, newest first.
func (r *ProductionRepository) ListIssues(productionID string) ([]entity.BomIssue, error) {
	var issues []entity.BomIssue
	err := r.db.Where("production_id = ?", productionID).
		Order("created_at DESC").
		Find(&issues).Error
	return issues, err
}

type ProductionListParams struct {
	ProductCode string
	Status      string
	Page        int
	Size        int
}

func (r *ProductionRepository) List(params ProductionListParams) ([]entity.ProductionOrder, int64, error) {
	query := r.db.Model(&entity.ProductionOrder{})
	if params.ProductCode != "" {
		query = query.Where("product_code = ?", params.ProductCode)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var orders []entity.ProductionOrder
	err := query.Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).
		Find(&orders).Error
	return orders, total, err
}

func (r *ProductionRepository) DB() *gorm.DB {
	return r.db
}

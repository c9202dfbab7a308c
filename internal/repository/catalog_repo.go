package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) GetProduct(code string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *CatalogRepository) GetSpare(code string) (*entity.Spare, error) {
	var s entity.Spare
	err := r.db.Where("code = ?", code).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// SparesByCodes loads a batch of spares keyed by code, for enriching BOM
// snapshot lines.
func (r *CatalogRepository) SparesByCodes(codes []string) (map[string]entity.Spare, error) {
	result := make(map[string]entity.Spare, len(codes))
	if len(codes) == 0 {
		return result, nil
	}
	var spares []entity.Spare
	if err := r.db.Where("code IN ?", codes).Find(&spares).Error; err != nil {
		return nil, err
	}
	for _, s := range spares {
		result[s.Code] = s
	}
	return result, nil
}

func (r *CatalogRepository) CreateProduct(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *CatalogRepository) CreateSpare(s *entity.Spare) error {
	return r.db.Create(s).Error
}

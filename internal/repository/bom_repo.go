package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/pipgitvk/dynaclean-CRM-sub004/internal/entity"
)

type BomRepository struct {
	db *gorm.DB
}

func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

// GetActive returns the active master BOM for a product with its items, or
// ErrNotFound when no BOM has been defined.
func (r *BomRepository) GetActive(tx *gorm.DB, productCode string) (*entity.BomHeader, error) {
	var header entity.BomHeader
	err := tx.Preload("Items").
		Where("product_code = ? AND status = ?", productCode, entity.BomStatusActive).
		First(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// Replace supersedes the current active BOM for the product and installs the
// given header as the new active one, in a single transaction.
func (r *BomRepository) Replace(header *entity.BomHeader) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&entity.BomHeader{}).
			Where("product_code = ? AND status = ?", header.ProductCode, entity.BomStatusActive).
			Update("status", entity.BomStatusSuperseded).Error
		if err != nil {
			return err
		}
		return tx.Create(header).Error
	})
}

func (r *BomRepository) DB() *gorm.DB {
	return r.db
}

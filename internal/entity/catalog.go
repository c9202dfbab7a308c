package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a sellable manufactured item, identified by its item code.
type Product struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string    `json:"item_code" gorm:"column:code;size:64;not null;uniqueIndex"`
	Name      string    `json:"name" gorm:"size:128;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "products"
}

// Spare is a purchasable component consumed by production.
type Spare struct {
	ID        string          `json:"id" gorm:"primaryKey;type:uuid"`
	Code      string          `json:"spare_id" gorm:"column:code;size:64;not null;uniqueIndex"`
	Name      string          `json:"name" gorm:"size:128;not null"`
	ImagePath string          `json:"image_path" gorm:"size:512"`
	UnitCost  decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);default:0"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Spare) TableName() string {
	return "spares"
}

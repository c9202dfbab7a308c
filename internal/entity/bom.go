package entity

import (
	"time"
)

// BomStatus
const (
	BomStatusActive     = "active"
	BomStatusSuperseded = "superseded"
)

// BomHeader is the master bill of materials for a product. At most one
// header per product code is active at a time; importing a new BOM
// supersedes the previous one. Production orders copy the active items at
// creation and are not affected by later edits.
type BomHeader struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProductCode string    `json:"product_code" gorm:"size:64;not null;index"`
	Status      string    `json:"status" gorm:"size:20;not null;default:active"`
	CreatedBy   string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Items []BomItem `json:"items,omitempty" gorm:"foreignKey:BomHeaderID"`
}

func (BomHeader) TableName() string {
	return "bom_headers"
}

// BomItem is one component line of a master BOM.
type BomItem struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	BomHeaderID   string    `json:"bom_header_id" gorm:"type:uuid;not null;index"`
	SpareCode     string    `json:"spare_id" gorm:"column:spare_code;size:64;not null"`
	QtyInProduct  float64   `json:"qty_in_product" gorm:"type:decimal(12,4);not null"`
	WeightPercent float64   `json:"weight_percent" gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
}

func (BomItem) TableName() string {
	return "bom_items"
}

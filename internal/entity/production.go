package entity

import (
	"time"
)

// ProductionStatus
const (
	ProductionPlanned   = "planned"
	ProductionInProcess = "in_process"
	ProductionCompleted = "completed"
)

// ProductionOrder is a manufacturing order for one unit of a product. Its
// component requirements are frozen at creation time (copied from the active
// master BOM) and changed only through the explicit reconciliation flow.
type ProductionOrder struct {
	ID              string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProductCode     string    `json:"product_code" gorm:"size:64;not null;index"`
	Status          string    `json:"status" gorm:"size:20;not null;default:planned"`
	ProgressPercent float64   `json:"progress_percent" gorm:"type:decimal(5,2);not null;default:0"`
	Notes           string    `json:"notes" gorm:"type:text"`
	CreatedBy       string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Components []ProductionComponent `json:"components,omitempty" gorm:"foreignKey:ProductionID"`
}

func (ProductionOrder) TableName() string {
	return "productions"
}

// ProductionComponent is one line of a production order's frozen BOM
// snapshot: the required quantity and completion weight for a spare.
type ProductionComponent struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProductionID  string    `json:"production_id" gorm:"type:uuid;not null;index"`
	SpareCode     string    `json:"spare_id" gorm:"column:spare_code;size:64;not null"`
	QtyInProduct  float64   `json:"qty_in_product" gorm:"type:decimal(12,4);not null"`
	WeightPercent float64   `json:"weight_percent" gorm:"type:decimal(5,2);not null;default:0"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (ProductionComponent) TableName() string {
	return "production_components"
}

// BomIssue is an append-only record of a component issuance against a
// production order. The cumulative qty_used per (production, spare) is the
// issued quantity all progress and remaining calculations derive from.
type BomIssue struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	ProductionID string    `json:"production_id" gorm:"type:uuid;not null;index"`
	SpareCode    string    `json:"spare_id" gorm:"column:spare_code;size:64;not null;index"`
	QtyUsed      float64   `json:"qty_used" gorm:"type:decimal(12,4);not null"`
	Godown       Godown    `json:"godown" gorm:"size:10;not null"`
	GodownName   string    `json:"godown_name" gorm:"size:100"`
	Assembly     string    `json:"assembly" gorm:"size:64"`
	CreatedBy    string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time `json:"created_at" gorm:"index"`
}

func (BomIssue) TableName() string {
	return "bom_transactions"
}

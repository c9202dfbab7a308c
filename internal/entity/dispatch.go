package entity

import (
	"time"
)

// DispatchItem is one shipped unit of an order. Recording a serial number
// and warehouse confirms the dispatch and deducts one unit of stock;
// StockDeducted makes that deduction idempotent across resubmissions.
type DispatchItem struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid"`
	OrderID       string     `json:"order_id" gorm:"size:64;not null;index"`
	ItemCode      string     `json:"item_code" gorm:"size:64;not null;index"`
	SerialNo      string     `json:"serial_no" gorm:"size:100;uniqueIndex:idx_dispatch_serial,where:serial_no <> ''"`
	Godown        Godown     `json:"godown" gorm:"size:10"`
	GodownName    string     `json:"godown_name" gorm:"size:100"`
	StockDeducted bool       `json:"stock_deducted" gorm:"not null;default:false"`
	Remarks       string     `json:"remarks" gorm:"type:text"`
	ProofPath     string     `json:"proof_path" gorm:"size:512"`
	DispatchedBy  string     `json:"dispatched_by" gorm:"size:64"`
	DispatchedAt  *time.Time `json:"dispatched_at"`
	CreatedBy     string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (DispatchItem) TableName() string {
	return "dispatch_items"
}

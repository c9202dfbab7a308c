package entity

import (
	"time"
)

// Stock request lifecycle. No reverse transitions.
const (
	RequestStatusRequested   = "requested"
	RequestStatusInWarehouse = "in_warehouse"
	RequestStatusFulfilled   = "fulfilled"
)

// Transport modes for stock requests. Each mode owns a subset of the
// transport fields; switching modes clears the other modes' fields.
const (
	TransportRoad    = "ROAD"
	TransportTrain   = "TRAIN"
	TransportAir     = "AIR"
	TransportCourier = "COURIER"
)

// StockRequest is a procurement request for a product or spare. Transport
// and document fields are editable only while status is "requested".
type StockRequest struct {
	ID               string  `json:"id" gorm:"primaryKey;type:uuid"`
	ItemKind         string  `json:"item_kind" gorm:"size:10;not null;index"`
	ItemCode         string  `json:"item_code" gorm:"size:64;not null;index"`
	Quantity         float64 `json:"quantity" gorm:"type:decimal(12,4);not null"`
	SourceCompany    string  `json:"source_company" gorm:"size:128"`
	DeliveryLocation string  `json:"delivery_location" gorm:"size:128"`
	ContactName      string  `json:"contact_name" gorm:"size:64"`
	ContactPhone     string  `json:"contact_phone" gorm:"size:20"`

	TransportMode string `json:"transport_mode" gorm:"size:10"`
	VehicleNo     string `json:"vehicle_no" gorm:"size:20"`
	DriverPhone   string `json:"driver_phone" gorm:"size:20"`
	TrainNo       string `json:"train_no" gorm:"size:20"`
	CourierName   string `json:"courier_name" gorm:"size:64"`
	DocketNo      string `json:"docket_no" gorm:"size:64"`

	DocumentPath string    `json:"document_path" gorm:"size:512"`
	Status       string    `json:"status" gorm:"size:20;not null;default:requested;index"`
	CreatedBy    string    `json:"created_by" gorm:"size:64;not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (StockRequest) TableName() string {
	return "stock_requests"
}

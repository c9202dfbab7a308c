package entity

import (
	"time"
)

// Roles gating write access to warehouse workflows.
const (
	RoleAdmin             = "ADMIN"
	RoleWarehouseIncharge = "WAREHOUSE INCHARGE"
	RoleSales             = "SALES"
)

// User is an application account. Role strings gate write access to certain
// workflows; they are carried in the JWT claims.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:uuid"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:128"`
	Email        string    `json:"email" gorm:"size:128"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	Role         string    `json:"role" gorm:"size:32;not null;default:SALES"`
	Status       string    `json:"status" gorm:"size:20;not null;default:active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

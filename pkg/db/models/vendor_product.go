package models

import (
	"time"

	"github.com/google/uuid"
)

// VendorProduct is a vendor-supplied product; its purchasable variants are SKUs.
type VendorProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	VendorName  string    `gorm:"column:vendor_name;not null"`
	Description *string   `gorm:"column:description"`
	Active      bool      `gorm:"column:active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (VendorProduct) TableName() string { return "vendor_products" }

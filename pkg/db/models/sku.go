package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// SKU is a purchasable variant of a vendor product. UnitPrice is the list
// price snapshotted onto requests and cart items at creation time.
type SKU struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VendorProductID uuid.UUID       `gorm:"column:vendor_product_id;type:uuid;not null;index"`
	Code            string          `gorm:"column:code;not null;uniqueIndex:ux_skus_code"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Currency        enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	Active          bool            `gorm:"column:active;not null;default:true"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (SKU) TableName() string { return "skus" }

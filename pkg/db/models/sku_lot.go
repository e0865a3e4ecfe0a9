package models

import (
	"time"

	"github.com/google/uuid"
)

// SkuLot is an independent vendor-side stock lot for a SKU. A SKU's total
// available stock is the sum of its lot quantities. Deductions drain lots
// largest-first, then oldest-updated-first.
type SkuLot struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKUID     uuid.UUID `gorm:"column:sku_id;type:uuid;not null;index"`
	Quantity  int64     `gorm:"column:quantity;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SkuLot) TableName() string { return "sku_lots" }

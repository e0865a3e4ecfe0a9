package models

import (
	"time"

	"github.com/google/uuid"
)

// StoreInventory is the store-owned stock accumulator for one
// (store, vendor product, SKU) triple. Rows are written only by settlement.
type StoreInventory struct {
	ID              uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID         uuid.UUID `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_store_inventories_triple"`
	VendorProductID uuid.UUID `gorm:"column:vendor_product_id;type:uuid;not null;uniqueIndex:ux_store_inventories_triple"`
	SKUID           uuid.UUID `gorm:"column:sku_id;type:uuid;not null;uniqueIndex:ux_store_inventories_triple"`
	Quantity        int64     `gorm:"column:quantity;not null;default:0"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreInventory) TableName() string { return "store_inventories" }

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// CartItem is one line of a cart. The (cart, vendor product, SKU) triple is
// unique; adding the same pair again merges quantity and refreshes the price.
type CartItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID          uuid.UUID       `gorm:"column:cart_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_sku"`
	VendorProductID uuid.UUID       `gorm:"column:vendor_product_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_sku"`
	SKUID           uuid.UUID       `gorm:"column:sku_id;type:uuid;not null;uniqueIndex:ux_cart_items_cart_product_sku"`
	Quantity        int64           `gorm:"column:quantity;not null"`
	UnitPrice       decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Currency        enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (CartItem) TableName() string { return "cart_items" }

// LineTotal returns unit price times quantity.
func (i CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

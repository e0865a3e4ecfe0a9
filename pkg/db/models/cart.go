package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// Cart batches SKU selections for one (customer, store) pair. Subtotal is
// recomputed on every item mutation. Carts are emptied, never deleted, when
// consumed into purchase requests.
type Cart struct {
	ID         uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;uniqueIndex:ux_carts_customer_store"`
	StoreID    uuid.UUID       `gorm:"column:store_id;type:uuid;not null;uniqueIndex:ux_carts_customer_store"`
	Subtotal   decimal.Decimal `gorm:"column:subtotal;type:numeric(14,2);not null;default:0"`
	Currency   enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	Items      []CartItem      `gorm:"foreignKey:CartID"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Cart) TableName() string { return "carts" }

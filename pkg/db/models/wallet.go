package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/provisionhq/procurehub-backend/pkg/enums"
)

// Wallet is a store's prepaid balance. Balance never goes negative; the
// debit guard is enforced at commit time, not just at the advisory check.
type Wallet struct {
	StoreID           uuid.UUID       `gorm:"column:store_id;type:uuid;primaryKey"`
	Balance           decimal.Decimal `gorm:"column:balance;type:numeric(14,2);not null;default:0"`
	Currency          enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	LastTransactionAt *time.Time      `gorm:"column:last_transaction_at"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Wallet) TableName() string { return "wallets" }

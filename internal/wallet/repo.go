package wallet

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// Repository manages per-store wallet rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

func (r *Repository) Create(ctx context.Context, wallet *models.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *Repository) GetByStoreID(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).First(&wallet, "store_id = ?", storeID).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// Debit applies a conditional balance decrement guarded by the current
// balance. It reports false when the wallet would go negative.
func (r *Repository) Debit(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("store_id = ? AND balance >= ?", storeID, amount).
		Updates(map[string]any{
			"balance":             gorm.Expr("balance - ?", amount),
			"last_transaction_at": now,
			"updated_at":          now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Credit increases the balance unconditionally.
func (r *Repository) Credit(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (bool, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).Model(&models.Wallet{}).
		Where("store_id = ?", storeID).
		Updates(map[string]any{
			"balance":             gorm.Expr("balance + ?", amount),
			"last_transaction_at": now,
			"updated_at":          now,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

package storeinv

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Repository manages the store-owned inventory projection.
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

// IncrementExisting bumps the accumulator for the triple when a row already
// exists, reporting whether one was found.
func (r *Repository) IncrementExisting(ctx context.Context, storeID, vendorProductID, skuID uuid.UUID, quantity int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.StoreInventory{}).
		Where("store_id = ? AND vendor_product_id = ? AND sku_id = ?", storeID, vendorProductID, skuID).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", quantity),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) Create(ctx context.Context, row *models.StoreInventory) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) GetTriple(ctx context.Context, storeID, vendorProductID, skuID uuid.UUID) (*models.StoreInventory, error) {
	var row models.StoreInventory
	err := r.db.WithContext(ctx).
		First(&row, "store_id = ? AND vendor_product_id = ? AND sku_id = ?", storeID, vendorProductID, skuID).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns projection rows newest first, optionally scoped to one store.
func (r *Repository) List(ctx context.Context, storeID *uuid.UUID, params pagination.Params) ([]models.StoreInventory, error) {
	q := r.db.WithContext(ctx).Model(&models.StoreInventory{})
	if storeID != nil {
		q = q.Where("store_id = ?", *storeID)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.StoreInventory
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

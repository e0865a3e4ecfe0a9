package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
)

// Repository manages vendor-side SKU lots.
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

func (r *Repository) CreateLot(ctx context.Context, lot *models.SkuLot) error {
	return r.db.WithContext(ctx).Create(lot).Error
}

func (r *Repository) GetLot(ctx context.Context, id uuid.UUID) (*models.SkuLot, error) {
	var lot models.SkuLot
	if err := r.db.WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lot, nil
}

// ListLots returns every lot for a SKU, newest first.
func (r *Repository) ListLots(ctx context.Context, skuID uuid.UUID) ([]models.SkuLot, error) {
	var lots []models.SkuLot
	err := r.db.WithContext(ctx).
		Where("sku_id = ?", skuID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&lots).Error
	return lots, err
}

// TotalAvailable sums the lot quantities for a SKU.
func (r *Repository) TotalAvailable(ctx context.Context, skuID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.SkuLot{}).
		Where("sku_id = ?", skuID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// CandidateLots returns lots with stock, largest first and stalest first, the
// drain order used by deductions.
func (r *Repository) CandidateLots(ctx context.Context, skuID uuid.UUID) ([]models.SkuLot, error) {
	var lots []models.SkuLot
	err := r.db.WithContext(ctx).
		Where("sku_id = ? AND quantity > 0", skuID).
		Order("quantity DESC").
		Order("updated_at ASC").
		Find(&lots).Error
	return lots, err
}

// DecrementLot applies a conditional decrement guarded by the current
// quantity. It reports false when a concurrent deduction won the race.
func (r *Repository) DecrementLot(ctx context.Context, lotID uuid.UUID, amount int64) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.SkuLot{}).
		Where("id = ? AND quantity >= ?", lotID, amount).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", amount),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

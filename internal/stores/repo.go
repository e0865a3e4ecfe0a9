package stores

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Repository manages persistent store rows.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
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

func (r *Repository) Create(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).First(&store, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns stores ordered newest first using cursor pagination.
func (r *Repository) List(ctx context.Context, params pagination.Params) ([]models.Store, error) {
	q := r.db.WithContext(ctx).Model(&models.Store{})

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Store
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

// UpdateApprovers rewrites the approval-tier configuration. Existing requests
// keep their creation-time snapshots.
func (r *Repository) UpdateApprovers(ctx context.Context, id uuid.UUID, requireDM, requireCM bool, dmUserID, cmUserID *uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.Store{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"require_dm_approval": requireDM,
			"require_cm_approval": requireCM,
			"dm_user_id":          dmUserID,
			"cm_user_id":          cmUserID,
			"updated_at":          time.Now(),
		})
	return result.RowsAffected, result.Error
}

package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/settlement"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Repository manages purchase request rows. Every transition is a guarded
// conditional update on the current status so concurrent approvals collapse
// to exactly one outcome.
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

func (r *Repository) Create(ctx context.Context, req *models.PurchaseRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *Repository) CreateBatch(ctx context.Context, reqs []models.PurchaseRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&reqs).Error
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	var req models.PurchaseRequest
	if err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// GetForSettlement re-reads the request inside the settlement scope.
func (r *Repository) GetForSettlement(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.PurchaseRequest, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	var req models.PurchaseRequest
	if err := conn.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ApproveDM advances pending_dm to the next tier, recording the DM approval.
func (r *Repository) ApproveDM(ctx context.Context, id uuid.UUID, next enums.RequestStatus, by uuid.UUID, model enums.ActorModel, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPendingDM).
		Updates(map[string]any{
			"status":               next,
			"dm_approved_by":       by,
			"dm_approved_by_model": model,
			"dm_approved_at":       at,
			"updated_at":           at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ApproveCM advances pending_cm to pending_admin, recording the CM approval.
func (r *Repository) ApproveCM(ctx context.Context, id uuid.UUID, by uuid.UUID, model enums.ActorModel, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPendingCM).
		Updates(map[string]any{
			"status":               enums.RequestStatusPendingAdmin,
			"cm_approved_by":       by,
			"cm_approved_by_model": model,
			"cm_approved_at":       at,
			"updated_at":           at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkApproved performs the terminal pending_admin -> approved transition
// inside the settlement scope.
func (r *Repository) MarkApproved(ctx context.Context, tx *gorm.DB, id uuid.UUID, approval settlement.Approval) (bool, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	result := conn.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, enums.RequestStatusPendingAdmin).
		Updates(map[string]any{
			"status":                  enums.RequestStatusApproved,
			"admin_approved_by":       approval.ActorID,
			"admin_approved_by_model": approval.ActorModel,
			"admin_approved_at":       approval.At,
			"updated_at":              approval.At,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Reject terminates the request from the given pending status.
func (r *Repository) Reject(ctx context.Context, id uuid.UUID, current enums.RequestStatus, by uuid.UUID, model enums.ActorModel, at time.Time, reason string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.PurchaseRequest{}).
		Where("id = ? AND status = ?", id, current).
		Updates(map[string]any{
			"status":            enums.RequestStatusRejected,
			"rejected_by":       by,
			"rejected_by_model": model,
			"rejected_at":       at,
			"rejection_reason":  reason,
			"updated_at":        at,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListFilter narrows request listings. Nil fields are ignored.
type ListFilter struct {
	Status      *enums.RequestStatus
	StoreID     *uuid.UUID
	DMUserID    *uuid.UUID
	CMUserID    *uuid.UUID
	RequesterID *uuid.UUID
	Requester   *enums.ActorModel
}

func (r *Repository) List(ctx context.Context, filter ListFilter, params pagination.Params) ([]models.PurchaseRequest, error) {
	q := r.db.WithContext(ctx).Model(&models.PurchaseRequest{})
	if filter.Status != nil {
		q = q.Where("status = ?", *filter.Status)
	}
	if filter.StoreID != nil {
		q = q.Where("store_id = ?", *filter.StoreID)
	}
	if filter.DMUserID != nil {
		q = q.Where("dm_user_id = ?", *filter.DMUserID)
	}
	if filter.CMUserID != nil {
		q = q.Where("cm_user_id = ?", *filter.CMUserID)
	}
	if filter.RequesterID != nil {
		q = q.Where("requester_id = ?", *filter.RequesterID)
	}
	if filter.Requester != nil {
		q = q.Where("requester_model = ?", *filter.Requester)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		q = q.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.PurchaseRequest
	err = q.Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	return rows, err
}

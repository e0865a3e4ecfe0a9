package stores

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes store configuration operations.
type Service interface {
	Create(ctx context.Context, input CreateStoreInput) (*models.Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
	List(ctx context.Context, params pagination.Params) ([]models.Store, error)
	UpdateApprovers(ctx context.Context, id uuid.UUID, input UpdateApproversInput) (*models.Store, error)
}

type service struct {
	repo *Repository
	tx   txRunner
}

// NewService wires a store service with the provided stack.
func NewService(repo *Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateStoreInput captures the payload to register a purchasing store.
// Approval-tier flags default to true when unset.
type CreateStoreInput struct {
	Name              string
	Email             *string
	Phone             *string
	RequireDMApproval *bool
	RequireCMApproval *bool
	DMUserID          *uuid.UUID
	CMUserID          *uuid.UUID
}

// UpdateApproversInput rewrites the approval-tier configuration.
type UpdateApproversInput struct {
	RequireDMApproval bool
	RequireCMApproval bool
	DMUserID          *uuid.UUID
	CMUserID          *uuid.UUID
}

func (s *service) Create(ctx context.Context, input CreateStoreInput) (*models.Store, error) {
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	requireDM := true
	if input.RequireDMApproval != nil {
		requireDM = *input.RequireDMApproval
	}
	requireCM := true
	if input.RequireCMApproval != nil {
		requireCM = *input.RequireCMApproval
	}
	if requireDM && input.DMUserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district manager assignment required when dm approval is enabled")
	}
	if requireCM && input.CMUserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "corporate manager assignment required when cm approval is enabled")
	}

	store := &models.Store{
		ID:                uuid.New(),
		Name:              input.Name,
		Email:             input.Email,
		Phone:             input.Phone,
		RequireDMApproval: requireDM,
		RequireCMApproval: requireCM,
		DMUserID:          input.DMUserID,
		CMUserID:          input.CMUserID,
		Active:            true,
	}

	// The store's wallet row is created alongside it so settlement never has
	// to lazily provision one.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, store); err != nil {
			return err
		}
		wallet := &models.Wallet{StoreID: store.ID, Currency: enums.CurrencyUSD}
		return tx.Create(wallet).Error
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return store, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	store, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	return store, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) ([]models.Store, error) {
	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return rows, nil
}

func (s *service) UpdateApprovers(ctx context.Context, id uuid.UUID, input UpdateApproversInput) (*models.Store, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if input.RequireDMApproval && input.DMUserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "district manager assignment required when dm approval is enabled")
	}
	if input.RequireCMApproval && input.CMUserID == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "corporate manager assignment required when cm approval is enabled")
	}

	affected, err := s.repo.UpdateApprovers(ctx, id, input.RequireDMApproval, input.RequireCMApproval, input.DMUserID, input.CMUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update approvers")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return s.GetByID(ctx, id)
}

// InitialRequestStatus derives the first tier a new request must clear from
// the store's approval flags.
func InitialRequestStatus(store *models.Store) enums.RequestStatus {
	switch {
	case store.RequireDMApproval:
		return enums.RequestStatusPendingDM
	case store.RequireCMApproval:
		return enums.RequestStatusPendingCM
	default:
		return enums.RequestStatusPendingAdmin
	}
}

// ApproverSnapshot returns the DM/CM ids to pin onto a new request. Only
// tiers the store requires are snapshotted.
func ApproverSnapshot(store *models.Store) (dm, cm *uuid.UUID, err error) {
	if store.RequireDMApproval {
		if store.DMUserID == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "store has no district manager assigned")
		}
		dm = store.DMUserID
	}
	if store.RequireCMApproval {
		if store.CMUserID == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "store has no corporate manager assigned")
		}
		cm = store.CMUserID
	}
	return dm, cm, nil
}

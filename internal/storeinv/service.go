package storeinv

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// Service is the store inventory projection. Increment is invoked only by
// settlement; reads serve the listing endpoints.
type Service interface {
	Increment(ctx context.Context, tx *gorm.DB, storeID, vendorProductID, skuID uuid.UUID, quantity int64) error
	List(ctx context.Context, storeID *uuid.UUID, params pagination.Params) ([]models.StoreInventory, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Increment(ctx context.Context, tx *gorm.DB, storeID, vendorProductID, skuID uuid.UUID, quantity int64) error {
	if storeID == uuid.Nil || vendorProductID == uuid.Nil || skuID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store, product and sku ids are required")
	}
	if quantity <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)

	updated, err := repo.IncrementExisting(ctx, storeID, vendorProductID, skuID, quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment store inventory")
	}
	if updated {
		return nil
	}

	row := &models.StoreInventory{
		ID:              uuid.New(),
		StoreID:         storeID,
		VendorProductID: vendorProductID,
		SKUID:           skuID,
		Quantity:        quantity,
	}
	if err := repo.Create(ctx, row); err != nil {
		// A concurrent settlement created the row between the update and the
		// insert; fold our quantity into it instead.
		if dbpkg.IsUniqueViolation(err, "") {
			updated, retryErr := repo.IncrementExisting(ctx, storeID, vendorProductID, skuID, quantity)
			if retryErr != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, retryErr, "increment store inventory")
			}
			if updated {
				return nil
			}
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store inventory row")
	}
	return nil
}

func (s *service) List(ctx context.Context, storeID *uuid.UUID, params pagination.Params) ([]models.StoreInventory, error) {
	rows, err := s.repo.List(ctx, storeID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store inventory")
	}
	return rows, nil
}

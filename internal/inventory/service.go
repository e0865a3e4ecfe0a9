package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
)

// maxLotAttempts bounds the conditional-decrement retries per lot before the
// deduction moves on to the next candidate.
const maxLotAttempts = 3

// LotTake records how much a deduction drew from one lot.
type LotTake struct {
	LotID  uuid.UUID `json:"lotId"`
	Amount int64     `json:"amount"`
}

// Service is the vendor-side inventory ledger.
type Service interface {
	// AddLot books received vendor stock as a new independent lot.
	AddLot(ctx context.Context, skuID uuid.UUID, quantity int64) (*models.SkuLot, error)
	ListLots(ctx context.Context, skuID uuid.UUID) ([]models.SkuLot, error)
	TotalAvailable(ctx context.Context, skuID uuid.UUID) (int64, error)
	// Deduct drains lots largest-first, stalest-first until quantity is
	// satisfied. It issues no compensating writes on failure; partial takes
	// are undone by the enclosing transaction.
	Deduct(ctx context.Context, tx *gorm.DB, skuID uuid.UUID, quantity int64) ([]LotTake, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AddLot(ctx context.Context, skuID uuid.UUID, quantity int64) (*models.SkuLot, error) {
	if skuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	lot := &models.SkuLot{ID: uuid.New(), SKUID: skuID, Quantity: quantity}
	if err := s.repo.CreateLot(ctx, lot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create lot")
	}
	return lot, nil
}

func (s *service) ListLots(ctx context.Context, skuID uuid.UUID) ([]models.SkuLot, error) {
	if skuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id is required")
	}
	lots, err := s.repo.ListLots(ctx, skuID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list lots")
	}
	return lots, nil
}

func (s *service) TotalAvailable(ctx context.Context, skuID uuid.UUID) (int64, error) {
	if skuID == uuid.Nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "sku id is required")
	}
	total, err := s.repo.TotalAvailable(ctx, skuID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum lot quantities")
	}
	return total, nil
}

func (s *service) Deduct(ctx context.Context, tx *gorm.DB, skuID uuid.UUID, quantity int64) ([]LotTake, error) {
	if skuID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	repo := s.repo.WithTx(tx)

	total, err := repo.TotalAvailable(ctx, skuID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum lot quantities")
	}
	if total < quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough vendor stock").
			WithDetails(map[string]any{"available": total, "requested": quantity})
	}

	lots, err := repo.CandidateLots(ctx, skuID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load candidate lots")
	}

	remaining := quantity
	takes := make([]LotTake, 0, len(lots))

	for _, lot := range lots {
		if remaining == 0 {
			break
		}
		current := lot.Quantity
		for attempt := 0; attempt < maxLotAttempts; attempt++ {
			take := current
			if take > remaining {
				take = remaining
			}
			if take <= 0 {
				break
			}

			ok, err := repo.DecrementLot(ctx, lot.ID, take)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement lot")
			}
			if ok {
				remaining -= take
				takes = append(takes, LotTake{LotID: lot.ID, Amount: take})
				break
			}

			// Guard lost to a concurrent deduction; re-read and retry.
			fresh, err := repo.GetLot(ctx, lot.ID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					current = 0
					break
				}
				return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload lot")
			}
			current = fresh.Quantity
		}
	}

	if remaining > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeConcurrency, "lot contention exhausted retries").
			WithDetails(map[string]any{"skuId": skuID.String(), "requested": quantity, "unfilled": remaining})
	}
	return takes, nil
}

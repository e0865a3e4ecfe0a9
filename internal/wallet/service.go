package wallet

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
)

// Service is the wallet ledger. CheckSufficient is advisory only; the debit
// guard is re-applied at commit time inside the settlement scope.
type Service interface {
	Get(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error)
	CheckSufficient(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (bool, error)
	Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount decimal.Decimal) error
	Credit(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error)
}

type service struct {
	repo *Repository
}

func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	wallet, err := s.repo.GetByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return wallet, nil
}

func (s *service) CheckSufficient(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (bool, error) {
	wallet, err := s.Get(ctx, storeID)
	if err != nil {
		return false, err
	}
	return wallet.Balance.GreaterThanOrEqual(amount), nil
}

func (s *service) Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount decimal.Decimal) error {
	if storeID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if !amount.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "debit amount must be positive")
	}

	repo := s.repo.WithTx(tx)
	ok, err := repo.Debit(ctx, storeID, amount)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit wallet")
	}
	if ok {
		return nil
	}

	// Guard lost. Distinguish a missing wallet from a short balance so the
	// caller sees the actual shortfall.
	wallet, err := repo.GetByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load wallet")
	}
	return pkgerrors.New(pkgerrors.CodeInsufficientBalance, "wallet balance too low").
		WithDetails(map[string]any{
			"balance":   wallet.Balance.String(),
			"requested": amount.String(),
		})
}

func (s *service) Credit(ctx context.Context, storeID uuid.UUID, amount decimal.Decimal) (*models.Wallet, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if !amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "credit amount must be positive")
	}
	ok, err := s.repo.Credit(ctx, storeID, amount)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit wallet")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet not found")
	}
	return s.Get(ctx, storeID)
}

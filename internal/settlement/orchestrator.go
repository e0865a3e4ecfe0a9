package settlement

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/actors"
	"github.com/provisionhq/procurehub-backend/internal/inventory"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	"github.com/provisionhq/procurehub-backend/pkg/metrics"
)

// Approval is the admin approval record written on the final transition.
type Approval struct {
	ActorID    uuid.UUID
	ActorModel enums.ActorModel
	At         time.Time
}

// RequestStore is the slice of request persistence settlement needs.
type RequestStore interface {
	GetForSettlement(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.PurchaseRequest, error)
	// MarkApproved transitions pending_admin to approved, guarded on the
	// current status. It reports false when the guard fails.
	MarkApproved(ctx context.Context, tx *gorm.DB, id uuid.UUID, approval Approval) (bool, error)
}

type inventoryLedger interface {
	Deduct(ctx context.Context, tx *gorm.DB, skuID uuid.UUID, quantity int64) ([]inventory.LotTake, error)
}

type projection interface {
	Increment(ctx context.Context, tx *gorm.DB, storeID, vendorProductID, skuID uuid.UUID, quantity int64) error
}

type walletLedger interface {
	Debit(ctx context.Context, tx *gorm.DB, storeID uuid.UUID, amount decimal.Decimal) error
}

// Orchestrator runs the final-approval settlement: stock deduction, store
// inventory credit and wallet debit as one unit of work.
type Orchestrator struct {
	uow       UnitOfWork
	requests  RequestStore
	inventory inventoryLedger
	storeInv  projection
	wallets   walletLedger
	metrics   *metrics.SettlementMetrics
	logg      *logger.Logger
}

// NewOrchestrator wires the settlement orchestrator.
func NewOrchestrator(
	uow UnitOfWork,
	requests RequestStore,
	inventoryLedger inventoryLedger,
	storeInv projection,
	wallets walletLedger,
	settlementMetrics *metrics.SettlementMetrics,
	logg *logger.Logger,
) (*Orchestrator, error) {
	if uow == nil {
		return nil, fmt.Errorf("unit of work required")
	}
	if requests == nil {
		return nil, fmt.Errorf("request store required")
	}
	if inventoryLedger == nil {
		return nil, fmt.Errorf("inventory ledger required")
	}
	if storeInv == nil {
		return nil, fmt.Errorf("store inventory projection required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet ledger required")
	}
	return &Orchestrator{
		uow:       uow,
		requests:  requests,
		inventory: inventoryLedger,
		storeInv:  storeInv,
		wallets:   wallets,
		metrics:   settlementMetrics,
		logg:      logg,
	}, nil
}

// Settle performs the pending_admin -> approved transition. On any failure
// the unit of work is rolled back and the request keeps its prior status.
func (o *Orchestrator) Settle(ctx context.Context, requestID uuid.UUID, admin actors.Actor) (*models.PurchaseRequest, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	if !admin.IsAdmin() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins settle requests")
	}

	start := time.Now()
	var settled *models.PurchaseRequest

	err := o.uow.Run(ctx, func(tx *gorm.DB) error {
		req, err := o.requests.GetForSettlement(ctx, tx, requestID)
		if err != nil {
			return err
		}
		// Re-verified inside the scope so a duplicate concurrent approval
		// cannot settle twice.
		if req.Status != enums.RequestStatusPendingAdmin {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting admin approval").
				WithDetails(map[string]any{"status": req.Status.String()})
		}

		takes, err := o.inventory.Deduct(ctx, tx, req.SKUID, req.Quantity)
		if err != nil {
			return err
		}

		if err := o.storeInv.Increment(ctx, tx, req.StoreID, req.VendorProductID, req.SKUID, req.Quantity); err != nil {
			return err
		}

		amount := req.Amount()
		if err := o.wallets.Debit(ctx, tx, req.StoreID, amount); err != nil {
			return err
		}

		approval := Approval{ActorID: admin.ID, ActorModel: admin.Model, At: time.Now()}
		ok, err := o.requests.MarkApproved(ctx, tx, req.ID, approval)
		if err != nil {
			return err
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request already settled")
		}

		req.Status = enums.RequestStatusApproved
		req.AdminApprovedBy = &approval.ActorID
		req.AdminApprovedModel = &approval.ActorModel
		req.AdminApprovedAt = &approval.At
		settled = req

		if o.logg != nil {
			logCtx := o.logg.WithFields(ctx, map[string]any{
				"purchase_request_id": req.ID.String(),
				"store_id":            req.StoreID.String(),
				"sku_id":              req.SKUID.String(),
				"amount":              amount.String(),
				"lots_touched":        len(takes),
			})
			o.logg.Info(logCtx, "settlement committed")
		}
		return nil
	})

	o.metrics.ObserveSettlement(outcomeLabel(err), time.Since(start))
	if err != nil {
		return nil, err
	}
	return settled, nil
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "approved"
	case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientStock):
		return "insufficient_stock"
	case pkgerrors.IsCode(err, pkgerrors.CodeInsufficientBalance):
		return "insufficient_balance"
	case pkgerrors.IsCode(err, pkgerrors.CodeConcurrency):
		return "concurrency_conflict"
	case pkgerrors.IsCode(err, pkgerrors.CodeStateConflict):
		return "state_conflict"
	default:
		return "error"
	}
}

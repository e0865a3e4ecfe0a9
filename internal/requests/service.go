package requests

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/actors"
	"github.com/provisionhq/procurehub-backend/internal/stores"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	pkgerrors "github.com/provisionhq/procurehub-backend/pkg/errors"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	"github.com/provisionhq/procurehub-backend/pkg/metrics"
	"github.com/provisionhq/procurehub-backend/pkg/pagination"
)

// defaultRejectionReason is recorded when an approver rejects without a reason.
const defaultRejectionReason = "rejected by approver"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type storeLoader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Store, error)
}

type skuLoader interface {
	GetPurchasableSKU(ctx context.Context, skuID uuid.UUID) (*models.SKU, *models.VendorProduct, error)
}

type stockReader interface {
	TotalAvailable(ctx context.Context, skuID uuid.UUID) (int64, error)
}

type walletReader interface {
	Get(ctx context.Context, storeID uuid.UUID) (*models.Wallet, error)
}

type cartAccessor interface {
	GetOwned(ctx context.Context, cartID, customerID uuid.UUID) (*models.Cart, error)
	Empty(ctx context.Context, tx *gorm.DB, cartID uuid.UUID) error
}

type settler interface {
	Settle(ctx context.Context, requestID uuid.UUID, admin actors.Actor) (*models.PurchaseRequest, error)
}

// Notifier receives fire-and-forget transition events. Implementations must
// swallow their own failures; the workflow never depends on them.
type Notifier interface {
	RequestCreated(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor)
	RequestAdvanced(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor)
	RequestRejected(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor)
	RequestSettled(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor)
}

// Service is the purchase request workflow: creation (direct or from a
// cart), role-scoped reads, and the tier transition operations.
type Service interface {
	Create(ctx context.Context, actor actors.Actor, input CreateInput) (*models.PurchaseRequest, error)
	CreateFromCart(ctx context.Context, actor actors.Actor, cartID uuid.UUID) ([]models.PurchaseRequest, error)
	Get(ctx context.Context, actor actors.Actor, id uuid.UUID) (*models.PurchaseRequest, error)
	List(ctx context.Context, actor actors.Actor, input ListInput) ([]models.PurchaseRequest, error)
	Approve(ctx context.Context, actor actors.Actor, id uuid.UUID) (*models.PurchaseRequest, error)
	Reject(ctx context.Context, actor actors.Actor, id uuid.UUID, reason string) (*models.PurchaseRequest, error)
}

type service struct {
	repo       *Repository
	tx         txRunner
	stores     storeLoader
	skus       skuLoader
	stock      stockReader
	wallets    walletReader
	carts      cartAccessor
	settler    settler
	notifier   Notifier
	transition *metrics.SettlementMetrics
	logg       *logger.Logger
}

// NewService wires the request workflow service.
func NewService(
	repo *Repository,
	tx txRunner,
	storeLoader storeLoader,
	skuLoader skuLoader,
	stock stockReader,
	wallets walletReader,
	carts cartAccessor,
	settler settler,
	notifier Notifier,
	transition *metrics.SettlementMetrics,
	logg *logger.Logger,
) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("request repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if storeLoader == nil {
		return nil, fmt.Errorf("store loader required")
	}
	if skuLoader == nil {
		return nil, fmt.Errorf("sku loader required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock reader required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet reader required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart accessor required")
	}
	if settler == nil {
		return nil, fmt.Errorf("settler required")
	}
	return &service{
		repo:       repo,
		tx:         tx,
		stores:     storeLoader,
		skus:       skuLoader,
		stock:      stock,
		wallets:    wallets,
		carts:      carts,
		settler:    settler,
		notifier:   notifier,
		transition: transition,
		logg:       logg,
	}, nil
}

// CreateInput creates one request directly, outside any cart.
type CreateInput struct {
	StoreID  uuid.UUID
	SKUID    uuid.UUID
	Quantity int64
}

// ListInput narrows role-scoped listings.
type ListInput struct {
	Status  *enums.RequestStatus
	StoreID *uuid.UUID
	Page    pagination.Params
}

func (s *service) Create(ctx context.Context, actor actors.Actor, input CreateInput) (*models.PurchaseRequest, error) {
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	store, err := s.loadActiveStore(ctx, input.StoreID)
	if err != nil {
		return nil, err
	}
	sku, product, err := s.skus.GetPurchasableSKU(ctx, input.SKUID)
	if err != nil {
		return nil, err
	}

	available, err := s.stock.TotalAvailable(ctx, sku.ID)
	if err != nil {
		return nil, err
	}
	if available < input.Quantity {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough vendor stock").
			WithDetails(map[string]any{"available": available, "requested": input.Quantity})
	}

	amount := sku.UnitPrice.Mul(decimal.NewFromInt(input.Quantity))
	wallet, err := s.wallets.Get(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance.LessThan(amount) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "wallet balance too low").
			WithDetails(map[string]any{"balance": wallet.Balance.String(), "requested": amount.String()})
	}

	dm, cm, err := stores.ApproverSnapshot(store)
	if err != nil {
		return nil, err
	}

	req := &models.PurchaseRequest{
		ID:              uuid.New(),
		StoreID:         store.ID,
		VendorProductID: product.ID,
		SKUID:           sku.ID,
		Quantity:        input.Quantity,
		UnitPrice:       sku.UnitPrice,
		Currency:        sku.Currency,
		Status:          stores.InitialRequestStatus(store),
		RequesterID:     actor.ID,
		RequesterModel:  actor.Model,
		DMUserID:        dm,
		CMUserID:        cm,
	}
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}

	s.notify(ctx, func(n Notifier) { n.RequestCreated(ctx, req, actor) })
	return req, nil
}

func (s *service) CreateFromCart(ctx context.Context, actor actors.Actor, cartID uuid.UUID) ([]models.PurchaseRequest, error) {
	cart, err := s.carts.GetOwned(ctx, cartID, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	store, err := s.loadActiveStore(ctx, cart.StoreID)
	if err != nil {
		return nil, err
	}

	// Validate every line before creating anything; on any shortfall no
	// requests are materialized.
	var shortfalls []map[string]any
	for _, item := range cart.Items {
		available, err := s.stock.TotalAvailable(ctx, item.SKUID)
		if err != nil {
			return nil, err
		}
		if available < item.Quantity {
			shortfalls = append(shortfalls, map[string]any{
				"skuId":     item.SKUID.String(),
				"available": available,
				"requested": item.Quantity,
			})
		}
	}
	if len(shortfalls) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough vendor stock for cart").
			WithDetails(map[string]any{"shortfalls": shortfalls})
	}

	wallet, err := s.wallets.Get(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	if wallet.Balance.LessThan(cart.Subtotal) {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientBalance, "wallet balance below cart subtotal").
			WithDetails(map[string]any{"balance": wallet.Balance.String(), "subtotal": cart.Subtotal.String()})
	}

	dm, cm, err := stores.ApproverSnapshot(store)
	if err != nil {
		return nil, err
	}
	initial := stores.InitialRequestStatus(store)

	created := make([]models.PurchaseRequest, 0, len(cart.Items))
	for _, item := range cart.Items {
		created = append(created, models.PurchaseRequest{
			ID:              uuid.New(),
			StoreID:         store.ID,
			VendorProductID: item.VendorProductID,
			SKUID:           item.SKUID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			Currency:        item.Currency,
			Status:          initial,
			RequesterID:     actor.ID,
			RequesterModel:  actor.Model,
			DMUserID:        dm,
			CMUserID:        cm,
			CartID:          &cart.ID,
		})
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).CreateBatch(ctx, created); err != nil {
			return err
		}
		return s.carts.Empty(ctx, tx, cart.ID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "materialize cart")
	}

	for i := range created {
		req := &created[i]
		s.notify(ctx, func(n Notifier) { n.RequestCreated(ctx, req, actor) })
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, actor actors.Actor, id uuid.UUID) (*models.PurchaseRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, req) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to view this request")
	}
	return req, nil
}

func (s *service) List(ctx context.Context, actor actors.Actor, input ListInput) ([]models.PurchaseRequest, error) {
	filter := ListFilter{StoreID: input.StoreID}

	switch actor.Role {
	case enums.ActorRoleAdmin:
		status := enums.RequestStatusPendingAdmin
		if input.Status != nil {
			status = *input.Status
		}
		filter.Status = &status
	case enums.ActorRoleDistrictManager:
		status := enums.RequestStatusPendingDM
		filter.Status = &status
		filter.DMUserID = &actor.ID
	case enums.ActorRoleCorporateManager:
		status := enums.RequestStatusPendingCM
		filter.Status = &status
		filter.CMUserID = &actor.ID
	default:
		filter.RequesterID = &actor.ID
		model := actor.Model
		filter.Requester = &model
		filter.Status = input.Status
	}

	rows, err := s.repo.List(ctx, filter, input.Page)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return rows, nil
}

func (s *service) Approve(ctx context.Context, actor actors.Actor, id uuid.UUID) (*models.PurchaseRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	switch req.Status {
	case enums.RequestStatusPendingDM:
		if !actor.Matches(req.DMUserID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned district manager may approve")
		}
		next := enums.RequestStatusPendingAdmin
		if req.CMUserID != nil {
			next = enums.RequestStatusPendingCM
		}
		ok, err := s.repo.ApproveDM(ctx, req.ID, next, actor.ID, actor.Model, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance request")
		}
		if !ok {
			s.incTransition("dm", "conflict")
			return nil, s.transitionConflict(ctx, req.ID)
		}
		s.incTransition("dm", "advanced")
		return s.finishAdvance(ctx, req.ID, actor)

	case enums.RequestStatusPendingCM:
		if !actor.Matches(req.CMUserID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the assigned corporate manager may approve")
		}
		ok, err := s.repo.ApproveCM(ctx, req.ID, actor.ID, actor.Model, now)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "advance request")
		}
		if !ok {
			s.incTransition("cm", "conflict")
			return nil, s.transitionConflict(ctx, req.ID)
		}
		s.incTransition("cm", "advanced")
		return s.finishAdvance(ctx, req.ID, actor)

	case enums.RequestStatusPendingAdmin:
		if !actor.IsAdmin() {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only admins may give final approval")
		}
		settled, err := s.settler.Settle(ctx, req.ID, actor)
		if err != nil {
			s.incTransition("admin", "failed")
			return nil, err
		}
		s.incTransition("admin", "settled")
		s.notify(ctx, func(n Notifier) { n.RequestSettled(ctx, settled, actor) })
		return settled, nil

	default:
		return nil, invalidTransition(req.Status)
	}
}

func (s *service) Reject(ctx context.Context, actor actors.Actor, id uuid.UUID, reason string) (*models.PurchaseRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status.IsTerminal() {
		return nil, invalidTransition(req.Status)
	}
	if !canReject(actor, req) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not allowed to reject at this tier")
	}

	if reason == "" {
		reason = defaultRejectionReason
	}
	ok, err := s.repo.Reject(ctx, req.ID, req.Status, actor.ID, actor.Model, time.Now(), reason)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject request")
	}
	if !ok {
		s.incTransition(tierLabel(req.Status), "conflict")
		return nil, s.transitionConflict(ctx, req.ID)
	}
	s.incTransition(tierLabel(req.Status), "rejected")

	updated, err := s.load(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, func(n Notifier) { n.RequestRejected(ctx, updated, actor) })
	return updated, nil
}

func (s *service) loadActiveStore(ctx context.Context, storeID uuid.UUID) (*models.Store, error) {
	if storeID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	store, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		return nil, err
	}
	if !store.Active {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store is not active")
	}
	return store, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.PurchaseRequest, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id is required")
	}
	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return req, nil
}

// transitionConflict reports the up-to-date status after a guard lost a race.
func (s *service) transitionConflict(ctx context.Context, id uuid.UUID) error {
	current, err := s.load(ctx, id)
	if err != nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "request status changed concurrently")
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "request status changed concurrently").
		WithDetails(map[string]any{"status": current.Status.String()})
}

func (s *service) finishAdvance(ctx context.Context, id uuid.UUID, actor actors.Actor) (*models.PurchaseRequest, error) {
	updated, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	s.notify(ctx, func(n Notifier) { n.RequestAdvanced(ctx, updated, actor) })
	return updated, nil
}

func (s *service) notify(ctx context.Context, fn func(Notifier)) {
	if s.notifier == nil {
		return
	}
	fn(s.notifier)
}

func (s *service) incTransition(tier, result string) {
	s.transition.IncTransition(tier, result)
}

func canView(actor actors.Actor, req *models.PurchaseRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	if req.RequesterID == actor.ID && req.RequesterModel == actor.Model {
		return true
	}
	return actor.Matches(req.DMUserID) || actor.Matches(req.CMUserID)
}

func canReject(actor actors.Actor, req *models.PurchaseRequest) bool {
	if actor.IsAdmin() {
		return true
	}
	switch req.Status {
	case enums.RequestStatusPendingDM:
		return actor.Matches(req.DMUserID)
	case enums.RequestStatusPendingCM:
		return actor.Matches(req.CMUserID)
	default:
		return false
	}
}

func invalidTransition(current enums.RequestStatus) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "request is terminal").
		WithDetails(map[string]any{"status": current.String()})
}

func tierLabel(status enums.RequestStatus) string {
	switch status {
	case enums.RequestStatusPendingDM:
		return "dm"
	case enums.RequestStatusPendingCM:
		return "cm"
	case enums.RequestStatusPendingAdmin:
		return "admin"
	default:
		return "terminal"
	}
}

package notifications

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/actors"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	"github.com/provisionhq/procurehub-backend/pkg/outbox"
)

type eventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Notifier appends request lifecycle events to the outbox. Emission is fire
// and forget: failures are logged and swallowed so a broken notification
// pipeline never blocks the approval workflow.
type Notifier struct {
	outbox eventEmitter
	tx     txRunner
	logg   *logger.Logger
}

func NewNotifier(emitter eventEmitter, tx txRunner, logg *logger.Logger) (*Notifier, error) {
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &Notifier{outbox: emitter, tx: tx, logg: logg}, nil
}

func (n *Notifier) RequestCreated(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor) {
	n.emit(ctx, enums.EventRequestCreated, req, actor)
}

func (n *Notifier) RequestAdvanced(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor) {
	n.emit(ctx, enums.EventRequestAdvanced, req, actor)
}

func (n *Notifier) RequestRejected(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor) {
	n.emit(ctx, enums.EventRequestRejected, req, actor)
}

func (n *Notifier) RequestSettled(ctx context.Context, req *models.PurchaseRequest, actor actors.Actor) {
	n.emit(ctx, enums.EventRequestSettled, req, actor)
}

// requestPayload is the event body consumers receive inside the envelope.
type requestPayload struct {
	RequestID       string  `json:"requestId"`
	StoreID         string  `json:"storeId"`
	VendorProductID string  `json:"vendorProductId"`
	SKUID           string  `json:"skuId"`
	Quantity        int64   `json:"quantity"`
	Amount          string  `json:"amount"`
	Currency        string  `json:"currency"`
	Status          string  `json:"status"`
	CartID          *string `json:"cartId,omitempty"`
	RejectionReason *string `json:"rejectionReason,omitempty"`
}

func (n *Notifier) emit(ctx context.Context, eventType enums.OutboxEventType, req *models.PurchaseRequest, actor actors.Actor) {
	if req == nil {
		return
	}

	payload := requestPayload{
		RequestID:       req.ID.String(),
		StoreID:         req.StoreID.String(),
		VendorProductID: req.VendorProductID.String(),
		SKUID:           req.SKUID.String(),
		Quantity:        req.Quantity,
		Amount:          req.Amount().String(),
		Currency:        req.Currency.String(),
		Status:          req.Status.String(),
		RejectionReason: req.RejectionReason,
	}
	if req.CartID != nil {
		cartID := req.CartID.String()
		payload.CartID = &cartID
	}

	event := outbox.DomainEvent{
		EventType:     eventType,
		AggregateType: enums.AggregatePurchaseRequest,
		AggregateID:   req.ID,
		Actor:         &outbox.ActorRef{ActorID: actor.ID, StoreID: actor.StoreID, Role: actor.Role.String()},
		Data:          payload,
		Version:       versionFor(req.Status),
		OccurredAt:    time.Now(),
	}

	err := n.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return n.outbox.Emit(ctx, tx, event)
	})
	if err != nil && n.logg != nil {
		logCtx := n.logg.WithFields(ctx, map[string]any{
			"event_type":          eventType.String(),
			"purchase_request_id": req.ID.String(),
			"error":               err.Error(),
		})
		n.logg.Warn(logCtx, "notification emit failed")
	}
}

// versionFor orders events per aggregate. Status only moves forward through
// the tiers, so the ordinal is monotonic even when tiers are skipped.
func versionFor(status enums.RequestStatus) int {
	switch status {
	case enums.RequestStatusPendingDM:
		return 1
	case enums.RequestStatusPendingCM:
		return 2
	case enums.RequestStatusPendingAdmin:
		return 3
	default:
		return 4
	}
}

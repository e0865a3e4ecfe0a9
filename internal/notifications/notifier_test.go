package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/provisionhq/procurehub-backend/internal/actors"
	dbpkg "github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	"github.com/provisionhq/procurehub-backend/pkg/outbox"
)

func setupNotifierTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:notifications_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	ddl := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY,
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(ddl).Error)
	return db
}

func sampleRequest(status enums.RequestStatus) *models.PurchaseRequest {
	return &models.PurchaseRequest{
		ID:              uuid.New(),
		StoreID:         uuid.New(),
		VendorProductID: uuid.New(),
		SKUID:           uuid.New(),
		Quantity:        3,
		UnitPrice:       decimal.NewFromInt(10),
		Currency:        enums.CurrencyUSD,
		Status:          status,
		RequesterID:     uuid.New(),
		RequesterModel:  enums.ActorModelCustomer,
	}
}

func TestNotifierAppendsOutboxEvent(t *testing.T) {
	db := setupNotifierTestDB(t)
	emitter := outbox.NewService(outbox.NewRepository(db), nil)
	notifier, err := NewNotifier(emitter, dbpkg.FromConn(db), nil)
	require.NoError(t, err)

	req := sampleRequest(enums.RequestStatusPendingDM)
	actor := actors.Actor{ID: req.RequesterID, Model: enums.ActorModelCustomer, Role: enums.ActorRoleCustomer}

	notifier.RequestCreated(context.Background(), req, actor)

	var row models.OutboxEvent
	require.NoError(t, db.First(&row, "aggregate_id = ?", req.ID).Error)
	require.Equal(t, enums.EventRequestCreated, row.EventType)
	require.Equal(t, enums.AggregatePurchaseRequest, row.AggregateType)
	require.Nil(t, row.PublishedAt)

	var envelope outbox.PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	require.Equal(t, 1, envelope.Version)
	require.NotNil(t, envelope.Actor)
	require.Equal(t, actor.ID, envelope.Actor.ActorID)

	var payload requestPayload
	require.NoError(t, json.Unmarshal(envelope.Data, &payload))
	require.Equal(t, req.ID.String(), payload.RequestID)
	require.Equal(t, "30", payload.Amount)
	require.Equal(t, "pending_dm", payload.Status)
}

func TestNotifierVersionTracksLifecycle(t *testing.T) {
	db := setupNotifierTestDB(t)
	emitter := outbox.NewService(outbox.NewRepository(db), nil)
	notifier, err := NewNotifier(emitter, dbpkg.FromConn(db), nil)
	require.NoError(t, err)
	ctx := context.Background()

	req := sampleRequest(enums.RequestStatusPendingDM)
	actor := actors.Actor{ID: uuid.New(), Model: enums.ActorModelUser, Role: enums.ActorRoleDistrictManager}

	notifier.RequestCreated(ctx, req, actor)
	req.Status = enums.RequestStatusPendingAdmin
	notifier.RequestAdvanced(ctx, req, actor)
	req.Status = enums.RequestStatusApproved
	notifier.RequestSettled(ctx, req, actor)

	var rows []models.OutboxEvent
	require.NoError(t, db.Order("created_at, id").Find(&rows, "aggregate_id = ?", req.ID).Error)
	require.Len(t, rows, 3)

	versions := make([]int, 0, len(rows))
	for _, row := range rows {
		var envelope outbox.PayloadEnvelope
		require.NoError(t, json.Unmarshal(row.Payload, &envelope))
		versions = append(versions, envelope.Version)
	}
	require.IsIncreasing(t, versions)
}

type failingRunner struct{}

func (failingRunner) WithTx(_ context.Context, _ func(tx *gorm.DB) error) error {
	return errors.New("connection lost")
}

func TestNotifierSwallowsEmitFailure(t *testing.T) {
	db := setupNotifierTestDB(t)
	emitter := outbox.NewService(outbox.NewRepository(db), nil)
	notifier, err := NewNotifier(emitter, failingRunner{}, nil)
	require.NoError(t, err)

	req := sampleRequest(enums.RequestStatusPendingDM)
	actor := actors.Actor{ID: uuid.New(), Model: enums.ActorModelCustomer, Role: enums.ActorRoleCustomer}

	// Must not panic or propagate.
	notifier.RequestCreated(context.Background(), req, actor)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	require.Zero(t, count)
}

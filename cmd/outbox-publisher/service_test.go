package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/provisionhq/procurehub-backend/pkg/config"
	"github.com/provisionhq/procurehub-backend/pkg/db/models"
	"github.com/provisionhq/procurehub-backend/pkg/enums"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
)

type stubSource struct {
	events    []models.OutboxEvent
	published []uuid.UUID
	failed    []uuid.UUID
	fetchErr  error
}

func (s *stubSource) FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error) {
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	if len(s.events) > limit {
		return s.events[:limit], nil
	}
	return s.events, nil
}

func (s *stubSource) MarkPublished(id uuid.UUID) error {
	s.published = append(s.published, id)
	return nil
}

func (s *stubSource) MarkFailed(id uuid.UUID, err error) error {
	s.failed = append(s.failed, id)
	return nil
}

type stubResult struct {
	err error
}

func (r stubResult) Get(context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "msg-id", nil
}

type stubPublisher struct {
	messages []*gcppubsub.Message
	errFor   map[string]error
}

func (p *stubPublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	p.messages = append(p.messages, msg)
	if err, ok := p.errFor[msg.Attributes["event_id"]]; ok {
		return stubResult{err: err}
	}
	return stubResult{}
}

func testEvent(t *testing.T) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(map[string]any{"requestId": uuid.NewString()})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventRequestCreated,
		AggregateType: enums.AggregatePurchaseRequest,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     time.Now(),
	}
}

func newTestService(t *testing.T, source outboxSource, pub publisher) *Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "outbox-test", Output: io.Discard})
	svc, err := NewService(ServiceParams{
		Config:    &config.Config{Outbox: config.OutboxConfig{BatchSize: 10, PollInterval: time.Millisecond, MaxAttempts: 3}},
		Logger:    logg,
		Source:    source,
		Publisher: pub,
	})
	require.NoError(t, err)
	return svc
}

func TestProcessBatchPublishesAndMarks(t *testing.T) {
	first := testEvent(t)
	second := testEvent(t)
	source := &stubSource{events: []models.OutboxEvent{first, second}}
	pub := &stubPublisher{}
	svc := newTestService(t, source, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{first.ID, second.ID}, source.published)
	require.Empty(t, source.failed)

	require.Len(t, pub.messages, 2)
	msg := pub.messages[0]
	require.Equal(t, first.ID.String(), msg.Attributes["event_id"])
	require.Equal(t, string(enums.EventRequestCreated), msg.Attributes["event_type"])
	require.Equal(t, first.AggregateID.String(), msg.Attributes["aggregate_id"])
	require.JSONEq(t, string(first.Payload), string(msg.Data))
}

func TestProcessBatchMarksFailureAndContinues(t *testing.T) {
	bad := testEvent(t)
	good := testEvent(t)
	source := &stubSource{events: []models.OutboxEvent{bad, good}}
	pub := &stubPublisher{errFor: map[string]error{bad.ID.String(): errors.New("topic unavailable")}}
	svc := newTestService(t, source, pub)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.True(t, processed)
	require.Equal(t, []uuid.UUID{bad.ID}, source.failed)
	require.Equal(t, []uuid.UUID{good.ID}, source.published)
}

func TestProcessBatchEmptyIsIdle(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(t, source, &stubPublisher{})

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.False(t, processed)
}

func TestRunStopsOnCancel(t *testing.T) {
	source := &stubSource{}
	svc := newTestService(t, source, &stubPublisher{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := svc.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

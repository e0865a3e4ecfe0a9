package enums

import "fmt"

// OutboxEventType names the domain events emitted through the outbox.
type OutboxEventType string

const (
	EventRequestCreated  OutboxEventType = "request.created"
	EventRequestAdvanced OutboxEventType = "request.advanced"
	EventRequestRejected OutboxEventType = "request.rejected"
	EventRequestSettled  OutboxEventType = "request.settled"
)

var validOutboxEventTypes = []OutboxEventType{
	EventRequestCreated,
	EventRequestAdvanced,
	EventRequestRejected,
	EventRequestSettled,
}

// String implements fmt.Stringer.
func (o OutboxEventType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxEventType.
func (o OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into an OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid outbox event type %q", value)
}

// OutboxAggregateType names the aggregate an outbox event belongs to.
type OutboxAggregateType string

const (
	AggregatePurchaseRequest OutboxAggregateType = "purchase_request"
	AggregateCart            OutboxAggregateType = "cart"
)

// String implements fmt.Stringer.
func (o OutboxAggregateType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OutboxAggregateType.
func (o OutboxAggregateType) IsValid() bool {
	return o == AggregatePurchaseRequest || o == AggregateCart
}

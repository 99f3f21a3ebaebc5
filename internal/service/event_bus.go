package service

import (
	"context"
	"errors"

	"blood-donor-service/internal/domain/entity"
)

// EventBus fans request and notification changes out to the affected
// subject. Delivery is at-most-once; a subject with no live subscription
// misses the event.
type EventBus interface {
	Publish(ctx context.Context, events ...entity.Event) error
	// Subscribe returns the subject's feed. The channel is closed after
	// cancel is called, ctx is done, or the bus is stopped.
	Subscribe(ctx context.Context, subjectID string) (<-chan entity.Event, func(), error)
	Stop()
}

const subscriberBuffer = 32

var ErrEventBusStopped = errors.New("event bus stopped")

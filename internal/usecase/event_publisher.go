package usecase

import (
	"context"
	"time"

	"blood-donor-service/internal/domain/entity"
	"blood-donor-service/internal/infrastructure/metrics"
	"blood-donor-service/internal/service"

	"github.com/sirupsen/logrus"
)

// eventPublisher publishes best-effort: failures are logged and counted,
// never returned to the operation that produced the event
type eventPublisher struct {
	log     *logrus.Logger
	bus     service.EventBus
	metrics *metrics.Metrics
}

func newEventPublisher(log *logrus.Logger, bus service.EventBus, m *metrics.Metrics) *eventPublisher {
	return &eventPublisher{log: log, bus: bus, metrics: m}
}

// event builds one event; an unencodable payload is logged and skipped
func (p *eventPublisher) event(eventType entity.EventType, subjectID string, payload interface{}, at time.Time) (entity.Event, bool) {
	event, err := entity.NewEvent(eventType, subjectID, payload, at)
	if err != nil {
		p.log.Warnf("Failed to build %s event for %s: %+v", eventType, subjectID, err)
		p.metrics.IncrementEventPublishFailure()
		return entity.Event{}, false
	}
	return event, true
}

func (p *eventPublisher) publish(ctx context.Context, events ...entity.Event) {
	if p.bus == nil || len(events) == 0 {
		return
	}
	// state is already committed; publish even if the caller went away
	ctx = context.WithoutCancel(ctx)
	if err := p.bus.Publish(ctx, events...); err != nil {
		p.log.Warnf("Failed to publish %d events: %+v", len(events), err)
		p.metrics.IncrementEventPublishFailure()
	}
}

func (p *eventPublisher) publishOne(ctx context.Context, eventType entity.EventType, subjectID string, payload interface{}, at time.Time) {
	if event, ok := p.event(eventType, subjectID, payload, at); ok {
		p.publish(ctx, event)
	}
}

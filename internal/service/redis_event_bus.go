package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"blood-donor-service/internal/domain/entity"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// Redis channel prefix, one channel per subject
	RedisEventChannelPrefix = "events:"

	// Timeout for one publish round trip
	redisPublishTimeout = 5 * time.Second

	// A dispatch fan-out can emit hundreds of events; pipeline them in
	// chunks so one Exec never buffers the whole batch
	publishBatchSize = 500
)

// =============================================================================
// Types
// =============================================================================

// RedisEventBus publishes events as JSON on Redis pub/sub so every API
// replica can serve any subscriber.
//
// Lifecycle:
// - Each Subscribe starts one reader goroutine tracked by wg
// - Stop closes stopChan and waits for all readers to exit
type RedisEventBus struct {
	redisClient *redis.Client
	log         *logrus.Logger

	// Graceful shutdown. mu orders wg.Add in Subscribe against Stop.
	mu       sync.Mutex
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  bool
}

// =============================================================================
// Constructor
// =============================================================================

func NewRedisEventBus(redisClient *redis.Client, log *logrus.Logger) *RedisEventBus {
	return &RedisEventBus{
		redisClient: redisClient,
		log:         log,
		stopChan:    make(chan struct{}),
	}
}

// =============================================================================
// Lifecycle Methods
// =============================================================================

// Stop closes all subscriptions. Safe to call multiple times.
func (b *RedisEventBus) Stop() {
	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		return
	}
	b.stopped = true
	close(b.stopChan)
	b.mu.Unlock()

	b.wg.Wait()
	b.log.Info("RedisEventBus stopped")
}

// =============================================================================
// Public Methods
// =============================================================================

// Publish sends events through a pipeline, batch by batch
func (b *RedisEventBus) Publish(ctx context.Context, events ...entity.Event) error {
	if len(events) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, redisPublishTimeout)
	defer cancel()

	for start := 0; start < len(events); start += publishBatchSize {
		end := start + publishBatchSize
		if end > len(events) {
			end = len(events)
		}

		pipe := b.redisClient.Pipeline()
		for _, event := range events[start:end] {
			payload, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("encode event %s: %w", event.Type, err)
			}
			pipe.Publish(ctx, EventChannel(event.SubjectID), payload)
		}

		if _, err := pipe.Exec(ctx); err != nil {
			b.log.Warnf("Failed to publish events batch at offset %d: %+v", start, err)
			return fmt.Errorf("publish events at offset %d: %w", start, err)
		}
	}

	b.log.Debugf("Published %d events", len(events))
	return nil
}

// Subscribe confirms the Redis subscription before returning so no event
// published after Subscribe returns is missed.
func (b *RedisEventBus) Subscribe(ctx context.Context, subjectID string) (<-chan entity.Event, func(), error) {
	if b.isStopped() {
		return nil, nil, ErrEventBusStopped
	}

	pubsub := b.redisClient.Subscribe(ctx, EventChannel(subjectID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("subscribe %s: %w", subjectID, err)
	}

	out := make(chan entity.Event, subscriberBuffer)
	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() { close(done) })
	}

	b.mu.Lock()
	if b.stopped {
		b.mu.Unlock()
		pubsub.Close()
		return nil, nil, ErrEventBusStopped
	}
	b.wg.Add(1)
	b.mu.Unlock()

	go b.readLoop(ctx, pubsub, out, done)

	return out, cancel, nil
}

// =============================================================================
// Private Helper Methods
// =============================================================================

func (b *RedisEventBus) isStopped() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stopped
}

func (b *RedisEventBus) readLoop(ctx context.Context, pubsub *redis.PubSub, out chan<- entity.Event, done <-chan struct{}) {
	defer b.wg.Done()
	defer close(out)
	defer pubsub.Close()

	messages := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-b.stopChan:
			return
		case msg, ok := <-messages:
			if !ok {
				return
			}

			var event entity.Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				b.log.Warnf("Dropping malformed event on %s: %+v", msg.Channel, err)
				continue
			}

			select {
			case out <- event:
			case <-ctx.Done():
				return
			case <-done:
				return
			case <-b.stopChan:
				return
			}
		}
	}
}

// EventChannel returns the Redis channel carrying a subject's events
func EventChannel(subjectID string) string {
	return RedisEventChannelPrefix + subjectID
}

package service

import (
	"context"
	"sync"

	"blood-donor-service/internal/domain/entity"

	"github.com/sirupsen/logrus"
)

// MemoryEventBus delivers events inside a single process
type MemoryEventBus struct {
	log *logrus.Logger

	mu      sync.Mutex
	nextID  int
	subs    map[string]map[int]chan entity.Event
	stopped bool
}

func NewMemoryEventBus(log *logrus.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		log:  log,
		subs: make(map[string]map[int]chan entity.Event),
	}
}

// Publish never blocks; a subscriber whose buffer is full drops the event
func (b *MemoryEventBus) Publish(ctx context.Context, events ...entity.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, event := range events {
		for _, ch := range b.subs[event.SubjectID] {
			select {
			case ch <- event:
			default:
				b.log.WithFields(logrus.Fields{
					"subject_id": event.SubjectID,
					"type":       event.Type,
				}).Warn("Subscriber buffer full, dropping event")
			}
		}
	}
	return nil
}

func (b *MemoryEventBus) Subscribe(ctx context.Context, subjectID string) (<-chan entity.Event, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan entity.Event, subscriberBuffer)
	if b.stopped {
		close(ch)
		return ch, func() {}, nil
	}

	b.nextID++
	id := b.nextID
	if b.subs[subjectID] == nil {
		b.subs[subjectID] = make(map[int]chan entity.Event)
	}
	b.subs[subjectID][id] = ch

	done := make(chan struct{})
	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			b.unsubscribe(subjectID, id)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-done:
		}
	}()

	return ch, cancel, nil
}

func (b *MemoryEventBus) unsubscribe(subjectID string, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[subjectID]
	ch, ok := subs[id]
	if !ok {
		return
	}
	delete(subs, id)
	if len(subs) == 0 {
		delete(b.subs, subjectID)
	}
	close(ch)
}

// Stop closes every open subscription. Safe to call multiple times.
func (b *MemoryEventBus) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.stopped {
		return
	}
	b.stopped = true
	for subjectID, subs := range b.subs {
		for id, ch := range subs {
			close(ch)
			delete(subs, id)
		}
		delete(b.subs, subjectID)
	}
}

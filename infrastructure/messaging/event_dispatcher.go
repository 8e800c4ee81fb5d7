package messaging

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/eykd/prosemark-sub000/application/ports"
	"github.com/eykd/prosemark-sub000/domain/events"
)

// EventHandlerFunc reacts to a committed binder change
type EventHandlerFunc func(ctx context.Context, event events.DomainEvent) error

// EventDispatcher logs binder events and hands them to local subscribers.
// A failing subscriber is logged and does not stop the others.
type EventDispatcher struct {
	handlers map[string][]EventHandlerFunc
	mu       sync.RWMutex
	logger   *zap.Logger
}

var _ ports.EventPublisher = (*EventDispatcher)(nil)

// NewEventDispatcher creates a new event dispatcher
func NewEventDispatcher(logger *zap.Logger) *EventDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventDispatcher{
		handlers: make(map[string][]EventHandlerFunc),
		logger:   logger,
	}
}

// Subscribe registers fn for the given event type
func (d *EventDispatcher) Subscribe(eventType string, fn EventHandlerFunc) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("handler cannot be nil")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventType] = append(d.handlers[eventType], fn)
	return nil
}

// Publish dispatches events in order
func (d *EventDispatcher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	startTime := time.Now()
	failureCount := 0

	for _, event := range evts {
		d.mu.RLock()
		handlers := d.handlers[event.GetEventType()]
		d.mu.RUnlock()

		d.logger.Debug("Binder event",
			zap.String("eventType", event.GetEventType()),
			zap.String("aggregateID", event.GetAggregateID()),
			zap.Int("handlers", len(handlers)),
		)

		for _, handle := range handlers {
			if err := handle(ctx, event); err != nil {
				failureCount++
				d.logger.Warn("Event handler failed",
					zap.String("eventType", event.GetEventType()),
					zap.Error(err),
				)
			}
		}
	}

	d.logger.Debug("Events dispatched",
		zap.Int("count", len(evts)),
		zap.Int("failures", failureCount),
		zap.Duration("duration", time.Since(startTime)),
	)
	return nil
}

// Package event provides the in-memory event bus that carries domain events
// to their handlers.
package event

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/garagehq/gms-backend/internal/domain/shared"
)

// subscription pairs a handler with the event types it wants. A nil type set
// means the handler receives every event.
type subscription struct {
	handler shared.EventHandler
	types   map[string]struct{}
}

func (s subscription) wants(eventType string) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[eventType]
	return ok
}

// InMemoryEventBus delivers domain events to subscribed handlers within the
// process. Handler failures are logged and never propagate back to the
// publisher.
type InMemoryEventBus struct {
	mu      sync.RWMutex
	subs    []subscription
	logger  *zap.Logger
	running atomic.Bool
	wg      sync.WaitGroup
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: logger}
}

// Publish delivers events to matching handlers. While the bus is running
// delivery is asynchronous; before Start or after Stop it falls back to
// inline delivery so no event is dropped.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, ev := range events {
		b.mu.RLock()
		var targets []shared.EventHandler
		for _, sub := range b.subs {
			if sub.wants(ev.EventType()) {
				targets = append(targets, sub.handler)
			}
		}
		b.mu.RUnlock()

		if len(targets) == 0 {
			continue
		}

		if b.running.Load() {
			b.wg.Add(1)
			go func(ev shared.DomainEvent, targets []shared.EventHandler) {
				defer b.wg.Done()
				b.deliver(context.WithoutCancel(ctx), ev, targets)
			}(ev, targets)
		} else {
			b.deliver(ctx, ev, targets)
		}
	}
	return nil
}

func (b *InMemoryEventBus) deliver(ctx context.Context, ev shared.DomainEvent, targets []shared.EventHandler) {
	for _, h := range targets {
		if err := b.safeHandle(ctx, h, ev); err != nil {
			b.logger.Error("event handler failed",
				zap.String("event_type", ev.EventType()),
				zap.String("event_id", ev.EventID().String()),
				zap.String("garage_id", ev.GarageID().String()),
				zap.Error(err),
			)
		}
	}
}

func (b *InMemoryEventBus) safeHandle(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", ev.EventType()),
				zap.Any("panic", r),
			)
		}
	}()
	return h.Handle(ctx, ev)
}

// Subscribe registers a handler. With no explicit event types the handler's
// own EventTypes() decide; an empty result subscribes it to everything.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	var types map[string]struct{}
	if len(eventTypes) > 0 {
		types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			types[t] = struct{}{}
		}
	}

	b.mu.Lock()
	b.subs = append(b.subs, subscription{handler: handler, types: types})
	b.mu.Unlock()

	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes every subscription held by the handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	kept := b.subs[:0]
	for _, sub := range b.subs {
		if sub.handler != handler {
			kept = append(kept, sub)
		}
	}
	b.subs = kept
	b.mu.Unlock()
}

// Start switches the bus to asynchronous delivery
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop waits for in-flight deliveries to finish
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.logger.Warn("event bus stopped with deliveries still in flight")
		return ctx.Err()
	}

	b.logger.Info("event bus stopped")
	return nil
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)

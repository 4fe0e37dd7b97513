package shared

import "context"

// EventHandler consumes domain events delivered by the bus
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes names the event types this handler wants. An empty slice
	// subscribes it to every event.
	EventTypes() []string
}

// EventPublisher is the write side of the bus. Services hold this interface
// and publish collected aggregate events after their transaction commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber is the read side of the bus
type EventSubscriber interface {
	// Subscribe registers a handler. Explicit eventTypes override the
	// handler's own EventTypes.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus combines both sides plus lifecycle control
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

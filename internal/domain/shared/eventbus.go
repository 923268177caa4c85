package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants. An empty
	// slice subscribes it to everything.
	EventTypes() []string
}

// EventPublisher is the write side of the bus. Services depend on this
// narrow interface so tests can substitute a recorder.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers handlers. Passing explicit eventTypes
// overrides whatever the handler's EventTypes reports.
type EventSubscriber interface {
	Subscribe(handler EventHandler, eventTypes ...string)
}

// EventBus is the full publish and subscribe surface.
type EventBus interface {
	EventPublisher
	EventSubscriber
}

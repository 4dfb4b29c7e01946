package shared

import "context"

// EventHandler consumes domain events delivered by the bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error

	// EventTypes lists the event types this handler wants. Empty
	// means every event, which is what the stock feed broadcaster
	// and the Kafka sink use.
	EventTypes() []string
}

// EventPublisher is the side of the bus aggregates publish through
// after a successful save.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber registers and removes handlers.
type EventSubscriber interface {
	// Subscribe registers a handler. Explicit eventTypes override the
	// handler's own EventTypes.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is the full publish/subscribe surface plus lifecycle.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

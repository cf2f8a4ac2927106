package bus

import "time"

// EventBus is a thread-safe, in-process pub/sub bus.
//
// Handlers subscribe by Event.Type; the AnyType subscription receives every
// event. Publish delivers synchronously in the caller goroutine and joins the
// errors of all handlers, so handlers should be quick.
type EventBus interface {
	// Publish delivers the event to all active subscribers of its type.
	Publish(event Event) error
	// PublishAsync publishes in a separate goroutine. The channel receives the
	// joined error (or nil) and is closed.
	PublishAsync(event Event) <-chan error
	// Subscribe registers a handler for eventType and returns a handle that
	// can be used to cancel later.
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
	// Unsubscribe cancels the subscription. Nil is a no-op.
	Unsubscribe(Subscription) error
	// Subscribers returns the number of active subscriptions for eventType.
	Subscribers(eventType string) int
}

// AnyType subscribes a handler to every event type.
const AnyType = "*"

// Event is a message transported by the bus. Treat it as read-only.
type Event struct {
	Type   string    `json:"type"`
	Source string    `json:"source"`
	Time   time.Time `json:"time"`
	Data   any       `json:"data,omitempty"`
}

type (
	// EventHandler is invoked per delivered event. Errors are aggregated by Publish.
	EventHandler func(event Event) error
)

// Subscription represents a registered handler bound to an event type.
type Subscription interface {
	ID() string
	EventType() string
	IsActive() bool
	// Cancel de-registers the handler. Multiple calls are safe.
	Cancel() error
}

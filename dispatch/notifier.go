package dispatch

// Entity types carried on change events.
const (
	EntityCall = "call"
	EntityUnit = "unit"
)

// Event describes a single entity change pushed to subscribers after a
// transition commits. NewState carries the post-transition state so
// subscribers never need to refetch.
type Event struct {
	EntityType string      `json:"entityType"`
	ID         string      `json:"id"`
	NewState   interface{} `json:"newState"`
}

// Notifier delivers change events to any number of subscribers. Delivery is
// best-effort at-least-once; publishing must never block a dispatch.
type Notifier interface {
	Publish(event Event)
}

type nopNotifier struct{}

func (nopNotifier) Publish(Event) {}

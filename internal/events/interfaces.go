package events

//go:generate mockgen -destination=mock/mock_interfaces.go -package=mockevents -source=interfaces.go

import "context"

// Listener reacts to dispatched events.
// ID is the listener's identity: subscribing two listeners with the same ID under
// the same key stores only the first.
type Listener interface {
	ID() string
	HandleEvent(ctx context.Context, event *Event) error
}

// Dispatcher queues events and delivers them to subscribed listeners in dispatch order
type Dispatcher interface {
	// Subscribe adds a listener for an event kind, or for every kind with All
	Subscribe(key Kind, listener Listener)

	// Unsubscribe removes a listener from a key
	Unsubscribe(key Kind, listener Listener)

	// Dispatch queues an event. The call that starts a drain returns once the queue is empty.
	Dispatch(ctx context.Context, event *Event) error

	// Reset drops queued events and releases the drain, keeping subscriptions
	Reset()

	// ClearAll drops queued events and every subscription
	ClearAll()

	// ListenerCount returns the number of listeners for a key
	ListenerCount(key Kind) int
}

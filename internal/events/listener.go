package events

import "context"

// HandlerFunc is the function form of a listener
type HandlerFunc func(ctx context.Context, event *Event) error

type funcListener struct {
	id string
	fn HandlerFunc
}

// NewListener wraps a function as a Listener with the given identity
func NewListener(id string, fn HandlerFunc) Listener {
	return &funcListener{id: id, fn: fn}
}

func (l *funcListener) ID() string { return l.id }

func (l *funcListener) HandleEvent(ctx context.Context, event *Event) error {
	if l.fn == nil {
		return nil
	}
	return l.fn(ctx, event)
}

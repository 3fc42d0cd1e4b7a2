package notifications

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/KirkDiggler/gameiq/internal/events"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// ListenerConfig holds configuration for the notification listener
type ListenerConfig struct {
	Sinks   []Sink
	Enabled bool
	Logger  *slog.Logger
}

// Listener renders each event and fans it out to every sink.
// While disabled it drops events, the way a notification permission gate does.
type Listener struct {
	sinks   []Sink
	enabled atomic.Bool
	log     *slog.Logger
}

var _ events.Listener = (*Listener)(nil)

// NewListener creates a notification listener
func NewListener(cfg *ListenerConfig) *Listener {
	if cfg == nil {
		panic("listener config is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Listener{
		sinks: cfg.Sinks,
		log:   logger.With("component", "notifications"),
	}
	l.enabled.Store(cfg.Enabled)
	return l
}

// ID implements events.Listener
func (l *Listener) ID() string {
	return "notifications"
}

// SetEnabled grants or revokes notification permission
func (l *Listener) SetEnabled(enabled bool) {
	l.enabled.Store(enabled)
}

// Enabled reports whether notifications are delivered
func (l *Listener) Enabled() bool {
	return l.enabled.Load()
}

// HandleEvent implements events.Listener.
// Every sink is tried; their failures are joined into one error.
func (l *Listener) HandleEvent(ctx context.Context, event *events.Event) error {
	if !l.Enabled() {
		return nil
	}

	payload, err := Build(event)
	if err != nil {
		return err
	}

	var errs []error
	for _, sink := range l.sinks {
		if err := sink.Send(ctx, payload); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return apperrors.Wrapf(errors.Join(errs...), "%d of %d sinks failed for event %s", len(errs), len(l.sinks), event.ID)
	}

	l.log.DebugContext(ctx, "notification sent", "event_id", event.ID, "title", payload.Title)
	return nil
}

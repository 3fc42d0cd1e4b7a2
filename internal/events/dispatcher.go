package events

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"
	"time"

	"github.com/samber/lo"

	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// DispatcherConfig holds the optional settings of an EventDispatcher
type DispatcherConfig struct {
	// Logger receives listener failures. Defaults to slog.Default().
	Logger *slog.Logger

	// ListenerTimeout bounds each listener invocation. Zero waits forever.
	// A call that times out keeps running in the background; until it returns,
	// later events skip that listener so its calls never overlap.
	ListenerTimeout time.Duration

	// ValidateEvents rejects malformed events at Dispatch instead of queueing them
	ValidateEvents bool
}

// EventDispatcher delivers events to listeners one at a time, in dispatch order.
//
// At most one drain loop is live at any moment. The goroutine whose Dispatch call
// finds the dispatcher idle runs the loop until the queue is empty; concurrent
// Dispatch calls only append to the queue and return.
//
// For each event, listeners subscribed to its kind run first, then listeners
// subscribed to All, each group in subscription order. A listener that returns an
// error or panics is logged and skipped; delivery carries on.
type EventDispatcher struct {
	log             *slog.Logger
	listenerTimeout time.Duration
	validateEvents  bool

	mu         sync.Mutex
	listeners  map[Kind][]Listener
	queue      []*Event
	draining   bool
	generation uint64

	// listener IDs whose timed-out call has not returned yet
	abandoned map[string]struct{}
}

var _ Dispatcher = (*EventDispatcher)(nil)

// NewDispatcher creates a new event dispatcher
func NewDispatcher(cfg *DispatcherConfig) *EventDispatcher {
	if cfg == nil {
		cfg = &DispatcherConfig{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &EventDispatcher{
		log:             logger.With("component", "event_dispatcher"),
		listenerTimeout: cfg.ListenerTimeout,
		validateEvents:  cfg.ValidateEvents,
		listeners:       make(map[Kind][]Listener),
		abandoned:       make(map[string]struct{}),
	}
}

// Subscribe adds a listener for key. Re-subscribing the same listener ID is a no-op;
// a different listener that reuses a subscribed ID is dropped with a warning.
// Listeners with an empty ID are rejected.
func (d *EventDispatcher) Subscribe(key Kind, listener Listener) {
	if listener == nil {
		return
	}

	id := listener.ID()
	if id == "" {
		d.log.Warn("listener rejected, empty ID", "key", key)
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if existing, found := lo.Find(d.listeners[key], sameListener(listener)); found {
		if !sameInstance(existing, listener) {
			d.log.Warn("listener ID already subscribed, dropping new listener", "key", key, "listener", id)
		}
		return
	}
	d.listeners[key] = append(d.listeners[key], listener)

	d.log.Debug("listener subscribed", "key", key, "listener", id)
}

// Unsubscribe removes a listener from key if present
func (d *EventDispatcher) Unsubscribe(key Kind, listener Listener) {
	if listener == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	match := sameListener(listener)
	current := d.listeners[key]
	remaining := lo.Reject(current, func(l Listener, _ int) bool {
		return match(l)
	})
	if len(remaining) == len(current) {
		return
	}

	if len(remaining) == 0 {
		delete(d.listeners, key)
	} else {
		d.listeners[key] = remaining
	}

	d.log.Debug("listener unsubscribed", "key", key, "listener", listener.ID())
}

// Dispatch appends the event to the queue.
//
// If no drain is running, the calling goroutine drains the queue and Dispatch
// returns once it is empty. Otherwise Dispatch returns as soon as the event is
// queued; the running drain picks it up. Listener failures are never returned.
func (d *EventDispatcher) Dispatch(ctx context.Context, event *Event) error {
	if event == nil {
		return apperrors.InvalidArgument("event cannot be nil")
	}

	if d.validateEvents {
		if err := event.Validate(); err != nil {
			return err
		}
	}

	d.mu.Lock()
	d.queue = append(d.queue, event)
	if d.draining {
		pending := len(d.queue)
		d.mu.Unlock()

		d.log.Debug("event queued behind active drain", "event_id", event.ID, "kind", event.Kind, "pending", pending)
		return nil
	}
	d.draining = true
	generation := d.generation
	d.mu.Unlock()

	// Events queued by other callers are delivered here too; their delivery
	// must not be cut short because this caller's context ends.
	d.drain(context.WithoutCancel(ctx), generation)
	return nil
}

// Reset drops queued events and clears the drain flag. Subscriptions are kept.
// A drain loop that is still inside a listener exits once that listener returns.
func (d *EventDispatcher) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := d.resetLocked()
	d.log.Info("dispatcher reset", "dropped_events", dropped)
}

// ClearAll drops queued events, clears the drain flag and removes every subscription
func (d *EventDispatcher) ClearAll() {
	d.mu.Lock()
	defer d.mu.Unlock()

	dropped := d.resetLocked()
	d.listeners = make(map[Kind][]Listener)
	d.log.Info("dispatcher cleared", "dropped_events", dropped)
}

// ListenerCount returns the number of listeners subscribed under key
func (d *EventDispatcher) ListenerCount(key Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.listeners[key])
}

// TotalListenerCount returns the number of subscriptions across all keys
func (d *EventDispatcher) TotalListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return lo.SumBy(lo.Values(d.listeners), func(ls []Listener) int { return len(ls) })
}

// Pending returns the number of queued events not yet picked up by the drain
func (d *EventDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	return len(d.queue)
}

// Draining reports whether a drain loop currently owns the queue
func (d *EventDispatcher) Draining() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.draining
}

func (d *EventDispatcher) resetLocked() int {
	dropped := len(d.queue)
	d.queue = nil
	d.draining = false
	d.generation++
	return dropped
}

func (d *EventDispatcher) drain(ctx context.Context, generation uint64) {
	for {
		event, ok := d.next(generation)
		if !ok {
			return
		}
		d.deliver(ctx, event)
	}
}

// next pops the front of the queue. It reports false when the queue is empty,
// clearing the drain flag, or when a Reset has retired this loop.
func (d *EventDispatcher) next(generation uint64) (*Event, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if generation != d.generation {
		return nil, false
	}

	if len(d.queue) == 0 {
		d.draining = false
		return nil, false
	}

	event := d.queue[0]
	d.queue[0] = nil
	d.queue = d.queue[1:]
	return event, true
}

func (d *EventDispatcher) deliver(ctx context.Context, event *Event) {
	for _, listener := range d.snapshot(event.Kind) {
		d.invoke(ctx, event, event.Kind, listener)
	}

	for _, listener := range d.snapshot(All) {
		d.invoke(ctx, event, All, listener)
	}
}

func (d *EventDispatcher) snapshot(key Kind) []Listener {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.listeners[key]) == 0 {
		return nil
	}

	listeners := make([]Listener, len(d.listeners[key]))
	copy(listeners, d.listeners[key])
	return listeners
}

func (d *EventDispatcher) invoke(ctx context.Context, event *Event, key Kind, listener Listener) {
	if err := d.call(ctx, event, listener); err != nil {
		d.log.Error("event listener failed",
			"key", key,
			"listener", listener.ID(),
			"event_id", event.ID,
			"kind", event.Kind,
			"error", err)
	}
}

func (d *EventDispatcher) call(ctx context.Context, event *Event, listener Listener) error {
	if d.listenerTimeout <= 0 {
		return handleSafely(ctx, event, listener)
	}

	id := listener.ID()
	if d.isAbandoned(id) {
		d.log.Warn("listener skipped, previous call still running",
			"listener", id,
			"event_id", event.ID,
			"kind", event.Kind)
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, d.listenerTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- handleSafely(ctx, event, listener)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		d.abandon(id, done)
		return apperrors.WrapWithCode(ctx.Err(), apperrors.CodeTimeout,
			fmt.Sprintf("listener %s did not finish within %s", id, d.listenerTimeout))
	}
}

func (d *EventDispatcher) isAbandoned(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.abandoned[id]
	return ok
}

// abandon marks id busy until the timed-out call sends on done
func (d *EventDispatcher) abandon(id string, done <-chan error) {
	d.mu.Lock()
	d.abandoned[id] = struct{}{}
	d.mu.Unlock()

	go func() {
		<-done

		d.mu.Lock()
		delete(d.abandoned, id)
		d.mu.Unlock()
	}()
}

func handleSafely(ctx context.Context, event *Event, listener Listener) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.Internalf("listener %s panicked: %v", listener.ID(), r)
		}
	}()

	return listener.HandleEvent(ctx, event)
}

func sameListener(target Listener) func(Listener) bool {
	id := target.ID()
	return func(l Listener) bool {
		return l.ID() == id
	}
}

func sameInstance(a, b Listener) bool {
	t := reflect.TypeOf(a)
	if t != reflect.TypeOf(b) || !t.Comparable() {
		return false
	}
	return a == b
}

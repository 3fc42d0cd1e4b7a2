package listeners

import (
	"context"
	"sync"

	"github.com/samber/lo"

	"github.com/KirkDiggler/gameiq/internal/events"
)

// Delivery is one event as a recorder saw it
type Delivery struct {
	Event *events.Event
	Key   events.Kind
}

// Recorder keeps every event it receives, in order
type Recorder struct {
	id  string
	key events.Kind

	mu         sync.Mutex
	deliveries []Delivery
}

var _ events.Listener = (*Recorder)(nil)

// NewRecorder creates a recorder with the given identity.
// key is noted on each delivery so reports can tell subscriptions apart.
func NewRecorder(id string, key events.Kind) *Recorder {
	return &Recorder{id: id, key: key}
}

// ID implements events.Listener
func (r *Recorder) ID() string {
	return r.id
}

// HandleEvent implements events.Listener
func (r *Recorder) HandleEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.deliveries = append(r.deliveries, Delivery{Event: event, Key: r.key})
	return nil
}

// Deliveries returns a copy of everything recorded so far
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Events returns the recorded events in delivery order
func (r *Recorder) Events() []*events.Event {
	return lo.Map(r.Deliveries(), func(d Delivery, _ int) *events.Event {
		return d.Event
	})
}

// IDs returns the recorded event ids in delivery order
func (r *Recorder) IDs() []string {
	return lo.Map(r.Deliveries(), func(d Delivery, _ int) string {
		return d.Event.ID
	})
}

// CountByKind tallies the recorded events per kind
func (r *Recorder) CountByKind() map[events.Kind]int {
	return lo.CountValuesBy(r.Deliveries(), func(d Delivery) events.Kind {
		return d.Event.Kind
	})
}

// Len returns the number of recorded events
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}

// Clear forgets every recorded event
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deliveries = nil
}

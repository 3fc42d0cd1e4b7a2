package events_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
	"github.com/KirkDiggler/gameiq/internal/events"
	mockevents "github.com/KirkDiggler/gameiq/internal/events/mock"
	"github.com/KirkDiggler/gameiq/internal/testutils"
)

type DispatcherSuite struct {
	suite.Suite
	ctx        context.Context
	logs       *bytes.Buffer
	dispatcher *events.EventDispatcher
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	s.ctx = context.Background()
	s.logs = &bytes.Buffer{}
	s.dispatcher = events.NewDispatcher(&events.DispatcherConfig{
		Logger: slog.New(slog.NewTextHandler(s.logs, &slog.HandlerOptions{Level: slog.LevelDebug})),
	})
}

// recorder collects the IDs of the events it receives
type recorder struct {
	id  string
	mu  sync.Mutex
	ids []string
}

func newRecorder(id string) *recorder {
	return &recorder{id: id}
}

func (r *recorder) ID() string { return r.id }

func (r *recorder) HandleEvent(_ context.Context, event *events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ids = append(r.ids, event.ID)
	return nil
}

func (r *recorder) received() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// gate blocks the first event it sees until released
type gate struct {
	id      string
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func newGate(id string) *gate {
	return &gate{id: id, started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gate) ID() string { return g.id }

func (g *gate) HandleEvent(_ context.Context, _ *events.Event) error {
	first := false
	g.once.Do(func() {
		first = true
		close(g.started)
	})
	if first {
		<-g.release
	}
	return nil
}

func (s *DispatcherSuite) waitFor(ch <-chan struct{}) {
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		s.FailNow("timed out waiting for listener")
	}
}

func (s *DispatcherSuite) dispatchAsync(event *events.Event) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.dispatcher.Dispatch(s.ctx, event)
	}()
	return done
}

func (s *DispatcherSuite) waitDispatch(done <-chan error) {
	select {
	case err := <-done:
		s.NoError(err)
	case <-time.After(2 * time.Second):
		s.FailNow("dispatch did not return")
	}
}

func (s *DispatcherSuite) TestSubscribeAndDispatch() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, rec)

	err := s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "e1"))

	s.NoError(err)
	s.Equal([]string{"e1"}, rec.received())
	s.False(s.dispatcher.Draining())
	s.Zero(s.dispatcher.Pending())
}

func (s *DispatcherSuite) TestOrderingWithoutAwaiting() {
	g := newGate("gate")
	all := newRecorder("all")
	s.dispatcher.Subscribe(events.All, g)
	s.dispatcher.Subscribe(events.All, all)

	first := s.dispatchAsync(testutils.CreateTestEvent(events.KindGoal, "A"))
	s.waitFor(g.started)

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindAssist, "B")))
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindPenalty, "C")))
	s.Equal(2, s.dispatcher.Pending())

	close(g.release)
	s.waitDispatch(first)

	s.Equal([]string{"A", "B", "C"}, all.received())
}

func (s *DispatcherSuite) TestKindRouting() {
	goals := newRecorder("goals")
	all := newRecorder("all")
	s.dispatcher.Subscribe(events.KindGoal, goals)
	s.dispatcher.Subscribe(events.All, all)

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindAssist, "assist-1")))

	s.Empty(goals.received())
	s.Equal([]string{"assist-1"}, all.received())
}

func (s *DispatcherSuite) TestKindListenersRunBeforeWildcard() {
	var order []string
	record := func(name string) events.HandlerFunc {
		return func(_ context.Context, _ *events.Event) error {
			order = append(order, name)
			return nil
		}
	}

	// Wildcard subscribed first on purpose
	s.dispatcher.Subscribe(events.All, events.NewListener("all-1", record("all-1")))
	s.dispatcher.Subscribe(events.KindGoal, events.NewListener("goal-1", record("goal-1")))
	s.dispatcher.Subscribe(events.All, events.NewListener("all-2", record("all-2")))
	s.dispatcher.Subscribe(events.KindGoal, events.NewListener("goal-2", record("goal-2")))

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g")))

	s.Equal([]string{"goal-1", "goal-2", "all-1", "all-2"}, order)
}

func (s *DispatcherSuite) TestSingleFlightDrain() {
	g := newGate("gate")
	goals := newRecorder("goals")
	s.dispatcher.Subscribe(events.KindGoal, g)
	s.dispatcher.Subscribe(events.KindGoal, goals)

	first := s.dispatchAsync(testutils.CreateTestEvent(events.KindGoal, "A"))
	s.waitFor(g.started)
	s.True(s.dispatcher.Draining())

	// Returns once queued; the running drain owns delivery
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "B")))
	s.Empty(goals.received())
	s.Equal(1, s.dispatcher.Pending())

	close(g.release)
	s.waitDispatch(first)

	s.Equal([]string{"A", "B"}, goals.received())
	s.False(s.dispatcher.Draining())
}

func (s *DispatcherSuite) TestConcurrentDispatchDeliversEachEventOnce() {
	all := newRecorder("all")
	s.dispatcher.Subscribe(events.All, all)

	var g errgroup.Group
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("e%d", i)
		g.Go(func() error {
			return s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, id))
		})
	}
	s.Require().NoError(g.Wait())
	s.False(s.dispatcher.Draining())

	received := all.received()
	s.Len(received, 50)
	seen := make(map[string]bool)
	for _, id := range received {
		s.False(seen[id], "event %s delivered twice", id)
		seen[id] = true
	}
}

func (s *DispatcherSuite) TestFaultIsolation() {
	failing := events.NewListener("failing", func(context.Context, *events.Event) error {
		return errors.New("toast renderer unavailable")
	})
	panicking := events.NewListener("panicking", func(context.Context, *events.Event) error {
		panic("badge overflow")
	})
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, failing)
	s.dispatcher.Subscribe(events.KindGoal, panicking)
	s.dispatcher.Subscribe(events.KindGoal, rec)

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g2")))

	s.Equal([]string{"g1", "g2"}, rec.received())
	s.Contains(s.logs.String(), "event listener failed")
	s.Contains(s.logs.String(), "toast renderer unavailable")
	s.Contains(s.logs.String(), "badge overflow")
}

func (s *DispatcherSuite) TestIdempotentSubscription() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, rec)
	s.dispatcher.Subscribe(events.KindGoal, rec)

	s.Equal(1, s.dispatcher.ListenerCount(events.KindGoal))

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.Equal([]string{"g1"}, rec.received())
	s.NotContains(s.logs.String(), "already subscribed")
}

func (s *DispatcherSuite) TestDuplicateIDKeepsFirstListener() {
	first := newRecorder("dup")
	second := newRecorder("dup")
	s.dispatcher.Subscribe(events.KindGoal, first)
	s.dispatcher.Subscribe(events.KindGoal, second)

	s.Equal(1, s.dispatcher.ListenerCount(events.KindGoal))
	s.Contains(s.logs.String(), "listener ID already subscribed, dropping new listener")

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.Equal([]string{"g1"}, first.received())
	s.Empty(second.received())
}

func (s *DispatcherSuite) TestSubscribeEmptyID() {
	called := false
	s.dispatcher.Subscribe(events.KindGoal, events.NewListener("", func(context.Context, *events.Event) error {
		called = true
		return nil
	}))

	s.Zero(s.dispatcher.ListenerCount(events.KindGoal))
	s.Contains(s.logs.String(), "listener rejected, empty ID")

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.False(called)
}

func (s *DispatcherSuite) TestSameListenerUnderDifferentKeys() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, rec)
	s.dispatcher.Subscribe(events.All, rec)

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))

	// One delivery per key it is subscribed under
	s.Equal([]string{"g1", "g1"}, rec.received())
	s.Equal(2, s.dispatcher.TotalListenerCount())
}

func (s *DispatcherSuite) TestUnsubscribe() {
	first := newRecorder("first")
	second := newRecorder("second")
	third := newRecorder("third")
	s.dispatcher.Subscribe(events.All, first)
	s.dispatcher.Subscribe(events.All, second)
	s.dispatcher.Subscribe(events.All, third)

	s.dispatcher.Unsubscribe(events.All, second)
	s.dispatcher.Unsubscribe(events.KindGoal, first) // not subscribed there, no-op

	var order []string
	s.dispatcher.Subscribe(events.All, events.NewListener("order", func(_ context.Context, _ *events.Event) error {
		order = append(order, "order")
		return nil
	}))

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindPenalty, "p1")))

	s.Equal([]string{"p1"}, first.received())
	s.Empty(second.received())
	s.Equal([]string{"p1"}, third.received())
	s.Equal(3, s.dispatcher.ListenerCount(events.All))
	s.Len(order, 1)
}

func (s *DispatcherSuite) TestResetAbandonsStuckDrain() {
	g := newGate("stuck")
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, g)
	s.dispatcher.Subscribe(events.All, rec)

	stuck := s.dispatchAsync(testutils.CreateTestEvent(events.KindGoal, "A"))
	s.waitFor(g.started)
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindAssist, "B")))
	s.Equal(1, s.dispatcher.Pending())

	s.dispatcher.Reset()

	s.Zero(s.dispatcher.Pending())
	s.False(s.dispatcher.Draining())
	s.Equal(1, s.dispatcher.ListenerCount(events.KindGoal))
	s.Equal(1, s.dispatcher.ListenerCount(events.All))

	// A fresh drain runs even though the first one never finished
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindPenalty, "C")))
	s.Equal([]string{"C"}, rec.received())

	// The abandoned loop finishes its current event and then retires
	close(g.release)
	s.waitDispatch(stuck)
	s.Equal([]string{"C", "A"}, rec.received())
	s.False(s.dispatcher.Draining())
	s.Contains(s.logs.String(), "dropped_events=1")
}

func (s *DispatcherSuite) TestClearAll() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.KindGoal, rec)
	s.dispatcher.Subscribe(events.All, rec)

	s.dispatcher.ClearAll()

	s.Zero(s.dispatcher.TotalListenerCount())
	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.Empty(rec.received())
}

func (s *DispatcherSuite) TestEndToEndGame() {
	all := newRecorder("all")
	goals := newRecorder("goals")
	s.dispatcher.Subscribe(events.All, all)
	s.dispatcher.Subscribe(events.KindGoal, goals)

	sequence := []*events.Event{
		testutils.CreateTestEvent(events.KindGameStart, "1-start"),
		testutils.CreateTestEvent(events.KindGoal, "2-goal"),
		testutils.CreateTestEvent(events.KindGoal, "3-goal"),
		testutils.CreateTestEvent(events.KindGoal, "4-goal"),
		testutils.CreateTestEvent(events.KindHatTrick, "5-hat-trick"),
		testutils.CreateTestEvent(events.KindGameEnd, "6-end"),
	}
	for _, e := range sequence {
		s.Require().NoError(s.dispatcher.Dispatch(s.ctx, e))
	}

	s.Equal([]string{"1-start", "2-goal", "3-goal", "4-goal", "5-hat-trick", "6-end"}, all.received())
	s.Equal([]string{"2-goal", "3-goal", "4-goal"}, goals.received())
}

func (s *DispatcherSuite) TestListenerMayDispatch() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.All, rec)
	s.dispatcher.Subscribe(events.KindGoal, events.NewListener("milestones", func(ctx context.Context, e *events.Event) error {
		return s.dispatcher.Dispatch(ctx, testutils.CreateTestEvent(events.KindMilestone, e.ID+"-milestone"))
	}))

	s.NoError(s.dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))

	s.Equal([]string{"g1", "g1-milestone"}, rec.received())
}

func (s *DispatcherSuite) TestCancelledCallerContextDoesNotReachListeners() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	var listenerErr error
	s.dispatcher.Subscribe(events.All, events.NewListener("ctx", func(ctx context.Context, _ *events.Event) error {
		listenerErr = ctx.Err()
		return nil
	}))

	s.NoError(s.dispatcher.Dispatch(ctx, testutils.CreateTestEvent(events.KindGoal, "g1")))
	s.NoError(listenerErr)
}

func (s *DispatcherSuite) TestNilEvent() {
	err := s.dispatcher.Dispatch(s.ctx, nil)

	s.Error(err)
	s.True(apperrors.IsInvalidArgument(err))
}

func (s *DispatcherSuite) TestMalformedEventIsDeliveredWithoutValidation() {
	rec := newRecorder("rec")
	s.dispatcher.Subscribe(events.All, rec)

	malformed := &events.Event{ID: "bad", Kind: events.KindGoal}
	s.NoError(s.dispatcher.Dispatch(s.ctx, malformed))

	s.Equal([]string{"bad"}, rec.received())
}

func (s *DispatcherSuite) TestSubscribeNilListener() {
	s.dispatcher.Subscribe(events.KindGoal, nil)
	s.dispatcher.Unsubscribe(events.KindGoal, nil)

	s.Zero(s.dispatcher.ListenerCount(events.KindGoal))
}

func (s *DispatcherSuite) TestMockListener() {
	ctrl := gomock.NewController(s.T())
	listener := mockevents.NewMockListener(ctrl)
	event := testutils.CreateTestEvent(events.KindGameEnd, "end")

	listener.EXPECT().ID().Return("mock").AnyTimes()
	listener.EXPECT().HandleEvent(gomock.Any(), event).Return(nil).Times(1)

	s.dispatcher.Subscribe(events.KindGameEnd, listener)
	s.NoError(s.dispatcher.Dispatch(s.ctx, event))
}

func (s *DispatcherSuite) TestTimedOutListenerNeverOverlaps() {
	dispatcher := events.NewDispatcher(&events.DispatcherConfig{
		Logger:          slog.New(slog.NewTextHandler(s.logs, nil)),
		ListenerTimeout: 10 * time.Millisecond,
	})

	release := make(chan struct{})
	var calls, running, peak atomic.Int32
	dispatcher.Subscribe(events.KindGoal, events.NewListener("slow", func(context.Context, *events.Event) error {
		calls.Add(1)
		n := running.Add(1)
		defer running.Add(-1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		<-release
		return nil
	}))
	rec := newRecorder("rec")
	dispatcher.Subscribe(events.KindGoal, rec)

	for _, id := range []string{"g1", "g2", "g3"} {
		s.NoError(dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, id)))
	}

	s.Equal(int32(1), calls.Load(), "later events skip the listener while its call is still running")
	s.Equal(int32(1), peak.Load())
	s.Equal([]string{"g1", "g2", "g3"}, rec.received())
	s.Contains(s.logs.String(), "listener skipped, previous call still running")

	close(release)

	// Once the abandoned call returns the listener receives events again
	s.Eventually(func() bool {
		_ = dispatcher.Dispatch(s.ctx, testutils.CreateTestEvent(events.KindGoal, "g4"))
		return calls.Load() == 2
	}, time.Second, 5*time.Millisecond)
	s.Equal(int32(1), peak.Load())
}

func TestDispatcher_ValidateEvents(t *testing.T) {
	dispatcher := events.NewDispatcher(&events.DispatcherConfig{ValidateEvents: true})
	rec := newRecorder("rec")
	dispatcher.Subscribe(events.All, rec)

	err := dispatcher.Dispatch(context.Background(), &events.Event{ID: "bad", Kind: events.KindGoal})
	if !apperrors.IsInvalidArgument(err) {
		t.Fatalf("expected invalid argument, got %v", err)
	}

	if err := dispatcher.Dispatch(context.Background(), testutils.CreateTestEvent(events.KindGoal, "good")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := rec.received()
	if len(got) != 1 || got[0] != "good" {
		t.Fatalf("expected only the valid event to be delivered, got %v", got)
	}
}

func TestDispatcher_ListenerTimeout(t *testing.T) {
	logs := &bytes.Buffer{}
	dispatcher := events.NewDispatcher(&events.DispatcherConfig{
		Logger:          slog.New(slog.NewTextHandler(logs, nil)),
		ListenerTimeout: 20 * time.Millisecond,
	})

	hung := make(chan struct{})
	defer close(hung)
	dispatcher.Subscribe(events.KindGoal, events.NewListener("hung", func(context.Context, *events.Event) error {
		<-hung
		return nil
	}))
	rec := newRecorder("rec")
	dispatcher.Subscribe(events.KindGoal, rec)

	if err := dispatcher.Dispatch(context.Background(), testutils.CreateTestEvent(events.KindGoal, "g1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := rec.received(); len(got) != 1 {
		t.Fatalf("expected sibling listener to run after the timeout, got %v", got)
	}
	if !bytes.Contains(logs.Bytes(), []byte("did not finish within 20ms")) {
		t.Fatalf("expected timeout to be logged, got %s", logs.String())
	}
}

package listeners_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/listeners"
	"github.com/KirkDiggler/gameiq/internal/testutils"
)

func TestRecorder(t *testing.T) {
	ctx := context.Background()
	recorder := listeners.NewRecorder("report", events.All)
	assert.Equal(t, "report", recorder.ID())

	require.NoError(t, recorder.HandleEvent(ctx, testutils.CreateTestEvent(events.KindGoal, "event-1")))
	require.NoError(t, recorder.HandleEvent(ctx, testutils.CreateTestEvent(events.KindGoal, "event-2")))
	require.NoError(t, recorder.HandleEvent(ctx, testutils.CreateTestEvent(events.KindGameEnd, "event-3")))

	assert.Equal(t, 3, recorder.Len())
	assert.Equal(t, []string{"event-1", "event-2", "event-3"}, recorder.IDs())
	assert.Equal(t, map[events.Kind]int{events.KindGoal: 2, events.KindGameEnd: 1}, recorder.CountByKind())

	deliveries := recorder.Deliveries()
	assert.Equal(t, events.All, deliveries[0].Key)
	assert.Len(t, recorder.Events(), 3)

	// Returned slices are copies
	deliveries[0] = listeners.Delivery{}
	assert.Equal(t, "event-1", recorder.IDs()[0])

	recorder.Clear()
	assert.Zero(t, recorder.Len())
}

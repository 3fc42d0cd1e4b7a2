package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mockdice "github.com/KirkDiggler/gameiq/internal/dice/mock"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/services"
	"github.com/KirkDiggler/gameiq/internal/services/simulation"
)

func TestNewProvider_InMemoryDefaults(t *testing.T) {
	ctx := context.Background()
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)

	provider, err := services.NewProvider(&services.ProviderConfig{
		Roller:         roller,
		ValidateEvents: true,
		MinInterval:    time.Nanosecond,
		MaxInterval:    time.Nanosecond,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, provider.Dispatcher.ListenerCount(events.All))
	assert.Equal(t, 1, provider.Dispatcher.ListenerCount(events.KindGameEnd))

	out, err := provider.SimulationService.SimulateGame(ctx, &simulation.SimulateGameInput{PlayerID: "mcdavid-97"})
	require.NoError(t, err)

	profile, err := provider.PlayerRepository.Get(ctx, "mcdavid-97")
	require.NoError(t, err)
	assert.Equal(t, 29, profile.SeasonStats.GamesPlayed)

	summary, err := provider.SummaryRepository.Get(ctx, out.Game.ID, "mcdavid-97")
	require.NoError(t, err)
	assert.Equal(t, "CGY", summary.Opponent)
	assert.Equal(t, "3-0", summary.Score)
}

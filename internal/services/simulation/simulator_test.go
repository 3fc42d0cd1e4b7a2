package simulation_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mockclock "github.com/KirkDiggler/gameiq/internal/clock/mock"
	mockdice "github.com/KirkDiggler/gameiq/internal/dice/mock"
	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/services/simulation"
	"github.com/KirkDiggler/gameiq/internal/testutils"
	"github.com/KirkDiggler/gameiq/internal/uuid"
)

func newTestSimulator(t *testing.T, roller *mockdice.ManualMockRoller) *simulation.GameSimulator {
	t.Helper()
	ctrl := gomock.NewController(t)
	tp := mockclock.NewMockTimeProvider(ctrl)
	tp.EXPECT().Now().Return(testutils.FixedTime).AnyTimes()

	sim := simulation.NewGameSimulator(&simulation.GameSimulatorConfig{
		HomeTeam:     simulation.LookupTeam("EDM"),
		AwayTeam:     simulation.LookupTeam("Calgary Flames"),
		Roller:       roller,
		TimeProvider: tp,
		GameIDs:      uuid.NewSequenceGenerator("g"),
	})
	sim.TrackPlayer(&entities.PlayerProfile{
		Player:      testutils.CreateTestPlayer(),
		SeasonStats: testutils.CreateTestSeasonStats(),
	})
	return sim
}

func TestGameSimulator_NewGame(t *testing.T) {
	sim := newTestSimulator(t, mockdice.NewManualMockRoller())

	game := sim.Game()
	assert.Equal(t, "game-g-1", game.ID)
	assert.Equal(t, "Edmonton Oilers", game.HomeTeam.Name)
	assert.Equal(t, "CGY", game.AwayTeam.Abbreviation)
	assert.Equal(t, entities.GameStatusScheduled, game.Status)
	assert.Equal(t, 1, game.Period)
	assert.Equal(t, "2024-12-15", game.Date)
}

func TestGameSimulator_FullGame(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)
	sim := newTestSimulator(t, roller)
	player := testutils.CreateTestPlayer()
	mate := testutils.CreateTestTeammate()

	start := sim.GameStart(player, 30)
	assert.Equal(t, "event-game-g-1-1", start.ID)
	assert.Equal(t, events.KindGameStart, start.Kind)
	assert.Equal(t, entities.GameStatusScheduled, start.Game.Status)

	sim.StartGame()

	first, err := sim.Goal(player, mate)
	require.NoError(t, err)
	goal, ok := first.Goal()
	require.True(t, ok)
	assert.Equal(t, "00:00", goal.PeriodTime)
	assert.Equal(t, events.GoalTypeEvenStrength, goal.GoalType)
	assert.Equal(t, []entities.Player{mate}, goal.AssistedBy)
	assert.Equal(t, 19, first.SeasonStats.Goals)
	assert.Equal(t, 54, first.SeasonStats.Points)
	assert.Equal(t, 1, first.Game.HomeTeam.Score)

	_, hit, err := sim.Milestone(player, events.MilestoneGoal)
	require.NoError(t, err)
	assert.False(t, hit, "19 goals is not a milestone")

	penalty, err := sim.Penalty(player)
	require.NoError(t, err)
	p, ok := penalty.Penalty()
	require.True(t, ok)
	assert.Equal(t, "Tripping", p.Infraction)
	assert.Equal(t, 2, p.DurationMinutes)
	assert.Equal(t, 10, penalty.SeasonStats.PenaltyMinutes)

	sim.AdvancePeriod()
	_, err = sim.Goal(player)
	require.NoError(t, err)
	sim.AdvancePeriod()
	third, err := sim.Goal(player)
	require.NoError(t, err)
	assert.Equal(t, 3, third.Game.Period)
	assert.Equal(t, 3, third.Game.HomeTeam.Score)
	assert.Equal(t, 1, first.Game.HomeTeam.Score, "earlier snapshots are unaffected")

	hatTrick, err := sim.HatTrick(player)
	require.NoError(t, err)
	ht, ok := hatTrick.HatTrick()
	require.True(t, ok)
	require.Len(t, ht.Goals, 3)
	assert.Equal(t, first.ID, ht.Goals[0].ID)
	assert.Equal(t, 1, ht.CareerHatTricks)

	end, err := sim.GameEnd(player)
	require.NoError(t, err)
	ge, ok := end.GameEnd()
	require.True(t, ok)
	assert.Equal(t, entities.GameStats{Goals: 3, Assists: 0, Points: 3, Shots: 3, PlusMinus: -2}, ge.GameStats)
	assert.Equal(t, entities.GameStatusFinal, end.Game.Status)
	assert.Equal(t, "3-0", end.Game.ScoreLine())
	assert.Equal(t, 29, end.SeasonStats.GamesPlayed)
	assert.InDelta(t, 1.93, end.SeasonStats.PointsPerGame, 0.001)
	assert.Equal(t,
		"Connor McDavid's 3-goal performance powered a 3-0 victory. They're averaging 1.93 points per game this season.",
		ge.AISummary)

	for _, e := range []*events.Event{start, first, penalty, third, hatTrick, end} {
		assert.NoError(t, e.Validate(), e.ID)
	}
}

func TestGameSimulator_EventsCarrySnapshots(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)
	sim := newTestSimulator(t, roller)
	player := testutils.CreateTestPlayer()

	sim.StartGame()
	event, err := sim.Goal(player)
	require.NoError(t, err)

	event.Game.HomeTeam.Score = 12
	event.Game.Status = entities.GameStatusFinal
	event.SeasonStats.Goals = 99

	assert.Equal(t, 1, sim.Game().HomeTeam.Score)
	assert.Equal(t, entities.GameStatusLive, sim.Game().Status)

	next, err := sim.Goal(player)
	require.NoError(t, err)
	assert.Equal(t, "2-0", next.Game.ScoreLine())
	assert.Equal(t, 20, next.SeasonStats.Goals)
}

func TestGameSimulator_PowerPlayGoal(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetRolls([]int{9, 31, 10})
	sim := newTestSimulator(t, roller)

	event, err := sim.Goal(testutils.CreateTestPlayer())
	require.NoError(t, err)

	goal, _ := event.Goal()
	assert.Equal(t, "08:30", goal.PeriodTime)
	assert.Equal(t, events.GoalTypePowerPlay, goal.GoalType)
	assert.Empty(t, goal.AssistedBy)
}

func TestGameSimulator_Assist(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)
	sim := newTestSimulator(t, roller)
	mate := testutils.CreateTestTeammate()

	event, err := sim.Assist(mate, testutils.CreateTestPlayer(), events.AssistTypePrimary)
	require.NoError(t, err)

	assist, ok := event.Assist()
	require.True(t, ok)
	assert.Equal(t, "mcdavid-97", assist.GoalScoredBy.ID)
	assert.Equal(t, mate, event.Player)
	assert.Equal(t, 1, event.SeasonStats.Assists, "untracked players start from zero")
	assert.Equal(t, 1, sim.SeasonStats(mate.ID).Points)
}

func TestGameSimulator_Milestone(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)
	sim := newTestSimulator(t, roller)

	rookie := entities.Player{ID: "rookie-1", Name: "Rookie", Position: entities.PositionLeftWing, Team: "Edmonton Oilers"}
	sim.TrackPlayer(&entities.PlayerProfile{Player: rookie, SeasonStats: entities.SeasonStats{Goals: 4, Points: 9}})

	_, err := sim.Goal(rookie)
	require.NoError(t, err)

	event, hit, err := sim.Milestone(rookie, events.MilestoneGoal)
	require.NoError(t, err)
	require.True(t, hit)

	m, ok := event.Milestone()
	require.True(t, ok)
	assert.Equal(t, "5th goal", m.Milestone)
	assert.Equal(t, 5, m.Value)
	assert.Equal(t, "Rookie reaches 5 goals this season!", m.Description)
	assert.False(t, m.IsCareerHigh)
	require.NotNil(t, m.DivisionRank)
	assert.Equal(t, 1, *m.DivisionRank)

	event, hit, err = sim.Milestone(rookie, events.MilestonePoint)
	require.NoError(t, err)
	require.True(t, hit)
	m, _ = event.Milestone()
	assert.Equal(t, "10th point", m.Milestone)

	_, _, err = sim.Milestone(rookie, events.MilestoneStreak)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestGameSimulator_HatTrickNeedsThreeGoals(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	roller.SetFallback(1)
	sim := newTestSimulator(t, roller)
	player := testutils.CreateTestPlayer()

	_, err := sim.Goal(player)
	require.NoError(t, err)

	_, err = sim.HatTrick(player)
	assert.True(t, apperrors.IsInvalidArgument(err))
}

func TestGameSimulator_LossSummary(t *testing.T) {
	roller := mockdice.NewManualMockRoller()
	// opponent goals, assists, shots, plus-minus
	roller.SetRolls([]int{3, 2, 1, 1})
	sim := newTestSimulator(t, roller)
	sim.StartGame()

	end, err := sim.GameEnd(testutils.CreateTestPlayer())
	require.NoError(t, err)

	ge, _ := end.GameEnd()
	assert.Equal(t, "0-2", end.Game.ScoreLine())
	assert.Equal(t, entities.GameStats{Assists: 1, Points: 1, Shots: 2, PlusMinus: -2}, ge.GameStats)
	assert.Equal(t,
		"Connor McDavid's solid and 1-assist performance wasn't enough in a 0-2 loss. They're averaging 1.83 points per game this season.",
		ge.AISummary)
}

func TestGameSimulator_RollerFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	roller := mockdice.NewMockRoller(ctrl)
	roller.EXPECT().Roll(1, 20, -1).Return(nil, errors.New("dice bag empty"))

	sim := simulation.NewGameSimulator(&simulation.GameSimulatorConfig{
		HomeTeam: simulation.LookupTeam("EDM"),
		AwayTeam: simulation.LookupTeam("CGY"),
		Roller:   roller,
	})

	_, err := sim.Goal(testutils.CreateTestPlayer())
	assert.ErrorContains(t, err, "failed to roll period minutes")
	assert.Equal(t, 0, sim.Game().HomeTeam.Score)
}

func TestLookupTeam(t *testing.T) {
	assert.Equal(t, "Toronto Maple Leafs", simulation.LookupTeam("tor").Name)
	assert.Equal(t, "BOS", simulation.LookupTeam("Boston Bruins").Abbreviation)

	unknown := simulation.LookupTeam("Seattle Kraken")
	assert.Equal(t, "Seattle Kraken", unknown.Name)
	assert.Equal(t, "SEA", unknown.Abbreviation)
	assert.Equal(t, "seattle-kraken", unknown.ID)
}

func TestOrdinal(t *testing.T) {
	tests := map[int]string{1: "st", 2: "nd", 3: "rd", 4: "th", 11: "th", 12: "th", 13: "th", 21: "st", 22: "nd", 40: "th", 101: "st", 111: "th"}
	for n, want := range tests {
		assert.Equal(t, want, simulation.Ordinal(n), n)
	}
}

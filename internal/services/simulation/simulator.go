package simulation

import (
	"fmt"
	"strings"

	"github.com/KirkDiggler/gameiq/internal/clock"
	"github.com/KirkDiggler/gameiq/internal/dice"
	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/uuid"
)

const penaltyMinutes = 2

var (
	infractions = []string{"Tripping", "Hooking", "Slashing", "High-sticking", "Interference"}
	milestones  = []int{5, 10, 15, 20, 25, 30, 40, 50}
)

// GameSimulatorConfig holds configuration for a GameSimulator
type GameSimulatorConfig struct {
	HomeTeam     entities.Team      // Required
	AwayTeam     entities.Team      // Required
	Roller       dice.Roller        // Required
	TimeProvider clock.TimeProvider // Optional, defaults to the system clock
	GameIDs      uuid.Generator     // Optional, defaults to random UUIDs
}

// GameSimulator produces well-formed events from a game it plays out.
// It owns the game state; every event carries a snapshot of it.
// A GameSimulator is not safe for concurrent use.
type GameSimulator struct {
	game     entities.Game
	roller   dice.Roller
	clock    clock.TimeProvider
	eventIDs *uuid.SequenceGenerator

	stats map[string]*entities.SeasonStats
	goals map[string][]*events.Event
}

// NewGameSimulator creates a simulator for a scheduled game
func NewGameSimulator(cfg *GameSimulatorConfig) *GameSimulator {
	if cfg == nil || cfg.Roller == nil {
		panic("dice roller is required")
	}
	if cfg.HomeTeam.Name == "" || cfg.AwayTeam.Name == "" {
		panic("both teams are required")
	}

	tp := cfg.TimeProvider
	if tp == nil {
		tp = clock.NewRealTimeProvider()
	}

	ids := cfg.GameIDs
	if ids == nil {
		ids = uuid.NewGoogleUUIDGenerator()
	}

	gameID := "game-" + ids.New()
	home, away := cfg.HomeTeam, cfg.AwayTeam
	home.Score, away.Score = 0, 0

	return &GameSimulator{
		game: entities.Game{
			ID:            gameID,
			HomeTeam:      home,
			AwayTeam:      away,
			Period:        1,
			TimeRemaining: "20:00",
			Status:        entities.GameStatusScheduled,
			Date:          tp.Now().UTC().Format("2006-01-02"),
		},
		roller:   cfg.Roller,
		clock:    tp,
		eventIDs: uuid.NewSequenceGenerator("event-" + gameID),
		stats:    make(map[string]*entities.SeasonStats),
		goals:    make(map[string][]*events.Event),
	}
}

// Game returns a snapshot of the current game state
func (s *GameSimulator) Game() entities.Game {
	return s.game
}

// TrackPlayer seeds the season totals the simulator updates for a player
func (s *GameSimulator) TrackPlayer(profile *entities.PlayerProfile) {
	stats := profile.SeasonStats
	s.stats[profile.ID] = &stats
}

// SeasonStats returns the current season totals for a player
func (s *GameSimulator) SeasonStats(playerID string) entities.SeasonStats {
	return *s.statsFor(playerID)
}

// StartGame puts the game live
func (s *GameSimulator) StartGame() {
	s.game.Status = entities.GameStatusLive
}

// AdvancePeriod moves to the next period
func (s *GameSimulator) AdvancePeriod() {
	s.game.Period++
	s.game.TimeRemaining = "20:00"
}

// GameStart creates the pre-game notification event
func (s *GameSimulator) GameStart(player entities.Player, minutesUntilStart int) *events.Event {
	return s.newEvent(player, &events.GameStartPayload{MinutesUntilStart: minutesUntilStart})
}

// Goal scores a goal for the scorer's team
func (s *GameSimulator) Goal(scorer entities.Player, assists ...entities.Player) (*events.Event, error) {
	periodTime, err := s.periodTime()
	if err != nil {
		return nil, err
	}

	powerPlay, err := dice.Chance(s.roller, 2, 10)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll goal type")
	}
	goalType := events.GoalTypeEvenStrength
	if powerPlay {
		goalType = events.GoalTypePowerPlay
	}

	if team := s.game.TeamFor(scorer.Team); team != nil {
		team.Score++
	} else {
		s.game.HomeTeam.Score++
	}

	stats := s.statsFor(scorer.ID)
	stats.Goals++
	stats.Points++
	stats.ShotsOnGoal++

	event := s.newEvent(scorer, &events.GoalPayload{
		AssistedBy: append([]entities.Player(nil), assists...),
		GoalType:   goalType,
		PeriodTime: periodTime,
	})
	s.goals[scorer.ID] = append(s.goals[scorer.ID], event)

	return event, nil
}

// Assist credits a player with an assist on a goal
func (s *GameSimulator) Assist(assister, scorer entities.Player, assistType events.AssistType) (*events.Event, error) {
	periodTime, err := s.periodTime()
	if err != nil {
		return nil, err
	}

	stats := s.statsFor(assister.ID)
	stats.Assists++
	stats.Points++

	return s.newEvent(assister, &events.AssistPayload{
		GoalScoredBy: scorer,
		AssistType:   assistType,
		PeriodTime:   periodTime,
	}), nil
}

// Penalty assesses a two-minute minor
func (s *GameSimulator) Penalty(player entities.Player) (*events.Event, error) {
	periodTime, err := s.periodTime()
	if err != nil {
		return nil, err
	}

	idx, err := dice.Between(s.roller, 0, len(infractions)-1)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll infraction")
	}

	s.statsFor(player.ID).PenaltyMinutes += penaltyMinutes

	return s.newEvent(player, &events.PenaltyPayload{
		Infraction:      infractions[idx],
		DurationMinutes: penaltyMinutes,
		PeriodTime:      periodTime,
	}), nil
}

// Milestone returns a milestone event when the player's season total in
// milestoneType sits exactly on a milestone, and false otherwise.
// Only goal and point milestones are tracked.
func (s *GameSimulator) Milestone(player entities.Player, milestoneType events.MilestoneType) (*events.Event, bool, error) {
	stats := s.statsFor(player.ID)

	var value int
	switch milestoneType {
	case events.MilestoneGoal:
		value = stats.Goals
	case events.MilestonePoint:
		value = stats.Points
	default:
		return nil, false, apperrors.InvalidArgumentf("milestones are not tracked for %s", milestoneType)
	}

	if !isMilestone(value) {
		return nil, false, nil
	}

	rank, err := dice.Between(s.roller, 1, 10)
	if err != nil {
		return nil, false, apperrors.Wrap(err, "failed to roll division rank")
	}

	event := s.newEvent(player, &events.MilestonePayload{
		MilestoneType: milestoneType,
		Milestone:     fmt.Sprintf("%d%s %s", value, Ordinal(value), milestoneType),
		Value:         value,
		Description:   fmt.Sprintf("%s reaches %d %ss this season!", player.Name, value, milestoneType),
		IsCareerHigh:  value >= 20,
		DivisionRank:  &rank,
	})
	return event, true, nil
}

// HatTrick creates the hat-trick event from the player's goals this game
func (s *GameSimulator) HatTrick(player entities.Player) (*events.Event, error) {
	goals := s.goals[player.ID]
	if len(goals) < 3 {
		return nil, apperrors.InvalidArgumentf("%s has %d goals, a hat trick needs 3", player.Name, len(goals))
	}

	career, err := dice.Between(s.roller, 1, 5)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll career hat tricks")
	}

	return s.newEvent(player, &events.HatTrickPayload{
		Goals:           append([]*events.Event(nil), goals...),
		CareerHatTricks: career,
	}), nil
}

// GameEnd finishes the game and creates the final event with the player's line.
// The opponent's late goals are rolled here, so a loss is possible.
func (s *GameSimulator) GameEnd(player entities.Player) (*events.Event, error) {
	opponentGoals, err := dice.Between(s.roller, 0, 4)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll opponent goals")
	}
	if s.game.HomeTeam.Name == player.Team {
		s.game.AwayTeam.Score += opponentGoals
	} else {
		s.game.HomeTeam.Score += opponentGoals
	}

	assists, err := dice.Between(s.roller, 0, 2)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll assists")
	}
	shots, err := dice.Between(s.roller, 2, 9)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll shots")
	}
	plusMinus, err := dice.Between(s.roller, -2, 2)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to roll plus-minus")
	}

	goals := len(s.goals[player.ID])
	gameStats := entities.GameStats{
		Goals:     goals,
		Assists:   assists,
		Points:    goals + assists,
		Shots:     max(shots, goals),
		PlusMinus: plusMinus,
	}

	s.game.Status = entities.GameStatusFinal
	s.game.TimeRemaining = "00:00"

	stats := s.statsFor(player.ID)
	stats.GamesPlayed++
	stats.PlusMinus += plusMinus
	stats.RecalculatePointsPerGame()

	return s.newEvent(player, &events.GameEndPayload{
		GameStats: gameStats,
		AISummary: s.summarize(player, gameStats),
	}), nil
}

// summarize writes the one-paragraph recap attached to game_end
func (s *GameSimulator) summarize(player entities.Player, line entities.GameStats) string {
	own, opp := s.game.HomeTeam, s.game.AwayTeam
	if s.game.AwayTeam.Name == player.Team {
		own, opp = opp, own
	}
	won := own.Score > opp.Score

	var b strings.Builder
	b.WriteString(player.Name)
	b.WriteString("'s ")
	if line.Goals > 0 {
		fmt.Fprintf(&b, "%d-goal ", line.Goals)
	} else {
		b.WriteString("solid ")
	}
	if line.Assists > 0 {
		fmt.Fprintf(&b, "and %d-assist ", line.Assists)
	}
	if won {
		fmt.Fprintf(&b, "performance powered a %d-%d victory.", own.Score, opp.Score)
	} else {
		fmt.Fprintf(&b, "performance wasn't enough in a %d-%d loss.", own.Score, opp.Score)
	}
	fmt.Fprintf(&b, " They're averaging %.2f points per game this season.", s.statsFor(player.ID).PointsPerGame)

	return b.String()
}

func (s *GameSimulator) newEvent(player entities.Player, payload events.Payload) *events.Event {
	return events.New(s.eventIDs.New(), s.clock.Now(), s.game, player, *s.statsFor(player.ID), payload)
}

func (s *GameSimulator) statsFor(playerID string) *entities.SeasonStats {
	stats, ok := s.stats[playerID]
	if !ok {
		stats = &entities.SeasonStats{}
		s.stats[playerID] = stats
	}
	return stats
}

func (s *GameSimulator) periodTime() (string, error) {
	minutes, err := dice.Between(s.roller, 0, 19)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to roll period minutes")
	}
	seconds, err := dice.Between(s.roller, 0, 59)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to roll period seconds")
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds), nil
}

func isMilestone(value int) bool {
	for _, m := range milestones {
		if m == value {
			return true
		}
	}
	return false
}

// Ordinal returns the English ordinal suffix for n: st, nd, rd or th
func Ordinal(n int) string {
	v := n % 100
	if v >= 11 && v <= 13 {
		return "th"
	}
	switch v % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	}
	return "th"
}

package simulation

//go:generate mockgen -destination=mock/mock_service.go -package=mocksimulation -source=service.go

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/KirkDiggler/gameiq/internal/clock"
	"github.com/KirkDiggler/gameiq/internal/dice"
	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/repositories/players"
	"github.com/KirkDiggler/gameiq/internal/uuid"
)

const (
	defaultOpponent          = "Calgary Flames"
	defaultMinutesUntilStart = 30
	defaultMinInterval       = 2 * time.Second
	defaultMaxInterval       = 5 * time.Second
)

// Service defines the game simulation service interface
type Service interface {
	// SimulateGame plays a scripted game for a player, dispatching each event as it happens.
	// Cancelling ctx aborts the game and resets the dispatcher.
	SimulateGame(ctx context.Context, input *SimulateGameInput) (*SimulateGameOutput, error)
}

// SimulateGameInput contains data for simulating a game
type SimulateGameInput struct {
	PlayerID          string
	Opponent          string // defaults to the Calgary Flames
	MinutesUntilStart int    // defaults to 30
}

// SimulateGameOutput is the result of a simulated game
type SimulateGameOutput struct {
	Game   entities.Game
	Events []*events.Event
}

type service struct {
	dispatcher   events.Dispatcher
	players      players.Repository
	roller       dice.Roller
	timeProvider clock.TimeProvider
	gameIDs      uuid.Generator
	minInterval  time.Duration
	maxInterval  time.Duration
	log          *slog.Logger
}

// ServiceConfig holds configuration for the simulation service
type ServiceConfig struct {
	Dispatcher   events.Dispatcher  // Required
	Players      players.Repository // Required
	Roller       dice.Roller        // Optional, will use default if nil
	TimeProvider clock.TimeProvider // Optional, will use default if nil
	GameIDs      uuid.Generator     // Optional, will use default if nil
	MinInterval  time.Duration      // Pause between events, zero uses the default
	MaxInterval  time.Duration
	Logger       *slog.Logger
}

// NewService creates a new simulation service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Dispatcher == nil {
		panic("dispatcher is required")
	}
	if cfg.Players == nil {
		panic("players repository is required")
	}

	svc := &service{
		dispatcher:   cfg.Dispatcher,
		players:      cfg.Players,
		roller:       cfg.Roller,
		timeProvider: cfg.TimeProvider,
		gameIDs:      cfg.GameIDs,
		minInterval:  cfg.MinInterval,
		maxInterval:  cfg.MaxInterval,
		log:          cfg.Logger,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.timeProvider == nil {
		svc.timeProvider = clock.NewRealTimeProvider()
	}
	if svc.gameIDs == nil {
		svc.gameIDs = uuid.NewGoogleUUIDGenerator()
	}
	if svc.minInterval <= 0 && svc.maxInterval <= 0 {
		svc.minInterval, svc.maxInterval = defaultMinInterval, defaultMaxInterval
	}
	if svc.maxInterval < svc.minInterval {
		svc.maxInterval = svc.minInterval
	}
	if svc.log == nil {
		svc.log = slog.Default()
	}
	svc.log = svc.log.With("component", "simulation")

	return svc
}

// step produces the next event of the script. A nil event with no error skips the step.
type step func() (*events.Event, error)

// SimulateGame implements Service
func (s *service) SimulateGame(ctx context.Context, input *SimulateGameInput) (*SimulateGameOutput, error) {
	if input == nil {
		return nil, apperrors.InvalidArgument("input cannot be nil")
	}
	if strings.TrimSpace(input.PlayerID) == "" {
		return nil, apperrors.InvalidArgument("player ID is required")
	}

	profile, err := s.players.Get(ctx, input.PlayerID)
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load player %s", input.PlayerID)
	}

	roster, err := s.players.List(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to load roster")
	}

	mate, ok := pickLinemate(profile, roster)
	if !ok {
		return nil, apperrors.InvalidArgumentf("no teammate available for %s", profile.Name)
	}

	home := LookupTeam(profile.Team)
	if profile.TeamAbbr != "" {
		home.Abbreviation = profile.TeamAbbr
	}
	away := LookupTeam(lo.CoalesceOrEmpty(strings.TrimSpace(input.Opponent), defaultOpponent))
	if strings.EqualFold(home.Name, away.Name) {
		return nil, apperrors.InvalidArgumentf("%s cannot play itself", home.Name)
	}

	minutes := input.MinutesUntilStart
	if minutes <= 0 {
		minutes = defaultMinutesUntilStart
	}

	sim := NewGameSimulator(&GameSimulatorConfig{
		HomeTeam:     home,
		AwayTeam:     away,
		Roller:       s.roller,
		TimeProvider: s.timeProvider,
		GameIDs:      s.gameIDs,
	})
	sim.TrackPlayer(profile)
	sim.TrackPlayer(mate)

	player, linemate := profile.Player, mate.Player
	log := s.log.With("game_id", sim.Game().ID, "player_id", player.ID)

	script := []step{
		func() (*events.Event, error) {
			return sim.GameStart(player, minutes), nil
		},
		func() (*events.Event, error) {
			sim.StartGame()
			return sim.Goal(player, linemate)
		},
		func() (*events.Event, error) {
			return sim.Assist(linemate, player, events.AssistTypePrimary)
		},
		func() (*events.Event, error) {
			event, _, err := sim.Milestone(player, events.MilestoneGoal)
			return event, err
		},
		func() (*events.Event, error) {
			return sim.Penalty(player)
		},
		func() (*events.Event, error) {
			sim.AdvancePeriod()
			return sim.Goal(player)
		},
		func() (*events.Event, error) {
			sim.AdvancePeriod()
			return sim.Goal(player, linemate)
		},
		func() (*events.Event, error) {
			return sim.HatTrick(player)
		},
		func() (*events.Event, error) {
			return sim.GameEnd(player)
		},
	}

	log.InfoContext(ctx, "simulating game",
		"home", home.Name,
		"away", away.Name,
		"linemate", linemate.Name)

	output := &SimulateGameOutput{}
	for i, next := range script {
		if i > 0 {
			if err := s.pause(ctx); err != nil {
				s.abort(ctx, log, err)
				if ctx.Err() != nil {
					return nil, apperrors.Wrap(err, "game simulation cancelled")
				}
				return nil, err
			}
		}

		event, err := next()
		if err != nil {
			s.abort(ctx, log, err)
			return nil, err
		}
		if event == nil {
			continue
		}

		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			s.abort(ctx, log, err)
			return nil, apperrors.Wrapf(err, "failed to dispatch %s event", event.Kind)
		}
		output.Events = append(output.Events, event)

		log.DebugContext(ctx, "event dispatched", "event_id", event.ID, "kind", event.Kind)
	}

	output.Game = sim.Game()
	log.InfoContext(ctx, "game simulated",
		"events", len(output.Events),
		"score", output.Game.ScoreLine())

	return output, nil
}

// abort drops anything still queued so a later game starts clean
func (s *service) abort(ctx context.Context, log *slog.Logger, cause error) {
	s.dispatcher.Reset()
	log.WarnContext(ctx, "game simulation aborted", "error", cause)
}

// pause waits a random interval between events, or until ctx is done
func (s *service) pause(ctx context.Context) error {
	wait := s.minInterval
	if spread := s.maxInterval - s.minInterval; spread > 0 {
		ms, err := dice.Between(s.roller, 0, int(spread/time.Millisecond))
		if err != nil {
			return apperrors.Wrap(err, "failed to roll event interval")
		}
		wait += time.Duration(ms) * time.Millisecond
	}

	if wait <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// pickLinemate prefers a teammate, then anyone else on the roster
func pickLinemate(profile *entities.PlayerProfile, roster []*entities.PlayerProfile) (*entities.PlayerProfile, bool) {
	others := lo.Reject(roster, func(p *entities.PlayerProfile, _ int) bool {
		return p.ID == profile.ID
	})
	if len(others) == 0 {
		return nil, false
	}

	if mate, ok := lo.Find(others, func(p *entities.PlayerProfile) bool {
		return p.Team == profile.Team
	}); ok {
		return mate, true
	}
	return others[0], true
}

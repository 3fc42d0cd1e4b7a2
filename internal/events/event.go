package events

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/KirkDiggler/gameiq/internal/entities"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

var validate = validator.New()

// Event is a single occurrence in a game.
// Once constructed an Event is treated as a value: listeners must not mutate it.
type Event struct {
	ID            string                  `json:"id" validate:"required"`
	Kind          Kind                    `json:"type" validate:"required,oneof=goal assist penalty milestone hat_trick game_start game_end"`
	Timestamp     time.Time               `json:"timestamp" validate:"required"`
	Game          entities.Game           `json:"game"`
	Player        entities.Player         `json:"player"`
	SeasonStats   entities.SeasonStats    `json:"season_stats"`
	LeagueRanking *entities.LeagueRanking `json:"league_ranking,omitempty" validate:"omitempty"`
	Payload       Payload                 `json:"payload" validate:"required"`
}

// New creates an event. The kind is taken from the payload so the two always agree.
func New(id string, timestamp time.Time, game entities.Game, player entities.Player, stats entities.SeasonStats, payload Payload) *Event {
	e := &Event{
		ID:          id,
		Timestamp:   timestamp,
		Game:        game,
		Player:      player,
		SeasonStats: stats,
		Payload:     payload,
	}
	if payload != nil {
		e.Kind = payload.Kind()
	}
	return e
}

// WithLeagueRanking attaches a ranking snapshot to the event
func (e *Event) WithLeagueRanking(ranking *entities.LeagueRanking) *Event {
	e.LeagueRanking = ranking
	return e
}

// Validate checks that every required field for the event's kind is present
func (e *Event) Validate() error {
	if e == nil {
		return apperrors.InvalidArgument("event cannot be nil")
	}

	if err := validate.Struct(e); err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "invalid event "+e.ID).
			WithMeta("event_id", e.ID).
			WithMeta("kind", string(e.Kind))
	}

	if e.Payload.Kind() != e.Kind {
		return apperrors.InvalidArgumentf("event %s has kind %s but carries a %s payload", e.ID, e.Kind, e.Payload.Kind()).
			WithMeta("event_id", e.ID)
	}

	return nil
}

// Goal returns the goal payload when the event is a goal
func (e *Event) Goal() (*GoalPayload, bool) {
	p, ok := e.Payload.(*GoalPayload)
	return p, ok
}

// Assist returns the assist payload when the event is an assist
func (e *Event) Assist() (*AssistPayload, bool) {
	p, ok := e.Payload.(*AssistPayload)
	return p, ok
}

// Penalty returns the penalty payload when the event is a penalty
func (e *Event) Penalty() (*PenaltyPayload, bool) {
	p, ok := e.Payload.(*PenaltyPayload)
	return p, ok
}

// Milestone returns the milestone payload when the event is a milestone
func (e *Event) Milestone() (*MilestonePayload, bool) {
	p, ok := e.Payload.(*MilestonePayload)
	return p, ok
}

// HatTrick returns the hat trick payload when the event is a hat trick
func (e *Event) HatTrick() (*HatTrickPayload, bool) {
	p, ok := e.Payload.(*HatTrickPayload)
	return p, ok
}

// GameStart returns the game start payload when the event is a game start
func (e *Event) GameStart() (*GameStartPayload, bool) {
	p, ok := e.Payload.(*GameStartPayload)
	return p, ok
}

// GameEnd returns the game end payload when the event is a game end
func (e *Event) GameEnd() (*GameEndPayload, bool) {
	p, ok := e.Payload.(*GameEndPayload)
	return p, ok
}

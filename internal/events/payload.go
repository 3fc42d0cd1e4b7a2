package events

import "github.com/KirkDiggler/gameiq/internal/entities"

// Payload carries the fields particular to one kind of event.
// The set of implementations is sealed to this package.
type Payload interface {
	Kind() Kind
	isPayload()
}

// GoalType describes the manpower situation a goal was scored in
type GoalType string

const (
	GoalTypeEvenStrength GoalType = "even_strength"
	GoalTypePowerPlay    GoalType = "power_play"
	GoalTypeShortHanded  GoalType = "short_handed"
	GoalTypeEmptyNet     GoalType = "empty_net"
)

// AssistType distinguishes the last and second-to-last passer
type AssistType string

const (
	AssistTypePrimary   AssistType = "primary"
	AssistTypeSecondary AssistType = "secondary"
)

// MilestoneType is the stat a milestone was reached in
type MilestoneType string

const (
	MilestoneGoal   MilestoneType = "goal"
	MilestoneAssist MilestoneType = "assist"
	MilestonePoint  MilestoneType = "point"
	MilestoneGame   MilestoneType = "game"
	MilestoneStreak MilestoneType = "streak"
)

// GoalPayload is attached to goal events
type GoalPayload struct {
	AssistedBy []entities.Player `json:"assisted_by,omitempty" validate:"max=2,dive"`
	GoalType   GoalType          `json:"goal_type" validate:"required,oneof=even_strength power_play short_handed empty_net"`
	PeriodTime string            `json:"period_time" validate:"required"`
}

// AssistPayload is attached to assist events
type AssistPayload struct {
	GoalScoredBy entities.Player `json:"goal_scored_by"`
	AssistType   AssistType      `json:"assist_type" validate:"required,oneof=primary secondary"`
	PeriodTime   string          `json:"period_time" validate:"required"`
}

// PenaltyPayload is attached to penalty events
type PenaltyPayload struct {
	Infraction      string `json:"infraction" validate:"required"`
	DurationMinutes int    `json:"duration" validate:"gt=0"`
	PeriodTime      string `json:"period_time" validate:"required"`
}

// MilestonePayload is attached to milestone events
type MilestonePayload struct {
	MilestoneType MilestoneType `json:"milestone_type" validate:"required,oneof=goal assist point game streak"`
	Milestone     string        `json:"milestone" validate:"required"`
	Value         int           `json:"value" validate:"gt=0"`
	Description   string        `json:"description" validate:"required"`
	IsCareerHigh  bool          `json:"is_career_high"`
	DivisionRank  *int          `json:"division_rank,omitempty" validate:"omitempty,gte=1"`
}

// HatTrickPayload is attached to hat_trick events. Goals are the goal events that made it.
type HatTrickPayload struct {
	Goals           []*Event `json:"goals" validate:"min=3,dive,required"`
	CareerHatTricks int      `json:"career_hat_tricks" validate:"gte=1"`
}

// GameStartPayload is attached to game_start events
type GameStartPayload struct {
	MinutesUntilStart int `json:"minutes_until_start" validate:"gte=0"`
}

// GameEndPayload is attached to game_end events
type GameEndPayload struct {
	GameStats entities.GameStats `json:"game_stats"`
	AISummary string             `json:"ai_summary,omitempty"`
}

func (*GoalPayload) Kind() Kind      { return KindGoal }
func (*AssistPayload) Kind() Kind    { return KindAssist }
func (*PenaltyPayload) Kind() Kind   { return KindPenalty }
func (*MilestonePayload) Kind() Kind { return KindMilestone }
func (*HatTrickPayload) Kind() Kind  { return KindHatTrick }
func (*GameStartPayload) Kind() Kind { return KindGameStart }
func (*GameEndPayload) Kind() Kind   { return KindGameEnd }

func (*GoalPayload) isPayload()      {}
func (*AssistPayload) isPayload()    {}
func (*PenaltyPayload) isPayload()   {}
func (*MilestonePayload) isPayload() {}
func (*HatTrickPayload) isPayload()  {}
func (*GameStartPayload) isPayload() {}
func (*GameEndPayload) isPayload()   {}

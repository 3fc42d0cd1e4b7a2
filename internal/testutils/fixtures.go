package testutils

import (
	"time"

	"github.com/KirkDiggler/gameiq/internal/entities"
	"github.com/KirkDiggler/gameiq/internal/events"
)

// FixedTime is the timestamp every fixture event carries
var FixedTime = time.Date(2024, 12, 15, 19, 0, 0, 0, time.UTC)

// CreateTestPlayer creates the player every fixture event is about
func CreateTestPlayer() entities.Player {
	return entities.Player{
		ID:       "mcdavid-97",
		Name:     "Connor McDavid",
		Number:   97,
		Position: entities.PositionCenter,
		Team:     "Edmonton Oilers",
		TeamAbbr: "EDM",
	}
}

// CreateTestTeammate creates a second player on the same team
func CreateTestTeammate() entities.Player {
	return entities.Player{
		ID:       "draisaitl-29",
		Name:     "Leon Draisaitl",
		Number:   29,
		Position: entities.PositionCenter,
		Team:     "Edmonton Oilers",
		TeamAbbr: "EDM",
	}
}

// CreateTestGame creates a live game between Edmonton and Calgary
func CreateTestGame() entities.Game {
	return entities.Game{
		ID:            "game-test",
		HomeTeam:      entities.Team{ID: "t1", Name: "Edmonton Oilers", Abbreviation: "EDM"},
		AwayTeam:      entities.Team{ID: "t2", Name: "Calgary Flames", Abbreviation: "CGY"},
		Period:        1,
		TimeRemaining: "20:00",
		Status:        entities.GameStatusLive,
		Date:          FixedTime.Format(time.RFC3339),
	}
}

// CreateTestSeasonStats creates a mid-season stat line
func CreateTestSeasonStats() entities.SeasonStats {
	return entities.SeasonStats{
		GamesPlayed:    28,
		Goals:          18,
		Assists:        35,
		Points:         53,
		PlusMinus:      14,
		PenaltyMinutes: 8,
		PointsPerGame:  1.89,
	}
}

// CreateTestEvent creates a well-formed event of the given kind
func CreateTestEvent(kind events.Kind, id string) *events.Event {
	var payload events.Payload

	switch kind {
	case events.KindGoal:
		payload = &events.GoalPayload{GoalType: events.GoalTypeEvenStrength, PeriodTime: "08:45"}
	case events.KindAssist:
		payload = &events.AssistPayload{
			GoalScoredBy: CreateTestTeammate(),
			AssistType:   events.AssistTypePrimary,
			PeriodTime:   "14:22",
		}
	case events.KindPenalty:
		payload = &events.PenaltyPayload{Infraction: "Tripping", DurationMinutes: 2, PeriodTime: "18:30"}
	case events.KindMilestone:
		payload = &events.MilestonePayload{
			MilestoneType: events.MilestoneGoal,
			Milestone:     "19th goal",
			Value:         19,
			Description:   "Connor McDavid reaches 19 goals this season!",
		}
	case events.KindHatTrick:
		payload = &events.HatTrickPayload{
			Goals: []*events.Event{
				CreateTestEvent(events.KindGoal, id+"-g1"),
				CreateTestEvent(events.KindGoal, id+"-g2"),
				CreateTestEvent(events.KindGoal, id+"-g3"),
			},
			CareerHatTricks: 2,
		}
	case events.KindGameStart:
		payload = &events.GameStartPayload{MinutesUntilStart: 30}
	case events.KindGameEnd:
		payload = &events.GameEndPayload{
			GameStats: entities.GameStats{Goals: 3, Assists: 1, Points: 4, Shots: 8, PlusMinus: 3},
			AISummary: "Connor McDavid's hat trick powered a 3-0 victory.",
		}
	default:
		panic("testutils: unknown event kind " + string(kind))
	}

	return events.New(id, FixedTime, CreateTestGame(), CreateTestPlayer(), CreateTestSeasonStats(), payload)
}

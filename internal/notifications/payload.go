// Package notifications turns dispatched events into user-facing notifications
// and hands them to one or more sinks.
package notifications

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/KirkDiggler/gameiq/internal/entities"
	"github.com/KirkDiggler/gameiq/internal/events"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// Action is a button offered alongside a notification
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Payload is a rendered notification
type Payload struct {
	Title              string        `json:"title"`
	Body               string        `json:"body"`
	Tag                string        `json:"tag,omitempty"`
	RequireInteraction bool          `json:"require_interaction,omitempty"`
	Actions            []Action      `json:"actions,omitempty"`
	Event              *events.Event `json:"data"`
}

var viewSummaryAction = Action{Action: "view_summary", Title: "View summary"}

// Build renders the notification for an event.
// Every payload type has its own case; an unrecognised payload is an error.
func Build(event *events.Event) (*Payload, error) {
	if event == nil {
		return nil, apperrors.InvalidArgument("event cannot be nil")
	}

	name := event.Player.Name
	p := &Payload{
		Tag:   fmt.Sprintf("%s-%s", event.Kind, event.Game.ID),
		Event: event,
	}

	switch payload := event.Payload.(type) {
	case *events.GoalPayload:
		p.Title = "🚨 GOAL! " + name
		p.Body = fmt.Sprintf("%s scores%s at %s of period %d. %s",
			name, assistedBy(payload), payload.PeriodTime, event.Game.Period, scoreLine(event))
		if payload.GoalType == events.GoalTypePowerPlay {
			p.Body += " (power play)"
		}
		p.Tag = event.ID

	case *events.AssistPayload:
		p.Title = "🍎 Assist: " + name
		p.Body = fmt.Sprintf("%s sets up %s at %s (%s assist). %s",
			name, payload.GoalScoredBy.Name, payload.PeriodTime, payload.AssistType, scoreLine(event))
		p.Tag = event.ID

	case *events.PenaltyPayload:
		p.Title = "⏱️ Penalty: " + name
		p.Body = fmt.Sprintf("%s, %d minutes for %s at %s",
			name, payload.DurationMinutes, strings.ToLower(payload.Infraction), payload.PeriodTime)
		p.Tag = event.ID

	case *events.MilestonePayload:
		p.Title = "🎉 Milestone: " + payload.Milestone
		p.Body = payload.Description
		if payload.DivisionRank != nil {
			p.Body += fmt.Sprintf(" Now #%d in the division.", *payload.DivisionRank)
		}
		if payload.IsCareerHigh {
			p.Body += " Career high!"
		}
		p.RequireInteraction = true

	case *events.HatTrickPayload:
		p.Title = "🔥 HAT TRICK! " + name
		p.Body = fmt.Sprintf("%s has %d goals tonight. Career hat trick #%d.",
			name, len(payload.Goals), payload.CareerHatTricks)
		p.RequireInteraction = true

	case *events.GameStartPayload:
		p.Title = fmt.Sprintf("🏒 %s vs %s", event.Game.HomeTeam.Name, event.Game.AwayTeam.Name)
		if payload.MinutesUntilStart > 0 {
			p.Body = fmt.Sprintf("Puck drops in %d minutes. Follow %s live.", payload.MinutesUntilStart, name)
		} else {
			p.Body = fmt.Sprintf("Puck drop! Follow %s live.", name)
		}

	case *events.GameEndPayload:
		p.Title = "🏁 Final: " + scoreLine(event)
		stats := payload.GameStats
		p.Body = fmt.Sprintf("%s: %dG %dA %dP, %d shots, %+d.",
			name, stats.Goals, stats.Assists, stats.Points, stats.Shots, stats.PlusMinus)
		if payload.AISummary != "" {
			p.Body += " " + payload.AISummary
		}
		p.Actions = []Action{viewSummaryAction}

	default:
		return nil, apperrors.InvalidArgumentf("no notification for event %s with payload %T", event.ID, event.Payload).
			WithMeta("kind", string(event.Kind))
	}

	return p, nil
}

func assistedBy(goal *events.GoalPayload) string {
	if len(goal.AssistedBy) == 0 {
		return " unassisted"
	}
	names := lo.Map(goal.AssistedBy, func(p entities.Player, _ int) string {
		return p.Name
	})
	return " from " + strings.Join(names, " and ")
}

func scoreLine(event *events.Event) string {
	game := event.Game
	home := lo.CoalesceOrEmpty(game.HomeTeam.Abbreviation, game.HomeTeam.Name)
	away := lo.CoalesceOrEmpty(game.AwayTeam.Abbreviation, game.AwayTeam.Name)
	return fmt.Sprintf("%s %d-%d %s", home, game.HomeTeam.Score, game.AwayTeam.Score, away)
}

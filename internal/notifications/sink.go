package notifications

//go:generate mockgen -destination=mock/mock_sink.go -package=mocknotifications -source=sink.go

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gookit/color"

	"github.com/KirkDiggler/gameiq/internal/events"
	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// Sink delivers a rendered notification somewhere a person will see it
type Sink interface {
	Send(ctx context.Context, payload *Payload) error
}

// WebhookExecutor is the slice of the Discord API the webhook sink needs
type WebhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

var (
	titleStyle      = color.New(color.FgLightWhite, color.OpBold)
	importantStyle  = color.New(color.FgLightYellow, color.OpBold)
	actionHintStyle = color.New(color.FgCyan)
	kindColors      = map[events.Kind]int{
		events.KindGoal:      0xE53935,
		events.KindAssist:    0x43A047,
		events.KindPenalty:   0xFB8C00,
		events.KindMilestone: 0x8E24AA,
		events.KindHatTrick:  0xFDD835,
		events.KindGameStart: 0x1E88E5,
		events.KindGameEnd:   0x546E7A,
	}
)

// WriterSink prints notifications to a terminal or any other writer
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterSink creates a sink writing to w
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

// Send implements Sink
func (s *WriterSink) Send(_ context.Context, payload *Payload) error {
	if payload == nil {
		return apperrors.InvalidArgument("payload cannot be nil")
	}

	style := titleStyle
	if payload.RequireInteraction {
		style = importantStyle
	}

	var b strings.Builder
	b.WriteString(style.Render(payload.Title))
	b.WriteString("\n  ")
	b.WriteString(payload.Body)
	b.WriteString("\n")
	for _, action := range payload.Actions {
		b.WriteString(actionHintStyle.Render(fmt.Sprintf("  [%s]", action.Title)))
		b.WriteString("\n")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := io.WriteString(s.w, b.String()); err != nil {
		return apperrors.Wrap(err, "failed to write notification")
	}
	return nil
}

// DiscordSinkConfig holds configuration for the Discord webhook sink
type DiscordSinkConfig struct {
	Executor     WebhookExecutor
	WebhookID    string
	WebhookToken string
	Username     string
}

// DiscordSink posts notifications as embeds through a Discord webhook
type DiscordSink struct {
	executor WebhookExecutor
	id       string
	token    string
	username string
}

// NewDiscordSink creates a webhook sink
func NewDiscordSink(cfg *DiscordSinkConfig) *DiscordSink {
	if cfg == nil || cfg.Executor == nil {
		panic("webhook executor is required")
	}
	if cfg.WebhookID == "" || cfg.WebhookToken == "" {
		panic("webhook id and token are required")
	}

	username := cfg.Username
	if username == "" {
		username = "GameIQ"
	}

	return &DiscordSink{
		executor: cfg.Executor,
		id:       cfg.WebhookID,
		token:    cfg.WebhookToken,
		username: username,
	}
}

// Send implements Sink
func (s *DiscordSink) Send(ctx context.Context, payload *Payload) error {
	if payload == nil {
		return apperrors.InvalidArgument("payload cannot be nil")
	}

	params := &discordgo.WebhookParams{
		Username: s.username,
		Embeds:   []*discordgo.MessageEmbed{buildEmbed(payload)},
	}

	_, err := s.executor.WebhookExecute(s.id, s.token, false, params, discordgo.WithContext(ctx))
	if err != nil {
		return apperrors.WrapWithCode(err, apperrors.CodeUnavailable, "failed to post notification to discord").
			WithMeta("tag", payload.Tag)
	}
	return nil
}

func buildEmbed(payload *Payload) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       payload.Title,
		Description: payload.Body,
	}

	if event := payload.Event; event != nil {
		embed.Color = kindColors[event.Kind]
		embed.Timestamp = event.Timestamp.Format(time.RFC3339)
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%s · %s", event.Player.Team, event.Game.ID),
		}
	}

	for _, action := range payload.Actions {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   action.Title,
			Value:  "`" + action.Action + "`",
			Inline: true,
		})
	}

	return embed
}

package config

import (
	"os"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

var validate = validator.New()

// Config holds all configuration for the application
type Config struct {
	// RedisURL selects the Redis repositories; empty means in-memory
	RedisURL string `env:"REDIS_URL"`

	LogLevel string `env:"LOG_LEVEL,default=info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	LogDir   string `env:"LOG_DIR"`

	// ListenerTimeout bounds a single listener call; zero waits forever
	ListenerTimeout time.Duration `env:"LISTENER_TIMEOUT,default=0s" validate:"gte=0"`
	ValidateEvents  bool          `env:"VALIDATE_EVENTS,default=false"`

	SimMinInterval time.Duration `env:"SIM_MIN_INTERVAL,default=2s" validate:"gte=0"`
	SimMaxInterval time.Duration `env:"SIM_MAX_INTERVAL,default=5s" validate:"gtefield=SimMinInterval"`
	PlayerID       string        `env:"PLAYER_ID,default=mcdavid-97" validate:"required"`
	Opponent       string        `env:"OPPONENT,default=Calgary Flames" validate:"required"`

	DiscordWebhookID     string `env:"DISCORD_WEBHOOK_ID"`
	DiscordWebhookToken  string `env:"DISCORD_WEBHOOK_TOKEN" validate:"required_with=DiscordWebhookID"`
	NotificationsEnabled bool   `env:"NOTIFICATIONS_ENABLED,default=true"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return LoadFrom(os.Environ())
}

// LoadFrom loads configuration from KEY=VALUE pairs
func LoadFrom(environ []string) (*Config, error) {
	es, err := env.EnvironToEnvSet(environ)
	if err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "malformed environment")
	}

	var cfg Config
	if err := env.Unmarshal(es, &cfg); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "failed to read environment")
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeInvalidArgument, "invalid configuration")
	}

	return &cfg, nil
}

// DiscordEnabled reports whether a webhook is configured
func (c *Config) DiscordEnabled() bool {
	return c.DiscordWebhookID != "" && c.DiscordWebhookToken != ""
}

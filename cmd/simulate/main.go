package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/KirkDiggler/gameiq/internal/config"
	"github.com/KirkDiggler/gameiq/internal/entities"
	"github.com/KirkDiggler/gameiq/internal/events"
	"github.com/KirkDiggler/gameiq/internal/listeners"
	"github.com/KirkDiggler/gameiq/internal/logging"
	"github.com/KirkDiggler/gameiq/internal/notifications"
	"github.com/KirkDiggler/gameiq/internal/repositories/gamesummaries"
	"github.com/KirkDiggler/gameiq/internal/repositories/players"
	"github.com/KirkDiggler/gameiq/internal/services"
	"github.com/KirkDiggler/gameiq/internal/services/simulation"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "simulate: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	playerID := flag.String("player", "", "Player ID to follow (overrides PLAYER_ID)")
	opponent := flag.String("opponent", "", "Opponent team name or abbreviation (overrides OPPONENT)")
	quiet := flag.Bool("quiet", false, "Skip the console listener")
	flag.Parse()

	// Load .env file
	envLoaded := godotenv.Load() == nil

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logCfg := logging.DefaultConfig()
	logCfg.Level = level
	logCfg.Dir = cfg.LogDir

	logger, closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close log: %v\n", err)
		}
	}()

	logger.Info("configuration loaded", "env_file", envLoaded, "log_level", level.String())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Create service provider config
	providerConfig := &services.ProviderConfig{
		ListenerTimeout: cfg.ListenerTimeout,
		ValidateEvents:  cfg.ValidateEvents,
		MinInterval:     cfg.SimMinInterval,
		MaxInterval:     cfg.SimMaxInterval,
		Logger:          logger,
	}

	// Try to connect to Redis if URL is provided
	redisClient := connectRedis(ctx, logger, cfg.RedisURL)
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("error closing Redis connection", "error", err)
			}
		}()

		playerRepo := players.NewRedis(redisClient)
		seeded, err := players.SeedRoster(ctx, playerRepo)
		if err != nil {
			return err
		}
		logger.Info("using Redis for persistence", "seeded_players", seeded)

		providerConfig.PlayerRepository = playerRepo
		providerConfig.SummaryRepository = gamesummaries.NewRedis(redisClient)
	}

	provider, err := services.NewProvider(providerConfig)
	if err != nil {
		return err
	}
	dispatcher := provider.Dispatcher

	if !*quiet {
		listeners.NewConsole(os.Stdout).Register(dispatcher)
	}

	recorder := listeners.NewRecorder("report", events.All)
	dispatcher.Subscribe(events.All, recorder)

	sinks := []notifications.Sink{notifications.NewWriterSink(os.Stdout)}
	if cfg.DiscordEnabled() {
		session, err := discordgo.New("")
		if err != nil {
			return err
		}
		sinks = append(sinks, notifications.NewDiscordSink(&notifications.DiscordSinkConfig{
			Executor:     session,
			WebhookID:    cfg.DiscordWebhookID,
			WebhookToken: cfg.DiscordWebhookToken,
		}))
		logger.Info("discord notifications enabled")
	}
	dispatcher.Subscribe(events.All, notifications.NewListener(&notifications.ListenerConfig{
		Sinks:   sinks,
		Enabled: cfg.NotificationsEnabled,
		Logger:  logger,
	}))

	input := &simulation.SimulateGameInput{
		PlayerID: lo.CoalesceOrEmpty(*playerID, cfg.PlayerID),
		Opponent: lo.CoalesceOrEmpty(*opponent, cfg.Opponent),
	}

	fmt.Println("Simulating game. Press CTRL-C to abort.")

	return simulate(ctx, os.Stdout, provider.SimulationService, provider.SummaryRepository, recorder, input)
}

// simulate plays one game and writes the report tables
func simulate(ctx context.Context, w io.Writer, svc simulation.Service, summaries gamesummaries.Repository,
	recorder *listeners.Recorder, input *simulation.SimulateGameInput,
) error {
	out, err := svc.SimulateGame(ctx, input)
	if err != nil {
		return err
	}

	renderEvents(w, out)
	renderCounts(w, recorder)

	recent, err := summaries.ListByPlayer(ctx, input.PlayerID, 5)
	if err != nil {
		return err
	}
	renderSummaries(w, recent)

	return nil
}

// connectRedis returns nil when no URL is set or Redis cannot be reached
func connectRedis(ctx context.Context, logger *slog.Logger, url string) *redis.Client {
	if url == "" {
		logger.Info("no REDIS_URL found, using in-memory repositories")
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Warn("failed to parse Redis URL, falling back to in-memory repositories", "error", err)
		return nil
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("failed to connect to Redis, falling back to in-memory repositories", "error", err)
		_ = client.Close()
		return nil
	}

	logger.Info("connected to Redis", "addr", opts.Addr)
	return client
}

func renderEvents(w io.Writer, out *simulation.SimulateGameOutput) {
	fmt.Fprintf(w, "\nFinal: %s %d - %d %s\n",
		out.Game.HomeTeam.Abbreviation, out.Game.HomeTeam.Score,
		out.Game.AwayTeam.Score, out.Game.AwayTeam.Abbreviation)

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Event", "Kind", "Player", "Period", "Score"})
	for _, event := range out.Events {
		table.Append([]string{
			event.ID,
			event.Kind.String(),
			event.Player.Name,
			strconv.Itoa(event.Game.Period),
			event.Game.ScoreLine(),
		})
	}
	table.Render()
}

func renderCounts(w io.Writer, recorder *listeners.Recorder) {
	counts := recorder.CountByKind()

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Kind", "Delivered"})
	for _, kind := range events.Kinds() {
		table.Append([]string{kind.String(), strconv.Itoa(counts[kind])})
	}
	table.SetFooter([]string{"Total", strconv.Itoa(recorder.Len())})
	table.Render()
}

func renderSummaries(w io.Writer, summaries []*entities.GameSummary) {
	if len(summaries) == 0 {
		return
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Played", "Opponent", "Result", "Score", "G", "A", "P"})
	for _, s := range summaries {
		table.Append([]string{
			s.PlayedAt.Format("2006-01-02 15:04"),
			s.Opponent,
			string(s.Result),
			s.Score,
			strconv.Itoa(s.Stats.Goals),
			strconv.Itoa(s.Stats.Assists),
			strconv.Itoa(s.Stats.Points),
		})
	}
	table.Render()
}

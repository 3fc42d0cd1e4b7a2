package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"

	apperrors "github.com/KirkDiggler/gameiq/internal/errors"
)

// Setup builds the process logger and installs it as the slog default.
// With an empty Dir logs go to stdout and the close function is a no-op.
// Otherwise logs go to a lumberjack-rotated file and close flushes it.
func Setup(cfg *Config) (*slog.Logger, func() error, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if cfg.Dir == "" {
		logger := newLogger(os.Stdout, cfg)
		setGlobal(logger)
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, nil, apperrors.Wrapf(err, "failed to create log directory %s", cfg.Dir)
	}

	name := cfg.FileName
	if name == "" {
		name = DefaultConfig().FileName
	}

	lj := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Dir, name),
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
		LocalTime:  true,
	}

	logger := newLogger(lj, cfg)
	setGlobal(logger)

	return logger, lj.Close, nil
}

func newLogger(w io.Writer, cfg *Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}))
}

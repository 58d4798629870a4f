// Package progress parses progress command flags and launches the progress runtime.
package progress

import (
	"context"
	"flag"
	"time"

	entrypoint "github.com/arxlet/paperdex/internal/platform/cmd"
	progressserver "github.com/arxlet/paperdex/internal/services/progress/app"
)

// Config holds progress command configuration.
type Config struct {
	Port           int           `env:"PAPERDEX_PROGRESS_PORT" envDefault:"8093"`
	DBPath         string        `env:"PAPERDEX_PROGRESS_DB_PATH" envDefault:"data/progress.db"`
	PollInterval   time.Duration `env:"PAPERDEX_PROGRESS_POLL_INTERVAL" envDefault:"1h"`
	ResponseWindow time.Duration `env:"PAPERDEX_PROGRESS_RESPONSE_WINDOW" envDefault:"672h"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The progress health gRPC server port")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "The progress SQLite database path")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Author-silence sweep interval")
	fs.DurationVar(&cfg.ResponseWindow, "response-window", cfg.ResponseWindow, "Author-silence window before no_response")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the progress runtime.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceProgress, func(context.Context) error {
		return progressserver.Run(ctx, progressserver.RuntimeConfig{
			Port:           cfg.Port,
			DBPath:         cfg.DBPath,
			PollInterval:   cfg.PollInterval,
			ResponseWindow: cfg.ResponseWindow,
		})
	})
}

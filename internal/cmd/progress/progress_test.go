package progress

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)
	t.Setenv("PAPERDEX_PROGRESS_PORT", "9093")
	t.Setenv("PAPERDEX_PROGRESS_RESPONSE_WINDOW", "48h")

	cfg, err := ParseConfig(fs, []string{"-db-path", "tmp/progress.db", "-poll-interval", "5m"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9093 {
		t.Fatalf("port = %d, want 9093", cfg.Port)
	}
	if cfg.ResponseWindow != 48*time.Hour {
		t.Fatalf("response window = %v, want 48h", cfg.ResponseWindow)
	}
	if cfg.DBPath != "tmp/progress.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "tmp/progress.db")
	}
	if cfg.PollInterval != 5*time.Minute {
		t.Fatalf("poll interval = %v, want 5m", cfg.PollInterval)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("progress", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8093 {
		t.Fatalf("port = %d, want 8093", cfg.Port)
	}
	if cfg.DBPath != "data/progress.db" {
		t.Fatalf("db path = %q, want %q", cfg.DBPath, "data/progress.db")
	}
	if cfg.PollInterval != time.Hour {
		t.Fatalf("poll interval = %v, want 1h", cfg.PollInterval)
	}
	if cfg.ResponseWindow != 672*time.Hour {
		t.Fatalf("response window = %v, want 672h", cfg.ResponseWindow)
	}
}

package main

import (
	"log/slog"
	"testing"
)

func TestLoadConfigWatchFlag(t *testing.T) {
	t.Setenv("HNSUM_WATCH_SPEC", "")

	cmd := newRootCmd(slog.Default())
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchSpec != "" {
		t.Fatalf("watch must stay off without the flag, got %q", cfg.WatchSpec)
	}

	cmd = newRootCmd(slog.Default())
	if err := cmd.Flags().Set("watch", defaultWatchSpec); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err = loadConfig(cmd, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchSpec != defaultWatchSpec {
		t.Fatalf("bare --watch must default to hourly, got %q", cfg.WatchSpec)
	}

	cmd = newRootCmd(slog.Default())
	if err := cmd.Flags().Set("watch", "*/30 * * * *"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err = loadConfig(cmd, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchSpec != "*/30 * * * *" {
		t.Fatalf("flag spec must win, got %q", cfg.WatchSpec)
	}
}

func TestLoadConfigWatchFlagKeepsConfiguredSpec(t *testing.T) {
	t.Setenv("HNSUM_WATCH_SPEC", "15 * * * *")

	cmd := newRootCmd(slog.Default())
	cfg, err := loadConfig(cmd, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchSpec != "" {
		t.Fatalf("configured spec alone must not enable watch, got %q", cfg.WatchSpec)
	}

	cmd = newRootCmd(slog.Default())
	if err := cmd.Flags().Set("watch", defaultWatchSpec); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	cfg, err = loadConfig(cmd, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WatchSpec != "15 * * * *" {
		t.Fatalf("bare --watch must keep the configured spec, got %q", cfg.WatchSpec)
	}
}

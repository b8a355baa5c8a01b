package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Count != 20 {
		t.Fatalf("unexpected default count: %d", cfg.Count)
	}
	if cfg.Mode != "basic" {
		t.Fatalf("unexpected default mode: %q", cfg.Mode)
	}
	if cfg.StoryDelay.Std() != time.Second {
		t.Fatalf("unexpected default story delay: %v", cfg.StoryDelay)
	}
	if len(cfg.ContentSelectors) == 0 {
		t.Fatalf("expected default content selectors")
	}
	if cfg.ContentSelectors[0] != "article" {
		t.Fatalf("unexpected first selector: %q", cfg.ContentSelectors[0])
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
count: 5
mode: ollama
fallback: true
story_delay: 250ms
content_selectors:
  - .custom-content
`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Count != 5 {
		t.Fatalf("unexpected count: %d", cfg.Count)
	}
	if cfg.Mode != "ollama" {
		t.Fatalf("unexpected mode: %q", cfg.Mode)
	}
	if !cfg.FallbackEnabled {
		t.Fatalf("expected fallback to be enabled")
	}
	if cfg.StoryDelay.Std() != 250*time.Millisecond {
		t.Fatalf("unexpected story delay: %v", cfg.StoryDelay)
	}
	if len(cfg.ContentSelectors) != 1 || cfg.ContentSelectors[0] != ".custom-content" {
		t.Fatalf("unexpected selectors: %v", cfg.ContentSelectors)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

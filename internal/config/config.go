package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config carries every tunable the pipeline and its collaborators consume.
// Values resolve in order: built-in defaults, then environment variables,
// then an optional YAML file, with command-line flags applied last by the
// caller.
type Config struct {
	Count           int    `env:"HNSUM_COUNT"    envDefault:"20" yaml:"count"`
	Mode            string `env:"HNSUM_MODE"     envDefault:"basic" yaml:"mode"`
	FallbackEnabled bool   `env:"HNSUM_FALLBACK" yaml:"fallback"`

	Source  string `env:"HNSUM_SOURCE"   envDefault:"api" yaml:"source"`
	BaseURL string `env:"HNSUM_API_URL"  envDefault:"https://hacker-news.firebaseio.com/v0" yaml:"api_url"`
	FeedURL string `env:"HNSUM_FEED_URL" envDefault:"https://hnrss.org/frontpage" yaml:"feed_url"`

	RequestTimeout Duration `env:"HNSUM_REQUEST_TIMEOUT" envDefault:"10s" yaml:"request_timeout"`
	StoryDelay     Duration `env:"HNSUM_STORY_DELAY"     envDefault:"1s"  yaml:"story_delay"`

	CommentLimit      int      `env:"HNSUM_COMMENT_LIMIT"     envDefault:"10"   yaml:"comment_limit"`
	MaxContentLength  int      `env:"HNSUM_MAX_CONTENT_LEN"   envDefault:"5000" yaml:"max_content_length"`
	MinSentenceLength int      `env:"HNSUM_MIN_SENTENCE_LEN"  envDefault:"20"   yaml:"min_sentence_length"`
	MaxLineLength     int      `env:"HNSUM_MAX_LINE_LEN"      envDefault:"120"  yaml:"max_line_length"`
	ContentSelectors  []string `env:"HNSUM_CONTENT_SELECTORS" yaml:"content_selectors"`

	OllamaURL      string   `env:"HNSUM_OLLAMA_URL"      envDefault:"http://localhost:11434" yaml:"ollama_url"`
	OllamaModel    string   `env:"HNSUM_OLLAMA_MODEL"    envDefault:"mistral:7b" yaml:"ollama_model"`
	BackendTimeout Duration `env:"HNSUM_BACKEND_TIMEOUT" envDefault:"30s" yaml:"backend_timeout"`
	OpenAIAPIKey   string   `env:"OPENAI_API_KEY"        yaml:"-"`

	DBPath         string `env:"HNSUM_DB_PATH"          yaml:"db_path"`
	TelegramToken  string `env:"HNSUM_TELEGRAM_TOKEN"   yaml:"-"`
	TelegramChatID int64  `env:"HNSUM_TELEGRAM_CHAT_ID" yaml:"telegram_chat_id"`
	WatchSpec      string `env:"HNSUM_WATCH_SPEC"       yaml:"watch_spec"`
}

// Selector order matters: the first match wins during extraction.
var defaultContentSelectors = []string{
	"article",
	"[role='main']",
	".content",
	".post-content",
	".entry-content",
	".article-content",
	"main",
	".story-body",
}

func Load(path string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	if len(cfg.ContentSelectors) == 0 {
		cfg.ContentSelectors = defaultContentSelectors
	}

	return cfg, nil
}

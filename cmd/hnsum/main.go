package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hnsum/internal/config"
	"hnsum/internal/domain"
	"hnsum/internal/extract"
	"hnsum/internal/hn"
	"hnsum/internal/pipeline"
	"hnsum/internal/publish"
	"hnsum/internal/report"
	"hnsum/internal/scheduler"
	"hnsum/internal/store"
	"hnsum/internal/summarizer"
)

const (
	minStoryCount = 1
	maxStoryCount = 100

	defaultWatchSpec = "0 * * * *"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	if err := newRootCmd(log).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(log *slog.Logger) *cobra.Command {
	var (
		configPath string
		outputPath string
	)

	cmd := &cobra.Command{
		Use:           "hnsum",
		Short:         "Fetch and summarize top Hacker News stories",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, configPath)
			if err != nil {
				log.Error("Failed to load config",
					"error", err,
					"configPath", configPath)
				return err
			}

			return run(cmd.Context(), cfg, outputPath, log)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML config file")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntP("count", "c", 0, "number of stories to summarize")
	cmd.Flags().StringP("mode", "m", "", "summarization mode (basic|ollama|llmapi)")
	cmd.Flags().Bool("fallback", false, "degrade to basic mode on backend failure")
	cmd.Flags().String("watch", "", `run repeatedly; bare --watch uses the top-of-hour schedule, --watch="<cron spec>" overrides it`)
	cmd.Flags().Lookup("watch").NoOptDefVal = defaultWatchSpec

	cmd.SetContext(signalContext())

	return cmd
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	return ctx
}

// loadConfig resolves the configuration: file and env first, flags last.
func loadConfig(cmd *cobra.Command, configPath string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("count") {
		cfg.Count, _ = cmd.Flags().GetInt("count")
	}
	if cmd.Flags().Changed("mode") {
		cfg.Mode, _ = cmd.Flags().GetString("mode")
	}
	if cmd.Flags().Changed("fallback") {
		cfg.FallbackEnabled, _ = cmd.Flags().GetBool("fallback")
	}
	switch spec, _ := cmd.Flags().GetString("watch"); {
	case !cmd.Flags().Changed("watch"):
		cfg.WatchSpec = ""
	case spec != "" && spec != defaultWatchSpec:
		cfg.WatchSpec = spec
	case cfg.WatchSpec == "":
		// Bare --watch: keep a configured spec, default to hourly.
		cfg.WatchSpec = defaultWatchSpec
	}

	if cfg.Count < minStoryCount || cfg.Count > maxStoryCount {
		return config.Config{}, fmt.Errorf(
			"count must be between %d and %d, got %d",
			minStoryCount, maxStoryCount, cfg.Count,
		)
	}

	return cfg, nil
}

func run(
	ctx context.Context,
	cfg config.Config,
	outputPath string,
	log *slog.Logger,
) error {
	mode, ok := domain.ParseMode(cfg.Mode)
	if !ok {
		err := fmt.Errorf("unsupported mode %q", cfg.Mode)
		log.ErrorContext(ctx, "Invalid mode",
			"error", err)
		return err
	}

	active, err := summarizer.New(mode, summarizer.Options{
		MinSentenceLength: cfg.MinSentenceLength,
		MaxLineLength:     cfg.MaxLineLength,
		OllamaURL:         cfg.OllamaURL,
		OllamaModel:       cfg.OllamaModel,
		OpenAIAPIKey:      cfg.OpenAIAPIKey,
		Timeout:           cfg.BackendTimeout.Std(),
	}, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to create summarizer",
			"error", err,
			"mode", mode)
		return err
	}

	pipe := pipeline.New(
		pipeline.Config{
			Mode:            mode,
			FallbackEnabled: cfg.FallbackEnabled,
			StoryDelay:      cfg.StoryDelay.Std(),
			CommentLimit:    cfg.CommentLimit,
		},
		newProvider(cfg, log),
		extract.New(cfg.ContentSelectors, cfg.MaxContentLength, cfg.RequestTimeout.Std(), log),
		active,
		summarizer.NewBasic(cfg.MinSentenceLength, cfg.MaxLineLength),
		log,
	)

	sinks, closeSinks, err := newSinks(ctx, cfg, outputPath, log)
	if err != nil {
		return err
	}
	defer closeSinks()

	job := func(ctx context.Context) error {
		return runOnce(ctx, cfg, pipe, sinks, log)
	}

	if cfg.WatchSpec != "" {
		return watch(ctx, cfg.WatchSpec, job, log)
	}

	return job(ctx)
}

func newProvider(cfg config.Config, log *slog.Logger) hn.Provider {
	if cfg.Source == "rss" {
		return hn.NewFeedProvider(cfg.FeedURL, log)
	}
	return hn.NewClient(cfg.BaseURL, cfg.RequestTimeout.Std(), log)
}

type sinkSet struct {
	output   *os.File
	store    *store.Store
	telegram *publish.Telegram
}

func newSinks(
	ctx context.Context,
	cfg config.Config,
	outputPath string,
	log *slog.Logger,
) (*sinkSet, func(), error) {
	sinks := &sinkSet{output: os.Stdout}

	closeAll := func() {
		if sinks.store != nil {
			if err := sinks.store.Close(); err != nil {
				log.Error("Failed to close store",
					"error", err,
					"dbPath", cfg.DBPath)
			}
		}
		if sinks.output != os.Stdout {
			if err := sinks.output.Close(); err != nil {
				log.Error("Failed to close output file",
					"error", err,
					"outputPath", outputPath)
			}
		}
	}

	if outputPath != "" && outputPath != "-" {
		f, err := os.Create(outputPath)
		if err != nil {
			return nil, nil, fmt.Errorf("create output file: %w", err)
		}
		sinks.output = f
	}

	if cfg.DBPath != "" {
		st, err := store.New(ctx, cfg.DBPath, log)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("init store: %w", err)
		}
		sinks.store = st
	}

	if cfg.TelegramToken != "" && cfg.TelegramChatID != 0 {
		tg, err := publish.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("init telegram publisher: %w", err)
		}
		sinks.telegram = tg
	}

	return sinks, closeAll, nil
}

func runOnce(
	ctx context.Context,
	cfg config.Config,
	pipe *pipeline.Pipeline,
	sinks *sinkSet,
	log *slog.Logger,
) error {
	result, err := pipe.Run(ctx, cfg.Count)
	if err != nil {
		log.ErrorContext(ctx, "Run failed",
			"error", err,
			"mode", cfg.Mode,
			"count", cfg.Count)
		return err
	}

	rendered := report.Render(result)

	if _, err := fmt.Fprint(sinks.output, rendered); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if sinks.store != nil {
		if err := sinks.store.SaveRun(ctx, result); err != nil {
			log.ErrorContext(ctx, "Failed to archive run",
				"error", err,
				"dbPath", cfg.DBPath)
		}
	}

	if sinks.telegram != nil {
		if err := sinks.telegram.Publish(ctx, rendered); err != nil {
			log.ErrorContext(ctx, "Failed to publish digest",
				"error", err,
				"chatID", cfg.TelegramChatID)
		}
	}

	log.InfoContext(ctx, "Run finished",
		"stories", len(result.Outcomes),
		"succeeded", result.Successes(),
		"failed", result.Failures(),
		"fallbacks", result.Fallbacks())

	if code := report.ExitCode(result); code != 0 {
		return errors.New("no stories were summarized successfully")
	}

	return nil
}

func watch(
	ctx context.Context,
	spec string,
	job func(ctx context.Context) error,
	log *slog.Logger,
) error {
	sched := scheduler.New(ctx, spec, func(ctx context.Context) {
		if err := job(ctx); err != nil {
			log.ErrorContext(ctx, "Scheduled run failed",
				"error", err,
				"spec", spec)
		}
	}, log)

	if err := sched.Start(); err != nil {
		log.ErrorContext(ctx, "Failed to start scheduler",
			"error", err,
			"spec", spec)
		return err
	}
	defer sched.Stop()

	log.InfoContext(ctx, "Watch mode started",
		"spec", spec)

	<-ctx.Done()
	log.InfoContext(ctx, "Exiting...")

	return nil
}

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hnsum/internal/domain"
	"hnsum/internal/hn"
	"hnsum/internal/summarizer"
)

// Extractor turns a story's linked page into plain text, best-effort.
type Extractor interface {
	Extract(ctx context.Context, title string, url string) domain.ArticleContent
}

// Config is the run-level policy the orchestrator enforces.
type Config struct {
	Mode            domain.Mode
	FallbackEnabled bool
	StoryDelay      time.Duration
	CommentLimit    int
}

// Pipeline processes stories strictly sequentially: fetch, extract,
// summarize, report, one story at a time, in listing rank order. All
// fallback policy lives here; summarizer variants only ever report
// BackendUnavailableError and never decide fallback themselves.
type Pipeline struct {
	cfg        Config
	provider   hn.Provider
	extractor  Extractor
	summarizer summarizer.Summarizer
	fallback   summarizer.Summarizer
	log        *slog.Logger
}

func New(
	cfg Config,
	provider hn.Provider,
	extractor Extractor,
	active summarizer.Summarizer,
	fallback summarizer.Summarizer,
	log *slog.Logger,
) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		provider:   provider,
		extractor:  extractor,
		summarizer: active,
		fallback:   fallback,
		log:        log,
	}
}

// Run produces the ordered report for one pipeline run. It fails as a
// whole only when the story listing is unavailable, when a model backend
// fails without fallback enabled, or on context cancellation; every other
// condition is recovered per story and recorded in the outcome.
func (p *Pipeline) Run(ctx context.Context, count int) (*domain.Report, error) {
	report := &domain.Report{
		Mode:      p.cfg.Mode,
		StartedAt: time.Now(),
	}

	ids, err := p.provider.TopStoryIDs(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("list top stories: %w", err)
	}

	p.log.InfoContext(ctx, "Story listing fetched",
		"requested", count,
		"listed", len(ids),
		"mode", p.cfg.Mode)

	for i, id := range ids {
		if i > 0 {
			if err := p.pace(ctx); err != nil {
				return nil, err
			}
		}

		p.log.InfoContext(ctx, "Processing story",
			"position", i+1,
			"total", len(ids),
			"storyID", id)

		outcome, err := p.processStory(ctx, id)
		if err != nil {
			return nil, err
		}

		report.Outcomes = append(report.Outcomes, outcome)
	}

	report.FinishedAt = time.Now()

	return report, nil
}

func (p *Pipeline) processStory(ctx context.Context, id int64) (domain.Outcome, error) {
	start := time.Now()

	outcome := domain.Outcome{
		ModeRequested: p.cfg.Mode,
		ModeUsed:      p.cfg.Mode,
	}

	story, err := p.provider.Story(ctx, id)
	if err != nil {
		// A single story's metadata failure skips the story, not the run.
		p.log.WarnContext(ctx, "Skipping story",
			"error", err,
			"storyID", id)

		outcome.Story = domain.Story{ID: id}
		outcome.Err = err
		outcome.Elapsed = time.Since(start)

		return outcome, nil
	}

	outcome.Story = *story
	outcome.Content = p.extractContent(ctx, story)

	comments := p.fetchComments(ctx, story)

	summary, err := p.summarizer.Summarize(ctx, outcome.Content, comments)
	if err != nil {
		if !p.cfg.FallbackEnabled {
			// Enhanced modes fail loud unless fallback was asked for.
			return domain.Outcome{}, fmt.Errorf("summarize story %d: %w", id, err)
		}

		p.log.WarnContext(ctx, "Falling back to basic summarizer",
			"error", err,
			"storyID", id,
			"requestedMode", p.cfg.Mode)

		summary, err = p.fallback.Summarize(ctx, outcome.Content, nil)
		if err != nil {
			return domain.Outcome{}, fmt.Errorf("fallback summarize story %d: %w", id, err)
		}

		outcome.ModeUsed = domain.ModeBasic
		outcome.FallbackUsed = true
	}

	outcome.Summary = summary
	outcome.Elapsed = time.Since(start)

	return outcome, nil
}

func (p *Pipeline) extractContent(
	ctx context.Context,
	story *domain.Story,
) domain.ArticleContent {
	if story.URL == "" {
		return domain.ArticleContent{Title: story.Title}
	}

	content := p.extractor.Extract(ctx, story.Title, story.URL)
	if !content.Extracted {
		p.log.WarnContext(ctx, "Proceeding with empty content",
			"storyID", story.ID,
			"url", story.URL)
	}

	return content
}

func (p *Pipeline) fetchComments(
	ctx context.Context,
	story *domain.Story,
) []string {
	if !p.summarizer.NeedsComments() || len(story.CommentIDs) == 0 {
		return nil
	}

	comments, err := p.provider.Comments(ctx, story.CommentIDs, p.cfg.CommentLimit)
	if err != nil {
		// Best-effort: whatever arrived still feeds the summary.
		p.log.WarnContext(ctx, "Comment fetch degraded",
			"error", err,
			"storyID", story.ID,
			"fetched", len(comments))
	}

	return comments
}

// pace enforces the fixed inter-story delay toward the content provider.
func (p *Pipeline) pace(ctx context.Context) error {
	if p.cfg.StoryDelay <= 0 {
		return nil
	}

	select {
	case <-time.After(p.cfg.StoryDelay):
		return nil
	case <-ctx.Done():
		return fmt.Errorf("run cancelled: %w", ctx.Err())
	}
}

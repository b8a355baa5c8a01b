package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hnsum/internal/domain"
)

const (
	summaryLines  = 3
	keyPointCount = 3

	promptContentMaxChars = 2000
	promptCommentMaxChars = 300
)

// Summarizer produces a normalized summary for one story. Implementations
// must return a well-formed SummaryResult even for empty article text and
// may only fail with BackendUnavailableError.
type Summarizer interface {
	Summarize(
		ctx context.Context,
		content domain.ArticleContent,
		comments []string,
	) (*domain.SummaryResult, error)

	// NeedsComments reports whether the variant wants discussion comments
	// fetched before Summarize is called.
	NeedsComments() bool
}

// Options carries the configuration slice the summarizer variants consume.
type Options struct {
	MinSentenceLength int
	MaxLineLength     int

	OllamaURL    string
	OllamaModel  string
	OpenAIAPIKey string
	Timeout      time.Duration
}

// New maps a mode to its variant. The mapping is resolved once per run.
func New(
	mode domain.Mode,
	opts Options,
	log *slog.Logger,
) (Summarizer, error) {
	switch mode {
	case domain.ModeBasic:
		return NewBasic(opts.MinSentenceLength, opts.MaxLineLength), nil
	case domain.ModeOllama:
		return NewOllama(opts.OllamaURL, opts.OllamaModel, opts.Timeout, log), nil
	case domain.ModeLLMAPI:
		if opts.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for llmapi mode")
		}
		return NewOpenAI(opts.OpenAIAPIKey, log), nil
	default:
		return nil, fmt.Errorf("unsupported mode %q", mode)
	}
}

package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"

	"hnsum/internal/domain"
)

const (
	openaiMaxOutputTokens int64 = 1000

	openaiInstructions = `You summarize Hacker News stories. Follow the
requested section layout exactly and keep every line short and factual.`
)

// OpenAI summarizes through OpenAI's Responses API.
type OpenAI struct {
	client openai.Client
	log    *slog.Logger
}

func NewOpenAI(apiKey string, log *slog.Logger) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		log:    log,
	}
}

func (s *OpenAI) NeedsComments() bool { return true }

func (s *OpenAI) Summarize(
	ctx context.Context,
	content domain.ArticleContent,
	comments []string,
) (*domain.SummaryResult, error) {
	if strings.TrimSpace(content.Text) == "" {
		return noContentResult(content, len(comments) > 0), nil
	}

	resp, err := s.client.Responses.New(ctx, responses.ResponseNewParams{
		Model:           openai.ChatModelGPT5Mini2025_08_07,
		MaxOutputTokens: openai.Int(openaiMaxOutputTokens),
		Instructions:    openai.String(openaiInstructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(enhancedPrompt(content, comments)),
		},
	})
	if err != nil {
		return nil, &BackendUnavailableError{
			Backend: "openai",
			Err:     fmt.Errorf("do request: %w", err),
		}
	}

	raw := resp.OutputText()

	return normalizeEnhanced(ctx, parseEnhancedResponse(raw), len(comments) > 0, s.log), nil
}

package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"hnsum/internal/domain"
)

const (
	ollamaGeneratePath = "/api/generate"
	ollamaRetryBackoff = 2 * time.Second
	ollamaTemperature  = 0.7
	ollamaMaxTokens    = 800
)

// Ollama summarizes through a local model server.
type Ollama struct {
	baseURL string
	model   string
	client  *http.Client
	log     *slog.Logger
}

func NewOllama(
	baseURL string,
	model string,
	timeout time.Duration,
	log *slog.Logger,
) *Ollama {
	return &Ollama{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

func (o *Ollama) NeedsComments() bool { return true }

type ollamaRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error,omitempty"`
}

func (o *Ollama) Summarize(
	ctx context.Context,
	content domain.ArticleContent,
	comments []string,
) (*domain.SummaryResult, error) {
	if strings.TrimSpace(content.Text) == "" {
		return noContentResult(content, len(comments) > 0), nil
	}

	raw, err := o.generate(ctx, enhancedPrompt(content, comments))
	if err != nil {
		return nil, &BackendUnavailableError{Backend: "ollama", Err: err}
	}

	return normalizeEnhanced(ctx, parseEnhancedResponse(raw), len(comments) > 0, o.log), nil
}

// generate calls the model server, retrying once after a short backoff.
func (o *Ollama) generate(ctx context.Context, prompt string) (string, error) {
	raw, err := o.generateOnce(ctx, prompt)
	if err == nil {
		return raw, nil
	}

	o.log.WarnContext(ctx, "Ollama call failed, retrying once",
		"error", err,
		"model", o.model,
		"backoff", ollamaRetryBackoff)

	select {
	case <-time.After(ollamaRetryBackoff):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	return o.generateOnce(ctx, prompt)
}

func (o *Ollama) generateOnce(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(ollamaRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
		Options: ollamaOptions{
			Temperature: ollamaTemperature,
			NumPredict:  ollamaMaxTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	url := o.baseURL + ollamaGeneratePath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			o.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", url)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	var decoded ollamaResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("decode body: %w", err)
	}

	if decoded.Error != "" {
		return "", fmt.Errorf("model error: %s", decoded.Error)
	}

	return decoded.Response, nil
}

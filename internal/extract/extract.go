package extract

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"hnsum/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Extractor pulls readable plain text out of article pages. It is
// best-effort by contract: any failure yields ArticleContent with empty
// text and Extracted=false, never an error that aborts a story.
type Extractor struct {
	client    *http.Client
	selectors []string
	maxLen    int
	log       *slog.Logger
}

func New(
	selectors []string,
	maxLen int,
	timeout time.Duration,
	log *slog.Logger,
) *Extractor {
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		selectors: selectors,
		maxLen:    maxLen,
		log:       log,
	}
}

func (e *Extractor) Extract(
	ctx context.Context,
	title string,
	pageURL string,
) domain.ArticleContent {
	content := domain.ArticleContent{URL: pageURL, Title: title}

	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return content
	}

	text, err := e.fetchText(ctx, pageURL)
	if err != nil {
		e.log.WarnContext(ctx, "Content extraction failed",
			"error", err,
			"url", pageURL)
		return content
	}

	content.Text = text
	content.Extracted = true

	return content
}

func (e *Extractor) fetchText(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			e.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", pageURL)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("create document from reader: %w", err)
	}

	doc.Find("script, style").Remove()

	text := e.mainContent(doc)
	if text == "" {
		if body := doc.Find("body"); body.Length() > 0 {
			text = body.Text()
		} else {
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if e.maxLen > 0 && len(text) > e.maxLen {
		// Cap at a rune boundary so the cut never leaves invalid UTF-8.
		cut := e.maxLen
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	return text, nil
}

// mainContent tries the configured selectors in order; the first one that
// matches wins.
func (e *Extractor) mainContent(doc *goquery.Document) string {
	for _, selector := range e.selectors {
		sel := doc.Find(selector)
		if sel.Length() > 0 {
			return sel.First().Text()
		}
	}
	return ""
}

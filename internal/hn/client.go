package hn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"hnsum/internal/domain"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/127.0.0.0 Safari/537.36"

// Client talks to the official Hacker News Firebase API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log,
	}
}

type item struct {
	ID      int64   `json:"id"`
	Type    string  `json:"type"`
	By      string  `json:"by"`
	Time    int64   `json:"time"`
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Score   int64   `json:"score"`
	Text    string  `json:"text"`
	Kids    []int64 `json:"kids"`
	Dead    bool    `json:"dead"`
	Deleted bool    `json:"deleted"`
}

func (c *Client) TopStoryIDs(ctx context.Context, limit int) ([]int64, error) {
	var ids []int64
	if err := c.getJSON(ctx, c.baseURL+"/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}

	return ids, nil
}

func (c *Client) Story(ctx context.Context, id int64) (*domain.Story, error) {
	var it *item
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
	if err := c.getJSON(ctx, url, &it); err != nil {
		return nil, fmt.Errorf("fetch story %d: %w", id, err)
	}

	if it == nil || it.Deleted || it.Dead {
		return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
	}

	return &domain.Story{
		ID:         it.ID,
		Title:      it.Title,
		URL:        strings.TrimSpace(it.URL),
		Score:      it.Score,
		By:         it.By,
		Time:       it.Time,
		CommentIDs: it.Kids,
	}, nil
}

// Comments fetches up to maxCount top-level comment texts in the order the
// IDs were given. Fetch failures of individual comments are collected, not
// fatal: whatever was fetched is returned alongside the joined error.
func (c *Client) Comments(
	ctx context.Context,
	ids []int64,
	maxCount int,
) ([]string, error) {
	if maxCount > 0 && len(ids) > maxCount {
		ids = ids[:maxCount]
	}

	var texts []string
	var errs []error

	for _, id := range ids {
		var it *item
		url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
		if err := c.getJSON(ctx, url, &it); err != nil {
			errs = append(errs, fmt.Errorf("fetch comment %d: %w", id, err))
			continue
		}

		if it == nil || it.Deleted || it.Dead || it.Type != "comment" {
			continue
		}

		text := commentPlainText(it.Text)
		if text == "" {
			continue
		}

		texts = append(texts, text)
	}

	return texts, errors.Join(errs...)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.log.ErrorContext(ctx, "Failed to close response body",
				"error", closeErr,
				"url", url)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("do request: unexpected status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}

	return nil
}

// commentPlainText strips the HTML markup HN comment bodies carry.
func commentPlainText(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return raw
	}

	return strings.Join(strings.Fields(doc.Text()), " ")
}

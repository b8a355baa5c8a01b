package hn

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/mmcdole/gofeed"

	"hnsum/internal/domain"
)

var pointsRe = regexp.MustCompile(`Points:\s*(\d+)`)

// FeedProvider lists front-page stories through an hnrss.org RSS feed
// instead of the Firebase API. Comment threads are not exposed by the
// front-page feed, so Comments always degrades to an empty set.
type FeedProvider struct {
	feedURL string
	parser  *gofeed.Parser
	log     *slog.Logger

	mu    sync.Mutex // guards items; watch mode shares one provider across runs
	items map[int64]domain.Story
}

func NewFeedProvider(feedURL string, log *slog.Logger) *FeedProvider {
	return &FeedProvider{
		feedURL: feedURL,
		parser:  gofeed.NewParser(),
		items:   make(map[int64]domain.Story),
		log:     log,
	}
}

func (p *FeedProvider) TopStoryIDs(ctx context.Context, limit int) ([]int64, error) {
	parsed, err := p.parser.ParseURLWithContext(p.feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: parse feed (URL = %s): %w", ErrUnavailable, p.feedURL, err)
	}

	var ids []int64

	p.mu.Lock()
	for _, it := range parsed.Items {
		if limit > 0 && len(ids) >= limit {
			break
		}

		story, ok := p.parseItem(ctx, it)
		if !ok {
			continue
		}

		p.items[story.ID] = story
		ids = append(ids, story.ID)
	}
	p.mu.Unlock()

	return ids, nil
}

func (p *FeedProvider) Story(_ context.Context, id int64) (*domain.Story, error) {
	p.mu.Lock()
	story, ok := p.items[id]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("story %d: %w", id, ErrNotFound)
	}
	return &story, nil
}

func (p *FeedProvider) Comments(
	_ context.Context,
	_ []int64,
	_ int,
) ([]string, error) {
	return nil, errors.New("comments are not exposed by the front-page feed")
}

func (p *FeedProvider) parseItem(
	ctx context.Context,
	it *gofeed.Item,
) (domain.Story, bool) {
	id, ok := itemID(it.GUID)
	if !ok {
		p.log.WarnContext(ctx, "Skipping feed item without item ID",
			"guid", it.GUID,
			"title", it.Title)
		return domain.Story{}, false
	}

	story := domain.Story{
		ID:    id,
		Title: strings.TrimSpace(it.Title),
		URL:   strings.TrimSpace(it.Link),
	}

	if m := pointsRe.FindStringSubmatch(it.Description); len(m) == 2 {
		if score, err := strconv.ParseInt(m[1], 10, 64); err == nil {
			story.Score = score
		}
	}

	if it.Author != nil {
		story.By = strings.TrimSpace(it.Author.Name)
	}

	if it.PublishedParsed != nil {
		story.Time = it.PublishedParsed.Unix()
	}

	return story, true
}

// itemID pulls the numeric item ID out of an hnrss GUID, which is the
// canonical https://news.ycombinator.com/item?id=N URL.
func itemID(guid string) (int64, bool) {
	u, err := url.Parse(strings.TrimSpace(guid))
	if err != nil {
		return 0, false
	}

	raw := u.Query().Get("id")
	if raw == "" {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

package hn

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(server.URL, 5*time.Second, slog.Default()), server
}

func TestClientTopStoryIDsAppliesLimit(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/topstories.json" {
				t.Fatalf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte("[5, 4, 3, 2, 1]"))
		},
	))

	ids, err := client.TopStoryIDs(context.Background(), 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(ids) != 3 || ids[0] != 5 || ids[2] != 3 {
		t.Fatalf("unexpected IDs: %v", ids)
	}
}

func TestClientTopStoryIDsUnavailable(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	))

	if _, err := client.TopStoryIDs(context.Background(), 3); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestClientStory(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/item/42.json" {
				t.Fatalf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{
				"id": 42,
				"type": "story",
				"title": "A story",
				"url": "https://example.com/a",
				"score": 100,
				"by": "someone",
				"kids": [10, 11]
			}`))
		},
	))

	story, err := client.Story(context.Background(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if story.ID != 42 || story.Title != "A story" || story.Score != 100 {
		t.Fatalf("unexpected story: %+v", story)
	}
	if len(story.CommentIDs) != 2 {
		t.Fatalf("unexpected comment IDs: %v", story.CommentIDs)
	}
}

func TestClientStoryNotFound(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(
		func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte("null"))
		},
	))

	if _, err := client.Story(context.Background(), 404); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClientCommentsStripsHTMLAndSkipsDead(t *testing.T) {
	responses := map[string]string{
		"/item/1.json": `{"id": 1, "type": "comment", "text": "First <p>comment &amp; more</p>"}`,
		"/item/2.json": `{"id": 2, "type": "comment", "dead": true, "text": "dead"}`,
		"/item/3.json": `{"id": 3, "type": "comment", "text": "Third comment"}`,
		"/item/4.json": `{"id": 4, "type": "comment", "text": "Over the limit"}`,
	}

	client, _ := newTestClient(t, http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			body, ok := responses[r.URL.Path]
			if !ok {
				t.Fatalf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(body))
		},
	))

	comments, err := client.Comments(context.Background(), []int64{1, 2, 3, 4}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(comments) != 2 {
		t.Fatalf("expected 2 comments, got %v", comments)
	}
	if comments[0] != "First comment & more" {
		t.Fatalf("expected stripped HTML, got %q", comments[0])
	}
}

func TestItemIDFromGUID(t *testing.T) {
	id, ok := itemID("https://news.ycombinator.com/item?id=12345")
	if !ok || id != 12345 {
		t.Fatalf("unexpected result: %d, %v", id, ok)
	}

	if _, ok := itemID("https://news.ycombinator.com/"); ok {
		t.Fatalf("expected GUID without an ID to be rejected")
	}
}

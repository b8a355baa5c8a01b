package summarizer

import (
	"context"
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"hnsum/internal/domain"
)

func newTestBasic() *Basic {
	return NewBasic(20, 120)
}

func TestBasicSummaryEmptyContent(t *testing.T) {
	b := newTestBasic()

	result, err := b.Summarize(context.Background(), domain.ArticleContent{
		Title: "Some story",
		URL:   "https://example.com/story",
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(result.ArticleSummary.Lines); got != 3 {
		t.Fatalf("expected 3 lines for empty content, got %d", got)
	}

	if !result.ArticleSummary.UsedDefault {
		t.Fatalf("expected empty content summary to be flagged as default")
	}
}

func TestBasicSummaryAlwaysThreeLines(t *testing.T) {
	b := newTestBasic()

	var sb strings.Builder
	for range 10 {
		sb.WriteString("This sentence is long enough to count as content. ")
	}

	result, err := b.Summarize(context.Background(), domain.ArticleContent{
		Title:     "Big article",
		URL:       "https://example.com/big",
		Text:      sb.String(),
		Extracted: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := len(result.ArticleSummary.Lines); got != 3 {
		t.Fatalf("expected 3 lines for long content, got %d", got)
	}

	if result.ArticleSummary.UsedDefault {
		t.Fatalf("did not expect default flag for real content")
	}

	if want := "Article: Big article"; result.ArticleSummary.Lines[0] != want {
		t.Fatalf("unexpected first line: got %q want %q",
			result.ArticleSummary.Lines[0], want)
	}
}

func TestBasicSummaryPadsShortContent(t *testing.T) {
	b := newTestBasic()

	result, err := b.Summarize(context.Background(), domain.ArticleContent{
		Title:     "Short article",
		URL:       "https://example.com/short",
		Text:      "Only one sentence that is clearly long enough.",
		Extracted: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := result.ArticleSummary.Lines
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}

	if want := "URL: https://example.com/short"; lines[2] != want {
		t.Fatalf("expected URL padding line, got %q", lines[2])
	}
}

func TestBasicSummaryTruncatesLongSentences(t *testing.T) {
	b := newTestBasic()

	long := strings.Repeat("word ", 60)
	result, err := b.Summarize(context.Background(), domain.ArticleContent{
		Title:     "Long sentence",
		URL:       "https://example.com",
		Text:      long + ". Another sentence that is also long enough.",
		Extracted: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second := result.ArticleSummary.Lines[1]
	if !strings.HasSuffix(second, "...") {
		t.Fatalf("expected truncated line with ellipsis, got %q", second)
	}
	if len(second) > 123 {
		t.Fatalf("truncated line is too long: %d chars", len(second))
	}
}

func TestBasicSummaryTruncationKeepsValidUTF8(t *testing.T) {
	b := newTestBasic()

	// One ASCII byte then three-byte runes, so the 120-byte cap lands
	// mid-rune.
	long := "x" + strings.Repeat("€", 60)
	result, err := b.Summarize(context.Background(), domain.ArticleContent{
		Title:     "Multibyte",
		URL:       "https://example.com/é",
		Text:      long + ". Another sentence that is also long enough.",
		Extracted: true,
	}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, line := range result.ArticleSummary.Lines {
		if !utf8.ValidString(line) {
			t.Fatalf("line %d is invalid UTF-8: %q", i, line)
		}
	}

	second := result.ArticleSummary.Lines[1]
	if !strings.HasSuffix(second, "...") {
		t.Fatalf("expected truncated line, got %q", second)
	}
	if len(second) > 123 {
		t.Fatalf("truncated line is too long: %d bytes", len(second))
	}
}

func TestCutAtRuneBoundary(t *testing.T) {
	if got := cutAtRuneBoundary("ééé", 3); got != "é" {
		t.Fatalf("expected cut before the split rune, got %q", got)
	}
	if got := cutAtRuneBoundary("ééé", 4); got != "éé" {
		t.Fatalf("expected cut at the boundary, got %q", got)
	}
	if got := cutAtRuneBoundary("abc", 10); got != "abc" {
		t.Fatalf("short input must pass through, got %q", got)
	}
}

func TestBasicSummaryIdempotent(t *testing.T) {
	b := newTestBasic()

	content := domain.ArticleContent{
		Title:     "Stable story",
		URL:       "https://example.com/stable",
		Text:      "The first sentence has enough characters. The second one does as well.",
		Extracted: true,
	}

	first, err := b.Summarize(context.Background(), content, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	second, err := b.Summarize(context.Background(), content, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v vs %+v", first, second)
	}
}

func TestBasicNeedsNoComments(t *testing.T) {
	if newTestBasic().NeedsComments() {
		t.Fatalf("basic summarizer must not request comments")
	}
}

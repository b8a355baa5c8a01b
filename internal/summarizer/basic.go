package summarizer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"hnsum/internal/domain"
)

const noURLLine = "No URL available"

var sentenceDelimiterRe = regexp.MustCompile(`[.!?]+`)

// Basic is a deterministic extractive summarizer: it takes the first
// sentence-like units of the article text. It performs no network calls
// and cannot fail.
type Basic struct {
	minSentenceLength int
	maxLineLength     int
}

func NewBasic(minSentenceLength, maxLineLength int) *Basic {
	return &Basic{
		minSentenceLength: minSentenceLength,
		maxLineLength:     maxLineLength,
	}
}

func (b *Basic) NeedsComments() bool { return false }

func (b *Basic) Summarize(
	_ context.Context,
	content domain.ArticleContent,
	_ []string,
) (*domain.SummaryResult, error) {
	if strings.TrimSpace(content.Text) == "" {
		return &domain.SummaryResult{
			ArticleSummary: domain.SummaryField{
				Lines:       noContentLines(content),
				UsedDefault: true,
			},
		}, nil
	}

	sentences := b.extractSentences(content.Text)

	lines := []string{fmt.Sprintf("Article: %s", content.Title)}

	if len(sentences) > 0 {
		lines = append(lines, b.truncateLine(sentences[0]))
	} else {
		lines = append(lines, "No content available.")
	}

	if len(sentences) > 1 {
		lines = append(lines, b.truncateLine(sentences[1]))
	} else {
		lines = append(lines, fmt.Sprintf("URL: %s", content.URL))
	}

	return &domain.SummaryResult{
		ArticleSummary: domain.SummaryField{
			Lines: ensureLineCount(lines, content),
		},
	}, nil
}

func (b *Basic) extractSentences(text string) []string {
	var sentences []string
	for _, s := range sentenceDelimiterRe.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len(s) > b.minSentenceLength {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

func (b *Basic) truncateLine(line string) string {
	if len(line) > b.maxLineLength {
		return cutAtRuneBoundary(line, b.maxLineLength) + "..."
	}
	return line
}

// ensureLineCount pads or truncates to exactly the target line count so
// summaries are never reported ragged.
func ensureLineCount(lines []string, content domain.ArticleContent) []string {
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	if len(cleaned) > summaryLines {
		return cleaned[:summaryLines]
	}

	for len(cleaned) < summaryLines {
		switch len(cleaned) {
		case 0:
			cleaned = append(cleaned, fmt.Sprintf("Article: %s", content.Title))
		case 1:
			cleaned = append(cleaned, "Content not available for detailed summarization.")
		default:
			cleaned = append(cleaned, fmt.Sprintf("URL: %s", content.URL))
		}
	}

	return cleaned
}

// noContentLines is the fixed summary shape for stories whose article
// text could not be extracted.
func noContentLines(content domain.ArticleContent) []string {
	urlLine := noURLLine
	if content.URL != "" {
		display := content.URL
		if len(display) > 80 {
			display = cutAtRuneBoundary(display, 80) + "..."
		}
		urlLine = fmt.Sprintf("URL: %s", display)
	}

	return []string{
		fmt.Sprintf("Title: %s", content.Title),
		"Content not available for summarization.",
		urlLine,
	}
}

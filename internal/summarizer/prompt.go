package summarizer

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"hnsum/internal/domain"
)

// enhancedPrompt asks the model for the documented section layout the
// response parser understands:
//
//	ARTICLE SUMMARY:
//	1. ...
//	COMMENT SUMMARY:
//	...
//	KEY POINTS:
//	- ...
//	RELATED LINKS:
//	- https://...
func enhancedPrompt(content domain.ArticleContent, comments []string) string {
	var sb strings.Builder

	sb.WriteString("Summarize the following article and its discussion.\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n", content.Title))
	sb.WriteString(fmt.Sprintf("Content: %s\n", truncate(content.Text, promptContentMaxChars)))

	if len(comments) > 0 {
		sb.WriteString("\nTop comments:\n")
		for _, comment := range comments {
			sb.WriteString(fmt.Sprintf("- %s\n", truncate(comment, promptCommentMaxChars)))
		}
	}

	sb.WriteString(`
Respond with exactly these sections:

ARTICLE SUMMARY:
`)
	sb.WriteString(fmt.Sprintf("Exactly %d concise lines capturing the article.\n\n", summaryLines))

	if len(comments) > 0 {
		sb.WriteString("COMMENT SUMMARY:\nA few lines capturing the discussion themes.\n\n")
	}

	sb.WriteString(fmt.Sprintf("KEY POINTS:\n%d short bullet points.\n\n", keyPointCount))
	sb.WriteString("RELATED LINKS:\nAny URLs worth following up, one per line. Leave empty if none.\n")

	return sb.String()
}

func truncate(s string, maxChars int) string {
	s = strings.TrimSpace(s)
	if maxChars > 0 {
		s = cutAtRuneBoundary(s, maxChars)
	}
	return s
}

// cutAtRuneBoundary caps s at max bytes without splitting a multibyte
// rune, backing up to the nearest boundary.
func cutAtRuneBoundary(s string, max int) string {
	if len(s) <= max {
		return s
	}

	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}

	return s[:max]
}

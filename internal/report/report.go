package report

import (
	"fmt"
	"strings"

	"hnsum/internal/domain"
)

const separator = "============================================================"

// Render produces the plain-text digest: one block per story in rank
// order, then the run counters.
func Render(r *domain.Report) string {
	var sb strings.Builder

	sb.WriteString(separator + "\n")

	for i := range r.Outcomes {
		outcome := &r.Outcomes[i]

		fmt.Fprintf(&sb, "\n--- Story %d (Score: %d) ---\n", i+1, outcome.Story.Score)

		if outcome.Story.Title != "" {
			sb.WriteString(outcome.Story.Title + "\n")
		}
		if outcome.Story.URL != "" {
			sb.WriteString(outcome.Story.URL + "\n")
		}

		if outcome.Failed() {
			fmt.Fprintf(&sb, "[skipped: %v]\n", outcome.Err)
			continue
		}

		renderSummary(&sb, outcome)

		if outcome.FallbackUsed {
			fmt.Fprintf(&sb, "(fell back to %s mode)\n", outcome.ModeUsed)
		}
	}

	sb.WriteString("\n" + separator + "\n")
	fmt.Fprintf(&sb, "%d stories: %d succeeded, %d failed, %d fallbacks\n",
		len(r.Outcomes), r.Successes(), r.Failures(), r.Fallbacks())

	return sb.String()
}

func renderSummary(sb *strings.Builder, outcome *domain.Outcome) {
	for _, line := range outcome.Summary.ArticleSummary.Lines {
		sb.WriteString(line + "\n")
	}

	if !outcome.Summary.Enhanced {
		return
	}

	if len(outcome.Summary.CommentSummary.Lines) > 0 {
		sb.WriteString("Comments:\n")
		for _, line := range outcome.Summary.CommentSummary.Lines {
			sb.WriteString("  " + line + "\n")
		}
	}

	if len(outcome.Summary.KeyPoints.Lines) > 0 {
		sb.WriteString("Key points:\n")
		for _, line := range outcome.Summary.KeyPoints.Lines {
			sb.WriteString("  - " + line + "\n")
		}
	}

	if len(outcome.Summary.RelatedLinks) > 0 {
		sb.WriteString("Related links:\n")
		for _, link := range outcome.Summary.RelatedLinks {
			sb.WriteString("  - " + link + "\n")
		}
	}
}

// ExitCode maps a finished report onto a process exit status. Per-story
// degradations are not failures of the run; only a report where nothing
// succeeded exits nonzero.
func ExitCode(r *domain.Report) int {
	if len(r.Outcomes) == 0 || r.Successes() == 0 {
		return 1
	}
	return 0
}

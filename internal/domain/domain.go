package domain

import "time"

// Mode selects the summarization strategy for a run.
type Mode string

const (
	ModeBasic  Mode = "basic"
	ModeOllama Mode = "ollama"
	ModeLLMAPI Mode = "llmapi"
)

func ParseMode(raw string) (Mode, bool) {
	switch Mode(raw) {
	case ModeBasic, ModeOllama, ModeLLMAPI:
		return Mode(raw), true
	default:
		return "", false
	}
}

// Story is one Hacker News submission. Immutable once fetched. URL is
// empty for self posts (Ask HN and similar).
type Story struct {
	ID         int64
	Title      string
	URL        string
	Score      int64
	By         string
	Time       int64
	CommentIDs []int64
}

// ArticleContent is the extracted plain text of a story's linked page.
// Extracted is false when the page could not be fetched or parsed, in
// which case Text is empty.
type ArticleContent struct {
	URL       string
	Title     string
	Text      string
	Extracted bool
}

// SummaryField is a group of summary lines together with a flag that
// records whether the lines were synthesized as placeholders instead of
// being derived from model output.
type SummaryField struct {
	Lines       []string
	UsedDefault bool
}

// SummaryResult is the normalized output of any summarizer. ArticleSummary
// always holds exactly the target number of lines. The remaining fields
// are populated only when Enhanced is true.
type SummaryResult struct {
	ArticleSummary SummaryField
	CommentSummary SummaryField
	KeyPoints      SummaryField
	RelatedLinks   []string
	Enhanced       bool
}

// Outcome is the per-story record collected into the final report.
// Created once per story per run and never mutated afterwards.
type Outcome struct {
	Story         Story
	Content       ArticleContent
	Summary       *SummaryResult
	Err           error
	ModeRequested Mode
	ModeUsed      Mode
	FallbackUsed  bool
	Elapsed       time.Duration
}

func (o *Outcome) Failed() bool {
	return o.Err != nil || o.Summary == nil
}

// Report is the ordered result of one pipeline run. Outcomes keep the
// rank order of the upstream story listing.
type Report struct {
	Mode       Mode
	StartedAt  time.Time
	FinishedAt time.Time
	Outcomes   []Outcome
}

func (r *Report) Successes() int {
	n := 0
	for i := range r.Outcomes {
		if !r.Outcomes[i].Failed() {
			n++
		}
	}
	return n
}

func (r *Report) Failures() int {
	return len(r.Outcomes) - r.Successes()
}

func (r *Report) Fallbacks() int {
	n := 0
	for i := range r.Outcomes {
		if r.Outcomes[i].FallbackUsed {
			n++
		}
	}
	return n
}

package summarizer

import (
	"context"
	"log/slog"
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"hnsum/internal/domain"
)

// Section headers tolerate markdown decoration and inline content after a
// colon, but must stand alone on their line otherwise.
var (
	articleHeaderRe  = regexp.MustCompile(`(?i)^[#*\s]*article\s+summary\s*(?::\s*(.*))?\s*$`)
	commentHeaderRe  = regexp.MustCompile(`(?i)^[#*\s]*comments?\s+summary\s*(?::\s*(.*))?\s*$`)
	keyPointHeaderRe = regexp.MustCompile(`(?i)^[#*\s]*key\s*points?\s*(?::\s*(.*))?\s*$`)
	linkHeaderRe     = regexp.MustCompile(`(?i)^[#*\s]*related\s+links?\s*(?::\s*(.*))?\s*$`)

	bulletPrefixRe = regexp.MustCompile(`^([-*•]+|\d+[.)])\s*`)

	linkRe = xurls.Strict()
)

type parsedResponse struct {
	article   []string
	comments  []string
	keyPoints []string
	links     []string
	sawHeader bool
}

func (p *parsedResponse) empty() bool {
	return len(p.article) == 0 &&
		len(p.comments) == 0 &&
		len(p.keyPoints) == 0 &&
		len(p.links) == 0
}

// parseEnhancedResponse splits raw model output into the four enhanced
// sections using tolerant structural matching. The response is not
// guaranteed well-formed; a headerless response is treated as article
// summary lines. This function never fails.
func parseEnhancedResponse(raw string) parsedResponse {
	var p parsedResponse

	section := &p.article
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if rest, ok := matchHeader(line, articleHeaderRe); ok {
			section = &p.article
			p.noteHeader(section, rest)
			continue
		}
		if rest, ok := matchHeader(line, commentHeaderRe); ok {
			section = &p.comments
			p.noteHeader(section, rest)
			continue
		}
		if rest, ok := matchHeader(line, keyPointHeaderRe); ok {
			section = &p.keyPoints
			p.noteHeader(section, rest)
			continue
		}
		if rest, ok := matchHeader(line, linkHeaderRe); ok {
			section = &p.links
			p.noteHeader(section, rest)
			continue
		}

		if cleaned := cleanLine(line); cleaned != "" {
			*section = append(*section, cleaned)
		}
	}

	return p
}

func (p *parsedResponse) noteHeader(section *[]string, rest string) {
	p.sawHeader = true

	// Content may follow the header on the same line.
	if cleaned := cleanLine(rest); cleaned != "" {
		*section = append(*section, cleaned)
	}
}

func matchHeader(line string, re *regexp.Regexp) (string, bool) {
	m := re.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func cleanLine(line string) string {
	line = bulletPrefixRe.ReplaceAllString(strings.TrimSpace(line), "")
	return strings.TrimSpace(strings.Trim(line, "*"))
}

// normalizeEnhanced validates each parsed field independently and pads or
// truncates it to its target shape, flagging synthesized fields. The
// result is always fully populated: malformed model output degrades, it
// never surfaces as an error.
func normalizeEnhanced(
	ctx context.Context,
	p parsedResponse,
	hadComments bool,
	log *slog.Logger,
) *domain.SummaryResult {
	result := &domain.SummaryResult{
		Enhanced:       true,
		ArticleSummary: normalizeArticleSummary(p.article),
		CommentSummary: normalizeCommentSummary(p.comments, hadComments),
		KeyPoints:      normalizeKeyPoints(p.keyPoints),
		RelatedLinks:   validLinks(p.links),
	}

	logDefaulted(ctx, p, result, log)

	return result
}

func normalizeArticleSummary(lines []string) domain.SummaryField {
	if len(lines) == 0 {
		return domain.SummaryField{
			Lines: []string{
				"No summary could be generated for this article.",
				"The model response did not contain a usable summary.",
				"See the source article for details.",
			},
			UsedDefault: true,
		}
	}

	if len(lines) > summaryLines {
		lines = lines[:summaryLines]
	}
	for len(lines) < summaryLines {
		lines = append(lines, "No further content available.")
	}

	return domain.SummaryField{Lines: lines}
}

func normalizeCommentSummary(lines []string, hadComments bool) domain.SummaryField {
	if len(lines) > 0 {
		return domain.SummaryField{Lines: lines}
	}

	// Empty is valid when there was no discussion to summarize.
	if !hadComments {
		return domain.SummaryField{}
	}

	return domain.SummaryField{
		Lines:       []string{"No comment summary available."},
		UsedDefault: true,
	}
}

func normalizeKeyPoints(points []string) domain.SummaryField {
	if len(points) >= keyPointCount {
		return domain.SummaryField{Lines: points[:keyPointCount]}
	}

	// Padding stays generic and clearly non-substantive: defaults must
	// never fabricate specific claims.
	for len(points) < keyPointCount {
		points = append(points, "No additional key point identified.")
	}

	return domain.SummaryField{Lines: points, UsedDefault: true}
}

// validLinks keeps 0..N well-formed URLs and silently discards the rest.
// Links are never padded.
func validLinks(lines []string) []string {
	var links []string
	seen := make(map[string]struct{}, len(lines))

	for _, line := range lines {
		link := linkRe.FindString(line)
		if link == "" {
			continue
		}

		if _, ok := seen[link]; ok {
			continue
		}

		seen[link] = struct{}{}
		links = append(links, link)
	}

	return links
}

// logDefaulted emits the diagnostic record operators use to debug summary
// quality. It distinguishes a response with nothing parseable from one the
// model partially complied with.
func logDefaulted(
	ctx context.Context,
	p parsedResponse,
	result *domain.SummaryResult,
	log *slog.Logger,
) {
	if p.empty() {
		log.WarnContext(ctx, "Model returned nothing parseable",
			"sawSectionHeaders", p.sawHeader)
		return
	}

	var defaulted []string
	if result.ArticleSummary.UsedDefault {
		defaulted = append(defaulted, "articleSummary")
	}
	if result.CommentSummary.UsedDefault {
		defaulted = append(defaulted, "commentSummary")
	}
	if result.KeyPoints.UsedDefault {
		defaulted = append(defaulted, "keyPoints")
	}

	if len(defaulted) > 0 {
		log.DebugContext(ctx, "Model partially complied",
			"defaultedFields", defaulted,
			"sawSectionHeaders", p.sawHeader,
			"relatedLinkCount", len(result.RelatedLinks))
	}
}

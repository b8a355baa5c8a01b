package summarizer

import "hnsum/internal/domain"

// noContentResult is the well-formed enhanced result for stories whose
// article text could not be extracted. The backend is not called for
// empty input, so every field is a flagged default.
func noContentResult(
	content domain.ArticleContent,
	hadComments bool,
) *domain.SummaryResult {
	return &domain.SummaryResult{
		Enhanced: true,
		ArticleSummary: domain.SummaryField{
			Lines:       noContentLines(content),
			UsedDefault: true,
		},
		CommentSummary: normalizeCommentSummary(nil, hadComments),
		KeyPoints:      normalizeKeyPoints(nil),
	}
}

package hn

import (
	"context"
	"errors"

	"hnsum/internal/domain"
)

var (
	// ErrUnavailable marks a failed story listing. This is the only
	// provider error that is fatal to a whole run.
	ErrUnavailable = errors.New("story listing unavailable")

	// ErrNotFound marks a story ID the upstream does not know.
	ErrNotFound = errors.New("story not found")
)

// Provider supplies story listings, story metadata and top-level comment
// texts. Comments is best-effort: callers degrade to an empty set on error.
type Provider interface {
	TopStoryIDs(ctx context.Context, limit int) ([]int64, error)
	Story(ctx context.Context, id int64) (*domain.Story, error)
	Comments(ctx context.Context, ids []int64, maxCount int) ([]string, error)
}

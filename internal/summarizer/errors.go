package summarizer

import "fmt"

// BackendUnavailableError marks a failed model backend call (transport,
// auth or timeout). Fallback policy is decided by the pipeline, never here.
type BackendUnavailableError struct {
	Backend string
	Err     error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("%s backend unavailable: %v", e.Backend, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

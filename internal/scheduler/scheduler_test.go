package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
)

func TestSchedulerSkipsOverlappingRuns(t *testing.T) {
	entered := make(chan struct{}, 1)
	release := make(chan struct{})
	var calls atomic.Int32

	s := New(context.Background(), "@every 1h", func(_ context.Context) {
		calls.Add(1)
		entered <- struct{}{}
		<-release
	}, slog.Default())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.run()
	}()

	<-entered

	// Fires while the first run is still blocked inside the job.
	s.run()

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected overlapping run to be skipped, job ran %d times", got)
	}

	// release is closed, so a fresh run completes immediately.
	s.run()
	if got := calls.Load(); got != 2 {
		t.Fatalf("expected run after completion to execute, job ran %d times", got)
	}
}

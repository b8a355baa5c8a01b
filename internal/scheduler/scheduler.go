// Package scheduler runs the pipeline repeatedly on a cron spec for
// watch mode.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

const runTimeout = 30 * time.Minute

type Scheduler struct {
	ctx  context.Context
	cron *cron.Cron
	spec string
	job  func(ctx context.Context)
	log  *slog.Logger

	// Guards against overlapping runs: a tick that fires while the
	// previous run is still processing is skipped, not queued.
	mu sync.Mutex
}

func New(
	ctx context.Context,
	spec string,
	job func(ctx context.Context),
	log *slog.Logger,
) *Scheduler {
	return &Scheduler{
		ctx:  ctx,
		cron: cron.New(cron.WithLocation(time.UTC)),
		spec: spec,
		job:  job,
		log:  log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) run() {
	if !s.mu.TryLock() {
		s.log.Warn("Skipping scheduled run, previous run is still in progress",
			"spec", s.spec)
		return
	}
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(s.ctx, runTimeout)
	defer cancel()

	if ctx.Err() != nil {
		s.log.InfoContext(ctx, "Scheduler context is done",
			"error", ctx.Err())
		return
	}

	s.log.InfoContext(ctx, "Scheduled run starting",
		"spec", s.spec)

	s.job(ctx)
}

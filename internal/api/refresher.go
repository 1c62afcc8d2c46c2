package api

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/logger"
)

// Refresher refetches the session listings on a cron schedule.
type Refresher struct {
	cron      *cron.Cron
	session   *core.Session
	log       *logger.Logger
	mu        sync.Mutex
	isRunning bool
}

// NewRefresher creates a refresher for session. It does nothing until Start.
func NewRefresher(session *core.Session, log *logger.Logger) *Refresher {
	if log == nil {
		log = logger.Nop()
	}
	return &Refresher{
		cron:    cron.New(),
		session: session,
		log:     log,
	}
}

// Start schedules the refresh job. An empty spec disables it.
func (r *Refresher) Start(ctx context.Context, spec string) error {
	if spec == "" {
		r.log.Debug("periodic refresh disabled")
		return nil
	}

	_, err := r.cron.AddFunc(spec, func() {
		r.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.cron.Start()
	r.isRunning = true
	r.log.Info("periodic refresh scheduled", "cron", spec)
	return nil
}

// RunOnce refetches the listings and station distances immediately.
func (r *Refresher) RunOnce(ctx context.Context) int {
	if ctx.Err() != nil {
		return 0
	}
	n := r.session.Refresh(ctx)
	r.log.Info("listings refreshed", "count", n)
	return n
}

// Stop halts the schedule and waits for a running refresh to finish.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isRunning {
		<-r.cron.Stop().Done()
		r.isRunning = false
		r.log.Info("periodic refresh stopped")
	}
}

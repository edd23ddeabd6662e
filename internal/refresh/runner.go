// Package refresh schedules the periodic results sweep.
package refresh

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

type Runner struct {
	cron    *cron.Cron
	baseCtx context.Context
}

func NewRunner(baseCtx context.Context) *Runner {
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	return &Runner{cron: cron.New(), baseCtx: baseCtx}
}

// Add registers a job under a standard cron spec ("@daily", "@hourly", or a
// five-field expression).
func (r *Runner) Add(spec string, job func(context.Context)) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		job(r.baseCtx)
	})
}

func (r *Runner) Start() {
	slog.Info("results sweep scheduler started")
	r.cron.Start()
}

// Stop halts scheduling and waits for a running sweep to finish.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	slog.Info("results sweep scheduler stopped")
}

package worker

import (
	"context"
	"time"

	"github.com/KOFI-GYIMAH/github-tail/pkg/logger"
)

type Task func(ctx context.Context) error

// * PeriodicWorker runs a task once immediately and then on every tick until
// * its context is cancelled
type PeriodicWorker struct {
	name     string
	task     Task
	interval time.Duration
}

func NewPeriodicWorker(name string, interval time.Duration, task Task) *PeriodicWorker {
	return &PeriodicWorker{
		name:     name,
		task:     task,
		interval: interval,
	}
}

func (w *PeriodicWorker) Run(ctx context.Context) {
	w.runOnce(ctx, "initial")
	w.Loop(ctx)
}

// * Loop only runs the task on ticks; a non-positive interval returns at once
func (w *PeriodicWorker) Loop(ctx context.Context) {
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.runOnce(ctx, "scheduled")

		case <-ctx.Done():
			logger.Info("stopping %s worker", w.name)
			return
		}
	}
}

func (w *PeriodicWorker) runOnce(ctx context.Context, kind string) {
	if ctx.Err() != nil {
		return
	}
	if err := w.task(ctx); err != nil {
		logger.Error("%s %s run failed: %v", kind, w.name, err)
		return
	}
	logger.Debug("%s %s run finished", kind, w.name)
}

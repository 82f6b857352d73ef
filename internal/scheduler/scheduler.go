// Package scheduler runs the crawl, enrich, and digest tasks on cron
// schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jonesrussell/aiwatch/internal/logger"
)

// Task is one schedulable unit of work.
type Task func(ctx context.Context) error

// Scheduler wraps robfig/cron. A task whose previous run is still in
// flight is skipped, not stacked.
type Scheduler struct {
	cron *cron.Cron
	log  logger.Interface

	mu      sync.Mutex
	running map[string]bool
}

// New creates a scheduler.
func New(log logger.Interface) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log.WithComponent("scheduler"),
		running: map[string]bool{},
	}
}

// Register adds a task under a standard 5-field cron spec.
func (s *Scheduler) Register(ctx context.Context, name, spec string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() {
		s.runTask(ctx, name, task)
	})
	if err != nil {
		return fmt.Errorf("failed to schedule %s (%q): %w", name, spec, err)
	}
	s.log.Info("task scheduled", "task", name, "schedule", spec)
	return nil
}

// runTask executes one task unless it is already running.
func (s *Scheduler) runTask(ctx context.Context, name string, task Task) {
	s.mu.Lock()
	if s.running[name] {
		s.mu.Unlock()
		s.log.Warn("previous run still in flight, skipping", "task", name)
		return
	}
	s.running[name] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running[name] = false
		s.mu.Unlock()
	}()

	start := time.Now()
	s.log.Info("task starting", "task", name)
	if err := task(ctx); err != nil {
		s.log.Error("task failed", "task", name, "error", err, "duration", time.Since(start))
		return
	}
	s.log.Info("task finished", "task", name, "duration", time.Since(start))
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits
// for in-flight tasks to finish.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	s.log.Info("scheduler started")

	<-ctx.Done()

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.log.Info("scheduler stopped")
}

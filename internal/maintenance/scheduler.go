// Package maintenance runs periodic housekeeping of stored learner data.
package maintenance

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/vytor/vocabflash/internal/logger"
)

// Enqueuer hands maintenance work to the background queue.
type Enqueuer interface {
	EnqueueMaintenance() error
}

// Scheduler enqueues a maintenance job at a fixed interval
type Scheduler struct {
	scheduler *gocron.Scheduler
	queue     Enqueuer
	interval  time.Duration
	log       *logger.Logger
}

// New creates a new scheduler instance
func New(queue Enqueuer, interval time.Duration) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		queue:     queue,
		interval:  interval,
		log:       logger.Default().WithPrefix("maintenance"),
	}
}

// Start schedules the job, running it once immediately, and returns without
// blocking.
func (s *Scheduler) Start() error {
	if _, err := s.scheduler.Every(s.interval).Do(s.enqueue); err != nil {
		return fmt.Errorf("schedule maintenance: %w", err)
	}
	s.scheduler.StartAsync()
	s.log.Info("maintenance scheduled every %s", s.interval)
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	s.log.Info("maintenance scheduler stopped")
}

func (s *Scheduler) enqueue() {
	if err := s.queue.EnqueueMaintenance(); err != nil {
		s.log.Warn("failed to enqueue maintenance: %v", err)
	}
}

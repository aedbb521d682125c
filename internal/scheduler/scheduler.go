// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/birddog/teddy/pkg/logger"
)

// Job is a schedulable unit of background work.
type Job interface {
	// Name identifies the job in logs and stats.
	Name() string

	// Schedule is a cron expression with a seconds field,
	// e.g. "0 */15 * * * *" for every 15 minutes.
	Schedule() string

	// Run executes the job.
	Run(ctx context.Context) error
}

// JobResult records one execution.
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyCap = 50

// Scheduler wires jobs into a cron runner and keeps a bounded
// per-job execution history.
type Scheduler struct {
	cron    *cron.Cron
	logger  *logger.Logger
	mu      sync.RWMutex
	jobs    map[string]Job
	history map[string][]JobResult
}

// New creates an empty scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		logger:  log,
		jobs:    make(map[string]Job),
		history: make(map[string][]JobResult),
	}
}

// AddJob registers a job under its cron schedule.
func (s *Scheduler) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("scheduler: job %s already registered", name)
	}
	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.run(job) }); err != nil {
		return fmt.Errorf("scheduler: schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job registered")
	return nil
}

// Start begins executing schedules.
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// RunNow triggers a job outside its schedule.
func (s *Scheduler) RunNow(name string) error {
	s.mu.RLock()
	job, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("scheduler: job %s not found", name)
	}
	go s.run(job)
	return nil
}

func (s *Scheduler) run(job Job) {
	name := job.Name()
	start := time.Now()

	err := job.Run(context.Background())
	result := JobResult{
		JobName:   name,
		StartTime: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}

	if err != nil {
		result.Error = err.Error()
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
			"error":    err.Error(),
		}).Error("Job failed")
	} else {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": result.Duration,
		}).Debug("Job completed")
	}

	s.mu.Lock()
	results := append(s.history[name], result)
	if len(results) > historyCap {
		results = results[len(results)-historyCap:]
	}
	s.history[name] = results
	s.mu.Unlock()
}

// History returns recent results for a job, newest last.
func (s *Scheduler) History(name string) []JobResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]JobResult, len(s.history[name]))
	copy(out, s.history[name])
	return out
}

// Jobs lists registered job names.
func (s *Scheduler) Jobs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

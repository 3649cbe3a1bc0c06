package cron

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// JobStatus is the outcome of a job's last run.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusFulfill JobStatus = "fulfill"
	StatusReject  JobStatus = "reject"
)

// Job is a background task run every Interval.
type Job struct {
	Name        string
	Description string
	Interval    time.Duration
	Fn          func(ctx context.Context) error
}

type jobState struct {
	Job
	mu        sync.Mutex
	status    JobStatus
	message   string
	lastRunAt *time.Time
	nextRunAt time.Time
}

// Scheduler runs named interval jobs until its context is cancelled.
type Scheduler struct {
	mu   sync.RWMutex
	jobs map[string]*jobState
}

func New() *Scheduler {
	return &Scheduler{jobs: make(map[string]*jobState)}
}

// Register adds a job. Must be called before Start.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = &jobState{
		Job:       job,
		status:    StatusIdle,
		nextRunAt: time.Now().Add(job.Interval),
	}
}

// Start launches one goroutine per registered job.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, js := range s.jobs {
		go s.runLoop(ctx, js)
	}
}

func (s *Scheduler) runLoop(ctx context.Context, js *jobState) {
	for {
		js.mu.Lock()
		wait := time.Until(js.nextRunAt)
		js.mu.Unlock()
		if wait < 0 {
			wait = 0
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.execute(ctx, js)
			js.mu.Lock()
			js.nextRunAt = time.Now().Add(js.Interval)
			js.mu.Unlock()
		}
	}
}

func (s *Scheduler) execute(ctx context.Context, js *jobState) {
	js.mu.Lock()
	if js.status == StatusRunning {
		js.mu.Unlock()
		return
	}
	js.status = StatusRunning
	js.mu.Unlock()

	now := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.lastRunAt = &now
	if err != nil {
		js.status = StatusReject
		js.message = err.Error()
	} else {
		js.status = StatusFulfill
		js.message = ""
	}
	js.mu.Unlock()
}

// RunNow executes a job synchronously, e.g. from a CLI command.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	s.execute(ctx, js)
	return s.lastError(js)
}

// Status reports the last outcome of a job.
func (s *Scheduler) Status(name string) (JobStatus, string, error) {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("job %q not found", name)
	}
	js.mu.Lock()
	defer js.mu.Unlock()
	return js.status, js.message, nil
}

func (s *Scheduler) lastError(js *jobState) error {
	js.mu.Lock()
	defer js.mu.Unlock()
	if js.status == StatusReject {
		return fmt.Errorf("job %q: %s", js.Name, js.message)
	}
	return nil
}

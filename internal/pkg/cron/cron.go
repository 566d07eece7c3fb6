package cron

import (
	"context"
	"fmt"
	"sync"
	"time"

	cronlib "github.com/robfig/cron/v3"
)

// JobStatus represents the last known state of a job.
type JobStatus string

const (
	StatusIdle    JobStatus = "idle"
	StatusRunning JobStatus = "running"
	StatusFulfill JobStatus = "fulfill"
	StatusReject  JobStatus = "reject"
)

// Job defines a scheduled background task. Spec is a standard cron
// expression (minute granularity), e.g. "0 0 * * 1" for Monday midnight.
type Job struct {
	Name        string
	Description string
	Spec        string
	Fn          func(ctx context.Context) error
}

// JobState holds runtime state for a registered job.
type JobState struct {
	Job
	Status    JobStatus
	Message   string
	LastRunAt *time.Time
	entryID   cronlib.EntryID
	mu        sync.Mutex
}

// ListItem is the serializable representation of a job for the API.
type ListItem struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Spec        string     `json:"spec"`
	Status      JobStatus  `json:"status"`
	NextDate    *time.Time `json:"next_date,omitempty"`
	LastRunAt   *time.Time `json:"last_run_at,omitempty"`
	Message     string     `json:"message,omitempty"`
}

// Scheduler manages a collection of named cron jobs.
type Scheduler struct {
	mu     sync.RWMutex
	jobs   map[string]*JobState
	runner *cronlib.Cron
	ctx    context.Context
}

// New creates an empty Scheduler running in the given location.
func New(loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &Scheduler{
		jobs:   make(map[string]*JobState),
		runner: cronlib.New(cronlib.WithLocation(loc)),
	}
}

// Register adds a job to the scheduler. Must be called before Start.
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.Name]; exists {
		return fmt.Errorf("job %q already registered", job.Name)
	}

	js := &JobState{Job: job, Status: StatusIdle}
	entryID, err := s.runner.AddFunc(job.Spec, func() {
		s.execute(s.currentCtx(), js)
	})
	if err != nil {
		return fmt.Errorf("invalid cron spec %q for job %q: %w", job.Spec, job.Name, err)
	}
	js.entryID = entryID
	s.jobs[job.Name] = js
	return nil
}

// Start launches the scheduler and blocks until the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.runner.Start()
	<-ctx.Done()
	<-s.runner.Stop().Done()
}

func (s *Scheduler) execute(ctx context.Context, js *JobState) {
	if ctx == nil {
		ctx = context.Background()
	}

	js.mu.Lock()
	if js.Status == StatusRunning {
		js.mu.Unlock()
		return
	}
	js.Status = StatusRunning
	js.mu.Unlock()

	now := time.Now()
	err := js.Fn(ctx)

	js.mu.Lock()
	js.LastRunAt = &now
	if err != nil {
		js.Status = StatusReject
		js.Message = err.Error()
	} else {
		js.Status = StatusFulfill
		js.Message = ""
	}
	js.mu.Unlock()
}

// Run manually triggers a job by name (non-blocking). The job executes
// under the scheduler's lifetime context, not the caller's, so it survives
// the triggering request.
func (s *Scheduler) Run(name string) error {
	s.mu.RLock()
	js, ok := s.jobs[name]
	s.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q not found", name)
	}
	go s.execute(s.currentCtx(), js)
	return nil
}

func (s *Scheduler) currentCtx() context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ctx
}

// List returns a summary of all registered jobs.
func (s *Scheduler) List() []ListItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]ListItem, 0, len(s.jobs))
	for _, js := range s.jobs {
		js.mu.Lock()
		item := ListItem{
			Name:        js.Name,
			Description: js.Description,
			Spec:        js.Spec,
			Status:      js.Status,
			LastRunAt:   js.LastRunAt,
			Message:     js.Message,
		}
		js.mu.Unlock()
		if next := s.runner.Entry(js.entryID).Next; !next.IsZero() {
			item.NextDate = &next
		}
		items = append(items, item)
	}
	return items
}

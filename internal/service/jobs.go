package service

import (
	"context"
	"errors"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/lead-scanner/internal/entity"
)

// ErrJobNotFound indicates the requested scan job does not exist.
var ErrJobNotFound = errors.New("scan job not found")

// ScanRunner abstracts the scanner so the job manager can be tested with a
// stub that completes instantly.
type ScanRunner interface {
	Scan(ctx context.Context, industries []string, progress ScanProgress) (ScanSummary, error)
}

// ResultWriter persists a finished scan to an output file and returns its path.
type ResultWriter interface {
	Write(summary ScanSummary) (string, error)
}

// BusinessStore saves scan results to durable storage. Optional; a nil store
// means file output only.
type BusinessStore interface {
	SaveScan(ctx context.Context, businesses []entity.Business) error
}

type jobState struct {
	snapshot   entity.ScanJobSnapshot
	businesses []entity.Business
	cancel     context.CancelFunc
}

// JobManager runs scans in the background and serves point-in-time snapshots
// to pollers. All state lives in memory; jobs do not survive a restart.
type JobManager struct {
	mu     sync.Mutex
	jobs   map[string]*jobState
	runner ScanRunner
	writer ResultWriter
	store  BusinessStore
}

// NewJobManager constructs the manager. writer and store may be nil.
func NewJobManager(runner ScanRunner, writer ResultWriter, store BusinessStore) *JobManager {
	return &JobManager{
		jobs:   make(map[string]*jobState),
		runner: runner,
		writer: writer,
		store:  store,
	}
}

// Start launches a scan for the given industries and returns the job ID
// immediately. The scan itself runs on a background goroutine detached from
// the caller's request context.
func (m *JobManager) Start(industries []string) string {
	jobID := uuid.New().String()
	ctx, cancel := context.WithCancel(context.Background())

	now := time.Now().UTC()
	m.mu.Lock()
	m.jobs[jobID] = &jobState{
		snapshot: entity.ScanJobSnapshot{
			JobID:     jobID,
			Status:    entity.JobPending,
			StartedAt: &now,
		},
		cancel: cancel,
	}
	m.mu.Unlock()

	go m.run(ctx, jobID, industries)
	return jobID
}

func (m *JobManager) run(ctx context.Context, jobID string, industries []string) {
	m.update(jobID, func(s *entity.ScanJobSnapshot) {
		s.Status = entity.JobRunning
	})

	summary, err := m.runner.Scan(ctx, industries, func(u ScanUpdate) {
		m.update(jobID, func(s *entity.ScanJobSnapshot) {
			s.CurrentIndustry = u.Industry
			s.TotalFound = u.TotalFound
			s.WithoutWebsite = u.WithoutWebsite
			if u.Total > 0 {
				s.Progress = u.Done * 100 / u.Total
			}
		})
	})
	if err != nil {
		m.finish(jobID, summary, "", err)
		return
	}

	outputFile := ""
	if m.writer != nil {
		outputFile, err = m.writer.Write(summary)
		if err != nil {
			log.Printf("level=error msg=\"write scan output\" job_id=%s error=%q", jobID, err)
		}
	}
	if m.store != nil {
		if storeErr := m.store.SaveScan(ctx, summary.Businesses); storeErr != nil {
			log.Printf("level=error msg=\"persist scan results\" job_id=%s error=%q", jobID, storeErr)
		}
	}

	m.finish(jobID, summary, outputFile, nil)
}

func (m *JobManager) finish(jobID string, summary ScanSummary, outputFile string, err error) {
	done := time.Now().UTC()
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[jobID]
	if !ok {
		return
	}
	job.businesses = summary.Businesses
	job.snapshot.TotalFound = summary.TotalFound
	job.snapshot.WithoutWebsite = summary.WithoutWebsite
	job.snapshot.CurrentIndustry = ""
	job.snapshot.CompletedAt = &done
	if err != nil {
		job.snapshot.Status = entity.JobError
		job.snapshot.Error = err.Error()
		return
	}
	job.snapshot.Status = entity.JobCompleted
	job.snapshot.Progress = 100
	job.snapshot.OutputFile = outputFile
}

func (m *JobManager) update(jobID string, fn func(*entity.ScanJobSnapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[jobID]; ok {
		fn(&job.snapshot)
	}
}

// Status returns the current snapshot of one job.
func (m *JobManager) Status(jobID string) (entity.ScanJobSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return entity.ScanJobSnapshot{}, ErrJobNotFound
	}
	return job.snapshot, nil
}

// List returns snapshots of all known jobs, newest first.
func (m *JobManager) List() []entity.ScanJobSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshots := make([]entity.ScanJobSnapshot, 0, len(m.jobs))
	for _, job := range m.jobs {
		snapshots = append(snapshots, job.snapshot)
	}
	sort.Slice(snapshots, func(i, j int) bool {
		a, b := snapshots[i].StartedAt, snapshots[j].StartedAt
		if a == nil || b == nil {
			return b == nil
		}
		return a.After(*b)
	})
	return snapshots
}

// Results returns the businesses found by a completed job.
func (m *JobManager) Results(jobID string) ([]entity.Business, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, ErrJobNotFound
	}
	if job.snapshot.Status != entity.JobCompleted {
		return nil, errors.New("scan job has not completed")
	}
	return job.businesses, nil
}

// Cancel aborts a running job. Completed jobs are unaffected.
func (m *JobManager) Cancel(jobID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return ErrJobNotFound
	}
	job.cancel()
	return nil
}

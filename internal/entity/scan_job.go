package entity

import "time"

// JobStatus enumerates the lifecycle of a scan job.
type JobStatus string

const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobError     JobStatus = "error"
)

// ScanJobSnapshot is a read-only view of a running scan served to pollers.
type ScanJobSnapshot struct {
	JobID           string     `json:"job_id"`
	Status          JobStatus  `json:"status"`
	Progress        int        `json:"progress"`
	CurrentIndustry string     `json:"current_industry,omitempty"`
	TotalFound      int        `json:"total_found"`
	WithoutWebsite  int        `json:"without_website"`
	Error           string     `json:"error,omitempty"`
	OutputFile      string     `json:"output_file,omitempty"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

package dto

// ScanRequest is the payload that starts a background scan. An empty
// industries list falls back to the configured defaults.
type ScanRequest struct {
	Industries []string `json:"industries,omitempty"`
}

// ScanStartedResponse returns the identifier used to poll scan progress.
type ScanStartedResponse struct {
	JobID string `json:"job_id"`
}

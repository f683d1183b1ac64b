package dto

// MessagesRequest asks for outreach drafts for one finished scan job.
type MessagesRequest struct {
	JobID    string `json:"job_id"`
	Template string `json:"template,omitempty"`
}

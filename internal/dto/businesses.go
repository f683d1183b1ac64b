package dto

import "github.com/google/uuid"

// ListFilter contains query parameters for business listing endpoints.
type ListFilter struct {
	Q             string
	Industry      string
	Source        string
	WebsiteStatus string
	MinRating     *float64
	ScanRunID     *uuid.UUID
	LatestRunOnly bool
	Sort          string
	Page          int
	PerPage       int
	Limit         int
}

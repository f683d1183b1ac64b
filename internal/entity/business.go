package entity

import (
	"time"

	"github.com/google/uuid"
)

// Source identifies which provider a business record came from.
type Source string

const (
	SourcePanoramaFirm Source = "panorama_firm"
	SourcePKT          Source = "pkt"
	SourceSearch       Source = "search"
)

// Business represents one discovered business listing.
type Business struct {
	ID         uuid.UUID  `json:"id,omitempty"`
	ScanRunID  *uuid.UUID `json:"scan_run_id,omitempty"`
	Name       string     `json:"name"`
	Industry   string     `json:"industry"`
	Address    string     `json:"address,omitempty"`
	Phone      string     `json:"phone,omitempty"`
	Email      string     `json:"email,omitempty"`
	Website    string     `json:"website,omitempty"`
	HasWebsite bool       `json:"has_website"`
	Facebook   string     `json:"facebook,omitempty"`
	Instagram  string     `json:"instagram,omitempty"`
	LinkedIn   string     `json:"linkedin,omitempty"`
	Twitter    string     `json:"twitter,omitempty"`
	Rating     *float64   `json:"rating,omitempty"`
	Reviews    *int       `json:"reviews,omitempty"`
	Source     Source     `json:"source"`
	ScrapedAt  *time.Time `json:"scraped_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at,omitempty"`
}

// HasContact reports whether the record carries at least one reachable channel.
// Name-only records are noise and are dropped by the orchestrator.
func (b Business) HasContact() bool {
	return b.Phone != "" || b.Email != "" || b.Facebook != "" || b.Instagram != "" || b.LinkedIn != "" || b.Twitter != ""
}

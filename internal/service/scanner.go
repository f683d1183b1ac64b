package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/octobees/lead-scanner/internal/entity"
	"github.com/octobees/lead-scanner/internal/scrape"
)

// Source is one business directory adapter.
type Source interface {
	Source() entity.Source
	Search(ctx context.Context, industry, city string, max int) ([]entity.Business, error)
}

// WebsiteChecker verifies whether a candidate URL is a live company site.
type WebsiteChecker interface {
	Check(ctx context.Context, rawURL string) entity.WebsiteStatus
}

// ScanUpdate is emitted after each industry finishes.
type ScanUpdate struct {
	Industry       string
	Done           int
	Total          int
	TotalFound     int
	WithoutWebsite int
}

// ScanProgress receives incremental updates during a scan.
type ScanProgress func(update ScanUpdate)

// ScanSummary is the final result of one scan run.
type ScanSummary struct {
	RunID          uuid.UUID         `json:"run_id"`
	City           string            `json:"city"`
	Industries     []string          `json:"industries"`
	Businesses     []entity.Business `json:"businesses"`
	TotalFound     int               `json:"total_found"`
	WithWebsite    int               `json:"with_website"`
	WithoutWebsite int               `json:"without_website"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    time.Time         `json:"completed_at"`
}

// ScannerService walks every configured source for every industry,
// deduplicates the results across sources and verifies candidate websites.
// Sources are queried sequentially; the politeness delays make parallel
// directory scraping pointless and conspicuous.
type ScannerService struct {
	sources        []Source
	checker        WebsiteChecker
	city           string
	maxPerIndustry int
}

// NewScannerService constructs the orchestrator.
func NewScannerService(sources []Source, checker WebsiteChecker, city string, maxPerIndustry int) *ScannerService {
	if maxPerIndustry <= 0 {
		maxPerIndustry = 50
	}
	return &ScannerService{
		sources:        sources,
		checker:        checker,
		city:           city,
		maxPerIndustry: maxPerIndustry,
	}
}

// Scan runs the full pipeline for the given industries. A failing source is
// logged and skipped so one blocked directory never aborts the run. The
// returned summary contains only records that kept at least one contact
// channel. progress may be nil.
func (s *ScannerService) Scan(ctx context.Context, industries []string, progress ScanProgress) (ScanSummary, error) {
	summary := ScanSummary{
		RunID:      uuid.New(),
		City:       s.city,
		Industries: industries,
		StartedAt:  time.Now().UTC(),
	}

	seenNames := make(map[string]struct{})
	seenPhones := make(map[string]struct{})

	for i, industry := range industries {
		if ctx.Err() != nil {
			return summary, ctx.Err()
		}

		for _, src := range s.sources {
			found, err := src.Search(ctx, industry, s.city, s.maxPerIndustry)
			if err != nil {
				if ctx.Err() != nil {
					return summary, ctx.Err()
				}
				log.Printf("level=warn msg=\"source failed\" source=%s industry=%q error=%q", src.Source(), industry, err)
				continue
			}

			for _, b := range found {
				if !s.accept(&b, seenNames, seenPhones) {
					continue
				}
				s.verifyWebsite(ctx, &b)

				b.ID = uuid.New()
				b.ScanRunID = &summary.RunID
				now := time.Now().UTC()
				b.ScrapedAt = &now

				summary.Businesses = append(summary.Businesses, b)
				summary.TotalFound++
				if b.HasWebsite {
					summary.WithWebsite++
				} else {
					summary.WithoutWebsite++
				}
			}
		}

		if progress != nil {
			progress(ScanUpdate{
				Industry:       industry,
				Done:           i + 1,
				Total:          len(industries),
				TotalFound:     summary.TotalFound,
				WithoutWebsite: summary.WithoutWebsite,
			})
		}
	}

	summary.CompletedAt = time.Now().UTC()
	log.Printf("level=info msg=\"scan completed\" run_id=%s total=%d without_website=%d duration=%s",
		summary.RunID, summary.TotalFound, summary.WithoutWebsite, summary.CompletedAt.Sub(summary.StartedAt).Round(time.Second))
	return summary, nil
}

// accept applies the retention rule and cross-source deduplication. The name
// key is a bounded prefix so trailing legal suffixes do not defeat matching.
func (s *ScannerService) accept(b *entity.Business, seenNames, seenPhones map[string]struct{}) bool {
	if strings.TrimSpace(b.Name) == "" || !b.HasContact() {
		return false
	}

	nameKey, phoneKey := scrape.DedupKeys(*b)
	if _, dup := seenNames[nameKey]; dup {
		return false
	}
	if phoneKey != "" {
		if _, dup := seenPhones[phoneKey]; dup {
			return false
		}
	}

	seenNames[nameKey] = struct{}{}
	if phoneKey != "" {
		seenPhones[phoneKey] = struct{}{}
	}
	return true
}

// verifyWebsite runs the liveness check and downgrades records whose site is
// parked, dead or not actually theirs. The original URL is kept on the record
// for operator review; only the has_website flag flips.
func (s *ScannerService) verifyWebsite(ctx context.Context, b *entity.Business) {
	if b.Website == "" {
		b.HasWebsite = false
		return
	}

	status := s.checker.Check(ctx, b.Website)
	if status.Confirmed() {
		b.HasWebsite = true
		if status.RedirectURL != "" {
			b.Website = status.RedirectURL
		}
		return
	}

	b.HasWebsite = false
	log.Printf("level=debug msg=\"website rejected\" business=%q url=%q reason=%q", b.Name, b.Website, status.Error)
}

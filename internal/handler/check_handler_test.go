package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/entity"
)

type stubWebsiteChecker struct {
	status  entity.WebsiteStatus
	lastURL string
}

func (s *stubWebsiteChecker) Check(ctx context.Context, rawURL string) entity.WebsiteStatus {
	s.lastURL = rawURL
	return s.status
}

func TestCheckWebsite(t *testing.T) {
	checker := &stubWebsiteChecker{status: entity.WebsiteStatus{
		URL:           "https://piekarnia-nowak.pl",
		Exists:        true,
		IsActive:      true,
		IsCompanySite: true,
		StatusCode:    200,
	}}
	h := NewCheckHandler(checker)

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/check-website", `{"url":"https://piekarnia-nowak.pl"}`)
	if err := h.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if checker.lastURL != "https://piekarnia-nowak.pl" {
		t.Fatalf("expected checker to receive url, got %q", checker.lastURL)
	}
	if !strings.Contains(rec.Body.String(), `"is_active":true`) {
		t.Fatalf("expected status payload, got %s", rec.Body.String())
	}
}

func TestCheckWebsiteRequiresURL(t *testing.T) {
	h := NewCheckHandler(&stubWebsiteChecker{})

	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/check-website", `{"url":"  "}`)
	if err := h.Check(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

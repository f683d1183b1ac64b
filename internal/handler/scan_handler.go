package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/dto"
	"github.com/octobees/lead-scanner/internal/service"
)

// ScanHandler exposes the background scan lifecycle over HTTP.
type ScanHandler struct {
	jobs              *service.JobManager
	defaultIndustries []string
}

// NewScanHandler constructs a ScanHandler.
func NewScanHandler(jobs *service.JobManager, defaultIndustries []string) *ScanHandler {
	return &ScanHandler{jobs: jobs, defaultIndustries: defaultIndustries}
}

// Start handles POST /scan requests.
func (h *ScanHandler) Start(c echo.Context) error {
	var req dto.ScanRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	industries := make([]string, 0, len(req.Industries))
	for _, industry := range req.Industries {
		if industry = strings.TrimSpace(industry); industry != "" {
			industries = append(industries, industry)
		}
	}
	if len(industries) == 0 {
		industries = h.defaultIndustries
	}
	if len(industries) == 0 {
		return Error(c, http.StatusBadRequest, "no industries to scan")
	}

	jobID := h.jobs.Start(industries)
	return Success(c, http.StatusAccepted, "scan started", dto.ScanStartedResponse{JobID: jobID})
}

// Status handles GET /scan/:job_id requests.
func (h *ScanHandler) Status(c echo.Context) error {
	snapshot, err := h.jobs.Status(c.Param("job_id"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scan job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to read scan status")
	}
	return Success(c, http.StatusOK, "scan status", snapshot)
}

// List handles GET /scans requests.
func (h *ScanHandler) List(c echo.Context) error {
	return Success(c, http.StatusOK, "scan jobs", h.jobs.List())
}

// Results handles GET /scan/:job_id/results requests.
func (h *ScanHandler) Results(c echo.Context) error {
	businesses, err := h.jobs.Results(c.Param("job_id"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scan job not found")
		}
		return Error(c, http.StatusConflict, err.Error())
	}
	return Success(c, http.StatusOK, "scan results", businesses)
}

// Download handles GET /scan/:job_id/download requests, serving the exported
// output file of a completed job.
func (h *ScanHandler) Download(c echo.Context) error {
	snapshot, err := h.jobs.Status(c.Param("job_id"))
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scan job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to read scan status")
	}
	if snapshot.OutputFile == "" {
		return Error(c, http.StatusConflict, "scan has no output file yet")
	}
	return c.Attachment(snapshot.OutputFile, filenameOf(snapshot.OutputFile))
}

// Cancel handles DELETE /scan/:job_id requests.
func (h *ScanHandler) Cancel(c echo.Context) error {
	if err := h.jobs.Cancel(c.Param("job_id")); err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scan job not found")
		}
		return Error(c, http.StatusInternalServerError, "failed to cancel scan")
	}
	return Success(c, http.StatusOK, "scan cancelled", nil)
}

func filenameOf(path string) string {
	if idx := strings.LastIndexByte(path, '/'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}

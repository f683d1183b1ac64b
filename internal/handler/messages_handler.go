package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/dto"
	"github.com/octobees/lead-scanner/internal/message"
	"github.com/octobees/lead-scanner/internal/service"
)

// MessagesHandler renders outreach drafts for finished scans.
type MessagesHandler struct {
	jobs      *service.JobManager
	generator *message.Generator
}

// NewMessagesHandler constructs a MessagesHandler.
func NewMessagesHandler(jobs *service.JobManager, generator *message.Generator) *MessagesHandler {
	return &MessagesHandler{jobs: jobs, generator: generator}
}

// Generate handles POST /messages requests. It returns one draft bundle per
// business found by the referenced scan job. A template override forces the
// same email template for every lead instead of the score-based pick.
func (h *MessagesHandler) Generate(c echo.Context) error {
	var req dto.MessagesRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.JobID) == "" {
		return Error(c, http.StatusBadRequest, "job_id is required")
	}

	var override message.Kind
	switch strings.ToLower(strings.TrimSpace(req.Template)) {
	case "":
	case string(message.KindStandard):
		override = message.KindStandard
	case string(message.KindShort):
		override = message.KindShort
	case string(message.KindPremium):
		override = message.KindPremium
	default:
		return Error(c, http.StatusBadRequest, "unknown template")
	}

	businesses, err := h.jobs.Results(req.JobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return Error(c, http.StatusNotFound, "scan job not found")
		}
		return Error(c, http.StatusConflict, err.Error())
	}

	bundles := make([]message.Bundle, 0, len(businesses))
	for _, b := range businesses {
		bundle := h.generator.Bundle(b)
		if override != "" {
			bundle.Email = h.generator.Email(b, override)
		}
		bundles = append(bundles, bundle)
	}

	return Success(c, http.StatusOK, "messages generated", bundles)
}

package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/dto"
	"github.com/octobees/lead-scanner/internal/repository"
)

// BusinessesHandler exposes the persisted business catalogue.
type BusinessesHandler struct {
	repo repository.BusinessesRepository
}

// NewBusinessesHandler creates a new handler instance.
func NewBusinessesHandler(repo repository.BusinessesRepository) *BusinessesHandler {
	return &BusinessesHandler{repo: repo}
}

// List handles GET /businesses requests.
func (h *BusinessesHandler) List(c echo.Context) error {
	filter := dto.ListFilter{
		Q:             strings.TrimSpace(c.QueryParam("q")),
		Industry:      strings.TrimSpace(c.QueryParam("industry")),
		Source:        strings.TrimSpace(c.QueryParam("source")),
		WebsiteStatus: strings.TrimSpace(c.QueryParam("website")),
		Sort:          strings.TrimSpace(c.QueryParam("sort")),
		Page:          parseIntDefault(c.QueryParam("page"), 1),
		PerPage:       parseIntDefault(c.QueryParam("per_page"), 20),
	}

	if minRatingStr := strings.TrimSpace(c.QueryParam("min_rating")); minRatingStr != "" {
		if minRating, err := strconv.ParseFloat(minRatingStr, 64); err == nil {
			filter.MinRating = &minRating
		}
	}
	if runIDParam := strings.TrimSpace(c.QueryParam("scan_run_id")); runIDParam != "" {
		parsed, err := uuid.Parse(runIDParam)
		if err != nil {
			return Error(c, http.StatusBadRequest, "invalid scan_run_id")
		}
		filter.ScanRunID = &parsed
	}
	if latest := strings.TrimSpace(c.QueryParam("latest")); latest == "true" || latest == "1" {
		filter.LatestRunOnly = true
	}

	businesses, err := h.repo.List(c.Request().Context(), filter)
	if err != nil {
		return Error(c, http.StatusInternalServerError, "failed to list businesses")
	}

	return Success(c, http.StatusOK, "businesses retrieved", businesses)
}

func parseIntDefault(input string, fallback int) int {
	if input == "" {
		return fallback
	}
	if value, err := strconv.Atoi(input); err == nil {
		return value
	}
	return fallback
}

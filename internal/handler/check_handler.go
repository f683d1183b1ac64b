package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-scanner/internal/entity"
)

type websiteChecker interface {
	Check(ctx context.Context, rawURL string) entity.WebsiteStatus
}

// CheckHandler verifies a single website on demand, useful for spot checks
// before calling a lead.
type CheckHandler struct {
	checker websiteChecker
}

// NewCheckHandler constructs a CheckHandler.
func NewCheckHandler(checker websiteChecker) *CheckHandler {
	return &CheckHandler{checker: checker}
}

// Check handles POST /check-website requests.
func (h *CheckHandler) Check(c echo.Context) error {
	var req struct {
		URL string `json:"url"`
	}
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	if strings.TrimSpace(req.URL) == "" {
		return Error(c, http.StatusBadRequest, "url is required")
	}

	status := h.checker.Check(c.Request().Context(), req.URL)
	return Success(c, http.StatusOK, "website checked", status)
}

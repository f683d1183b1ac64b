package handler

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/lead-scanner/internal/auth"
	"github.com/octobees/lead-scanner/internal/service"
)

func newAuthHandler(t *testing.T) *AuthHandler {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("sekret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	return NewAuthHandler(service.NewAuthService("admin@example.com", string(hash), jwtManager))
}

func TestLoginSuccess(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"sekret123"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "access_token") {
		t.Fatalf("expected access token in response, got %s", rec.Body.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"email":"admin@example.com","password":"zlehaslo"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := newAuthHandler(t)
	e := echo.New()
	c, rec := newJSONContext(e, http.MethodPost, "/auth/login", `{"email":"","password":""}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

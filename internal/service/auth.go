package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/lead-scanner/internal/auth"
)

// ErrInvalidCredentials is returned for any credential mismatch. The message
// never reveals which part failed.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService validates the single operator credential and issues tokens.
// The scanner is an internal tool; there is one admin account configured
// through the environment, no user database.
type AuthService struct {
	adminEmail string
	adminHash  string
	jwt        *auth.JWTManager
}

// NewAuthService constructs a new AuthService.
func NewAuthService(adminEmail, adminPasswordHash string, jwtManager *auth.JWTManager) *AuthService {
	return &AuthService{
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		adminHash:  adminPasswordHash,
		jwt:        jwtManager,
	}
}

// Login validates credentials and returns a JWT.
func (s *AuthService) Login(_ context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", errors.New("email and password must not be empty")
	}
	if s.adminEmail == "" || s.adminHash == "" {
		return "", errors.New("admin credentials are not configured")
	}

	if !strings.EqualFold(email, s.adminEmail) {
		// Keep timing uniform for unknown emails.
		_ = bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password))
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.adminHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return s.jwt.GenerateToken(s.adminEmail, s.adminEmail, "admin")
}

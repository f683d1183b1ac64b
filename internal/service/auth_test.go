package service

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/lead-scanner/internal/auth"
)

func TestAuthService_Login(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("super-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("unexpected bcrypt error: %v", err)
	}

	tests := map[string]struct {
		adminEmail  string
		adminHash   string
		email       string
		password    string
		expectError string
	}{
		"empty credentials": {
			adminEmail:  "admin@example.com",
			adminHash:   string(hashed),
			expectError: "email and password must not be empty",
		},
		"unconfigured admin": {
			email:       "admin@example.com",
			password:    "super-secret",
			expectError: "admin credentials are not configured",
		},
		"wrong email": {
			adminEmail:  "admin@example.com",
			adminHash:   string(hashed),
			email:       "intruder@example.com",
			password:    "super-secret",
			expectError: "invalid credentials",
		},
		"password mismatch": {
			adminEmail:  "admin@example.com",
			adminHash:   string(hashed),
			email:       "admin@example.com",
			password:    "wrong",
			expectError: "invalid credentials",
		},
		"success": {
			adminEmail: "admin@example.com",
			adminHash:  string(hashed),
			email:      "admin@example.com",
			password:   "super-secret",
		},
		"case insensitive email": {
			adminEmail: "Admin@Example.com",
			adminHash:  string(hashed),
			email:      "admin@example.com",
			password:   "super-secret",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			jwtManager := auth.NewJWTManager("test-secret", 0)
			service := NewAuthService(tt.adminEmail, tt.adminHash, jwtManager)

			token, err := service.Login(context.Background(), tt.email, tt.password)
			if tt.expectError != "" {
				if err == nil || err.Error() != tt.expectError {
					t.Fatalf("expected error %q, got %v", tt.expectError, err)
				}
				if token != "" {
					t.Fatalf("expected empty token on error, got %q", token)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if token == "" {
				t.Fatalf("expected non-empty token")
			}

			claims, err := jwtManager.ParseToken(token)
			if err != nil {
				t.Fatalf("parse issued token: %v", err)
			}
			if claims.Role != "admin" {
				t.Fatalf("expected admin role, got %q", claims.Role)
			}
		})
	}
}

package auth

import (
	"errors"
	"testing"

	apperrors "github.com/academix/records/pkg/errors"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{"valid email", "test@example.com", true},
		{"valid with subdomain", "user@mail.example.com", true},
		{"valid with plus", "user+tag@example.com", true},
		{"valid with dots", "first.last@example.co.uk", true},
		{"invalid no @", "userexample.com", false},
		{"invalid no domain", "user@", false},
		{"invalid no user", "@example.com", false},
		{"invalid spaces", "user @example.com", false},
		{"invalid double @", "user@@example.com", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"lowercase", "USER@EXAMPLE.COM", "user@example.com"},
		{"trim spaces", "  user@example.com  ", "user@example.com"},
		{"both", "  USER@EXAMPLE.COM  ", "user@example.com"},
		{"already clean", "user@example.com", "user@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeEmail(tt.email); got != tt.want {
				t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.email, got, tt.want)
			}
		})
	}
}

func TestValidateLoginRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        *LoginRequest
		wantFields []string
	}{
		{
			name: "valid request",
			req:  &LoginRequest{Email: "user@example.com", Password: "password123"},
		},
		{
			name:       "empty email",
			req:        &LoginRequest{Email: "", Password: "password123"},
			wantFields: []string{"email"},
		},
		{
			name:       "invalid email",
			req:        &LoginRequest{Email: "notanemail", Password: "password123"},
			wantFields: []string{"email"},
		},
		{
			name:       "empty password",
			req:        &LoginRequest{Email: "user@example.com", Password: ""},
			wantFields: []string{"password"},
		},
		{
			name:       "both missing",
			req:        &LoginRequest{},
			wantFields: []string{"email", "password"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateLoginRequest(tt.req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Errorf("ValidateLoginRequest() error = %v, want nil", err)
				}
				return
			}

			var appErr *apperrors.AppError
			if !errors.As(err, &appErr) {
				t.Fatalf("ValidateLoginRequest() error = %v, want *AppError", err)
			}
			if appErr.Status != 422 {
				t.Errorf("Status = %d, want 422", appErr.Status)
			}
			if len(appErr.Fields) != len(tt.wantFields) {
				t.Errorf("Fields = %v, want keys %v", appErr.Fields, tt.wantFields)
			}
			for _, field := range tt.wantFields {
				if _, ok := appErr.Fields[field]; !ok {
					t.Errorf("expected error for field %q, got %v", field, appErr.Fields)
				}
			}
		})
	}
}

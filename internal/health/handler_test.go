package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type checkFunc func(context.Context) error

func (f checkFunc) Health(ctx context.Context) error { return f(ctx) }

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ok := checkFunc(func(context.Context) error { return nil })
	down := checkFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	tests := []struct {
		name   string
		checks map[string]Checker
		status int
		want   string
	}{
		{"all healthy", map[string]Checker{"postgres": ok, "redis": ok}, http.StatusOK, "healthy"},
		{"redis down", map[string]Checker{"postgres": ok, "redis": down}, http.StatusServiceUnavailable, "degraded"},
		{"no checks", nil, http.StatusOK, "healthy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", Handler(tt.checks))

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}

			var body struct {
				Status string            `json:"status"`
				Checks map[string]string `json:"checks"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.want {
				t.Errorf("status = %q, want %q", body.Status, tt.want)
			}
			if len(body.Checks) != len(tt.checks) {
				t.Errorf("checks = %v", body.Checks)
			}
		})
	}
}

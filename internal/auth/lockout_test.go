package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/academix/records/internal/ratelimit"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func TestHandler_LoginLockout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { client.Close() })

	service, _ := newTestAuthService(t, ratelimit.NewLimiter(client, 10*time.Minute, 5, 15*time.Minute))
	router := gin.New()
	router.POST("/api/login", NewHandler(service).Login)

	login := func(password string) int {
		body := `{"email":"jane@academix.edu","password":"` + password + `"}`
		req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 1; i <= 5; i++ {
		if code := login("wrong"); code != http.StatusUnauthorized {
			t.Fatalf("failure #%d status = %d, want 401", i, code)
		}
	}

	// Locked out: even the right password is refused
	if code := login("student123"); code != http.StatusTooManyRequests {
		t.Fatalf("status during lockout = %d, want 429", code)
	}

	server.FastForward(15 * time.Minute)
	if code := login("student123"); code != http.StatusOK {
		t.Errorf("status after lockout = %d, want 200", code)
	}
}

package dashboard

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/academix/records/internal/apitest"
	"github.com/gin-gonic/gin"
)

type fixedCount struct {
	n   int
	err error
}

func (f fixedCount) Count(context.Context) (int, error) {
	return f.n, f.err
}

func TestHandler_Stats(t *testing.T) {
	h := NewHandler(fixedCount{n: 12}, fixedCount{n: 5}, fixedCount{n: 30})
	router := gin.New()
	router.GET("/stats", h.Stats)

	rec := apitest.Do(t, router, http.MethodGet, "/stats", nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats Stats
	apitest.Decode(t, rec, &stats)
	if stats != (Stats{TotalStudents: 12, TotalCourses: 5, TotalRegistrations: 30}) {
		t.Errorf("stats = %+v", stats)
	}
}

func TestHandler_StatsError(t *testing.T) {
	h := NewHandler(fixedCount{n: 12}, fixedCount{err: errors.New("connection reset")}, fixedCount{n: 30})
	router := gin.New()
	router.GET("/stats", h.Stats)

	rec := apitest.Do(t, router, http.MethodGet, "/stats", nil, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	env := apitest.Decode(t, rec, nil)
	if env.Error == nil || env.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("body = %s", rec.Body)
	}
}

package dashboard

import (
	"context"
	"net/http"

	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Counter counts the rows of one table
type Counter interface {
	Count(ctx context.Context) (int, error)
}

// Stats are the headline totals shown on the admin dashboard
type Stats struct {
	TotalStudents      int `json:"total_students"`
	TotalCourses       int `json:"total_courses"`
	TotalRegistrations int `json:"total_registrations"`
}

// Handler serves dashboard statistics
type Handler struct {
	students      Counter
	courses       Counter
	registrations Counter
}

// NewHandler creates a new dashboard handler
func NewHandler(students, courses, registrations Counter) *Handler {
	return &Handler{students: students, courses: courses, registrations: registrations}
}

// Stats returns record totals
// GET /api/dashboard/stats
func (h *Handler) Stats(c *gin.Context) {
	var stats Stats
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() (err error) {
		stats.TotalStudents, err = h.students.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalCourses, err = h.courses.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		stats.TotalRegistrations, err = h.registrations.Count(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, stats)
}

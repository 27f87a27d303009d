package profile

import (
	"bytes"
	"context"
	"mime"
	"net/http"
	"time"

	"github.com/academix/records/internal/middleware"
	"github.com/academix/records/internal/registration"
	"github.com/academix/records/internal/student"
	"github.com/academix/records/internal/token"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/academix/records/pkg/request"
	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Students looks up student records
type Students interface {
	FindByID(ctx context.Context, id int64) (*student.Student, error)
	FindByEmail(ctx context.Context, email string) (*student.Student, error)
}

// Enrollments lists the courses a student is registered for, newest first
type Enrollments interface {
	ForStudent(ctx context.Context, studentID int64) ([]registration.Enrollment, error)
}

var errOwnProfileOnly = apperrors.NewAppError(apperrors.ErrCodeForbidden,
	"Access denied: You can only view your own profile", http.StatusForbidden)

// Handler serves profiles and printable reports
type Handler struct {
	students    Students
	enrollments Enrollments
	logger      *zap.Logger
	now         func() time.Time
}

// NewHandler creates a new profile handler
func NewHandler(students Students, enrollments Enrollments, logger *zap.Logger) *Handler {
	return &Handler{
		students:    students,
		enrollments: enrollments,
		logger:      logger,
		now:         time.Now,
	}
}

// Get returns a full academic profile. Admins may read any student;
// students only their own record, matched by email.
// GET /api/profile/:id
// GET /api/profile
func (h *Handler) Get(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	ctx := c.Request.Context()

	var own *student.Student
	if claims.Role == token.RoleStudent {
		var err error
		if own, err = h.students.FindByEmail(ctx, claims.Email); err != nil {
			response.Error(c, err)
			return
		}
	}

	var id int64
	switch {
	case c.Param("id") != "":
		var err error
		if id, err = request.PathID(c, "id"); err != nil {
			response.Error(c, err)
			return
		}
	case own != nil:
		id = own.ID
	default:
		response.Error(c, apperrors.BadRequest("Student ID is required"))
		return
	}

	if claims.Role == token.RoleStudent && (own == nil || own.ID != id) {
		response.Error(c, errOwnProfileOnly)
		return
	}

	s := own
	if s == nil {
		var err error
		if s, err = h.students.FindByID(ctx, id); err != nil {
			response.Error(c, err)
			return
		}
		if s == nil {
			response.Error(c, apperrors.NotFound("Student not found"))
			return
		}
	}

	enrollments, err := h.enrollments.ForStudent(ctx, s.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, Build(s, enrollments, h.now()))
}

// Self serves the signed-in student's own record in one of several forms
// GET /api/student-profile?action=profile|report|download|registration-slip
func (h *Handler) Self(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}
	ctx := c.Request.Context()

	s, err := h.students.FindByEmail(ctx, claims.Email)
	if err != nil {
		response.Error(c, err)
		return
	}
	if s == nil {
		response.Error(c, apperrors.NotFound("Student profile not found"))
		return
	}

	enrollments, err := h.enrollments.ForStudent(ctx, s.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	now := h.now()
	switch action := c.DefaultQuery("action", "profile"); action {
	case "profile":
		response.Success(c, http.StatusOK, BuildStudentView(s, enrollments))
	case "report":
		h.html(c, func(buf *bytes.Buffer) error { return RenderReport(buf, s, enrollments, now) })
	case "download":
		disposition := mime.FormatMediaType("attachment", map[string]string{
			"filename": ReportFilename(s, now),
		})
		c.Header("Content-Disposition", disposition)
		h.html(c, func(buf *bytes.Buffer) error { return RenderReport(buf, s, enrollments, now) })
	case "registration-slip":
		h.html(c, func(buf *bytes.Buffer) error { return RenderSlip(buf, s, enrollments, now) })
	default:
		response.Error(c, apperrors.BadRequest("Unknown action: "+action))
	}
}

// html renders into a buffer first so a template failure yields a clean 500
func (h *Handler) html(c *gin.Context, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		h.logger.Error("failed to render document", zap.Error(err))
		c.Header("Content-Disposition", "")
		response.Error(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

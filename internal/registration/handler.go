package registration

import (
	"context"
	"net/http"

	"github.com/academix/records/internal/database"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
)

// Store is the persistence the registration handler needs
type Store interface {
	List(ctx context.Context) ([]View, error)
	StudentExists(ctx context.Context, studentID int64) (bool, error)
	CourseExists(ctx context.Context, courseID int64) (bool, error)
	Registered(ctx context.Context, studentID, courseID int64) (bool, error)
	Create(ctx context.Context, studentID, courseID int64) (int64, error)
}

var errAlreadyRegistered = apperrors.Validation("Validation failed", map[string]string{
	"course_id": "Student is already registered for this course",
})

// Handler handles registration HTTP requests
type Handler struct {
	store Store
}

// NewHandler creates a new registration handler
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List returns all registrations
// GET /api/registrations
func (h *Handler) List(c *gin.Context) {
	views, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, views)
}

// Create registers a student on a course
// POST /api/registrations
func (h *Handler) Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Request body must be a JSON object")
		return
	}

	fields := make(map[string]string)
	if req.StudentID <= 0 {
		fields["student_id"] = "Student ID is required"
	}
	if req.CourseID <= 0 {
		fields["course_id"] = "Course ID is required"
	}
	if len(fields) > 0 {
		response.Error(c, apperrors.Validation("Validation failed", fields))
		return
	}

	ctx := c.Request.Context()
	if err := h.checkRefs(ctx, req); err != nil {
		response.Error(c, err)
		return
	}

	id, err := h.store.Create(ctx, req.StudentID, req.CourseID)
	if database.IsUniqueViolation(err) {
		err = errAlreadyRegistered
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Registration successful", gin.H{"id": id})
}

func (h *Handler) checkRefs(ctx context.Context, req Request) error {
	ok, err := h.store.StudentExists(ctx, req.StudentID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("Student not found")
	}

	ok, err = h.store.CourseExists(ctx, req.CourseID)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.NotFound("Course not found")
	}

	registered, err := h.store.Registered(ctx, req.StudentID, req.CourseID)
	if err != nil {
		return err
	}
	if registered {
		return errAlreadyRegistered
	}
	return nil
}

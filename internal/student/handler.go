package student

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/academix/records/internal/audit"
	"github.com/academix/records/internal/database"
	"github.com/academix/records/internal/middleware"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/academix/records/pkg/request"
	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Store is the persistence the student handler needs
type Store interface {
	List(ctx context.Context) ([]Student, error)
	FindByID(ctx context.Context, id int64) (*Student, error)
	StudentIDTaken(ctx context.Context, studentID string, excludeID int64) (bool, error)
	EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error)
	Create(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
}

// AuditTrail records and lists deleted students
type AuditTrail interface {
	RecordDeletion(deletedBy string, student any) error
	Recent(limit int) ([]audit.Record, error)
}

// Handler handles student HTTP requests
type Handler struct {
	store  Store
	trail  AuditTrail
	logger *zap.Logger
	now    func() time.Time
}

// NewHandler creates a new student handler
func NewHandler(store Store, trail AuditTrail, logger *zap.Logger) *Handler {
	return &Handler{
		store:  store,
		trail:  trail,
		logger: logger,
		now:    time.Now,
	}
}

// List returns all students
// GET /api/students
func (h *Handler) List(c *gin.Context) {
	students, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, students)
}

// Get returns one student
// GET /api/students/:id
func (h *Handler) Get(c *gin.Context) {
	s, err := h.find(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, s)
}

// Create registers a new student
// POST /api/students
func (h *Handler) Create(c *gin.Context) {
	in, err := h.bind(c, 0)
	if err != nil {
		response.Error(c, err)
		return
	}

	id, err := h.store.Create(c.Request.Context(), in)
	if database.IsUniqueViolation(err) {
		response.Error(c, apperrors.Validation("Duplicate student", map[string]string{
			"student_id": "Student ID or email already exists",
		}))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusCreated, "Student registration completed", gin.H{
		"id":         id,
		"student_id": in.StudentID,
	})
}

// Update replaces a student's details
// PUT /api/students/:id
func (h *Handler) Update(c *gin.Context) {
	existing, err := h.find(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	in, err := h.bind(c, existing.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	err = h.store.Update(c.Request.Context(), existing.ID, in)
	switch {
	case errors.Is(err, ErrNotFound):
		response.Error(c, apperrors.NotFound("Student not found"))
		return
	case database.IsUniqueViolation(err):
		response.Error(c, apperrors.Validation("Duplicate student", map[string]string{
			"student_id": "Student ID or email already exists",
		}))
		return
	case err != nil:
		response.Error(c, err)
		return
	}

	response.Message(c, http.StatusOK, "Student updated successfully", nil)
}

// Delete removes a student and records the deletion in the audit trail
// DELETE /api/students/:id
func (h *Handler) Delete(c *gin.Context) {
	existing, err := h.find(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), existing.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = apperrors.NotFound("Student not found")
		}
		response.Error(c, err)
		return
	}
	middleware.RecordStudentDeleted()

	deletedBy := "unknown"
	if claims, ok := middleware.ClaimsFrom(c); ok {
		deletedBy = claims.Email
	}
	if err := h.trail.RecordDeletion(deletedBy, existing); err != nil {
		// The row is already gone; losing the audit line must not fail the request
		h.logger.Error("failed to write deletion audit record",
			zap.Int64("student_id", existing.ID),
			zap.Error(err),
		)
	}

	response.Message(c, http.StatusOK, "Student deleted successfully", nil)
}

// Deleted lists recently deleted students
// GET /api/students/deleted?limit=N
func (h *Handler) Deleted(c *gin.Context) {
	limit, err := request.QueryLimit(c, audit.DefaultLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	records, err := h.trail.Recent(limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, records)
}

func (h *Handler) find(c *gin.Context) (*Student, error) {
	id, err := request.PathID(c, "id")
	if err != nil {
		return nil, err
	}
	s, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, apperrors.NotFound("Student not found")
	}
	return s, nil
}

// bind decodes, validates and uniqueness-checks a submitted student.
// selfID is the student being updated, or 0 on create.
func (h *Handler) bind(c *gin.Context, selfID int64) (Input, error) {
	var raw Input
	if err := c.ShouldBindJSON(&raw); err != nil {
		return Input{}, apperrors.BadRequest("Request body must be a JSON object")
	}

	in, err := Validate(raw, h.now())
	if err != nil {
		return Input{}, err
	}

	ctx := c.Request.Context()
	taken, err := h.store.StudentIDTaken(ctx, in.StudentID, selfID)
	if err != nil {
		return Input{}, err
	}
	if taken {
		return Input{}, apperrors.Validation("Duplicate student ID", map[string]string{
			"student_id": "Student ID already exists",
		})
	}

	taken, err = h.store.EmailTaken(ctx, in.Email, selfID)
	if err != nil {
		return Input{}, err
	}
	if taken {
		return Input{}, apperrors.Validation("Duplicate email address", map[string]string{
			"email": "Email already exists",
		})
	}
	return in, nil
}

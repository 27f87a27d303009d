package course

import (
	"context"
	"errors"
	"net/http"

	"github.com/academix/records/internal/database"
	apperrors "github.com/academix/records/pkg/errors"
	"github.com/academix/records/pkg/request"
	"github.com/academix/records/pkg/response"
	"github.com/gin-gonic/gin"
)

// Store is the persistence the course handler needs
type Store interface {
	List(ctx context.Context) ([]Course, error)
	FindByID(ctx context.Context, id int64) (*Course, error)
	CodeTaken(ctx context.Context, code string, excludeID int64) (bool, error)
	Create(ctx context.Context, in Input) (int64, error)
	Update(ctx context.Context, id int64, in Input) error
	Delete(ctx context.Context, id int64) error
}

var errDuplicateCode = apperrors.Validation("Duplicate course code", map[string]string{
	"code": "Course code already exists",
})

// Handler handles course HTTP requests
type Handler struct {
	store Store
}

// NewHandler creates a new course handler
func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

// List returns all courses
// GET /api/courses
func (h *Handler) List(c *gin.Context) {
	courses, err := h.store.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, courses)
}

// Get returns one course
// GET /api/courses/:id
func (h *Handler) Get(c *gin.Context) {
	course, err := h.find(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, course)
}

// Create adds a course
// POST /api/courses
func (h *Handler) Create(c *gin.Context) {
	in, err := h.bind(c, 0)
	if err != nil {
		response.Error(c, err)
		return
	}
	if in.Capacity == nil {
		capacity := DefaultCapacity
		in.Capacity = &capacity
	}

	id, err := h.store.Create(c.Request.Context(), in)
	if database.IsUniqueViolation(err) {
		err = errDuplicateCode
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusCreated, "Course created successfully", gin.H{"id": id})
}

// Update replaces a course's details
// PUT /api/courses/:id
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
	if in.Capacity == nil {
		in.Capacity = &existing.Capacity
	}

	err = h.store.Update(c.Request.Context(), existing.ID, in)
	switch {
	case errors.Is(err, ErrNotFound):
		err = apperrors.NotFound("Course not found")
	case database.IsUniqueViolation(err):
		err = errDuplicateCode
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course updated successfully", nil)
}

// Delete removes a course
// DELETE /api/courses/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := request.PathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			err = apperrors.NotFound("Course not found")
		}
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Course deleted successfully", nil)
}

func (h *Handler) find(c *gin.Context) (*Course, error) {
	id, err := request.PathID(c, "id")
	if err != nil {
		return nil, err
	}
	course, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, apperrors.NotFound("Course not found")
	}
	return course, nil
}

func (h *Handler) bind(c *gin.Context, selfID int64) (Input, error) {
	var raw Input
	if err := c.ShouldBindJSON(&raw); err != nil {
		return Input{}, apperrors.BadRequest("Request body must be a JSON object")
	}

	in, err := Validate(raw)
	if err != nil {
		return Input{}, err
	}

	taken, err := h.store.CodeTaken(c.Request.Context(), in.Code, selfID)
	if err != nil {
		return Input{}, err
	}
	if taken {
		return Input{}, errDuplicateCode
	}
	return in, nil
}

package registration

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles registration data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new registration repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns every registration with student and course details, newest first
func (r *Repository) List(ctx context.Context) ([]View, error) {
	views := []View{}
	query := `SELECT r.id, r.student_id, r.course_id, r.registered_at,
				s.first_name || ' ' || s.last_name AS student_name,
				s.email AS student_email,
				c.code AS course_code, c.name AS course_name, c.credits
			  FROM registrations r
			  INNER JOIN students s ON r.student_id = s.id
			  INNER JOIN courses c ON r.course_id = c.id
			  ORDER BY r.registered_at DESC, r.id DESC`
	if err := r.db.SelectContext(ctx, &views, query); err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return views, nil
}

// ForStudent returns the courses a student is registered for, newest first
func (r *Repository) ForStudent(ctx context.Context, studentID int64) ([]Enrollment, error) {
	enrollments := []Enrollment{}
	query := `SELECT r.id AS registration_id, c.id AS course_id, c.code, c.name,
				c.description, c.credits, c.instructor, r.registered_at
			  FROM registrations r
			  INNER JOIN courses c ON r.course_id = c.id
			  WHERE r.student_id = $1
			  ORDER BY r.registered_at DESC, r.id DESC`
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("failed to list student registrations: %w", err)
	}
	return enrollments, nil
}

// StudentExists reports whether the student row exists
func (r *Repository) StudentExists(ctx context.Context, studentID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE id = $1)`, studentID)
}

// CourseExists reports whether the course row exists
func (r *Repository) CourseExists(ctx context.Context, courseID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM courses WHERE id = $1)`, courseID)
}

// Registered reports whether the student is already on the course
func (r *Repository) Registered(ctx context.Context, studentID, courseID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM registrations WHERE student_id = $1 AND course_id = $2)`, studentID, courseID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("failed to check registration: %w", err)
	}
	return found, nil
}

// Create registers a student on a course and returns the registration id
func (r *Repository) Create(ctx context.Context, studentID, courseID int64) (int64, error) {
	var id int64
	query := `INSERT INTO registrations (student_id, course_id)
			  VALUES ($1, $2)
			  RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, studentID, courseID).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create registration: %w", err)
	}
	return id, nil
}

// Count returns the number of registrations
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM registrations`); err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return n, nil
}

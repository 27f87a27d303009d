package course

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by writes that target a missing course
var ErrNotFound = errors.New("course not found")

// Repository handles course data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new course repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns every course, newest first
func (r *Repository) List(ctx context.Context) ([]Course, error) {
	courses := []Course{}
	query := `SELECT id, code, name, description, credits, instructor, capacity, created_at
			  FROM courses
			  ORDER BY created_at DESC, id DESC`
	if err := r.db.SelectContext(ctx, &courses, query); err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

// FindByID finds a course by primary key
func (r *Repository) FindByID(ctx context.Context, id int64) (*Course, error) {
	var c Course
	query := `SELECT id, code, name, description, credits, instructor, capacity, created_at
			  FROM courses
			  WHERE id = $1`

	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Course not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find course: %w", err)
	}
	return &c, nil
}

// CodeTaken reports whether another course already uses the code
func (r *Repository) CodeTaken(ctx context.Context, code string, excludeID int64) (bool, error) {
	var found bool
	query := `SELECT EXISTS (SELECT 1 FROM courses WHERE code = $1 AND id <> $2)`
	if err := r.db.GetContext(ctx, &found, query, code, excludeID); err != nil {
		return false, fmt.Errorf("failed to check course code: %w", err)
	}
	return found, nil
}

// Create inserts a course and returns its id
func (r *Repository) Create(ctx context.Context, in Input) (int64, error) {
	var id int64
	query := fmt.Sprintf(`INSERT INTO courses (code, name, description, credits, instructor, capacity)
			  VALUES (:code, :name, :description, :credits, :instructor, COALESCE(:capacity, %d))
			  RETURNING id`, DefaultCapacity)

	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare course insert: %w", err)
	}
	defer stmt.Close()

	if err := stmt.GetContext(ctx, &id, namedArgs(0, in)); err != nil {
		return 0, fmt.Errorf("failed to create course: %w", err)
	}
	return id, nil
}

// Update overwrites a course's writable fields. A nil capacity keeps the
// stored one.
func (r *Repository) Update(ctx context.Context, id int64, in Input) error {
	query := `UPDATE courses SET
			  code = :code, name = :name, description = :description,
			  credits = :credits, instructor = :instructor, capacity = COALESCE(:capacity, capacity)
			  WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, namedArgs(id, in))
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return requireRow(result)
}

// Delete removes a course; registrations cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	return requireRow(result)
}

// Count returns the number of courses
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM courses`); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return n, nil
}

func namedArgs(id int64, in Input) map[string]any {
	return map[string]any{
		"id":          id,
		"code":        in.Code,
		"name":        in.Name,
		"description": in.Description,
		"credits":     in.Credits,
		"instructor":  in.Instructor,
		"capacity":    in.Capacity,
	}
}

func requireRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

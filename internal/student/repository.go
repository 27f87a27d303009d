package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned by writes that target a missing student
var ErrNotFound = errors.New("student not found")

const selectColumns = `SELECT id, student_id, first_name, last_name, email, phone,
		to_char(date_of_birth, 'YYYY-MM-DD') AS date_of_birth, address, course_of_study,
		to_char(enrollment_date, 'YYYY-MM-DD') AS enrollment_date, created_at, updated_at
	FROM students`

// Repository handles student data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new student repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// List returns every student, newest first
func (r *Repository) List(ctx context.Context) ([]Student, error) {
	students := []Student{}
	if err := r.db.SelectContext(ctx, &students, selectColumns+` ORDER BY created_at DESC, id DESC`); err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

// FindByID finds a student by primary key
func (r *Repository) FindByID(ctx context.Context, id int64) (*Student, error) {
	return r.findOne(ctx, selectColumns+` WHERE id = $1`, id)
}

// FindByEmail finds a student by email address
func (r *Repository) FindByEmail(ctx context.Context, email string) (*Student, error) {
	return r.findOne(ctx, selectColumns+` WHERE email = $1 LIMIT 1`, email)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*Student, error) {
	var s Student
	err := r.db.GetContext(ctx, &s, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Student not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &s, nil
}

// StudentIDTaken reports whether another student already uses the student number
func (r *Repository) StudentIDTaken(ctx context.Context, studentID string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE student_id = $1 AND id <> $2)`, studentID, excludeID)
}

// EmailTaken reports whether another student already uses the email
func (r *Repository) EmailTaken(ctx context.Context, email string, excludeID int64) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM students WHERE email = $1 AND id <> $2)`, email, excludeID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var found bool
	if err := r.db.GetContext(ctx, &found, query, args...); err != nil {
		return false, fmt.Errorf("failed to check student uniqueness: %w", err)
	}
	return found, nil
}

// Create inserts a validated student and returns its id
func (r *Repository) Create(ctx context.Context, in Input) (int64, error) {
	var id int64
	query := `INSERT INTO students
			  (student_id, first_name, last_name, email, phone, date_of_birth,
			   address, course_of_study, enrollment_date)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`

	err := r.db.QueryRowxContext(ctx, query,
		in.StudentID, in.FirstName, in.LastName, in.Email, nullable(in.Phone),
		in.DateOfBirth, nullable(in.Address), in.CourseOfStudy, in.EnrollmentDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create student: %w", err)
	}
	return id, nil
}

// Update overwrites a student's writable fields
func (r *Repository) Update(ctx context.Context, id int64, in Input) error {
	query := `UPDATE students SET
			  student_id = $2, first_name = $3, last_name = $4, email = $5, phone = $6,
			  date_of_birth = $7, address = $8, course_of_study = $9, enrollment_date = $10,
			  updated_at = NOW()
			  WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id,
		in.StudentID, in.FirstName, in.LastName, in.Email, nullable(in.Phone),
		in.DateOfBirth, nullable(in.Address), in.CourseOfStudy, in.EnrollmentDate,
	)
	if err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	return requireRow(result)
}

// Delete removes a student; registrations cascade
func (r *Repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return requireRow(result)
}

// Count returns the number of students
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return n, nil
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

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

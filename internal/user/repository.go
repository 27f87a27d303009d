package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository handles user data operations
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a new user repository
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// FindByEmail finds a user by email address
func (r *Repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	query := `SELECT id, email, password, role, created_at
			  FROM users
			  WHERE email = $1
			  LIMIT 1`

	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // User not found
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	return &user, nil
}

// Create inserts a user and returns its id
func (r *Repository) Create(ctx context.Context, email, passwordHash, role string) (int64, error) {
	var id int64
	query := `INSERT INTO users (email, password, role)
			  VALUES ($1, $2, $3)
			  RETURNING id`

	if err := r.db.QueryRowxContext(ctx, query, email, passwordHash, role).Scan(&id); err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

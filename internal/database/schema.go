package database

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is applied in order; every statement is idempotent
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id         BIGSERIAL PRIMARY KEY,
		email      VARCHAR(255) NOT NULL UNIQUE,
		password   VARCHAR(255) NOT NULL,
		role       VARCHAR(20)  NOT NULL DEFAULT 'student' CHECK (role IN ('admin', 'student')),
		created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id              BIGSERIAL PRIMARY KEY,
		student_id      VARCHAR(20)  NOT NULL UNIQUE,
		first_name      VARCHAR(100) NOT NULL,
		last_name       VARCHAR(100) NOT NULL,
		email           VARCHAR(255) NOT NULL UNIQUE,
		phone           VARCHAR(20),
		date_of_birth   DATE         NOT NULL,
		address         TEXT,
		course_of_study VARCHAR(255) NOT NULL,
		enrollment_date DATE         NOT NULL,
		created_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id          BIGSERIAL PRIMARY KEY,
		code        VARCHAR(20)  NOT NULL UNIQUE,
		name        VARCHAR(255) NOT NULL,
		description TEXT         NOT NULL DEFAULT '',
		credits     INTEGER      NOT NULL CHECK (credits > 0),
		instructor  VARCHAR(255) NOT NULL DEFAULT '',
		capacity    INTEGER      NOT NULL DEFAULT 30,
		created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS registrations (
		id                BIGSERIAL PRIMARY KEY,
		student_id        BIGINT      NOT NULL REFERENCES students(id) ON DELETE CASCADE,
		course_id         BIGINT      NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		registered_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (student_id, course_id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_registrations_course ON registrations (course_id)`,
}

// EnsureSchema creates any missing tables
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

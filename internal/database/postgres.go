package database

import (
	"context"
	"fmt"
	"time"

	"github.com/academix/records/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
)

// DB is the records store shared by the student, course and registration
// repositories
type DB struct {
	*sqlx.DB
}

// NewPostgresDB opens the records database, sizes its pool from cfg and
// waits for one successful ping
func NewPostgresDB(ctx context.Context, cfg config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(2 * cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database %q on %s: %w", cfg.Name, cfg.Host, err)
	}

	return &DB{DB: db}, nil
}

// Health is used by GET /health
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Package audit keeps an append-only record of deleted students.
package audit

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// DefaultLimit is the number of records Recent returns when asked for none
const DefaultLimit = 50

// Record is one deletion as stored in the trail
type Record struct {
	Timestamp time.Time       `json:"timestamp"`
	DeletedBy string          `json:"deleted_by"`
	Student   json.RawMessage `json:"student_data"`
}

// Trail appends deletion records as JSON lines through a dedicated zap logger
type Trail struct {
	path   string
	file   *os.File
	logger *zap.Logger
}

// Open creates the trail file and its directory if needed
func Open(path string) (*Trail, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(file),
		zapcore.InfoLevel,
	)

	return &Trail{
		path:   path,
		file:   file,
		logger: zap.New(core),
	}, nil
}

// Path returns the location of the trail file
func (t *Trail) Path() string {
	return t.path
}

// RecordDeletion appends a snapshot of a deleted student
func (t *Trail) RecordDeletion(deletedBy string, student any) error {
	t.logger.Info("student deleted",
		zap.String("deleted_by", deletedBy),
		zap.Any("student_data", student),
	)
	if err := t.logger.Sync(); err != nil {
		return fmt.Errorf("failed to flush audit log: %w", err)
	}
	return nil
}

// Recent returns up to limit records, newest first. Lines that do not
// decode are skipped.
func (t *Trail) Recent(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	file, err := os.Open(t.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []Record{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}
	defer file.Close()

	var records []Record
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var record Record
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil || record.DeletedBy == "" {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit log: %w", err)
	}

	out := make([]Record, 0, min(limit, len(records)))
	for i := len(records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, records[i])
	}
	return out, nil
}

// Close flushes and closes the trail file
func (t *Trail) Close() error {
	_ = t.logger.Sync()
	return t.file.Close()
}

package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages run manifests backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the manifest database under dir.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("manifest directory required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create manifest directory: %w", err)
	}

	dbPath := filepath.Join(dir, "manifest.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the location of the database file.
func (s *Store) Path() string {
	return s.path
}

// StartRun records the beginning of a pipeline run and returns it.
func (s *Store) StartRun(ctx context.Context, devices, totalItems int) (*Run, error) {
	run := &Run{
		ID:         uuid.NewString(),
		Status:     RunRunning,
		Devices:    devices,
		TotalItems: totalItems,
		StartedAt:  time.Now().UTC(),
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO runs (id, status, devices, total_items, started_at)
         VALUES (?, ?, ?, ?, ?)`,
		run.ID,
		run.Status,
		run.Devices,
		run.TotalItems,
		run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert run: %w", err)
	}
	return run, nil
}

// FinishRun marks a run as completed or failed.
func (s *Store) FinishRun(ctx context.Context, runID string, status RunStatus, runErr error) error {
	message := ""
	if runErr != nil {
		message = runErr.Error()
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE runs SET status = ?, completed_at = ?, error_message = ? WHERE id = ?`,
		status,
		time.Now().UTC().Format(time.RFC3339Nano),
		nullableString(message),
		runID,
	)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// RecordItem persists the outcome of one work item.
func (s *Store) RecordItem(ctx context.Context, rec ItemRecord) error {
	if rec.RunID == "" {
		return errors.New("item record requires run id")
	}
	completed := rec.CompletedAt
	if completed.IsZero() {
		completed = time.Now().UTC()
	}
	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO run_items (
            run_id, item_group, file_name, target_path, device_id,
            token_count, status, error_message, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.RunID,
		rec.Group,
		rec.FileName,
		rec.TargetPath,
		rec.DeviceID,
		rec.TokenCount,
		rec.Status,
		nullableString(rec.Error),
		completed.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert run item: %w", err)
	}
	return nil
}

// GetRun fetches a run by identifier, or nil when absent.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, status, devices, total_items, started_at, completed_at, error_message
         FROM runs WHERE id = ?`,
		runID,
	)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, status, devices, total_items, started_at, completed_at, error_message
         FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Summarize aggregates item outcomes for a run.
func (s *Store) Summarize(ctx context.Context, runID string) (Summary, error) {
	var summary Summary
	row := s.db.QueryRowContext(
		ctx,
		`SELECT
            COUNT(CASE WHEN status = ? THEN 1 END),
            COUNT(CASE WHEN status = ? THEN 1 END),
            COALESCE(SUM(CASE WHEN status = ? THEN token_count ELSE 0 END), 0)
         FROM run_items WHERE run_id = ?`,
		ItemCompleted,
		ItemFailed,
		ItemCompleted,
		runID,
	)
	if err := row.Scan(&summary.Completed, &summary.Failed, &summary.TotalTokens); err != nil {
		return Summary{}, fmt.Errorf("summarize run: %w", err)
	}
	return summary, nil
}

// FailedItems returns the failed items of a run ordered by completion time.
func (s *Store) FailedItems(ctx context.Context, runID string) ([]ItemRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT run_id, item_group, file_name, target_path, device_id,
                token_count, status, error_message, completed_at
         FROM run_items WHERE run_id = ? AND status = ? ORDER BY completed_at`,
		runID,
		ItemFailed,
	)
	if err != nil {
		return nil, fmt.Errorf("query failed items: %w", err)
	}
	defer rows.Close()

	var items []ItemRecord
	for rows.Next() {
		var (
			rec          ItemRecord
			errorMessage sql.NullString
			completedRaw string
		)
		if err := rows.Scan(
			&rec.RunID,
			&rec.Group,
			&rec.FileName,
			&rec.TargetPath,
			&rec.DeviceID,
			&rec.TokenCount,
			&rec.Status,
			&errorMessage,
			&completedRaw,
		); err != nil {
			return nil, err
		}
		rec.Error = errorMessage.String
		if completed, err := parseTimeString(completedRaw); err == nil {
			rec.CompletedAt = completed
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (*Run, error) {
	var (
		run          Run
		statusStr    string
		startedRaw   string
		completedRaw sql.NullString
		errorMessage sql.NullString
	)
	if err := scanner.Scan(
		&run.ID,
		&statusStr,
		&run.Devices,
		&run.TotalItems,
		&startedRaw,
		&completedRaw,
		&errorMessage,
	); err != nil {
		return nil, err
	}
	run.Status = RunStatus(statusStr)
	run.Error = errorMessage.String
	if started, err := parseTimeString(startedRaw); err == nil {
		run.StartedAt = started
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			run.CompletedAt = &completed
		}
	}
	return &run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	return time.Parse(time.RFC3339Nano, value)
}

package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/mattn/go-sqlite3"

	"github.com/felixgeelhaar/patrol-go/domain/report"
)

// ReportStore is a SQLite-backed implementation of report.Store.
type ReportStore struct {
	db *sql.DB
}

// NewReportStore creates a new SQLite report store with the given configuration.
func NewReportStore(cfg Config, opts ...Option) (*ReportStore, error) {
	// Apply options
	for _, opt := range opts {
		opt(&cfg)
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	s := &ReportStore{db: db}

	// Auto-migrate if enabled
	if cfg.AutoMigrate {
		if err := s.migrate(); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return s, nil
}

// NewReportStoreFromDB creates a report store from an existing database connection.
func NewReportStoreFromDB(db *sql.DB) (*ReportStore, error) {
	s := &ReportStore{db: db}

	if err := s.migrate(); err != nil {
		return nil, err
	}

	return s, nil
}

// migrate creates the reports table if it doesn't exist.
func (s *ReportStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS reports (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			grid_digest TEXT NOT NULL,
			loop_count INTEGER NOT NULL,
			data BLOB NOT NULL,
			created_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_reports_grid_digest ON reports(grid_digest);
		CREATE INDEX IF NOT EXISTS idx_reports_created_at ON reports(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Save persists a new report.
func (s *ReportStore) Save(ctx context.Context, r *report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if r.ID == "" {
		return report.ErrInvalidReportID
	}

	data, err := json.Marshal(r)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (id, name, grid_digest, loop_count, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.GridDigest, r.LoopCount, data, r.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return report.ErrReportExists
		}
		return err
	}

	return nil
}

// Get retrieves a report by ID.
func (s *ReportStore) Get(ctx context.Context, id string) (*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if id == "" {
		return nil, report.ErrInvalidReportID
	}

	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM reports WHERE id = ?",
		id,
	).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, report.ErrReportNotFound
	}
	if err != nil {
		return nil, err
	}

	var r report.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	return &r, nil
}

// List returns reports matching the filter, newest first.
func (s *ReportStore) List(ctx context.Context, filter report.ListFilter) ([]*report.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query := "SELECT data FROM reports"
	var args []any

	if filter.GridDigest != "" {
		query += " WHERE grid_digest = ?"
		args = append(args, filter.GridDigest)
	}

	query += " ORDER BY created_at DESC, id ASC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []*report.Report
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}

		var r report.Report
		if err := json.Unmarshal(data, &r); err != nil {
			continue // Skip malformed entries
		}
		reports = append(reports, &r)
	}

	return reports, rows.Err()
}

// Close closes the database connection.
func (s *ReportStore) Close() error {
	return s.db.Close()
}

// isUniqueViolation checks if the error is a unique constraint violation.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Ensure interface is implemented.
var _ report.Store = (*ReportStore)(nil)

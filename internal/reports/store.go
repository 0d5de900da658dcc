package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store manages the session report list. It is backed by an in-memory SQLite
// database: reports survive for the lifetime of the owning process and are
// gone when it exits. Nothing is ever written to disk.
type Store struct {
	db *sql.DB
}

const schemaSQL = `
CREATE TABLE reports (
    id            TEXT PRIMARY KEY,
    description   TEXT NOT NULL,
    status        TEXT NOT NULL,
    submitted_at  TEXT NOT NULL,
    video_size_mb REAL NOT NULL DEFAULT 0,
    analysis      TEXT,
    analysis_date TEXT,
    status_detail TEXT
);
CREATE INDEX idx_reports_status ON reports(status);
`

// Open initializes a fresh session store.
func Open() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}

	// The in-memory database disappears if its only connection closes.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create session schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection, discarding all reports.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// New inserts a pending report for a fresh submission attempt.
func (s *Store) New(ctx context.Context, description string, videoSizeMB float64) (*Report, error) {
	report := &Report{
		ID:          uuid.NewString(),
		Description: description,
		Status:      StatusPending,
		SubmittedAt: time.Now().UTC(),
		VideoSizeMB: videoSizeMB,
	}

	_, err := s.db.ExecContext(
		ctx,
		`INSERT INTO reports (id, description, status, submitted_at, video_size_mb)
         VALUES (?, ?, ?, ?, ?)`,
		report.ID,
		report.Description,
		report.Status,
		report.SubmittedAt.Format(time.RFC3339Nano),
		report.VideoSizeMB,
	)
	if err != nil {
		return nil, fmt.Errorf("insert report: %w", err)
	}
	return report, nil
}

// GetByID fetches a report by identifier. Returns nil when absent.
func (s *Store) GetByID(ctx context.Context, id string) (*Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	return report, nil
}

// Update persists changes to an existing report.
func (s *Store) Update(ctx context.Context, report *Report) error {
	if report == nil {
		return errors.New("report is nil")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE reports
         SET description = ?, status = ?, video_size_mb = ?, analysis = ?,
             analysis_date = ?, status_detail = ?
         WHERE id = ?`,
		report.Description,
		report.Status,
		report.VideoSizeMB,
		nullableString(report.Analysis),
		nullableString(report.AnalysisDate),
		nullableString(report.StatusDetail),
		report.ID,
	)
	if err != nil {
		return fmt.Errorf("update report: %w", err)
	}
	return nil
}

// List returns reports filtered by status set (or all reports when no status
// is provided), newest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Report, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + reportColumns + ` FROM reports`
	orderClause := ` ORDER BY submitted_at DESC`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		rows, err = s.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var items []*Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, report)
	}
	return items, rows.Err()
}

// Stats returns a count of reports grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM reports GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("report stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates report state for status output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusReviewing:
			health.Reviewing += count
		case StatusCompleted:
			health.Completed += count
		}
	}
	return health, nil
}

const reportColumns = "id, description, status, submitted_at, video_size_mb, analysis, analysis_date, status_detail"

func scanReport(scanner interface{ Scan(dest ...any) error }) (*Report, error) {
	var (
		id           string
		description  string
		statusStr    string
		submittedRaw string
		videoSizeMB  float64
		analysis     sql.NullString
		analysisDate sql.NullString
		statusDetail sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&description,
		&statusStr,
		&submittedRaw,
		&videoSizeMB,
		&analysis,
		&analysisDate,
		&statusDetail,
	); err != nil {
		return nil, err
	}

	report := &Report{
		ID:           id,
		Description:  description,
		Status:       Status(statusStr),
		VideoSizeMB:  videoSizeMB,
		Analysis:     analysis.String,
		AnalysisDate: analysisDate.String,
		StatusDetail: statusDetail.String,
	}
	if submitted, err := time.Parse(time.RFC3339Nano, submittedRaw); err == nil {
		report.SubmittedAt = submitted
	}
	return report, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}

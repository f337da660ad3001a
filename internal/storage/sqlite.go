package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"timereport/internal/report"
)

const dateLayout = "2006-01-02"

// ReportStore is the SQLite-backed persistence layer. It holds two
// tables: projects, the ordered keyword configuration, and report_rows,
// the open-ended sequence of generated report rows across all weeks.
type ReportStore struct {
	db *sql.DB
}

func NewReportStore(dbPath string) (*ReportStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &ReportStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

func (s *ReportStore) init() error {
	createProjectsTable := `
	CREATE TABLE IF NOT EXISTS projects (
		position INTEGER PRIMARY KEY AUTOINCREMENT,
		keyword TEXT NOT NULL
	);
	`

	createReportRowsTable := `
	CREATE TABLE IF NOT EXISTS report_rows (
		id TEXT PRIMARY KEY,
		week_start DATE NOT NULL,
		week_end DATE NOT NULL,
		category TEXT NOT NULL,
		hours REAL NOT NULL,
		tasks TEXT NOT NULL,
		created_at DATETIME NOT NULL
	);
	`

	createIndexes := `
	CREATE INDEX IF NOT EXISTS idx_report_rows_week_start ON report_rows(week_start);
	`

	if _, err := s.db.Exec(createProjectsTable); err != nil {
		return fmt.Errorf("failed to create projects table: %w", err)
	}

	if _, err := s.db.Exec(createReportRowsTable); err != nil {
		return fmt.Errorf("failed to create report_rows table: %w", err)
	}

	if _, err := s.db.Exec(createIndexes); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// Project is one configured keyword with its precedence position.
type Project struct {
	Position int
	Keyword  string
}

// ProjectKeywords returns the configured keywords in precedence order.
// Trimming and blank filtering happen in the registry, not here: the
// store returns the raw column.
func (s *ReportStore) ProjectKeywords() ([]string, error) {
	rows, err := s.db.Query(`SELECT keyword FROM projects ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var keyword string
		if err := rows.Scan(&keyword); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		keywords = append(keywords, keyword)
	}
	return keywords, rows.Err()
}

func (s *ReportStore) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT position, keyword FROM projects ORDER BY position ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.Position, &p.Keyword); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// AddProject appends a keyword at the end of the precedence order.
func (s *ReportStore) AddProject(keyword string) error {
	_, err := s.db.Exec(`INSERT INTO projects (keyword) VALUES (?)`, keyword)
	if err != nil {
		return fmt.Errorf("failed to add project: %w", err)
	}
	return nil
}

// RemoveProject deletes every occurrence of a keyword and returns the
// number of removed entries.
func (s *ReportStore) RemoveProject(keyword string) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM projects WHERE keyword = ?`, keyword)
	if err != nil {
		return 0, fmt.Errorf("failed to remove project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count removed projects: %w", err)
	}
	return n, nil
}

// ReplaceWeek replaces every report row whose week start equals weekStart
// with the given rows, in one transaction. Re-running a report for the
// same week therefore never duplicates rows, and a failure mid-write
// never leaves the week half-replaced.
func (s *ReportStore) ReplaceWeek(weekStart time.Time, rows []report.Row) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM report_rows WHERE week_start = ?`, weekStart.Format(dateLayout)); err != nil {
		return fmt.Errorf("failed to delete existing rows: %w", err)
	}

	insert := `
	INSERT INTO report_rows (id, week_start, week_end, category, hours, tasks, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now().Format(time.RFC3339Nano)
	for _, row := range rows {
		_, err := tx.Exec(insert,
			uuid.New().String(),
			row.WeekStart.Format(dateLayout),
			row.WeekEnd.Format(dateLayout),
			row.Category,
			row.Hours,
			row.Tasks,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert report row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report rows: %w", err)
	}
	return nil
}

// RowsForWeek returns the stored rows whose week start equals weekStart,
// in insertion order.
func (s *ReportStore) RowsForWeek(weekStart time.Time) ([]report.Row, error) {
	query := `
	SELECT week_start, week_end, category, hours, tasks
	FROM report_rows
	WHERE week_start = ?
	ORDER BY rowid ASC
	`
	rows, err := s.db.Query(query, weekStart.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to query report rows: %w", err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Weeks returns the distinct week start dates present in the store,
// newest first.
func (s *ReportStore) Weeks() ([]time.Time, error) {
	rows, err := s.db.Query(`SELECT DISTINCT week_start FROM report_rows ORDER BY week_start DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query weeks: %w", err)
	}
	defer rows.Close()

	var weeks []time.Time
	for rows.Next() {
		var weekStr string
		if err := rows.Scan(&weekStr); err != nil {
			return nil, fmt.Errorf("failed to scan week: %w", err)
		}
		week, err := time.Parse(dateLayout, weekStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse week start: %w", err)
		}
		weeks = append(weeks, week)
	}
	return weeks, rows.Err()
}

func scanRows(rows *sql.Rows) ([]report.Row, error) {
	var out []report.Row
	for rows.Next() {
		var r report.Row
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr, &r.Category, &r.Hours, &r.Tasks); err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		var err error
		r.WeekStart, err = time.Parse(dateLayout, startStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse week start: %w", err)
		}
		r.WeekEnd, err = time.Parse(dateLayout, endStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse week end: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *ReportStore) Close() error {
	return s.db.Close()
}

// Package store persists the laboratory's schedule state in SQLite:
// standard weekly hours, explicit per-date overrides, and the singleton
// current-absence record. The engine consumes only the read methods; the
// admin API uses the writes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"

	"labstatus/internal/model"
)

const dateFormat = "2006-01-02"

// Store wraps the SQLite connection pool.
type Store struct {
	*sql.DB
	logger *zerolog.Logger
}

// New opens (and if needed bootstraps) the status database.
func New(path string, logger *zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{DB: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("status database initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS standard_hours (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			weekday INTEGER NOT NULL CHECK (weekday BETWEEN 0 AND 6),
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_standard_hours_weekday ON standard_hours(weekday)`,

		`CREATE TABLE IF NOT EXISTS hour_exceptions (
			date TEXT PRIMARY KEY,
			is_closed BOOLEAN NOT NULL DEFAULT 0,
			note TEXT,
			recurring BOOLEAN NOT NULL DEFAULT 0,
			recurring_pattern TEXT,
			recurring_end TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS hour_exception_windows (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			FOREIGN KEY(date) REFERENCES hour_exceptions(date) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_exception_windows_date ON hour_exception_windows(date)`,

		// Singleton row; the current absence is authoritative and unique.
		`CREATE TABLE IF NOT EXISTS absence_status (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			type TEXT NOT NULL DEFAULT 'present',
			date_from TEXT,
			date_to TEXT,
			description TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`INSERT OR IGNORE INTO absence_status (id, type) VALUES (1, 'present')`,
	}

	for _, q := range queries {
		if _, err := s.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// ExplicitOverride returns the override for a date, or nil when none exists.
func (s *Store) ExplicitOverride(ctx context.Context, date time.Time) (*model.HourException, error) {
	dateStr := model.DateOf(date).Format(dateFormat)

	var exc model.HourException
	var note, pattern, recurringEnd sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT date, is_closed, note, recurring, recurring_pattern, recurring_end
		FROM hour_exceptions WHERE date = ?`,
		dateStr,
	).Scan(&dateStr, &exc.Closed, &note, &exc.Recurring, &pattern, &recurringEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	exc.Date, err = parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	exc.Note = note.String
	exc.RecurringPattern = pattern.String
	if recurringEnd.Valid {
		end, err := parseDate(recurringEnd.String)
		if err != nil {
			return nil, err
		}
		exc.RecurringEnd = &end
	}

	exc.Windows, err = s.windowsFor(ctx, dateStr)
	if err != nil {
		return nil, err
	}
	return &exc, nil
}

func (s *Store) windowsFor(ctx context.Context, dateStr string) ([]model.TimeRange, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT start_time, end_time FROM hour_exception_windows
		WHERE date = ? ORDER BY start_time`,
		dateStr,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRanges(rows)
}

// StandardHours returns the recurring windows for a weekday (0 = Monday).
func (s *Store) StandardHours(ctx context.Context, weekday int) ([]model.TimeRange, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT start_time, end_time FROM standard_hours
		WHERE weekday = ? ORDER BY start_time`,
		weekday,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRanges(rows)
}

// CurrentAbsence returns the singleton absence record. A missing row reads
// as present.
func (s *Store) CurrentAbsence(ctx context.Context) (*model.AbsencePeriod, error) {
	var a model.AbsencePeriod
	var typ string
	var from, to, desc sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT type, date_from, date_to, description FROM absence_status WHERE id = 1`,
	).Scan(&typ, &from, &to, &desc)
	if err == sql.ErrNoRows {
		return &model.AbsencePeriod{Type: model.AbsencePresent}, nil
	}
	if err != nil {
		return nil, err
	}

	a.Type = model.AbsenceType(typ)
	a.Description = desc.String
	if from.Valid {
		d, err := parseDate(from.String)
		if err != nil {
			return nil, err
		}
		a.DateFrom = &d
	}
	if to.Valid {
		d, err := parseDate(to.String)
		if err != nil {
			return nil, err
		}
		a.DateTo = &d
	}
	return &a, nil
}

// UpsertOverride creates or replaces the override for a date, windows
// included.
func (s *Store) UpsertOverride(ctx context.Context, exc *model.HourException) error {
	if exc == nil {
		return fmt.Errorf("override is nil")
	}
	dateStr := model.DateOf(exc.Date).Format(dateFormat)

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var recurringEnd any
	if exc.RecurringEnd != nil {
		recurringEnd = exc.RecurringEnd.Format(dateFormat)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO hour_exceptions (date, is_closed, note, recurring, recurring_pattern, recurring_end, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(date) DO UPDATE SET
			is_closed = excluded.is_closed,
			note = excluded.note,
			recurring = excluded.recurring,
			recurring_pattern = excluded.recurring_pattern,
			recurring_end = excluded.recurring_end,
			updated_at = CURRENT_TIMESTAMP`,
		dateStr, exc.Closed, exc.Note, exc.Recurring, exc.RecurringPattern, recurringEnd,
	)
	if err != nil {
		return err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM hour_exception_windows WHERE date = ?`, dateStr); err != nil {
		return err
	}
	for _, w := range exc.Windows {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO hour_exception_windows (date, start_time, end_time) VALUES (?, ?, ?)`,
			dateStr, w.Start.String(), w.End.String(),
		); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// DeleteOverride removes the override for a date.
func (s *Store) DeleteOverride(ctx context.Context, date time.Time) error {
	dateStr := model.DateOf(date).Format(dateFormat)

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM hour_exception_windows WHERE date = ?`, dateStr); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM hour_exceptions WHERE date = ?`, dateStr); err != nil {
		return err
	}
	return tx.Commit()
}

// ReplaceStandardHours swaps the full window set for one weekday.
func (s *Store) ReplaceStandardHours(ctx context.Context, weekday int, ranges []model.TimeRange) error {
	if weekday < 0 || weekday > 6 {
		return fmt.Errorf("weekday out of range: %d", weekday)
	}

	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM standard_hours WHERE weekday = ?`, weekday); err != nil {
		return err
	}
	for _, r := range ranges {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO standard_hours (weekday, start_time, end_time) VALUES (?, ?, ?)`,
			weekday, r.Start.String(), r.End.String(),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SetAbsence replaces the singleton absence record.
func (s *Store) SetAbsence(ctx context.Context, a *model.AbsencePeriod) error {
	if a == nil {
		return fmt.Errorf("absence is nil")
	}
	var from, to any
	if a.DateFrom != nil {
		from = model.DateOf(*a.DateFrom).Format(dateFormat)
	}
	if a.DateTo != nil {
		to = model.DateOf(*a.DateTo).Format(dateFormat)
	}
	_, err := s.ExecContext(ctx, `
		INSERT INTO absence_status (id, type, date_from, date_to, description, updated_at)
		VALUES (1, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			date_from = excluded.date_from,
			date_to = excluded.date_to,
			description = excluded.description,
			updated_at = CURRENT_TIMESTAMP`,
		string(a.Type), from, to, a.Description,
	)
	return err
}

// ClearAbsence resets the singleton record to present.
func (s *Store) ClearAbsence(ctx context.Context) error {
	return s.SetAbsence(ctx, &model.AbsencePeriod{Type: model.AbsencePresent})
}

// ListOverrides returns all overrides within [from, to], windows included,
// ordered by date.
func (s *Store) ListOverrides(ctx context.Context, from, to time.Time) ([]model.HourException, error) {
	rows, err := s.QueryContext(ctx, `
		SELECT date, is_closed, note FROM hour_exceptions
		WHERE date >= ? AND date <= ? ORDER BY date`,
		model.DateOf(from).Format(dateFormat), model.DateOf(to).Format(dateFormat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var excs []model.HourException
	for rows.Next() {
		var exc model.HourException
		var dateStr string
		var note sql.NullString
		if err := rows.Scan(&dateStr, &exc.Closed, &note); err != nil {
			return nil, err
		}
		exc.Date, err = parseDate(dateStr)
		if err != nil {
			return nil, err
		}
		exc.Note = note.String
		excs = append(excs, exc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range excs {
		excs[i].Windows, err = s.windowsFor(ctx, excs[i].Date.Format(dateFormat))
		if err != nil {
			return nil, err
		}
	}
	return excs, nil
}

// AllStandardHours returns the weekly schedule as windows per weekday index.
func (s *Store) AllStandardHours(ctx context.Context) (map[int][]model.TimeRange, error) {
	hours := make(map[int][]model.TimeRange, 7)
	for weekday := 0; weekday < 7; weekday++ {
		ranges, err := s.StandardHours(ctx, weekday)
		if err != nil {
			return nil, err
		}
		hours[weekday] = ranges
	}
	return hours, nil
}

func scanRanges(rows *sql.Rows) ([]model.TimeRange, error) {
	var ranges []model.TimeRange
	for rows.Next() {
		var startStr, endStr string
		if err := rows.Scan(&startStr, &endStr); err != nil {
			return nil, err
		}
		start, err := model.ParseClock(startStr)
		if err != nil {
			return nil, err
		}
		end, err := model.ParseClock(endStr)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, model.TimeRange{Start: start, End: end})
	}
	return ranges, rows.Err()
}

func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateFormat, s, model.Bangkok())
}

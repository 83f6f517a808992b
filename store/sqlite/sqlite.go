/*
Package sqlite persists the attendance session across restarts.

PURPOSE:
  Stores the last ingested batch (raw record fields, including user edits)
  and the user's holiday overrides. On startup the server reloads both and
  re-runs classification, so derived hours are never stored — only the
  inputs that produce them.

KEY TABLES:
  batches:           Single-row metadata for the current batch
  records:           Raw record fields in sheet order, edits folded in
  holiday_overrides: User toggles layered over the default calendar

CONCURRENCY:
  Uses sync.RWMutex for thread-safety; SQLite is opened with WAL so
  readers don't block the writer.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/attendance-engine/attendance"
)

// Store persists one attendance session.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Current batch metadata (at most one row)
	CREATE TABLE IF NOT EXISTS batches (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		sheet_name TEXT NOT NULL,
		uploaded_at TEXT NOT NULL
	);

	-- Raw record fields in sheet order; edits overwrite in place
	CREATE TABLE IF NOT EXISTS records (
		idx INTEGER PRIMARY KEY,
		date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		note TEXT NOT NULL DEFAULT '',
		raw_status TEXT NOT NULL DEFAULT '',
		leave_source TEXT NOT NULL DEFAULT '',
		leave_hours REAL NOT NULL DEFAULT 0
	);

	-- User holiday toggles layered over the default calendar
	CREATE TABLE IF NOT EXISTS holiday_overrides (
		date TEXT PRIMARY KEY,
		holiday INTEGER NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// BATCH PERSISTENCE
// =============================================================================

// SaveBatch replaces the stored batch with the given records. Callers pass
// the raw pre-classification records: derived fields, including the
// auto-completed end time of an incomplete record, are never stored.
func (s *Store) SaveBatch(ctx context.Context, sheetName string, records []attendance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save batch: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM records`); err != nil {
		return fmt.Errorf("clear records: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO batches (id, sheet_name, uploaded_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET sheet_name = excluded.sheet_name, uploaded_at = excluded.uploaded_at`,
		sheetName, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("save batch metadata: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (idx, date, start_time, end_time, note, raw_status, leave_source, leave_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		if _, err := stmt.ExecContext(ctx, i, rec.Date.String(),
			clockString(rec.StartTime), clockString(rec.EndTime),
			rec.Note, rec.RawStatus, rec.LeaveSourceText, rec.AnnualLeaveHours); err != nil {
			return fmt.Errorf("insert record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// UpdateRecord overwrites one record's raw fields after a user edit.
func (s *Store) UpdateRecord(ctx context.Context, index int, rec attendance.ClassifiedRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		UPDATE records SET start_time = ?, end_time = ?, leave_hours = ? WHERE idx = ?`,
		clockString(rec.StartTime), clockString(rec.EndTime), rec.AnnualLeaveHours, index)
	if err != nil {
		return fmt.Errorf("update record %d: %w", index, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update record %d: no such record", index)
	}
	return nil
}

// LoadBatch returns the stored batch, or ok=false when none is stored.
func (s *Store) LoadBatch(ctx context.Context) (sheetName string, records []attendance.Record, ok bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	err = s.db.QueryRowContext(ctx, `SELECT sheet_name FROM batches WHERE id = 1`).Scan(&sheetName)
	if err == sql.ErrNoRows {
		return "", nil, false, nil
	}
	if err != nil {
		return "", nil, false, fmt.Errorf("load batch metadata: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, start_time, end_time, note, raw_status, leave_source, leave_hours
		FROM records ORDER BY idx`)
	if err != nil {
		return "", nil, false, fmt.Errorf("load records: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			dateStr    string
			start, end sql.NullString
			rec        attendance.Record
		)
		if err := rows.Scan(&dateStr, &start, &end, &rec.Note, &rec.RawStatus,
			&rec.LeaveSourceText, &rec.AnnualLeaveHours); err != nil {
			return "", nil, false, fmt.Errorf("scan record: %w", err)
		}

		date, parsed := attendance.ParseDate(dateStr)
		if !parsed {
			return "", nil, false, fmt.Errorf("stored record has bad date %q", dateStr)
		}
		rec.Date = date
		rec.StartTime = parseClock(start)
		rec.EndTime = parseClock(end)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return "", nil, false, fmt.Errorf("iterate records: %w", err)
	}

	return sheetName, records, true, nil
}

// =============================================================================
// HOLIDAY OVERRIDES
// =============================================================================

// SaveHolidayOverride records a user's holiday toggle for a date.
func (s *Store) SaveHolidayOverride(ctx context.Context, date attendance.Date, holiday bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO holiday_overrides (date, holiday) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET holiday = excluded.holiday`,
		date.String(), boolInt(holiday))
	if err != nil {
		return fmt.Errorf("save holiday override: %w", err)
	}
	return nil
}

// ListHolidayOverrides returns all stored holiday toggles.
func (s *Store) ListHolidayOverrides(ctx context.Context) (map[attendance.Date]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT date, holiday FROM holiday_overrides`)
	if err != nil {
		return nil, fmt.Errorf("list holiday overrides: %w", err)
	}
	defer rows.Close()

	overrides := make(map[attendance.Date]bool)
	for rows.Next() {
		var (
			dateStr string
			holiday int
		)
		if err := rows.Scan(&dateStr, &holiday); err != nil {
			return nil, fmt.Errorf("scan holiday override: %w", err)
		}
		date, ok := attendance.ParseDate(dateStr)
		if !ok {
			return nil, fmt.Errorf("stored override has bad date %q", dateStr)
		}
		overrides[date] = holiday != 0
	}
	return overrides, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func clockString(ct *attendance.ClockTime) any {
	if ct == nil {
		return nil
	}
	return ct.String()
}

func parseClock(v sql.NullString) *attendance.ClockTime {
	if !v.Valid || v.String == "" {
		return nil
	}
	ct, ok := attendance.ParseTime(v.String)
	if !ok {
		return nil
	}
	return &ct
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

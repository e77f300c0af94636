/*
Package sqlite persists the engine's snapshot state.

PURPOSE:
  Two collections survive a restart: the committed week/day planning tree
  (stored one JSON document per day, snapshot semantics) and the history
  ledger (stored one relational row per ledger entry, upserted on the
  composite key). Recruiter reference data rides along so labels survive
  too. No schema versioning beyond the dedup key staying stable.

SNAPSHOT SEMANTICS:
  Saving a day plan replaces the whole document for that day. Saving
  history rows upserts each row on (recruiter_id, date_iso, row_key) with
  full-field overwrite; the in-memory ledger already performed the shallow
  merge before handing rows over, so the database only ever sees the merged
  result. History rows are deleted only by WipeHistory.

WAL MODE:
  SQLite is opened with WAL so reporting reads don't block the single
  writer.

CONCURRENCY:
  A mutex serializes writers; readers go through database/sql directly.
  The engine has one logical editor, so this is belt and braces.

SEE ALSO:
  - planning/store.go: calls SaveDayPlan/SaveHistoryRows on commit
  - cmd/server/main.go: loads the snapshot at startup
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/planning"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
)

// Store is the SQLite-backed snapshot store.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Committed day plans, one JSON document per day
	CREATE TABLE IF NOT EXISTS day_plans (
		date_iso TEXT PRIMARY KEY,
		week_key TEXT NOT NULL,
		plan_json TEXT NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);
	CREATE INDEX IF NOT EXISTS idx_day_plans_week ON day_plans(week_key);

	-- History ledger rows, keyed by the dedup identity
	CREATE TABLE IF NOT EXISTS history_rows (
		recruiter_id TEXT NOT NULL,
		date_iso TEXT NOT NULL,
		row_key INTEGER NOT NULL,
		recruiter_name TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		project TEXT NOT NULL DEFAULT '',
		shift_type TEXT NOT NULL DEFAULT '',
		role_at_shift TEXT NOT NULL DEFAULT '',
		hours REAL,
		commission_multiplier REAL,
		score INTEGER,
		box2_no_discount INTEGER,
		box2_discount INTEGER,
		box4_no_discount INTEGER,
		box4_discount INTEGER,
		PRIMARY KEY (recruiter_id, date_iso, row_key)
	);
	CREATE INDEX IF NOT EXISTS idx_history_recruiter_date
		ON history_rows(recruiter_id, date_iso);

	-- Recruiter reference data
	CREATE TABLE IF NOT EXISTS recruiters (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		is_inactive INTEGER NOT NULL DEFAULT 0,
		crewcode TEXT NOT NULL DEFAULT '',
		mobile TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		photo_url TEXT NOT NULL DEFAULT '',
		source TEXT NOT NULL DEFAULT ''
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DAY PLANS
// =============================================================================

// SaveDayPlan replaces the stored document for one committed day.
func (s *Store) SaveDayPlan(ctx context.Context, weekKey, dateISO string, plan planning.DayPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("encode day plan %s: %w", dateISO, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO day_plans (date_iso, week_key, plan_json, updated_at)
		VALUES (?, ?, ?, datetime('now'))
		ON CONFLICT(date_iso) DO UPDATE SET
			week_key = excluded.week_key,
			plan_json = excluded.plan_json,
			updated_at = excluded.updated_at`,
		dateISO, weekKey, string(doc))
	return err
}

// LoadWeeks rebuilds the committed week tree from the snapshot.
func (s *Store) LoadWeeks(ctx context.Context) (map[string]map[string]planning.DayPlan, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT date_iso, week_key, plan_json FROM day_plans`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	weeks := make(map[string]map[string]planning.DayPlan)
	for rows.Next() {
		var dateISO, weekKey, doc string
		if err := rows.Scan(&dateISO, &weekKey, &doc); err != nil {
			return nil, err
		}
		var plan planning.DayPlan
		if err := json.Unmarshal([]byte(doc), &plan); err != nil {
			return nil, fmt.Errorf("decode day plan %s: %w", dateISO, err)
		}
		if weeks[weekKey] == nil {
			weeks[weekKey] = make(map[string]planning.DayPlan)
		}
		weeks[weekKey][dateISO] = plan
	}
	return weeks, rows.Err()
}

// =============================================================================
// HISTORY ROWS
// =============================================================================

// SaveHistoryRows upserts a batch of already-merged ledger rows.
func (s *Store) SaveHistoryRows(ctx context.Context, hrows []ledger.HistoryRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO history_rows (
			recruiter_id, date_iso, row_key,
			recruiter_name, location, project, shift_type, role_at_shift,
			hours, commission_multiplier, score,
			box2_no_discount, box2_discount, box4_no_discount, box4_discount
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(recruiter_id, date_iso, row_key) DO UPDATE SET
			recruiter_name = excluded.recruiter_name,
			location = excluded.location,
			project = excluded.project,
			shift_type = excluded.shift_type,
			role_at_shift = excluded.role_at_shift,
			hours = excluded.hours,
			commission_multiplier = excluded.commission_multiplier,
			score = excluded.score,
			box2_no_discount = excluded.box2_no_discount,
			box2_discount = excluded.box2_discount,
			box4_no_discount = excluded.box4_no_discount,
			box4_discount = excluded.box4_discount`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range hrows {
		_, err := stmt.ExecContext(ctx,
			r.RecruiterID, r.DateISO, r.RowKey,
			r.RecruiterName, r.Location, r.Project, r.ShiftType, r.RoleAtShift,
			nullFloat(r.Hours), nullFloat(r.CommissionMultiplier), nullInt(r.Score),
			nullInt(r.Box2NoDiscount), nullInt(r.Box2Discount),
			nullInt(r.Box4NoDiscount), nullInt(r.Box4Discount))
		if err != nil {
			return fmt.Errorf("save history row %s/%s/%d: %w", r.RecruiterID, r.DateISO, r.RowKey, err)
		}
	}
	return tx.Commit()
}

// LoadHistory returns every persisted ledger row.
func (s *Store) LoadHistory(ctx context.Context) ([]ledger.HistoryRow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT recruiter_id, date_iso, row_key,
			recruiter_name, location, project, shift_type, role_at_shift,
			hours, commission_multiplier, score,
			box2_no_discount, box2_discount, box4_no_discount, box4_discount
		FROM history_rows`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.HistoryRow
	for rows.Next() {
		var r ledger.HistoryRow
		var hours, multiplier sql.NullFloat64
		var score, b2n, b2d, b4n, b4d sql.NullInt64
		err := rows.Scan(&r.RecruiterID, &r.DateISO, &r.RowKey,
			&r.RecruiterName, &r.Location, &r.Project, &r.ShiftType, &r.RoleAtShift,
			&hours, &multiplier, &score, &b2n, &b2d, &b4n, &b4d)
		if err != nil {
			return nil, err
		}
		r.Hours = floatPtr(hours)
		r.CommissionMultiplier = floatPtr(multiplier)
		r.Score = intPtr(score)
		r.Box2NoDiscount = intPtr(b2n)
		r.Box2Discount = intPtr(b2d)
		r.Box4NoDiscount = intPtr(b4n)
		r.Box4Discount = intPtr(b4d)
		out = append(out, r)
	}
	return out, rows.Err()
}

// WipeHistory deletes every history row. This is the ledger's only delete
// path.
func (s *Store) WipeHistory(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `DELETE FROM history_rows`)
	return err
}

// =============================================================================
// RECRUITERS
// =============================================================================

// SaveRecruiter upserts one recruiter record.
func (s *Store) SaveRecruiter(ctx context.Context, rec roster.Recruiter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recruiters (id, name, role, is_inactive, crewcode, mobile, email, photo_url, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			role = excluded.role,
			is_inactive = excluded.is_inactive,
			crewcode = excluded.crewcode,
			mobile = excluded.mobile,
			email = excluded.email,
			photo_url = excluded.photo_url,
			source = excluded.source`,
		rec.ID, rec.Name, rec.Role, boolToInt(rec.IsInactive),
		rec.Crewcode, rec.Mobile, rec.Email, rec.PhotoURL, rec.Source)
	return err
}

// LoadRecruiters returns every persisted recruiter.
func (s *Store) LoadRecruiters(ctx context.Context) ([]roster.Recruiter, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, role, is_inactive, crewcode, mobile, email, photo_url, source
		FROM recruiters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []roster.Recruiter
	for rows.Next() {
		var rec roster.Recruiter
		var inactive int
		err := rows.Scan(&rec.ID, &rec.Name, &rec.Role, &inactive,
			&rec.Crewcode, &rec.Mobile, &rec.Email, &rec.PhotoURL, &rec.Source)
		if err != nil {
			return nil, err
		}
		rec.IsInactive = inactive != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

// =============================================================================
// SCAN HELPERS
// =============================================================================

func nullFloat(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

/*
Package ledger is the permanent history of worked shifts.

PURPOSE:
  The ledger is the single channel between scheduling and compensation.
  Committing a day plan projects each staffed row into a HistoryRow and
  merges it here; the compensation calculator later reads the ledger for a
  recruiter and month window. The week/day planning tree is never read by
  compensation.

CRITICAL INVARIANTS:
  1. DEDUP IDENTITY: rows are keyed by (RecruiterID, DateISO, RowKey).
     Committing the same day twice, or editing a row and re-committing,
     replaces rather than duplicates.
  2. IDEMPOTENT UPSERT: applying the same batch twice yields the same final
     state as applying it once.
  3. SHALLOW MERGE: an incoming row overwrites only the fields it carries;
     fields it leaves blank keep their existing values.
  4. NO INCREMENTAL DELETE: rows leave the ledger only via an explicit bulk
     wipe or a full snapshot Replace.

KEYING:
  The key is a genuine struct, not a string concatenation. Legacy rows
  without a row key get RowKey -1, which still dedups correctly because a
  plan never assigns -1.

ORDERING:
  Storage is unordered; query methods impose newest-first by date, which is
  what the reporting views want.

SEE ALSO:
  - planning/store.go: projects committed rows into the ledger
  - pay/compensation.go: consumes RowsInMonth
  - store/sqlite/sqlite.go: persistence of the same rows
*/
package ledger

import (
	"sort"
	"sync"
)

// =============================================================================
// HISTORY ROW - One recruiter-assignment on one date
// =============================================================================

// HistoryRow is a flat record of one shift assignment. Numeric fields are
// pointers because an operator may commit a day before entering scores;
// nil means "not entered", which merges and pay treat as absent.
type HistoryRow struct {
	RecruiterID   string
	DateISO       string
	RowKey        int
	RecruiterName string
	Location      string
	Project       string
	ShiftType     string
	RoleAtShift   string

	Hours                *float64
	CommissionMultiplier *float64
	Score                *int
	Box2NoDiscount       *int
	Box2Discount         *int
	Box4NoDiscount       *int
	Box4Discount         *int
}

// Box2Total returns the combined box2 count, treating missing fields as 0.
func (r HistoryRow) Box2Total() int {
	total := 0
	if r.Box2NoDiscount != nil {
		total += *r.Box2NoDiscount
	}
	if r.Box2Discount != nil {
		total += *r.Box2Discount
	}
	return total
}

// rowKey is the dedup identity of one real shift.
type rowKey struct {
	RecruiterID string
	DateISO     string
	RowKey      int
}

func keyOf(r HistoryRow) rowKey {
	return rowKey{RecruiterID: r.RecruiterID, DateISO: r.DateISO, RowKey: r.RowKey}
}

// LegacyRowKey marks rows imported from data that predates row keys.
// Zero is a valid assigned key, so absence maps to -1 instead; loaders of
// legacy data set it explicitly.
const LegacyRowKey = -1

// =============================================================================
// LEDGER - Tuple-keyed merge collection
// =============================================================================

// Ledger stores history rows keyed by their dedup identity. Reads may run
// concurrently with each other and with draft edits; the planning store's
// commit is the sole writer.
type Ledger struct {
	mu   sync.RWMutex
	rows map[rowKey]HistoryRow
}

func New() *Ledger {
	return &Ledger{rows: make(map[rowKey]HistoryRow)}
}

// Upsert merges a batch of rows into the ledger. For each row, any existing
// row with the same (RecruiterID, DateISO, RowKey) is shallow-merged:
// provided fields overwrite, absent fields survive. Rows with no existing
// counterpart are inserted as-is. Applying the same batch again is a no-op.
func (l *Ledger) Upsert(rows []HistoryRow) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, incoming := range rows {
		k := keyOf(incoming)
		existing, ok := l.rows[k]
		if !ok {
			l.rows[k] = incoming
			continue
		}
		l.rows[k] = merge(existing, incoming)
	}
}

// merge overwrites only the fields the incoming row carries.
func merge(existing, incoming HistoryRow) HistoryRow {
	out := existing
	if incoming.RecruiterName != "" {
		out.RecruiterName = incoming.RecruiterName
	}
	if incoming.Location != "" {
		out.Location = incoming.Location
	}
	if incoming.Project != "" {
		out.Project = incoming.Project
	}
	if incoming.ShiftType != "" {
		out.ShiftType = incoming.ShiftType
	}
	if incoming.RoleAtShift != "" {
		out.RoleAtShift = incoming.RoleAtShift
	}
	if incoming.Hours != nil {
		out.Hours = incoming.Hours
	}
	if incoming.CommissionMultiplier != nil {
		out.CommissionMultiplier = incoming.CommissionMultiplier
	}
	if incoming.Score != nil {
		out.Score = incoming.Score
	}
	if incoming.Box2NoDiscount != nil {
		out.Box2NoDiscount = incoming.Box2NoDiscount
	}
	if incoming.Box2Discount != nil {
		out.Box2Discount = incoming.Box2Discount
	}
	if incoming.Box4NoDiscount != nil {
		out.Box4NoDiscount = incoming.Box4NoDiscount
	}
	if incoming.Box4Discount != nil {
		out.Box4Discount = incoming.Box4Discount
	}
	return out
}

// RowsFor returns every row for a recruiter, newest first.
func (l *Ledger) RowsFor(recruiterID string) []HistoryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var out []HistoryRow
	for k, r := range l.rows {
		if k.RecruiterID == recruiterID {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out
}

// RowsInMonth returns a recruiter's rows whose DateISO falls in yearMonth
// (YYYY-MM), newest first. Month membership is a prefix match on the date.
func (l *Ledger) RowsInMonth(recruiterID, yearMonth string) []HistoryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	prefix := yearMonth + "-"
	var out []HistoryRow
	for k, r := range l.rows {
		if k.RecruiterID != recruiterID {
			continue
		}
		if len(r.DateISO) >= len(prefix) && r.DateISO[:len(prefix)] == prefix {
			out = append(out, r)
		}
	}
	sortNewestFirst(out)
	return out
}

// All returns every row, newest first. Used for snapshots and reporting.
func (l *Ledger) All() []HistoryRow {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]HistoryRow, 0, len(l.rows))
	for _, r := range l.rows {
		out = append(out, r)
	}
	sortNewestFirst(out)
	return out
}

// Len reports the number of stored rows.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// Replace swaps the whole collection. Used when loading a snapshot at
// startup and for the explicit bulk wipe (Replace(nil)).
func (l *Ledger) Replace(rows []HistoryRow) {
	m := make(map[rowKey]HistoryRow, len(rows))
	for _, r := range rows {
		m[keyOf(r)] = r
	}
	l.mu.Lock()
	l.rows = m
	l.mu.Unlock()
}

func sortNewestFirst(rows []HistoryRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].DateISO != rows[j].DateISO {
			return rows[i].DateISO > rows[j].DateISO
		}
		if rows[i].RecruiterID != rows[j].RecruiterID {
			return rows[i].RecruiterID < rows[j].RecruiterID
		}
		return rows[i].RowKey < rows[j].RowKey
	})
}

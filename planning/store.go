/*
store.go - Draft/commit planning store

PURPOSE:
  Holds the week-keyed tree of committed day plans and the per-day drafts
  being edited. Each day moves EMPTY -> DRAFT -> COMMITTED:

    OpenDraft     clone committed plan (or empty) into an isolated draft
    edits         mutate only the draft; double-booking rejected per write
    CommitDraft   validate box totals, swap draft in atomically, project
                  staffed rows into the history ledger
    DiscardDraft  drop the draft; the ledger never sees partial edits

INVARIANTS:
  1. A recruiter appears in at most one row across all teams of a day.
     Enforced at row-write time against the rebuilt per-day index, not
     deferred to commit.
  2. box2_nd + box2_d + box4_nd + box4_d <= score for every row, enforced
     at commit; a violation blocks the whole commit and changes nothing.
  3. Readers only ever see committed state; drafts are isolated copies.

CONCURRENCY:
  One logical editor. The mutex exists so reporting reads can run
  concurrently with draft edits, mirroring the memory store's RWMutex
  discipline; there are never two concurrent commits for one day.

PERSISTENCE:
  Commit hands the committed plan and the projected rows to an optional
  Persister (the SQLite snapshot store). A persistence fault after the
  in-memory swap is returned to the caller but does not roll back the
  commit; the snapshot catches up on the next save.

SEE ALSO:
  - plan.go: tree types, row keys, deep copy
  - ledger/ledger.go: upsert semantics of the projection
  - store/sqlite/sqlite.go: the Persister implementation
*/
package planning

import (
	"context"
	"strings"
	"sync"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// RosterSource resolves recruiter reference data for ledger projection.
type RosterSource interface {
	Get(id string) (roster.Recruiter, bool)
}

// Persister receives committed state for the durable snapshot.
type Persister interface {
	SaveDayPlan(ctx context.Context, weekKey, dateISO string, plan DayPlan) error
	SaveHistoryRows(ctx context.Context, rows []ledger.HistoryRow) error
}

// DayState is the lifecycle position of one day.
type DayState string

const (
	DayEmpty     DayState = "EMPTY"
	DayDraft     DayState = "DRAFT"
	DayCommitted DayState = "COMMITTED"
)

// =============================================================================
// STORE
// =============================================================================

// Store is the planning tree plus the open drafts.
type Store struct {
	mu      sync.RWMutex
	weeks   map[string]map[string]DayPlan // weekKey -> dateISO -> committed plan
	drafts  map[string]DayPlan            // dateISO -> draft
	ledger  *ledger.Ledger
	roster  RosterSource
	persist Persister // optional
}

func NewStore(l *ledger.Ledger, r RosterSource, p Persister) *Store {
	return &Store{
		weeks:   make(map[string]map[string]DayPlan),
		drafts:  make(map[string]DayPlan),
		ledger:  l,
		roster:  r,
		persist: p,
	}
}

// ReplaceWeeks loads the committed tree from a snapshot. Open drafts are
// dropped; they were never durable.
func (s *Store) ReplaceWeeks(weeks map[string]map[string]DayPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weeks = make(map[string]map[string]DayPlan, len(weeks))
	for wk, days := range weeks {
		s.weeks[wk] = make(map[string]DayPlan, len(days))
		for d, p := range days {
			s.weeks[wk][d] = p.Clone()
		}
	}
	s.drafts = make(map[string]DayPlan)
}

// =============================================================================
// READ SURFACE
// =============================================================================

// State reports where a day sits in its lifecycle.
func (s *Store) State(dateISO string) DayState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.drafts[dateISO]; ok {
		return DayDraft
	}
	if _, ok := s.committedLocked(dateISO); ok {
		return DayCommitted
	}
	return DayEmpty
}

// Committed returns a snapshot of a day's committed plan.
func (s *Store) Committed(dateISO string) (DayPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.committedLocked(dateISO)
	if !ok {
		return DayPlan{}, false
	}
	return p.Clone(), true
}

// Draft returns a snapshot of a day's open draft.
func (s *Store) Draft(dateISO string) (DayPlan, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.drafts[dateISO]
	if !ok {
		return DayPlan{}, false
	}
	return p.Clone(), true
}

// Week returns snapshots of every committed day in an ISO week, keyed by
// date, for calendar rendering.
func (s *Store) Week(weekKey string) map[string]DayPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]DayPlan, len(s.weeks[weekKey]))
	for d, p := range s.weeks[weekKey] {
		out[d] = p.Clone()
	}
	return out
}

func (s *Store) committedLocked(dateISO string) (DayPlan, bool) {
	wk, err := WeekKey(dateISO)
	if err != nil {
		return DayPlan{}, false
	}
	p, ok := s.weeks[wk][dateISO]
	return p, ok
}

// =============================================================================
// DRAFT LIFECYCLE
// =============================================================================

// OpenDraft clones the committed plan (or an empty one) into an editable
// draft and returns the clone. Reopening an already-open draft returns the
// existing draft unchanged, so a UI reload does not wipe in-progress edits.
func (s *Store) OpenDraft(dateISO string) (DayPlan, error) {
	if _, err := WeekKey(dateISO); err != nil {
		return DayPlan{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d, ok := s.drafts[dateISO]; ok {
		return d.Clone(), nil
	}
	base := DayPlan{}
	if committed, ok := s.committedLocked(dateISO); ok {
		base = committed.Clone()
	}
	s.drafts[dateISO] = base
	return base.Clone(), nil
}

// DiscardDraft drops a day's draft. No-op on the ledger and on committed
// state; partial edits never leak.
func (s *Store) DiscardDraft(dateISO string) {
	s.mu.Lock()
	delete(s.drafts, dateISO)
	s.mu.Unlock()
}

// =============================================================================
// DRAFT EDITS
// =============================================================================

// TeamPatch carries the team fields an edit wants to change.
type TeamPatch struct {
	Zone       *string
	ExtraZones *[]string
	Project    *string
	ShiftType  *string
}

// RowPatch carries the row fields an edit wants to change. RecruiterID set
// to the empty string clears the assignment.
type RowPatch struct {
	RecruiterID          *string
	Hours                *float64
	CommissionMultiplier *float64
	Score                *int
	Box2NoDiscount       *int
	Box2Discount         *int
	Box4NoDiscount       *int
	Box4Discount         *int
}

// AddTeam appends a team to the day's draft and returns its index.
func (s *Store) AddTeam(dateISO, zone, project, shiftType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return 0, ErrNoDraft
	}
	if shiftType == "" {
		shiftType = ShiftD2D
	}
	draft.Teams = append(draft.Teams, Team{Zone: zone, Project: project, ShiftType: shiftType})
	s.drafts[dateISO] = draft
	return len(draft.Teams) - 1, nil
}

// RemoveTeam deletes a team from the draft. Its row keys are retired with
// it and are not reissued.
func (s *Store) RemoveTeam(dateISO string, teamIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return ErrNoDraft
	}
	if teamIdx < 0 || teamIdx >= len(draft.Teams) {
		return ErrIndexOutOfRange
	}
	draft.Teams = append(draft.Teams[:teamIdx], draft.Teams[teamIdx+1:]...)
	s.drafts[dateISO] = draft
	return nil
}

// SetTeam applies a patch to a team's descriptive fields.
func (s *Store) SetTeam(dateISO string, teamIdx int, patch TeamPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return ErrNoDraft
	}
	if teamIdx < 0 || teamIdx >= len(draft.Teams) {
		return ErrIndexOutOfRange
	}
	team := &draft.Teams[teamIdx]
	if patch.Zone != nil {
		team.Zone = *patch.Zone
	}
	if patch.ExtraZones != nil {
		team.ExtraZones = append([]string(nil), (*patch.ExtraZones)...)
	}
	if patch.Project != nil {
		team.Project = *patch.Project
	}
	if patch.ShiftType != nil {
		team.ShiftType = *patch.ShiftType
	}
	s.drafts[dateISO] = draft
	return nil
}

// AddRow appends a blank row to a team and returns it. The row key comes
// from the team's counter and is final for the lifetime of the day.
func (s *Store) AddRow(dateISO string, teamIdx int) (AssignmentRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return AssignmentRow{}, ErrNoDraft
	}
	if teamIdx < 0 || teamIdx >= len(draft.Teams) {
		return AssignmentRow{}, ErrIndexOutOfRange
	}
	team := &draft.Teams[teamIdx]
	row := AssignmentRow{RowKey: team.NextRowKey}
	team.NextRowKey++
	team.Rows = append(team.Rows, row)
	s.drafts[dateISO] = draft
	return row, nil
}

// RemoveRow deletes a row from a team. Its key is not reused.
func (s *Store) RemoveRow(dateISO string, teamIdx, rowIdx int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return ErrNoDraft
	}
	if teamIdx < 0 || teamIdx >= len(draft.Teams) {
		return ErrIndexOutOfRange
	}
	team := &draft.Teams[teamIdx]
	if rowIdx < 0 || rowIdx >= len(team.Rows) {
		return ErrIndexOutOfRange
	}
	team.Rows = append(team.Rows[:rowIdx], team.Rows[rowIdx+1:]...)
	s.drafts[dateISO] = draft
	return nil
}

// SetRow applies a patch to a row. Assigning a recruiter already present in
// a different row of the same day fails with *DuplicateAssignmentError and
// mutates nothing.
func (s *Store) SetRow(dateISO string, teamIdx, rowIdx int, patch RowPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, ok := s.drafts[dateISO]
	if !ok {
		return ErrNoDraft
	}
	if teamIdx < 0 || teamIdx >= len(draft.Teams) {
		return ErrIndexOutOfRange
	}
	team := &draft.Teams[teamIdx]
	if rowIdx < 0 || rowIdx >= len(team.Rows) {
		return ErrIndexOutOfRange
	}

	if patch.RecruiterID != nil && *patch.RecruiterID != "" {
		idx := draft.recruiterIndex(teamIdx, rowIdx)
		if _, taken := idx[*patch.RecruiterID]; taken {
			return &DuplicateAssignmentError{RecruiterID: *patch.RecruiterID, DateISO: dateISO}
		}
	}

	row := &team.Rows[rowIdx]
	if patch.RecruiterID != nil {
		row.RecruiterID = *patch.RecruiterID
	}
	if patch.Hours != nil {
		row.Hours = patch.Hours
	}
	if patch.CommissionMultiplier != nil {
		row.CommissionMultiplier = patch.CommissionMultiplier
	}
	if patch.Score != nil {
		row.Score = patch.Score
	}
	if patch.Box2NoDiscount != nil {
		row.Box2NoDiscount = patch.Box2NoDiscount
	}
	if patch.Box2Discount != nil {
		row.Box2Discount = patch.Box2Discount
	}
	if patch.Box4NoDiscount != nil {
		row.Box4NoDiscount = patch.Box4NoDiscount
	}
	if patch.Box4Discount != nil {
		row.Box4Discount = patch.Box4Discount
	}
	s.drafts[dateISO] = draft
	return nil
}

// =============================================================================
// COMMIT
// =============================================================================

// CommitDraft validates the draft, swaps it in as the day's committed plan,
// and merges every staffed row into the history ledger. Returns the
// projected rows.
//
// Validation failure commits nothing and keeps the draft open for
// correction. Rows without a recruiter are legal and skipped by the
// projection; they stay in the plan as open slots.
func (s *Store) CommitDraft(ctx context.Context, dateISO string) ([]ledger.HistoryRow, error) {
	weekKey, err := WeekKey(dateISO)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	draft, ok := s.drafts[dateISO]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNoDraft
	}

	if err := validateBoxTotals(dateISO, draft); err != nil {
		s.mu.Unlock()
		return nil, err
	}

	// Atomic swap: the draft becomes the committed plan.
	if s.weeks[weekKey] == nil {
		s.weeks[weekKey] = make(map[string]DayPlan)
	}
	committed := draft.Clone()
	s.weeks[weekKey][dateISO] = committed
	delete(s.drafts, dateISO)

	rows := s.projectLocked(dateISO, committed)
	s.mu.Unlock()

	s.ledger.Upsert(rows)

	if s.persist != nil {
		if err := s.persist.SaveDayPlan(ctx, weekKey, dateISO, committed); err != nil {
			return rows, err
		}
		if err := s.persist.SaveHistoryRows(ctx, rows); err != nil {
			return rows, err
		}
	}
	return rows, nil
}

func validateBoxTotals(dateISO string, plan DayPlan) error {
	for ti, team := range plan.Teams {
		for ri, row := range team.Rows {
			score := 0
			if row.Score != nil {
				score = *row.Score
			}
			if total := row.boxTotal(); total > score {
				return &InvalidBoxTotalError{
					DateISO:  dateISO,
					TeamIdx:  ti,
					RowIdx:   ri,
					BoxTotal: total,
					Score:    score,
				}
			}
		}
	}
	return nil
}

// projectLocked turns a committed plan into ledger rows. One row per
// staffed assignment; empty recruiter slots never reach the ledger.
func (s *Store) projectLocked(dateISO string, plan DayPlan) []ledger.HistoryRow {
	var rows []ledger.HistoryRow
	for _, team := range plan.Teams {
		location := team.Zone
		if len(team.ExtraZones) > 0 {
			location = strings.Join(append([]string{team.Zone}, team.ExtraZones...), ", ")
		}
		for _, row := range team.Rows {
			if row.RecruiterID == "" {
				continue
			}
			h := ledger.HistoryRow{
				RecruiterID:          row.RecruiterID,
				DateISO:              dateISO,
				RowKey:               row.RowKey,
				Location:             location,
				Project:              team.Project,
				ShiftType:            team.ShiftType,
				Hours:                row.Hours,
				CommissionMultiplier: row.CommissionMultiplier,
				Score:                row.Score,
				Box2NoDiscount:       row.Box2NoDiscount,
				Box2Discount:         row.Box2Discount,
				Box4NoDiscount:       row.Box4NoDiscount,
				Box4Discount:         row.Box4Discount,
			}
			if s.roster != nil {
				if rec, ok := s.roster.Get(row.RecruiterID); ok {
					h.RecruiterName = rec.Name
					h.RoleAtShift = rec.Role
				}
			}
			rows = append(rows, h)
		}
	}
	return rows
}

// Weeks returns a deep copy of the whole committed tree, for snapshotting.
func (s *Store) Weeks() map[string]map[string]DayPlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string]DayPlan, len(s.weeks))
	for wk, days := range s.weeks {
		out[wk] = make(map[string]DayPlan, len(days))
		for d, p := range days {
			out[wk][d] = p.Clone()
		}
	}
	return out
}

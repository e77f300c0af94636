/*
plan.go - Week/day planning tree types

PURPOSE:
  A week holds days, a day holds teams, a team holds assignment rows. This
  file defines those types, their deep copy (the basis of draft isolation),
  and the week keying used for the persisted snapshot layout.

ROW KEYS:
  Every row gets a key at creation from its team's counter. Keys start at
  zero per team, only ever grow, and are never reused within a day even
  after a row is removed. The counter is part of the persisted plan, so
  numbering survives a reload and a re-edited row keeps its key. That
  stability is what makes re-commits overwrite ledger entries instead of
  duplicating them.

SEE ALSO:
  - store.go: draft lifecycle and commit projection
  - ledger/ledger.go: where projected rows end up
*/
package planning

import (
	"fmt"
	"time"
)

// Shift types.
const (
	ShiftD2D   = "D2D"
	ShiftEvent = "EVENT"
)

// AssignmentRow is one recruiter slot in a team for one day. Numeric fields
// are nil until the operator enters them.
type AssignmentRow struct {
	RowKey      int    `json:"rowKey"`
	RecruiterID string `json:"recruiterId,omitempty"`

	Hours                *float64 `json:"hours,omitempty"`
	CommissionMultiplier *float64 `json:"commissionMultiplier,omitempty"`
	Score                *int     `json:"score,omitempty"`
	Box2NoDiscount       *int     `json:"box2NoDiscount,omitempty"`
	Box2Discount         *int     `json:"box2Discount,omitempty"`
	Box4NoDiscount       *int     `json:"box4NoDiscount,omitempty"`
	Box4Discount         *int     `json:"box4Discount,omitempty"`
}

// boxTotal treats missing fields as zero.
func (r AssignmentRow) boxTotal() int {
	total := 0
	for _, f := range []*int{r.Box2NoDiscount, r.Box2Discount, r.Box4NoDiscount, r.Box4Discount} {
		if f != nil {
			total += *f
		}
	}
	return total
}

// Team is one zone crew within a day.
type Team struct {
	Zone       string          `json:"zone"`
	ExtraZones []string        `json:"extraZones,omitempty"`
	Project    string          `json:"project,omitempty"`
	ShiftType  string          `json:"shiftType"`
	Rows       []AssignmentRow `json:"rows"`

	// NextRowKey is the persisted row-key counter. See the file header.
	NextRowKey int `json:"nextRowKey"`
}

// DayPlan is the tree of teams for one calendar day.
type DayPlan struct {
	Teams []Team `json:"teams"`
}

// Clone returns a deep copy. Drafts are clones; edits on a draft can never
// bleed into the committed plan.
func (p DayPlan) Clone() DayPlan {
	out := DayPlan{Teams: make([]Team, len(p.Teams))}
	for i, t := range p.Teams {
		ct := t
		ct.ExtraZones = append([]string(nil), t.ExtraZones...)
		ct.Rows = append([]AssignmentRow(nil), t.Rows...)
		out.Teams[i] = ct
	}
	return out
}

// recruiterIndex rebuilds the per-day assignment set: every non-empty
// recruiter ID in the plan, optionally skipping one row (the row being
// edited). This is the double-booking gate.
func (p DayPlan) recruiterIndex(skipTeam, skipRow int) map[string]struct{} {
	idx := make(map[string]struct{})
	for ti, t := range p.Teams {
		for ri, row := range t.Rows {
			if ti == skipTeam && ri == skipRow {
				continue
			}
			if row.RecruiterID != "" {
				idx[row.RecruiterID] = struct{}{}
			}
		}
	}
	return idx
}

// WeekKey returns the ISO-week bucket ("2025-W37") a day belongs to.
func WeekKey(dateISO string) (string, error) {
	t, err := time.Parse("2006-01-02", dateISO)
	if err != nil {
		return "", fmt.Errorf("%w %q: %v", ErrInvalidDate, dateISO, err)
	}
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week), nil
}

/*
Package roster holds recruiter reference data.

PURPOSE:
  Recruiters are owned and mutated by the recruiting-pipeline tracker; the
  scheduling and compensation engine only reads them. This package provides
  the read-mostly collection plus the role-based defaults that compensation
  falls back to when a shift record carries no explicit hours or multiplier.

ROLE DEFAULTS:
  Hours per shift when the row leaves hours blank:
    Pool Captain                  7
    Team Captain / Sales Manager  8
    everyone else                 6
  Commission multiplier when the row leaves it blank:
    Pool Captain   1.25
    Team Captain   1.5
    Sales Manager  2.0
    everyone else  1.0

SEE ALSO:
  - pay/compensation.go: consumes the defaults
  - api/handlers.go: roster endpoints
*/
package roster

import (
	"sort"
	"sync"

	"github.com/google/uuid"
)

// =============================================================================
// RECRUITER - Read-only reference data for the engine
// =============================================================================

// Role names as the pipeline tracker records them.
const (
	RolePoolCaptain  = "Pool Captain"
	RoleTeamCaptain  = "Team Captain"
	RoleSalesManager = "Sales Manager"
	RoleRookie       = "Rookie"
	RolePromoter     = "Promoter"
)

type Recruiter struct {
	ID         string
	Name       string
	Role       string
	IsInactive bool
	Crewcode   string
	Mobile     string
	Email      string
	PhotoURL   string
	Source     string
}

// DefaultHours returns the hours credited for a shift without explicit hours.
func DefaultHours(role string) float64 {
	switch role {
	case RolePoolCaptain:
		return 7
	case RoleTeamCaptain, RoleSalesManager:
		return 8
	default:
		return 6
	}
}

// DefaultMultiplier returns the commission multiplier for a role.
func DefaultMultiplier(role string) float64 {
	switch role {
	case RolePoolCaptain:
		return 1.25
	case RoleTeamCaptain:
		return 1.5
	case RoleSalesManager:
		return 2.0
	default:
		return 1.0
	}
}

// =============================================================================
// ROSTER - In-memory recruiter collection
// =============================================================================

// Roster is safe for concurrent readers alongside the single editor.
type Roster struct {
	mu         sync.RWMutex
	recruiters map[string]Recruiter
}

func New() *Roster {
	return &Roster{recruiters: make(map[string]Recruiter)}
}

// Get returns the recruiter and whether it exists.
func (r *Roster) Get(id string) (Recruiter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.recruiters[id]
	return rec, ok
}

// List returns all recruiters sorted by name.
func (r *Roster) List() []Recruiter {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Recruiter, 0, len(r.recruiters))
	for _, rec := range r.recruiters {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Put inserts or replaces a recruiter. A missing ID is minted here so the
// pipeline tracker and the HTTP surface share one ID scheme.
func (r *Roster) Put(rec Recruiter) Recruiter {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	r.mu.Lock()
	r.recruiters[rec.ID] = rec
	r.mu.Unlock()
	return rec
}

// Replace swaps the whole collection, used when loading a snapshot.
func (r *Roster) Replace(recs []Recruiter) {
	m := make(map[string]Recruiter, len(recs))
	for _, rec := range recs {
		m[rec.ID] = rec
	}
	r.mu.Lock()
	r.recruiters = m
	r.mu.Unlock()
}

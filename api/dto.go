/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures of the API contract, decoupled from the domain types.
  Planning drafts and committed plans serialize with the planning package's
  own tags (the persisted snapshot uses the same shape); everything else
  crosses the boundary through the types here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - planning/plan.go: JSON shape of day plans
*/
package api

import (
	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// RECRUITERS
// =============================================================================

type RecruiterDTO struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsInactive bool   `json:"isInactive"`
	Crewcode   string `json:"crewcode,omitempty"`
	Mobile     string `json:"mobile,omitempty"`
	Email      string `json:"email,omitempty"`
	PhotoURL   string `json:"photoUrl,omitempty"`
	Source     string `json:"source,omitempty"`
}

type PutRecruiterRequest struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	IsInactive bool   `json:"isInactive"`
	Crewcode   string `json:"crewcode"`
	Mobile     string `json:"mobile"`
	Email      string `json:"email"`
	PhotoURL   string `json:"photoUrl"`
	Source     string `json:"source"`
}

func recruiterDTO(r roster.Recruiter) RecruiterDTO {
	return RecruiterDTO{
		ID:         r.ID,
		Name:       r.Name,
		Role:       r.Role,
		IsInactive: r.IsInactive,
		Crewcode:   r.Crewcode,
		Mobile:     r.Mobile,
		Email:      r.Email,
		PhotoURL:   r.PhotoURL,
		Source:     r.Source,
	}
}

// =============================================================================
// PLANNING
// =============================================================================

type AddTeamRequest struct {
	Zone      string `json:"zone"`
	Project   string `json:"project"`
	ShiftType string `json:"shiftType"`
}

type TeamPatchRequest struct {
	Zone       *string   `json:"zone,omitempty"`
	ExtraZones *[]string `json:"extraZones,omitempty"`
	Project    *string   `json:"project,omitempty"`
	ShiftType  *string   `json:"shiftType,omitempty"`
}

type RowPatchRequest struct {
	RecruiterID          *string  `json:"recruiterId,omitempty"`
	Hours                *float64 `json:"hours,omitempty"`
	CommissionMultiplier *float64 `json:"commissionMultiplier,omitempty"`
	Score                *int     `json:"score,omitempty"`
	Box2NoDiscount       *int     `json:"box2NoDiscount,omitempty"`
	Box2Discount         *int     `json:"box2Discount,omitempty"`
	Box4NoDiscount       *int     `json:"box4NoDiscount,omitempty"`
	Box4Discount         *int     `json:"box4Discount,omitempty"`
}

type CommitResponse struct {
	DateISO       string `json:"date"`
	RowsProjected int    `json:"rowsProjected"`
}

type DayStateDTO struct {
	DateISO string `json:"date"`
	State   string `json:"state"`
}

// =============================================================================
// HISTORY
// =============================================================================

type HistoryRowDTO struct {
	RecruiterID          string   `json:"recruiterId"`
	DateISO              string   `json:"date"`
	RowKey               int      `json:"rowKey"`
	RecruiterName        string   `json:"recruiterName,omitempty"`
	Location             string   `json:"location,omitempty"`
	Project              string   `json:"project,omitempty"`
	ShiftType            string   `json:"shiftType,omitempty"`
	RoleAtShift          string   `json:"roleAtShift,omitempty"`
	Hours                *float64 `json:"hours,omitempty"`
	CommissionMultiplier *float64 `json:"commissionMultiplier,omitempty"`
	Score                *int     `json:"score,omitempty"`
	Box2NoDiscount       *int     `json:"box2NoDiscount,omitempty"`
	Box2Discount         *int     `json:"box2Discount,omitempty"`
	Box4NoDiscount       *int     `json:"box4NoDiscount,omitempty"`
	Box4Discount         *int     `json:"box4Discount,omitempty"`
}

func historyRowDTO(r ledger.HistoryRow) HistoryRowDTO {
	return HistoryRowDTO{
		RecruiterID:          r.RecruiterID,
		DateISO:              r.DateISO,
		RowKey:               r.RowKey,
		RecruiterName:        r.RecruiterName,
		Location:             r.Location,
		Project:              r.Project,
		ShiftType:            r.ShiftType,
		RoleAtShift:          r.RoleAtShift,
		Hours:                r.Hours,
		CommissionMultiplier: r.CommissionMultiplier,
		Score:                r.Score,
		Box2NoDiscount:       r.Box2NoDiscount,
		Box2Discount:         r.Box2Discount,
		Box4NoDiscount:       r.Box4NoDiscount,
		Box4Discount:         r.Box4Discount,
	}
}

// =============================================================================
// PAY
// =============================================================================

// PayDTO carries the computed figures, rounded to cents for display.
type PayDTO struct {
	RecruiterID string `json:"recruiterId"`
	PayMonth    string `json:"payMonth"`
	WagesMonth  string `json:"wagesMonth"`
	BonusMonth  string `json:"bonusMonth"`
	Wages       string `json:"wages"`
	Bonus       string `json:"bonus"`
	RateWarning string `json:"rateWarning,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

type RateBandDTO struct {
	Start string `json:"start"`
	Rate  string `json:"rate"`
}

type SettingsDTO struct {
	RateBands  []RateBandDTO `json:"rateBands"`
	Conversion any           `json:"conversion,omitempty"`
}

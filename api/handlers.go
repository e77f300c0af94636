/*
handlers.go - HTTP handlers for the scheduling & compensation engine

PURPOSE:
  Exposes the planning store, history ledger, and compensation calculator
  over REST. Handles request parsing, JSON serialization, and the mapping
  of domain errors to HTTP statuses; all semantics live in the domain
  packages.

ENDPOINTS:
  Planning:
    GET    /api/planning/{date}                     Committed plan
    GET    /api/planning/{date}/state               Day lifecycle state
    POST   /api/planning/{date}/draft               Open (or fetch) draft
    GET    /api/planning/{date}/draft               Current draft
    DELETE /api/planning/{date}/draft               Discard draft
    POST   /api/planning/{date}/draft/teams         Add team
    PATCH  /api/planning/{date}/draft/teams/{t}     Edit team fields
    DELETE /api/planning/{date}/draft/teams/{t}     Remove team
    POST   /api/planning/{date}/draft/teams/{t}/rows        Add row
    PATCH  /api/planning/{date}/draft/teams/{t}/rows/{r}    Edit row
    DELETE /api/planning/{date}/draft/teams/{t}/rows/{r}    Remove row
    POST   /api/planning/{date}/commit              Commit draft
    GET    /api/planning/weeks/{week}               Week snapshot

  History:
    GET    /api/history/{recruiterId}               All rows, newest first
    GET    /api/history/{recruiterId}?month=YYYY-MM Month window
    DELETE /api/history                             Bulk wipe

  Pay:
    GET    /api/pay/{recruiterId}/{month}           Wages + bonus

  Recruiters / Settings:
    GET/POST /api/recruiters, PUT /api/recruiters/{id}
    GET /api/settings, POST /api/settings/reload

ERROR MAPPING:
  404  no draft / unknown day, team, row, recruiter
  409  DuplicateAssignmentError (double-booking)
  400  InvalidBoxTotalError, malformed input
  500  persistence faults

SEE ALSO:
  - dto.go: request/response shapes
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/pay"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/planning"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/settings"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Planning *planning.Store
	Ledger   *ledger.Ledger
	Roster   *roster.Roster
	Settings *settings.Source
	Snapshot *sqlite.Store // nil when running without persistence
	Log      zerolog.Logger
}

func NewHandler(p *planning.Store, l *ledger.Ledger, r *roster.Roster, s *settings.Source, snap *sqlite.Store, log zerolog.Logger) *Handler {
	return &Handler{Planning: p, Ledger: l, Roster: r, Settings: s, Snapshot: snap, Log: log}
}

// =============================================================================
// PLANNING HANDLERS
// =============================================================================

// GetCommitted returns a day's committed plan.
func (h *Handler) GetCommitted(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	plan, ok := h.Planning.Committed(date)
	if !ok {
		writeError(w, http.StatusNotFound, "No committed plan for day", nil)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// GetDayState reports EMPTY, DRAFT, or COMMITTED for a day.
func (h *Handler) GetDayState(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	writeJSON(w, http.StatusOK, DayStateDTO{DateISO: date, State: string(h.Planning.State(date))})
}

// GetWeek returns every committed day of an ISO week.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week := chi.URLParam(r, "week")
	writeJSON(w, http.StatusOK, h.Planning.Week(week))
}

// OpenDraft opens (or returns the already-open) draft for a day.
func (h *Handler) OpenDraft(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	draft, err := h.Planning.OpenDraft(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date (use YYYY-MM-DD)", err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// GetDraft returns a day's open draft.
func (h *Handler) GetDraft(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	draft, ok := h.Planning.Draft(date)
	if !ok {
		writeError(w, http.StatusNotFound, "No open draft for day", nil)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// DiscardDraft drops a day's draft without committing.
func (h *Handler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	h.Planning.DiscardDraft(date)
	w.WriteHeader(http.StatusNoContent)
}

// AddTeam appends a team to the draft.
func (h *Handler) AddTeam(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	var req AddTeamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	idx, err := h.Planning.AddTeam(date, req.Zone, req.Project, req.ShiftType)
	if err != nil {
		writePlanningError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"teamIdx": idx})
}

// PatchTeam edits a team's descriptive fields.
func (h *Handler) PatchTeam(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	teamIdx, ok := pathIndex(w, r, "teamIdx")
	if !ok {
		return
	}
	var req TeamPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	patch := planning.TeamPatch{
		Zone:       req.Zone,
		ExtraZones: req.ExtraZones,
		Project:    req.Project,
		ShiftType:  req.ShiftType,
	}
	if err := h.Planning.SetTeam(date, teamIdx, patch); err != nil {
		writePlanningError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveTeam deletes a team from the draft.
func (h *Handler) RemoveTeam(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	teamIdx, ok := pathIndex(w, r, "teamIdx")
	if !ok {
		return
	}
	if err := h.Planning.RemoveTeam(date, teamIdx); err != nil {
		writePlanningError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddRow appends a blank row to a team.
func (h *Handler) AddRow(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	teamIdx, ok := pathIndex(w, r, "teamIdx")
	if !ok {
		return
	}
	row, err := h.Planning.AddRow(date, teamIdx)
	if err != nil {
		writePlanningError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, row)
}

// PatchRow edits a row; double-booking comes back as 409.
func (h *Handler) PatchRow(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	teamIdx, ok := pathIndex(w, r, "teamIdx")
	if !ok {
		return
	}
	rowIdx, ok := pathIndex(w, r, "rowIdx")
	if !ok {
		return
	}
	var req RowPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	patch := planning.RowPatch{
		RecruiterID:          req.RecruiterID,
		Hours:                req.Hours,
		CommissionMultiplier: req.CommissionMultiplier,
		Score:                req.Score,
		Box2NoDiscount:       req.Box2NoDiscount,
		Box2Discount:         req.Box2Discount,
		Box4NoDiscount:       req.Box4NoDiscount,
		Box4Discount:         req.Box4Discount,
	}
	if err := h.Planning.SetRow(date, teamIdx, rowIdx, patch); err != nil {
		writePlanningError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveRow deletes a row from a team.
func (h *Handler) RemoveRow(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	teamIdx, ok := pathIndex(w, r, "teamIdx")
	if !ok {
		return
	}
	rowIdx, ok := pathIndex(w, r, "rowIdx")
	if !ok {
		return
	}
	if err := h.Planning.RemoveRow(date, teamIdx, rowIdx); err != nil {
		writePlanningError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Commit validates and commits the day's draft, projecting staffed rows
// into the history ledger.
func (h *Handler) Commit(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	rows, err := h.Planning.CommitDraft(r.Context(), date)
	if err != nil {
		if planning.IsClientError(err) {
			writePlanningError(w, err)
			return
		}
		// Committed in memory, snapshot lagging.
		h.Log.Error().Err(err).Str("date", date).Msg("commit persisted state save failed")
		writeError(w, http.StatusInternalServerError, "Committed but snapshot save failed", err)
		return
	}
	h.Log.Info().Str("date", date).Int("rows", len(rows)).Msg("day committed")
	writeJSON(w, http.StatusOK, CommitResponse{DateISO: date, RowsProjected: len(rows)})
}

// =============================================================================
// HISTORY HANDLERS
// =============================================================================

// GetHistory returns a recruiter's ledger rows, optionally month-windowed.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	recruiterID := chi.URLParam(r, "recruiterId")
	var rows []ledger.HistoryRow
	if month := r.URL.Query().Get("month"); month != "" {
		rows = h.Ledger.RowsInMonth(recruiterID, month)
	} else {
		rows = h.Ledger.RowsFor(recruiterID)
	}
	dtos := make([]HistoryRowDTO, len(rows))
	for i, row := range rows {
		dtos[i] = historyRowDTO(row)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// WipeHistory empties the ledger and its snapshot. The explicit bulk wipe
// is the only delete path history has.
func (h *Handler) WipeHistory(w http.ResponseWriter, r *http.Request) {
	before := h.Ledger.Len()
	h.Ledger.Replace(nil)
	if h.Snapshot != nil {
		if err := h.Snapshot.WipeHistory(r.Context()); err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to wipe history snapshot", err)
			return
		}
	}
	h.Log.Warn().Int("rows", before).Msg("history ledger wiped")
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PAY HANDLERS
// =============================================================================

// GetPay computes wages and bonus for a recruiter and pay month.
func (h *Handler) GetPay(w http.ResponseWriter, r *http.Request) {
	recruiterID := chi.URLParam(r, "recruiterId")
	month := chi.URLParam(r, "month")

	rec, ok := h.Roster.Get(recruiterID)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown recruiter", nil)
		return
	}

	bands := h.Settings.Current().RateBands
	result, err := pay.ComputePay(rec, month, h.Ledger, bands)
	if err != nil && !pay.IsConfigError(err) {
		writeError(w, http.StatusBadRequest, "Invalid pay month (use YYYY-MM)", err)
		return
	}

	dto := PayDTO{
		RecruiterID: recruiterID,
		PayMonth:    month,
		WagesMonth:  result.WagesMonth,
		BonusMonth:  result.BonusMonth,
		Wages:       result.Wages.StringFixed(2),
		Bonus:       result.Bonus.StringFixed(2),
	}
	if err != nil {
		// Rate gap: affected rows counted as zero, figure still returned.
		dto.RateWarning = err.Error()
		h.Log.Warn().Err(err).Str("recruiter", recruiterID).Str("month", month).Msg("rate band gap during pay computation")
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// RECRUITER HANDLERS
// =============================================================================

func (h *Handler) ListRecruiters(w http.ResponseWriter, r *http.Request) {
	recs := h.Roster.List()
	dtos := make([]RecruiterDTO, len(recs))
	for i, rec := range recs {
		dtos[i] = recruiterDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateRecruiter(w http.ResponseWriter, r *http.Request) {
	var req PutRecruiterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required", nil)
		return
	}
	rec := h.Roster.Put(recruiterFromRequest("", req))
	if err := h.persistRecruiter(r, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recruiter", err)
		return
	}
	writeJSON(w, http.StatusCreated, recruiterDTO(rec))
}

func (h *Handler) UpdateRecruiter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.Roster.Get(id); !ok {
		writeError(w, http.StatusNotFound, "Unknown recruiter", nil)
		return
	}
	var req PutRecruiterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	rec := h.Roster.Put(recruiterFromRequest(id, req))
	if err := h.persistRecruiter(r, rec); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save recruiter", err)
		return
	}
	writeJSON(w, http.StatusOK, recruiterDTO(rec))
}

func recruiterFromRequest(id string, req PutRecruiterRequest) roster.Recruiter {
	return roster.Recruiter{
		ID:         id,
		Name:       req.Name,
		Role:       req.Role,
		IsInactive: req.IsInactive,
		Crewcode:   req.Crewcode,
		Mobile:     req.Mobile,
		Email:      req.Email,
		PhotoURL:   req.PhotoURL,
		Source:     req.Source,
	}
}

func (h *Handler) persistRecruiter(r *http.Request, rec roster.Recruiter) error {
	if h.Snapshot == nil {
		return nil
	}
	return h.Snapshot.SaveRecruiter(r.Context(), rec)
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	vals := h.Settings.Current()
	dto := SettingsDTO{Conversion: vals.Conversion}
	for _, b := range vals.RateBands {
		dto.RateBands = append(dto.RateBands, RateBandDTO{Start: b.StartISO, Rate: b.Rate.String()})
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) ReloadSettings(w http.ResponseWriter, r *http.Request) {
	if err := h.Settings.Load(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reload settings", err)
		return
	}
	h.Log.Info().Msg("settings reloaded")
	h.GetSettings(w, r)
}

// Health is the liveness probe.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func pathIndex(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	idx, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || idx < 0 {
		writeError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return idx, true
}

func writePlanningError(w http.ResponseWriter, err error) {
	var dup *planning.DuplicateAssignmentError
	if errors.As(err, &dup) {
		writeError(w, http.StatusConflict, "Recruiter already assigned this day", err)
		return
	}
	var box *planning.InvalidBoxTotalError
	if errors.As(err, &box) {
		writeError(w, http.StatusBadRequest, "Box totals exceed score", err)
		return
	}
	switch {
	case errors.Is(err, planning.ErrNoDraft), errors.Is(err, planning.ErrIndexOutOfRange):
		writeError(w, http.StatusNotFound, err.Error(), nil)
	case planning.IsClientError(err):
		writeError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		writeError(w, http.StatusInternalServerError, "Planning operation failed", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

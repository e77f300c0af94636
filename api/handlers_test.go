package api_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/api"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/planning"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/settings"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	snap, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { snap.Close() })

	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte(`
rate_bands:
  - start: "2025-01-01"
    rate: 16.0
`), 0o644))
	src, err := settings.NewSource(settingsPath)
	require.NoError(t, err)

	hist := ledger.New()
	crew := roster.New()
	plans := planning.NewStore(hist, crew, snap)

	handler := api.NewHandler(plans, hist, crew, src, snap, zerolog.Nop())
	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, out.Bytes()
}

func decode(t *testing.T, data []byte, into any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, into))
}

// =============================================================================
// END-TO-END: COMMIT -> LEDGER -> PAY
// =============================================================================

func TestEndToEnd_CommitFlowsIntoPay(t *testing.T) {
	// GIVEN: recruiter R, a rate band of 16 from 2025-01-01
	// WHEN: committing one August shift with 6 hours
	// THEN: the shift is retrievable from history and pay month 2025-09
	//       includes 6*16 = 96.00 in wages

	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/recruiters", api.PutRecruiterRequest{
		Name: "Anna", Role: roster.RoleRookie,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec api.RecruiterDTO
	decode(t, body, &rec)
	require.NotEmpty(t, rec.ID)

	day := srv.URL + "/api/planning/2025-08-04"

	resp, _ = doJSON(t, http.MethodPost, day+"/draft", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, day+"/draft/teams", api.AddTeamRequest{
		Zone: "Centrum", Project: "HelloFresh", ShiftType: planning.ShiftD2D,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, day+"/draft/teams/0/rows", nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	hours := 6.0
	score := 5
	boxes := 3
	resp, _ = doJSON(t, http.MethodPatch, day+"/draft/teams/0/rows/0", api.RowPatchRequest{
		RecruiterID:    &rec.ID,
		Hours:          &hours,
		Score:          &score,
		Box2NoDiscount: &boxes,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPost, day+"/commit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var commit api.CommitResponse
	decode(t, body, &commit)
	assert.Equal(t, 1, commit.RowsProjected)

	// History has the merged row
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/history/"+rec.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []api.HistoryRowDTO
	decode(t, body, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-08-04", rows[0].DateISO)
	assert.Equal(t, "Anna", rows[0].RecruiterName)

	// Pay month September: wages from August, bonus from July
	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/pay/"+rec.ID+"/2025-09", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var payDTO api.PayDTO
	decode(t, body, &payDTO)
	assert.Equal(t, "96.00", payDTO.Wages)
	assert.Equal(t, "0.00", payDTO.Bonus)
	assert.Equal(t, "2025-08", payDTO.WagesMonth)
	assert.Equal(t, "2025-07", payDTO.BonusMonth)
}

// =============================================================================
// ERROR MAPPING
// =============================================================================

func TestDoubleBooking_Returns409(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/recruiters", api.PutRecruiterRequest{Name: "Ben"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec api.RecruiterDTO
	decode(t, body, &rec)

	day := srv.URL + "/api/planning/2025-08-05"
	doJSON(t, http.MethodPost, day+"/draft", nil)
	doJSON(t, http.MethodPost, day+"/draft/teams", api.AddTeamRequest{Zone: "Centrum"})
	doJSON(t, http.MethodPost, day+"/draft/teams/0/rows", nil)
	doJSON(t, http.MethodPost, day+"/draft/teams/0/rows", nil)

	resp, _ = doJSON(t, http.MethodPatch, day+"/draft/teams/0/rows/0", api.RowPatchRequest{RecruiterID: &rec.ID})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, day+"/draft/teams/0/rows/1", api.RowPatchRequest{RecruiterID: &rec.ID})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestBoxTotalViolation_BlocksCommitWith400(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/recruiters", api.PutRecruiterRequest{Name: "Cleo"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec api.RecruiterDTO
	decode(t, body, &rec)

	day := srv.URL + "/api/planning/2025-08-06"
	doJSON(t, http.MethodPost, day+"/draft", nil)
	doJSON(t, http.MethodPost, day+"/draft/teams", api.AddTeamRequest{Zone: "Centrum"})
	doJSON(t, http.MethodPost, day+"/draft/teams/0/rows", nil)

	score := 2
	boxes := 3
	resp, _ = doJSON(t, http.MethodPatch, day+"/draft/teams/0/rows/0", api.RowPatchRequest{
		RecruiterID: &rec.ID, Score: &score, Box2NoDiscount: &boxes,
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, day+"/commit", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// The day stayed in draft; nothing was committed
	resp, _ = doJSON(t, http.MethodGet, day+"/", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDiscardDraft_CommittedUntouched(t *testing.T) {
	srv := newTestServer(t)

	day := srv.URL + "/api/planning/2025-08-07"
	doJSON(t, http.MethodPost, day+"/draft", nil)
	doJSON(t, http.MethodPost, day+"/draft/teams", api.AddTeamRequest{Zone: "Centrum"})

	resp, _ := doJSON(t, http.MethodDelete, day+"/draft", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, day+"/state", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var state api.DayStateDTO
	decode(t, body, &state)
	assert.Equal(t, "EMPTY", state.State)
}

func TestWipeHistory(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/recruiters", api.PutRecruiterRequest{Name: "Dana"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var rec api.RecruiterDTO
	decode(t, body, &rec)

	day := srv.URL + "/api/planning/2025-08-08"
	doJSON(t, http.MethodPost, day+"/draft", nil)
	doJSON(t, http.MethodPost, day+"/draft/teams", api.AddTeamRequest{Zone: "Centrum"})
	doJSON(t, http.MethodPost, day+"/draft/teams/0/rows", nil)
	doJSON(t, http.MethodPatch, day+"/draft/teams/0/rows/0", api.RowPatchRequest{RecruiterID: &rec.ID})
	resp, _ = doJSON(t, http.MethodPost, day+"/commit", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/history", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/history/"+rec.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rows []api.HistoryRowDTO
	decode(t, body, &rows)
	assert.Empty(t, rows)
}

func TestSettingsReload(t *testing.T) {
	srv := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/settings", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var dto api.SettingsDTO
	decode(t, body, &dto)
	require.Len(t, dto.RateBands, 1)
	assert.Equal(t, "2025-01-01", dto.RateBands[0].Start)
}

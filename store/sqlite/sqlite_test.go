package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoAdministrator/proago-recruitment-sub000/ledger"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/planning"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/roster"
	"github.com/JoaoAdministrator/proago-recruitment-sub000/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }

func TestDayPlan_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	plan := planning.DayPlan{Teams: []planning.Team{{
		Zone:       "Centrum",
		ExtraZones: []string{"Oost"},
		Project:    "HelloFresh",
		ShiftType:  planning.ShiftD2D,
		Rows: []planning.AssignmentRow{
			{RowKey: 0, RecruiterID: "R1", Hours: fptr(6)},
			{RowKey: 2},
		},
		NextRowKey: 3,
	}}}

	require.NoError(t, store.SaveDayPlan(ctx, "2025-W32", "2025-08-04", plan))

	weeks, err := store.LoadWeeks(ctx)
	require.NoError(t, err)
	got, ok := weeks["2025-W32"]["2025-08-04"]
	require.True(t, ok)
	assert.Equal(t, plan, got)
}

func TestDayPlan_SaveReplacesDocument(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := planning.DayPlan{Teams: []planning.Team{{Zone: "Centrum", ShiftType: planning.ShiftD2D}}}
	require.NoError(t, store.SaveDayPlan(ctx, "2025-W32", "2025-08-04", first))

	second := planning.DayPlan{Teams: []planning.Team{{Zone: "Noord", ShiftType: planning.ShiftEvent}}}
	require.NoError(t, store.SaveDayPlan(ctx, "2025-W32", "2025-08-04", second))

	weeks, err := store.LoadWeeks(ctx)
	require.NoError(t, err)
	require.Len(t, weeks["2025-W32"], 1)
	assert.Equal(t, "Noord", weeks["2025-W32"]["2025-08-04"].Teams[0].Zone)
}

func TestHistoryRows_UpsertOnCompositeKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	row := ledger.HistoryRow{
		RecruiterID: "R1", DateISO: "2025-08-04", RowKey: 0,
		RecruiterName: "Anna", Location: "Centrum",
		Hours: fptr(6), Score: iptr(5), Box2NoDiscount: iptr(3),
	}
	require.NoError(t, store.SaveHistoryRows(ctx, []ledger.HistoryRow{row}))

	row.Hours = fptr(8)
	require.NoError(t, store.SaveHistoryRows(ctx, []ledger.HistoryRow{row}))

	rows, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 8.0, *rows[0].Hours)
	assert.Equal(t, 3, *rows[0].Box2NoDiscount)
	assert.Nil(t, rows[0].Box2Discount)
}

func TestHistoryRows_Wipe(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveHistoryRows(ctx, []ledger.HistoryRow{
		{RecruiterID: "R1", DateISO: "2025-08-04", RowKey: 0},
		{RecruiterID: "R2", DateISO: "2025-08-04", RowKey: 0},
	}))
	require.NoError(t, store.WipeHistory(ctx))

	rows, err := store.LoadHistory(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRecruiters_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := roster.Recruiter{
		ID: "R1", Name: "Anna", Role: roster.RolePoolCaptain,
		IsInactive: true, Crewcode: "AC-12", Email: "anna@example.com",
	}
	require.NoError(t, store.SaveRecruiter(ctx, rec))

	rec.Role = roster.RoleSalesManager
	require.NoError(t, store.SaveRecruiter(ctx, rec))

	recs, err := store.LoadRecruiters(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, rec, recs[0])
}

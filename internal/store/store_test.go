package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstatus/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	logger := zerolog.Nop()
	s, err := New(filepath.Join(t.TempDir(), "labstatus.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func clock(t *testing.T, s string) model.ClockTime {
	t.Helper()
	c, err := model.ParseClock(s)
	require.NoError(t, err)
	return c
}

func bkkDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, model.Bangkok())
}

func TestExplicitOverrideRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := bkkDate(2026, time.January, 20)

	got, err := s.ExplicitOverride(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, got, "no override yet")

	exc := &model.HourException{
		Date:   date,
		Closed: false,
		Windows: []model.TimeRange{
			{Start: clock(t, "09:00"), End: clock(t, "12:00")},
			{Start: clock(t, "13:00"), End: clock(t, "15:00")},
		},
		Note: "reduced hours",
	}
	require.NoError(t, s.UpsertOverride(ctx, exc))

	got, err = s.ExplicitOverride(ctx, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, date, got.Date)
	assert.False(t, got.Closed)
	assert.Equal(t, "reduced hours", got.Note)
	assert.Equal(t, exc.Windows, got.Windows)
}

func TestUpsertOverrideReplacesWindows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := bkkDate(2026, time.January, 20)

	first := &model.HourException{
		Date:    date,
		Windows: []model.TimeRange{{Start: clock(t, "09:00"), End: clock(t, "12:00")}},
	}
	require.NoError(t, s.UpsertOverride(ctx, first))

	second := &model.HourException{Date: date, Closed: true, Note: "closed after all"}
	require.NoError(t, s.UpsertOverride(ctx, second))

	got, err := s.ExplicitOverride(ctx, date)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Closed)
	assert.Empty(t, got.Windows, "old windows must not survive the upsert")
	assert.Equal(t, "closed after all", got.Note)
}

func TestDeleteOverride(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	date := bkkDate(2026, time.January, 20)

	require.NoError(t, s.UpsertOverride(ctx, &model.HourException{Date: date, Closed: true}))
	require.NoError(t, s.DeleteOverride(ctx, date))

	got, err := s.ExplicitOverride(ctx, date)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting a nonexistent override is not an error.
	require.NoError(t, s.DeleteOverride(ctx, date))
}

func TestStandardHoursRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.StandardHours(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got, "fresh database has no hours")

	windows := []model.TimeRange{
		{Start: clock(t, "08:30"), End: clock(t, "12:00")},
		{Start: clock(t, "13:00"), End: clock(t, "16:00")},
	}
	require.NoError(t, s.ReplaceStandardHours(ctx, 0, windows))

	got, err = s.StandardHours(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, windows, got)

	// Other weekdays stay untouched.
	got, err = s.StandardHours(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Replacing with an empty set clears the weekday.
	require.NoError(t, s.ReplaceStandardHours(ctx, 0, nil))
	got, err = s.StandardHours(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.Error(t, s.ReplaceStandardHours(ctx, 7, windows))
	assert.Error(t, s.ReplaceStandardHours(ctx, -1, windows))
}

func TestAbsenceRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	got, err := s.CurrentAbsence(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AbsencePresent, got.Type, "bootstrap seeds a present record")

	from := bkkDate(2026, time.February, 1)
	to := bkkDate(2026, time.February, 14)
	require.NoError(t, s.SetAbsence(ctx, &model.AbsencePeriod{
		Type:        model.AbsenceVacation,
		DateFrom:    &from,
		DateTo:      &to,
		Description: "Winter break",
	}))

	got, err = s.CurrentAbsence(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AbsenceVacation, got.Type)
	require.NotNil(t, got.DateFrom)
	require.NotNil(t, got.DateTo)
	assert.Equal(t, from, *got.DateFrom)
	assert.Equal(t, to, *got.DateTo)
	assert.Equal(t, "Winter break", got.Description)

	require.NoError(t, s.ClearAbsence(ctx))
	got, err = s.CurrentAbsence(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.AbsencePresent, got.Type)
	assert.Nil(t, got.DateFrom)
	assert.Nil(t, got.DateTo)
}

func TestListOverrides(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	dates := []time.Time{
		bkkDate(2026, time.January, 5),
		bkkDate(2026, time.January, 20),
		bkkDate(2026, time.March, 1),
	}
	for _, d := range dates {
		require.NoError(t, s.UpsertOverride(ctx, &model.HourException{
			Date:    d,
			Windows: []model.TimeRange{{Start: clock(t, "09:00"), End: clock(t, "12:00")}},
		}))
	}

	got, err := s.ListOverrides(ctx, bkkDate(2026, time.January, 1), bkkDate(2026, time.January, 31))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, dates[0], got[0].Date)
	assert.Equal(t, dates[1], got[1].Date)
	assert.Len(t, got[0].Windows, 1)
}

func TestAllStandardHours(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	windows := []model.TimeRange{{Start: clock(t, "08:30"), End: clock(t, "12:00")}}
	require.NoError(t, s.ReplaceStandardHours(ctx, 0, windows))
	require.NoError(t, s.ReplaceStandardHours(ctx, 4, windows))

	hours, err := s.AllStandardHours(ctx)
	require.NoError(t, err)
	assert.Len(t, hours, 7)
	assert.Equal(t, windows, hours[0])
	assert.Equal(t, windows, hours[4])
	assert.Empty(t, hours[5])
}

package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"labstatus/internal/holiday"
	"labstatus/internal/model"
)

func TestCalendarWorkbook(t *testing.T) {
	overrides := []model.HourException{
		{
			Date:    time.Date(2026, time.January, 20, 0, 0, 0, 0, model.Bangkok()),
			Windows: []model.TimeRange{{Start: 9 * 60, End: 12 * 60}},
			Note:    "short day",
		},
		{
			Date:   time.Date(2026, time.March, 2, 0, 0, 0, 0, model.Bangkok()),
			Closed: true,
			Note:   "renovation",
		},
	}
	hours := map[int][]model.TimeRange{
		0: {{Start: 8*60 + 30, End: 12 * 60}, {Start: 13 * 60, End: 16 * 60}},
	}

	var buf bytes.Buffer
	require.NoError(t, CalendarWorkbook(&buf, 2026, holiday.ForYear(2026), overrides, hours))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Holidays 2026", "Overrides", "Weekly hours"}, f.GetSheetList())

	// Holiday sheet: header plus one row per holiday, sorted by date.
	got, err := f.GetCellValue("Holidays 2026", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", got)
	got, err = f.GetCellValue("Holidays 2026", "A2")
	require.NoError(t, err)
	assert.Equal(t, "2026-01-01", got)
	got, err = f.GetCellValue("Holidays 2026", "B2")
	require.NoError(t, err)
	assert.Equal(t, "New Year's Day", got)

	rows, err := f.GetRows("Holidays 2026")
	require.NoError(t, err)
	assert.Len(t, rows, 1+len(holiday.ForYear(2026)))

	// Override sheet carries formatted windows.
	got, err = f.GetCellValue("Overrides", "C2")
	require.NoError(t, err)
	assert.Equal(t, "09:00-12:00", got)

	// Weekly sheet: Monday has hours, the rest read "closed".
	got, err = f.GetCellValue("Weekly hours", "B2")
	require.NoError(t, err)
	assert.Equal(t, "08:30-12:00, 13:00-16:00", got)
	got, err = f.GetCellValue("Weekly hours", "B3")
	require.NoError(t, err)
	assert.Equal(t, "closed", got)
}

func TestCalendarWorkbookEmptyState(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CalendarWorkbook(&buf, 2026, nil, nil, nil))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Overrides")
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")

	rows, err = f.GetRows("Weekly hours")
	require.NoError(t, err)
	assert.Len(t, rows, 8, "header plus all seven weekdays")
}

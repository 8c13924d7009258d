package holiday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstatus/internal/model"
)

func bkk(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, model.Bangkok())
}

func findByName(t *testing.T, hs []model.Holiday, en string) model.Holiday {
	t.Helper()
	for _, h := range hs {
		if h.Names.EN == en {
			return h
		}
	}
	t.Fatalf("holiday %q not found", en)
	return model.Holiday{}
}

func TestForYearCountAndOrder(t *testing.T) {
	hs := ForYear(2026)
	assert.Len(t, hs, 19)

	for i := 1; i < len(hs); i++ {
		assert.False(t, hs[i].Date.Before(hs[i-1].Date), "holidays must be sorted by date")
	}
	for _, h := range hs {
		assert.Equal(t, 2026, h.Date.Year())
		assert.NotEmpty(t, h.Names.EN)
		assert.NotEmpty(t, h.Names.TH)
		assert.NotEmpty(t, h.Names.DE)
	}
}

func TestForYearFixedDates(t *testing.T) {
	hs := ForYear(2026)

	assert.Equal(t, bkk(2026, time.January, 1), findByName(t, hs, "New Year's Day").Date)
	assert.Equal(t, bkk(2026, time.April, 13), findByName(t, hs, "Songkran Festival").Date)
	assert.Equal(t, bkk(2026, time.December, 10), findByName(t, hs, "Constitution Day").Date)
	assert.Equal(t, bkk(2026, time.December, 31), findByName(t, hs, "New Year's Eve").Date)
}

func TestForYearLunisolarFromTable(t *testing.T) {
	hs := ForYear(2026)

	makha := findByName(t, hs, "Makha Bucha Day")
	assert.Equal(t, bkk(2026, time.March, 3), makha.Date)
	assert.False(t, makha.Approximate)

	visakha := findByName(t, hs, "Visakha Bucha Day")
	assert.Equal(t, bkk(2026, time.May, 31), visakha.Date)
	assert.False(t, visakha.Approximate)

	asanha := findByName(t, hs, "Asanha Bucha Day")
	assert.Equal(t, bkk(2026, time.July, 29), asanha.Date)

	// Buddhist Lent always begins the day after Asanha Bucha.
	lent := findByName(t, hs, "Buddhist Lent Day")
	assert.Equal(t, asanha.Date.AddDate(0, 0, 1), lent.Date)
	assert.Equal(t, lent.Approximate, asanha.Approximate)
}

func TestForYearLunisolarFallbackOutsideTable(t *testing.T) {
	hs := ForYear(2035)

	makha := findByName(t, hs, "Makha Bucha Day")
	assert.Equal(t, bkk(2035, time.February, 15), makha.Date)
	assert.True(t, makha.Approximate)

	visakha := findByName(t, hs, "Visakha Bucha Day")
	assert.Equal(t, bkk(2035, time.May, 15), visakha.Date)
	assert.True(t, visakha.Approximate)

	asanha := findByName(t, hs, "Asanha Bucha Day")
	assert.Equal(t, bkk(2035, time.July, 20), asanha.Date)
	assert.True(t, asanha.Approximate)

	lent := findByName(t, hs, "Buddhist Lent Day")
	assert.Equal(t, bkk(2035, time.July, 21), lent.Date)
	assert.True(t, lent.Approximate)

	// Fixed-date holidays stay exact regardless of the year.
	assert.False(t, findByName(t, hs, "New Year's Day").Approximate)
}

func TestChineseNewYearIsDisplayOnly(t *testing.T) {
	cny := findByName(t, ForYear(2026), "Chinese New Year")
	assert.Equal(t, bkk(2026, time.February, 17), cny.Date)
	assert.False(t, cny.AffectsBusiness)
	assert.Equal(t, model.HolidayLocalEvent, cny.Type)
}

func TestSongkranSpansThreeDays(t *testing.T) {
	var days []time.Time
	for _, h := range ForYear(2026) {
		if h.Names.EN == "Songkran Festival" {
			days = append(days, h.Date)
		}
	}
	require.Len(t, days, 3)
	assert.Equal(t, bkk(2026, time.April, 13), days[0])
	assert.Equal(t, bkk(2026, time.April, 14), days[1])
	assert.Equal(t, bkk(2026, time.April, 15), days[2])
}

func TestOn(t *testing.T) {
	h := On(bkk(2026, time.December, 10))
	require.NotNil(t, h)
	assert.Equal(t, "Constitution Day", h.Names.EN)
	assert.True(t, h.AffectsBusiness)

	// Display-only holidays are still returned; closure logic filters them.
	cny := On(bkk(2026, time.February, 17))
	require.NotNil(t, cny)
	assert.False(t, cny.AffectsBusiness)

	assert.Nil(t, On(bkk(2026, time.January, 16)))

	// A UTC instant resolves against its Bangkok calendar date.
	utcEve := time.Date(2025, time.December, 31, 20, 0, 0, 0, time.UTC) // Jan 1 BKK
	ny := On(utcEve)
	require.NotNil(t, ny)
	assert.Equal(t, "New Year's Day", ny.Names.EN)
	assert.Equal(t, 2026, ny.Date.Year())
}

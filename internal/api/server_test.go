package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labstatus/internal/engine"
	"labstatus/internal/i18n"
	"labstatus/internal/model"
	"labstatus/internal/store"
)

const testAPIKey = "test-admin-key"

// 2026-01-16 is a Friday with no Thai holiday.
var testNow = time.Date(2026, time.January, 16, 14, 30, 0, 0, model.Bangkok())

func newTestServer(t *testing.T, opts Options) (*HTTPServer, *store.Store) {
	t.Helper()
	logger := zerolog.Nop()

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	eng := engine.New(st, i18n.NewCatalog(), &logger, engine.Options{
		Now: func() time.Time { return testNow },
	})
	return NewHTTPServer(eng, st, nil, time.Minute, &logger, opts), st
}

func seedWeekdayHours(t *testing.T, st *store.Store) {
	t.Helper()
	windows := []model.TimeRange{
		{Start: 8*60 + 30, End: 12 * 60},
		{Start: 13 * 60, End: 16 * 60},
	}
	for wd := 0; wd < 5; wd++ {
		require.NoError(t, st.ReplaceStandardHours(context.Background(), wd, windows))
	}
}

func doRequest(srv *HTTPServer, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleToday(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	seedWeekdayHours(t, st)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/today", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var ts engine.TodayStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ts))
	assert.True(t, ts.IsOpenNow)
	require.NotNil(t, ts.ClosesAt)
	assert.Equal(t, "16:00", ts.ClosesAt.String())
}

func TestHandleTodayMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rec := doRequest(srv, httptest.NewRequest(http.MethodPost, "/api/v1/status/today", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleTodayUpstreamFailure(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	require.NoError(t, st.Close())

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/today", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "temporarily unavailable")
}

func TestHandleNextOpening(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	seedWeekdayHours(t, st)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/next-opening?exclude_today=true", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NextOpening *engine.NextOpening `json:"next_opening"`
		HorizonDays int                 `json:"horizon_days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 14, body.HorizonDays)
	require.NotNil(t, body.NextOpening)
	assert.Equal(t, 3, body.NextOpening.DaysUntil, "Friday skips the weekend to Monday")
}

func TestHandleNextOpeningNilIsValid(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	// No hours seeded at all: the horizon is exhausted.
	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/next-opening", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		NextOpening *engine.NextOpening `json:"next_opening"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Nil(t, body.NextOpening)
}

func TestHandleMessageLanguages(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	seedWeekdayHours(t, st)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/message?lang=de", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wir haben bis 16:00 geöffnet.")

	// Unsupported languages fall back to the default.
	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/message?lang=xx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "We are open until 16:00.")
}

func TestHandleMessageDegradesTo503(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	require.NoError(t, st.Close())

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/message", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var msg struct {
		StatusType  string `json:"status_type"`
		MainMessage string `json:"main_message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "unknown", msg.StatusType)
	assert.Contains(t, msg.MainMessage, "contact the laboratory")
}

func TestHandleExplanation(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	seedWeekdayHours(t, st)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/explanation?lang=en", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "en", body["lang"])
	assert.Equal(t, "We are open today as usual.", body["explanation"])
}

func TestHandleForecast(t *testing.T) {
	srv, st := newTestServer(t, Options{})
	seedWeekdayHours(t, st)

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/forecast?days=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Days []model.DayDescriptor `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Days, 3)
	assert.False(t, body.Days[0].Closed) // Friday
	assert.True(t, body.Days[1].Closed)  // Saturday

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/forecast?days=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/status/forecast?days=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHolidays(t *testing.T) {
	srv, _ := newTestServer(t, Options{})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=2026", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Year     int             `json:"year"`
		Holidays []model.Holiday `json:"holidays"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 2026, body.Year)
	assert.Len(t, body.Holidays, 19)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=1800", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateLimit(t *testing.T) {
	srv, _ := newTestServer(t, Options{RateLimitRPS: 1, RateLimitBurst: 1})

	rec := doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=2026", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(srv, httptest.NewRequest(http.MethodGet, "/api/v1/holidays?year=2026", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"labstatus/internal/engine"
	"labstatus/internal/holiday"
	"labstatus/internal/message"
	"labstatus/internal/metrics"
	"labstatus/internal/model"
)

const defaultForecastDays = 7

// handleToday returns the evaluated opening state for the current instant.
// GET /api/v1/status/today
func (s *HTTPServer) handleToday(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status_today")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ts, err := s.engine.TodayStatus(r.Context())
	if err != nil {
		s.statusUnavailable(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ts)
}

// handleNextOpening returns the next known opening within the horizon.
// GET /api/v1/status/next-opening?exclude_today=true
func (s *HTTPServer) handleNextOpening(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status_next_opening")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	excludeToday := r.URL.Query().Get("exclude_today") == "true"
	next, err := s.engine.NextOpening(r.Context(), excludeToday)
	if err != nil {
		s.statusUnavailable(w, r, err)
		return
	}

	// next == nil means the horizon was exhausted; that is a valid answer.
	writeJSON(w, http.StatusOK, map[string]any{
		"next_opening": next,
		"horizon_days": s.engine.Horizon(),
	})
}

// handleMessage returns the rendered status summary for one language.
// GET /api/v1/status/message?lang=de
func (s *HTTPServer) handleMessage(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status_message")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	lang := s.lang(r)
	cacheKey := "status:message:" + lang

	var cached message.StatusMessage
	if s.cache.read(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	msg, err := s.engine.SmartStatusMessage(r.Context(), lang)
	if err != nil {
		// The engine already degraded to the "unknown" rendering.
		s.logUpstream(r, err)
		writeJSON(w, http.StatusServiceUnavailable, msg)
		return
	}

	s.cache.write(r.Context(), cacheKey, msg)
	writeJSON(w, http.StatusOK, msg)
}

// handleExplanation returns the "why closed today" line.
// GET /api/v1/status/explanation?lang=th
func (s *HTTPServer) handleExplanation(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status_explanation")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	lang := s.lang(r)
	text, err := s.engine.ClosureExplanation(r.Context(), lang)
	status := http.StatusOK
	if err != nil {
		s.logUpstream(r, err)
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"lang": lang, "explanation": text})
}

// handleForecast returns day descriptors for the coming days.
// GET /api/v1/status/forecast?days=7
func (s *HTTPServer) handleForecast(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("status_forecast")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	days := defaultForecastDays
	if dstr := r.URL.Query().Get("days"); dstr != "" {
		parsed, err := strconv.Atoi(dstr)
		if err != nil || parsed < 1 {
			writeError(w, http.StatusBadRequest, "invalid days parameter")
			return
		}
		days = parsed
	}

	cacheKey := fmt.Sprintf("status:forecast:%d", days)
	var cached []model.DayDescriptor
	if s.cache.read(r.Context(), cacheKey, &cached) {
		writeJSON(w, http.StatusOK, map[string]any{"days": cached})
		return
	}

	forecast, err := s.engine.ExtendedForecast(r.Context(), days)
	if err != nil {
		s.statusUnavailable(w, r, err)
		return
	}

	s.cache.write(r.Context(), cacheKey, forecast)
	writeJSON(w, http.StatusOK, map[string]any{"days": forecast})
}

// handleHolidays returns the full Thai holiday list for a year.
// GET /api/v1/holidays?year=2026
func (s *HTTPServer) handleHolidays(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("holidays")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	year := model.DateOf(time.Now()).Year()
	if ystr := r.URL.Query().Get("year"); ystr != "" {
		parsed, err := strconv.Atoi(ystr)
		if err != nil || parsed < 1900 || parsed > 2200 {
			writeError(w, http.StatusBadRequest, "invalid year parameter")
			return
		}
		year = parsed
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":     year,
		"holidays": holiday.ForYear(year),
	})
}

func (s *HTTPServer) statusUnavailable(w http.ResponseWriter, r *http.Request, err error) {
	s.logUpstream(r, err)
	if errors.Is(err, engine.ErrUpstreamUnavailable) {
		writeError(w, http.StatusServiceUnavailable, "status temporarily unavailable, please check with the laboratory directly")
		return
	}
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *HTTPServer) logUpstream(r *http.Request, err error) {
	s.logger.Error().Err(err).Str("path", r.URL.Path).Msg("status computation failed")
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"labstatus/internal/export"
	"labstatus/internal/holiday"
	"labstatus/internal/metrics"
	"labstatus/internal/model"
)

// OverrideRequest is the body for PUT /api/v1/admin/override.
type OverrideRequest struct {
	Date    string            `json:"date"` // Format: YYYY-MM-DD
	Closed  bool              `json:"closed"`
	Windows []model.TimeRange `json:"windows,omitempty"`
	Note    string            `json:"note,omitempty"`
}

// HoursRequest is the body for PUT /api/v1/admin/hours.
type HoursRequest struct {
	Weekday int               `json:"weekday"` // 0 = Monday
	Windows []model.TimeRange `json:"windows"`
}

// AbsenceRequest is the body for PUT /api/v1/admin/absence.
type AbsenceRequest struct {
	Type        string `json:"type"`
	DateFrom    string `json:"date_from,omitempty"` // Format: YYYY-MM-DD
	DateTo      string `json:"date_to,omitempty"`
	Description string `json:"description,omitempty"`
}

// handleAdminOverride manages the explicit day override for one date.
// PUT/DELETE /api/v1/admin/override
func (s *HTTPServer) handleAdminOverride(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_override")

	switch r.Method {
	case http.MethodPut:
		var req OverrideRequest
		if !decodeBody(w, r, &req) {
			return
		}
		date, err := parseDateParam(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := validateWindows(req.Closed, req.Windows); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		exc := &model.HourException{
			Date:    date,
			Closed:  req.Closed,
			Windows: req.Windows,
			Note:    req.Note,
		}
		if err := s.store.UpsertOverride(r.Context(), exc); err != nil {
			s.logger.Error().Err(err).Msg("upsert override failed")
			writeError(w, http.StatusInternalServerError, "could not save override")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case http.MethodDelete:
		date, err := parseDateParam(r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err := s.store.DeleteOverride(r.Context(), date); err != nil {
			s.logger.Error().Err(err).Msg("delete override failed")
			writeError(w, http.StatusInternalServerError, "could not delete override")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleAdminHours replaces the standard hours for one weekday.
// PUT /api/v1/admin/hours
func (s *HTTPServer) handleAdminHours(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_hours")
	if r.Method != http.MethodPut {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req HoursRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Weekday < 0 || req.Weekday > 6 {
		writeError(w, http.StatusBadRequest, "weekday must be 0 (Monday) to 6 (Sunday)")
		return
	}
	if err := validateWindows(len(req.Windows) == 0, req.Windows); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.ReplaceStandardHours(r.Context(), req.Weekday, req.Windows); err != nil {
		s.logger.Error().Err(err).Msg("replace standard hours failed")
		writeError(w, http.StatusInternalServerError, "could not save hours")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// handleAdminAbsence sets or clears the current absence.
// PUT/DELETE /api/v1/admin/absence
func (s *HTTPServer) handleAdminAbsence(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_absence")

	switch r.Method {
	case http.MethodPut:
		var req AbsenceRequest
		if !decodeBody(w, r, &req) {
			return
		}

		absence := &model.AbsencePeriod{
			Type:        model.AbsenceType(req.Type),
			Description: req.Description,
		}
		switch absence.Type {
		case model.AbsencePresent, model.AbsenceVacation, model.AbsenceEducation,
			model.AbsenceConference, model.AbsenceOther:
		default:
			writeError(w, http.StatusBadRequest, "unknown absence type")
			return
		}
		if req.DateFrom != "" {
			from, err := parseDateParam(req.DateFrom)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			absence.DateFrom = &from
		}
		if req.DateTo != "" {
			to, err := parseDateParam(req.DateTo)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			absence.DateTo = &to
		}
		if absence.DateFrom != nil && absence.DateTo != nil && absence.DateTo.Before(*absence.DateFrom) {
			writeError(w, http.StatusBadRequest, "date_to must not precede date_from")
			return
		}

		if err := s.store.SetAbsence(r.Context(), absence); err != nil {
			s.logger.Error().Err(err).Msg("set absence failed")
			writeError(w, http.StatusInternalServerError, "could not save absence")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	case http.MethodDelete:
		if err := s.store.ClearAbsence(r.Context()); err != nil {
			s.logger.Error().Err(err).Msg("clear absence failed")
			writeError(w, http.StatusInternalServerError, "could not clear absence")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExportCalendar streams the year's calendar workbook.
// GET /api/v1/admin/export/calendar?year=2026
func (s *HTTPServer) handleExportCalendar(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("admin_export_calendar")
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

	loc := model.Bangkok()
	from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
	to := time.Date(year, time.December, 31, 0, 0, 0, 0, loc)

	overrides, err := s.store.ListOverrides(r.Context(), from, to)
	if err != nil {
		s.logger.Error().Err(err).Msg("list overrides failed")
		writeError(w, http.StatusInternalServerError, "could not export calendar")
		return
	}
	hours, err := s.store.AllStandardHours(r.Context())
	if err != nil {
		s.logger.Error().Err(err).Msg("load standard hours failed")
		writeError(w, http.StatusInternalServerError, "could not export calendar")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=lab-calendar-%d.xlsx", year))
	if err := export.CalendarWorkbook(w, year, holiday.ForYear(year), overrides, hours); err != nil {
		s.logger.Error().Err(err).Msg("write calendar workbook failed")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func parseDateParam(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	date, err := time.ParseInLocation("2006-01-02", s, model.Bangkok())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format; expected YYYY-MM-DD")
	}
	return date, nil
}

func validateWindows(closed bool, windows []model.TimeRange) error {
	if !closed && len(windows) == 0 {
		return fmt.Errorf("an open day needs at least one window")
	}
	for _, w := range windows {
		if !w.Valid() {
			return fmt.Errorf("invalid window %s: start must be before end", w)
		}
	}
	return nil
}

package model

import "time"

// Bangkok is the civil time zone used for every date and clock comparison
// in the engine. Thailand observes no DST, so a fixed offset is exact.
var bangkok = time.FixedZone("Asia/Bangkok", 7*60*60)

// Bangkok returns the laboratory's time zone (UTC+7, no DST).
func Bangkok() *time.Location {
	return bangkok
}

// DateOf truncates an instant to midnight of its calendar date in Bangkok.
func DateOf(t time.Time) time.Time {
	local := t.In(bangkok)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, bangkok)
}

// SameDate reports whether two instants fall on the same Bangkok calendar date.
func SameDate(a, b time.Time) bool {
	al, bl := a.In(bangkok), b.In(bangkok)
	return al.Year() == bl.Year() && al.Month() == bl.Month() && al.Day() == bl.Day()
}

// WeekdayIndex maps an instant to the 0=Monday .. 6=Sunday weekday index.
func WeekdayIndex(t time.Time) int {
	return (int(t.In(bangkok).Weekday()) + 6) % 7
}

// DaySource identifies which rule produced a day descriptor.
type DaySource string

const (
	SourceExplicit    DaySource = "explicit"
	SourceThaiHoliday DaySource = "thai_holiday"
	SourceStandard    DaySource = "standard"
	SourceAbsence     DaySource = "absence"
)

// ClosureReason explains why the laboratory is closed.
type ClosureReason string

const (
	ReasonNone       ClosureReason = ""
	ReasonVacation   ClosureReason = "vacation"
	ReasonEducation  ClosureReason = "education"
	ReasonConference ClosureReason = "conference"
	ReasonOther      ClosureReason = "other"
	ReasonHoliday    ClosureReason = "holiday"
	ReasonWeekend    ClosureReason = "weekend"
	ReasonException  ClosureReason = "exception"
	ReasonNotOpenYet ClosureReason = "not_open_yet"
)

// AbsenceType classifies the singleton current-absence record.
type AbsenceType string

const (
	AbsencePresent    AbsenceType = "present"
	AbsenceVacation   AbsenceType = "vacation"
	AbsenceEducation  AbsenceType = "education"
	AbsenceConference AbsenceType = "conference"
	AbsenceOther      AbsenceType = "other"
)

// ClosureReason maps the absence type to its closure reason.
func (t AbsenceType) ClosureReason() ClosureReason {
	switch t {
	case AbsenceVacation:
		return ReasonVacation
	case AbsenceEducation:
		return ReasonEducation
	case AbsenceConference:
		return ReasonConference
	case AbsenceOther:
		return ReasonOther
	}
	return ReasonNone
}

// AbsencePeriod is the admin-declared continuous absence. DateFrom/DateTo
// are nil when the admin never set them; such a record covers no date.
type AbsencePeriod struct {
	Type        AbsenceType `json:"type"`
	DateFrom    *time.Time  `json:"date_from,omitempty"`
	DateTo      *time.Time  `json:"date_to,omitempty"`
	Description string      `json:"description,omitempty"`
}

// Covers reports whether the absence governs the given date. An absence of
// type present, or one with a missing boundary, covers nothing.
func (a *AbsencePeriod) Covers(date time.Time) bool {
	if a == nil || a.Type == AbsencePresent || a.Type == "" {
		return false
	}
	if a.DateFrom == nil || a.DateTo == nil {
		return false
	}
	d := DateOf(date)
	return !d.Before(DateOf(*a.DateFrom)) && !d.After(DateOf(*a.DateTo))
}

// HourException is an explicit admin-entered override for a single date.
// Recurring fields are persisted but resolution treats every exception as
// single-date; recurrences are materialized upstream if at all.
type HourException struct {
	Date             time.Time   `json:"date"`
	Closed           bool        `json:"closed"`
	Windows          []TimeRange `json:"windows,omitempty"`
	Note             string      `json:"note,omitempty"`
	Recurring        bool        `json:"recurring,omitempty"`
	RecurringPattern string      `json:"recurring_pattern,omitempty"`
	RecurringEnd     *time.Time  `json:"recurring_end,omitempty"`
}

// HolidayType classifies Thai holidays.
type HolidayType string

const (
	HolidayNational   HolidayType = "national"
	HolidayRoyal      HolidayType = "royal"
	HolidayBuddhist   HolidayType = "buddhist"
	HolidayLocalEvent HolidayType = "local_event"
)

// LocalizedText holds a phrase in the three portal languages.
type LocalizedText struct {
	TH string `json:"th"`
	DE string `json:"de"`
	EN string `json:"en"`
}

// For returns the text for a language, falling back to English.
func (l LocalizedText) For(lang string) string {
	switch lang {
	case "th":
		if l.TH != "" {
			return l.TH
		}
	case "de":
		if l.DE != "" {
			return l.DE
		}
	}
	return l.EN
}

// Holiday is a computed Thai holiday for one calendar year.
type Holiday struct {
	Names           LocalizedText `json:"names"`
	Date            time.Time     `json:"date"`
	Type            HolidayType   `json:"type"`
	AffectsBusiness bool          `json:"affects_business"`
	Description     LocalizedText `json:"description"`
	// Approximate marks lunisolar dates resolved through the fixed
	// fallback rule for years outside the lookup table.
	Approximate bool `json:"approximate,omitempty"`
}

// DayDescriptor is the normalized result of resolving a date's effective
// opening status. It is computed fresh per query and never mutated.
type DayDescriptor struct {
	Date          time.Time     `json:"date"`
	Closed        bool          `json:"closed"`
	Windows       []TimeRange   `json:"windows"`
	Note          string        `json:"note,omitempty"`
	Source        DaySource     `json:"source"`
	ClosureReason ClosureReason `json:"closure_reason,omitempty"`
	Holiday       *Holiday      `json:"holiday,omitempty"`
}

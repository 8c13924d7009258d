package engine

import (
	"context"
	"sort"
	"time"

	"labstatus/internal/holiday"
	"labstatus/internal/model"
)

// DayDescriptor resolves what a Bangkok calendar date looks like. This is
// the single place the precedence order is encoded: absence beats explicit
// override beats Thai holiday beats standard weekly hours. Every other
// computation goes through here.
func (e *Engine) DayDescriptor(ctx context.Context, date time.Time) (model.DayDescriptor, error) {
	absence, err := e.currentAbsence(ctx)
	if err != nil {
		return model.DayDescriptor{}, err
	}
	return e.dayFromSources(ctx, date, absence)
}

// dayFromSources is DayDescriptor with the absence record already fetched,
// so bounded scans read it once instead of once per candidate date.
func (e *Engine) dayFromSources(ctx context.Context, date time.Time, absence *model.AbsencePeriod) (model.DayDescriptor, error) {
	date = model.DateOf(date)

	if absence.Covers(date) {
		return absenceDay(date, absence), nil
	}

	desc, ok, err := e.resolveException(ctx, date)
	if err != nil {
		return model.DayDescriptor{}, err
	}
	if ok {
		return desc, nil
	}

	return e.standardDay(ctx, date)
}

func (e *Engine) currentAbsence(ctx context.Context) (*model.AbsencePeriod, error) {
	absence, err := e.store.CurrentAbsence(ctx)
	if err != nil {
		return nil, e.upstream("current absence", err)
	}
	return absence, nil
}

func absenceDay(date time.Time, absence *model.AbsencePeriod) model.DayDescriptor {
	note := absence.Description
	if note != "" && absence.DateFrom != nil && absence.DateTo != nil {
		note = note + " (" + absence.DateFrom.Format("2006-01-02") + " – " + absence.DateTo.Format("2006-01-02") + ")"
	}
	return model.DayDescriptor{
		Date:          date,
		Closed:        true,
		Note:          note,
		Source:        model.SourceAbsence,
		ClosureReason: absence.Type.ClosureReason(),
	}
}

// resolveException checks the explicit override first, then the Thai holiday
// calendar. The second return value distinguishes "no exception" from an
// exception that happens to say "open".
func (e *Engine) resolveException(ctx context.Context, date time.Time) (model.DayDescriptor, bool, error) {
	exc, err := e.store.ExplicitOverride(ctx, date)
	if err != nil {
		return model.DayDescriptor{}, false, e.upstream("explicit override", err)
	}
	if exc != nil {
		return e.overrideDay(date, exc), true, nil
	}

	if h := holiday.On(date); h != nil && h.AffectsBusiness {
		return model.DayDescriptor{
			Date:          date,
			Closed:        true,
			Source:        model.SourceThaiHoliday,
			ClosureReason: model.ReasonHoliday,
			Holiday:       h,
		}, true, nil
	}

	return model.DayDescriptor{}, false, nil
}

func (e *Engine) overrideDay(date time.Time, exc *model.HourException) model.DayDescriptor {
	desc := model.DayDescriptor{
		Date:   date,
		Note:   exc.Note,
		Source: model.SourceExplicit,
	}

	windows := e.sanitizeWindows(date, exc.Windows)
	// An "open" override with no usable windows is treated as closed;
	// window validation belongs to the admin layer, not this engine.
	if exc.Closed || len(windows) == 0 {
		desc.Closed = true
		desc.ClosureReason = closedReason(date, exc.Note)
		return desc
	}

	desc.Windows = windows
	return desc
}

func (e *Engine) standardDay(ctx context.Context, date time.Time) (model.DayDescriptor, error) {
	ranges, err := e.store.StandardHours(ctx, model.WeekdayIndex(date))
	if err != nil {
		return model.DayDescriptor{}, e.upstream("standard hours", err)
	}

	desc := model.DayDescriptor{
		Date:    date,
		Source:  model.SourceStandard,
		Windows: e.sanitizeWindows(date, ranges),
	}
	if len(desc.Windows) == 0 {
		desc.Closed = true
		desc.Windows = nil
		desc.ClosureReason = closedReason(date, "")
	}
	return desc, nil
}

// sanitizeWindows drops malformed ranges (start >= end) and returns the
// survivors in chronological order.
func (e *Engine) sanitizeWindows(date time.Time, ranges []model.TimeRange) []model.TimeRange {
	var windows []model.TimeRange
	for _, r := range ranges {
		if !r.Valid() {
			e.logger.Warn().
				Str("date", date.Format("2006-01-02")).
				Str("window", r.String()).
				Msg("dropping malformed time window")
			continue
		}
		windows = append(windows, r)
	}
	sort.Slice(windows, func(i, j int) bool { return windows[i].Start < windows[j].Start })
	return windows
}

// closedReason guesses weekend vs exception for a closed day without a note.
// The weekday >= 5 guess is a known heuristic carried over from the original
// behavior; a Saturday closed for an unrelated, un-noted reason is still
// labeled as weekend.
func closedReason(date time.Time, note string) model.ClosureReason {
	if note != "" {
		return model.ReasonException
	}
	if model.WeekdayIndex(date) >= 5 {
		return model.ReasonWeekend
	}
	return model.ReasonException
}

package engine

import (
	"context"
	"time"

	"labstatus/internal/metrics"
	"labstatus/internal/model"
)

// NextOpening points at the next date and time with at least one open
// window. A nil NextOpening means no opening exists within the lookahead
// horizon; that is an expected outcome, not an error.
type NextOpening struct {
	Date       time.Time         `json:"date"`
	Time       model.ClockTime   `json:"time"`
	Windows    []model.TimeRange `json:"windows"`
	DaysUntil  int               `json:"days_until"`
	IsToday    bool              `json:"is_today"`
	IsTomorrow bool              `json:"is_tomorrow"`
}

// NextOpening finds the next opening, today included unless excludeToday is
// set. The forward scan is capped at the engine's horizon; days covered by
// an absence are skipped without resolving their descriptors.
func (e *Engine) NextOpening(ctx context.Context, excludeToday bool) (*NextOpening, error) {
	now := e.localNow()
	key := cacheKey{kind: "next_opening", excludeToday: excludeToday, minute: minuteBucket(now)}

	if v, ok := e.cache.get(now, key); ok {
		metrics.IncCache("next_opening", "hit")
		return v.(*NextOpening), nil
	}
	metrics.IncCache("next_opening", "miss")

	result, err := e.findNextOpening(ctx, now, excludeToday)
	if err != nil {
		return nil, err
	}

	e.cache.put(now, key, result)
	return result, nil
}

func (e *Engine) findNextOpening(ctx context.Context, now time.Time, excludeToday bool) (*NextOpening, error) {
	if !excludeToday {
		ts, err := e.TodayStatus(ctx)
		if err != nil {
			return nil, err
		}
		if ts.NextSlotTime != nil {
			return &NextOpening{
				Date:      model.DateOf(now),
				Time:      *ts.NextSlotTime,
				Windows:   upcomingWindows(ts),
				DaysUntil: 0,
				IsToday:   true,
			}, nil
		}
	}

	absence, err := e.currentAbsence(ctx)
	if err != nil {
		return nil, err
	}

	today := model.DateOf(now)
	for d := 1; d <= e.horizon; d++ {
		date := today.AddDate(0, 0, d)
		if absence.Covers(date) {
			continue
		}
		desc, err := e.dayFromSources(ctx, date, absence)
		if err != nil {
			return nil, err
		}
		if desc.Closed || len(desc.Windows) == 0 {
			continue
		}
		return &NextOpening{
			Date:       date,
			Time:       desc.Windows[0].Start,
			Windows:    desc.Windows,
			DaysUntil:  d,
			IsTomorrow: d == 1,
		}, nil
	}

	// Horizon exhausted; the bound is deliberate.
	return nil, nil
}

// upcomingWindows strips the truncated currently-open window so the answer
// starts at the reported next slot.
func upcomingWindows(ts TodayStatus) []model.TimeRange {
	if ts.NextSlotTime == nil {
		return nil
	}
	var windows []model.TimeRange
	for _, w := range ts.RemainingWindows {
		if w.Start >= *ts.NextSlotTime {
			windows = append(windows, w)
		}
	}
	return windows
}

// ExtendedForecast resolves day descriptors for today plus the following
// days-1 dates. The day count is clamped to a hard maximum.
func (e *Engine) ExtendedForecast(ctx context.Context, days int) ([]model.DayDescriptor, error) {
	if days < 1 {
		days = 1
	}
	if days > maxForecastDays {
		days = maxForecastDays
	}

	absence, err := e.currentAbsence(ctx)
	if err != nil {
		return nil, err
	}

	today := model.DateOf(e.localNow())
	forecast := make([]model.DayDescriptor, 0, days)
	for d := 0; d < days; d++ {
		desc, err := e.dayFromSources(ctx, today.AddDate(0, 0, d), absence)
		if err != nil {
			return nil, err
		}
		forecast = append(forecast, desc)
	}
	return forecast, nil
}

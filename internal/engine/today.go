package engine

import (
	"context"
	"time"

	"labstatus/internal/metrics"
	"labstatus/internal/model"
)

// TodayStatus describes the laboratory's state at a given instant.
type TodayStatus struct {
	Date             time.Time           `json:"date"`
	IsOpenNow        bool                `json:"is_open_now"`
	RemainingWindows []model.TimeRange   `json:"remaining_windows,omitempty"`
	NextSlotTime     *model.ClockTime    `json:"next_slot_time,omitempty"`
	ClosesAt         *model.ClockTime    `json:"closes_at,omitempty"`
	ClosureReason    model.ClosureReason `json:"closure_reason,omitempty"`
	MinutesUntilNext int                 `json:"minutes_until_next,omitempty"`
	Note             string              `json:"note,omitempty"`
	Source           model.DaySource     `json:"source"`
	Holiday          *model.Holiday      `json:"holiday,omitempty"`
}

// TodayStatus evaluates the current opening state. Results are memoized per
// minute bucket; two calls within the same minute hit the store at most once.
func (e *Engine) TodayStatus(ctx context.Context) (TodayStatus, error) {
	now := e.localNow()
	key := cacheKey{kind: "today", minute: minuteBucket(now)}

	if v, ok := e.cache.get(now, key); ok {
		metrics.IncCache("today", "hit")
		return v.(TodayStatus), nil
	}
	metrics.IncCache("today", "miss")

	desc, err := e.DayDescriptor(ctx, now)
	if err != nil {
		return TodayStatus{}, err
	}

	ts := evaluateToday(desc, model.ClockOf(now))
	e.cache.put(now, key, ts)
	return ts, nil
}

// evaluateToday scans the day's windows against the current clock time.
// Windows arrive sorted from the day builder.
func evaluateToday(desc model.DayDescriptor, now model.ClockTime) TodayStatus {
	ts := TodayStatus{
		Date:          desc.Date,
		ClosureReason: desc.ClosureReason,
		Note:          desc.Note,
		Source:        desc.Source,
		Holiday:       desc.Holiday,
	}
	if desc.Closed {
		return ts
	}

	for _, w := range desc.Windows {
		switch {
		case w.Contains(now):
			ts.IsOpenNow = true
			end := w.End
			ts.ClosesAt = &end
			ts.RemainingWindows = append(ts.RemainingWindows, model.TimeRange{Start: now, End: w.End})
		case w.Start > now:
			ts.RemainingWindows = append(ts.RemainingWindows, w)
			if ts.NextSlotTime == nil {
				start := w.Start
				ts.NextSlotTime = &start
				ts.MinutesUntilNext = int(w.Start - now)
			}
		}
	}

	if ts.IsOpenNow {
		ts.ClosureReason = model.ReasonNone
	} else {
		// Open day but outside every window, before or after; the
		// distinction is not surfaced.
		ts.ClosureReason = model.ReasonNotOpenYet
	}
	return ts
}

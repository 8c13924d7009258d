package engine

import (
	"context"

	"labstatus/internal/message"
)

// SmartStatusMessage renders the localized status summary for the current
// instant. On upstream failure it returns the conservative "unknown"
// message alongside the error, never a guessed open/closed status.
func (e *Engine) SmartStatusMessage(ctx context.Context, lang string) (message.StatusMessage, error) {
	ts, err := e.TodayStatus(ctx)
	if err != nil {
		return e.composer.Unknown(lang), err
	}

	next, err := e.NextOpening(ctx, false)
	if err != nil {
		return e.composer.Unknown(lang), err
	}

	return e.composer.Smart(lang, todayInput(ts), nextInput(next)), nil
}

// ClosureExplanation renders the localized "why closed today" line.
func (e *Engine) ClosureExplanation(ctx context.Context, lang string) (string, error) {
	ts, err := e.TodayStatus(ctx)
	if err != nil {
		return e.composer.Unknown(lang).MainMessage, err
	}
	return e.composer.ClosureExplanation(lang, todayInput(ts)), nil
}

func todayInput(ts TodayStatus) message.Today {
	return message.Today{
		IsOpenNow:        ts.IsOpenNow,
		ClosesAt:         ts.ClosesAt,
		NextSlotTime:     ts.NextSlotTime,
		MinutesUntilNext: ts.MinutesUntilNext,
		ClosureReason:    ts.ClosureReason,
		Note:             ts.Note,
		Holiday:          ts.Holiday,
	}
}

func nextInput(no *NextOpening) *message.Next {
	if no == nil {
		return nil
	}
	return &message.Next{
		Date:       no.Date,
		Time:       no.Time,
		DaysUntil:  no.DaysUntil,
		IsToday:    no.IsToday,
		IsTomorrow: no.IsTomorrow,
	}
}

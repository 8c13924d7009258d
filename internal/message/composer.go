// Package message turns structured status results into user-facing
// summaries. It holds no string tables of its own; phrases come from the
// injected translator.
package message

import (
	"time"

	"labstatus/internal/model"
)

// Translator renders a per-language phrase template. The i18n catalog
// implements it; the composer never stores translations itself.
type Translator interface {
	Phrase(lang, key string, args ...any) string
}

// StatusType is the coarse status label shown to visitors.
type StatusType string

const (
	StatusOpen             StatusType = "open"
	StatusOpeningSoon      StatusType = "opening_soon"
	StatusClosedWithReason StatusType = "closed_with_reason"
	StatusClosed           StatusType = "closed"
	StatusUnknown          StatusType = "unknown"
)

// The opening_soon status uses a coarser threshold than the opensSoon
// flag. The asymmetry is deliberate: a general label at two hours, a
// stricter boolean for more urgent client behavior at one hour.
const (
	openingSoonWithinMinutes = 120
	opensSoonWithinMinutes   = 60
)

// Today carries the evaluator output the composer branches on.
type Today struct {
	IsOpenNow        bool
	ClosesAt         *model.ClockTime
	NextSlotTime     *model.ClockTime
	MinutesUntilNext int
	ClosureReason    model.ClosureReason
	Note             string
	Holiday          *model.Holiday
}

// Next carries the next-opening result, nil when none is known.
type Next struct {
	Date       time.Time
	Time       model.ClockTime
	DaysUntil  int
	IsToday    bool
	IsTomorrow bool
}

// StatusMessage is the rendered status summary for one language.
type StatusMessage struct {
	MainMessage        string     `json:"main_message"`
	StatusType         StatusType `json:"status_type"`
	NextOpeningMessage string     `json:"next_opening_message,omitempty"`
	IsOpen             bool       `json:"is_open"`
	OpensSoon          bool       `json:"opens_soon"`
}

// Composer renders status summaries through a translator.
type Composer struct {
	tr Translator
}

func NewComposer(tr Translator) *Composer {
	return &Composer{tr: tr}
}

// Smart composes the main status summary for a language.
func (c *Composer) Smart(lang string, today Today, next *Next) StatusMessage {
	msg := StatusMessage{
		NextOpeningMessage: c.nextOpeningMessage(lang, next),
	}

	switch {
	case today.IsOpenNow:
		msg.StatusType = StatusOpen
		msg.IsOpen = true
		closesAt := ""
		if today.ClosesAt != nil {
			closesAt = today.ClosesAt.String()
		}
		msg.MainMessage = c.tr.Phrase(lang, "status.open", closesAt)

	case today.NextSlotTime != nil && today.MinutesUntilNext <= openingSoonWithinMinutes:
		msg.StatusType = StatusOpeningSoon
		msg.MainMessage = c.tr.Phrase(lang, "status.opening_soon", today.NextSlotTime.String(), today.MinutesUntilNext)

	case c.hasReason(today):
		msg.StatusType = StatusClosedWithReason
		msg.MainMessage = c.tr.Phrase(lang, "status.closed_reason", c.reasonPhrase(lang, today))

	default:
		msg.StatusType = StatusClosed
		msg.MainMessage = c.tr.Phrase(lang, "status.closed")
	}

	msg.OpensSoon = today.NextSlotTime != nil && today.MinutesUntilNext <= opensSoonWithinMinutes
	return msg
}

// Unknown is the conservative degradation when the status cannot be
// computed; it never guesses open or closed.
func (c *Composer) Unknown(lang string) StatusMessage {
	return StatusMessage{
		MainMessage: c.tr.Phrase(lang, "status.unknown"),
		StatusType:  StatusUnknown,
	}
}

// ClosureExplanation renders the "why closed" line for today.
func (c *Composer) ClosureExplanation(lang string, today Today) string {
	if today.IsOpenNow || today.ClosureReason == model.ReasonNotOpenYet || today.ClosureReason == model.ReasonNone {
		return c.tr.Phrase(lang, "explain.open")
	}
	return c.tr.Phrase(lang, "explain.closed", c.reasonPhrase(lang, today))
}

func (c *Composer) nextOpeningMessage(lang string, next *Next) string {
	if next == nil {
		return c.tr.Phrase(lang, "next.none")
	}
	switch {
	case next.IsToday:
		return c.tr.Phrase(lang, "next.today", next.Time.String())
	case next.IsTomorrow:
		return c.tr.Phrase(lang, "next.tomorrow", next.Time.String())
	default:
		return c.tr.Phrase(lang, "next.on_date", next.Date.Format("2006-01-02"), next.Time.String())
	}
}

// hasReason reports whether the closure has something more specific to say
// than "closed": an absence, a holiday, or an admin note.
func (c *Composer) hasReason(today Today) bool {
	switch today.ClosureReason {
	case model.ReasonVacation, model.ReasonEducation, model.ReasonConference, model.ReasonOther, model.ReasonHoliday:
		return true
	}
	return today.Note != ""
}

func (c *Composer) reasonPhrase(lang string, today Today) string {
	if today.ClosureReason == model.ReasonHoliday && today.Holiday != nil {
		return today.Holiday.Names.For(lang)
	}

	phrase := ""
	if today.ClosureReason != model.ReasonNone {
		phrase = c.tr.Phrase(lang, "reason."+string(today.ClosureReason))
	}
	if today.Note != "" {
		if phrase == "" {
			return today.Note
		}
		return phrase + " (" + today.Note + ")"
	}
	return phrase
}

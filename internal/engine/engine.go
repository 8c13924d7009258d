// Package engine implements the opening-status engine: it decides, for any
// Bangkok calendar date and instant, whether the laboratory is open, when it
// next opens or closes, and why it might be closed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"labstatus/internal/message"
	"labstatus/internal/metrics"
	"labstatus/internal/model"
)

// ErrUpstreamUnavailable marks a failed read from the status store. The
// engine never substitutes a default schedule on upstream failure; callers
// decide retry policy and degrade to an "unknown" status message.
var ErrUpstreamUnavailable = errors.New("status store unavailable")

// StatusReader is the narrow read interface the engine consumes from the
// persisted-state collaborator. The engine never writes.
type StatusReader interface {
	// ExplicitOverride returns the admin-entered override for a date, or
	// nil when none exists. Absence of an override is not an error.
	ExplicitOverride(ctx context.Context, date time.Time) (*model.HourException, error)
	// StandardHours returns the recurring windows for a weekday (0=Monday).
	StandardHours(ctx context.Context, weekday int) ([]model.TimeRange, error)
	// CurrentAbsence returns the singleton current-absence record.
	CurrentAbsence(ctx context.Context) (*model.AbsencePeriod, error)
}

const (
	defaultHorizonDays = 14
	defaultCacheTTL    = 15 * time.Minute
	maxForecastDays    = 31
)

// Options tune the engine. Zero values select the defaults; Now is
// injectable so tests can pin the clock.
type Options struct {
	HorizonDays int
	CacheTTL    time.Duration
	Now         func() time.Time
}

// Engine owns all opening-status computation. Construct with New; the
// engine holds no package-level state, so tests get a fresh cache and a
// controlled clock per instance.
type Engine struct {
	store    StatusReader
	composer *message.Composer
	cache    *resultCache
	now      func() time.Time
	horizon  int
	logger   *zerolog.Logger
}

// New creates an engine over a status store and a translator.
func New(store StatusReader, tr message.Translator, logger *zerolog.Logger, opts Options) *Engine {
	if opts.HorizonDays <= 0 {
		opts.HorizonDays = defaultHorizonDays
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = defaultCacheTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	return &Engine{
		store:    store,
		composer: message.NewComposer(tr),
		cache:    newResultCache(opts.CacheTTL),
		now:      opts.Now,
		horizon:  opts.HorizonDays,
		logger:   logger,
	}
}

// Horizon returns the maximum number of days the next-opening search scans.
func (e *Engine) Horizon() int {
	return e.horizon
}

func (e *Engine) localNow() time.Time {
	return e.now().In(model.Bangkok())
}

func (e *Engine) upstream(op string, err error) error {
	metrics.IncUpstreamError(op)
	e.logger.Error().Err(err).Str("op", op).Msg("status store read failed")
	return fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}

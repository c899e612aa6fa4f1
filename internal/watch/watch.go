package watch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/watplan/watplan/internal/logger"
)

// ErrInvalidSchedule is returned for cron expressions that do not parse.
var ErrInvalidSchedule = errors.New("invalid watch schedule")

// Job is one scheduled unit of work.
type Job func(ctx context.Context) error

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// Parse parses a standard 5-field cron expression, or a descriptor such as "@daily".
func Parse(spec string) (cron.Schedule, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrInvalidSchedule)
	}
	sched, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidSchedule, spec, err)
	}
	return sched, nil
}

// Watcher runs a Job at the times given by a cron schedule.
type Watcher struct {
	spec      string
	sched     cron.Schedule
	job       Job
	log       *logger.Logger
	immediate bool
	location  *time.Location
	now       func() time.Time
	after     func(time.Duration) <-chan time.Time
}

// Option configures a Watcher
type Option func(*Watcher)

// WithImmediate runs the job once at start, before waiting for the first tick.
func WithImmediate(v bool) Option {
	return func(w *Watcher) {
		w.immediate = v
	}
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithLocation sets the time zone the schedule is evaluated in.
func WithLocation(loc *time.Location) Option {
	return func(w *Watcher) {
		if loc != nil {
			w.location = loc
		}
	}
}

// WithClock overrides time.Now and time.After, for tests.
func WithClock(now func() time.Time, after func(time.Duration) <-chan time.Time) Option {
	return func(w *Watcher) {
		if now != nil {
			w.now = now
		}
		if after != nil {
			w.after = after
		}
	}
}

// New creates a Watcher for spec.
func New(spec string, job Job, opts ...Option) (*Watcher, error) {
	sched, err := Parse(spec)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, errors.New("watch: nil job")
	}

	w := &Watcher{
		spec:     strings.TrimSpace(spec),
		sched:    sched,
		job:      job,
		log:      logger.Default(),
		location: time.Local,
		now:      time.Now,
		after:    time.After,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Next returns the first scheduled time after from.
func (w *Watcher) Next(from time.Time) time.Time {
	return w.sched.Next(from.In(w.location))
}

// Run blocks, running the job on schedule, until ctx is cancelled. Job errors are
// logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("Watch started", logger.Fields{"schedule": w.spec})

	if w.immediate {
		w.fire(ctx)
	}

	for {
		if ctx.Err() != nil {
			w.log.Info("Watch stopped", nil)
			return nil
		}

		now := w.now()
		next := w.Next(now)
		wait := next.Sub(now)
		w.log.Info("Next run scheduled", logger.Fields{
			"at": next.Format(time.RFC3339),
			"in": wait.Round(time.Second).String(),
		})

		select {
		case <-ctx.Done():
			w.log.Info("Watch stopped", nil)
			return nil
		case <-w.after(wait):
		}

		w.fire(ctx)
	}
}

func (w *Watcher) fire(ctx context.Context) {
	started := w.now()
	if err := w.job(ctx); err != nil {
		w.log.Error("Scheduled run failed", logger.Fields{"schedule": w.spec}, err)
		return
	}
	w.log.Debug("Scheduled run finished", logger.Fields{"duration_ms": w.now().Sub(started).Milliseconds()})
}

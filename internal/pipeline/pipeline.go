package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/watplan/watplan/internal/calendar"
	"github.com/watplan/watplan/internal/config"
	"github.com/watplan/watplan/internal/lesson"
	"github.com/watplan/watplan/internal/logger"
	"github.com/watplan/watplan/internal/metrics"
	"github.com/watplan/watplan/internal/scraper"
	"github.com/watplan/watplan/internal/staff"
	"github.com/watplan/watplan/internal/storage"
)

// Pipeline converts a group's timetable into a calendar file.
type Pipeline struct {
	cfg      *config.Config
	scraper  *scraper.Scraper
	metrics  *metrics.Manager
	log      *logger.Logger
	location *time.Location
	now      func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithScraper replaces the scraper built from the config.
func WithScraper(s *scraper.Scraper) Option {
	return func(p *Pipeline) {
		if s != nil {
			p.scraper = s
		}
	}
}

// WithMetrics sets the metrics manager. Without one, runs are not measured.
func WithMetrics(m *metrics.Manager) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLogger sets the logger used for run progress and diagnostics.
func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.log = l
		}
	}
}

// WithLocation sets the location lesson times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *Pipeline) {
		if loc != nil {
			p.location = loc
		}
	}
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// New creates a Pipeline for cfg.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		log:      logger.Default(),
		location: time.Local,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.scraper == nil {
		p.scraper = scraper.New(
			scraper.WithTimeout(cfg.Timeout()),
			scraper.WithUserAgent(cfg.UserAgent),
		)
	}
	return p
}

// Lessons is the outcome of the fetch, extract and normalize stages.
type Lessons struct {
	Records     []lesson.Record
	Nodes       int
	Diagnostics []lesson.Diagnostic
}

// Skipped returns how many lessons were lost at the given stage.
func (l *Lessons) Skipped(stage lesson.Stage) int {
	n := 0
	for _, d := range l.Diagnostics {
		if d.Stage == stage {
			n++
		}
	}
	return n
}

// Summary describes a completed run.
type Summary struct {
	Output    string
	Nodes     int
	Skipped   int
	Dropped   int
	Events    int
	StaffSize int
	Duration  time.Duration
}

// Collect fetches the timetable and returns the normalized lessons without writing anything.
func (p *Pipeline) Collect(ctx context.Context) (*Lessons, int, error) {
	url, err := p.cfg.ScheduleURL()
	if err != nil {
		return nil, 0, err
	}

	p.log.Info("Fetching timetable", logger.Fields{"group": p.cfg.GroupID, "url": url})

	results, err := p.scraper.FetchLessons(ctx, url)
	if err != nil {
		return nil, 0, fmt.Errorf("fetching timetable: %w", err)
	}
	if p.metrics != nil {
		p.metrics.ObserveNodes(len(results))
	}

	sink := &collector{log: p.log, metrics: p.metrics}
	raw := scraper.Split(results, sink)

	index, err := staff.Load(p.cfg.StaffFile)
	if err != nil {
		return nil, 0, err
	}
	if index.Len() == 0 {
		p.log.Warn("Staff listing is empty, lecturers will have no titles", logger.Fields{"path": p.cfg.StaffFile})
	}

	normalizer := lesson.NewNormalizer(
		lesson.WithTitles(index),
		lesson.WithSink(sink),
		lesson.WithLocation(p.location),
	)
	records := normalizer.Normalize(raw)

	return &Lessons{
		Records:     records,
		Nodes:       len(results),
		Diagnostics: sink.all(),
	}, index.Len(), nil
}

// Run performs a full conversion and writes the calendar to the configured output
// path. When a metrics file is configured it is rewritten after every run,
// successful or not.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	started := p.now()

	summary, err := p.run(ctx)
	took := p.now().Sub(started)

	if p.metrics != nil {
		if err != nil {
			p.metrics.RunFailed(took)
		} else {
			p.metrics.RunSucceeded(summary.Events, took, p.now())
		}
		if p.cfg.MetricsFile != "" {
			if werr := p.metrics.WriteTextfile(p.cfg.MetricsFile); werr != nil {
				p.log.Error("Failed to write metrics", logger.Fields{"path": p.cfg.MetricsFile}, werr)
			}
		}
	}

	if err != nil {
		p.log.Error("Run failed", logger.Fields{"group": p.cfg.GroupID, "duration_ms": took.Milliseconds()}, err)
		return nil, err
	}

	summary.Duration = took
	p.log.Info("Calendar written", logger.Fields{
		"output":      summary.Output,
		"events":      summary.Events,
		"skipped":     summary.Skipped,
		"dropped":     summary.Dropped,
		"duration_ms": took.Milliseconds(),
	})
	return summary, nil
}

func (p *Pipeline) run(ctx context.Context) (*Summary, error) {
	lessons, staffSize, err := p.Collect(ctx)
	if err != nil {
		return nil, err
	}

	serializer := calendar.New(calendar.WithProductID(p.cfg.ProductID))
	body := serializer.Serialize(lessons.Records, p.cfg.Name())

	if err := storage.WriteFile(p.cfg.OutputPath, []byte(body)); err != nil {
		return nil, fmt.Errorf("writing calendar: %w", err)
	}

	return &Summary{
		Output:    p.cfg.OutputPath,
		Nodes:     lessons.Nodes,
		Skipped:   lessons.Skipped(lesson.StageExtract),
		Dropped:   lessons.Skipped(lesson.StageNormalize),
		Events:    len(lessons.Records),
		StaffSize: staffSize,
	}, nil
}

// collector is the diagnostic sink for one run: it logs, counts and keeps every diagnostic.
type collector struct {
	log     *logger.Logger
	metrics *metrics.Manager

	mu    sync.Mutex
	diags []lesson.Diagnostic
}

func (c *collector) Report(d lesson.Diagnostic) {
	fields := logger.Fields{
		"stage":  string(d.Stage),
		"index":  d.Index,
		"reason": d.Reason,
	}
	if d.Err != nil {
		fields["error"] = d.Err.Error()
	}

	switch d.Stage {
	case lesson.StageExtract:
		c.log.Warn("Skipping lesson node", fields)
		if c.metrics != nil {
			c.metrics.NodeSkipped(d.Reason)
		}
	default:
		c.log.Warn("Dropping lesson", fields)
		if c.metrics != nil {
			c.metrics.RecordDropped(d.Reason)
		}
	}

	c.mu.Lock()
	c.diags = append(c.diags, d)
	c.mu.Unlock()
}

func (c *collector) all() []lesson.Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]lesson.Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/watplan/watplan/internal/scraper"
	"github.com/watplan/watplan/internal/staff"
)

const (
	DefaultGroupID   = "WCY22KC2S0"
	DefaultBaseURL   = "https://planzajec.wcy.wat.edu.pl/pl/rozklad"
	DefaultStaffURL  = staff.RosterURL
	DefaultUserAgent = scraper.UserAgent
)

// Config contains process configuration.
type Config struct {
	// GroupID selects which timetable to fetch.
	GroupID string `koanf:"group_id"`

	// BaseURL is the timetable endpoint; the group is passed as ?grupa_id=.
	BaseURL string `koanf:"base_url"`

	// OutputPath is where the calendar is written. Existing files are replaced.
	OutputPath string `koanf:"output_path"`

	// StaffFile is the staff listing used for academic titles. Missing is fine.
	StaffFile string `koanf:"staff_file"`

	// CalendarName is written as X-WR-CALNAME. Empty means "Plan zajęć <group>".
	CalendarName string `koanf:"calendar_name"`

	// ProductID is written as PRODID.
	ProductID string `koanf:"product_id"`

	UserAgent      string `koanf:"user_agent"`
	TimeoutSeconds int    `koanf:"timeout_seconds"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// MetricsFile, when set, receives a Prometheus textfile after every run.
	MetricsFile string `koanf:"metrics_file"`

	// WatchSchedule is the cron expression used by the watch command.
	WatchSchedule string `koanf:"watch_schedule"`

	// StaffURL and StaffPages describe the staff catalogue scraped by the staff command.
	StaffURL   string `koanf:"staff_url"`
	StaffPages int    `koanf:"staff_pages"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		GroupID:        DefaultGroupID,
		BaseURL:        DefaultBaseURL,
		OutputPath:     "schedule.ics",
		StaffFile:      "employees/lista_pracownikow.txt",
		ProductID:      "-//WATplan//EN",
		UserAgent:      DefaultUserAgent,
		TimeoutSeconds: 30,
		LogLevel:       "info",
		WatchSchedule:  "0 6 * * *",
		StaffURL:       DefaultStaffURL,
		StaffPages:     staff.RosterPages,
	}
}

// Timeout returns TimeoutSeconds as a duration
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Name returns the calendar name, defaulting to one derived from the group.
func (c *Config) Name() string {
	if strings.TrimSpace(c.CalendarName) != "" {
		return c.CalendarName
	}
	return "Plan zajęć " + c.GroupID
}

// ScheduleURL returns the timetable URL for the configured group.
func (c *Config) ScheduleURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("%w: base_url: %v", ErrInvalidConfig, err)
	}
	q := u.Query()
	q.Set("grupa_id", c.GroupID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Validate checks the fields a run cannot do without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.GroupID) == "" {
		return fmt.Errorf("%w: group_id must not be empty", ErrInvalidConfig)
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("%w: output_path must not be empty", ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base_url %q is not an absolute URL", ErrInvalidConfig, c.BaseURL)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("%w: timeout_seconds must be positive", ErrInvalidConfig)
	}
	return nil
}

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/watplan/watplan/internal/config"
	"github.com/watplan/watplan/internal/logger"
	"github.com/watplan/watplan/internal/metrics"
	"github.com/watplan/watplan/internal/pipeline"
	"github.com/watplan/watplan/internal/staff"
	"github.com/watplan/watplan/internal/storage"
	"github.com/watplan/watplan/internal/watch"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagConfig      string
	flagGroup       string
	flagOutput      string
	flagStaffFile   string
	flagLogLevel    string
	flagMetricsFile string

	flagFormat    string
	flagSort      string
	flagPages     int
	flagStaffOut  string
	flagSchedule  string
	flagImmediate bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watplan",
		Short: "Convert a WAT timetable into an iCalendar file",
		Long: `Fetches the WAT faculty timetable for a student group and writes it as an
iCalendar file that can be imported into any calendar application.

Running watplan without a subcommand is the same as "watplan generate".`,
		RunE:          runGenerate,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "YAML config file (default $WATPLAN_CONFIG)")
	pf.StringVar(&flagGroup, "group", "", "Student group id, e.g. WCY22KC2S0")
	pf.StringVar(&flagOutput, "output", "", "Calendar output path")
	pf.StringVar(&flagStaffFile, "staff-file", "", "Staff listing used for academic titles")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&flagMetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after each run")

	cmd.AddCommand(
		newGenerateCmd(),
		newPreviewCmd(),
		newStaffCmd(),
		newWatchCmd(),
	)

	return cmd
}

func newGenerateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Fetch the timetable and write the calendar file",
		Args:  cobra.NoArgs,
		RunE:  runGenerate,
	}
}

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Fetch the timetable and print the parsed lessons without writing a calendar",
		Args:  cobra.NoArgs,
		RunE:  runPreview,
	}
	cmd.Flags().StringVar(&flagFormat, "format", string(FormatText), "Output format: text, json or yaml")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByStart), "Sort order: start or subject")
	return cmd
}

func newStaffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "staff",
		Short: "Download the university staff catalogue into the staff listing file",
		Args:  cobra.NoArgs,
		RunE:  runStaff,
	}
	cmd.Flags().StringVar(&flagStaffOut, "to", "", "Where to write the listing (default: staff_file)")
	cmd.Flags().IntVar(&flagPages, "pages", 0, "Number of catalogue pages to fetch (default: staff_pages)")
	return cmd
}

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the calendar on a cron schedule",
		Args:  cobra.NoArgs,
		RunE:  runWatch,
	}
	cmd.Flags().StringVar(&flagSchedule, "schedule", "", "Cron expression (default: watch_schedule)")
	cmd.Flags().BoolVar(&flagImmediate, "now", true, "Run once immediately before waiting for the schedule")
	return cmd
}

// loadConfig loads the config, applies command-line overrides and configures the default logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}

	if flagGroup != "" {
		cfg.GroupID = strings.TrimSpace(flagGroup)
	}
	if flagOutput != "" {
		cfg.OutputPath = flagOutput
	}
	if flagStaffFile != "" {
		cfg.StaffFile = flagStaffFile
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
	}
	if flagMetricsFile != "" {
		cfg.MetricsFile = flagMetricsFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	logger.SetDefault(logger.New(level, os.Stderr))

	return cfg, nil
}

func newPipeline(cfg *config.Config) *pipeline.Pipeline {
	opts := []pipeline.Option{pipeline.WithLogger(logger.Default())}
	if cfg.MetricsFile != "" {
		opts = append(opts, pipeline.WithMetrics(metrics.NewManager(
			metrics.WithConstLabels(map[string]string{"group": cfg.GroupID}),
		)))
	}
	return pipeline.New(cfg, opts...)
}

// runGenerate is the main command logic
func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	summary, err := newPipeline(cfg).Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d lessons to %s", summary.Events, summary.Output)
	if summary.Skipped > 0 || summary.Dropped > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), " (%d skipped, %d dropped)", summary.Skipped, summary.Dropped)
	}
	fmt.Fprintln(cmd.OutOrStdout())
	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'yaml')", flagFormat)
	}
	order := SortOrder(strings.ToLower(flagSort))
	if order != SortByStart && order != SortBySubject {
		return fmt.Errorf("invalid sort order: %s (must be 'start' or 'subject')", flagSort)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lessons, _, err := newPipeline(cfg).Collect(cmd.Context())
	if err != nil {
		return err
	}

	sortRecords(lessons.Records, order)

	result := NewPreviewResult(cfg.GroupID, lessons)
	if err := WriteOutput(cmd.OutOrStdout(), result, format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func runStaff(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	pages := cfg.StaffPages
	if flagPages > 0 {
		pages = flagPages
	}
	path := cfg.StaffFile
	if flagStaffOut != "" {
		path = flagStaffOut
	}

	lines, err := staff.NewFetcher(cfg.StaffURL, pages, cfg.Timeout()).FetchListing(cmd.Context())
	if err != nil {
		return fmt.Errorf("fetching staff listing: %w", err)
	}
	if len(lines) == 0 {
		return fmt.Errorf("staff catalogue returned no entries, keeping %s", path)
	}

	if err := storage.WriteLines(path, lines); err != nil {
		return fmt.Errorf("writing staff listing: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d staff entries to %s\n", len(lines), path)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	schedule := cfg.WatchSchedule
	if flagSchedule != "" {
		schedule = flagSchedule
	}

	p := newPipeline(cfg)
	w, err := watch.New(schedule, func(ctx context.Context) error {
		_, err := p.Run(ctx)
		return err
	}, watch.WithImmediate(flagImmediate))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return w.Run(ctx)
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

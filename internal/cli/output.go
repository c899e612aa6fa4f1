package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/watplan/watplan/internal/lesson"
	"github.com/watplan/watplan/internal/pipeline"
	"gopkg.in/yaml.v3"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// PreviewResult contains data to be output
type PreviewResult struct {
	Group       string          `json:"group" yaml:"group"`
	GeneratedAt time.Time       `json:"generated_at" yaml:"generated_at"`
	LessonCount int             `json:"lesson_count" yaml:"lesson_count"`
	Skipped     int             `json:"skipped" yaml:"skipped"`
	Dropped     int             `json:"dropped" yaml:"dropped"`
	Lessons     []lesson.Record `json:"lessons" yaml:"lessons"`
}

// NewPreviewResult summarizes collected lessons for output.
func NewPreviewResult(group string, l *pipeline.Lessons) *PreviewResult {
	return &PreviewResult{
		Group:       group,
		GeneratedAt: time.Now().UTC(),
		LessonCount: len(l.Records),
		Skipped:     l.Skipped(lesson.StageExtract),
		Dropped:     l.Skipped(lesson.StageNormalize),
		Lessons:     l.Records,
	}
}

var (
	dateStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	timeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	subjectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("99")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *PreviewResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatYAML:
		return writeYAML(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, result *PreviewResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func writeYAML(w io.Writer, result *PreviewResult) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(result); err != nil {
		return err
	}
	return encoder.Close()
}

// writeText prints one line per lesson, with a date heading whenever the day changes.
func writeText(w io.Writer, result *PreviewResult) error {
	if result.LessonCount == 0 {
		fmt.Fprintln(w, "No lessons found.")
		return nil
	}

	var day string
	for _, r := range result.Lessons {
		if d := r.Date.Format("2006-01-02 (Mon)"); d != day {
			day = d
			fmt.Fprintf(w, "\n%s\n", dateStyle.Render(day))
		}
		fmt.Fprintf(w, "  %s  %s %s  %s\n",
			timeStyle.Render(r.Start.Format("15:04")+"-"+r.End.Format("15:04")),
			subjectStyle.Render(r.SubjectShort),
			r.TypeCode,
			dimStyle.Render(fmt.Sprintf("%s | %s | %s | %s", r.Room, r.SequenceLabel, r.SubjectFull, r.Lecturer)),
		)
	}

	fmt.Fprintf(w, "\nTotal: %d lessons", result.LessonCount)
	if result.Skipped > 0 || result.Dropped > 0 {
		fmt.Fprintf(w, " (%d skipped, %d dropped)", result.Skipped, result.Dropped)
	}
	fmt.Fprintln(w)
	return nil
}

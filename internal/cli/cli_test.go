package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/watplan/watplan/internal/lesson"
	"github.com/watplan/watplan/internal/storage"
	"gopkg.in/yaml.v3"
)

func fixtureServer(t *testing.T, path string) *httptest.Server {
	t.Helper()
	page, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}))
	t.Cleanup(server.Close)
	return server
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	server := fixtureServer(t, "../../testdata/fixtures/schedule.html")
	t.Setenv("WATPLAN_BASE_URL", server.URL)

	output := filepath.Join(t.TempDir(), "plan.ics")
	out, err := runCmd(t,
		"generate",
		"--output", output,
		"--staff-file", "../../testdata/fixtures/staff.txt",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}

	if !strings.Contains(out, "Wrote 5 lessons to "+output) {
		t.Errorf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "(2 skipped, 1 dropped)") {
		t.Errorf("output should report skipped lessons: %q", out)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading calendar: %v", err)
	}
	if !strings.HasPrefix(string(data), "BEGIN:VCALENDAR\r\n") {
		t.Error("output is not a calendar")
	}
}

func TestRootCmd_DefaultsToGenerate(t *testing.T) {
	server := fixtureServer(t, "../../testdata/fixtures/schedule.html")
	t.Setenv("WATPLAN_BASE_URL", server.URL)

	output := filepath.Join(t.TempDir(), "plan.ics")
	if _, err := runCmd(t, "--output", output, "--log-level", "error"); err != nil {
		t.Fatalf("root command error: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("calendar not written: %v", err)
	}
}

func TestGenerateCmd_InvalidConfig(t *testing.T) {
	t.Setenv("WATPLAN_TIMEOUT_SECONDS", "0")

	if _, err := runCmd(t, "generate", "--log-level", "error"); err == nil {
		t.Error("generate should fail with a zero timeout")
	}
}

func TestPreviewCmd(t *testing.T) {
	server := fixtureServer(t, "../../testdata/fixtures/schedule.html")
	t.Setenv("WATPLAN_BASE_URL", server.URL)

	out, err := runCmd(t,
		"preview",
		"--format", "json",
		"--sort", "subject",
		"--staff-file", "../../testdata/fixtures/staff.txt",
		"--log-level", "error",
	)
	if err != nil {
		t.Fatalf("preview error: %v", err)
	}

	var result PreviewResult
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("preview output is not JSON: %v\n%s", err, out)
	}
	if result.LessonCount != 5 || len(result.Lessons) != 5 {
		t.Fatalf("preview returned %d lessons, want 5", result.LessonCount)
	}
	if result.Lessons[0].SubjectFull != "Algorytmy" {
		t.Errorf("first lesson by subject = %q, want Algorytmy", result.Lessons[0].SubjectFull)
	}
	if result.Skipped != 2 || result.Dropped != 1 {
		t.Errorf("skipped/dropped = %d/%d, want 2/1", result.Skipped, result.Dropped)
	}
}

func TestPreviewCmd_InvalidFlags(t *testing.T) {
	if _, err := runCmd(t, "preview", "--format", "xml"); err == nil {
		t.Error("preview should reject an unknown format")
	}
	if _, err := runCmd(t, "preview", "--sort", "room"); err == nil {
		t.Error("preview should reject an unknown sort order")
	}
}

func TestStaffCmd(t *testing.T) {
	server := fixtureServer(t, "../../testdata/fixtures/staff_page.html")
	t.Setenv("WATPLAN_STAFF_URL", server.URL+"/?page=")

	path := filepath.Join(t.TempDir(), "staff.txt")
	out, err := runCmd(t, "staff", "--pages", "2", "--to", path, "--log-level", "error")
	if err != nil {
		t.Fatalf("staff error: %v", err)
	}
	if !strings.Contains(out, "Wrote 6 staff entries") {
		t.Errorf("unexpected output: %q", out)
	}

	lines, err := storage.ReadLines(path)
	if err != nil {
		t.Fatalf("reading listing: %v", err)
	}
	if len(lines) != 6 {
		t.Errorf("listing has %d lines, want 6", len(lines))
	}
}

func TestWatchCmd_InvalidSchedule(t *testing.T) {
	if _, err := runCmd(t, "watch", "--schedule", "whenever", "--log-level", "error"); err == nil {
		t.Error("watch should reject an invalid schedule")
	}
}

func sampleRecords() []lesson.Record {
	day := func(d, h int) time.Time { return time.Date(2025, 3, d, h, 0, 0, 0, time.UTC) }
	return []lesson.Record{
		{Date: day(5, 0), Start: day(5, 8), End: day(5, 9), SubjectShort: "BD", TypeCode: "(L)", SubjectFull: "Bazy danych", SequenceLabel: "1/1"},
		{Date: day(4, 0), Start: day(4, 11), End: day(4, 12), SubjectShort: "Alg", TypeCode: "(w)", SubjectFull: "Algorytmy", SequenceLabel: "2/2"},
		{Date: day(4, 0), Start: day(4, 8), End: day(4, 9), SubjectShort: "Fiz", TypeCode: "(ć)", SubjectFull: "fizyka", SequenceLabel: "1/1"},
		{Date: day(3, 0), Start: day(3, 8), End: day(3, 9), SubjectShort: "Alg", TypeCode: "(w)", SubjectFull: "Algorytmy", SequenceLabel: "1/2"},
	}
}

func TestSortRecords(t *testing.T) {
	tests := []struct {
		name  string
		order SortOrder
		want  []string
	}{
		{"by start", SortByStart, []string{"1/2", "1/1", "2/2", "1/1"}},
		{"by subject", SortBySubject, []string{"1/2", "2/2", "1/1", "1/1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := sampleRecords()
			sortRecords(records, tt.order)

			var got []string
			for _, r := range records {
				got = append(got, r.SequenceLabel)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("sortRecords(%s) = %v, want %v", tt.order, got, tt.want)
			}
		})
	}

	t.Run("subject is case-insensitive", func(t *testing.T) {
		records := sampleRecords()
		sortRecords(records, SortBySubject)
		if records[2].SubjectFull != "Bazy danych" || records[3].SubjectFull != "fizyka" {
			t.Errorf("unexpected order: %q, %q", records[2].SubjectFull, records[3].SubjectFull)
		}
	})
}

func TestWriteOutput(t *testing.T) {
	result := &PreviewResult{
		Group:       "WCY22KC2S0",
		LessonCount: 4,
		Skipped:     1,
		Lessons:     sampleRecords(),
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOutput(&buf, result, FormatText); err != nil {
			t.Fatalf("WriteOutput() error: %v", err)
		}
		out := buf.String()
		for _, want := range []string{"2025-03-05 (Wed)", "08:00-09:00", "Bazy danych", "Total: 4 lessons (1 skipped, 0 dropped)"} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("text empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOutput(&buf, &PreviewResult{}, FormatText); err != nil {
			t.Fatalf("WriteOutput() error: %v", err)
		}
		if !strings.Contains(buf.String(), "No lessons found.") {
			t.Errorf("unexpected output: %q", buf.String())
		}
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteOutput(&buf, result, FormatYAML); err != nil {
			t.Fatalf("WriteOutput() error: %v", err)
		}
		var decoded struct {
			Group   string `yaml:"group"`
			Lessons []struct {
				Subject string `yaml:"subject_full"`
			} `yaml:"lessons"`
		}
		if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("output is not YAML: %v", err)
		}
		if decoded.Group != "WCY22KC2S0" || len(decoded.Lessons) != 4 {
			t.Errorf("decoded = %+v", decoded)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if err := WriteOutput(&bytes.Buffer{}, result, OutputFormat("xml")); err == nil {
			t.Error("WriteOutput() should reject unknown formats")
		}
	})
}

package storage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadLines(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "list.txt")
	if err := os.WriteFile(path, []byte("  first \n\n second\r\n\t\nthird"), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	lines, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}

	want := []string{"first", "second", "third"}
	if len(lines) != len(want) {
		t.Fatalf("ReadLines() = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestReadLines_Missing(t *testing.T) {
	_, err := ReadLines(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("ReadLines() expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadLines() error = %v, want fs.ErrNotExist", err)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "schedule.ics")

	tests := []struct {
		name string
		data string
	}{
		{name: "creates file and parents", data: "first version"},
		{name: "overwrites existing file", data: "second"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := WriteFile(path, []byte(tt.data)); err != nil {
				t.Fatalf("WriteFile() error: %v", err)
			}

			got, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("reading back: %v", err)
			}
			if string(got) != tt.data {
				t.Errorf("file content = %q, want %q", got, tt.data)
			}
		})
	}

	// No temp files should be left behind
	entries, err := os.ReadDir(filepath.Join(dir, "nested"))
	if err != nil {
		t.Fatalf("ReadDir() error: %v", err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("leftover temp file: %s", e.Name())
		}
	}
}

func TestWriteLines_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "staff.txt")
	in := []string{"dr Jan Kowalski", "mgr Anna Nowak"}

	if err := WriteLines(path, in); err != nil {
		t.Fatalf("WriteLines() error: %v", err)
	}

	out, err := ReadLines(path)
	if err != nil {
		t.Fatalf("ReadLines() error: %v", err)
	}
	if strings.Join(out, "|") != strings.Join(in, "|") {
		t.Errorf("round trip = %q, want %q", out, in)
	}
}

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)

	got, err := ExpandPath("~/cal/schedule.ics")
	if err != nil {
		t.Fatalf("ExpandPath() error: %v", err)
	}
	if want := filepath.Join(home, "cal", "schedule.ics"); got != want {
		t.Errorf("ExpandPath() = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("relative/file.ics"); got != "relative/file.ics" {
		t.Errorf("ExpandPath(relative) = %q, want unchanged", got)
	}
}

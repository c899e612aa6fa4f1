package staff

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEntry(t *testing.T) {
	tests := []struct {
		line   string
		want   Entry
		wantOK bool
	}{
		{"dr inż. Jan Kowalski", Entry{"dr inż.", "Jan", "Kowalski"}, true},
		{"prof. dr hab. Łucja Żółtowska", Entry{"prof. dr hab.", "Łucja", "Żółtowska"}, true},
		{"Anna Nowak", Entry{"", "Anna", "Nowak"}, true},
		{"  mgr   Piotr Wiśniewski  ", Entry{"mgr", "Piotr", "Wiśniewski"}, true},
		{"prof.Jan Nowak", Entry{"prof.", "Jan", "Nowak"}, true},
		{"dr Anna Nowak-Kowalska", Entry{}, false},
		// a title never ends inside a name token
		{"dr AnnaMaria Kowalski", Entry{}, false},
		{"jan kowalski", Entry{}, false},
		{"Kowalski", Entry{}, false},
		{"", Entry{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseEntry(tt.line)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseEntry(%q) = %+v, %v; want %+v, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	idx := Build([]string{
		"dr inż. Jan Kowalski",
		"not a person",
		"mgr Anna Nowak",
		"dr hab. Anna Nowak",
	})

	if idx.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", idx.Len())
	}

	if title, ok := idx.Title("Jan Kowalski"); !ok || title != "dr inż." {
		t.Errorf("Title(Jan Kowalski) = %q, %v; want dr inż., true", title, ok)
	}

	// Later lines win on collision
	if title, _ := idx.Title("Anna Nowak"); title != "dr hab." {
		t.Errorf("Title(Anna Nowak) = %q, want dr hab.", title)
	}

	if _, ok := idx.Title("Piotr Zieliński"); ok {
		t.Error("Title(unknown) ok = true, want false")
	}
}

func TestBuild_DecomposedDiacritics(t *testing.T) {
	// S followed by a combining acute accent
	idx := Build([]string{"dr Łukasz S\u0301liwa"})

	if title, ok := idx.Title("Łukasz Śliwa"); !ok || title != "dr" {
		t.Errorf("Title() = %q, %v; want dr, true", title, ok)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lista.txt")
	content := "dr inż. Jan Kowalski\n\nprof. Anna Nowak\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing listing: %v", err)
	}

	idx, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if idx.Len() != 2 {
		t.Errorf("Len() = %d, want 2", idx.Len())
	}
}

func TestLoad_MissingFile(t *testing.T) {
	idx, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
	if err != nil {
		t.Fatalf("Load() error: %v, want empty index", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
	if _, ok := idx.Title("Jan Kowalski"); ok {
		t.Error("empty index returned a title")
	}
}

func TestIndex_NilSafe(t *testing.T) {
	var idx *Index
	if _, ok := idx.Title("Jan Kowalski"); ok {
		t.Error("nil index returned a title")
	}
	if idx.Len() != 0 {
		t.Error("nil index has non-zero length")
	}
}

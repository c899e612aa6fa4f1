package staff

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"strings"

	"github.com/watplan/watplan/internal/storage"
	"golang.org/x/text/unicode/norm"
)

// entryPattern matches "<title> First Last" at the end of a line. A title must end
// in whitespace or a period so that it never splits a name token.
var entryPattern = regexp.MustCompile(`^(?:(.*?[.\s]))?\s*(\p{Lu}\p{Ll}+)\s+(\p{Lu}\p{Ll}+)$`)

// Entry is one person from the staff listing.
type Entry struct {
	Title     string
	FirstName string
	LastName  string
}

// FullName returns "First Last"
func (e Entry) FullName() string {
	return e.FirstName + " " + e.LastName
}

// ParseEntry matches a single listing line. ok is false for lines that do not end in
// two capitalized name tokens.
func ParseEntry(line string) (Entry, bool) {
	line = strings.TrimSpace(norm.NFC.String(line))
	m := entryPattern.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	return Entry{
		Title:     strings.TrimSpace(m[1]),
		FirstName: m[2],
		LastName:  m[3],
	}, true
}

// Index maps "First Last" to an academic title. The zero value is an empty index.
type Index struct {
	titles map[string]string
}

// Build creates an index from listing lines. Lines that do not parse are skipped;
// when two lines share a name the later one wins.
func Build(lines []string) *Index {
	idx := &Index{titles: make(map[string]string, len(lines))}
	for _, line := range lines {
		e, ok := ParseEntry(line)
		if !ok {
			continue
		}
		idx.titles[e.FullName()] = e.Title
	}
	return idx
}

// Load reads the listing at path and builds the index. A missing file yields an
// empty index and no error so that lecturers simply render without titles.
func Load(path string) (*Index, error) {
	lines, err := storage.ReadLines(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Build(nil), nil
		}
		return nil, fmt.Errorf("loading staff listing: %w", err)
	}
	return Build(lines), nil
}

// Title returns the academic title for a "First Last" name.
func (i *Index) Title(fullName string) (string, bool) {
	if i == nil || i.titles == nil {
		return "", false
	}
	t, ok := i.titles[norm.NFC.String(fullName)]
	return t, ok
}

// Len returns the number of people in the index.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.titles)
}

package lesson

import (
	"regexp"
	"strings"
)

var (
	ordinalPattern = regexp.MustCompile(`\[(\d+)\]`)

	// " - (w) - anything" up to the end of the text
	subjectSuffixPattern = regexp.MustCompile(` - \(.+\) - .*`)

	lecturerPattern = regexp.MustCompile(
		`- \(.+\) - ((?:(?:dr|prof\.|inż\.|hab\.|mgr|ppłk|płk|kpt\.|mjr)\s+)*)(\p{Lu}\p{Ll}+) (\p{Lu}\p{Ll}+)`)
)

// ExtractOrdinal returns the digits of the first "[n]" token in line.
// ok is false when line holds no bracketed integer.
func ExtractOrdinal(line string) (ordinal string, ok bool) {
	m := ordinalPattern.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CleanSubject strips the trailing " - (type) - lecturer" part from an info text
// and returns the trimmed long subject name. Text without that suffix is only trimmed.
func CleanSubject(info string) string {
	if loc := subjectSuffixPattern.FindStringIndex(info); loc != nil {
		info = info[:loc[0]]
	}
	return strings.TrimSpace(info)
}

// LecturerMatch holds the parts of a lecturer attribution.
// Prefix is whatever title words were written inline before the name.
type LecturerMatch struct {
	Prefix string
	First  string
	Last   string
}

// FullName returns "First Last", the key used by the staff directory.
func (m LecturerMatch) FullName() string {
	return m.First + " " + m.Last
}

// MatchLecturer finds "- (type) - [title words] First Last" in an info text.
// ok is false when no two capitalized name tokens follow the type marker.
func MatchLecturer(info string) (LecturerMatch, bool) {
	m := lecturerPattern.FindStringSubmatch(info)
	if m == nil {
		return LecturerMatch{}, false
	}
	return LecturerMatch{
		Prefix: strings.TrimSpace(m[1]),
		First:  m[2],
		Last:   m[3],
	}, true
}

// FormatLecturer joins title and name with single spaces. An empty title
// yields just "First Last" with no leading space.
func FormatLecturer(title string, m LecturerMatch) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return m.FullName()
	}
	return title + " " + m.FullName()
}

package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/watplan/watplan/internal/lesson"
)

const (
	DefaultProductID = "-//WATplan//EN"
	DefaultUIDDomain = "watplan"
)

// uidNamespace seeds the name-based UUIDs used as event UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://planzajec.wcy.wat.edu.pl/"))

// Serializer renders lesson records as iCalendar text.
type Serializer struct {
	productID string
	uidDomain string
}

// Option configures a Serializer
type Option func(*Serializer)

// WithProductID sets the PRODID value.
func WithProductID(id string) Option {
	return func(s *Serializer) {
		if id != "" {
			s.productID = id
		}
	}
}

// WithUIDDomain sets the part after "@" in event UIDs.
func WithUIDDomain(domain string) Option {
	return func(s *Serializer) {
		if domain != "" {
			s.uidDomain = domain
		}
	}
}

// New creates a Serializer
func New(opts ...Option) *Serializer {
	s := &Serializer{
		productID: DefaultProductID,
		uidDomain: DefaultUIDDomain,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serialize renders a complete calendar: header, one VEVENT per record in input
// order, footer. The output depends only on its inputs, so serializing the same
// records twice yields identical text.
func (s *Serializer) Serialize(records []lesson.Record, calendarName string) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", s.productID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	if calendarName != "" {
		ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeText(calendarName)))
	}

	// Identical lessons are numbered in input order so every event keeps its own UID.
	seen := make(map[string]int, len(records))
	for i := range records {
		key := eventKey(&records[i])
		s.writeEvent(&ics, &records[i], eventUID(key, seen[key]))
		seen[key]++
	}

	ics.WriteString("END:VCALENDAR\r\n")
	return ics.String()
}

// Write serializes records to w.
func (s *Serializer) Write(w io.Writer, records []lesson.Record, calendarName string) error {
	_, err := io.WriteString(w, s.Serialize(records, calendarName))
	return err
}

func (s *Serializer) writeEvent(ics *strings.Builder, r *lesson.Record, uid string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", uid, s.uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(r.Start)))
	ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(r.End)))
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeText(Summary(r))))
	ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeText(r.Room)))
	ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeText(Description(r))))
	ics.WriteString("END:VEVENT\r\n")
}

// Summary is the one-line event title: short subject and raw type code.
func Summary(r *lesson.Record) string {
	return fmt.Sprintf("%s %s", r.SubjectShort, r.TypeCode)
}

// Description lists the long subject name, type, sequence label and lecturer, one per line.
func Description(r *lesson.Record) string {
	return fmt.Sprintf("%s\nRodzaj zajęć: %s\nNr zajęć: %s\nProwadzący: %s",
		r.SubjectFull, r.TypeLabel, r.SequenceLabel, r.Lecturer)
}

// EventUID derives a stable identifier for the occurrence-th record (counting from 0)
// among records that share every identifying field with r.
func EventUID(r *lesson.Record, occurrence int) string {
	return eventUID(eventKey(r), occurrence)
}

func eventKey(r *lesson.Record) string {
	return strings.Join([]string{
		formatICSTime(r.Start),
		formatICSTime(r.End),
		r.SubjectShort,
		r.TypeCode,
		r.Room,
		r.Ordinal,
		r.SubjectFull,
		r.Lecturer,
	}, "|")
}

func eventUID(key string, occurrence int) string {
	if occurrence > 0 {
		key = fmt.Sprintf("%s|%d", key, occurrence)
	}
	return uuid.NewSHA1(uidNamespace, []byte(key)).String()
}

// formatICSTime formats t as a floating iCalendar date-time, without converting zones.
func formatICSTime(t time.Time) string {
	return t.Format("20060102T150405")
}

// escapeText escapes line breaks in a text value. Other special characters are
// passed through unchanged.
func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	s = strings.ReplaceAll(s, "\r", "\\n")
	return s
}

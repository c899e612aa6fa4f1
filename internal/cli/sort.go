package cli

import (
	"sort"
	"strings"

	"github.com/watplan/watplan/internal/lesson"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByStart   SortOrder = "start"
	SortBySubject SortOrder = "subject"
)

// sortRecords sorts records in place. The sort is stable so lessons that compare
// equal keep their timetable order.
func sortRecords(records []lesson.Record, order SortOrder) {
	switch order {
	case SortByStart:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Start.Before(records[j].Start)
		})
	case SortBySubject:
		sort.SliceStable(records, func(i, j int) bool {
			si := strings.ToLower(records[i].SubjectFull)
			sj := strings.ToLower(records[j].SubjectFull)
			if si != sj {
				return si < sj
			}
			// Same subject: chronological
			return records[i].Start.Before(records[j].Start)
		})
	}
}

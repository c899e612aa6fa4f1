// Package pipeline runs one end-to-end timetable conversion: fetch the group's
// timetable page, extract and normalize its lessons, and write the calendar.
//
// Lessons that cannot be extracted or normalized are skipped, logged at WARN
// and counted in the run metrics; they never abort a run.
package pipeline

// Package calendar renders normalized lessons as an iCalendar document.
//
// Times are written as floating local times (no zone, no UTC marker). Only
// newlines are escaped in text values.
package calendar

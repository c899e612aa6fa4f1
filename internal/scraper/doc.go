// Package scraper fetches a group's timetable page and extracts raw lesson fields from it.
//
// Each div.lesson node exposes span.date, span.block_id, a multi-line span.name
// (short subject, type code, room, "[n]" ordinal) and span.info (long subject name
// plus lecturer). Extraction never fails as a whole: a node that cannot be read is
// returned as a skipped Result with a reason, and the caller decides how to report it.
package scraper

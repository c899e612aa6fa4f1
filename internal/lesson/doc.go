// Package lesson provides the lesson domain types and the normalization pipeline.
//
// Raw per-node fields produced by the scraper are resolved into fully-typed Records:
// date and time block become absolute start/end instants, type codes become labels,
// the lecturer is extracted from the info text and enriched with an academic title,
// and a second pass annotates every record with an "ordinal/total" sequence label
// computed over its (subject, type) group.
package lesson

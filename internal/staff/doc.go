// Package staff builds the staff directory index used to attach academic titles to lecturers.
//
// The index is built from a plain-text listing with one "<title words> <First> <Last>" entry
// per line. The listing itself is produced by scraping the university's public staff
// catalogue (see Fetcher), which is a separate step from schedule generation.
package staff

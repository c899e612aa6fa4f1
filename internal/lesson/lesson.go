package lesson

import (
	"time"
)

const (
	// DateLayout is the layout of the date token found on lesson nodes ("2025_03_04").
	DateLayout = "2006_01_02"

	// OrdinalUnknown replaces an ordinal that could not be found in the name lines.
	OrdinalUnknown = "Brak"

	// InfoPlaceholder is used when a lesson node has no info field.
	InfoPlaceholder = "Nieznana nazwa"

	// NoLecturer is recorded when the info text has no recognizable lecturer.
	NoLecturer = "-"
)

// RawFields holds the fields extracted from one lesson node before normalization.
// Ordinal is empty when the node carried no "[n]" token.
type RawFields struct {
	DateToken    string `json:"date_token"`
	BlockToken   string `json:"block_token"`
	SubjectShort string `json:"subject_short"`
	TypeCode     string `json:"type_code"`
	Room         string `json:"room"`
	Ordinal      string `json:"ordinal,omitempty"`
	InfoText     string `json:"info_text"`
}

// Record is a normalized lesson ready for serialization
type Record struct {
	Date          time.Time `json:"date" yaml:"date"`
	Start         time.Time `json:"start" yaml:"start"`
	End           time.Time `json:"end" yaml:"end"`
	SubjectShort  string    `json:"subject_short" yaml:"subject_short"`
	TypeCode      string    `json:"type_code" yaml:"type_code"`
	TypeLabel     string    `json:"type_label" yaml:"type_label"`
	Room          string    `json:"room" yaml:"room"`
	Ordinal       string    `json:"-" yaml:"-"`
	SequenceLabel string    `json:"sequence_label" yaml:"sequence_label"`
	SubjectFull   string    `json:"subject_full" yaml:"subject_full"`
	Lecturer      string    `json:"lecturer" yaml:"lecturer"`
}

// GroupKey identifies the (subject, type) group a record is counted in.
type GroupKey struct {
	Subject string
	Type    string
}

// Key returns the group the record belongs to
func (r *Record) Key() GroupKey {
	return GroupKey{Subject: r.SubjectFull, Type: r.TypeLabel}
}

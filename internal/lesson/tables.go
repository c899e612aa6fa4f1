package lesson

import (
	"fmt"
	"time"
)

// Clock is a wall-clock time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// String formats the clock as HH:MM
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On places the clock time on the given calendar day.
func (c Clock) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour, c.Minute, 0, 0, day.Location())
}

// Block is a fixed daily time slot.
type Block struct {
	Start Clock
	End   Clock
}

// BlockTable maps block identifiers ("block1".."block7") to their time slots.
type BlockTable map[string]Block

// Lookup returns the slot for id. Unknown ids resolve to 00:00-00:00 and ok=false.
func (t BlockTable) Lookup(id string) (Block, bool) {
	b, ok := t[id]
	return b, ok
}

// DefaultBlocks returns a fresh copy of the university's seven daily blocks.
func DefaultBlocks() BlockTable {
	return BlockTable{
		"block1": {Start: Clock{8, 0}, End: Clock{9, 35}},
		"block2": {Start: Clock{9, 50}, End: Clock{11, 25}},
		"block3": {Start: Clock{11, 40}, End: Clock{13, 15}},
		"block4": {Start: Clock{13, 30}, End: Clock{15, 5}},
		"block5": {Start: Clock{16, 0}, End: Clock{17, 35}},
		"block6": {Start: Clock{17, 50}, End: Clock{19, 25}},
		"block7": {Start: Clock{19, 40}, End: Clock{21, 15}},
	}
}

// UnknownType is the label for type codes missing from the TypeTable.
const UnknownType = "Nieznany"

// TypeTable maps raw type markers such as "(w)" to their full labels.
type TypeTable map[string]string

// Label resolves a type code, falling back to UnknownType
func (t TypeTable) Label(code string) string {
	if label, ok := t[code]; ok {
		return label
	}
	return UnknownType
}

// DefaultTypes returns a fresh copy of the lesson type labels.
func DefaultTypes() TypeTable {
	return TypeTable{
		"(w)":    "Wykład",
		"(L)":    "Laboratorium",
		"(ć)":    "Ćwiczenia",
		"(P)":    "Projekt",
		"(inne)": "inne",
	}
}

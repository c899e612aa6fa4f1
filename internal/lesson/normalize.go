package lesson

import (
	"fmt"
	"strings"
	"time"
)

// TitleLookup resolves a "First Last" name to an academic title.
type TitleLookup interface {
	Title(fullName string) (string, bool)
}

type noTitles struct{}

func (noTitles) Title(string) (string, bool) { return "", false }

// Normalizer turns raw lesson fields into Records.
// The tables are copied at construction and never modified afterwards.
type Normalizer struct {
	blocks   BlockTable
	types    TypeTable
	titles   TitleLookup
	sink     Sink
	location *time.Location
}

// Option configures a Normalizer
type Option func(*Normalizer)

// WithBlocks replaces the default block table.
func WithBlocks(t BlockTable) Option {
	return func(n *Normalizer) {
		n.blocks = make(BlockTable, len(t))
		for k, v := range t {
			n.blocks[k] = v
		}
	}
}

// WithTypes replaces the default type label table.
func WithTypes(t TypeTable) Option {
	return func(n *Normalizer) {
		n.types = make(TypeTable, len(t))
		for k, v := range t {
			n.types[k] = v
		}
	}
}

// WithTitles sets the staff directory used to attach academic titles.
func WithTitles(l TitleLookup) Option {
	return func(n *Normalizer) {
		if l != nil {
			n.titles = l
		}
	}
}

// WithSink routes dropped-record diagnostics to s.
func WithSink(s Sink) Option {
	return func(n *Normalizer) {
		if s != nil {
			n.sink = s
		}
	}
}

// WithLocation sets the location lesson times are interpreted in (default time.Local).
func WithLocation(loc *time.Location) Option {
	return func(n *Normalizer) {
		if loc != nil {
			n.location = loc
		}
	}
}

// NewNormalizer creates a Normalizer with the default tables and no staff titles.
func NewNormalizer(opts ...Option) *Normalizer {
	n := &Normalizer{
		blocks:   DefaultBlocks(),
		types:    DefaultTypes(),
		titles:   noTitles{},
		sink:     Discard,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize resolves every raw entry and then annotates the surviving records
// with their sequence labels. Entries whose date cannot be parsed are dropped
// and reported to the sink; the rest keep their input order.
func (n *Normalizer) Normalize(raw []RawFields) []Record {
	records := make([]Record, 0, len(raw))
	for i, fields := range raw {
		rec, err := n.Resolve(fields)
		if err != nil {
			n.sink.Report(Diagnostic{
				Stage:  StageNormalize,
				Index:  i,
				Reason: "unparseable date",
				Err:    err,
			})
			continue
		}
		records = append(records, rec)
	}

	Annotate(records)
	return records
}

// Resolve converts a single entry. SequenceLabel is left empty; it can only be
// computed once the whole record set is known (see Annotate).
func (n *Normalizer) Resolve(f RawFields) (Record, error) {
	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(f.DateToken), n.location)
	if err != nil {
		return Record{}, fmt.Errorf("parsing date %q: %w", f.DateToken, err)
	}

	// Unknown blocks fall back to the zero Block, i.e. midnight to midnight.
	block, _ := n.blocks.Lookup(f.BlockToken)

	ordinal := f.Ordinal
	if ordinal == "" {
		ordinal = OrdinalUnknown
	}

	return Record{
		Date:         date,
		Start:        block.Start.On(date),
		End:          block.End.On(date),
		SubjectShort: f.SubjectShort,
		TypeCode:     f.TypeCode,
		TypeLabel:    n.types.Label(f.TypeCode),
		Room:         f.Room,
		Ordinal:      ordinal,
		SubjectFull:  CleanSubject(f.InfoText),
		Lecturer:     n.lecturer(f.InfoText),
	}, nil
}

func (n *Normalizer) lecturer(info string) string {
	m, ok := MatchLecturer(info)
	if !ok {
		return NoLecturer
	}
	title, _ := n.titles.Title(m.FullName())
	return FormatLecturer(title, m)
}

// Annotate sets SequenceLabel on every record to "<ordinal>/<group size>", where the
// group is all records sharing (SubjectFull, TypeLabel). The ordinal is the one taken
// from the source markup, not the record's position, so labels such as "5/3" are
// possible when the source numbering is off.
func Annotate(records []Record) {
	totals := CountGroups(records)
	for i := range records {
		ordinal := records[i].Ordinal
		if ordinal == "" {
			ordinal = OrdinalUnknown
		}
		records[i].SequenceLabel = fmt.Sprintf("%s/%d", ordinal, totals[records[i].Key()])
	}
}

// CountGroups returns the number of records in each (subject, type) group.
func CountGroups(records []Record) map[GroupKey]int {
	totals := make(map[GroupKey]int)
	for i := range records {
		totals[records[i].Key()]++
	}
	return totals
}

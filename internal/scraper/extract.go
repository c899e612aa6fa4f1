package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/watplan/watplan/internal/lesson"
	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// MinNameLines is the number of lines span.name must hold: subject, type, room, ordinal.
const MinNameLines = 4

// Skip reasons
const (
	ReasonMissingDate  = "missing date field"
	ReasonMissingBlock = "missing block field"
	ReasonMissingName  = "missing name field"
	ReasonTooFewLines  = "too few name lines"
	ReasonPanic        = "malformed node"
)

// Result is the outcome of extracting one lesson node: either Fields (Skipped == false)
// or a Reason explaining why the node was skipped.
type Result struct {
	Index   int
	Fields  lesson.RawFields
	Skipped bool
	Reason  string
	Detail  string
}

// Ok reports whether the node produced fields
func (r Result) Ok() bool {
	return !r.Skipped
}

// Diagnostic converts a skipped result for a lesson.Sink.
func (r Result) Diagnostic() lesson.Diagnostic {
	d := lesson.Diagnostic{Stage: lesson.StageExtract, Index: r.Index, Reason: r.Reason}
	if r.Detail != "" {
		d.Err = fmt.Errorf("%s", r.Detail)
	}
	return d
}

func skipped(index int, reason, detail string) Result {
	return Result{Index: index, Skipped: true, Reason: reason, Detail: detail}
}

// Extract parses timetable markup and returns one Result per div.lesson node, in
// document order. It only fails when the document itself cannot be parsed.
func Extract(markup string) ([]Result, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	nodes := doc.Find("div.lesson")
	results := make([]Result, 0, nodes.Length())
	nodes.Each(func(i int, sel *goquery.Selection) {
		results = append(results, extractNode(i, sel))
	})

	return results, nil
}

// Split separates extracted fields from skipped results, reporting the latter to sink.
func Split(results []Result, sink lesson.Sink) []lesson.RawFields {
	if sink == nil {
		sink = lesson.Discard
	}
	fields := make([]lesson.RawFields, 0, len(results))
	for _, r := range results {
		if !r.Ok() {
			sink.Report(r.Diagnostic())
			continue
		}
		fields = append(fields, r.Fields)
	}
	return fields
}

func extractNode(index int, sel *goquery.Selection) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = skipped(index, ReasonPanic, fmt.Sprint(p))
		}
	}()

	date, ok := firstText(sel, "span.date")
	if !ok {
		return skipped(index, ReasonMissingDate, "")
	}
	block, ok := firstText(sel, "span.block_id")
	if !ok {
		return skipped(index, ReasonMissingBlock, "")
	}

	name := sel.Find("span.name").First()
	if name.Length() == 0 {
		return skipped(index, ReasonMissingName, "")
	}
	lines := StrippedStrings(name)
	if len(lines) < MinNameLines {
		return skipped(index, ReasonTooFewLines, fmt.Sprintf("%q", lines))
	}

	ordinal, _ := lesson.ExtractOrdinal(lines[3])

	info, ok := firstText(sel, "span.info")
	if !ok {
		info = lesson.InfoPlaceholder
	}

	return Result{
		Index: index,
		Fields: lesson.RawFields{
			DateToken:    date,
			BlockToken:   block,
			SubjectShort: lines[0],
			TypeCode:     lines[1],
			Room:         strings.TrimSpace(strings.ReplaceAll(lines[2], ",", "")),
			Ordinal:      ordinal,
			InfoText:     info,
		},
	}
}

// firstText returns the trimmed text of the first element matching selector.
// ok is false when no element matches; an empty element is still ok.
func firstText(sel *goquery.Selection, selector string) (string, bool) {
	found := sel.Find(selector).First()
	if found.Length() == 0 {
		return "", false
	}
	return clean(found.Text()), true
}

// StrippedStrings returns every descendant text node of sel, trimmed, with empty
// ones dropped, in document order.
func StrippedStrings(sel *goquery.Selection) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if s := clean(n.Data); s != "" {
				out = append(out, s)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return out
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

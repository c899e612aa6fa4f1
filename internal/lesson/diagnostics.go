package lesson

import "fmt"

// Stage names the pipeline step that produced a Diagnostic.
type Stage string

const (
	StageExtract   Stage = "extract"
	StageNormalize Stage = "normalize"
)

// Diagnostic describes one lesson that was skipped or dropped.
type Diagnostic struct {
	Stage  Stage
	Index  int
	Reason string
	Err    error
}

func (d Diagnostic) String() string {
	if d.Err != nil {
		return fmt.Sprintf("%s #%d: %s: %v", d.Stage, d.Index, d.Reason, d.Err)
	}
	return fmt.Sprintf("%s #%d: %s", d.Stage, d.Index, d.Reason)
}

// Sink receives diagnostics for records that did not make it through the pipeline.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(d Diagnostic)

// Report calls f(d)
func (f SinkFunc) Report(d Diagnostic) {
	f(d)
}

type discardSink struct{}

func (discardSink) Report(Diagnostic) {}

// Discard is a Sink that drops everything.
var Discard Sink = discardSink{}

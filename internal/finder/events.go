package finder

// Event is emitted by a running search. Implementations are immutable
// values; the presentation layer decides when and how to draw them.
type Event interface {
	event()
}

// StartEvent is emitted once the output directory exists and the walk is
// about to begin.
type StartEvent struct {
	Term      string // Normalized search term
	OutputDir string
	Roots     []string
}

// ProgressEvent is emitted after each successful copy.
type ProgressEvent struct {
	Copied int // Running total of copied files
	Source string
	Dest   string
}

// FailureEvent is emitted when a matching file could not be copied. The
// search continues.
type FailureEvent struct {
	Path string
	Err  error
}

// WarningEvent reports a problem that does not stop the search.
type WarningEvent struct {
	Err error
}

// DoneEvent is emitted once, when the search finishes.
type DoneEvent struct {
	Outcome Outcome
}

func (StartEvent) event()    {}
func (ProgressEvent) event() {}
func (FailureEvent) event()  {}
func (WarningEvent) event()  {}
func (DoneEvent) event()     {}

package finder

import (
	"fmt"
	"io"
	"sync"

	"github.com/mgutz/ansi"
)

// Output renders search events. Copied file paths go to stdout, one per
// line; status, warnings and the summary go to stderr.
type Output struct {
	mu         sync.Mutex
	stdout     io.Writer
	stderr     io.Writer
	hyperlinks bool
	verbose    bool

	cyan   func(string) string
	green  func(string) string
	white  func(string) string
	yellow func(string) string
	red    func(string) string
}

// NewOutput creates a new Output with optional color and hyperlink support.
// Failures to copy individual files are only shown when verbose is set.
func NewOutput(stdout, stderr io.Writer, colorize, hyperlinks, verbose bool) *Output {
	color := func(name string) func(string) string {
		if colorize {
			return ansi.ColorFunc(name)
		}
		return ansi.ColorFunc("")
	}

	return &Output{
		stdout:     stdout,
		stderr:     stderr,
		hyperlinks: hyperlinks,
		verbose:    verbose,
		cyan:       color("cyan"),
		green:      color("green+b"),
		white:      color("white"),
		yellow:     color("yellow"),
		red:        color("red+b"),
	}
}

func makeHyperlink(url, text string) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// Render writes ev.
func (o *Output) Render(ev Event) {
	switch ev := ev.(type) {
	case StartEvent:
		o.Infof("Searching %d location(s) for %s, copying into %s",
			len(ev.Roots), o.cyan(ev.Term), o.white(ev.OutputDir))
	case ProgressEvent:
		o.Copied(ev)
	case FailureEvent:
		if o.verbose {
			o.Warningf("%s: %v", o.red(ev.Path), ev.Err)
		}
	case WarningEvent:
		o.Warningf("%v", ev.Err)
	case DoneEvent:
		o.Done(ev.Outcome)
	}
}

// Copied writes the destination of a copied file.
func (o *Output) Copied(ev ProgressEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	formatted := o.green(ev.Dest)
	if o.hyperlinks {
		formatted = makeHyperlink(fileURL(ev.Dest), formatted)
	}

	fmt.Fprintf(o.stdout, "%s\n", formatted)
}

// Done writes the final summary.
func (o *Output) Done(outcome Outcome) {
	reason := "search finished"
	if outcome.LimitReached {
		reason = "limit reached"
	}

	noun := "files"
	if outcome.Copied == 1 {
		noun = "file"
	}

	dir := o.white(outcome.OutputDir)
	if o.hyperlinks {
		dir = makeHyperlink(fileURL(outcome.OutputDir), dir)
	}

	o.Infof("Copied %d %s to %s (%s)", outcome.Copied, noun, dir, reason)
}

// Warningf writes a formatted warning message to stderr.
func (o *Output) Warningf(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, o.yellow("Warning: ")+format+"\n", args...)
}

// Infof writes a formatted informational message to stderr.
func (o *Output) Infof(format string, args ...any) {
	o.mu.Lock()
	defer o.mu.Unlock()
	fmt.Fprintf(o.stderr, format+"\n", args...)
}

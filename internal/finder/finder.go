// Package finder runs a search: it validates the request, prepares the
// output directory, drives the scanner, and reports progress as events.
package finder

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jparise/busqueda/internal/filelock"
	"github.com/jparise/busqueda/internal/match"
	"github.com/jparise/busqueda/internal/scanner"
)

var (
	// ErrEmptyTerm is returned for a term with nothing left to match after
	// trimming and normalization.
	ErrEmptyTerm = errors.New("search term is empty")

	// ErrInvalidLimit is returned for a result ceiling below one.
	ErrInvalidLimit = errors.New("limit must be a positive integer")

	// ErrSearchInProgress is returned when another search holds the lock.
	ErrSearchInProgress = errors.New("another search is already running")
)

// Outcome is the result of a finished search.
type Outcome struct {
	Copied       int
	OutputDir    string
	LimitReached bool // false means every root was walked to the end
}

// Finder orchestrates a search.
type Finder struct {
	paths      Paths
	exclusions scanner.ExclusionSet
	scanner    *scanner.Scanner
	opener     Opener
	lock       *filelock.FileLock
}

// New creates a Finder. exclusions is shared by every search the Finder
// runs. opener may be nil. lockPath names the file used to keep searches
// from overlapping; an empty path disables locking.
func New(paths Paths, exclusions scanner.ExclusionSet, opener Opener, lockPath string) *Finder {
	f := &Finder{
		paths:      paths,
		exclusions: exclusions,
		scanner:    scanner.New(),
		opener:     opener,
	}
	if lockPath != "" {
		f.lock = filelock.New(lockPath)
	}
	return f
}

// Run executes one search and returns its outcome. Events are passed to
// emit, in order, from the calling goroutine.
//
// Validation errors are returned before anything is created on disk. A lock
// file that cannot be set up is reported as a WarningEvent. Files
// that cannot be copied and directories that cannot be read do not fail the
// search. Opening the output directory is best effort.
func (f *Finder) Run(ctx context.Context, opts *Options, emit func(Event)) (Outcome, error) {
	if emit == nil {
		emit = func(Event) {}
	}

	query := match.Compile(strings.TrimSpace(opts.Term))
	if query.Empty() {
		return Outcome{}, ErrEmptyTerm
	}
	if opts.Limit < 1 {
		return Outcome{}, fmt.Errorf("%w, got %d", ErrInvalidLimit, opts.Limit)
	}

	if f.lock != nil {
		acquired, err := f.lock.TryLock()
		switch {
		case err != nil:
			// Only a held lock refuses a search.
			emit(WarningEvent{Err: fmt.Errorf("searching without a lock: %w", err)})
		case !acquired:
			return Outcome{}, ErrSearchInProgress
		default:
			defer f.lock.Unlock()
		}
	}

	outputDir := filepath.Join(f.paths.Desktop, OutputDirName(query.String()))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Outcome{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	emit(StartEvent{
		Term:      query.String(),
		OutputDir: outputDir,
		Roots:     f.paths.Roots,
	})

	res, err := f.scanner.Scan(ctx, &scanner.Options{
		Roots:           f.paths.Roots,
		Exclusions:      f.exclusions,
		ExcludePatterns: opts.ExcludePatterns,
		SkipPaths:       []string{outputDir},
		Category:        opts.Category,
		Query:           query,
		Limit:           opts.Limit,
		Dest:            outputDir,
		MinSize:         opts.MinSize,
		MaxSize:         opts.MaxSize,
		ChangedAfter:    opts.ChangedAfter,
		ChangedBefore:   opts.ChangedBefore,
		OnCopy: func(p scanner.Progress) {
			emit(ProgressEvent{Copied: p.Copied, Source: p.Source, Dest: p.Dest})
		},
		OnError: func(path string, err error) {
			emit(FailureEvent{Path: path, Err: err})
		},
	})

	outcome := Outcome{
		Copied:       res.Copied,
		OutputDir:    outputDir,
		LimitReached: res.LimitReached,
	}
	if err != nil {
		return outcome, err
	}

	emit(DoneEvent{Outcome: outcome})

	if opts.Open && f.opener != nil {
		_ = f.opener.Open(outputDir)
	}

	return outcome, nil
}

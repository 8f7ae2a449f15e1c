// Package scanner walks directory trees looking for files whose names match
// a search term and copies each hit into an output directory, stopping once
// a result ceiling is reached.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jparise/busqueda/internal/category"
	"github.com/jparise/busqueda/internal/copier"
	"github.com/jparise/busqueda/internal/match"
)

// ExclusionSet holds directory names that are never entered, at any depth.
type ExclusionSet map[string]struct{}

// DefaultExclusions returns the built-in set of cache, VCS and operating
// system directories.
func DefaultExclusions() ExclusionSet {
	return NewExclusionSet(
		".cache", ".local", "node_modules", ".git", "__pycache__",
		"Windows", "Program Files", "Program Files (x86)",
	)
}

// NewExclusionSet builds a set from directory names.
func NewExclusionSet(names ...string) ExclusionSet {
	s := make(ExclusionSet, len(names))
	for _, name := range names {
		s[name] = struct{}{}
	}
	return s
}

// With returns a copy of the set extended with names.
func (s ExclusionSet) With(names ...string) ExclusionSet {
	out := make(ExclusionSet, len(s)+len(names))
	for name := range s {
		out[name] = struct{}{}
	}
	for _, name := range names {
		out[name] = struct{}{}
	}
	return out
}

// Contains reports whether name is excluded.
func (s ExclusionSet) Contains(name string) bool {
	_, ok := s[name]
	return ok
}

// Progress describes one successful copy.
type Progress struct {
	Copied int    // Running total, including this copy
	Source string // Matched file
	Dest   string // Where it was copied to
}

// CopyFunc copies src into dstDir and returns the final destination path.
type CopyFunc func(src, dstDir string) (string, error)

// Options configures a single scan.
type Options struct {
	Roots           []string
	Exclusions      ExclusionSet
	ExcludePatterns []string // doublestar patterns matched against directory names
	SkipPaths       []string // directories skipped by full path
	Category        category.Category
	Query           *match.Query
	Limit           int
	Dest            string     // Output directory
	MinSize         int64      // Minimum file size in bytes (0 = no minimum)
	MaxSize         int64      // Maximum file size in bytes (0 = no maximum)
	ChangedAfter    *time.Time // Files modified after this time (nil = no filter)
	ChangedBefore   *time.Time // Files modified before this time (nil = no filter)

	// OnCopy is called after every successful copy.
	OnCopy func(Progress)
	// OnError is called for every file that matched but could not be copied.
	OnError func(path string, err error)
}

// Result summarizes a finished scan.
type Result struct {
	Copied       int
	LimitReached bool
}

// Scanner performs bounded searches over the filesystem.
type Scanner struct {
	copy CopyFunc

	// visit, if set, sees every path the walk reaches.
	visit func(path string)
}

// New creates a Scanner that copies with copier.CopySafely.
func New() *Scanner {
	return &Scanner{copy: copier.CopySafely}
}

// NewWithCopier creates a Scanner that copies with fn.
func NewWithCopier(fn CopyFunc) *Scanner {
	return &Scanner{copy: fn}
}

// Scan walks each root in order, depth first, copying matching files into
// opts.Dest until opts.Limit copies have succeeded or every root has been
// walked. Roots that do not exist and directories that cannot be read are
// skipped. The only error returned is the context's.
func (s *Scanner) Scan(ctx context.Context, opts *Options) (Result, error) {
	var res Result

	skipPaths := make(map[string]bool, len(opts.SkipPaths))
	for _, p := range opts.SkipPaths {
		if resolved, err := filepath.EvalSymlinks(p); err == nil {
			p = resolved
		}
		skipPaths[filepath.Clean(p)] = true
	}

	for _, root := range opts.Roots {
		if res.Copied >= opts.Limit {
			res.LimitReached = true
			break
		}

		// WalkDir does not follow a symlinked root.
		root, err := filepath.EvalSymlinks(root)
		if err != nil {
			continue
		}
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if err != nil {
				// Unreadable directory or vanished entry: skip it.
				return nil
			}
			if s.visit != nil {
				s.visit(path)
			}

			if d.IsDir() {
				if path != root && s.skipDir(path, d.Name(), opts, skipPaths) {
					return filepath.SkipDir
				}
				return nil
			}

			if res.Copied >= opts.Limit {
				res.LimitReached = true
				return filepath.SkipAll
			}

			info, ok := regularFile(path, d)
			if !ok || !s.wanted(d.Name(), info, opts) {
				return nil
			}

			dest, err := s.copy(path, opts.Dest)
			if err != nil {
				if opts.OnError != nil {
					opts.OnError(path, err)
				}
				return nil
			}

			res.Copied++
			if opts.OnCopy != nil {
				opts.OnCopy(Progress{Copied: res.Copied, Source: path, Dest: dest})
			}
			if res.Copied >= opts.Limit {
				res.LimitReached = true
				return filepath.SkipAll
			}
			return nil
		})
		if err != nil {
			return res, err
		}
		if res.LimitReached {
			break
		}
	}

	return res, nil
}

func (s *Scanner) skipDir(path, name string, opts *Options, skipPaths map[string]bool) bool {
	if opts.Exclusions.Contains(name) {
		return true
	}
	if skipPaths[filepath.Clean(path)] {
		return true
	}
	for _, pattern := range opts.ExcludePatterns {
		// Patterns are validated up front; a bad one simply never matches.
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

// wanted applies the name, category, size and time filters.
func (s *Scanner) wanted(name string, info fs.FileInfo, opts *Options) bool {
	if !opts.Query.Matches(name) {
		return false
	}

	_, ext := copier.SplitExt(name)
	if !opts.Category.Accepts(strings.ToLower(ext)) {
		return false
	}

	if opts.MinSize > 0 && info.Size() < opts.MinSize {
		return false
	}
	if opts.MaxSize > 0 && info.Size() > opts.MaxSize {
		return false
	}
	if opts.ChangedAfter != nil && !info.ModTime().After(*opts.ChangedAfter) {
		return false
	}
	if opts.ChangedBefore != nil && !info.ModTime().Before(*opts.ChangedBefore) {
		return false
	}

	return true
}

// regularFile returns the file info for path if it is a regular file or a
// symlink to one. Devices, sockets and pipes are never candidates.
func regularFile(path string, d fs.DirEntry) (fs.FileInfo, bool) {
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, false
		}
		return info, true
	}

	if !d.Type().IsRegular() {
		return nil, false
	}
	info, err := d.Info()
	if err != nil {
		return nil, false
	}
	return info, true
}

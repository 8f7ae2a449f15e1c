package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/jparise/busqueda/internal/category"
	"github.com/jparise/busqueda/internal/config"
	"github.com/jparise/busqueda/internal/filelock"
	"github.com/jparise/busqueda/internal/finder"
	"github.com/jparise/busqueda/internal/scanner"
	"github.com/jparise/busqueda/internal/timeparse"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// colorMode represents when to use colored output.
type colorMode string

const (
	colorAuto   colorMode = "auto"
	colorAlways colorMode = "always"
	colorNever  colorMode = "never"
)

// String is used both by fmt.Print and by Cobra in help text.
func (c *colorMode) String() string {
	return string(*c)
}

// Set must have pointer receiver to validate and set the value.
func (c *colorMode) Set(v string) error {
	switch v {
	case "auto", "always", "never":
		*c = colorMode(v)
		return nil
	default:
		return fmt.Errorf("must be one of \"auto\", \"always\", or \"never\"")
	}
}

// Type is only used in help text.
func (c *colorMode) Type() string {
	return "colorMode"
}

// categoryFlag adapts category.Category to a command-line flag.
type categoryFlag category.Category

func (c *categoryFlag) String() string {
	return category.Category(*c).String()
}

func (c *categoryFlag) Set(v string) error {
	cat, err := category.Parse(v)
	if err != nil {
		return err
	}
	*c = categoryFlag(cat)
	return nil
}

func (c *categoryFlag) Type() string {
	return "type"
}

var (
	version = "dev"

	// Flags.
	color         = colorAuto
	fileType      = categoryFlag(category.All)
	limit         int
	excludes      []string
	minSize       string
	maxSize       string
	changedAfter  string
	changedBefore string
	outputDir     string
	noOpen        bool
	configPath    string
	verbose       bool
)

var rootCmd = &cobra.Command{
	Use:   "busqueda [flags] <term>...",
	Short: "Find files by name and copy them to a folder on your desktop",
	Long: `busqueda searches your home directory (and /media and /mnt on Linux and
macOS) for files whose names loosely match <term>, and copies up to --limit
of them into a new folder named Busqueda_<term> on your desktop.

Matching ignores case and punctuation, and splits letters from digits:
  stilo          matches stilo1212.png
  stilo1212      matches stilo-1212.jpg and stilo_1212.jpg
  sti 12         matches stilo_final_12.txt

Existing files are never overwritten; a copy whose name is taken gets a
numeric suffix (photo_1.jpg, photo_2.jpg, ...).

Cache, VCS and system directories such as .git, node_modules and
"Program Files" are never searched.

Examples:
  busqueda stilo
  busqueda -t images vacaciones 2023
  busqueda -n 100 -t documents informe
  busqueda --min-size 1M --changed-after 2weeks -t videos boda
  busqueda -E "build*" -E "*.bak" proyecto`,
	Version:       version,
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	PreRunE:       func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("limit") && (limit < 1 || limit > config.MaxLimit) {
			return fmt.Errorf("--limit must be between 1 and %d, got %d", config.MaxLimit, limit)
		}

		for _, pattern := range excludes {
			if !doublestar.ValidatePattern(pattern) {
				return fmt.Errorf("invalid --exclude pattern %q", pattern)
			}
		}

		return nil
	},
	RunE: run,
}

func init() {
	rootCmd.Flags().VarP(&fileType, "type", "t", typeUsage())
	rootCmd.Flags().IntVarP(&limit, "limit", "n", 20,
		fmt.Sprintf("maximum number of files to copy (1-%d)", config.MaxLimit))
	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "E", []string{},
		"skip directories whose name matches a glob (can be specified multiple times)")
	rootCmd.Flags().StringVar(&minSize, "min-size", "",
		"minimum file size (e.g., 1M, 500k, 1GB)")
	rootCmd.Flags().StringVar(&maxSize, "max-size", "",
		"maximum file size (e.g., 5M, 1GB)")
	rootCmd.Flags().StringVar(&changedAfter, "changed-after", "",
		"only files modified after a date or within an age (e.g., 2d, 2024-01-31)")
	rootCmd.Flags().StringVar(&changedBefore, "changed-before", "",
		"only files modified before a date or age (e.g., 1w, 2024-01-31)")
	rootCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "",
		"create the results folder here instead of on the desktop")
	rootCmd.Flags().BoolVar(&noOpen, "no-open", false,
		"do not open the results folder when the search ends")
	rootCmd.Flags().Var(&color, "color",
		"colorize output: auto, always, never")
	rootCmd.Flags().StringVar(&configPath, "config", config.DefaultPath(),
		"configuration file")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"report files that could not be copied")
}

// typeUsage describes --type, listing the extensions of each category.
func typeUsage() string {
	var b strings.Builder
	b.WriteString("file type:")
	for i, c := range category.Categories {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte(' ')
		b.WriteString(c.String())
		if exts := c.Extensions(); len(exts) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(exts, " "))
		}
	}
	return b.String()
}

func Execute() error {
	return rootCmd.Execute()
}

// parseByteSize parses a human-readable size string into bytes.
// Supports formats like "1M", "500k", "1.5G", "1024" (plain bytes).
// Units are case-insensitive and use binary (1024-based) multipliers.
func parseByteSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size string")
	}

	// Find where the unit starts (last non-digit character)
	i := len(s) - 1
	for i >= 0 && !unicode.IsDigit(rune(s[i])) && s[i] != '.' {
		i--
	}

	numStr := s[:i+1]
	num, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", numStr, err)
	}
	if num < 0 {
		return 0, fmt.Errorf("size cannot be negative")
	}

	unit := strings.ToLower(strings.TrimSpace(s[i+1:]))
	var multiplier float64
	switch unit {
	case "", "b":
		multiplier = 1
	case "k", "kb", "kib":
		multiplier = 1024
	case "m", "mb", "mib":
		multiplier = 1024 * 1024
	case "g", "gb", "gib":
		multiplier = 1024 * 1024 * 1024
	case "t", "tb", "tib":
		multiplier = 1024 * 1024 * 1024 * 1024
	case "p", "pb", "pib":
		multiplier = 1024 * 1024 * 1024 * 1024 * 1024
	default:
		return 0, fmt.Errorf("unknown unit %q (supported: b, k, m, g, t, p)", unit)
	}

	result := num * multiplier
	if result > float64(math.MaxInt64) {
		return 0, fmt.Errorf("size too large (exceeds max int64)")
	}

	return int64(result), nil
}

// parseArgs joins the positional arguments into the search term, so that
// `busqueda sti 12` and `busqueda "sti 12"` are the same search.
func parseArgs(args []string) (string, error) {
	term := strings.TrimSpace(strings.Join(args, " "))
	if term == "" {
		return "", fmt.Errorf("a search term is required")
	}
	return term, nil
}

// applyConfig fills in settings from cfg for every flag the user did not
// set explicitly.
func applyConfig(cfg *config.Config, changed func(name string) bool) {
	if !changed("limit") {
		limit = cfg.Limit
	}
	if !changed("type") {
		fileType = categoryFlag(cfg.CategoryFilter())
	}
	if !changed("output-dir") {
		outputDir = cfg.OutputDir
	}
	if !changed("no-open") {
		noOpen = !cfg.Open
	}
	excludes = append(excludes, cfg.ExcludePatterns...)
}

// parseSizeRange validates the --min-size and --max-size flags.
func parseSizeRange(minStr, maxStr string) (minBytes, maxBytes int64, err error) {
	if minStr != "" {
		minBytes, err = parseByteSize(minStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --min-size %q: %w", minStr, err)
		}
		if minBytes == 0 {
			return 0, 0, fmt.Errorf("--min-size must be greater than 0")
		}
	}

	if maxStr != "" {
		maxBytes, err = parseByteSize(maxStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid --max-size %q: %w", maxStr, err)
		}
		if maxBytes == 0 {
			return 0, 0, fmt.Errorf("--max-size must be greater than 0")
		}
	}

	if minBytes > 0 && maxBytes > 0 && minBytes > maxBytes {
		return 0, 0, fmt.Errorf("--min-size cannot be greater than --max-size")
	}

	return minBytes, maxBytes, nil
}

// parseTimeRange validates the --changed-after and --changed-before flags.
func parseTimeRange(afterStr, beforeStr string, now time.Time) (after, before *time.Time, err error) {
	if afterStr != "" {
		t, err := timeparse.ParseCutoff(afterStr, now)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --changed-after: %w", err)
		}
		after = &t
	}

	if beforeStr != "" {
		t, err := timeparse.ParseCutoff(beforeStr, now)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid --changed-before: %w", err)
		}
		before = &t
	}

	if after != nil && before != nil && !after.Before(*before) {
		return nil, nil, fmt.Errorf("--changed-after must be earlier than --changed-before")
	}

	return after, before, nil
}

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	searchTerm, err := parseArgs(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyConfig(cfg, cmd.Flags().Changed)

	minSizeBytes, maxSizeBytes, err := parseSizeRange(minSize, maxSize)
	if err != nil {
		return err
	}

	after, before, err := parseTimeRange(changedAfter, changedBefore, time.Now())
	if err != nil {
		return err
	}

	var colorize, hyperlinks bool
	terminal := term.FromEnv()
	switch color {
	case colorAlways:
		colorize = true
	case colorNever:
		colorize = false
	case colorAuto:
		colorize = terminal.IsColorEnabled()
	}
	hyperlinks = colorize && terminal.IsTerminalOutput()

	paths, err := finder.DefaultPaths()
	if err != nil {
		return err
	}
	if outputDir != "" {
		paths.Desktop = outputDir
	}
	if len(cfg.Roots) > 0 {
		paths.Roots = cfg.Roots
	}

	exclusions := scanner.DefaultExclusions().With(cfg.ExcludeDirs...)
	opener := finder.NewBrowserOpener(io.Discard, io.Discard)
	f := finder.New(paths, exclusions, opener, filelock.DefaultPath())

	opts := &finder.Options{
		Term:            searchTerm,
		Category:        category.Category(fileType),
		Limit:           limit,
		ExcludePatterns: excludes,
		MinSize:         minSizeBytes,
		MaxSize:         maxSizeBytes,
		ChangedAfter:    after,
		ChangedBefore:   before,
		Open:            !noOpen,
	}

	out := finder.NewOutput(cmd.OutOrStdout(), cmd.ErrOrStderr(), colorize, hyperlinks, verbose)
	return search(ctx, f, opts, out)
}

// search runs f on a background goroutine and renders its events on
// another until the search ends.
func search(ctx context.Context, f *finder.Finder, opts *finder.Options, out *finder.Output) error {
	events := make(chan finder.Event, 64)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		_, err := f.Run(ctx, opts, func(ev finder.Event) {
			events <- ev
		})
		return err
	})
	g.Go(func() error {
		for ev := range events {
			out.Render(ev)
		}
		return nil
	})

	return g.Wait()
}

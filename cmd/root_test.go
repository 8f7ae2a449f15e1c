package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jparise/busqueda/internal/category"
	"github.com/jparise/busqueda/internal/config"
	"github.com/jparise/busqueda/internal/finder"
	"github.com/jparise/busqueda/internal/scanner"
)

func TestColorMode(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		want    colorMode
	}{
		{
			name:    "auto",
			value:   "auto",
			wantErr: false,
			want:    colorAuto,
		},
		{
			name:    "always",
			value:   "always",
			wantErr: false,
			want:    colorAlways,
		},
		{
			name:    "never",
			value:   "never",
			wantErr: false,
			want:    colorNever,
		},
		{
			name:    "invalid value",
			value:   "invalid",
			wantErr: true,
		},
		{
			name:    "empty string",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c colorMode
			err := c.Set(tt.value)

			if tt.wantErr {
				if err == nil {
					t.Errorf("colorMode.Set(%q) expected error, got nil", tt.value)
				}
				return
			}

			if err != nil {
				t.Errorf("colorMode.Set(%q) unexpected error: %v", tt.value, err)
				return
			}

			if c != tt.want {
				t.Errorf("colorMode.Set(%q) = %v, want %v", tt.value, c, tt.want)
			}

			// Test String() method
			if c.String() != tt.value {
				t.Errorf("colorMode.String() = %q, want %q", c.String(), tt.value)
			}

			// Test Type() method
			if c.Type() != "colorMode" {
				t.Errorf("colorMode.Type() = %q, want %q", c.Type(), "colorMode")
			}
		})
	}
}

func TestCategoryFlag(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
		want    category.Category
	}{
		{name: "all", value: "all", want: category.All},
		{name: "images", value: "images", want: category.Images},
		{name: "spanish", value: "Música", want: category.Audio},
		{name: "invalid", value: "archives", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c categoryFlag
			err := c.Set(tt.value)

			if tt.wantErr {
				if err == nil {
					t.Errorf("categoryFlag.Set(%q) expected error, got nil", tt.value)
				}
				return
			}

			if err != nil {
				t.Errorf("categoryFlag.Set(%q) unexpected error: %v", tt.value, err)
				return
			}

			if category.Category(c) != tt.want {
				t.Errorf("categoryFlag.Set(%q) = %v, want %v", tt.value, c.String(), tt.want)
			}
			if c.String() != tt.want.String() {
				t.Errorf("categoryFlag.String() = %q, want %q", c.String(), tt.want.String())
			}
		})
	}
}

func TestTypeUsage(t *testing.T) {
	got := typeUsage()

	for _, want := range []string{
		"file type: all, images (",
		".jpg .jpeg .png",
		"videos (.mp4",
		"audio (.mp3",
		"documents (.pdf",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("typeUsage() = %q, want to contain %q", got, want)
		}
	}
	if strings.Contains(got, "all (") {
		t.Errorf("typeUsage() = %q, want no extensions listed for all", got)
	}
}

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr bool
	}{
		{name: "no args", args: []string{}, wantErr: true},
		{name: "blank arg", args: []string{"  "}, wantErr: true},
		{name: "single word", args: []string{"stilo"}, want: "stilo"},
		{name: "quoted phrase", args: []string{"sti 12"}, want: "sti 12"},
		{name: "several words", args: []string{"sti", "12"}, want: "sti 12"},
		{name: "surrounding space", args: []string{" stilo "}, want: "stilo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseArgs(tt.args)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseArgs(%v) expected error, got nil", tt.args)
				}
				return
			}

			if err != nil {
				t.Errorf("parseArgs(%v) unexpected error: %v", tt.args, err)
				return
			}

			if got != tt.want {
				t.Errorf("parseArgs(%v) = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestApplyConfig(t *testing.T) {
	saved := struct {
		limit     int
		fileType  categoryFlag
		outputDir string
		noOpen    bool
		excludes  []string
	}{limit, fileType, outputDir, noOpen, excludes}
	t.Cleanup(func() {
		limit, fileType, outputDir, noOpen, excludes =
			saved.limit, saved.fileType, saved.outputDir, saved.noOpen, saved.excludes
	})

	cfg := &config.Config{
		Limit:           50,
		Category:        "videos",
		OutputDir:       "/srv/out",
		ExcludePatterns: []string{"tmp*"},
		Open:            false,
	}

	t.Run("config fills unset flags", func(t *testing.T) {
		limit, fileType, outputDir, noOpen, excludes = 20, categoryFlag(category.All), "", false, nil

		applyConfig(cfg, func(string) bool { return false })

		if limit != 50 {
			t.Errorf("limit = %d, want 50", limit)
		}
		if category.Category(fileType) != category.Videos {
			t.Errorf("type = %v, want videos", fileType.String())
		}
		if outputDir != "/srv/out" {
			t.Errorf("output dir = %q, want /srv/out", outputDir)
		}
		if !noOpen {
			t.Error("noOpen = false, want true")
		}
		if len(excludes) != 1 || excludes[0] != "tmp*" {
			t.Errorf("excludes = %v, want [tmp*]", excludes)
		}
	})

	t.Run("flags win", func(t *testing.T) {
		limit, fileType, outputDir, noOpen, excludes = 5, categoryFlag(category.Images), "/mine", false, []string{"build"}

		applyConfig(cfg, func(string) bool { return true })

		if limit != 5 {
			t.Errorf("limit = %d, want 5", limit)
		}
		if category.Category(fileType) != category.Images {
			t.Errorf("type = %v, want images", fileType.String())
		}
		if outputDir != "/mine" {
			t.Errorf("output dir = %q, want /mine", outputDir)
		}
		if noOpen {
			t.Error("noOpen = true, want false")
		}
		if len(excludes) != 2 {
			t.Errorf("excludes = %v, want flag and config patterns", excludes)
		}
	})
}

func TestParseSizeRange(t *testing.T) {
	tests := []struct {
		name    string
		min     string
		max     string
		wantMin int64
		wantMax int64
		wantErr bool
	}{
		{name: "none"},
		{name: "min only", min: "1k", wantMin: 1024},
		{name: "max only", max: "1m", wantMax: 1048576},
		{name: "both", min: "1k", max: "2k", wantMin: 1024, wantMax: 2048},
		{name: "zero min", min: "0", wantErr: true},
		{name: "zero max", max: "0b", wantErr: true},
		{name: "min above max", min: "2k", max: "1k", wantErr: true},
		{name: "invalid", min: "lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMin, gotMax, err := parseSizeRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseSizeRange(%q, %q) error = %v, wantErr %v", tt.min, tt.max, err, tt.wantErr)
				return
			}
			if !tt.wantErr && (gotMin != tt.wantMin || gotMax != tt.wantMax) {
				t.Errorf("parseSizeRange(%q, %q) = (%d, %d), want (%d, %d)",
					tt.min, tt.max, gotMin, gotMax, tt.wantMin, tt.wantMax)
			}
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		after      string
		before     string
		wantAfter  *time.Time
		wantBefore *time.Time
		wantErr    bool
	}{
		{name: "none"},
		{
			name:      "relative after",
			after:     "2d",
			wantAfter: ptr(time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:       "absolute before",
			before:     "2024-01-01",
			wantBefore: ptr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		},
		{name: "inverted", after: "2024-02-01", before: "2024-01-01", wantErr: true},
		{name: "invalid after", after: "soon", wantErr: true},
		{name: "invalid before", before: "2x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after, before, err := parseTimeRange(tt.after, tt.before, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("parseTimeRange() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if !equalTimes(after, tt.wantAfter) {
				t.Errorf("parseTimeRange() after = %v, want %v", after, tt.wantAfter)
			}
			if !equalTimes(before, tt.wantBefore) {
				t.Errorf("parseTimeRange() before = %v, want %v", before, tt.wantBefore)
			}
		})
	}
}

func ptr(t time.Time) *time.Time {
	return &t
}

func equalTimes(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func TestSearch(t *testing.T) {
	root := t.TempDir()
	desktop := t.TempDir()
	for _, rel := range []string{"a/stilo12.txt", "a/.git/stilo13.txt", "b/other.txt"} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(rel), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	f := finder.New(finder.Paths{Desktop: desktop, Roots: []string{root}}, scanner.DefaultExclusions(), nil, "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	out := finder.NewOutput(stdout, stderr, false, false, false)

	err := search(context.Background(), f, &finder.Options{Term: "stilo", Limit: 10}, out)
	if err != nil {
		t.Fatalf("search() unexpected error: %v", err)
	}

	wantDest := filepath.Join(desktop, "Busqueda_stilo", "stilo12.txt")
	if got := strings.TrimSpace(stdout.String()); got != wantDest {
		t.Errorf("stdout = %q, want %q", got, wantDest)
	}
	if !strings.Contains(stderr.String(), "Copied 1 file") {
		t.Errorf("stderr = %q, want a summary", stderr.String())
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	desktop := t.TempDir()
	f := finder.New(finder.Paths{Desktop: desktop, Roots: []string{t.TempDir()}}, scanner.DefaultExclusions(), nil, "")
	out := finder.NewOutput(&bytes.Buffer{}, &bytes.Buffer{}, false, false, false)

	err := search(context.Background(), f, &finder.Options{Term: "   ", Limit: 10}, out)
	if err == nil {
		t.Fatal("search() expected error, got nil")
	}

	entries, _ := os.ReadDir(desktop)
	if len(entries) != 0 {
		t.Errorf("search() created %d entries for an empty term", len(entries))
	}
}

func TestParseByteSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		// Plain bytes
		{name: "plain number", input: "1024", want: 1024},
		{name: "zero", input: "0", want: 0},
		{name: "bytes suffix", input: "500b", want: 500},
		{name: "bytes uppercase", input: "500B", want: 500},

		// Kilobytes
		{name: "kilobytes", input: "1k", want: 1024},
		{name: "kilobytes kb", input: "10kb", want: 10240},
		{name: "kilobytes uppercase", input: "5K", want: 5120},
		{name: "kilobytes kib", input: "2kib", want: 2048},
		{name: "kilobytes uppercase KB", input: "3KB", want: 3072},

		// Megabytes
		{name: "megabytes", input: "1m", want: 1048576},
		{name: "megabytes mb", input: "5mb", want: 5242880},
		{name: "megabytes uppercase", input: "2M", want: 2097152},
		{name: "megabytes MiB", input: "3MiB", want: 3145728},

		// Gigabytes
		{name: "gigabytes", input: "1g", want: 1073741824},
		{name: "gigabytes gb", input: "2gb", want: 2147483648},
		{name: "gigabytes uppercase", input: "1G", want: 1073741824},
		{name: "gigabytes GiB", input: "1GiB", want: 1073741824},

		// Terabytes
		{name: "terabytes", input: "1t", want: 1099511627776},
		{name: "terabytes tb", input: "2tb", want: 2199023255552},
		{name: "terabytes TiB", input: "1TiB", want: 1099511627776},

		// Petabytes
		{name: "petabytes", input: "1p", want: 1125899906842624},
		{name: "petabytes pb", input: "1pb", want: 1125899906842624},
		{name: "petabytes PiB", input: "1PiB", want: 1125899906842624},

		// Decimal numbers
		{name: "decimal kilobytes", input: "1.5k", want: 1536},
		{name: "decimal megabytes", input: "2.5m", want: 2621440},
		{name: "decimal gigabytes", input: "0.5g", want: 536870912},

		// Whitespace handling
		{name: "leading whitespace", input: "  10m", want: 10485760},
		{name: "trailing whitespace", input: "10m  ", want: 10485760},
		{name: "whitespace around", input: "  10m  ", want: 10485760},
		{name: "whitespace before unit", input: "10 m", want: 10485760},

		// Error cases
		{name: "empty string", input: "", wantErr: true},
		{name: "invalid number", input: "abc", wantErr: true},
		{name: "invalid unit", input: "10x", wantErr: true},
		{name: "negative number", input: "-10m", wantErr: true},
		{name: "just a unit", input: "mb", wantErr: true},
		{name: "multiple decimals", input: "1.5.5m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseByteSize(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("parseByteSize(%q) expected error, got nil", tt.input)
				}
				return
			}

			if err != nil {
				t.Errorf("parseByteSize(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("parseByteSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

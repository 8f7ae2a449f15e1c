package finder

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// OutputDirPrefix starts the name of every result directory.
const OutputDirPrefix = "Busqueda_"

// mountRoots are scanned in addition to the home directory, when present,
// on platforms other than Windows.
var mountRoots = []string{"/media", "/mnt"}

// Paths locates the directories a search reads from and writes to.
type Paths struct {
	Desktop string   // Parent of result directories
	Roots   []string // Directories to search, in order
}

// DefaultPaths resolves the current user's desktop and search roots.
func DefaultPaths() (Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Paths{}, fmt.Errorf("failed to find home directory: %w", err)
	}

	return Paths{
		Desktop: resolveDesktop(runtime.GOOS, home, xdgDesktopDir(home)),
		Roots:   resolveRoots(runtime.GOOS, home, mountRoots),
	}, nil
}

// OutputDirName derives the result directory name from a normalized term.
func OutputDirName(normalized string) string {
	return OutputDirPrefix + strings.ReplaceAll(normalized, " ", "_")
}

func resolveRoots(goos, home string, mounts []string) []string {
	roots := []string{home}
	if goos == "windows" {
		return roots
	}
	for _, m := range mounts {
		if info, err := os.Stat(m); err == nil && info.IsDir() {
			roots = append(roots, m)
		}
	}
	return roots
}

func resolveDesktop(goos, home, xdg string) string {
	if goos == "windows" {
		return filepath.Join(home, "Desktop")
	}
	if xdg != "" {
		return xdg
	}

	for _, name := range []string{"Escritorio", "Desktop"} {
		dir := filepath.Join(home, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return filepath.Join(home, "Escritorio")
}

// xdgDesktopDir returns the XDG desktop directory from the environment or
// from ~/.config/user-dirs.dirs, or "" if neither names one.
func xdgDesktopDir(home string) string {
	if dir := os.Getenv("XDG_DESKTOP_DIR"); dir != "" {
		return dir
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	f, err := os.Open(filepath.Join(configHome, "user-dirs.dirs"))
	if err != nil {
		return ""
	}
	defer f.Close()

	return parseUserDirs(bufio.NewScanner(f), home)
}

func parseUserDirs(sc *bufio.Scanner, home string) string {
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		value, ok := strings.CutPrefix(line, "XDG_DESKTOP_DIR=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		value = strings.Replace(value, "$HOME", home, 1)
		// A desktop equal to $HOME means "no desktop directory".
		if value == "" || filepath.Clean(value) == filepath.Clean(home) {
			return ""
		}
		return value
	}
	return ""
}

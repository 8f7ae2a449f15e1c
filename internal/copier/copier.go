// Package copier copies files into a directory without ever overwriting an
// existing entry.
package copier

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// maxAttempts bounds the suffix probe so a directory full of collisions
// cannot spin forever.
const maxAttempts = 100000

// CopySafely copies the file at src into dstDir and returns the path it was
// written to.
//
// The destination is dstDir/<base name of src>. If that entry exists, the
// first free name of the form <stem>_<n><ext> (n = 1, 2, ...) is used
// instead. Destinations are created exclusively, so an existing file is
// never overwritten. File content, permission bits and modification time are
// preserved.
func CopySafely(src, dstDir string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: not a regular file", src)
	}

	out, dst, err := createUnique(dstDir, filepath.Base(src), info.Mode().Perm())
	if err != nil {
		return "", err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return "", fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// Metadata is best kept but its loss does not invalidate the copy.
	_ = os.Chmod(dst, info.Mode().Perm())
	_ = os.Chtimes(dst, info.ModTime(), info.ModTime())

	return dst, nil
}

// createUnique creates the first free candidate name for base in dir.
func createUnique(dir, base string, perm fs.FileMode) (*os.File, string, error) {
	stem, ext := SplitExt(base)
	// The copy needs write access even if the source is read-only.
	perm |= 0o200

	for n := 0; n < maxAttempts; n++ {
		name := base
		if n > 0 {
			name = stem + "_" + strconv.Itoa(n) + ext
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
		if err == nil {
			return f, path, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}

	return nil, "", fmt.Errorf("no free name for %s in %s", base, dir)
}

// SplitExt splits a file name into stem and extension. The extension keeps
// its leading dot. Dotfiles such as ".bashrc" and names ending in a bare dot
// have no extension.
func SplitExt(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	if ext == name || ext == "." {
		return name, ""
	}
	return name[:len(name)-len(ext)], ext
}

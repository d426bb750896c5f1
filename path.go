package vinyl

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/mwantia/vinyl/data"
)

// Path returns the current path, the last entry of the history.
// It is empty when no path was ever assigned.
func (f *File) Path() string {
	if len(f.history) == 0 {
		return ""
	}

	return f.history[len(f.history)-1]
}

// SetPath records p as the new current path. Assigning the current path
// again, or an empty path, does not change the history.
func (f *File) SetPath(p string) {
	f.history = appendPath(f.history, p)
}

// History returns a copy of every path this file was assigned, oldest first.
func (f *File) History() []string {
	return slices.Clone(f.history)
}

// Relative returns the current path relative to the base directory.
// Relative inputs are resolved against the working directory first.
func (f *File) Relative() (string, error) {
	if f.base == "" {
		return "", ErrMissingBase
	}

	p := f.Path()
	if p == "" {
		return "", ErrMissingPath
	}

	rel, err := filepath.Rel(f.resolve(f.base), f.resolve(p))
	if err != nil {
		return "", fmt.Errorf("vinyl: can not relativize '%s' to '%s': %w", p, f.base, err)
	}

	return rel, nil
}

// SetRelative always fails: the relative path is derived from base and path.
func (f *File) SetRelative(string) error {
	return ErrImmutableDerivedField
}

// Basename returns the last element of the current path.
// For a file "/foo/bar/file.txt", this returns "file.txt".
func (f *File) Basename() string {
	p := f.Path()
	if p == "" {
		return ""
	}

	return filepath.Base(p)
}

// Dirname returns the directory portion of the current path.
// For a file "/foo/bar/file.txt", this returns "/foo/bar".
func (f *File) Dirname() string {
	p := f.Path()
	if p == "" {
		return ""
	}

	return filepath.Dir(p)
}

// Extname returns the extension of the current path including the dot.
// Returns empty string if there is no extension.
func (f *File) Extname() string {
	return filepath.Ext(f.Path())
}

// Stem returns the base name without its extension.
func (f *File) Stem() string {
	return strings.TrimSuffix(f.Basename(), f.Extname())
}

// ContentType guesses the MIME type from the current path extension.
func (f *File) ContentType() data.ContentType {
	return data.GetMIMEType(f.Path())
}

func (f *File) resolve(p string) string {
	if filepath.IsAbs(p) || f.cwd == "" {
		return filepath.Clean(p)
	}

	return filepath.Join(f.cwd, p)
}

func appendPath(history []string, p string) []string {
	if p == "" {
		return history
	}
	if len(history) > 0 && history[len(history)-1] == p {
		return history
	}

	return append(history, p)
}

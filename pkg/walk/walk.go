// Package walk enumerates the files below a log directory.
package walk

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// Entry is one descendant of the walked root.
type Entry struct {
	Path string
	Type fs.FileMode
}

func (e Entry) IsRegular() bool {
	return e.Type.IsRegular()
}

// Readable filters out directories and other special files. Symbolic
// links count when they resolve to a regular file; dangling ones are
// left for the open to report.
func (e Entry) Readable() bool {
	if e.IsRegular() {
		return true
	}
	if e.Type&fs.ModeSymlink == 0 {
		return false
	}
	fi, err := os.Stat(e.Path)
	return err != nil || fi.Mode().IsRegular()
}

type options struct {
	include []string
}

type Option func(*options)

// WithInclude only yields entries whose slash-separated path relative to
// the root matches one of patterns, e.g. "**/*.log".
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.include = append(o.include, patterns...)
	}
}

var ErrBadPattern = doublestar.ErrBadPattern

// Walk calls fn for every entry below root in lexical order; root itself
// is not yielded. Symbolic links are yielded but never followed, so link
// loops do not recurse. The first traversal error, or an error returned
// by fn, stops the walk and is returned.
func Walk(root string, fn func(Entry) error, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	for _, p := range o.include {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("%w: %q", ErrBadPattern, p)
		}
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("walk %s: %w", root, err)
		}
		if path == root {
			return nil
		}
		if len(o.include) > 0 {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !matchAny(o.include, filepath.ToSlash(rel)) {
				return nil
			}
		}
		return fn(Entry{Path: path, Type: d.Type()})
	})
}

// List collects what Walk yields. On error the entries found so far are
// returned along with it.
func List(root string, opts ...Option) ([]Entry, error) {
	var entries []Entry
	err := Walk(root, func(e Entry) error {
		entries = append(entries, e)
		return nil
	}, opts...)
	return entries, err
}

func matchAny(patterns []string, name string) bool {
	for _, p := range patterns {
		// Patterns were validated up front
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// IsNotExist reports whether a Walk error comes from a missing root.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

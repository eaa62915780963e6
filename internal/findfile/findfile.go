// Package findfile implements a recursive file-name search over a directory
// tree. The scan never aborts on unreadable directories: those are surfaced
// through a warning callback and the remainder of the tree is still visited.
package findfile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotExist is returned when the search root does not exist.
var ErrNotExist = errors.New("root does not exist")

// ErrNotDir is returned when the search root is not a directory.
var ErrNotDir = errors.New("root is not a directory")

// Matcher decides whether a candidate path is kept in the result set.
// Returning an error aborts the whole search.
type Matcher func(path string) (bool, error)

// Options tunes a Search beyond the exact-name match.
type Options struct {
	// CaseInsensitive compares file names after lower-casing both sides.
	CaseInsensitive bool
	// MaxResults caps the number of returned paths; 0 means unbounded.
	MaxResults int
	// Filter, when non-nil, is applied to every name match; only paths it
	// accepts are returned. Filter errors abort the search.
	Filter Matcher
	// Warn receives non-fatal scan problems (permission denied, transient
	// readdir failures). Nil discards them.
	Warn func(path string, err error)
}

// Search walks root recursively and returns the paths of all regular files
// whose base name equals target, plus the match count. Hidden directories
// are descended into. An empty target matches nothing.
func Search(root, target string, opts Options) ([]string, int, error) {
	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, fmt.Errorf("%w: %s", ErrNotExist, root)
		}
		return nil, 0, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s", ErrNotDir, root)
	}

	want := target
	if opts.CaseInsensitive {
		want = strings.ToLower(want)
	}

	s := &scanner{opts: opts, want: want}
	if err := s.walk(root); err != nil && !errors.Is(err, errLimit) {
		return nil, 0, err
	}
	return s.found, len(s.found), nil
}

// errLimit is an internal signal used to stop the walk once MaxResults is hit.
var errLimit = errors.New("result limit reached")

type scanner struct {
	opts  Options
	want  string
	found []string
}

func (s *scanner) walk(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		s.warn(dir, err)
		return nil
	}
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		if entry.IsDir() || isDirSymlink(full, entry) {
			if err := s.walk(full); err != nil {
				return err
			}
			continue
		}
		if s.want == "" {
			continue
		}
		name := entry.Name()
		if s.opts.CaseInsensitive {
			name = strings.ToLower(name)
		}
		if name != s.want {
			continue
		}
		if s.opts.Filter != nil {
			keep, err := s.opts.Filter(full)
			if err != nil {
				return fmt.Errorf("filter %s: %w", full, err)
			}
			if !keep {
				continue
			}
		}
		s.found = append(s.found, full)
		if s.opts.MaxResults > 0 && len(s.found) >= s.opts.MaxResults {
			return errLimit
		}
	}
	return nil
}

func (s *scanner) warn(path string, err error) {
	if s.opts.Warn != nil {
		s.opts.Warn(path, err)
	}
}

// isDirSymlink reports whether entry is a symlink that resolves to a
// directory, so symlinked trees are searched like the original dirs.
func isDirSymlink(full string, entry os.DirEntry) bool {
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

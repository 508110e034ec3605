package data

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

// ErrNotFixable is returned when fixing a parameter absent from the filename pattern.
var ErrNotFixable = errors.New("parameter cannot be fixed")

// FinderSourceClass is the class of FinderSource.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var FinderSourceClass = NewClass("FinderSource", nil, SourceClass, CachedClass)

// Finder scans a directory for files matching a filename pattern whose varying
// parts are named groups.
type Finder interface {
	// GroupNames returns the names of the groups, possibly with duplicates.
	GroupNames() []string
	// FixGroup restricts a group to a value or to a list of values.
	FixGroup(name string, value any) error
	// FixedValue returns the value a group is fixed to.
	FixedValue(name string) (any, bool)
	// Files returns the files matching the pattern and the fixed groups.
	Files() ([]string, error)
	// MakeFilename returns the filename for the given values of the groups.
	MakeFilename(fixes map[string]any, relative bool) (string, error)
}

// FinderFactory builds a Finder from a root directory and a filename pattern.
type FinderFactory func(root, pattern string) (Finder, error)

// FinderSource finds files with a Finder. Groups of the filename pattern are fixed
// to the value of the parameter of the same name, when it is set and not nil.
// The finder and the files found are cached.
type FinderSource struct {
	Base
	Cache

	NewFinder       FinderFactory
	RootDirectory   DirFunc
	FilenamePattern DirFunc
}

// FinderSourceOf returns a constructor of a finder source.
func FinderSourceOf(factory FinderFactory, root, pattern DirFunc) Constructor {
	return func(*Interface, Args) (Module, error) {
		return &FinderSource{NewFinder: factory, RootDirectory: root, FilenamePattern: pattern}, nil
	}
}

// Class returns FinderSourceClass.
func (s *FinderSource) Class() *Class { return FinderSourceClass }

// Finder returns the finder, with groups fixed to the current parameters.
func (s *FinderSource) Finder() (Finder, error) {
	return Autocached(&s.Cache, "finder", func() (Finder, error) {
		root, err := s.RootDirectory(s.di)
		if err != nil {
			return nil, fmt.Errorf("root directory: %w", err)
		}

		pattern, err := s.FilenamePattern(s.di)
		if err != nil {
			return nil, fmt.Errorf("filename pattern: %w", err)
		}

		finder, err := s.NewFinder(root, pattern)
		if err != nil {
			return nil, err
		}

		params := s.Parameters()
		if params == nil {
			return finder, nil
		}

		for _, name := range unique(finder.GroupNames()) {
			v := params.GetOr(name, nil)
			if v == nil {
				continue
			}

			err = finder.FixGroup(name, v)
			if err != nil {
				return nil, fmt.Errorf("fixing group %q: %w", name, err)
			}
		}

		return finder, nil
	})
}

// Fixable returns the parameters that vary in the filename pattern.
func (s *FinderSource) Fixable() ([]string, error) {
	return Autocached(&s.Cache, "fixable", func() ([]string, error) {
		finder, err := s.Finder()
		if err != nil {
			return nil, err
		}

		return unique(finder.GroupNames()), nil
	})
}

// Unfixed returns the parameters of the filename pattern not fixed to a single
// value: unset, nil, or set to a list of values.
func (s *FinderSource) Unfixed() ([]string, error) {
	return Autocached(&s.Cache, "unfixed", func() ([]string, error) {
		finder, err := s.Finder()
		if err != nil {
			return nil, err
		}

		var out []string

		for _, name := range unique(finder.GroupNames()) {
			v, fixed := finder.FixedValue(name)
			if _, isList := v.([]any); !fixed || v == nil || isList {
				out = append(out, name)
			}
		}

		return out, nil
	})
}

// Datafiles returns the files found.
func (s *FinderSource) Datafiles() ([]string, error) {
	return Autocached(&s.Cache, "datafiles", func() ([]string, error) {
		finder, err := s.Finder()
		if err != nil {
			return nil, err
		}

		return finder.Files()
	})
}

// GetSource returns the files found. An empty list is logged.
func (s *FinderSource) GetSource() ([]string, error) {
	files, err := s.Datafiles()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		slog.Warn("no files found", slog.String("module", s.path))
	}

	return files, nil
}

// GetFilename returns the filename for the current parameters, with fixes taking
// precedence. Only parameters of the filename pattern can be fixed. Parameters
// set to nil are left out.
func (s *FinderSource) GetFilename(fixes map[string]any, relative bool) (string, error) {
	fixable, err := s.Fixable()
	if err != nil {
		return "", err
	}

	for name := range fixes {
		if !slices.Contains(fixable, name) {
			return "", fmt.Errorf("%w: %q is not in the filename pattern (groups: %s)", ErrNotFixable, name, strings.Join(fixable, ", "))
		}
	}

	values := make(map[string]any, len(fixable))

	if params := s.Parameters(); params != nil {
		for _, name := range fixable {
			if v := params.GetOr(name, nil); v != nil {
				values[name] = v
			}
		}
	}

	for name, v := range fixes {
		if v == nil {
			delete(values, name)

			continue
		}

		values[name] = v
	}

	finder, err := s.Finder()
	if err != nil {
		return "", err
	}

	return finder.MakeFilename(values, relative)
}

// Describe implements Describer.
func (s *FinderSource) Describe() []string {
	pattern, _ := s.FilenamePattern(s.di)
	root, _ := s.RootDirectory(s.di)
	lines := []string{fmt.Sprintf("finder pattern %q", pattern)}

	if s.Has("finder") {
		finder, _ := s.Finder()

		var fixed []string

		for _, name := range unique(finder.GroupNames()) {
			if v, ok := finder.FixedValue(name); ok {
				fixed = append(fixed, fmt.Sprintf("%s: %v", name, v))
			}
		}

		if len(fixed) > 0 {
			lines = append(lines, "with fixed values: "+strings.Join(fixed, ", "))
		}
	}

	lines = append(lines, fmt.Sprintf("in root directory %q", root))

	if s.Has("datafiles") {
		files, _ := s.Datafiles()
		lines = append(lines, fmt.Sprintf("found %d files", len(files)))
	}

	return lines
}

func unique(names []string) []string {
	var out []string

	for _, n := range names {
		if !slices.Contains(out, n) {
			out = append(out, n)
		}
	}

	return out
}

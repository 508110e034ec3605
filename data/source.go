package data

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
)

// Source classes.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var (
	SimpleSourceClass = NewClass("SimpleSource", nil, SourceClass)
	GlobSourceClass   = NewClass("GlobSource", nil, SourceClass, CachedClass)
)

// Source finds where the data is.
type Source interface {
	Module

	GetSource() ([]string, error)
}

// SimpleSource returns fixed locations.
type SimpleSource struct {
	Base

	Locations []string
}

// SimpleSourceOf returns a constructor of a source returning locations.
func SimpleSourceOf(locations ...string) Constructor {
	return func(*Interface, Args) (Module, error) {
		return &SimpleSource{Locations: locations}, nil
	}
}

// Class returns SimpleSourceClass.
func (s *SimpleSource) Class() *Class { return SimpleSourceClass }

// GetSource returns the locations.
func (s *SimpleSource) GetSource() ([]string, error) {
	return slices.Clone(s.Locations), nil
}

// Describe implements Describer.
func (s *SimpleSource) Describe() []string {
	return []string{fmt.Sprintf("source directly specified: %v", s.Locations)}
}

// DirFunc returns a directory or pattern, possibly depending on the parameters of di.
type DirFunc func(di *Interface) (string, error)

// Static returns a DirFunc always returning s.
func Static(s string) DirFunc {
	return func(*Interface) (string, error) { return s, nil }
}

// GlobSource finds files matching a shell pattern in a root directory.
// The list of files is cached.
type GlobSource struct {
	Base
	Cache

	RootDirectory DirFunc
	Pattern       DirFunc
	// Recursive matches the pattern against the file names of the whole tree below
	// the root directory, instead of against paths relative to it.
	Recursive bool
}

// GlobSourceOf returns a constructor of a glob source.
func GlobSourceOf(root, pattern DirFunc, recursive bool) Constructor {
	return func(*Interface, Args) (Module, error) {
		return &GlobSource{RootDirectory: root, Pattern: pattern, Recursive: recursive}, nil
	}
}

// Class returns GlobSourceClass.
func (s *GlobSource) Class() *Class { return GlobSourceClass }

// Datafiles returns the files found, sorted.
func (s *GlobSource) Datafiles() ([]string, error) {
	return Autocached(&s.Cache, "datafiles", func() ([]string, error) {
		root, err := s.RootDirectory(s.di)
		if err != nil {
			return nil, fmt.Errorf("root directory: %w", err)
		}

		pattern, err := s.Pattern(s.di)
		if err != nil {
			return nil, fmt.Errorf("glob pattern: %w", err)
		}

		if !s.Recursive {
			files, err := filepath.Glob(filepath.Join(root, pattern))
			if err != nil {
				return nil, fmt.Errorf("glob %q: %w", pattern, err)
			}

			slices.Sort(files)

			return files, nil
		}

		return walkMatch(root, pattern)
	})
}

func walkMatch(root, pattern string) ([]string, error) {
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			return nil
		}

		ok, _ := filepath.Match(pattern, d.Name())
		if ok {
			files = append(files, path)
		}

		return nil
	})
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	slices.Sort(files)

	return files, nil
}

// GetSource returns the files found. An empty list is logged.
func (s *GlobSource) GetSource() ([]string, error) {
	files, err := s.Datafiles()
	if err != nil {
		return nil, err
	}

	if len(files) == 0 {
		slog.Warn("no files found", slog.String("module", s.path))
	}

	return files, nil
}

// Describe implements Describer.
func (s *GlobSource) Describe() []string {
	root, _ := s.RootDirectory(s.di)
	pattern, _ := s.Pattern(s.di)

	lines := []string{
		fmt.Sprintf("glob pattern %q", pattern),
		fmt.Sprintf("in root directory %q", root),
	}

	if s.Has("datafiles") {
		files, _ := s.Datafiles()
		lines = append(lines, fmt.Sprintf("found %d files", len(files)))
	}

	return lines
}

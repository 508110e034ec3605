package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

var (
	// ErrPathIsDirectory is returned when the path provided to the Fetcher points to a directory instead of a file.
	ErrPathIsDirectory = errors.New("path is a directory, not a file")
	// ErrFileExists is returned by WriteFile when the destination exists and overwriting is not allowed.
	ErrFileExists = errors.New("file already exists")
)

// Fetcher implements the config.DataFetcher interface for parameter files.
// It reads the file at construction time and caches the contents.
type Fetcher struct {
	filepath string
	data     []byte
}

// NewFetcher returns a constructor function that creates a file-based Fetcher.
// The file is read when the constructor runs, which lets an fx container decide
// when instantiation happens.
// The constructor fails if the file cannot be read or if the path is a directory.
func NewFetcher(fpath string) func() (*Fetcher, error) {
	return func() (*Fetcher, error) {
		cleanPath := filepath.Clean(fpath)

		stat, err := os.Stat(cleanPath)
		if err != nil {
			return nil, fmt.Errorf("stat file %q: %w", cleanPath, err)
		}

		if stat.IsDir() {
			return nil, fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
		}

		data, err := os.ReadFile(cleanPath) // #nosec G304 -- path is cleaned and validated
		if err != nil {
			return nil, fmt.Errorf("reading file %q: %w", cleanPath, err)
		}

		return &Fetcher{
			filepath: cleanPath,
			data:     data,
		}, nil
	}
}

// Path returns the cleaned path of the file.
func (f *Fetcher) Path() string {
	return f.filepath
}

// Fetch returns a copy of the data read at construction time.
func (f *Fetcher) Fetch() ([]byte, error) {
	result := make([]byte, len(f.data))
	copy(result, f.data)

	return result, nil
}

// WriteFile writes a configuration document, creating parent directories as needed.
func WriteFile(fpath string, data []byte, overwrite bool) error {
	cleanPath := filepath.Clean(fpath)

	stat, err := os.Stat(cleanPath)

	switch {
	case err == nil && stat.IsDir():
		return fmt.Errorf("path %q: %w", cleanPath, ErrPathIsDirectory)
	case err == nil && !overwrite:
		return fmt.Errorf("path %q: %w", cleanPath, ErrFileExists)
	case err != nil && !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("stat file %q: %w", cleanPath, err)
	}

	err = os.MkdirAll(filepath.Dir(cleanPath), 0o750)
	if err != nil {
		return fmt.Errorf("creating directory for %q: %w", cleanPath, err)
	}

	err = os.WriteFile(cleanPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing file %q: %w", cleanPath, err)
	}

	return nil
}

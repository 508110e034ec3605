// Package file reads and writes parameter files for the config package.
//
// The Fetcher implements config.DataFetcher. The file is read at construction
// time and cached, so every call to Fetch returns the same data even if the
// file changes afterwards.
//
// Usage:
//
//	fetcher, err := file.NewFetcher("params.yaml")()
//	if err != nil {
//	    // file not found, permission denied, path is a directory...
//	}
//	data, err := fetcher.Fetch()
//
// Use errors.Is(err, file.ErrPathIsDirectory) to check for directory errors.
package file

package data

import (
	"context"
	"fmt"
)

// FileLoaderClass is the class of FileLoader.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var FileLoaderClass = NewClass("FileLoader", nil, LoaderClass)

// Backend opens and writes datasets. The format of the files is its concern only.
type Backend interface {
	Open(ctx context.Context, paths []string, opts map[string]any) (any, error)
	Write(ctx context.Context, data any, dest string, opts map[string]any) error
}

// Loader opens the data.
type Loader interface {
	Module

	GetData(ctx context.Context) (any, error)
}

// PostprocessFunc modifies data after loading.
type PostprocessFunc func(ctx context.Context, di *Interface, data any) (any, error)

// FileLoader opens the files of the interface source with a backend, then runs
// an optional post-processing.
type FileLoader struct {
	Base

	Backend     Backend
	OpenOptions map[string]any
	Postprocess PostprocessFunc
}

// FileLoaderOf returns a constructor of a file loader.
func FileLoaderOf(backend Backend, postprocess PostprocessFunc) Constructor {
	return func(*Interface, Args) (Module, error) {
		return &FileLoader{Backend: backend, Postprocess: postprocess}, nil
	}
}

// Class returns FileLoaderClass.
func (l *FileLoader) Class() *Class { return FileLoaderClass }

// GetData loads the source of the interface and post-processes it.
func (l *FileLoader) GetData(ctx context.Context) (any, error) {
	if l.di == nil {
		return nil, fmt.Errorf("%w: loader is not attached to an interface", ErrModuleMissing)
	}

	source, err := l.di.GetSource()
	if err != nil {
		return nil, err
	}

	return l.Load(ctx, source, false)
}

// Load opens source and post-processes the data, unless ignorePostprocess is set.
func (l *FileLoader) Load(ctx context.Context, source []string, ignorePostprocess bool) (any, error) {
	data, err := l.Backend.Open(ctx, source, l.OpenOptions)
	if err != nil {
		return nil, fmt.Errorf("opening %d files: %w", len(source), err)
	}

	if ignorePostprocess || l.Postprocess == nil {
		return data, nil
	}

	data, err = l.Postprocess(ctx, l.di, data)
	if err != nil {
		return nil, fmt.Errorf("postprocess: %w", err)
	}

	return data, nil
}

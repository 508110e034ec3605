package data_test

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Descanonge/neba-sub001/data"
)

var errBoom = errors.New("boom")

// recorder is a module whose class setup bodies append to a shared log.
type recorder struct {
	data.Base

	class *data.Class
	log   *[]string
}

func (r *recorder) Class() *data.Class { return r.class }

func recordSetup(name string) data.SetupFunc {
	return func(m data.Module) error {
		r, ok := m.(*recorder)
		if !ok {
			return fmt.Errorf("unexpected module %T", m)
		}

		*r.log = append(*r.log, name)

		return nil
	}
}

// testSource is a cached source counting how many times it computes its files.
type testSource struct {
	data.Base
	data.Cache

	class *data.Class
	files []string
	calls int
}

func newSourceClass(name string) *data.Class {
	return data.NewClass(name, nil, data.SourceClass, data.CachedClass)
}

func (s *testSource) Class() *data.Class { return s.class }

func (s *testSource) GetSource() ([]string, error) {
	return data.Autocached(&s.Cache, "files", func() ([]string, error) {
		s.calls++

		return slices.Clone(s.files), nil
	})
}

func sourceOf(class *data.Class, files ...string) data.Constructor {
	return func(*data.Interface, data.Args) (data.Module, error) {
		return &testSource{class: class, files: files}, nil
	}
}

// joinLoader returns the source joined by commas.
type joinLoader struct {
	data.Base
}

func (l *joinLoader) Class() *data.Class { return data.LoaderClass }

func (l *joinLoader) GetData(context.Context) (any, error) {
	files, err := l.Interface().GetSource()
	if err != nil {
		return nil, err
	}

	return strings.Join(files, ","), nil
}

// memoryBackend stores written data in memory and opens paths as their joined names.
type memoryBackend struct {
	written map[string]any
	opts    map[string]map[string]any
	failing []string
}

func newMemoryBackend(failing ...string) *memoryBackend {
	return &memoryBackend{
		written: make(map[string]any),
		opts:    make(map[string]map[string]any),
		failing: failing,
	}
}

func (b *memoryBackend) Open(_ context.Context, paths []string, _ map[string]any) (any, error) {
	if len(paths) == 0 {
		return nil, errBoom
	}

	return strings.Join(paths, "+"), nil
}

func (b *memoryBackend) Write(_ context.Context, d any, dest string, opts map[string]any) error {
	if slices.Contains(b.failing, dest) {
		return fmt.Errorf("%w: %s", errBoom, dest)
	}

	b.written[dest] = d
	b.opts[dest] = opts

	return nil
}

// counter registers a callback counting its calls.
func counter(di *data.Interface, name string) *int {
	n := new(int)

	err := di.RegisterCallback(name, func(*data.Interface, map[string]any) { *n++ })
	if err != nil {
		panic(err)
	}

	return n
}

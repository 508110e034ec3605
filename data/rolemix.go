package data

import (
	"context"
)

// LoaderMix is a loader delegating to one of several loaders.
type LoaderMix struct {
	*Mix[Loader]
}

// NewLoaderMix returns a loader mix using the member chosen by selectFn.
func NewLoaderMix(name string, selectFn SelectFunc[Loader], members ...Loader) (*LoaderMix, error) {
	mix, err := NewMix(name, selectFn, members...)
	if err != nil {
		return nil, err
	}

	return &LoaderMix{Mix: mix}, nil
}

// LoaderSelect returns a constructor of a loader mix using the member chosen by selectFn.
func LoaderSelect(name string, selectFn SelectFunc[Loader], ctors ...Constructor) Constructor {
	return MixOf(name, selectFn, ctors...)
}

// GetData loads the data with the selected member.
func (l *LoaderMix) GetData(ctx context.Context) (any, error) {
	return l.GetDataSelect(ctx, nil)
}

// GetDataSelect is GetData with explicit selection keywords.
func (l *LoaderMix) GetDataSelect(ctx context.Context, kwargs map[string]any) (any, error) {
	return ApplySelect(l.Mix, kwargs, func(m Loader) (any, error) {
		return m.GetData(ctx)
	})
}

// WriterMix is a writer delegating to one or all of several writers.
type WriterMix struct {
	*Mix[Writer]
}

// NewWriterMix returns a writer mix. Without selection function, every member writes.
func NewWriterMix(name string, selectFn SelectFunc[Writer], members ...Writer) (*WriterMix, error) {
	mix, err := NewMix(name, selectFn, members...)
	if err != nil {
		return nil, err
	}

	return &WriterMix{Mix: mix}, nil
}

// WriterAll returns a constructor of a writer mix where every member writes.
func WriterAll(name string, ctors ...Constructor) Constructor {
	return MixOf[Writer](name, nil, ctors...)
}

// WriterSelect returns a constructor of a writer mix using the member chosen by selectFn.
func WriterSelect(name string, selectFn SelectFunc[Writer], ctors ...Constructor) Constructor {
	return MixOf(name, selectFn, ctors...)
}

// Write writes with the selected member, or with every member in order when the
// mix has no selection function.
func (w *WriterMix) Write(ctx context.Context, data any, dest string) error {
	return w.WriteSelect(ctx, data, dest, nil)
}

// WriteSelect is Write with explicit selection keywords.
func (w *WriterMix) WriteSelect(ctx context.Context, data any, dest string, kwargs map[string]any) error {
	_, err := Apply(w.Mix, w.selectFn == nil, kwargs, func(m Writer) (struct{}, error) {
		return struct{}{}, m.Write(ctx, data, dest)
	})

	return err
}

// roleMix wraps mix in the type implementing the role of its members, if any.
func roleMix[M Module](mix *Mix[M]) Module {
	switch x := any(mix).(type) {
	case *Mix[Source]:
		mode := ModeUnion
		if x.selectFn != nil {
			mode = ModeSelect
		}

		return &SourceMix{Mix: x, Mode: mode}
	case *Mix[Loader]:
		return &LoaderMix{Mix: x}
	case *Mix[Writer]:
		return &WriterMix{Mix: x}
	default:
		return mix
	}
}

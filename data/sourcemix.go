package data

import (
	"slices"
)

// MixMode tells how a SourceMix combines the sources of its members.
type MixMode int

// Mix modes.
const (
	// ModeUnion concatenates the sources of all members, without duplicates.
	ModeUnion MixMode = iota
	// ModeIntersection keeps the locations common to all members.
	ModeIntersection
	// ModeSelect uses the source of the selected member.
	ModeSelect
)

// SourceMix is a source grouping several sources.
type SourceMix struct {
	*Mix[Source]

	Mode MixMode
}

// NewSourceMix returns a source mix combining members according to mode.
func NewSourceMix(name string, mode MixMode, selectFn SelectFunc[Source], members ...Source) (*SourceMix, error) {
	mix, err := NewMix(name, selectFn, members...)
	if err != nil {
		return nil, err
	}

	return &SourceMix{Mix: mix, Mode: mode}, nil
}

// SourceUnion returns a constructor of a mix concatenating the sources of members.
func SourceUnion(name string, ctors ...Constructor) Constructor {
	return sourceMixOf(name, ModeUnion, nil, ctors)
}

// SourceIntersection returns a constructor of a mix keeping the locations common
// to all members.
func SourceIntersection(name string, ctors ...Constructor) Constructor {
	return sourceMixOf(name, ModeIntersection, nil, ctors)
}

// SourceSelect returns a constructor of a mix using the source of the member
// chosen by selectFn.
func SourceSelect(name string, selectFn SelectFunc[Source], ctors ...Constructor) Constructor {
	return sourceMixOf(name, ModeSelect, selectFn, ctors)
}

func sourceMixOf(name string, mode MixMode, selectFn SelectFunc[Source], ctors []Constructor) Constructor {
	return func(di *Interface, args Args) (Module, error) {
		members, err := buildMembers[Source](di, args, ctors)
		if err != nil {
			return nil, err
		}

		return NewSourceMix(name, mode, selectFn, members...)
	}
}

// GetSource combines the sources of the members.
func (s *SourceMix) GetSource() ([]string, error) {
	return s.GetSourceSelect(nil)
}

// GetSourceSelect is GetSource with explicit selection keywords for ModeSelect.
func (s *SourceMix) GetSourceSelect(kwargs map[string]any) ([]string, error) {
	if s.Mode == ModeSelect {
		return ApplySelect(s.Mix, kwargs, Source.GetSource)
	}

	grouped, err := ApplyAll(s.Mix, Source.GetSource)
	if err != nil {
		return nil, err
	}

	if s.Mode == ModeIntersection {
		return intersection(grouped), nil
	}

	return union(grouped), nil
}

func union(grouped [][]string) []string {
	var out []string

	for _, group := range grouped {
		for _, loc := range group {
			if !slices.Contains(out, loc) {
				out = append(out, loc)
			}
		}
	}

	return out
}

func intersection(grouped [][]string) []string {
	if len(grouped) == 0 {
		return nil
	}

	var out []string

	for _, loc := range grouped[0] {
		if slices.Contains(out, loc) {
			continue
		}

		common := true

		for _, other := range grouped[1:] {
			if !slices.Contains(other, loc) {
				common = false

				break
			}
		}

		if common {
			out = append(out, loc)
		}
	}

	return out
}

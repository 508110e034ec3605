package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrDuplicateMember is returned when two members of a mix share a class name.
	ErrDuplicateMember = errors.New("duplicate mix member")
	// ErrUnknownMember is returned when a selection names no member of the mix.
	ErrUnknownMember = errors.New("unknown mix member")
	// ErrNoSelect is returned when selecting a member of a mix without selection function.
	ErrNoSelect = errors.New("no selection function")
	// ErrEmptyMix is returned when creating a mix without members.
	ErrEmptyMix = errors.New("mix has no members")
	// ErrRoleMismatch is returned when a module does not implement the interface of its role.
	ErrRoleMismatch = errors.New("module does not implement role")
)

// SelectKwarg is the keyword holding explicit selections, as a map[string]any
// taking precedence over the interface parameters.
const SelectKwarg = "select"

// SelectFunc returns the class name of the member to use for a call.
type SelectFunc[M Module] func(mix *Mix[M], kwargs map[string]any) (string, error)

// Mix groups several modules of the same role under one.
// Members are keyed by the name of their class.
type Mix[M Module] struct {
	Base

	class    *Class
	names    []string
	byName   map[string]M
	steps    []setupStep
	selectFn SelectFunc[M]
}

// NewMix returns a mix of the given members, in order of precedence.
//
// The class of the mix derives from the classes of the members. Setting up the mix
// runs the setup body of each class in the hierarchy once, on the first member
// whose own hierarchy contains it, most generic classes first. Members may be
// listed in any order, including before their own base classes.
//
// A base class shared by several members is set up on the first of them only:
// its setup body must not initialise state local to a member. Such state belongs
// to the constructor of the member, or to the setup body of its own class.
func NewMix[M Module](name string, selectFn SelectFunc[M], members ...M) (*Mix[M], error) {
	if len(members) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyMix, name)
	}

	mix := &Mix[M]{
		names:    make([]string, 0, len(members)),
		byName:   make(map[string]M, len(members)),
		selectFn: selectFn,
	}

	bases := make([]*Class, 0, len(members))
	lists := make([][]*Class, 0, len(members)+1)

	for _, m := range members {
		cls := m.Class()
		if _, dup := mix.byName[cls.Name]; dup {
			return nil, fmt.Errorf("%w: several members with class name %q in %s", ErrDuplicateMember, cls.Name, name)
		}

		mro, err := cls.MRO()
		if err != nil {
			return nil, err
		}

		mix.names = append(mix.names, cls.Name)
		mix.byName[cls.Name] = m
		bases = append(bases, cls)
		lists = append(lists, mro)
	}

	mixMRO, err := MixClass.MRO()
	if err != nil {
		return nil, err
	}

	merged, err := merge(append(lists, mixMRO))
	if err != nil {
		return nil, fmt.Errorf("mix %s: %w", name, err)
	}

	mix.class = NewClass(name, nil, append(bases, MixClass)...)
	linear := append([]*Class{mix.class}, merged...)
	mix.class.once.Do(func() { mix.class.mro = linear })

	for i := len(linear) - 1; i >= 0; i-- {
		mix.steps = append(mix.steps, setupStep{class: linear[i], target: mix.owner(linear[i])})
	}

	return mix, nil
}

// owner returns the first member whose hierarchy contains cls, or the mix itself.
func (x *Mix[M]) owner(cls *Class) Module {
	for _, name := range x.names {
		m := x.byName[name]
		if m.Class().IsSubclass(cls) {
			return m
		}
	}

	return x
}

// Class returns the class synthesized for the mix.
func (x *Mix[M]) Class() *Class {
	return x.class
}

func (x *Mix[M]) members() []Module {
	out := make([]Module, 0, len(x.names))
	for _, name := range x.names {
		out = append(out, x.byName[name])
	}

	return out
}

func (x *Mix[M]) plan() []setupStep {
	return x.steps
}

// Names returns the class names of the members, in order.
func (x *Mix[M]) Names() []string {
	return slices.Clone(x.names)
}

// Members returns the members, in order.
func (x *Mix[M]) Members() []M {
	out := make([]M, 0, len(x.names))
	for _, name := range x.names {
		out = append(out, x.byName[name])
	}

	return out
}

// Member returns the member with the given class name.
func (x *Mix[M]) Member(name string) (M, bool) {
	m, ok := x.byName[name]

	return m, ok
}

// Select returns the member chosen by the selection function.
func (x *Mix[M]) Select(kwargs map[string]any) (M, error) {
	var zero M

	if x.selectFn == nil {
		return zero, fmt.Errorf("%w: mix %s", ErrNoSelect, x.class.Name)
	}

	name, err := x.selectFn(x, kwargs)
	if err != nil {
		return zero, fmt.Errorf("selecting member of %s: %w", x.class.Name, err)
	}

	m, ok := x.byName[name]
	if !ok {
		return zero, fmt.Errorf("%w: %q in %s (members: %s)", ErrUnknownMember, name, x.class.Name, strings.Join(x.names, ", "))
	}

	return m, nil
}

// ApplyAll calls fn on every member, in order, and collects the results.
// It stops at the first error.
func ApplyAll[M Module, R any](x *Mix[M], fn func(M) (R, error)) ([]R, error) {
	out := make([]R, 0, len(x.names))

	for _, name := range x.names {
		r, err := fn(x.byName[name])
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", name, err)
		}

		out = append(out, r)
	}

	return out, nil
}

// ApplySelect calls fn on the member chosen by the selection function.
func ApplySelect[M Module, R any](x *Mix[M], kwargs map[string]any, fn func(M) (R, error)) (R, error) {
	m, err := x.Select(kwargs)
	if err != nil {
		var zero R

		return zero, err
	}

	return fn(m)
}

// Apply calls fn on every member if all is set, on the selected member otherwise.
func Apply[M Module, R any](x *Mix[M], all bool, kwargs map[string]any, fn func(M) (R, error)) ([]R, error) {
	if all {
		return ApplyAll(x, fn)
	}

	r, err := ApplySelect(x, kwargs, fn)
	if err != nil {
		return nil, err
	}

	return []R{r}, nil
}

// SelectParameter returns a selection function reading the member name from the
// key parameter. An entry for key in the "select" keyword takes precedence.
func SelectParameter[M Module](key string) SelectFunc[M] {
	return func(x *Mix[M], kwargs map[string]any) (string, error) {
		if sel, ok := kwargs[SelectKwarg].(map[string]any); ok {
			if v, ok := sel[key]; ok {
				return fmt.Sprint(v), nil
			}
		}

		params := x.Parameters()
		if params == nil {
			return "", fmt.Errorf("%w: %q", ErrParameterNotFound, key)
		}

		v, err := params.Get(key)
		if err != nil {
			return "", err
		}

		return fmt.Sprint(v), nil
	}
}

// MixOf returns a constructor building every member with the same arguments and
// grouping them in a mix. Members must implement M.
//
// Mixes of Source, Loader and Writer are built as a SourceMix (union, or select
// when selectFn is set), a LoaderMix and a WriterMix, and fill the matching role
// of an interface. Other mixes are returned as a plain *Mix[M], which fills no role.
func MixOf[M Module](name string, selectFn SelectFunc[M], ctors ...Constructor) Constructor {
	return func(di *Interface, args Args) (Module, error) {
		members, err := buildMembers[M](di, args, ctors)
		if err != nil {
			return nil, err
		}

		mix, err := NewMix(name, selectFn, members...)
		if err != nil {
			return nil, err
		}

		return roleMix(mix), nil
	}
}

func buildMembers[M Module](di *Interface, args Args, ctors []Constructor) ([]M, error) {
	members := make([]M, 0, len(ctors))

	for _, ctor := range ctors {
		m, err := ctor(di, args)
		if err != nil {
			return nil, err
		}

		typed, ok := m.(M)
		if !ok {
			return nil, fmt.Errorf("%w: %s is %T", ErrRoleMismatch, m.Class().Name, m)
		}

		members = append(members, typed)
	}

	return members, nil
}

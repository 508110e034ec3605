package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrInconsistentHierarchy is returned when the bases of a class admit no linearization.
var ErrInconsistentHierarchy = errors.New("inconsistent class hierarchy")

// SetupFunc is the setup body of a class. It receives the module being set up.
type SetupFunc func(m Module) error

// Class describes a module implementation: its name, the classes it builds upon,
// and an optional setup body. Classes are meant to be package-level values.
type Class struct {
	Name  string
	Bases []*Class
	Setup SetupFunc

	once sync.Once
	mro  []*Class
	err  error
}

// NewClass returns a class deriving from bases, in order of precedence.
func NewClass(name string, setup SetupFunc, bases ...*Class) *Class {
	return &Class{Name: name, Bases: bases, Setup: setup}
}

// Built-in classes. User classes derive from one of them.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var (
	ModuleClass     = NewClass("Module", nil)
	ParametersClass = NewClass("Parameters", nil, ModuleClass)
	SourceClass     = NewClass("Source", nil, ModuleClass)
	LoaderClass     = NewClass("Loader", nil, ModuleClass)
	WriterClass     = NewClass("Writer", nil, ModuleClass)
	CachedClass     = NewClass("CachedModule", nil, ModuleClass)
	MixClass        = NewClass("ModuleMix", nil, ModuleClass)
)

// MRO returns the C3 linearization of the class: the class itself, then its
// ancestors, each appearing once and after all of its subclasses.
// It is computed on first call.
func (c *Class) MRO() ([]*Class, error) {
	c.once.Do(func() {
		lists := make([][]*Class, 0, len(c.Bases)+1)

		for _, base := range c.Bases {
			mro, err := base.MRO()
			if err != nil {
				c.err = err

				return
			}

			lists = append(lists, mro)
		}

		lists = append(lists, c.Bases)

		merged, err := merge(lists)
		if err != nil {
			c.err = fmt.Errorf("class %s: %w", c.Name, err)

			return
		}

		c.mro = append([]*Class{c}, merged...)
	})

	return c.mro, c.err
}

// IsSubclass reports whether other appears in the linearization of c.
func (c *Class) IsSubclass(other *Class) bool {
	mro, err := c.MRO()
	if err != nil {
		return false
	}

	return slices.Contains(mro, other)
}

func (c *Class) String() string {
	return c.Name
}

// merge is the merge step of C3: repeatedly take the first head that appears in
// no tail, and remove it from every list.
func merge(lists [][]*Class) ([]*Class, error) {
	work := make([][]*Class, 0, len(lists))

	for _, l := range lists {
		if len(l) > 0 {
			work = append(work, slices.Clone(l))
		}
	}

	var out []*Class

	for len(work) > 0 {
		head := findHead(work)
		if head == nil {
			return nil, fmt.Errorf("%w: cannot order %s", ErrInconsistentHierarchy, heads(work))
		}

		out = append(out, head)

		next := work[:0]

		for _, l := range work {
			if l[0] == head {
				l = l[1:]
			}

			if len(l) > 0 {
				next = append(next, l)
			}
		}

		work = next
	}

	return out, nil
}

func findHead(lists [][]*Class) *Class {
	for _, l := range lists {
		candidate := l[0]
		inTail := false

		for _, other := range lists {
			if slices.Contains(other[1:], candidate) {
				inTail = true

				break
			}
		}

		if !inTail {
			return candidate
		}
	}

	return nil
}

func heads(lists [][]*Class) string {
	names := make([]string, 0, len(lists))
	for _, l := range lists {
		names = append(names, l[0].Name)
	}

	return strings.Join(names, ", ")
}

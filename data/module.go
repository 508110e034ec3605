package data

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrModuleInstantiation wraps the failure of a module constructor or setup.
	ErrModuleInstantiation = errors.New("module instantiation failed")
	// ErrAlreadyAttached is returned when a module is attached to a second interface.
	ErrAlreadyAttached = errors.New("module already attached to an interface")
)

// Module is one pluggable part of an Interface: its parameters, source, loader or writer.
// Implementations embed Base and return their class descriptor.
type Module interface {
	Class() *Class
	base() *Base
}

// Base holds the state shared by every module. It must be embedded in modules.
type Base struct {
	di      *Interface
	path    string
	isSetup bool
}

func (b *Base) base() *Base {
	return b
}

// Interface returns the interface owning the module, nil before attachment.
func (b *Base) Interface() *Interface {
	return b.di
}

// IsSetup reports whether the setup of the module completed.
func (b *Base) IsSetup() bool {
	return b.isSetup
}

// Path is the location of the module in its interface, for instance "source" or
// "source.GlobSource" for a member of a mix.
func (b *Base) Path() string {
	return b.path
}

// Parameters returns the parameters of the owning interface, nil if there are none.
func (b *Base) Parameters() Parameters {
	if b.di == nil {
		return nil
	}

	return b.di.Parameters()
}

func (b *Base) attach(di *Interface, path string) error {
	if b.di != nil && b.di != di {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, path)
	}

	b.di = di
	b.path = path

	return nil
}

// composite is implemented by modules grouping other modules.
type composite interface {
	members() []Module
	plan() []setupStep
}

type setupStep struct {
	class  *Class
	target Module
}

// Setup runs the setup body of every class in the linearization of the module
// class, most generic first, each exactly once. It does nothing if the module
// is already set up.
func Setup(m Module) error {
	b := m.base()
	if b.isSetup {
		return nil
	}

	steps, err := setupPlan(m)
	if err != nil {
		return err
	}

	for _, step := range steps {
		if step.class.Setup == nil {
			continue
		}

		slog.Debug("module setup",
			slog.String("module", b.path),
			slog.String("class", step.class.Name),
		)

		err = step.class.Setup(step.target)
		if err != nil {
			return fmt.Errorf("setup of %s (class %s): %w", b.path, step.class.Name, err)
		}
	}

	b.isSetup = true

	if c, ok := m.(composite); ok {
		for _, member := range c.members() {
			member.base().isSetup = true
		}
	}

	return nil
}

func setupPlan(m Module) ([]setupStep, error) {
	if c, ok := m.(composite); ok {
		return c.plan(), nil
	}

	mro, err := m.Class().MRO()
	if err != nil {
		return nil, err
	}

	steps := make([]setupStep, 0, len(mro))
	for i := len(mro) - 1; i >= 0; i-- {
		steps = append(steps, setupStep{class: mro[i], target: m})
	}

	return steps, nil
}

// walk calls fn on m and, for composite modules, on every member recursively.
func walk(m Module, fn func(Module)) {
	fn(m)

	if c, ok := m.(composite); ok {
		for _, member := range c.members() {
			walk(member, fn)
		}
	}
}

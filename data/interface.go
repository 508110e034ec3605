package data

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

var (
	// ErrDuplicateCallback is returned when registering a callback name twice.
	ErrDuplicateCallback = errors.New("duplicate callback")
	// ErrUnknownCallback is returned when triggering a callback that is not registered.
	ErrUnknownCallback = errors.New("unknown callback")
	// ErrModuleMissing is returned when an operation needs a module the interface lacks.
	ErrModuleMissing = errors.New("module missing")
)

// RoleName identifies the role of a module in an interface.
type RoleName string

// Module roles, in construction order.
const (
	RoleParameters RoleName = "parameters"
	RoleSource     RoleName = "source"
	RoleLoader     RoleName = "loader"
	RoleWriter     RoleName = "writer"
)

//nolint:gochecknoglobals // fixed construction order.
var roleOrder = []RoleName{RoleParameters, RoleSource, RoleLoader, RoleWriter}

// Args are the construction arguments, passed unchanged to the constructor of every module.
type Args struct {
	// Params holds the initial parameters: a map, a section or an application,
	// depending on the parameters module.
	Params any
	Kwargs map[string]any
}

// Constructor builds a module for an interface. The module is attached to the
// interface and set up afterwards.
type Constructor func(di *Interface, args Args) (Module, error)

// Role declares how to build the module of one role.
type Role struct {
	New Constructor
	// AllowInstantiationFailure leaves the role empty, instead of failing the whole
	// interface, when the module cannot be constructed or set up.
	AllowInstantiationFailure bool
}

// Definition declares a kind of dataset: its identifiers and its modules.
// An empty role gets no module.
type Definition struct {
	ShortName string
	ID        string
	Name      string

	Parameters Role
	Source     Role
	Loader     Role
	Writer     Role

	// GetData, if set, replaces the loader when getting data.
	GetData func(ctx context.Context, di *Interface) (any, error)
}

func (d *Definition) role(name RoleName) Role {
	switch name {
	case RoleParameters:
		return d.Parameters
	case RoleSource:
		return d.Source
	case RoleLoader:
		return d.Loader
	case RoleWriter:
		return d.Writer
	}

	return Role{}
}

func (d *Definition) String() string {
	var ids []string

	if d.ShortName != "" {
		ids = append(ids, d.ShortName)
	}

	if d.ID != "" {
		ids = append(ids, d.ID)
	}

	name := d.Name
	if len(ids) > 0 && name != "" {
		name = " (" + name + ")"
	}

	return strings.Join(ids, ":") + name
}

// Callback is run when callbacks of an interface are triggered.
type Callback func(di *Interface, kwargs map[string]any)

// CallbackSelection chooses which callbacks to trigger.
type CallbackSelection struct {
	all   bool
	names []string
}

// Callback selections.
//
//nolint:gochecknoglobals // immutable selections.
var (
	AllCallbacks = CallbackSelection{all: true}
	NoCallbacks  = CallbackSelection{}
)

// Callbacks selects the named callbacks, run in the given order.
func Callbacks(names ...string) CallbackSelection {
	return CallbackSelection{names: names}
}

// Interface gives access to a dataset through its modules.
type Interface struct {
	def        *Definition
	modules    map[RoleName]Module
	callbacks  map[string]Callback
	order      []string
	excursions []*Excursion
}

// New builds an interface from its definition. Modules are constructed, attached
// and set up one role after the other: parameters, source, loader, writer.
// A failing module fails the whole interface, unless its role allows it.
func New(def *Definition, args Args) (*Interface, error) {
	di := &Interface{
		def:       def,
		modules:   make(map[RoleName]Module, len(roleOrder)),
		callbacks: make(map[string]Callback),
	}

	for _, name := range roleOrder {
		role := def.role(name)
		if role.New == nil {
			continue
		}

		m, err := di.build(name, role, args)
		if err != nil {
			if !role.AllowInstantiationFailure {
				return nil, err
			}

			slog.Warn("module instantiation failed, role left empty",
				slog.String("interface", def.String()),
				slog.String("role", string(name)),
				slog.String("error", err.Error()),
			)

			continue
		}

		di.modules[name] = m
	}

	slog.Debug("interface created",
		slog.String("interface", def.String()),
		slog.Int("modules", len(di.modules)),
		slog.Int("callbacks", len(di.order)),
	)

	return di, nil
}

// MustNew is like New but panics on error.
func MustNew(def *Definition, args Args) *Interface {
	di, err := New(def, args)
	if err != nil {
		panic(err)
	}

	return di
}

func (di *Interface) build(name RoleName, role Role, args Args) (Module, error) {
	m, err := role.New(di, args)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleInstantiation, name, err)
	}

	err = checkRole(name, m)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleInstantiation, name, err)
	}

	err = attach(m, di, string(name))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleInstantiation, name, err)
	}

	err = Setup(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrModuleInstantiation, err)
	}

	var registerErr error

	walk(m, func(mod Module) {
		cached, ok := mod.(Cached)
		if !ok || cached.ModuleCache().KeepOnTrigger {
			return
		}

		cache := cached.ModuleCache()
		registerErr = errors.Join(registerErr, di.RegisterCallback(voidCacheName(mod.base().path),
			func(*Interface, map[string]any) { cache.ClearCache() }))
	})

	if registerErr != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrModuleInstantiation, name, registerErr)
	}

	return m, nil
}

func checkRole(name RoleName, m Module) error {
	var ok bool

	switch name {
	case RoleParameters:
		_, ok = m.(Parameters)
	case RoleSource:
		_, ok = m.(Source)
	case RoleLoader:
		_, ok = m.(Loader)
	case RoleWriter:
		_, ok = m.(Writer)
	}

	if !ok {
		return fmt.Errorf("%w %s: %T", ErrRoleMismatch, name, m)
	}

	return nil
}

func attach(m Module, di *Interface, path string) error {
	err := m.base().attach(di, path)
	if err != nil {
		return err
	}

	if c, ok := m.(composite); ok {
		for _, member := range c.members() {
			err = attach(member, di, path+"."+member.Class().Name)
			if err != nil {
				return err
			}
		}
	}

	return nil
}

// Definition returns the definition the interface was built from.
func (di *Interface) Definition() *Definition {
	return di.def
}

// Module returns the module of a role.
func (di *Interface) Module(name RoleName) (Module, bool) {
	m, ok := di.modules[name]

	return m, ok
}

// Modules returns the modules present, in construction order.
func (di *Interface) Modules() []Module {
	out := make([]Module, 0, len(di.modules))

	for _, name := range roleOrder {
		if m, ok := di.modules[name]; ok {
			out = append(out, m)
		}
	}

	return out
}

// Parameters returns the parameters module, nil if absent.
func (di *Interface) Parameters() Parameters {
	p, _ := di.modules[RoleParameters].(Parameters)

	return p
}

// Source returns the source module, nil if absent.
func (di *Interface) Source() Source {
	s, _ := di.modules[RoleSource].(Source)

	return s
}

// Loader returns the loader module, nil if absent.
func (di *Interface) Loader() Loader {
	l, _ := di.modules[RoleLoader].(Loader)

	return l
}

// Writer returns the writer module, nil if absent.
func (di *Interface) Writer() Writer {
	w, _ := di.modules[RoleWriter].(Writer)

	return w
}

// RegisterCallback adds a callback run by TriggerCallbacks, after those
// registered before it.
func (di *Interface) RegisterCallback(name string, fn Callback) error {
	if _, exists := di.callbacks[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateCallback, name)
	}

	di.callbacks[name] = fn
	di.order = append(di.order, name)

	return nil
}

// CallbackNames returns the names of registered callbacks, in registration order.
func (di *Interface) CallbackNames() []string {
	return slices.Clone(di.order)
}

// TriggerCallbacks runs the selected callbacks. Every change of parameters runs
// all of them.
func (di *Interface) TriggerCallbacks(sel CallbackSelection, kwargs map[string]any) error {
	names := sel.names
	if sel.all {
		names = slices.Clone(di.order)
	}

	for _, name := range names {
		if _, ok := di.callbacks[name]; !ok {
			return fmt.Errorf("%w: %q", ErrUnknownCallback, name)
		}
	}

	for _, name := range names {
		di.callbacks[name](di, kwargs)
	}

	return nil
}

// GetSource returns the source of the data.
func (di *Interface) GetSource() ([]string, error) {
	s := di.Source()
	if s == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrModuleMissing, RoleSource, di)
	}

	return s.GetSource()
}

// GetData returns the data, using the GetData hook of the definition if any,
// the loader otherwise.
func (di *Interface) GetData(ctx context.Context) (any, error) {
	if di.def.GetData != nil {
		return di.def.GetData(ctx, di)
	}

	l := di.Loader()
	if l == nil {
		return nil, fmt.Errorf("%w: %s in %s", ErrModuleMissing, RoleLoader, di)
	}

	return l.GetData(ctx)
}

// Write writes data to dest, or to the source if dest is empty.
func (di *Interface) Write(ctx context.Context, data any, dest string) error {
	w := di.Writer()
	if w == nil {
		return fmt.Errorf("%w: %s in %s", ErrModuleMissing, RoleWriter, di)
	}

	return w.Write(ctx, data, dest)
}

// String returns "SHORTNAME:ID (Name)", omitting what is not defined.
func (di *Interface) String() string {
	return di.def.String()
}

// Describer is implemented by modules able to describe their state.
type Describer interface {
	Describe() []string
}

// Describe returns a human readable description of the interface and its modules.
func (di *Interface) Describe() string {
	lines := []string{di.String()}

	for _, m := range di.Modules() {
		lines = append(lines, fmt.Sprintf("%s: %s", m.base().path, m.Class().Name))

		if d, ok := m.(Describer); ok {
			for _, line := range d.Describe() {
				lines = append(lines, "\t"+line)
			}
		}
	}

	return strings.Join(lines, "\n")
}

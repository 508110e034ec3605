package data

import (
	"errors"
	"fmt"
	"maps"

	"github.com/Descanonge/neba-sub001/application"
	"github.com/Descanonge/neba-sub001/config/section"
)

var (
	// ErrParameterNotFound is returned when getting a parameter that does not exist.
	ErrParameterNotFound = errors.New("parameter not found")
	// ErrInvalidParameters is returned when a parameters module receives arguments
	// or a snapshot of the wrong type.
	ErrInvalidParameters = errors.New("invalid parameters")
)

// Parameter classes.
//
//nolint:gochecknoglobals // class descriptors are immutable definitions.
var (
	DictParametersClass    = NewClass("DictParameters", nil, ParametersClass)
	SectionParametersClass = NewClass("SectionParameters", nil, ParametersClass)
	AppParametersClass     = NewClass("AppParameters", nil, SectionParametersClass)
)

// Parameters manages the parameters of an interface, stored in a backing object
// returned by Direct.
//
// Every change of value reaches the callbacks of the interface, whether it is made
// through these methods or directly on the backing object. Each method call
// triggers the callbacks at most once, and not at all if no value changed.
type Parameters interface {
	Module

	Get(key string) (any, error)
	GetOr(key string, def any) any
	Set(key string, value any) error
	// Update sets every value of the maps, later maps taking precedence.
	Update(values ...map[string]any) error
	Reset() error
	Direct() any
	Flat() map[string]any
	Snapshot() any
	Restore(snapshot any) error
}

// batcher groups the changes happening during a call into one trigger.
type batcher struct {
	depth int
	dirty bool
}

func (b *batcher) run(owner *Base, fn func() error) error {
	b.depth++

	defer func() {
		b.depth--
		if b.depth == 0 && b.dirty {
			b.dirty = false
			owner.paramsChanged()
		}
	}()

	return fn()
}

func (b *batcher) changed(owner *Base) {
	if b.depth > 0 {
		b.dirty = true

		return
	}

	owner.paramsChanged()
}

func (b *Base) paramsChanged() {
	if b.di == nil {
		return
	}

	_ = b.di.TriggerCallbacks(AllCallbacks, nil)
}

func notFound(key string, known []string) error {
	if closest := section.Closest(known, key); closest != "" {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrParameterNotFound, key, closest)
	}

	return fmt.Errorf("%w: %q", ErrParameterNotFound, key)
}

// DictParameters stores parameters in a Dict.
type DictParameters struct {
	Base
	batcher

	dict *Dict
}

// NewDictParameters returns parameters holding the values of the maps, later maps
// taking precedence.
func NewDictParameters(values ...map[string]any) *DictParameters {
	merged := make(map[string]any)
	for _, v := range values {
		maps.Copy(merged, v)
	}

	p := &DictParameters{dict: NewDict(merged)}
	p.dict.ObserveBatch(func([]section.Change) { p.changed(&p.Base) })

	return p
}

// DictParametersModule constructs DictParameters from a map[string]any or a *Dict
// in args.Params, updated with args.Kwargs.
func DictParametersModule(_ *Interface, args Args) (Module, error) {
	var base map[string]any

	switch v := args.Params.(type) {
	case nil:
	case map[string]any:
		base = v
	case *Dict:
		base = v.Map()
	default:
		return nil, fmt.Errorf("%w: expected a map or a *Dict, got %T", ErrInvalidParameters, args.Params)
	}

	return NewDictParameters(base, args.Kwargs), nil
}

// Class returns DictParametersClass.
func (p *DictParameters) Class() *Class { return DictParametersClass }

// Get returns the parameter at key.
func (p *DictParameters) Get(key string) (any, error) {
	v, ok := p.dict.Get(key)
	if !ok {
		return nil, notFound(key, p.dict.Keys())
	}

	return v, nil
}

// GetOr returns the parameter at key, or def if there is none.
func (p *DictParameters) GetOr(key string, def any) any {
	v, ok := p.dict.Get(key)
	if !ok {
		return def
	}

	return v
}

// Set stores a parameter.
func (p *DictParameters) Set(key string, value any) error {
	return p.run(&p.Base, func() error {
		p.dict.Set(key, value)

		return nil
	})
}

// Update stores the parameters of every map.
func (p *DictParameters) Update(values ...map[string]any) error {
	return p.run(&p.Base, func() error {
		for _, v := range values {
			p.dict.Update(v)
		}

		return nil
	})
}

// Reset removes every parameter.
func (p *DictParameters) Reset() error {
	return p.run(&p.Base, func() error {
		p.dict.Clear()

		return nil
	})
}

// Direct returns the *Dict holding the parameters.
func (p *DictParameters) Direct() any { return p.dict }

// Flat returns a copy of the parameters.
func (p *DictParameters) Flat() map[string]any { return p.dict.Map() }

// Snapshot returns a copy of the parameters.
func (p *DictParameters) Snapshot() any { return p.dict.Map() }

// Restore brings the parameters back to a snapshot.
func (p *DictParameters) Restore(snapshot any) error {
	saved, ok := snapshot.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: snapshot of %T", ErrInvalidParameters, snapshot)
	}

	return p.run(&p.Base, func() error {
		for _, k := range p.dict.Keys() {
			if _, keep := saved[k]; !keep {
				p.dict.Delete(k)
			}
		}

		p.dict.Update(saved)

		return nil
	})
}

// SectionParameters stores parameters in a section.
type SectionParameters struct {
	Base
	batcher

	sec *section.Section
}

// NewSectionParameters returns parameters stored in sec. The section is not copied.
func NewSectionParameters(sec *section.Section) *SectionParameters {
	p := &SectionParameters{sec: sec}
	p.observe()

	return p
}

func (p *SectionParameters) observe() {
	p.sec.ObserveBatch(func([]section.Change) { p.changed(&p.Base) })
}

// SectionParametersOf returns a constructor of parameters following schema.
// args.Params may hold a *section.Section or a map of values, updated with args.Kwargs.
func SectionParametersOf(schema *section.Schema) Constructor {
	return func(_ *Interface, args Args) (Module, error) {
		sec, err := section.New(schema)
		if err != nil {
			return nil, err
		}

		var base map[string]any

		switch v := args.Params.(type) {
		case nil:
		case map[string]any:
			base = v
		case *section.Section:
			base = v.Flat()
		default:
			return nil, fmt.Errorf("%w: expected a map or a *section.Section, got %T", ErrInvalidParameters, args.Params)
		}

		err = sec.Update(base, args.Kwargs)
		if err != nil {
			return nil, err
		}

		return NewSectionParameters(sec), nil
	}
}

// Class returns SectionParametersClass.
func (p *SectionParameters) Class() *Class { return SectionParametersClass }

// Section returns the section holding the parameters.
func (p *SectionParameters) Section() *section.Section { return p.sec }

// Get returns the parameter at the dotted key.
func (p *SectionParameters) Get(key string) (any, error) {
	v, err := p.sec.Get(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParameterNotFound, err)
	}

	return v, nil
}

// GetOr returns the parameter at key, or def if there is none.
func (p *SectionParameters) GetOr(key string, def any) any {
	return p.sec.GetOr(key, def)
}

// Set validates and stores a parameter.
func (p *SectionParameters) Set(key string, value any) error {
	return p.run(&p.Base, func() error {
		return p.sec.Set(key, value)
	})
}

// Update validates and stores the parameters of every map. Nothing is stored if
// one value is invalid.
func (p *SectionParameters) Update(values ...map[string]any) error {
	return p.run(&p.Base, func() error {
		return p.sec.Update(values...)
	})
}

// Reset brings every parameter back to its default.
func (p *SectionParameters) Reset() error {
	return p.run(&p.Base, func() error {
		p.sec.Reset()

		return nil
	})
}

// Direct returns the *section.Section holding the parameters.
func (p *SectionParameters) Direct() any { return p.sec }

// Flat returns the parameters keyed by dotted keys.
func (p *SectionParameters) Flat() map[string]any { return p.sec.Flat() }

// Snapshot returns a copy of the section.
func (p *SectionParameters) Snapshot() any { return p.sec.Copy() }

// Restore brings the parameters back to a snapshot. Keys added since the snapshot
// was taken are removed.
func (p *SectionParameters) Restore(snapshot any) error {
	saved, ok := snapshot.(*section.Section)
	if !ok {
		return fmt.Errorf("%w: snapshot of %T", ErrInvalidParameters, snapshot)
	}

	return p.run(&p.Base, func() error {
		return p.sec.Hold(func() error {
			for _, key := range p.sec.Keys() {
				if saved.Contains(key) {
					continue
				}

				err := p.sec.RemoveTrait(key)
				if err != nil {
					return err
				}
			}

			p.sec.Reset()

			return p.sec.Update(saved.Flat())
		})
	})
}

// AppParameters stores parameters in a copy of an application.
type AppParameters struct {
	SectionParameters

	app *application.Application
}

// NewAppParameters returns parameters stored in a copy of app.
func NewAppParameters(app *application.Application) *AppParameters {
	cp := app.Copy()
	p := &AppParameters{app: cp}
	p.sec = cp.Section()
	p.observe()

	return p
}

// AppParametersModule constructs AppParameters from the *application.Application in
// args.Params, updated with args.Kwargs.
func AppParametersModule(_ *Interface, args Args) (Module, error) {
	app, ok := args.Params.(*application.Application)
	if !ok {
		return nil, fmt.Errorf("%w: an application must be passed as parameters, got %T", ErrInvalidParameters, args.Params)
	}

	p := NewAppParameters(app)

	err := p.sec.Update(args.Kwargs)
	if err != nil {
		return nil, err
	}

	return p, nil
}

// Class returns AppParametersClass.
func (p *AppParameters) Class() *Class { return AppParametersClass }

// Direct returns the *application.Application holding the parameters.
func (p *AppParameters) Direct() any { return p.app }

// Application returns the application holding the parameters.
func (p *AppParameters) Application() *application.Application { return p.app }

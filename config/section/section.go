package section

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Descanonge/neba-sub001/config/trait"
)

type namedTrait struct {
	name  string
	trait trait.Trait
}

// Section is a mutable instance of a Schema.
// Values are addressed by dotted keys ("sub.c") that may go through aliases.
// A Section is not safe for concurrent use.
type Section struct {
	schema *Schema
	name   string
	parent *Section

	traits []namedTrait
	values map[string]any
	subs   []*Section

	observers []*observer
	holds     int
	pending   []pendingChange
}

// New returns an instance of schema holding default values, then updated with each
// of values in turn (later maps win). Maps may use dotted keys or be nested.
func New(schema *Schema, values ...map[string]any) (*Section, error) {
	s := newInstance(schema, "", nil)

	merged := make(map[string]any)

	for _, m := range values {
		flat, err := s.flatten(m)
		if err != nil {
			return nil, err
		}

		maps.Copy(merged, flat)
	}

	err := s.Update(merged)
	if err != nil {
		return nil, fmt.Errorf("instantiating %s: %w", schema.name, err)
	}

	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(schema *Schema, values ...map[string]any) *Section {
	s, err := New(schema, values...)
	if err != nil {
		panic(err)
	}

	return s
}

func newInstance(schema *Schema, name string, parent *Section) *Section {
	s := &Section{
		schema: schema,
		name:   name,
		parent: parent,
		values: make(map[string]any),
	}

	for _, e := range schema.entries {
		switch e.kind {
		case fieldEntry:
			s.traits = append(s.traits, namedTrait{name: e.name, trait: e.trait})
			s.values[e.name] = e.trait.Default()
		case subEntry:
			s.subs = append(s.subs, newInstance(e.sub, e.name, s))
		}
	}

	return s
}

// Schema returns the schema this section was instantiated from.
func (s *Section) Schema() *Schema {
	return s.schema
}

// Name returns the name of the section in its parent, empty for a root section.
func (s *Section) Name() string {
	return s.name
}

// Parent returns the parent section, nil for a root section.
func (s *Section) Parent() *Section {
	return s.parent
}

// Path returns the dotted key of this section from the root.
func (s *Section) Path() string {
	if s.parent == nil {
		return ""
	}

	if p := s.parent.Path(); p != "" {
		return p + "." + s.name
	}

	return s.name
}

func (s *Section) ownTrait(name string) (trait.Trait, bool) {
	for _, nt := range s.traits {
		if nt.name == name {
			return nt.trait, true
		}
	}

	return nil, false
}

func (s *Section) ownSub(name string) (*Section, bool) {
	for _, sub := range s.subs {
		if sub.name == name {
			return sub, true
		}
	}

	return nil, false
}

func (s *Section) traitNames() []string {
	names := make([]string, len(s.traits))
	for i, nt := range s.traits {
		names[i] = nt.name
	}

	return names
}

func (s *Section) containerNames() []string {
	names := make([]string, 0, len(s.subs)+len(s.schema.aliases))
	for _, sub := range s.subs {
		names = append(names, sub.name)
	}

	for short := range s.schema.aliases {
		names = append(names, short)
	}

	slices.Sort(names)

	return names
}

// descend follows sub-section names and aliases.
func (s *Section) descend(names []string) (*Section, []string, error) {
	sec := s
	path := make([]string, 0, len(names))

	for _, name := range names {
		if sub, ok := sec.ownSub(name); ok {
			sec = sub
			path = append(path, name)

			continue
		}

		if target, ok := sec.schema.aliases[name]; ok {
			for _, part := range strings.Split(target, ".") {
				sec, _ = sec.ownSub(part)
				path = append(path, part)
			}

			continue
		}

		return nil, path, fmt.Errorf("%w: no sub-section or alias %q%s",
			ErrUnknownKey, name, suggestion(sec.containerNames(), name, path))
	}

	return sec, path, nil
}

// locate returns the section that directly holds the trait at key, and the trait name.
func (s *Section) locate(key string) (*Section, string, error) {
	parts := strings.Split(key, ".")
	prefix, name := parts[:len(parts)-1], parts[len(parts)-1]

	sec, path, err := s.descend(prefix)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %q: %w", key, err)
	}

	if _, ok := sec.ownTrait(name); !ok {
		candidates := sec.traitNames()
		candidates = append(candidates, sec.containerNames()...)

		return nil, "", unknownKey(key, name, candidates, path)
	}

	return sec, name, nil
}

// Contains reports whether key leads to a trait or a sub-section.
func (s *Section) Contains(key string) bool {
	if _, _, err := s.locate(key); err == nil {
		return true
	}

	_, err := s.Sub(key)

	return err == nil
}

// Trait returns the trait at key.
func (s *Section) Trait(key string) (trait.Trait, error) {
	sec, name, err := s.locate(key)
	if err != nil {
		return nil, err
	}

	t, _ := sec.ownTrait(name)

	return t, nil
}

// Get returns the value at key. A key leading to a sub-section returns the *Section.
func (s *Section) Get(key string) (any, error) {
	sec, name, err := s.locate(key)
	if err == nil {
		return sec.values[name], nil
	}

	if sub, subErr := s.Sub(key); subErr == nil {
		return sub, nil
	}

	return nil, err
}

// GetOr returns the value at key, or def if key does not exist.
func (s *Section) GetOr(key string, def any) any {
	v, err := s.Get(key)
	if err != nil {
		return def
	}

	return v
}

// Sub returns the sub-section at key.
func (s *Section) Sub(key string) (*Section, error) {
	sec, _, err := s.descend(strings.Split(key, "."))
	if err != nil {
		return nil, fmt.Errorf("resolving %q: %w", key, err)
	}

	return sec, nil
}

// Subsections returns the direct sub-sections keyed by name.
func (s *Section) Subsections() map[string]*Section {
	out := make(map[string]*Section, len(s.subs))
	for _, sub := range s.subs {
		out[sub.name] = sub
	}

	return out
}

// Set validates value with the trait at key and stores it.
// Observers are notified unless the new value equals the old one.
func (s *Section) Set(key string, value any) error {
	sec, name, err := s.locate(key)
	if err != nil {
		return err
	}

	t, _ := sec.ownTrait(name)

	valid, err := t.Validate(value)
	if err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}

	sec.store(name, valid)

	return nil
}

// SetString parses value with the trait at key and stores it.
func (s *Section) SetString(key, value string) error {
	sec, name, err := s.locate(key)
	if err != nil {
		return err
	}

	t, _ := sec.ownTrait(name)

	parsed, err := t.FromString(value)
	if err != nil {
		return fmt.Errorf("parsing %q: %w", key, err)
	}

	sec.store(name, parsed)

	return nil
}

func (s *Section) store(name string, value any) {
	old := s.values[name]
	if trait.Equal(old, value) {
		return
	}

	s.values[name] = value
	s.emit(Change{Key: name, Old: old, New: value})
}

// Update sets every key of values. Maps may be flat or nested.
//
// All values are validated before any is stored, so a failing update leaves the
// section unchanged. Unknown keys are added as traits holding any value when the
// schema allows new keys, and rejected otherwise.
func (s *Section) Update(values ...map[string]any) error {
	merged := make(map[string]any)

	for _, m := range values {
		flat, err := s.flatten(m)
		if err != nil {
			return err
		}

		maps.Copy(merged, flat)
	}

	type assignment struct {
		sec   *Section
		name  string
		value any
	}

	var (
		assignments []assignment
		added       []string
	)

	for _, key := range slices.Sorted(maps.Keys(merged)) {
		sec, name, err := s.locate(key)
		if err != nil {
			if !s.allowsNewAt(key) {
				return err
			}

			added = append(added, key)
			assignments = append(assignments, assignment{name: key, value: trait.Clone(merged[key])})

			continue
		}

		t, _ := sec.ownTrait(name)

		valid, err := t.Validate(merged[key])
		if err != nil {
			return fmt.Errorf("setting %q: %w", key, err)
		}

		assignments = append(assignments, assignment{sec: sec, name: name, value: valid})
	}

	for _, key := range added {
		err := s.AddTrait(key, trait.Any(nil))
		if err != nil {
			return err
		}
	}

	return s.Hold(func() error {
		for _, a := range assignments {
			if a.sec == nil {
				sec, name, err := s.locate(a.name)
				if err != nil {
					return err
				}

				sec.store(name, a.value)

				continue
			}

			a.sec.store(a.name, a.value)
		}

		return nil
	})
}

// allowsNewAt reports whether a new trait may be created at key.
func (s *Section) allowsNewAt(key string) bool {
	if s.schema.allowNew {
		return true
	}

	parts := strings.Split(key, ".")
	sec := s

	for _, name := range parts[:len(parts)-1] {
		sub, ok := sec.ownSub(name)
		if !ok {
			break
		}

		sec = sub
	}

	return sec.schema.allowNew
}

// AddTrait adds a trait at key, creating missing sub-sections along the way.
// The trait takes its default value. Adding a trait over an existing name is an error.
func (s *Section) AddTrait(key string, t trait.Trait) error {
	parts := strings.Split(key, ".")
	prefix, name := parts[:len(parts)-1], parts[len(parts)-1]

	sec := s

	for _, part := range prefix {
		if _, isTrait := sec.ownTrait(part); isTrait {
			return fmt.Errorf("%w: cannot add %q, %q is a trait", ErrSchema, key, part)
		}

		sub, ok := sec.ownSub(part)
		if !ok {
			sub = newInstance(&Schema{name: part, aliases: map[string]string{}, allowNew: sec.schema.allowNew}, part, sec)
			sec.subs = append(sec.subs, sub)
		}

		sec = sub
	}

	if _, exists := sec.ownTrait(name); exists {
		return fmt.Errorf("%w: trait %q already exists", ErrSchema, key)
	}

	if _, exists := sec.ownSub(name); exists {
		return fmt.Errorf("%w: %q is a sub-section", ErrSchema, key)
	}

	sec.traits = append(sec.traits, namedTrait{name: name, trait: t})
	sec.values[name] = t.Default()

	return nil
}

// RemoveTrait removes a trait added at key by AddTrait or by an update of new keys.
// Sub-sections left empty that the schema does not declare are removed with it.
// Traits declared by the schema cannot be removed.
func (s *Section) RemoveTrait(key string) error {
	sec, name, err := s.locate(key)
	if err != nil {
		return err
	}

	if _, declared := sec.schema.Trait(name); declared {
		return fmt.Errorf("%w: cannot remove %q, it is declared by %s", ErrSchema, key, sec.schema.name)
	}

	old := sec.values[name]

	sec.traits = slices.DeleteFunc(sec.traits, func(nt namedTrait) bool { return nt.name == name })
	delete(sec.values, name)

	if !trait.Equal(old, nil) {
		sec.emit(Change{Key: name, Old: old})
	}

	for sec != s && len(sec.traits) == 0 && len(sec.subs) == 0 {
		parent := sec.parent
		if _, declared := parent.schema.Sub(sec.name); declared {
			break
		}

		parent.subs = slices.DeleteFunc(parent.subs, func(sub *Section) bool { return sub == sec })
		sec = parent
	}

	return nil
}

// Reset sets every trait of the tree back to its default value.
func (s *Section) Reset() {
	_ = s.Hold(func() error {
		s.reset()

		return nil
	})
}

func (s *Section) reset() {
	for _, nt := range s.traits {
		s.store(nt.name, nt.trait.Default())
	}

	for _, sub := range s.subs {
		sub.reset()
	}
}

// Equal reports whether both sections hold the same keys with equal values.
func (s *Section) Equal(other *Section) bool {
	if other == nil {
		return false
	}

	return trait.Equal(s.Flat(), other.Flat())
}

// Copy returns an independent copy of the section tree, without observers.
func (s *Section) Copy() *Section {
	return s.copyInto("", nil)
}

func (s *Section) copyInto(name string, parent *Section) *Section {
	out := &Section{
		schema: s.schema,
		name:   name,
		parent: parent,
		traits: slices.Clone(s.traits),
		values: make(map[string]any, len(s.values)),
	}

	for k, v := range s.values {
		out.values[k] = trait.Clone(v)
	}

	for _, sub := range s.subs {
		out.subs = append(out.subs, sub.copyInto(sub.name, out))
	}

	return out
}

// Keys returns the dotted keys of every trait of the tree, in definition order.
func (s *Section) Keys() []string {
	var keys []string

	s.walk("", func(key string, _ any) {
		keys = append(keys, key)
	})

	return keys
}

// Flat returns a copy of every value of the tree keyed by dotted key.
func (s *Section) Flat() map[string]any {
	out := make(map[string]any)

	s.walk("", func(key string, v any) {
		out[key] = trait.Clone(v)
	})

	return out
}

// Nested returns a copy of every value of the tree as nested maps.
func (s *Section) Nested() map[string]any {
	return NestMap(s.Flat())
}

// Select returns the values at keys, keyed as requested.
func (s *Section) Select(keys ...string) (map[string]any, error) {
	out := make(map[string]any, len(keys))

	for _, key := range keys {
		v, err := s.Get(key)
		if err != nil {
			return nil, err
		}

		if sub, ok := v.(*Section); ok {
			v = sub.Nested()
		}

		out[key] = trait.Clone(v)
	}

	return out, nil
}

func (s *Section) walk(prefix string, fn func(key string, v any)) {
	for _, nt := range s.traits {
		fn(prefix+nt.name, s.values[nt.name])
	}

	for _, sub := range s.subs {
		sub.walk(prefix+sub.name+".", fn)
	}
}

// flatten turns a nested map into dotted keys following sub-sections and aliases.
func (s *Section) flatten(nested map[string]any) (map[string]any, error) {
	flat := make(map[string]any, len(nested))

	for key, value := range nested {
		inner, isMap := value.(map[string]any)
		if !isMap || strings.Contains(key, ".") {
			flat[key] = value

			continue
		}

		sub, _, err := s.descend([]string{key})
		if err != nil {
			flat[key] = value

			continue
		}

		subFlat, err := sub.flatten(inner)
		if err != nil {
			return nil, err
		}

		for k, v := range subFlat {
			flat[key+"."+k] = v
		}
	}

	return flat, nil
}

// String lists every key and value, one per line.
func (s *Section) String() string {
	var b strings.Builder

	s.walk("", func(key string, v any) {
		fmt.Fprintf(&b, "%s = %v\n", key, v)
	})

	return b.String()
}

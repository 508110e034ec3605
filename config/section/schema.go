package section

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Descanonge/neba-sub001/config/trait"
)

var (
	// ErrSchema is returned when a schema definition is invalid.
	ErrSchema = errors.New("invalid section schema")
	// ErrUnknownKey is returned when a key does not lead to a trait or sub-section.
	ErrUnknownKey = errors.New("unknown key")
)

type entryKind int

const (
	fieldEntry entryKind = iota
	subEntry
)

type entry struct {
	kind  entryKind
	name  string
	trait trait.Trait
	sub   *Schema
}

// Schema is the immutable definition of a section: its traits, sub-sections and aliases.
// Schemas are created with NewSchema and shared by every Section instance of that kind.
type Schema struct {
	name     string
	entries  []entry
	aliases  map[string]string
	allowNew bool
}

// Name returns the name given to the schema.
func (s *Schema) Name() string {
	return s.name
}

// AllowsNew reports whether unknown keys are added as new traits instead of rejected.
func (s *Schema) AllowsNew() bool {
	return s.allowNew
}

// TraitNames returns the names of the traits directly defined in this schema, in order.
func (s *Schema) TraitNames() []string {
	var names []string

	for _, e := range s.entries {
		if e.kind == fieldEntry {
			names = append(names, e.name)
		}
	}

	return names
}

// SubNames returns the names of the sub-sections, in order.
func (s *Schema) SubNames() []string {
	var names []string

	for _, e := range s.entries {
		if e.kind == subEntry {
			names = append(names, e.name)
		}
	}

	return names
}

// Aliases returns a copy of the alias table (short name to sub-section path).
func (s *Schema) Aliases() map[string]string {
	out := make(map[string]string, len(s.aliases))
	for k, v := range s.aliases {
		out[k] = v
	}

	return out
}

// Trait returns the trait directly defined under name.
func (s *Schema) Trait(name string) (trait.Trait, bool) {
	e, ok := s.lookup(name)
	if !ok || e.kind != fieldEntry {
		return nil, false
	}

	return e.trait, true
}

// Sub returns the sub-section schema directly defined under name.
func (s *Schema) Sub(name string) (*Schema, bool) {
	e, ok := s.lookup(name)
	if !ok || e.kind != subEntry {
		return nil, false
	}

	return e.sub, true
}

func (s *Schema) lookup(name string) (entry, bool) {
	for _, e := range s.entries {
		if e.name == name {
			return e, true
		}
	}

	return entry{}, false
}

// Keys returns the dotted keys of every trait in the schema tree.
func (s *Schema) Keys() []string {
	var keys []string

	s.walk("", func(key string, _ trait.Trait) {
		keys = append(keys, key)
	})

	return keys
}

// Traits returns every trait of the schema tree keyed by dotted key.
func (s *Schema) Traits() map[string]trait.Trait {
	out := make(map[string]trait.Trait)

	s.walk("", func(key string, t trait.Trait) {
		out[key] = t
	})

	return out
}

// Defaults returns the default value of every trait of the tree keyed by dotted key.
func (s *Schema) Defaults() map[string]any {
	out := make(map[string]any)

	s.walk("", func(key string, t trait.Trait) {
		out[key] = t.Default()
	})

	return out
}

func (s *Schema) walk(prefix string, fn func(key string, t trait.Trait)) {
	for _, e := range s.entries {
		switch e.kind {
		case fieldEntry:
			fn(prefix+e.name, e.trait)
		case subEntry:
			e.sub.walk(prefix+e.name+".", fn)
		}
	}
}

// ResolveKey returns the canonical dotted key (aliases expanded) and the trait for key.
func (s *Schema) ResolveKey(key string) (string, trait.Trait, error) {
	parts := strings.Split(key, ".")
	prefix, name := parts[:len(parts)-1], parts[len(parts)-1]

	schema, path, err := s.descend(prefix)
	if err != nil {
		return "", nil, fmt.Errorf("%w %q: %w", ErrUnknownKey, key, err)
	}

	t, ok := schema.Trait(name)
	if !ok {
		return "", nil, unknownKey(key, name, schema.TraitNames(), path)
	}

	return strings.Join(append(path, name), "."), t, nil
}

// descend follows sub-section names and aliases and returns the reached schema
// with the canonical path to it.
func (s *Schema) descend(names []string) (*Schema, []string, error) {
	schema := s
	path := make([]string, 0, len(names))

	for _, name := range names {
		if sub, ok := schema.Sub(name); ok {
			schema = sub
			path = append(path, name)

			continue
		}

		if target, ok := schema.aliases[name]; ok {
			for _, part := range strings.Split(target, ".") {
				schema, _ = schema.Sub(part)
				path = append(path, part)
			}

			continue
		}

		return nil, nil, fmt.Errorf("no sub-section or alias %q%s", name, suggestion(schema.containerNames(), name, path))
	}

	return schema, path, nil
}

func (s *Schema) containerNames() []string {
	names := s.SubNames()
	for short := range s.aliases {
		names = append(names, short)
	}

	slices.Sort(names)

	return names
}

// FlattenMap turns a nested map into a map of dotted keys, following the structure
// of the schema: nested maps are only descended into for sub-sections and aliases.
func (s *Schema) FlattenMap(nested map[string]any) (map[string]any, error) {
	flat := make(map[string]any)

	err := s.flattenInto(flat, nested, nil)
	if err != nil {
		return nil, err
	}

	return flat, nil
}

func (s *Schema) flattenInto(flat, nested map[string]any, path []string) error {
	for key, value := range nested {
		fullPath := append(slices.Clone(path), key)
		fullKey := strings.Join(fullPath, ".")

		schema, isContainer := s.container(key)
		if !isContainer {
			flat[fullKey] = value

			continue
		}

		sub, ok := value.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s corresponds to a sub-section, it should be a mapping (received %T)",
				ErrSchema, fullKey, value)
		}

		err := schema.flattenInto(flat, sub, fullPath)
		if err != nil {
			return err
		}
	}

	return nil
}

// container returns the schema reached by a sub-section name or an alias.
func (s *Schema) container(name string) (*Schema, bool) {
	if strings.Contains(name, ".") {
		return nil, false
	}

	schema, _, err := s.descend([]string{name})
	if err != nil {
		return nil, false
	}

	return schema, true
}

// Builder accumulates a schema definition. Errors are reported by Build.
type Builder struct {
	name     string
	parents  []*Schema
	own      []entry
	aliases  [][2]string
	allowNew bool
}

// NewSchema starts the definition of a schema.
func NewSchema(name string) *Builder {
	return &Builder{name: name}
}

// Field declares a trait.
func (b *Builder) Field(name string, t trait.Trait) *Builder {
	b.own = append(b.own, entry{kind: fieldEntry, name: name, trait: t})

	return b
}

// Sub declares a sub-section.
func (b *Builder) Sub(name string, schema *Schema) *Builder {
	b.own = append(b.own, entry{kind: subEntry, name: name, sub: schema})

	return b
}

// Alias declares a short name for a sub-section path, such as "short" for "some.deep.section".
func (b *Builder) Alias(short, target string) *Builder {
	b.aliases = append(b.aliases, [2]string{short, target})

	return b
}

// Extend merges the definitions of parent before the ones of this builder.
// Definitions of this builder replace those of the parent with the same name.
func (b *Builder) Extend(parent *Schema) *Builder {
	b.parents = append(b.parents, parent)

	return b
}

// AllowNew lets instances accept unknown keys, added as traits holding any value.
func (b *Builder) AllowNew() *Builder {
	b.allowNew = true

	return b
}

// Build validates the definition and returns the schema.
func (b *Builder) Build() (*Schema, error) {
	seen := make(map[string]bool, len(b.own))

	for _, e := range b.own {
		switch {
		case e.name == "" || strings.Contains(e.name, "."):
			return nil, fmt.Errorf("%w %s: invalid name %q", ErrSchema, b.name, e.name)
		case seen[e.name]:
			return nil, fmt.Errorf("%w %s: %q is defined twice", ErrSchema, b.name, e.name)
		case e.kind == fieldEntry && e.trait == nil:
			return nil, fmt.Errorf("%w %s: trait %q is nil", ErrSchema, b.name, e.name)
		case e.kind == subEntry && e.sub == nil:
			return nil, fmt.Errorf("%w %s: sub-section %q is nil", ErrSchema, b.name, e.name)
		}

		seen[e.name] = true
	}

	schema := &Schema{name: b.name, aliases: make(map[string]string), allowNew: b.allowNew}

	for _, parent := range b.parents {
		for _, e := range parent.entries {
			schema.entries = replaceEntry(schema.entries, e)
		}

		for short, target := range parent.aliases {
			schema.aliases[short] = target
		}

		schema.allowNew = schema.allowNew || parent.allowNew
	}

	for _, e := range b.own {
		schema.entries = replaceEntry(schema.entries, e)
	}

	for _, alias := range b.aliases {
		short, target := alias[0], alias[1]

		if strings.Contains(short, ".") {
			return nil, fmt.Errorf("%w %s: invalid alias %q, '.' is not allowed", ErrSchema, b.name, short)
		}

		if _, ok := schema.lookup(short); ok || seen[short] {
			return nil, fmt.Errorf("%w %s: alias %q collides with a definition", ErrSchema, b.name, short)
		}

		schema.aliases[short] = target
	}

	for short, target := range schema.aliases {
		sub := schema
		for _, part := range strings.Split(target, ".") {
			next, ok := sub.Sub(part)
			if !ok {
				return nil, fmt.Errorf("%w %s: alias %q to %q is malformed", ErrSchema, b.name, short, target)
			}

			sub = next
		}
	}

	return schema, nil
}

// MustBuild is like Build but panics on error. It is meant for package-level schemas.
func (b *Builder) MustBuild() *Schema {
	schema, err := b.Build()
	if err != nil {
		panic(err)
	}

	return schema
}

func replaceEntry(entries []entry, e entry) []entry {
	for i := range entries {
		if entries[i].name == e.name {
			entries[i] = e

			return entries
		}
	}

	return append(entries, e)
}

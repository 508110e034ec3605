package data

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
)

// Dict is a flat mapping of parameters notifying observers of every change.
// Writing a value equal to the current one is not a change.
type Dict struct {
	values    map[string]any
	observers []*observer
}

type observer struct {
	fn    func(section.Change)
	batch func([]section.Change)
}

// NewDict returns a dict holding a copy of values.
func NewDict(values map[string]any) *Dict {
	d := &Dict{values: make(map[string]any, len(values))}
	for k, v := range values {
		d.values[k] = trait.Clone(v)
	}

	return d
}

// Observe registers fn to be called after each change. It returns a function
// removing the observer.
func (d *Dict) Observe(fn func(section.Change)) (cancel func()) {
	return d.addObserver(&observer{fn: fn})
}

// ObserveBatch registers fn to be called once per modifying call, with every
// change the call made. It returns a function removing the observer.
func (d *Dict) ObserveBatch(fn func([]section.Change)) (cancel func()) {
	return d.addObserver(&observer{batch: fn})
}

func (d *Dict) addObserver(o *observer) (cancel func()) {
	d.observers = append(d.observers, o)

	return func() {
		d.observers = slices.DeleteFunc(d.observers, func(other *observer) bool {
			return other == o
		})
	}
}

func (d *Dict) notify(changes []section.Change) {
	if len(changes) == 0 {
		return
	}

	for _, o := range slices.Clone(d.observers) {
		if o.batch != nil {
			o.batch(changes)

			continue
		}

		for _, c := range changes {
			o.fn(c)
		}
	}
}

// Get returns the value at key.
func (d *Dict) Get(key string) (any, bool) {
	v, ok := d.values[key]

	return v, ok
}

// Set stores value at key.
func (d *Dict) Set(key string, value any) {
	d.notify(d.set(nil, key, value))
}

func (d *Dict) set(changes []section.Change, key string, value any) []section.Change {
	old, existed := d.values[key]
	d.values[key] = value

	if existed && trait.Equal(old, value) {
		return changes
	}

	return append(changes, section.Change{Key: key, Old: old, New: value})
}

// Update stores every value of values.
func (d *Dict) Update(values map[string]any) {
	var changes []section.Change

	for _, k := range slices.Sorted(maps.Keys(values)) {
		changes = d.set(changes, k, values[k])
	}

	d.notify(changes)
}

// Delete removes key.
func (d *Dict) Delete(key string) {
	d.notify(d.delete(nil, key))
}

func (d *Dict) delete(changes []section.Change, key string) []section.Change {
	old, ok := d.values[key]
	if !ok {
		return changes
	}

	delete(d.values, key)

	return append(changes, section.Change{Key: key, Old: old})
}

// Clear removes every key.
func (d *Dict) Clear() {
	var changes []section.Change

	for _, k := range d.Keys() {
		changes = d.delete(changes, k)
	}

	d.notify(changes)
}

// Keys returns the keys, sorted.
func (d *Dict) Keys() []string {
	return slices.Sorted(maps.Keys(d.values))
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	return len(d.values)
}

// Map returns a deep copy of the content.
func (d *Dict) Map() map[string]any {
	out := make(map[string]any, len(d.values))
	for k, v := range d.values {
		out[k] = trait.Clone(v)
	}

	return out
}

func (d *Dict) String() string {
	parts := make([]string, 0, len(d.values))
	for _, k := range d.Keys() {
		parts = append(parts, fmt.Sprintf("%s: %v", k, d.values[k]))
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

package data

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Descanonge/neba-sub001/config/section"
)

var (
	// ErrDuplicateRegistration is returned when registering a dataset under a taken key.
	ErrDuplicateRegistration = errors.New("duplicate registration")
	// ErrDatasetNotFound is returned when no dataset is registered under a key.
	ErrDatasetNotFound = errors.New("dataset not found")
	// ErrAmbiguousShortName is returned when a short name designates several datasets.
	ErrAmbiguousShortName = errors.New("ambiguous short name")
	// ErrMissingID is returned when registering a definition with neither ID nor short name.
	ErrMissingID = errors.New("definition has no ID nor short name")
)

// Store registers dataset definitions. Definitions are stored under their ID, or
// their short name if they have no ID, and can be retrieved with either.
type Store struct {
	defs       map[string]*Definition
	keys       []string
	shortNames map[string][]string
}

// NewStore returns a store holding defs.
func NewStore(defs ...*Definition) (*Store, error) {
	s := &Store{
		defs:       make(map[string]*Definition),
		shortNames: make(map[string][]string),
	}

	for _, def := range defs {
		err := s.Add(def)
		if err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Add registers def under its ID, or its short name.
func (s *Store) Add(def *Definition) error {
	switch {
	case def.ID != "":
		return s.AddAs(def.ID, def)
	case def.ShortName != "":
		return s.AddAs(def.ShortName, def)
	}

	return fmt.Errorf("%w: %s", ErrMissingID, def.Name)
}

// AddAs registers def under key. Its short name, if any, becomes an alias.
func (s *Store) AddAs(key string, def *Definition) error {
	if _, exists := s.defs[key]; exists {
		return fmt.Errorf("%w: key %q already exists", ErrDuplicateRegistration, key)
	}

	short := def.ShortName
	if short != "" && short != key {
		if existing, exists := s.defs[short]; exists {
			return fmt.Errorf("%w: dataset %s is already registered with key %q", ErrDuplicateRegistration, existing, short)
		}
	}

	if short != "" {
		s.shortNames[short] = append(s.shortNames[short], key)
	}

	s.defs[key] = def
	s.keys = append(s.keys, key)

	return nil
}

func (s *Store) resolve(key string) (string, error) {
	ids, ok := s.shortNames[key]
	if !ok {
		return key, nil
	}

	if len(ids) > 1 {
		return "", fmt.Errorf("%w: %q designates %s", ErrAmbiguousShortName, key, strings.Join(ids, ", "))
	}

	return ids[0], nil
}

// Get returns the definition registered under an ID or short name.
func (s *Store) Get(key string) (*Definition, error) {
	id, err := s.resolve(key)
	if err != nil {
		return nil, err
	}

	def, ok := s.defs[id]
	if !ok {
		candidates := append(slices.Clone(s.keys), s.shortNameList()...)
		if closest := section.Closest(candidates, key); closest != "" {
			return nil, fmt.Errorf("%w: %q (did you mean %q?)", ErrDatasetNotFound, key, closest)
		}

		return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, key)
	}

	return def, nil
}

// Open builds an interface from the definition registered under key.
func (s *Store) Open(key string, args Args) (*Interface, error) {
	def, err := s.Get(key)
	if err != nil {
		return nil, err
	}

	return New(def, args)
}

// Contains reports whether key is a registered ID or short name.
func (s *Store) Contains(key string) bool {
	_, isKey := s.defs[key]
	_, isShort := s.shortNames[key]

	return isKey || isShort
}

// Delete removes the definition registered under an ID or short name.
func (s *Store) Delete(key string) error {
	id, err := s.resolve(key)
	if err != nil {
		return err
	}

	if _, ok := s.defs[id]; !ok {
		return fmt.Errorf("%w: %q", ErrDatasetNotFound, key)
	}

	delete(s.defs, id)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == id })

	for short, ids := range s.shortNames {
		ids = slices.DeleteFunc(ids, func(k string) bool { return k == id })
		if len(ids) == 0 {
			delete(s.shortNames, short)
		} else {
			s.shortNames[short] = ids
		}
	}

	return nil
}

// Keys returns the registration keys, in registration order.
func (s *Store) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of definitions.
func (s *Store) Len() int {
	return len(s.keys)
}

func (s *Store) shortNameList() []string {
	out := make([]string, 0, len(s.shortNames))
	for short := range s.shortNames {
		out = append(out, short)
	}

	slices.Sort(out)

	return out
}

// String lists every key with its aliases and definition.
func (s *Store) String() string {
	parts := make([]string, 0, len(s.keys))

	for _, key := range s.keys {
		names := []string{fmt.Sprintf("%q", key)}

		for _, short := range s.shortNameList() {
			if short != key && slices.Contains(s.shortNames[short], key) {
				names = append(names, fmt.Sprintf("%q", short))
			}
		}

		parts = append(parts, strings.Join(names, " | ")+" : "+s.defs[key].String())
	}

	return "{" + strings.Join(parts, ", ") + "}"
}

package trait

import (
	"errors"
	"strings"
)

// UnionTrait accepts a value valid for any of its alternatives, tried in order.
type UnionTrait struct {
	meta
	alts []Trait
}

// Union returns a trait trying each alternative in order.
// The default is the default of the first alternative unless set with WithDefault.
func Union(alts []Trait, opts ...Option) *UnionTrait {
	var def any
	if len(alts) > 0 {
		def = alts[0].Default()
	}

	return &UnionTrait{meta: newMeta(applyOptions(def, opts), false), alts: alts}
}

// Alternatives returns the traits of the union.
func (t *UnionTrait) Alternatives() []Trait {
	return t.alts
}

// Kind implements Trait.
func (t *UnionTrait) Kind() string {
	kinds := make([]string, len(t.alts))
	for i, alt := range t.alts {
		kinds[i] = alt.Kind()
	}

	return strings.Join(kinds, " or ")
}

// Validate returns the result of the first alternative that accepts v.
func (t *UnionTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	return t.first(v, func(alt Trait) (any, error) { return alt.Validate(v) })
}

// FromString returns the result of the first alternative that parses s.
func (t *UnionTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	return t.first(s, func(alt Trait) (any, error) { return alt.FromString(s) })
}

// FromStringList is delegated to the first alternative able to parse lists.
func (t *UnionTrait) FromStringList(items []string) (any, error) {
	if len(items) == 1 {
		return t.FromString(items[0])
	}

	return t.first(items, func(alt Trait) (any, error) {
		lp, ok := alt.(ListParser)
		if !ok {
			return nil, ErrValidation
		}

		return lp.FromStringList(items)
	})
}

func (t *UnionTrait) first(v any, try func(Trait) (any, error)) (any, error) {
	var errs []error

	for _, alt := range t.alts {
		out, err := try(alt)
		if err == nil {
			return out, nil
		}

		errs = append(errs, err)
	}

	return nil, invalid(t.Kind(), v, errors.Join(errs...))
}

// Fixable returns the trait used for parameters that fix a filename pattern group.
//
// It accepts a single item, a range of items when item is numeric (a list
// otherwise, or when WithoutRange is given), and any string with WithUnicode.
// Nil is accepted by default and means the group is left unfixed.
func Fixable(item Trait, opts ...Option) *UnionTrait {
	o := applyOptions(nil, opts)

	alts := []Trait{item}

	_, isInt := item.(*IntTrait)
	_, isFloat := item.(*FloatTrait)

	if (isInt || isFloat) && !o.noRange {
		rangeOpts := []Option{}
		if o.maxLen > 0 {
			rangeOpts = append(rangeOpts, WithMaxLen(o.maxLen))
		}

		alts = append(alts, Range(item, rangeOpts...))
	} else {
		alts = append(alts, List(item))
	}

	if _, isString := item.(*StringTrait); o.unicode && !isString {
		alts = append(alts, String(""))
	}

	return &UnionTrait{meta: newMeta(o, true), alts: alts}
}

package trait

import (
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"
)

// IntTrait holds an int.
type IntTrait struct {
	meta
}

// Int returns an integer trait with the given default.
func Int(def int, opts ...Option) *IntTrait {
	return &IntTrait{meta: newMeta(applyOptions(def, opts), false)}
}

// Kind implements Trait.
func (t *IntTrait) Kind() string { return "an int" }

// Validate accepts any Go integer, and floats without fractional part.
func (t *IntTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt {
			return nil, invalid(t.Kind(), v, fmt.Errorf("%d overflows int", u))
		}

		return int(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			return nil, invalid(t.Kind(), v, nil)
		}

		if f < math.MinInt || f >= -math.MinInt {
			return nil, invalid(t.Kind(), v, fmt.Errorf("%g overflows int", f))
		}

		return int(f), nil
	default:
		return nil, invalid(t.Kind(), v, nil)
	}
}

// FromString parses a base-10 integer.
func (t *IntTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, invalid(t.Kind(), s, err)
	}

	return i, nil
}

// FloatTrait holds a float64.
type FloatTrait struct {
	meta
}

// Float returns a float trait with the given default.
func Float(def float64, opts ...Option) *FloatTrait {
	return &FloatTrait{meta: newMeta(applyOptions(def, opts), false)}
}

// Kind implements Trait.
func (t *FloatTrait) Kind() string { return "a float" }

// Validate accepts any Go number.
func (t *FloatTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	rv := reflect.ValueOf(v)

	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	default:
		return nil, invalid(t.Kind(), v, nil)
	}
}

// FromString parses a float.
func (t *FloatTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, invalid(t.Kind(), s, err)
	}

	return f, nil
}

// BoolTrait holds a bool.
type BoolTrait struct {
	meta
}

// Bool returns a boolean trait with the given default.
func Bool(def bool, opts ...Option) *BoolTrait {
	return &BoolTrait{meta: newMeta(applyOptions(def, opts), false)}
}

// Kind implements Trait.
func (t *BoolTrait) Kind() string { return "a bool" }

// Validate implements Trait.
func (t *BoolTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	b, ok := v.(bool)
	if !ok {
		return nil, invalid(t.Kind(), v, nil)
	}

	return b, nil
}

// FromString accepts the forms understood by strconv.ParseBool.
func (t *BoolTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	b, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return nil, invalid(t.Kind(), s, err)
	}

	return b, nil
}

// StringTrait holds a string.
type StringTrait struct {
	meta
}

// String returns a string trait with the given default.
func String(def string, opts ...Option) *StringTrait {
	return &StringTrait{meta: newMeta(applyOptions(def, opts), false)}
}

// Kind implements Trait.
func (t *StringTrait) Kind() string { return "a string" }

// Validate implements Trait.
func (t *StringTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	s, ok := v.(string)
	if !ok {
		return nil, invalid(t.Kind(), v, nil)
	}

	return s, nil
}

// FromString returns s unchanged.
func (t *StringTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	return s, nil
}

// EnumTrait holds one string out of a fixed set.
type EnumTrait struct {
	meta
	values []string
}

// Enum returns a trait accepting only the given values.
func Enum(values []string, def string, opts ...Option) *EnumTrait {
	return &EnumTrait{
		meta:   newMeta(applyOptions(def, opts), false),
		values: slices.Clone(values),
	}
}

// Kind implements Trait.
func (t *EnumTrait) Kind() string {
	return fmt.Sprintf("any of %q", t.values)
}

// Values returns the accepted values.
func (t *EnumTrait) Values() []string {
	return slices.Clone(t.values)
}

// Validate implements Trait.
func (t *EnumTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	s, ok := v.(string)
	if !ok || !slices.Contains(t.values, s) {
		return nil, invalid(t.Kind(), v, nil)
	}

	return s, nil
}

// FromString implements Trait.
func (t *EnumTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	return t.Validate(strings.TrimSpace(s))
}

// AnyTrait accepts any value. It backs keys added at runtime to open sections.
type AnyTrait struct {
	meta
}

// Any returns a trait accepting any value, nil included.
func Any(def any, opts ...Option) *AnyTrait {
	return &AnyTrait{meta: newMeta(applyOptions(def, opts), true)}
}

// Kind implements Trait.
func (t *AnyTrait) Kind() string { return "any value" }

// Validate implements Trait.
func (t *AnyTrait) Validate(v any) (any, error) {
	return Clone(v), nil
}

// FromString implements Trait.
func (t *AnyTrait) FromString(s string) (any, error) {
	return s, nil
}

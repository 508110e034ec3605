package trait

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

// DefaultRangeMaxLen is the default cap on the number of values a range may generate.
const DefaultRangeMaxLen = 500

var (
	// ErrZeroStep is returned for a range expression with a null step.
	ErrZeroStep = errors.New("range step cannot be zero")
	// ErrRangeTooLong is returned when a range would generate too many values.
	ErrRangeTooLong = errors.New("range length exceeds maximum length")
	// ErrRangeItem is returned when a Range is defined over a non-numeric trait.
	ErrRangeItem = errors.New("range items must be Int or Float")
)

var rangeRegexp = regexp.MustCompile(`^([-+.0-9eE]+?):([-+.0-9eE]+?)(?::([-+.0-9eE]*?))?$`)

// ListTrait holds a list of values of a single item trait.
type ListTrait struct {
	meta
	item Trait
}

// List returns a list trait. The default is an empty list unless set with WithDefault.
func List(item Trait, opts ...Option) *ListTrait {
	return &ListTrait{meta: newMeta(applyOptions([]any{}, opts), false), item: item}
}

// Item returns the trait of the list elements.
func (t *ListTrait) Item() Trait {
	return t.item
}

// Kind implements Trait.
func (t *ListTrait) Kind() string {
	return "a list of " + strings.TrimPrefix(strings.TrimPrefix(t.item.Kind(), "an "), "a ")
}

// Validate accepts any slice or array whose elements are valid items.
func (t *ListTrait) Validate(v any) (any, error) {
	if isNone, err := t.none(v); isNone {
		return nil, err
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, invalid(t.Kind(), v, nil)
	}

	out := make([]any, rv.Len())

	for i := range rv.Len() {
		item, err := t.item.Validate(rv.Index(i).Interface())
		if err != nil {
			return nil, invalid(t.Kind(), v, fmt.Errorf("element %d: %w", i, err))
		}

		out[i] = item
	}

	return out, nil
}

// FromString parses "a,b,c" or "[a, b, c]".
func (t *ListTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	return t.FromStringList(splitList(s))
}

// FromStringList parses each element with the item trait.
func (t *ListTrait) FromStringList(items []string) (any, error) {
	out := make([]any, 0, len(items))

	for _, s := range items {
		item, err := t.item.FromString(s)
		if err != nil {
			return nil, invalid(t.Kind(), items, err)
		}

		out = append(out, item)
	}

	return out, nil
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")

	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `"'`)
	}

	return parts
}

// RangeTrait is a list of numbers that can be written as "start:stop[:step]".
type RangeTrait struct {
	ListTrait
	maxLen int
}

// Range returns a range trait over an Int or Float item trait.
// It panics with ErrRangeItem for any other item, as this is a definition error.
func Range(item Trait, opts ...Option) *RangeTrait {
	switch item.(type) {
	case *IntTrait, *FloatTrait:
	default:
		panic(fmt.Errorf("%w: got %T", ErrRangeItem, item))
	}

	o := applyOptions([]any{}, opts)

	maxLen := o.maxLen
	if maxLen <= 0 {
		maxLen = DefaultRangeMaxLen
	}

	return &RangeTrait{
		ListTrait: ListTrait{meta: newMeta(o, false), item: item},
		maxLen:    maxLen,
	}
}

// MaxLen returns the maximum length of a generated range.
func (t *RangeTrait) MaxLen() int {
	return t.maxLen
}

// FromString parses a range expression, or falls back to a list.
func (t *RangeTrait) FromString(s string) (any, error) {
	if t.noneString(s) {
		return nil, nil
	}

	if values, ok, err := t.parseRange(s); ok {
		return values, err
	}

	return t.ListTrait.FromString(s)
}

// FromStringList parses each element as a range expression or a single item,
// and concatenates the results.
func (t *RangeTrait) FromStringList(items []string) (any, error) {
	var out []any

	for _, s := range items {
		values, ok, err := t.parseRange(s)
		if ok {
			if err != nil {
				return nil, err
			}

			out = append(out, values...)

			continue
		}

		item, err := t.item.FromString(s)
		if err != nil {
			return nil, invalid(t.Kind(), items, err)
		}

		out = append(out, item)
	}

	if out == nil {
		out = []any{}
	}

	return out, nil
}

// parseRange reports ok=false when s is not a range expression at all.
func (t *RangeTrait) parseRange(s string) ([]any, bool, error) {
	idx := rangeRegexp.FindStringSubmatchIndex(strings.TrimSpace(s))
	if idx == nil {
		return nil, false, nil
	}

	s = strings.TrimSpace(s)
	start, stop := s[idx[2]:idx[3]], s[idx[4]:idx[5]]

	step := "1"
	if idx[6] >= 0 {
		step = s[idx[6]:idx[7]]
	}

	values, err := t.Generate(start, stop, step)
	if err != nil {
		return nil, true, invalid(t.Kind(), s, fmt.Errorf("failed to parse range specification: %w", err))
	}

	return values, true, nil
}

// Generate returns the values between start and stop (included when reached) spaced by step.
// Each bound is parsed by the item trait.
func (t *RangeTrait) Generate(start, stop, step string) ([]any, error) {
	args := make([]any, 0, 3)

	for _, part := range []struct{ name, value string }{
		{"start", start}, {"stop", stop}, {"step", step},
	} {
		v, err := t.item.FromString(part.value)
		if err != nil {
			return nil, fmt.Errorf("could not parse %s=%q: %w", part.name, part.value, err)
		}

		args = append(args, v)
	}

	switch args[0].(type) {
	case int:
		return generate(args[0].(int), args[1].(int), args[2].(int), t.maxLen)
	default:
		return generate(args[0].(float64), args[1].(float64), args[2].(float64), t.maxLen)
	}
}

type number interface {
	~int | ~float64
}

func generate[T number](start, stop, step T, maxLen int) ([]any, error) {
	if step == 0 {
		return nil, ErrZeroStep
	}

	if step < 0 {
		step = -step
	}

	descending := start > stop
	if descending {
		step = -step
	}

	passed := func(current T) bool {
		if descending {
			return current < stop
		}

		return current > stop
	}

	values := make([]any, 0)

	// Computed from start on each iteration so floats do not drift.
	for i := range maxLen {
		current := start + T(i)*step
		if passed(current) {
			break
		}

		values = append(values, current)
	}

	if len(values) >= maxLen {
		return nil, fmt.Errorf("%w (%d), possible mistake", ErrRangeTooLong, maxLen)
	}

	return values, nil
}

package trait

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned when a value or string cannot be converted by a trait.
var ErrValidation = errors.New("invalid value")

// Trait is a typed configuration slot.
type Trait interface {
	// Default returns a fresh copy of the default value.
	Default() any
	// Validate coerces v to the canonical representation of the trait.
	Validate(v any) (any, error)
	// FromString parses a textual value, as found in configuration files or CLI arguments.
	FromString(s string) (any, error)
	// Help returns the help text of the trait.
	Help() string
	// Kind describes the accepted values, for error messages and help output.
	Kind() string
}

// ListParser is implemented by traits that can be set from repeated CLI arguments.
type ListParser interface {
	FromStringList(items []string) (any, error)
}

// Option configures a trait at definition time.
type Option func(*options)

type options struct {
	help       string
	def        any
	hasDefault bool
	allowNone  *bool
	unicode    bool
	noRange    bool
	maxLen     int
}

// WithHelp sets the help text of a trait.
func WithHelp(help string) Option {
	return func(o *options) {
		o.help = help
	}
}

// WithDefault overrides the default value of a trait.
func WithDefault(value any) Option {
	return func(o *options) {
		o.def = value
		o.hasDefault = true
	}
}

// WithAllowNone sets whether nil is a valid value.
// Most traits reject nil by default; Fixable accepts it by default.
func WithAllowNone(allow bool) Option {
	return func(o *options) {
		o.allowNone = &allow
	}
}

// WithUnicode lets a Fixable accept any string.
func WithUnicode() Option {
	return func(o *options) {
		o.unicode = true
	}
}

// WithoutRange makes a numeric Fixable accept lists instead of range expressions.
func WithoutRange() Option {
	return func(o *options) {
		o.noRange = true
	}
}

// WithMaxLen sets the maximum number of values a range expression may generate.
func WithMaxLen(n int) Option {
	return func(o *options) {
		o.maxLen = n
	}
}

func applyOptions(def any, opts []Option) options {
	o := options{def: def}
	for _, apply := range opts {
		apply(&o)
	}

	return o
}

// meta holds what every trait shares.
type meta struct {
	help      string
	def       any
	allowNone bool
}

func newMeta(o options, allowNoneDefault bool) meta {
	allowNone := allowNoneDefault
	if o.allowNone != nil {
		allowNone = *o.allowNone
	}

	return meta{help: o.help, def: o.def, allowNone: allowNone}
}

func (m *meta) Help() string {
	return m.help
}

func (m *meta) Default() any {
	return Clone(m.def)
}

// none reports whether v is a nil value accepted by the trait.
func (m *meta) none(v any) (bool, error) {
	if v != nil {
		return false, nil
	}

	if m.allowNone {
		return true, nil
	}

	return true, fmt.Errorf("%w: nil is not allowed", ErrValidation)
}

func (m *meta) noneString(s string) bool {
	return m.allowNone && strings.TrimSpace(s) == "None"
}

// ValidationError describes a value rejected by a trait.
type ValidationError struct {
	Kind  string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("expected %s, got %#v (%T)", e.Kind, e.Value, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

// Unwrap allows errors.Is to match ErrValidation and the underlying cause.
func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrValidation}
	}

	return []error{ErrValidation, e.Err}
}

func invalid(kind string, value any, cause error) error {
	return &ValidationError{Kind: kind, Value: value, Err: cause}
}

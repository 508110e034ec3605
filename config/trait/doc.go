// Package trait provides the typed fields used to declare configuration sections.
//
// A Trait is a validated, defaultable slot. It knows how to coerce a Go value into
// its canonical representation (Validate) and how to parse the textual form that
// arrives from configuration files or command-line arguments (FromString).
//
// Canonical representations:
//   - Int: int
//   - Float: float64
//   - Bool: bool
//   - String, Enum: string
//   - List, Range: []any of canonical items
//
// # Ranges
//
// Range is a list trait that also understands "start:stop[:step]":
//
//	"2000:2005"   -> [2000 2001 2002 2003 2004 2005]
//	"2000:2005:2" -> [2000 2002 2004]
//	"2005:2000:2" -> [2005 2003 2001]
//	"0.:2.:0.5"   -> [0 0.5 1 1.5 2]
//
// # Fixables
//
// Fixable is a union used for filename-pattern parameters: it accepts a single
// value, a range (or list) of values, and optionally any string, which callers
// interpret as a regular expression.
package trait

// Package section provides hierarchical configuration sections.
//
// A Schema is declared once, usually as a package-level variable:
//
//	var Processing = section.NewSchema("processing").
//		Field("years", trait.Range(trait.Int(0))).
//		Field("method", trait.Enum([]string{"mean", "median"}, "mean")).
//		MustBuild()
//
//	var Root = section.NewSchema("root").
//		Field("verbose", trait.Bool(false)).
//		Sub("processing", Processing).
//		Alias("proc", "processing").
//		MustBuild()
//
// A Section is an instance of a schema. Its values are read and written through
// dotted keys ("processing.years", or "proc.years" through the alias). Writes are
// validated by the trait of the key, and unknown keys are rejected with a
// suggestion of the closest existing key.
//
// Observers registered with Observe are called on every effective change of a
// value in the section or its sub-sections. Writing a value equal to the current
// one is not a change.
package section

// Package config provides configuration loading functionalities and interfaces.
//
// The package uses an interface-based design with four extension points:
//   - Parser: deserializes raw data into a target, with path navigation support
//   - DataFetcher: retrieves raw config data (file, static bytes, etc.)
//   - Validator: validates config after parsing
//   - Defaulter: applies default values before validation
//
// Typed, hierarchical parameters are declared with the section and trait
// sub-packages; LoadSection fills a section from any Parser and DataFetcher.
//
// # Path Navigation
//
// Paths use colon (:) as the separator:
//
//	"processing:years"  -> config["processing"]["years"]
//	""                  -> entire document
//
// # Example
//
//	sec := section.MustNew(schema)
//	parser, err := config.ParserForFile("params.toml")
//	fetcher, err := filefetcher.NewFetcher("params.toml")()
//	err = config.LoadSection(sec, parser, fetcher, "")
package config

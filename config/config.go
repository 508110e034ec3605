package config

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Descanonge/neba-sub001/config/parser/json"
	"github.com/Descanonge/neba-sub001/config/parser/toml"
	"github.com/Descanonge/neba-sub001/config/parser/yaml"
	"github.com/Descanonge/neba-sub001/config/section"
)

// ErrUnsupportedFormat is returned when no parser handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported configuration format")

// Parser defines an interface for parsing configuration data into a target structure.
//
// The path parameter specifies a navigation path within the configuration data
// using colon (:) as the separator for nested keys. For example:
//   - "processing:years" navigates to config["processing"]["years"]
//   - "" (empty path) means parse the entire document
//
// Parser implementations are responsible for path navigation internally.
type Parser interface {
	Parse(data []byte, target any, path string) error
}

// DataFetcher defines an interface for reading configuration data.
type DataFetcher interface {
	Fetch() ([]byte, error)
}

// Formatter is implemented by parsers able to write nested values back to a document.
type Formatter interface {
	Format(values map[string]any) ([]byte, error)
}

// Validator defines an interface for validating configuration structures.
type Validator interface {
	Validate() error
}

// Defaulter defines an interface for setting default values in configuration structures.
type Defaulter interface {
	SetDefaults() (changed bool)
}

// Provider returns a function that reads, parses, sets defaults, and validates configuration data.
func Provider[T any](target *T, path string) func(Parser, DataFetcher) (*T, error) {
	return func(parser Parser, dataSourcer DataFetcher) (*T, error) {
		data, err := dataSourcer.Fetch()
		if err != nil {
			return nil, fmt.Errorf("reading data error: %w", err)
		}

		err = parser.Parse(data, target, path)
		if err != nil {
			return nil, fmt.Errorf("parsing error: %w", err)
		}

		targetDefaulter, isDefaulter := any(target).(Defaulter)
		if isDefaulter {
			changed := targetDefaulter.SetDefaults()
			if changed {
				slog.Info("defaults applied", slog.String("path", path))
			}
		}

		targetValidatable, isValidatable := any(target).(Validator)
		if isValidatable {
			err := targetValidatable.Validate()
			if err != nil {
				return nil, fmt.Errorf("validating error: %w", err)
			}
		}

		return target, nil
	}
}

// LoadSection reads a configuration document and updates sec with its values.
// The document holds nested mappings following the structure of the section;
// dotted keys are accepted as well. Unknown keys and invalid values are errors,
// in which case sec is left unchanged.
func LoadSection(sec *section.Section, parser Parser, fetcher DataFetcher, path string) error {
	values := make(map[string]any)

	_, err := Provider(&values, path)(parser, fetcher)
	if err != nil {
		return err
	}

	err = sec.Update(values)
	if err != nil {
		return fmt.Errorf("applying configuration: %w", err)
	}

	slog.Info("configuration loaded",
		slog.String("section", sec.Schema().Name()),
		slog.String("path", path),
		slog.Int("keys", len(section.FlattenMap(values))),
	)

	return nil
}

// ParserForFile returns the parser matching the extension of filename.
func ParserForFile(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.NewParser(), nil
	case ".toml":
		return toml.NewParser(), nil
	case ".json":
		return json.NewParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filename)
	}
}

// FormatSection renders the values of sec in the format matching the extension of filename.
func FormatSection(sec *section.Section, filename string) ([]byte, error) {
	parser, err := ParserForFile(filename)
	if err != nil {
		return nil, err
	}

	formatter, ok := parser.(Formatter)
	if !ok {
		return nil, fmt.Errorf("%w: %q cannot be written", ErrUnsupportedFormat, filename)
	}

	data, err := formatter.Format(sec.Nested())
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w", sec.Schema().Name(), err)
	}

	return data, nil
}

// Package toml provides a TOML parser implementation for the config package.
//
// Documents are decoded with github.com/pelletier/go-toml/v2. Path navigation
// uses the colon separator shared by every config parser: "processing:window"
// selects the [processing.window] table.
package toml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

var (
	// ErrEmptyData is returned when the input data is empty.
	ErrEmptyData = errors.New("empty data")
	// ErrPathNotFound is returned when the specified path is not found in the document.
	ErrPathNotFound = errors.New("path not found")
)

// Parser implements the config.Parser interface for TOML data.
type Parser struct{}

// NewParser creates a new TOML parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse unmarshals TOML data, or the table at path, into target.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(data) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := toml.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	doc := map[string]any{}

	err := toml.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	var node any = doc

	for _, key := range strings.Split(path, ":") {
		table, ok := node.(map[string]any)
		if !ok {
			return fmt.Errorf("reading path %q: %q is not a table", path, key)
		}

		node, ok = table[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}
	}

	return assign(node, target, path)
}

// assign stores node into target, re-encoding when target is not a plain map.
func assign(node, target any, path string) error {
	if m, ok := target.(*map[string]any); ok {
		table, isTable := node.(map[string]any)
		if !isTable {
			return fmt.Errorf("reading path %q: not a table", path)
		}

		*m = table

		return nil
	}

	table, isTable := node.(map[string]any)
	if !isTable {
		return assignScalar(node, target, path)
	}

	data, err := toml.Marshal(table)
	if err != nil {
		return fmt.Errorf("reading path %q: %w", path, err)
	}

	err = toml.Unmarshal(data, target)
	if err != nil {
		return fmt.Errorf("reading path %q: %w", path, err)
	}

	return nil
}

func assignScalar(value, target any, path string) error {
	switch t := target.(type) {
	case *any:
		*t = value
	case *string:
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("reading path %q: expected a string, got %T", path, value)
		}

		*t = s
	default:
		return fmt.Errorf("reading path %q: cannot decode a scalar into %T", path, target)
	}

	return nil
}

// Format marshals nested values into a TOML document.
func (p *Parser) Format(values map[string]any) ([]byte, error) {
	data, err := toml.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return data, nil
}

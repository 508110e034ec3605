// Package json provides a JSON parser implementation for the config package.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyData is returned when the input data is empty.
	ErrEmptyData = errors.New("empty data")
	// ErrPathNotFound is returned when the specified path is not found in the document.
	ErrPathNotFound = errors.New("path not found")
)

// Parser implements the config.Parser interface for JSON data.
type Parser struct{}

// NewParser creates a new JSON parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// Parse unmarshals JSON data, or the object at the colon-separated path, into target.
func (p *Parser) Parse(data []byte, target any, path string) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyData
	}

	if path == "" {
		err := json.Unmarshal(data, target)
		if err != nil {
			return fmt.Errorf("unmarshal error: %w", err)
		}

		return nil
	}

	var doc map[string]json.RawMessage

	err := json.Unmarshal(data, &doc)
	if err != nil {
		return fmt.Errorf("unmarshal error: %w", err)
	}

	keys := strings.Split(path, ":")

	for i, key := range keys {
		raw, ok := doc[key]
		if !ok {
			return fmt.Errorf("%w: %s", ErrPathNotFound, path)
		}

		if i == len(keys)-1 {
			err = json.Unmarshal(raw, target)
			if err != nil {
				return fmt.Errorf("reading path %q: %w", path, err)
			}

			return nil
		}

		doc = nil

		err = json.Unmarshal(raw, &doc)
		if err != nil {
			return fmt.Errorf("reading path %q: %q is not an object: %w", path, key, err)
		}
	}

	return nil
}

// Format marshals nested values into an indented JSON document.
func (p *Parser) Format(values map[string]any) ([]byte, error) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal error: %w", err)
	}

	return append(data, '\n'), nil
}

// Package yaml provides a YAML parser implementation for the config package.
//
// It uses github.com/goccy/go-yaml and its PathString support: colon-separated
// paths such as "processing:years" are converted to "$.processing.years".
//
// Usage:
//
//	values := map[string]any{}
//	err := yaml.NewParser().Parse(data, &values, "processing")
package yaml

// Package logging provides structured logging using Go's standard library log/slog.
// Logs are JSON by default. The logging parameters of an application are
// declared by Schema so they can be set from configuration files and the
// command line like any other parameter.
package logging

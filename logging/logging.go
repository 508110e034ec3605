package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
)

// Log formats accepted by NewLogger.
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Schema declares the logging parameters of an application ("log.level", "log.format").
//
//nolint:gochecknoglobals // schemas are immutable definitions.
var Schema = section.NewSchema("log").
	Field("level", trait.Enum([]string{"debug", "info", "warn", "error"}, "info",
		trait.WithHelp("Minimal level of logged messages."))).
	Field("format", trait.Enum([]string{FormatJSON, FormatText}, FormatJSON,
		trait.WithHelp("Format of log records."))).
	MustBuild()

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level  string
	Format string
}

// ConfigFromSection reads a LoggerConfig from a section instance of Schema.
// Missing keys keep their zero value.
func ConfigFromSection(sec *section.Section) LoggerConfig {
	level, _ := sec.GetOr("level", "").(string)
	format, _ := sec.GetOr("format", "").(string)

	return LoggerConfig{Level: level, Format: format}
}

// NewLogger creates a new slog.Logger writing to w.
// The level is parsed from the config and defaults to INFO if invalid or empty.
// Records are JSON unless the format is "text".
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{
		AddSource:   false,
		Level:       ParseLevel(config.Level),
		ReplaceAttr: nil,
	}

	if strings.EqualFold(config.Format, FormatText) {
		return slog.New(slog.NewTextHandler(w, options))
	}

	return slog.New(slog.NewJSONHandler(w, options))
}

// ParseLevel converts a level name, in any case, to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

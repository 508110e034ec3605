package neba

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/Descanonge/neba-sub001/application"
	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/data"
	"github.com/Descanonge/neba-sub001/logging"

	"go.uber.org/fx"
)

// Options holds configuration settings for the application.
type Options struct {
	Modules  []fx.Option
	LogLevel string
}

// Option defines a function type for applying configuration options.
type Option func(*Options)

// WithModules adds Fx modules to the application.
func WithModules(modules ...fx.Option) Option {
	return func(opts *Options) {
		opts.Modules = append(opts.Modules, modules...)
	}
}

// WithApplication provides an *application.Application whose parameters follow
// schema, started with args. When the application has logging parameters, they
// replace the log level of the App for the injected logger and LoggerConfig.
func WithApplication(schema *section.Schema, args []string, opts ...application.Option) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules,
			fx.Provide(newApplication(schema, args, opts)),
			fx.Decorate(applicationLogging),
		)
	}
}

func newApplication(schema *section.Schema, args []string, opts []application.Option) func() (*application.Application, error) {
	return func() (*application.Application, error) {
		app, err := application.New(schema, opts...)
		if err != nil {
			return nil, err
		}

		err = app.Start(args)
		if err != nil {
			return nil, fmt.Errorf("starting %s: %w", app.Name(), err)
		}

		return app, nil
	}
}

func applicationLogging(
	app *application.Application, logger *slog.Logger, config logging.LoggerConfig,
) (*slog.Logger, logging.LoggerConfig) {
	appConfig := app.LoggerConfig()
	if appConfig.Level == "" {
		return logger, config
	}

	logger = createLogger(appConfig, os.Stderr)
	slog.SetDefault(logger)

	return logger, appConfig
}

type interfaceParams struct {
	fx.In

	App *application.Application `optional:"true"`
}

// WithInterface provides a *data.Interface built from def. Its parameters are
// the application provided by WithApplication, if any.
func WithInterface(def *data.Definition) Option {
	return func(o *Options) {
		o.Modules = append(o.Modules, fx.Provide(func(p interfaceParams) (*data.Interface, error) {
			var args data.Args
			if p.App != nil {
				args.Params = p.App
			}

			return data.New(def, args)
		}))
	}
}

// WithLogLevel sets the log level for the application.
// Valid levels are: "debug", "info", "warn", "error".
// If not set or invalid, defaults to "info".
func WithLogLevel(level string) Option {
	return func(opts *Options) {
		opts.LogLevel = level
	}
}

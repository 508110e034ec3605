package application

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/Descanonge/neba-sub001/config"
	"github.com/Descanonge/neba-sub001/config/fetcher/file"
	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
	"github.com/Descanonge/neba-sub001/logging"
)

// ConfigFileFlag is the command-line flag adding a configuration file to load.
const ConfigFileFlag = "config-file"

var (
	// ErrInvalidArguments is returned when command-line arguments cannot be parsed,
	// including unknown parameters.
	ErrInvalidArguments = errors.New("invalid arguments")
	// ErrHelp is returned by Start when help was requested on the command line.
	ErrHelp = pflag.ErrHelp
)

// Application holds the parameters of a program, read from defaults, configuration
// files and command-line arguments, in that order of precedence.
type Application struct {
	options options
	sec     *section.Section
	flags   *pflag.FlagSet
	keys    map[string]string
	args    []string
	started bool
}

// New returns an application whose parameters follow schema.
// Unless disabled with WithoutLogging, a "log" sub-section is added for logging parameters.
func New(schema *section.Schema, opts ...Option) (*Application, error) {
	o := options{name: schema.Name(), logging: true}
	for _, apply := range opts {
		apply(&o)
	}

	root := section.NewSchema(o.name).Extend(schema)
	_, hasSub := schema.Sub("log")
	_, hasField := schema.Trait("log")

	if o.logging && !hasSub && !hasField {
		root = root.Sub("log", logging.Schema)
	}

	built, err := root.Build()
	if err != nil {
		return nil, fmt.Errorf("building application schema: %w", err)
	}

	sec, err := section.New(built)
	if err != nil {
		return nil, err
	}

	return &Application{options: o, sec: sec}, nil
}

// Start populates the parameters: defaults, then configuration files (WithConfigFile
// then --config-file, in order), then command-line flags. Every flag is named after
// the dotted key of a parameter, for instance --processing.years=2000:2005.
// Unknown parameters are errors, not warnings.
func (a *Application) Start(args []string) error {
	err := a.parseArgs(args)
	if err != nil {
		return err
	}

	files := slices.Clone(a.options.configFiles)

	cliFiles, err := a.flags.GetStringArray(ConfigFileFlag)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	files = append(files, cliFiles...)

	for _, filename := range files {
		err = a.LoadConfigFile(filename)
		if err != nil {
			return err
		}
	}

	err = a.applyFlags()
	if err != nil {
		return err
	}

	a.started = true

	slog.Debug("application started",
		slog.String("application", a.options.name),
		slog.Int("config_files", len(files)),
		slog.Int("arguments", len(args)),
	)

	return nil
}

// LoadConfigFile updates the parameters with the content of a configuration file.
// The format is chosen from the file extension.
func (a *Application) LoadConfigFile(filename string) error {
	parser, err := config.ParserForFile(filename)
	if err != nil {
		return err
	}

	fetcher, err := file.NewFetcher(filename)()
	if err != nil {
		return fmt.Errorf("loading configuration file: %w", err)
	}

	err = config.LoadSection(a.sec, parser, fetcher, "")
	if err != nil {
		return fmt.Errorf("loading configuration file %q: %w", fetcher.Path(), err)
	}

	return nil
}

// WriteConfigFile writes the current parameters to filename, in the format of its extension.
func (a *Application) WriteConfigFile(filename string, overwrite bool) error {
	data, err := config.FormatSection(a.sec, filename)
	if err != nil {
		return err
	}

	return file.WriteFile(filename, data, overwrite)
}

func (a *Application) parseArgs(args []string) error {
	fs := pflag.NewFlagSet(a.options.name, pflag.ContinueOnError)
	fs.SortFlags = false
	fs.SetOutput(io.Discard)
	fs.StringArray(ConfigFileFlag, nil, "Load parameters from this file (yaml, toml or json). Can be repeated.")

	a.keys = make(map[string]string)

	for _, key := range a.sec.Keys() {
		t, _ := a.sec.Trait(key)
		addFlag(fs, key, t)
		a.keys[key] = key
	}

	for short, target := range a.sec.Schema().Aliases() {
		for _, key := range a.sec.Keys() {
			rest, ok := strings.CutPrefix(key, target+".")
			if !ok {
				continue
			}

			alias := short + "." + rest
			if fs.Lookup(alias) != nil {
				continue
			}

			t, _ := a.sec.Trait(key)
			addFlag(fs, alias, t)
			_ = fs.MarkHidden(alias)
			a.keys[alias] = key
		}
	}

	a.flags = fs

	err := fs.Parse(args)
	if errors.Is(err, pflag.ErrHelp) {
		return ErrHelp
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	a.args = fs.Args()

	return nil
}

func addFlag(fs *pflag.FlagSet, name string, t trait.Trait) {
	help := t.Help()
	if help == "" {
		help = "Expects " + t.Kind() + "."
	}

	if _, isList := t.(trait.ListParser); isList {
		fs.StringArray(name, nil, help)

		return
	}

	fs.String(name, "", help)

	if _, isBool := t.(*trait.BoolTrait); isBool {
		fs.Lookup(name).NoOptDefVal = "true"
	}
}

func (a *Application) applyFlags() error {
	var errs []error

	a.flags.Visit(func(f *pflag.Flag) {
		key, ok := a.keys[f.Name]
		if !ok {
			return
		}

		errs = append(errs, a.applyFlag(key, f))
	})

	err := errors.Join(errs...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArguments, err)
	}

	return nil
}

func (a *Application) applyFlag(key string, f *pflag.Flag) error {
	t, err := a.sec.Trait(key)
	if err != nil {
		return err
	}

	if lp, isList := t.(trait.ListParser); isList {
		values, err := a.flags.GetStringArray(f.Name)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.Name, err)
		}

		parsed, err := lp.FromStringList(values)
		if err != nil {
			return fmt.Errorf("--%s: %w", f.Name, err)
		}

		return a.sec.Set(key, parsed)
	}

	err = a.sec.SetString(key, f.Value.String())
	if err != nil {
		return fmt.Errorf("--%s: %w", f.Name, err)
	}

	return nil
}

// Usage returns the description of every command-line flag.
func (a *Application) Usage() string {
	if a.flags == nil {
		_ = a.parseArgs(nil)
	}

	return a.flags.FlagUsages()
}

// Name returns the name of the application.
func (a *Application) Name() string {
	return a.options.name
}

// Started reports whether Start completed successfully.
func (a *Application) Started() bool {
	return a.started
}

// Args returns the positional arguments left after flags.
func (a *Application) Args() []string {
	return slices.Clone(a.args)
}

// Section returns the parameters of the application.
func (a *Application) Section() *section.Section {
	return a.sec
}

// Get returns the parameter at key.
func (a *Application) Get(key string) (any, error) {
	return a.sec.Get(key)
}

// Set validates and sets the parameter at key.
func (a *Application) Set(key string, value any) error {
	return a.sec.Set(key, value)
}

// Copy returns an application with the same options and an independent copy of
// the parameters.
func (a *Application) Copy() *Application {
	return &Application{
		options: a.options,
		sec:     a.sec.Copy(),
		args:    slices.Clone(a.args),
		started: a.started,
	}
}

// LoggerConfig returns the logging parameters, zero if the application has none.
func (a *Application) LoggerConfig() logging.LoggerConfig {
	sub, err := a.sec.Sub("log")
	if err != nil {
		return logging.LoggerConfig{}
	}

	return logging.ConfigFromSection(sub)
}

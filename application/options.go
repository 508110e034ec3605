package application

type options struct {
	name        string
	configFiles []string
	logging     bool
}

// Option configures an Application.
type Option func(*options)

// WithName sets the application name, used in usage messages. It defaults to the schema name.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithConfigFile adds a configuration file loaded by Start before command-line flags.
func WithConfigFile(filename string) Option {
	return func(o *options) {
		o.configFiles = append(o.configFiles, filename)
	}
}

// WithoutLogging removes the "log" sub-section from the application parameters.
func WithoutLogging() Option {
	return func(o *options) {
		o.logging = false
	}
}

// Package application reads the parameters of a program.
//
// Parameters are declared with a section schema. They take their default values,
// then the values of configuration files, then the values given on the command
// line, each source overriding the previous ones:
//
//	app, err := application.New(schema, application.WithConfigFile("params.toml"))
//	err = app.Start(os.Args[1:])
//
// Command-line flags are the dotted keys of the parameters:
//
//	prog --processing.years 2000:2005 --processing.method=median --config-file more.yaml
//
// List parameters may be repeated (--years 2000 --years 2003:2005). Unknown flags
// and invalid values stop the program.
package application

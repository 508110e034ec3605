package neba_test

import (
	"fmt"
	"path/filepath"

	neba "github.com/Descanonge/neba-sub001"
	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
	"github.com/Descanonge/neba-sub001/data"

	"go.uber.org/fx"
)

// yearPattern matches the files of the year parameter.
func yearPattern(di *data.Interface) (string, error) {
	year, err := di.Parameters().Get("year")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("sst_%v.nc", year), nil
}

// Example_appWithApplicationAndInterface shows a program reading its parameters
// from a configuration file and the command line, and a dataset following them.
func Example_appWithApplicationAndInterface() {
	schema := section.NewSchema("processing").
		Field("year", trait.Int(2000)).
		Field("method", trait.Enum([]string{"mean", "median"}, "mean")).
		MustBuild()

	def := &data.Definition{
		ShortName:  "SST",
		ID:         "CCI",
		Name:       "Sea surface temperature",
		Parameters: data.Role{New: data.AppParametersModule},
		Source:     data.Role{New: data.GlobSourceOf(data.Static(filepath.Join("testdata", "sst")), yearPattern, false)},
	}

	var di *data.Interface

	app := neba.NewApp(
		neba.WithLogLevel("error"),
		neba.WithApplication(schema, []string{"--config-file=testdata/processing.yaml", "--method=median"}),
		neba.WithInterface(def),
		neba.WithModules(fx.Invoke(func(d *data.Interface) { di = d })),
	)

	err := app.Start()
	if err != nil {
		fmt.Printf("Error starting app: %v\n", err)

		return
	}

	defer func() { _ = app.Stop() }()

	params := di.Parameters()
	fmt.Println(di)
	fmt.Printf("year: %v, method: %v\n", params.GetOr("year", nil), params.GetOr("method", nil))

	files, err := di.GetSource()
	if err != nil {
		fmt.Printf("Error finding files: %v\n", err)

		return
	}

	fmt.Println(filepath.ToSlash(files[0]))

	err = params.Set("year", 2004)
	if err != nil {
		fmt.Printf("Error setting year: %v\n", err)

		return
	}

	files, _ = di.GetSource()
	fmt.Println(filepath.ToSlash(files[0]))
	// Output:
	// SST:CCI (Sea surface temperature)
	// year: 2005, method: median
	// testdata/sst/sst_2005.nc
	// testdata/sst/sst_2004.nc
}

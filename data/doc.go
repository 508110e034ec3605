// Package data gives access to datasets through interfaces composed of modules.
//
// A Definition declares up to four modules, built in this order:
//
//   - Parameters: the parameters of the interface (DictParameters,
//     SectionParameters, AppParameters)
//   - Source: where the data is (SimpleSource, GlobSource, FinderSource, SourceMix)
//   - Loader: how to open it (FileLoader)
//   - Writer: how to write it (FileWriter)
//
// For instance:
//
//	def := &data.Definition{
//		ID:         "SST",
//		Parameters: data.Role{New: data.SectionParametersOf(schema)},
//		Source:     data.Role{New: data.GlobSourceOf(data.Static("/data/sst"), data.Static("*.nc"), false)},
//		Loader:     data.Role{New: data.FileLoaderOf(backend, nil)},
//	}
//	di, err := data.New(def, data.Args{Params: map[string]any{"year": 2000}})
//	ds, err := di.GetData(ctx)
//
// Modules describe their implementation with a Class. Setting up a module runs the
// setup body of every class of its hierarchy once, most generic first, following
// the C3 linearization. A Mix groups modules of one role and sets them up as one.
//
// Callbacks registered on an interface run whenever its parameters change.
// Modules embedding a Cache register one clearing it, so that values memoized with
// Autocached are computed again for new parameters. Excursions save the
// parameters and bring them back afterwards:
//
//	err := di.WithExcursion(false, func() error {
//		err := di.Parameters().Set("year", 2001)
//		...
//	})
package data

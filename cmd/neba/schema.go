package main

import (
	"fmt"

	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
	"github.com/Descanonge/neba-sub001/data"
)

func demoSchema() *section.Schema {
	dataset := section.NewSchema("data").
		Field("root", trait.String(".",
			trait.WithHelp("Directory containing the data files."))).
		Field("pattern", trait.String("*.nc",
			trait.WithHelp("Shell pattern of the data files."))).
		Field("recursive", trait.Bool(false,
			trait.WithHelp("Search the whole tree below the root directory."))).
		MustBuild()

	return section.NewSchema("neba").
		Field("year", trait.Int(2000,
			trait.WithHelp("Year to process."))).
		Field("method", trait.Enum([]string{"mean", "median"}, "mean",
			trait.WithHelp("Aggregation method."))).
		Sub("data", dataset).
		MustBuild()
}

func parameter(key string) data.DirFunc {
	return func(di *data.Interface) (string, error) {
		v, err := di.Parameters().Get(key)
		if err != nil {
			return "", err
		}

		return fmt.Sprint(v), nil
	}
}

func demoDefinition(recursive bool) *data.Definition {
	return &data.Definition{
		ShortName:  "DEMO",
		Name:       "Files of the data directory",
		Parameters: data.Role{New: data.AppParametersModule},
		Source:     data.Role{New: data.GlobSourceOf(parameter("data.root"), parameter("data.pattern"), recursive)},
	}
}

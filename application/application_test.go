package application_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Descanonge/neba-sub001/application"
	"github.com/Descanonge/neba-sub001/config/section"
	"github.com/Descanonge/neba-sub001/config/trait"
	"github.com/Descanonge/neba-sub001/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSchema() *section.Schema {
	processing := section.NewSchema("processing").
		Field("years", trait.Fixable(trait.Int(0))).
		Field("method", trait.Enum([]string{"mean", "median"}, "mean")).
		Field("threshold", trait.Float(0.5, trait.WithHelp("Detection threshold."))).
		MustBuild()

	return section.NewSchema("demo").
		Field("verbose", trait.Bool(false)).
		Field("variables", trait.List(trait.String(""))).
		Sub("processing", processing).
		Alias("proc", "processing").
		MustBuild()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestApplication_Defaults(t *testing.T) {
	t.Parallel()

	app, err := application.New(newSchema())
	require.NoError(t, err)
	require.NoError(t, app.Start(nil))

	assert.True(t, app.Started())
	assert.Equal(t, "demo", app.Name())
	assert.Equal(t, map[string]any{
		"verbose":              false,
		"variables":            []any{},
		"processing.years":     nil,
		"processing.method":    "mean",
		"processing.threshold": 0.5,
		"log.level":            "info",
		"log.format":           "json",
	}, app.Section().Flat())
}

func TestApplication_Precedence(t *testing.T) {
	t.Parallel()

	first := writeFile(t, "first.yaml", "processing:\n  method: median\n  threshold: 0.1\nverbose: true\n")
	second := writeFile(t, "second.toml", "[processing]\nthreshold = 0.2\n")

	app, err := application.New(newSchema(), application.WithConfigFile(first))
	require.NoError(t, err)

	err = app.Start([]string{
		"--config-file", second,
		"--proc.threshold=0.3",
		"--processing.years", "2000:2002",
		"--processing.years", "2010",
		"--variables", "sst",
		"--variables", "chl",
		"--log.level", "debug",
		"positional",
	})
	require.NoError(t, err)

	flat := app.Section().Flat()
	assert.Equal(t, "median", flat["processing.method"], "from first file")
	assert.Equal(t, 0.3, flat["processing.threshold"], "command line wins over files")
	assert.Equal(t, true, flat["verbose"])
	assert.Equal(t, []any{2000, 2001, 2002, 2010}, flat["processing.years"])
	assert.Equal(t, []any{"sst", "chl"}, flat["variables"])
	assert.Equal(t, []string{"positional"}, app.Args())
	assert.Equal(t, logging.LoggerConfig{Level: "debug", Format: "json"}, app.LoggerConfig())
}

func TestApplication_BoolFlag(t *testing.T) {
	t.Parallel()

	app, err := application.New(newSchema())
	require.NoError(t, err)
	require.NoError(t, app.Start([]string{"--verbose"}))

	v, err := app.Get("verbose")
	require.NoError(t, err)
	assert.Equal(t, true, v)
}

func TestApplication_StrictErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"unknown flag", []string{"--processing.metod=mean"}, application.ErrInvalidArguments},
		{"invalid value", []string{"--processing.method=mode"}, trait.ErrValidation},
		{"invalid range", []string{"--processing.years=5:1:0"}, trait.ErrZeroStep},
		{"help", []string{"--help"}, application.ErrHelp},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app, err := application.New(newSchema())
			require.NoError(t, err)

			err = app.Start(tc.args)
			require.ErrorIs(t, err, tc.wantErr)
			assert.False(t, app.Started())
		})
	}
}

func TestApplication_UnknownKeyInFile(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "bad.yaml", "processing:\n  metod: mean\n")

	app, err := application.New(newSchema(), application.WithConfigFile(path))
	require.NoError(t, err)

	err = app.Start(nil)
	require.ErrorIs(t, err, section.ErrUnknownKey)
	assert.Contains(t, err.Error(), `did you mean "processing.method"?`)
}

func TestApplication_WriteConfigFile(t *testing.T) {
	t.Parallel()

	app, err := application.New(newSchema())
	require.NoError(t, err)
	require.NoError(t, app.Start([]string{"--processing.method=median", "--processing.years=2001"}))

	dest := filepath.Join(t.TempDir(), "out.yaml")
	require.NoError(t, app.WriteConfigFile(dest, false))

	reloaded, err := application.New(newSchema(), application.WithConfigFile(dest))
	require.NoError(t, err)
	require.NoError(t, reloaded.Start(nil))

	assert.True(t, app.Section().Equal(reloaded.Section()))
}

func TestApplication_Copy(t *testing.T) {
	t.Parallel()

	app, err := application.New(newSchema())
	require.NoError(t, err)
	require.NoError(t, app.Start(nil))

	cp := app.Copy()
	require.NoError(t, cp.Set("processing.method", "median"))

	v, err := app.Get("processing.method")
	require.NoError(t, err)
	assert.Equal(t, "mean", v)
}

func TestApplication_WithoutLogging(t *testing.T) {
	t.Parallel()

	app, err := application.New(newSchema(), application.WithoutLogging(), application.WithName("bare"))
	require.NoError(t, err)

	assert.False(t, app.Section().Contains("log"))
	assert.Equal(t, logging.LoggerConfig{}, app.LoggerConfig())
	assert.Contains(t, app.Usage(), "--processing.threshold")
	assert.Contains(t, app.Usage(), "Detection threshold.")
	assert.NotContains(t, app.Usage(), "--proc.threshold", "alias flags are hidden")
}

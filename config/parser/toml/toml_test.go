package toml_test

import (
	"testing"

	"github.com/Descanonge/neba-sub001/config/parser/toml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var document = []byte(`
verbose = true

[processing]
method = "median"
variables = ["sst", "chl"]

[processing.window]
size = 3.5
`)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		path string
		want map[string]any
	}{
		{"entire document", "", map[string]any{
			"verbose": true,
			"processing": map[string]any{
				"method":    "median",
				"variables": []any{"sst", "chl"},
				"window":    map[string]any{"size": 3.5},
			},
		}},
		{"nested table", "processing:window", map[string]any{"size": 3.5}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := map[string]any{}

			require.NoError(t, toml.NewParser().Parse(document, &got, tc.path))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParser_Parse_IntoStruct(t *testing.T) {
	t.Parallel()

	var window struct {
		Size float64 `toml:"size"`
	}

	require.NoError(t, toml.NewParser().Parse(document, &window, "processing:window"))
	assert.InDelta(t, 3.5, window.Size, 1e-9)

	var method string

	require.NoError(t, toml.NewParser().Parse(document, &method, "processing:method"))
	assert.Equal(t, "median", method)
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Parallel()

	parser := toml.NewParser()
	got := map[string]any{}

	require.ErrorIs(t, parser.Parse(nil, &got, ""), toml.ErrEmptyData)
	require.ErrorIs(t, parser.Parse(document, &got, "nope"), toml.ErrPathNotFound)
	require.Error(t, parser.Parse(document, &got, "verbose:nested"))
	require.Error(t, parser.Parse([]byte("a = "), &got, ""))
}

func TestParser_Format(t *testing.T) {
	t.Parallel()

	parser := toml.NewParser()

	data, err := parser.Format(map[string]any{"processing": map[string]any{"method": "mean"}})
	require.NoError(t, err)

	got := map[string]any{}
	require.NoError(t, parser.Parse(data, &got, "processing"))
	assert.Equal(t, map[string]any{"method": "mean"}, got)
}

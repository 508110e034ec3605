package json_test

import (
	"testing"

	"github.com/Descanonge/neba-sub001/config/parser/json"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var document = []byte(`{
  "verbose": true,
  "processing": {"method": "median", "window": {"size": 3}}
}`)

func TestParser_Parse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		path string
		want map[string]any
	}{
		{"entire document", "", map[string]any{
			"verbose":    true,
			"processing": map[string]any{"method": "median", "window": map[string]any{"size": 3.0}},
		}},
		{"nested path", "processing:window", map[string]any{"size": 3.0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := map[string]any{}

			require.NoError(t, json.NewParser().Parse(document, &got, tc.path))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParser_Parse_Errors(t *testing.T) {
	t.Parallel()

	parser := json.NewParser()
	got := map[string]any{}

	require.ErrorIs(t, parser.Parse([]byte("  "), &got, ""), json.ErrEmptyData)
	require.ErrorIs(t, parser.Parse(document, &got, "processing:nope"), json.ErrPathNotFound)
	require.Error(t, parser.Parse(document, &got, "verbose:nested"))
	require.Error(t, parser.Parse([]byte("{"), &got, ""))
}

func TestParser_Format(t *testing.T) {
	t.Parallel()

	data, err := json.NewParser().Format(map[string]any{"a": 1})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

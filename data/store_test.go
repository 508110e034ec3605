package data_test

import (
	"testing"

	"github.com/Descanonge/neba-sub001/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	t.Parallel()

	sst := &data.Definition{ShortName: "SST", ID: "ESA-CCI-SST", Name: "Sea surface temperature"}
	chl := &data.Definition{ShortName: "CHL", ID: "GlobColour", Name: "Chlorophyll"}
	wind := &data.Definition{ShortName: "WIND", Name: "Wind"}

	store, err := data.NewStore(sst, chl, wind)
	require.NoError(t, err)

	assert.Equal(t, []string{"ESA-CCI-SST", "GlobColour", "WIND"}, store.Keys())
	assert.Equal(t, 3, store.Len())

	testCases := []struct {
		key  string
		want *data.Definition
	}{
		{"ESA-CCI-SST", sst},
		{"SST", sst},
		{"CHL", chl},
		{"GlobColour", chl},
		{"WIND", wind},
	}

	for _, tc := range testCases {
		got, err := store.Get(tc.key)
		require.NoError(t, err, tc.key)
		assert.Same(t, tc.want, got, tc.key)
		assert.True(t, store.Contains(tc.key))
	}

	_, err = store.Get("GlobColor")
	require.ErrorIs(t, err, data.ErrDatasetNotFound)
	assert.Contains(t, err.Error(), `did you mean "GlobColour"?`)
	assert.False(t, store.Contains("GlobColor"))

	assert.Equal(t,
		`{"ESA-CCI-SST" | "SST" : SST:ESA-CCI-SST (Sea surface temperature), `+
			`"GlobColour" | "CHL" : CHL:GlobColour (Chlorophyll), `+
			`"WIND" : WIND (Wind)}`,
		store.String())

	require.NoError(t, store.Delete("CHL"))
	assert.False(t, store.Contains("CHL"))
	assert.False(t, store.Contains("GlobColour"))
	require.ErrorIs(t, store.Delete("CHL"), data.ErrDatasetNotFound)
}

func TestStore_Registration(t *testing.T) {
	t.Parallel()

	store, err := data.NewStore()
	require.NoError(t, err)

	first := &data.Definition{ShortName: "SST", ID: "first"}
	second := &data.Definition{ShortName: "SST", ID: "second"}

	require.NoError(t, store.Add(first))
	require.NoError(t, store.Add(second))

	_, err = store.Get("SST")
	require.ErrorIs(t, err, data.ErrAmbiguousShortName)

	got, err := store.Get("second")
	require.NoError(t, err)
	assert.Same(t, second, got)

	require.ErrorIs(t, store.Add(&data.Definition{ID: "first"}), data.ErrDuplicateRegistration)
	require.ErrorIs(t, store.Add(&data.Definition{Name: "anonymous"}), data.ErrMissingID)

	require.NoError(t, store.AddAs("OTHER", &data.Definition{Name: "Other"}))
	err = store.AddAs("third", &data.Definition{ShortName: "OTHER"})
	require.ErrorIs(t, err, data.ErrDuplicateRegistration, "short name taken by a key")

	_, err = data.NewStore(first, first)
	require.ErrorIs(t, err, data.ErrDuplicateRegistration)
}

func TestStore_Open(t *testing.T) {
	t.Parallel()

	store, err := data.NewStore(&data.Definition{
		ShortName:  "SST",
		Parameters: data.Role{New: data.DictParametersModule},
		Source:     data.Role{New: data.SimpleSourceOf("sst.nc")},
	})
	require.NoError(t, err)

	di, err := store.Open("SST", data.Args{Params: map[string]any{"year": 2000}})
	require.NoError(t, err)
	assert.Equal(t, 2000, di.Parameters().GetOr("year", nil))

	files, err := di.GetSource()
	require.NoError(t, err)
	assert.Equal(t, []string{"sst.nc"}, files)

	_, err = store.Open("CHL", data.Args{})
	require.ErrorIs(t, err, data.ErrDatasetNotFound)
}

package data_test

import (
	"context"
	"testing"

	"github.com/Descanonge/neba-sub001/data"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constLoader returns a fixed value.
type constLoader struct {
	data.Base

	class *data.Class
	value string
}

func (l *constLoader) Class() *data.Class { return l.class }

func (l *constLoader) GetData(context.Context) (any, error) { return l.value, nil }

func constLoaderOf(name, value string) data.Constructor {
	class := data.NewClass(name, nil, data.LoaderClass)

	return func(*data.Interface, data.Args) (data.Module, error) {
		return &constLoader{class: class, value: value}, nil
	}
}

// logWriter appends its class name and destination to a shared log.
type logWriter struct {
	data.Base

	class *data.Class
	log   *[]string
}

func (w *logWriter) Class() *data.Class { return w.class }

func (w *logWriter) Write(_ context.Context, _ any, dest string) error {
	*w.log = append(*w.log, w.class.Name+":"+dest)

	return nil
}

func logWriterOf(name string, log *[]string) data.Constructor {
	class := data.NewClass(name, nil, data.WriterClass)

	return func(*data.Interface, data.Args) (data.Module, error) {
		return &logWriter{class: class, log: log}, nil
	}
}

func TestLoaderMix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ctor data.Constructor
	}{
		{"generic", data.MixOf("Loaders", data.SelectParameter[data.Loader]("loader"),
			constLoaderOf("Local", "local"), constLoaderOf("Remote", "remote"))},
		{"select", data.LoaderSelect("Loaders", data.SelectParameter[data.Loader]("loader"),
			constLoaderOf("Local", "local"), constLoaderOf("Remote", "remote"))},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			def := &data.Definition{
				Parameters: data.Role{New: data.DictParametersModule},
				Loader:     data.Role{New: tc.ctor},
			}

			di, err := data.New(def, data.Args{Params: map[string]any{"loader": "Remote"}})
			require.NoError(t, err)

			d, err := di.GetData(context.Background())
			require.NoError(t, err)
			assert.Equal(t, "remote", d)

			mix, ok := di.Loader().(*data.LoaderMix)
			require.True(t, ok)
			assert.True(t, mix.IsSetup())
			assert.True(t, mix.Class().IsSubclass(data.LoaderClass))

			d, err = mix.GetDataSelect(context.Background(), map[string]any{data.SelectKwarg: map[string]any{"loader": "Local"}})
			require.NoError(t, err)
			assert.Equal(t, "local", d)

			member, ok := mix.Member("Local")
			require.True(t, ok)
			assert.Equal(t, "loader.Local", member.(*constLoader).Path())

			require.NoError(t, di.Parameters().Set("loader", "Cache"))
			_, err = di.GetData(context.Background())
			require.ErrorIs(t, err, data.ErrUnknownMember)
		})
	}
}

func TestLoaderMix_NoSelect(t *testing.T) {
	t.Parallel()

	def := &data.Definition{Loader: data.Role{New: data.MixOf[data.Loader]("Loaders", nil, constLoaderOf("Local", "local"))}}

	di, err := data.New(def, data.Args{})
	require.NoError(t, err)

	_, err = di.GetData(context.Background())
	require.ErrorIs(t, err, data.ErrNoSelect)
}

func TestWriterMix(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		ctor func(log *[]string) data.Constructor
		want []string
	}{
		{
			name: "all",
			ctor: func(log *[]string) data.Constructor {
				return data.WriterAll("Writers", logWriterOf("Disk", log), logWriterOf("Archive", log))
			},
			want: []string{"Disk:out.nc", "Archive:out.nc"},
		},
		{
			name: "select",
			ctor: func(log *[]string) data.Constructor {
				return data.WriterSelect("Writers", data.SelectParameter[data.Writer]("writer"),
					logWriterOf("Disk", log), logWriterOf("Archive", log))
			},
			want: []string{"Archive:out.nc"},
		},
		{
			name: "generic",
			ctor: func(log *[]string) data.Constructor {
				return data.MixOf[data.Writer]("Writers", nil, logWriterOf("Disk", log), logWriterOf("Archive", log))
			},
			want: []string{"Disk:out.nc", "Archive:out.nc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var log []string

			def := &data.Definition{
				Parameters: data.Role{New: data.DictParametersModule},
				Writer:     data.Role{New: tc.ctor(&log)},
			}

			di, err := data.New(def, data.Args{Params: map[string]any{"writer": "Archive"}})
			require.NoError(t, err)

			_, ok := di.Writer().(*data.WriterMix)
			require.True(t, ok)

			require.NoError(t, di.Write(context.Background(), "payload", "out.nc"))
			assert.Equal(t, tc.want, log)
		})
	}
}

func TestMixOf_Roles(t *testing.T) {
	t.Parallel()

	source, err := data.MixOf[data.Source]("Sources", nil,
		sourceOf(newSourceClass("First"), "a.nc"), sourceOf(newSourceClass("Second"), "b.nc"))(nil, data.Args{})
	require.NoError(t, err)

	mix, ok := source.(*data.SourceMix)
	require.True(t, ok)
	assert.Equal(t, data.ModeUnion, mix.Mode)

	_, err = data.New(&data.Definition{
		Parameters: data.Role{New: data.MixOf[data.Parameters]("Params", nil, data.DictParametersModule)},
	}, data.Args{})
	require.ErrorIs(t, err, data.ErrModuleInstantiation)
	require.ErrorIs(t, err, data.ErrRoleMismatch)
}

package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	content := []byte("processing:\n  method: median\n")
	configPath := filepath.Join(t.TempDir(), "params.yaml")

	require.NoError(t, os.WriteFile(configPath, content, 0o600))

	fetcher, err := NewFetcher(configPath)()
	require.NoError(t, err)
	assert.Equal(t, configPath, fetcher.Path())

	data, err := fetcher.Fetch()
	require.NoError(t, err)
	assert.Equal(t, content, data)

	data[0] = 'X'

	again, err := fetcher.Fetch()
	require.NoError(t, err)
	assert.Equal(t, content, again, "cached data must not be mutated through Fetch")
}

func TestFetcher_Fetch_ReadsOnce(t *testing.T) {
	t.Parallel()

	configPath := filepath.Join(t.TempDir(), "params.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("a = 1"), 0o600))

	fetcher, err := NewFetcher(configPath)()
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(configPath, []byte("a = 2"), 0o600))

	data, err := fetcher.Fetch()
	require.NoError(t, err)
	assert.Equal(t, "a = 1", string(data))
}

func TestNewFetcher_Errors(t *testing.T) {
	t.Parallel()

	fetcher, err := NewFetcher("/nonexistent/path/params.yaml")()
	require.Error(t, err)
	assert.Nil(t, fetcher)
	assert.Contains(t, err.Error(), "stat file")

	_, err = NewFetcher(t.TempDir())()
	require.ErrorIs(t, err, ErrPathIsDirectory)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dest := filepath.Join(t.TempDir(), "nested", "dir", "params.yaml")

	require.NoError(t, WriteFile(dest, []byte("a: 1\n"), false))

	err := WriteFile(dest, []byte("a: 2\n"), false)
	require.ErrorIs(t, err, ErrFileExists)

	require.NoError(t, WriteFile(dest, []byte("a: 3\n"), true))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a: 3\n", string(data))

	err = WriteFile(filepath.Dir(dest), nil, true)
	require.ErrorIs(t, err, ErrPathIsDirectory)
}

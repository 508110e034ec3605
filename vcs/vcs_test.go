package vcs_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/Descanonge/neba-sub001/vcs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommit_NotARepository(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	hash, ok, err := vcs.Commit(context.Background(), dir)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, hash)

	diff, ok, err := vcs.GetDiff(context.Background(), dir, nil, 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, diff.Short)
}

func TestCommit_Repository(t *testing.T) {
	t.Parallel()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()

		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}

	file := filepath.Join(dir, "script.go")
	require.NoError(t, os.WriteFile(file, []byte("one\ntwo\n"), 0o600))
	run("init", "-q")
	run("add", "script.go")
	run("commit", "-q", "-m", "initial")

	hash, ok, err := vcs.Commit(context.Background(), dir)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, hash, 40)

	diff, ok, err := vcs.GetDiff(context.Background(), dir, nil, 10)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Empty(t, diff.Short, "clean tree")

	require.NoError(t, os.WriteFile(file, []byte("one\nthree\nfour\n"), 0o600))

	diff, ok, err = vcs.GetDiff(context.Background(), dir, nil, 2)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"script.go:+2:-1"}, diff.Short)
	assert.Len(t, diff.Lines, 3)
	assert.Contains(t, diff.Lines[2], "additional lines")

	diff, _, err = vcs.GetDiff(context.Background(), dir, []string{"script.go"}, 10)
	require.NoError(t, err)
	assert.Empty(t, diff.Short, "ignored file")
}

package vcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrGit is returned when a git command fails inside a repository.
var ErrGit = errors.New("git command failed")

// Diff summarizes the uncommitted modifications of a repository.
type Diff struct {
	// Short has one "file:+added:-removed" entry per modified file.
	Short []string
	// Lines holds the unified diff, truncated to the requested number of lines.
	Lines []string
}

// Commit returns the hash of the commit checked out in the repository containing dir.
// ok is false when dir is not inside a git repository or git is not installed.
func Commit(ctx context.Context, dir string) (hash string, ok bool, err error) {
	if !inRepository(ctx, dir) {
		return "", false, nil
	}

	out, err := git(ctx, "-C", dir, "rev-parse", "HEAD")
	if err != nil {
		return "", false, err
	}

	return out, true, nil
}

// Toplevel returns the root directory of the repository containing dir.
func Toplevel(ctx context.Context, dir string) (string, bool, error) {
	if !inRepository(ctx, dir) {
		return "", false, nil
	}

	out, err := git(ctx, "-C", dir, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", false, err
	}

	return out, true, nil
}

// GetDiff returns the modifications of tracked files in the repository containing dir.
// Paths in ignore are excluded. The full diff keeps at most maxLines lines, followed by
// a line counting the lines left out. ok is false outside of a repository.
func GetDiff(ctx context.Context, dir string, ignore []string, maxLines int) (Diff, bool, error) {
	top, ok, err := Toplevel(ctx, dir)
	if !ok || err != nil {
		return Diff{}, ok, err
	}

	base := []string{"-C", top, "--no-pager", "diff", "-w", "--diff-filter=M", "--minimal"}

	exclude := make([]string, 0, len(ignore))
	for _, path := range ignore {
		exclude = append(exclude, ":!"+path)
	}

	stat, err := git(ctx, join(base, []string{"--numstat"}, exclude)...)
	if err != nil {
		return Diff{}, true, err
	}

	if stat == "" {
		return Diff{}, true, nil
	}

	var diff Diff

	for line := range strings.Lines(stat) {
		fields := strings.Split(strings.TrimSpace(line), "\t")
		if len(fields) != 3 {
			continue
		}

		diff.Short = append(diff.Short, fmt.Sprintf("%s:+%s:-%s", fields[2], fields[0], fields[1]))
	}

	full, err := git(ctx, join(base, []string{"--unified=0"}, exclude)...)
	if err != nil {
		return Diff{}, true, err
	}

	diff.Lines = strings.Split(full, "\n")
	if n := len(diff.Lines); maxLines >= 0 && n > maxLines {
		diff.Lines = append(diff.Lines[:maxLines], fmt.Sprintf("... %d additional lines", n-maxLines))
	}

	return diff, true, nil
}

func inRepository(ctx context.Context, dir string) bool {
	out, err := git(ctx, "-C", dir, "rev-parse", "--is-inside-work-tree")

	return err == nil && out == "true"
}

func git(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		msg := stderr.String()
		if i := strings.Index(msg, "usage:"); i > 0 {
			msg = msg[:i]
		}

		return "", fmt.Errorf("%w: git %s: %s: %w", ErrGit, strings.Join(args, " "), strings.TrimSpace(msg), err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

func join(parts ...[]string) []string {
	var out []string
	for _, p := range parts {
		out = append(out, p...)
	}

	return out
}

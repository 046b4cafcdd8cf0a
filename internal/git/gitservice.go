package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// StatusProvider answers which files in a working tree have uncommitted
// changes or differ from a base branch. All queries may fail (root not a
// repository, git missing); callers treat a failure as an empty set and
// disable the corresponding filter.
type StatusProvider interface {
	IsRepository(ctx context.Context, root string) bool
	DirtyPaths(ctx context.Context, root string) (map[string]struct{}, error)
	DiffPaths(ctx context.Context, root string, baseRef string) (map[string]struct{}, error)
}

// statusProvider is the concrete implementation, shelling out to git.
type statusProvider struct{}

// NewStatusProvider creates a git status provider
func NewStatusProvider() StatusProvider {
	return &statusProvider{}
}

// IsRepository reports whether root is inside a git working tree.
func (sp *statusProvider) IsRepository(ctx context.Context, root string) bool {
	out, err := sp.run(ctx, root, "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(out) == "true"
}

// DirtyPaths returns the set of paths with uncommitted changes, untracked
// files included.
func (sp *statusProvider) DirtyPaths(ctx context.Context, root string) (map[string]struct{}, error) {
	out, err := sp.run(ctx, root, "status", "--porcelain")
	if err != nil {
		return map[string]struct{}{}, fmt.Errorf("git status failed: %w", err)
	}

	paths := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		if len(line) < 4 {
			continue
		}
		// Porcelain format: two status columns, a space, then the path.
		// Renames carry "old -> new"; the new path is the live one.
		path := line[3:]
		if idx := strings.Index(path, " -> "); idx >= 0 {
			path = path[idx+4:]
		}
		paths[unquote(path)] = struct{}{}
	}
	return paths, nil
}

// DiffPaths returns the set of paths differing from baseRef, plus
// untracked files (which do not exist on the base branch at all).
func (sp *statusProvider) DiffPaths(ctx context.Context, root string, baseRef string) (map[string]struct{}, error) {
	out, err := sp.run(ctx, root, "diff", "--name-only", baseRef)
	if err != nil {
		return map[string]struct{}{}, fmt.Errorf("git diff %s failed: %w", baseRef, err)
	}

	paths := make(map[string]struct{})
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths[unquote(line)] = struct{}{}
		}
	}

	untracked, err := sp.run(ctx, root, "ls-files", "--others", "--exclude-standard")
	if err != nil {
		// The diff set alone is still useful.
		return paths, nil
	}
	for _, line := range strings.Split(untracked, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths[unquote(line)] = struct{}{}
		}
	}
	return paths, nil
}

// run executes a git subcommand with root as the working directory.
func (sp *statusProvider) run(ctx context.Context, root string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = root

	output, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return string(output), nil
}

// unquote strips the quoting git applies to paths with special characters.
func unquote(path string) string {
	if len(path) >= 2 && path[0] == '"' && path[len(path)-1] == '"' {
		return path[1 : len(path)-1]
	}
	return path
}

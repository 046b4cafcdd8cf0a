package walk

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"sort"

	"glancr/internal/domain"
	"glancr/internal/ignore"
)

// WalkFunc receives each file path, relative to the walk root with forward
// slashes. Returning false stops the walk.
type WalkFunc func(relPath string) bool

// Walker enumerates files under a root honoring .gitignore rules found at
// every directory level, plus built-in exclusions. Each Walk call re-walks;
// nothing is cached between calls.
type Walker struct {
	ignoredDirs     []string
	ignoredPatterns []string
}

// New creates a walker with the given built-in exclusions.
func New(ignoredDirs, ignoredPatterns []string) *Walker {
	return &Walker{
		ignoredDirs:     ignoredDirs,
		ignoredPatterns: ignoredPatterns,
	}
}

// Walk visits every non-ignored file under root in a deterministic order.
// Unreadable directories are skipped and counted as warnings; symlink
// cycles are broken by tracking resolved directory identities.
func (w *Walker) Walk(ctx context.Context, root string, fn WalkFunc) (domain.WalkStats, error) {
	stats := domain.WalkStats{}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return stats, err
	}

	stack := ignore.NewStack(w.ignoredDirs, w.ignoredPatterns)
	seen := make(map[string]struct{})
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		seen[resolved] = struct{}{}
	}

	w.walkDir(ctx, absRoot, "", stack, seen, fn, &stats)
	return stats, ctx.Err()
}

// walkDir recurses into dir (rel is dir's path relative to the root, "" at
// the root). Returns false when the walk should stop entirely.
func (w *Walker) walkDir(ctx context.Context, dir, rel string, stack *ignore.Stack, seen map[string]struct{}, fn WalkFunc, stats *domain.WalkStats) bool {
	if ctx.Err() != nil {
		return false
	}

	rs, err := ignore.ParseFile(filepath.Join(dir, ".gitignore"), rel)
	if err != nil {
		log.Printf("walk: unreadable .gitignore in %s: %v", dir, err)
		stats.Warnings++
		rs = &ignore.RuleSet{Dir: rel}
	}
	stack.Push(rs)
	defer stack.Pop()

	entries, err := os.ReadDir(dir)
	if err != nil {
		stats.Warnings++
		return true
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if ctx.Err() != nil {
			return false
		}

		name := entry.Name()
		childRel := name
		if rel != "" {
			childRel = rel + "/" + name
		}
		childPath := filepath.Join(dir, name)

		isDir := entry.IsDir()
		if entry.Type()&os.ModeSymlink != 0 {
			info, err := os.Stat(childPath)
			if err != nil {
				stats.Warnings++
				continue
			}
			isDir = info.IsDir()
		}

		if stack.Match(childRel, isDir) {
			continue
		}

		if isDir {
			// Deduplicate by resolved identity so symlink cycles terminate.
			resolved, err := filepath.EvalSymlinks(childPath)
			if err != nil {
				stats.Warnings++
				continue
			}
			if _, ok := seen[resolved]; ok {
				continue
			}
			seen[resolved] = struct{}{}

			if !w.walkDir(ctx, childPath, childRel, stack, seen, fn, stats) {
				return false
			}
			continue
		}

		if !entry.Type().IsRegular() && entry.Type()&os.ModeSymlink == 0 {
			continue
		}

		stats.Files++
		if !fn(childRel) {
			return false
		}
	}
	return true
}

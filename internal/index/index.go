package index

import (
	"context"
	"log"
	"sync"
	"sync/atomic"

	"glancr/internal/domain"
	"glancr/internal/eventbus"
	"glancr/internal/git"
	"glancr/internal/walk"
)

// Snapshot is one immutable generation of the candidate index. Entries are
// unique by path and never mutated after the snapshot has been published;
// concurrent readers need no locking.
type Snapshot struct {
	Generation   uint64
	Entries      []domain.FileEntry
	GitAvailable bool
	Warnings     int
}

// Filter returns the entries surviving the dirty/changed toggles. With both
// toggles off the snapshot's own slice is returned unchanged.
func (s *Snapshot) Filter(dirtyOnly, changedOnly bool) []domain.FileEntry {
	if !dirtyOnly && !changedOnly {
		return s.Entries
	}
	filtered := make([]domain.FileEntry, 0, len(s.Entries))
	for _, e := range s.Entries {
		if dirtyOnly && !e.IsDirty {
			continue
		}
		if changedOnly && !e.ChangedFromBase {
			continue
		}
		filtered = append(filtered, e)
	}
	return filtered
}

// Index owns the current snapshot of searchable file paths. Refresh builds
// a complete replacement snapshot and swaps it in atomically; a failed
// refresh leaves the previous generation current.
type Index struct {
	root       string
	baseBranch string
	walker     *walk.Walker
	gitStatus  git.StatusProvider
	bus        eventbus.EventBus

	current    atomic.Pointer[Snapshot]
	generation atomic.Uint64
	refreshMu  sync.Mutex
}

// New creates an index over root. The snapshot starts empty; call Refresh
// to populate it.
func New(root, baseBranch string, walker *walk.Walker, gitStatus git.StatusProvider, bus eventbus.EventBus) *Index {
	idx := &Index{
		root:       root,
		baseBranch: baseBranch,
		walker:     walker,
		gitStatus:  gitStatus,
		bus:        bus,
	}
	idx.current.Store(&Snapshot{})
	return idx
}

// Current returns the published snapshot. Lock-free; safe to call while a
// refresh is in progress.
func (idx *Index) Current() *Snapshot {
	return idx.current.Load()
}

// Refresh re-walks the tree, recomputes the git sets and publishes a new
// generation. Serialized: concurrent calls queue behind each other.
func (idx *Index) Refresh(ctx context.Context) (*Snapshot, error) {
	idx.refreshMu.Lock()
	defer idx.refreshMu.Unlock()

	gitAvailable := idx.gitStatus.IsRepository(ctx, idx.root)
	var dirty, changed map[string]struct{}
	if gitAvailable {
		var err error
		dirty, err = idx.gitStatus.DirtyPaths(ctx, idx.root)
		if err != nil {
			log.Printf("index: dirty paths unavailable: %v", err)
			gitAvailable = false
		}
		changed, err = idx.gitStatus.DiffPaths(ctx, idx.root, idx.baseBranch)
		if err != nil {
			log.Printf("index: diff against %s unavailable: %v", idx.baseBranch, err)
			gitAvailable = false
		}
	}

	var entries []domain.FileEntry
	seen := make(map[string]struct{})
	stats, err := idx.walker.Walk(ctx, idx.root, func(relPath string) bool {
		if _, dup := seen[relPath]; dup {
			return true
		}
		seen[relPath] = struct{}{}
		_, isDirty := dirty[relPath]
		_, isChanged := changed[relPath]
		entries = append(entries, domain.FileEntry{
			Path:            relPath,
			IsDirty:         isDirty,
			ChangedFromBase: isChanged,
		})
		return true
	})
	if err != nil {
		// Cancelled mid-walk: the partial entry list must not become
		// visible, so the previous generation stays current.
		return idx.Current(), err
	}

	snap := &Snapshot{
		Generation:   idx.generation.Add(1),
		Entries:      entries,
		GitAvailable: gitAvailable,
		Warnings:     stats.Warnings,
	}
	idx.current.Store(snap)

	if idx.bus != nil {
		idx.bus.Publish(eventbus.IndexRefreshedEvent{
			Generation: snap.Generation,
			Files:      len(snap.Entries),
			Warnings:   snap.Warnings,
		})
		if !gitAvailable {
			idx.bus.Publish(eventbus.GitUnavailableEvent{Reason: "not a git repository"})
		}
	}
	return snap, nil
}

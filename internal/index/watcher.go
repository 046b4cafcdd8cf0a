package index

import (
	"context"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"glancr/internal/eventbus"
)

// maxWatchedDirs bounds how many directories are registered with the
// kernel watcher on very large trees.
const maxWatchedDirs = 1024

// debounceWindow collapses bursts of filesystem events into one
// notification.
const debounceWindow = 250 * time.Millisecond

// Watcher observes the indexed tree and publishes FilesChanged events so
// the UI can request a refresh. Events are debounced and rate limited;
// a burst of writes produces a single notification.
type Watcher struct {
	idx    *Index
	bus    eventbus.EventBus
	fsw    *fsnotify.Watcher
	limit  *rate.Limiter
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher starts watching the directories of the index's current
// snapshot. Call Rearm after each refresh to pick up new directories.
func NewWatcher(idx *Index, bus eventbus.EventBus) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		idx:    idx,
		bus:    bus,
		fsw:    fsw,
		limit:  rate.NewLimiter(rate.Every(time.Second), 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	w.Rearm()

	go w.loop(ctx)
	return w, nil
}

// Rearm re-registers the watch list from the current snapshot.
func (w *Watcher) Rearm() {
	snap := w.idx.Current()

	dirs := map[string]struct{}{"": {}}
	for _, e := range snap.Entries {
		dir := filepath.Dir(filepath.FromSlash(e.Path))
		for dir != "." && dir != "/" {
			dirs[dir] = struct{}{}
			dir = filepath.Dir(dir)
		}
		if len(dirs) >= maxWatchedDirs {
			break
		}
	}

	for _, existing := range w.fsw.WatchList() {
		_ = w.fsw.Remove(existing)
	}
	for dir := range dirs {
		abs := w.idx.root
		if dir != "" {
			abs = filepath.Join(w.idx.root, dir)
		}
		if err := w.fsw.Add(abs); err != nil {
			// Racing against deletes is normal; nothing to do.
			continue
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.cancel()
	err := w.fsw.Close()
	<-w.done
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)

	var pending []string
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		fire = nil
		if len(pending) == 0 {
			return
		}
		if !w.limit.Allow() {
			// Too soon after the last notification; try again shortly.
			timer = time.NewTimer(debounceWindow)
			fire = timer.C
			return
		}
		w.bus.Publish(eventbus.FilesChangedEvent{Paths: pending})
		pending = nil
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			rel, err := filepath.Rel(w.idx.root, event.Name)
			if err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
			pending = append(pending, filepath.ToSlash(rel))
			if fire == nil {
				timer = time.NewTimer(debounceWindow)
				fire = timer.C
			}

		case <-fire:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher: %v", err)
		}
	}
}

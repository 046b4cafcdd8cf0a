package ui

import (
	"glancr/internal/eventbus"
	"glancr/internal/fuzzy"
	"glancr/internal/grep"
	"glancr/internal/index"
	"glancr/internal/preview"
)

// EventMsg wraps a domain event forwarded from the event bus
type EventMsg struct {
	Event eventbus.DomainEvent
}

// searchDoneMsg carries the outcome of one background search pass. Gen is
// the query generation the pass was started for; results tagged with an
// older generation than the current one are discarded, never applied.
type searchDoneMsg struct {
	gen     uint64
	name    []fuzzy.Match
	content *grep.Results
	err     error
}

// refreshDoneMsg reports a completed index refresh
type refreshDoneMsg struct {
	snap *index.Snapshot
	err  error
}

// previewLoadedMsg carries a freshly loaded preview buffer
type previewLoadedMsg struct {
	path string
	buf  *preview.Buffer
}

// editorFinishedMsg reports the spawned editor's exit
type editorFinishedMsg struct {
	err error
}

// pagerDoneMsg reports that the full-screen pager exited
type pagerDoneMsg struct {
	err error
}

package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventIndexRefreshRequested EventType = "IndexRefreshRequested"
	EventIndexRefreshed        EventType = "IndexRefreshed"
	EventFilesChanged          EventType = "FilesChanged"
	EventGitUnavailable        EventType = "GitUnavailable"
	EventError                 EventType = "Error"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// IndexRefreshRequestedEvent asks the index to rebuild its snapshot.
type IndexRefreshRequestedEvent struct{}

func (e IndexRefreshRequestedEvent) Type() EventType { return EventIndexRefreshRequested }

// IndexRefreshedEvent is emitted after a new snapshot has been published.
type IndexRefreshedEvent struct {
	Generation uint64
	Files      int
	Warnings   int
}

func (e IndexRefreshedEvent) Type() EventType { return EventIndexRefreshed }

// FilesChangedEvent is emitted by the filesystem watcher when the tree
// has changed since the current snapshot was built.
type FilesChangedEvent struct {
	Paths []string
}

func (e FilesChangedEvent) Type() EventType { return EventFilesChanged }

// GitUnavailableEvent is emitted when the root is not a git repository or
// git queries fail; the UI disables the git-based filters.
type GitUnavailableEvent struct {
	Reason string
}

func (e GitUnavailableEvent) Type() EventType { return EventGitUnavailable }

// ErrorEvent is emitted when a background operation fails
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

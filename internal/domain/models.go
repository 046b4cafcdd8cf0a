package domain

// FileEntry is one searchable file in an index snapshot. Entries are
// immutable once the snapshot that owns them has been published.
type FileEntry struct {
	Path            string // relative to the project root, forward slashes
	IsDirty         bool   // uncommitted changes in the working tree
	ChangedFromBase bool   // differs from the configured base branch
}

// SearchMode selects how the query is interpreted.
type SearchMode int

const (
	NameSearch SearchMode = iota
	ContentSearch
)

func (m SearchMode) String() string {
	switch m {
	case NameSearch:
		return "filename"
	case ContentSearch:
		return "content"
	default:
		return "unknown"
	}
}

// Query is the full search request as the controller sees it.
type Query struct {
	Mode        SearchMode
	Text        string
	DirtyOnly   bool
	ChangedOnly bool
}

// WalkStats reports non-fatal trouble encountered during a tree walk.
type WalkStats struct {
	Files    int
	Warnings int // unreadable directories and files that were skipped
}

package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"glancr/internal/config"
	"glancr/internal/eventbus"
	"glancr/internal/fuzzy"
	"glancr/internal/grep"
	"glancr/internal/index"
	"glancr/internal/preview"
)

// Mode is the controller state. Help is an overlay state: it preserves the
// underlying query and returns to the prior search mode on escape.
type Mode int

const (
	ModeNameSearch Mode = iota
	ModeContentSearch
	ModeHelp
)

// Model represents the UI state
type Model struct {
	bus     eventbus.EventBus
	config  *config.Config
	idx     *index.Index
	watcher *index.Watcher
	root    string
	styles  *Styles

	mode     Mode
	prevMode Mode // state to return to when the help overlay closes
	input    textinput.Model

	dirtyOnly    bool
	changedOnly  bool
	gitAvailable bool

	// queryGen stamps every dispatched search; a result carrying an older
	// stamp than the current one is stale and dropped on arrival.
	queryGen     uint64
	cancelSearch context.CancelFunc
	lastIndexGen uint64

	nameResults    []fuzzy.Match
	contentResults []grep.Result
	contentRe      *regexp.Regexp
	truncated      bool
	searchWarnings int

	selected      int
	previewBuf    *preview.Buffer
	previewPath   string
	previewScroll int

	status  string
	isError bool

	width  int
	height int

	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, idx *index.Index, root string) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.Focus()

	return &Model{
		bus:          bus,
		config:       cfg,
		idx:          idx,
		root:         root,
		styles:       NewStyles(),
		mode:         ModeNameSearch,
		input:        input,
		gitAvailable: true, // until the first refresh says otherwise
		status:       "indexing...",
	}
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
}

// SetWatcher attaches the filesystem watcher so it can be re-armed after
// each refresh.
func (m *Model) SetWatcher(w *index.Watcher) {
	m.watcher = w
}

// Init returns the initial commands: cursor blink and the first index build.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.refreshCmd())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 8
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case searchDoneMsg:
		return m.applySearchResult(msg)

	case refreshDoneMsg:
		return m.applyRefresh(msg)

	case previewLoadedMsg:
		// A stale buffer for a path the selection has moved away from is
		// dropped; a fresh load is already in flight.
		if msg.path == m.selectedPath() {
			m.previewBuf = msg.buf
			m.previewPath = msg.path
			m.previewScroll = msg.buf.ScrollTarget(m.previewHeight())
		}
		return m, nil

	case EventMsg:
		return m.handleEvent(msg.Event)

	case editorFinishedMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("editor: %v", msg.err))
			return m, nil
		}
		return m, tea.Quit

	case pagerDoneMsg:
		if msg.err != nil {
			m.setError(fmt.Sprintf("pager: %v", msg.err))
		}
		return m, nil
	}

	return m, nil
}

// handleKey dispatches a keystroke according to the current mode.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeHelp {
		switch msg.String() {
		case "esc", "f1", "ctrl+h", "q":
			m.mode = m.prevMode
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit

	case "f1", "ctrl+h":
		m.prevMode = m.mode
		m.mode = ModeHelp
		return m, nil

	case "ctrl+n":
		if m.mode != ModeNameSearch {
			m.mode = ModeNameSearch
			return m, m.startSearch()
		}
		return m, nil

	case "ctrl+f":
		if m.mode != ModeContentSearch {
			m.mode = ModeContentSearch
			return m, m.startSearch()
		}
		return m, nil

	case "ctrl+d":
		if !m.gitAvailable {
			m.setError("dirty filter unavailable: not a git repository")
			return m, nil
		}
		m.dirtyOnly = !m.dirtyOnly
		return m, m.startSearch()

	case "ctrl+b":
		if !m.gitAvailable {
			m.setError("base-branch filter unavailable: not a git repository")
			return m, nil
		}
		m.changedOnly = !m.changedOnly
		return m, m.startSearch()

	case "ctrl+r":
		m.setStatus("refreshing index...")
		return m, m.refreshCmd()

	case "up":
		return m, m.moveSelection(-1)
	case "down":
		return m, m.moveSelection(1)
	case "pgup":
		return m, m.moveSelection(-m.pageSize())
	case "pgdown":
		return m, m.moveSelection(m.pageSize())

	case "shift+up":
		m.scrollPreview(-1)
		return m, nil
	case "shift+down":
		m.scrollPreview(1)
		return m, nil

	case "ctrl+v":
		return m, m.openPagerCmd()

	case "enter":
		return m, m.openEditorCmd()
	}

	// Everything else belongs to the query input.
	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		return m, tea.Batch(cmd, m.startSearch())
	}
	return m, cmd
}

// handleEvent processes domain events forwarded from the bus.
func (m *Model) handleEvent(event eventbus.DomainEvent) (tea.Model, tea.Cmd) {
	switch e := event.(type) {
	case eventbus.FilesChangedEvent:
		return m, m.refreshCmd()

	case eventbus.IndexRefreshedEvent:
		// A refresh triggered outside this model; re-rank against the new
		// snapshot unless we already have.
		if e.Generation != m.lastIndexGen {
			m.lastIndexGen = e.Generation
			return m, m.startSearch()
		}
		return m, nil

	case eventbus.GitUnavailableEvent:
		if m.gitAvailable {
			m.gitAvailable = false
			m.dirtyOnly = false
			m.changedOnly = false
			m.setStatus("git filters disabled: " + e.Reason)
		}
		return m, nil

	case eventbus.ErrorEvent:
		m.setError(e.Message)
		return m, nil
	}
	return m, nil
}

// startSearch bumps the query generation, cancels any in-flight pass and
// dispatches a fresh one against the current snapshot.
func (m *Model) startSearch() tea.Cmd {
	m.queryGen++
	if m.cancelSearch != nil {
		m.cancelSearch()
	}

	gen := m.queryGen
	query := m.input.Value()
	mode := m.mode
	snap := m.idx.Current()
	entries := snap.Filter(m.dirtyOnly, m.changedOnly)
	root := m.root
	maxResults := m.config.MaxContentResults

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelSearch = cancel

	return func() tea.Msg {
		defer cancel()
		if mode == ModeContentSearch && query != "" {
			res, err := grep.Search(ctx, root, entries, query, grep.Options{MaxResults: maxResults})
			return searchDoneMsg{gen: gen, content: res, err: err}
		}
		// Name mode, and the empty content query, list all candidates.
		return searchDoneMsg{gen: gen, name: fuzzy.Rank(entries, query)}
	}
}

// applySearchResult publishes a finished pass unless it is stale.
func (m *Model) applySearchResult(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	if msg.gen != m.queryGen {
		return m, nil // stale result must never overwrite a fresher one
	}

	if msg.err != nil {
		var patErr *grep.PatternError
		switch {
		case errors.As(msg.err, &patErr):
			// Invalid pattern keeps the prior results on screen.
			m.setError(patErr.Error())
		case errors.Is(msg.err, context.Canceled):
		default:
			m.setError(msg.err.Error())
		}
		return m, nil
	}

	if msg.content != nil {
		m.contentResults = msg.content.Matches
		m.nameResults = nil
		m.truncated = msg.content.Truncated
		m.searchWarnings = msg.content.Warnings
		if re, err := regexp.Compile(m.input.Value()); err == nil {
			m.contentRe = re
		}
	} else {
		m.nameResults = msg.name
		m.contentResults = nil
		m.truncated = false
		m.searchWarnings = 0
		m.contentRe = nil
	}

	m.clampSelection()
	m.clearStatus()
	return m, m.loadPreviewCmd()
}

// applyRefresh swaps in the refreshed snapshot state and re-ranks.
func (m *Model) applyRefresh(msg refreshDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("refresh failed: %v", msg.err))
		return m, nil
	}

	m.lastIndexGen = msg.snap.Generation
	m.gitAvailable = msg.snap.GitAvailable
	if !m.gitAvailable {
		m.dirtyOnly = false
		m.changedOnly = false
	}
	if msg.snap.Warnings > 0 {
		m.setStatus(fmt.Sprintf("indexed %d files (%d skipped)", len(msg.snap.Entries), msg.snap.Warnings))
	} else {
		m.setStatus(fmt.Sprintf("indexed %d files", len(msg.snap.Entries)))
	}
	if m.watcher != nil {
		m.watcher.Rearm()
	}
	return m, m.startSearch()
}

// refreshCmd rebuilds the index off the event loop.
func (m *Model) refreshCmd() tea.Cmd {
	idx := m.idx
	return func() tea.Msg {
		snap, err := idx.Refresh(context.Background())
		return refreshDoneMsg{snap: snap, err: err}
	}
}

// loadPreviewCmd loads the selected file's preview off the event loop.
func (m *Model) loadPreviewCmd() tea.Cmd {
	path := m.selectedPath()
	if path == "" {
		m.previewBuf = nil
		m.previewPath = ""
		return nil
	}
	if path == m.previewPath && m.contentRe == nil {
		return nil // already showing it
	}
	abs := filepath.Join(m.root, filepath.FromSlash(path))
	re := m.contentRe
	return func() tea.Msg {
		return previewLoadedMsg{path: path, buf: preview.Load(abs, re)}
	}
}

// moveSelection shifts the selection and reloads the preview.
func (m *Model) moveSelection(delta int) tea.Cmd {
	if m.resultCount() == 0 {
		return nil
	}
	m.selected += delta
	m.clampSelection()
	return m.loadPreviewCmd()
}

func (m *Model) clampSelection() {
	n := m.resultCount()
	if n == 0 {
		m.selected = 0
		return
	}
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) scrollPreview(delta int) {
	if m.previewBuf == nil {
		return
	}
	m.previewScroll = m.previewBuf.ClampScroll(m.previewScroll+delta, m.previewHeight())
}

func (m *Model) resultCount() int {
	if m.contentResults != nil {
		return len(m.contentResults)
	}
	return len(m.nameResults)
}

// selectedPath returns the relative path under the cursor, "" when the
// result list is empty.
func (m *Model) selectedPath() string {
	if m.contentResults != nil {
		if m.selected < len(m.contentResults) {
			return m.contentResults[m.selected].Path
		}
		return ""
	}
	if m.selected < len(m.nameResults) {
		return m.nameResults[m.selected].Entry.Path
	}
	return ""
}

// selectedLine returns the matched line number for content results, 0
// otherwise.
func (m *Model) selectedLine() int {
	if m.contentResults != nil && m.selected < len(m.contentResults) {
		return m.contentResults[m.selected].LineNumber
	}
	return 0
}

// openEditorCmd spawns the configured editor on the selection and quits
// when it exits.
func (m *Model) openEditorCmd() tea.Cmd {
	path := m.selectedPath()
	if path == "" {
		return nil
	}
	abs := filepath.Join(m.root, filepath.FromSlash(path))
	cmd, err := buildEditorCommand(m.config.OpenCommand, abs, m.selectedLine())
	if err != nil {
		m.setError(fmt.Sprintf("open_command: %v", err))
		return nil
	}
	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		return editorFinishedMsg{err: err}
	})
}

// openPagerCmd pages the selected file full screen.
func (m *Model) openPagerCmd() tea.Cmd {
	path := m.selectedPath()
	if path == "" || m.program == nil {
		return nil
	}
	abs := filepath.Join(m.root, filepath.FromSlash(path))
	program := m.program
	return func() tea.Msg {
		return pagerDoneMsg{err: showFileInPager(program, abs)}
	}
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
}

func (m *Model) clearStatus() {
	if m.isError {
		return // keep the error visible until something succeeds explicitly
	}
	m.status = ""
}

func (m *Model) pageSize() int {
	h := m.listHeight()
	if h < 1 {
		return 1
	}
	return h
}

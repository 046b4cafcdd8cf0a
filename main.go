package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"gopkg.in/natefinch/lumberjack.v2"

	"glancr/internal/config"
	"glancr/internal/eventbus"
	"glancr/internal/git"
	"glancr/internal/index"
	"glancr/internal/ui"
	"glancr/internal/walk"
)

func main() {
	var targetDir string
	flag.StringVar(&targetDir, "dir", "", "Project root to search")
	flag.StringVar(&targetDir, "d", "", "Project root to search (shorthand)")
	flag.Parse()

	if targetDir == "" && flag.NArg() > 0 {
		targetDir = flag.Arg(0)
	}
	if targetDir == "" {
		var err error
		targetDir, err = os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting current directory: %v\n", err)
			os.Exit(1)
		}
	}

	absDir, err := filepath.Abs(targetDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving path: %v\n", err)
		os.Exit(1)
	}

	// The root must exist before the UI starts; this is the only fatal
	// error class.
	info, err := os.Stat(absDir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is not a readable directory\n", absDir)
		os.Exit(1)
	}

	// Log to a rotating file; the terminal belongs to the TUI.
	log.SetOutput(&lumberjack.Logger{
		Filename:   filepath.Join(os.TempDir(), "glancr.log"),
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	})

	cfg, err := config.NewConfigService().Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}

	bus := eventbus.New()
	defer bus.Close()

	walker := walk.New(cfg.IgnoredDirs, cfg.IgnoredPatterns)
	gitStatus := git.NewStatusProvider()
	idx := index.New(absDir, cfg.BaseBranch, walker, gitStatus, bus)

	uiModel := ui.NewModel(bus, cfg, idx, absDir)

	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	watcher, err := index.NewWatcher(idx, bus)
	if err != nil {
		log.Printf("Filesystem watcher unavailable: %v", err)
	} else {
		uiModel.SetWatcher(watcher)
		defer watcher.Close()
	}

	// Forward bus events into the UI as messages.
	forward := func(e eventbus.DomainEvent) {
		p.Send(ui.EventMsg{Event: e})
	}
	bus.Subscribe(eventbus.EventIndexRefreshed, forward)
	bus.Subscribe(eventbus.EventFilesChanged, forward)
	bus.Subscribe(eventbus.EventGitUnavailable, forward)
	bus.Subscribe(eventbus.EventError, forward)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

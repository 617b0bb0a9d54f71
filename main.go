// inkwell - An AI-assisted writing desk for the terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/inkwell/internal/cloud"
	"github.com/jeranaias/inkwell/internal/config"
	"github.com/jeranaias/inkwell/internal/storage"
	"github.com/jeranaias/inkwell/internal/telemetry"
	"github.com/jeranaias/inkwell/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "path to a config file (default ~/.inkwell/config.toml)")
		draftID     = flag.String("draft", "", "open a specific draft by id")
		resume      = flag.Bool("resume", false, "resume the most recently edited draft")
		listDrafts  = flag.Bool("list", false, "list saved drafts and exit")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("inkwell %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	// Load configuration, honoring an explicit --config path.
	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFromPath(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	// Draft storage lives under the configured draft directory.
	draftDir, err := cfg.DraftDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	drafts, err := storage.NewDraftStoreWithDir(draftDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not open draft storage: %v\n", err)
		os.Exit(1)
	}

	if *listDrafts {
		runList(drafts)
		return
	}

	// Prompt history sits next to the drafts. A failure here is not
	// fatal; the editor works without history.
	var history *storage.History
	if cfg.History.Enabled {
		history, err = storage.NewHistory(draftDir, cfg.History.MaxEntries)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: prompt history disabled: %v\n", err)
		}
	}

	// Usage telemetry is opt-in and local-only.
	var usage *telemetry.Store
	if cfg.Telemetry.Enabled {
		dbPath, pathErr := cfg.TelemetryDBPath()
		if pathErr == nil {
			usage, err = telemetry.Open(dbPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: telemetry disabled: %v\n", err)
				usage = nil
			}
		}
	}
	if usage != nil {
		defer usage.Close()
	}

	// Cloud client for AI generation. An empty key yields an
	// unconfigured client; the UI surfaces that when an assist is tried.
	client := cloud.NewClient(cfg.AI.APIKey).
		WithBaseURL(cfg.AI.BaseURL).
		WithModel(cfg.AI.Model).
		WithMaxRetries(cfg.AI.MaxRetries)

	// Resolve the draft to open, if any.
	var draft *storage.StoredDraft
	switch {
	case *draftID != "":
		draft, err = drafts.Load(*draftID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case *resume:
		draft, err = drafts.LoadByIndex(0)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: no draft to resume: %v\n", err)
			os.Exit(1)
		}
	}

	// Watch the config file so edits apply without a restart.
	if *configPath == "" {
		if path, pathErr := config.ConfigPath(); pathErr == nil {
			if watcher, watchErr := config.Watch(path, config.SetGlobal); watchErr == nil {
				defer watcher.Close()
			}
		}
	}

	m := app.New(app.Options{
		Config:  cfg,
		Client:  client,
		Drafts:  drafts,
		History: history,
		Usage:   usage,
		Draft:   draft,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running inkwell: %v\n", err)
		os.Exit(1)
	}
}

// runList prints the saved drafts, most recent first.
func runList(drafts *storage.DraftStore) {
	metas, err := drafts.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(metas) == 0 {
		fmt.Println("No drafts saved yet.")
		return
	}
	for _, meta := range metas {
		fmt.Printf("%-14s  %-40s  %5d words  %s\n",
			meta.ID, meta.Title, meta.WordCount, meta.UpdatedAt.Format("2006-01-02 15:04"))
	}
}

/*
Package main implements the item suggestion server and CLI [DBG] application.

ListServe ranks previously used list items against a typed query so clients
can offer "add again" suggestions. Matching combines exact, prefix, substring
and fuzzy tiers with recency and frequency signals, and results are memoized
in a bounded TTL cache. It can operate as a MessagePack IPC server for
integration with list apps, or as a CLI application for testing and
debugging.

# Usage

Start the server with the in-memory store:

	listserve

Persist items in sqlite and enable debug mode:

	listserve -driver sqlite -db ~/.local/share/listserve/items.db -d

Run in CLI mode for interactive testing:

	listserve -c -list groceries

# Configuration

Runtime configuration is managed through a TOML file covering scoring
weights, cache bounds and server limits:

	[suggest]
	max_results = 10
	fuzzy_threshold = 0.6
	match_weight = 0.3
	recency_weight = 0.3
	frequency_weight = 0.4

	[cache]
	ttl_seconds = 300
	max_entries = 100

	[server]
	max_query_len = 120
	max_limit = 64

The config file is automatically created with defaults if it doesn't exist.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout. Requests carry an
op discriminator and are processed synchronously with microsecond timing
information included in suggestion responses.

Ask for suggestions:

	{"id": "req1", "op": "suggest", "q": "milk", "list": "groceries", "l": 10}

Receive ranked suggestions:

	{"id": "req1", "s": [{"i": "a1", "t": "Milk", "s": 97.2, "f": 5}], "c": 1, "t": 145}

Item management requests mutate the store and invalidate cached results:

	{"id": "put1", "op": "put", "item": {"t": "Milk", "list": "groceries"}}
	{"id": "del1", "op": "delete", "iid": "a1"}
	{"id": "x1", "op": "cross", "iid": "a1", "co": true}

# Server Mode

The default mode starts a MessagePack IPC server that processes requests
from stdin and writes responses to stdout. This design enables integration
with list applications through process communication.

	srv := server.NewServer(engine, items, cfg.Server)
	err := srv.Start()

The server handles request parsing, validation and response formatting, and
clamps result limits to the configured maximum.

# CLI Mode

CLI mode provides an interactive interface for testing and debugging the
suggestion engine. It reads queries from stdin and displays ranked
suggestions with score breakdowns, plus a few store commands for exercising
cache invalidation.

	inputHandler := cli.NewInputHandler(engine, items, listID, maxQueryLen)
	err := inputHandler.Start()

This mode is primarily intended for development and testing new scoring
behavior before deploying to server mode.

# Suggestion Engine

The core functionality is provided by the suggest package, which groups
items by normalized title, indexes them in a Patricia trie, and scores each
candidate on match quality, recency and frequency.

	engine := suggest.NewEngine(items, cfg.Params())
	results := engine.Suggest("milk", suggest.Scope{ListID: "groceries"}, "")

The engine registers itself for store mutation callbacks so cached results
never outlive the data they were computed from.

# Command Line Flags

The following flags control application behavior:

	-version
	    Show current version
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-config string
	    Custom config file path (default ~/.config/listserve/config.toml)
	-driver string
	    Storage backend, "memory" or "sqlite" (default from config)
	-db string
	    Database file for the sqlite driver
	-list string
	    Scope CLI queries to a single list (CLI mode only)
	-export string
	    Write all items to a JSON file and exit
	-import string
	    Load items from a JSON file before serving
	-strategy string
	    Import reconciliation: replace, merge or keep-existing (default "merge")
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/chmc/listall/internal/cli"
	"github.com/chmc/listall/pkg/config"
	"github.com/chmc/listall/pkg/server"
	"github.com/chmc/listall/pkg/store"
	"github.com/chmc/listall/pkg/suggest"
	"github.com/chmc/listall/pkg/transfer"
)

const (
	Version = "0.3.0"
	AppName = "listserve"
	gh      = "https://github.com/chmc/listall"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main calls other packages to initialize the server or CLI inputs.
// main() does not implement logic for them and only manages the flow.
func main() {
	sigHandler()

	showVersion := flag.Bool("version", false, "Show current version")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	configPath := flag.String("config", "", "Custom config file path")
	driver := flag.String("driver", "", "Storage backend: memory or sqlite")
	dbPath := flag.String("db", "", "Database file for the sqlite driver")
	listID := flag.String("list", "", "Scope CLI queries to a single list")
	exportPath := flag.String("export", "", "Write all items to a JSON file and exit")
	importPath := flag.String("import", "", "Load items from a JSON file before serving")
	importStrategy := flag.String("strategy", "merge", "Import reconciliation: replace, merge or keep-existing")

	flag.Parse()

	if *showVersion {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		logger.SetStyles(styles)

		logger.Print("")
		logger.Print("[ ListServe ] Ranked suggestions for list items!")
		logger.Print("", "version", Version)
		logger.Print("")
		logger.Print("use -h or --help to see available options")
		logger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}
	log.SetOutput(os.Stderr)

	appConfig, usedPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
		os.Exit(1)
	}
	if usedPath != "" {
		log.Debugf("Using config file: (%s)", usedPath)
	}

	if *driver != "" {
		appConfig.Store.Driver = *driver
	}
	if *dbPath != "" {
		appConfig.Store.Path = *dbPath
	}

	items, err := openStore(appConfig.Store)
	if err != nil {
		log.Fatalf("Failed to open %s store: %v", appConfig.Store.Driver, err)
		os.Exit(1)
	}

	if *importPath != "" {
		strategy, err := transfer.ParseStrategy(*importStrategy)
		if err != nil {
			log.Fatalf("Bad import strategy: %v", err)
			os.Exit(1)
		}
		f, err := os.Open(*importPath)
		if err != nil {
			log.Fatalf("Failed to open import file: %v", err)
			os.Exit(1)
		}
		res, err := transfer.Import(items, f, strategy)
		f.Close()
		if err != nil {
			log.Fatalf("Import failed: %v", err)
			os.Exit(1)
		}
		for _, e := range res.Errors {
			log.Warnf("Import: %v", e)
		}
		log.Infof("Imported %d items, skipped %d", res.Imported, res.Skipped)
	}

	if *exportPath != "" {
		f, err := os.Create(*exportPath)
		if err != nil {
			log.Fatalf("Failed to create export file: %v", err)
			os.Exit(1)
		}
		if err := transfer.Export(items, f); err != nil {
			f.Close()
			log.Fatalf("Export failed: %v", err)
			os.Exit(1)
		}
		f.Close()
		return
	}

	engine := suggest.NewEngine(items, appConfig.Params())

	// CLI would be mainly used for testing and dbg purposes.
	// Any new scoring changes should be tested in CLI mode first.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"list", *listID,
			"maxQueryLen", appConfig.Server.MaxQueryLen)

		inputHandler := cli.NewInputHandler(engine, items, *listID, appConfig.Server.MaxQueryLen)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, items, appConfig.Server)

	showStartupInfo(appConfig.Store.Driver)

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// openStore picks the storage backend from config.
func openStore(cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "sqlite":
		path := cfg.Path
		if path == "" {
			path = "listserve.db"
		}
		return store.OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(driver string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " ListServe ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	log.Infof("store: ( %s )", driver)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

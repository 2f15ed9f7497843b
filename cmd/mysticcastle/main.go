// MysticCastle is a text adventure: claim the Crown of Whispers and find the
// secret vault.
// Usage: mysticcastle [--version] [--plain] [--script <file>] [--trace] [--world <dir>]
//
//	mysticcastle serve [--world <dir>]
package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nathoo/mysticcastle/cli"
	"github.com/nathoo/mysticcastle/config"
	"github.com/nathoo/mysticcastle/content"
	"github.com/nathoo/mysticcastle/engine"
	"github.com/nathoo/mysticcastle/engine/state"
	"github.com/nathoo/mysticcastle/loader"
	"github.com/nathoo/mysticcastle/logger"
	"github.com/nathoo/mysticcastle/server"
	"github.com/nathoo/mysticcastle/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: mysticcastle [--version] [--plain] [--script <file>] [--trace] [--world <dir>]\n" +
	"       mysticcastle serve [--world <dir>]\n"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	serve := false
	plain := false
	trace := false
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("mysticcastle %s (commit %s, built %s)\n", version, commit, date)
			return
		case "serve":
			serve = true
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--world":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a path\n", args[i])
				os.Exit(1)
			}
			i++
			if args[i-1] == "--script" {
				scriptFile = args[i]
			} else {
				cfg.WorldDir = args[i]
			}
		case "-h", "--help":
			fmt.Print(usage)
			return
		default:
			fmt.Fprintf(os.Stderr, "Unknown argument: %s\n%s", args[i], usage)
			os.Exit(1)
		}
	}

	if serve {
		os.Exit(runServer(cfg))
	}

	// Narration owns stdout; only warnings and worse reach stderr.
	if cfg.LogLevel < slog.LevelWarn {
		cfg.LogLevel = slog.LevelWarn
	}
	logger.Setup(cfg, os.Stderr)

	defs, err := loadWorld(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading game: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(defs)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		printBanner(defs)
		c := newCLI(eng, defs, cfg)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		printBanner(defs)
		c := newCLI(eng, defs, cfg)
		c.Trace = trace
		c.Run()
		return
	}

	if err := tui.Run(eng, defs, cfg.SaveDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServer(cfg *config.Config) int {
	log := logger.Setup(cfg, os.Stdout)

	defs, err := loadWorld(cfg)
	if err != nil {
		log.Error("Failed to load world", "error", err)
		return 1
	}

	var static fs.FS = content.Web()
	if cfg.StaticDir != "" {
		static = os.DirFS(cfg.StaticDir)
	}

	log.Info("Starting MysticCastle",
		"version", version,
		"port", cfg.Port,
		"environment", cfg.Environment,
		"world", defs.Game.Title)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(defs, static, log)
	if err := srv.ListenAndServe(ctx, ":"+cfg.Port); err != nil {
		log.Error("Server failed", "error", err)
		return 1
	}
	return 0
}

// loadWorld compiles the world directory if one is configured, otherwise
// the embedded MysticCastle world.
func loadWorld(cfg *config.Config) (*state.Defs, error) {
	if cfg.WorldDir != "" {
		return loader.Load(cfg.WorldDir)
	}
	return loader.Default()
}

func newCLI(eng *engine.Engine, defs *state.Defs, cfg *config.Config) *cli.CLI {
	c := cli.New(eng, defs)
	c.SaveDir = cfg.SaveDir
	return c
}

func printBanner(defs *state.Defs) {
	fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

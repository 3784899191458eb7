// Casefile runs an investigation casebook: cases, leads and rewards driven by
// trigger conditions over game state.
// Usage: casefile [--version] [--config <file>] [--plain] [--script <file>] [--trace] [--publish <redis-url>] <content_directory>
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nathoo/casefile/cli"
	"github.com/nathoo/casefile/config"
	"github.com/nathoo/casefile/loader"
	"github.com/nathoo/casefile/logging"
	"github.com/nathoo/casefile/notify"
	"github.com/nathoo/casefile/session"
	"github.com/nathoo/casefile/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const usage = "Usage: casefile [--version] [--config <file>] [--plain] [--script <file>] [--trace] [--publish <redis-url>] <content_directory>\n"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	plain := false
	trace := false
	var contentDir, scriptFile, configFile, publishURL string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("casefile %s (commit %s, built %s)\n", version, commit, date)
			return 0
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--script", "--config", "--publish":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "%s requires a value\n", args[i])
				return 1
			}
			i++
			switch args[i-1] {
			case "--script":
				scriptFile = args[i]
			case "--config":
				configFile = args[i]
			default:
				publishURL = args[i]
			}
		default:
			if contentDir == "" {
				contentDir = args[i]
			}
		}
	}

	if contentDir == "" {
		fmt.Fprint(os.Stderr, usage)
		return 1
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}
	if publishURL != "" {
		cfg.Notify.RedisURL = publishURL
	}

	useTUI := scriptFile == "" && !plain && isTerminal()
	if useTUI {
		// The alternate screen owns the terminal; only the log file stays on.
		cfg.Log.Console = false
	}
	logger, closeLog := logging.Setup(cfg.Log)
	defer closeLog()

	defs, err := loader.Load(contentDir, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading casebook: %v\n", err)
		return 1
	}

	s := session.New(defs, session.Options{MaxPasses: cfg.Engine.MaxPasses, Logger: logger})

	if cfg.Notify.RedisURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		pub, err := notify.Dial(ctx, cfg.Notify.RedisURL, cfg.Notify.Channel, s.ID, logger)
		cancel()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error connecting publisher: %v\n", err)
			return 1
		}
		defer pub.Close()
		s.Engine.Subscribe(pub)
		logger.Info("publishing status events", "channel", cfg.Notify.Channel, "session", s.ID)
	}

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			return 1
		}
		defer f.Close()
		fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(s)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		c.Run()
		return 0
	}

	if !useTUI {
		fmt.Printf("%s v%s by %s\n\n", defs.Game.Title, defs.Game.Version, defs.Game.Author)
		c := cli.New(s)
		c.Trace = trace
		c.Run()
		return 0
	}

	if err := tui.Run(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

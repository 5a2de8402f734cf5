package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/handiism/music-manager/internal/config"
	"github.com/handiism/music-manager/internal/logging"
	"github.com/handiism/music-manager/internal/rules"
	"github.com/handiism/music-manager/internal/tui"
)

func main() {
	configFlag := flag.String("config", config.DefaultPath(), "Settings file path (JSON or TOML)")
	flag.Parse()

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "music-manager-tui needs a terminal; use music-manager instead")
		os.Exit(1)
	}

	if err := run(*configFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	settings, err := config.Load(configPath)
	if err != nil {
		return err
	}

	set, err := rules.Default()
	if settings.RulesFile != "" {
		set, err = rules.LoadFile(settings.RulesFile)
	}
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	// The screen belongs to the TUI, so logs only go to the file.
	logger, closer, err := logging.New(logging.Options{
		Level:  settings.LogLevel,
		File:   settings.LogFile,
		Logfmt: true,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	return tui.Run(settings, set, logger)
}


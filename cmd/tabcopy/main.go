// Package main provides the tabcopy command.
// tabcopy copies the URLs of open browser tabs to the clipboard and opens
// the URLs found in the clipboard as new tabs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/logging"
)

const version = "0.1.0" // Version of tabcopy

// Options holds the command line options
type Options struct {
	ConfigPath      string
	PreviousVersion string
	ShowVersion     bool

	Command string
	Args    []string
}

func main() {
	opts := parseFlags()

	if opts.ShowVersion {
		fmt.Printf("tabcopy v%s\n", version)
		return
	}

	if opts.Command == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	// Create context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "Shutting down...")
		cancel()
	}()

	if runErr := run(ctx, cfg, opts); runErr != nil {
		cancel()
		log.Fatalf("tabcopy: %v", runErr)
	}
	cancel()
}

// parseFlags parses the global flags. The first remaining argument is the command.
func parseFlags() *Options {
	opts := &Options{}

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to the configuration file (default: ~/.tabcopy/config.yaml)")
	flag.StringVar(&opts.PreviousVersion, "previous-version", "", "Version installed before this one; shows the update notice once")
	flag.BoolVar(&opts.ShowVersion, "version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tabcopy - copy and paste browser tab URLs\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tabcopy [options] <command> [command options]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  serve     Read JSON commands from stdin, write responses to stdout\n")
		fmt.Fprintf(os.Stderr, "  copy      Copy tab URLs to the clipboard\n")
		fmt.Fprintf(os.Stderr, "  paste     Open the URLs in the clipboard as tabs\n")
		fmt.Fprintf(os.Stderr, "  popup     Interactive copy and paste\n")
		fmt.Fprintf(os.Stderr, "  notes     Open the release notes\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  tabcopy copy                  # Current window\n")
		fmt.Fprintf(os.Stderr, "  tabcopy copy -all\n")
		fmt.Fprintf(os.Stderr, "  tabcopy copy -window 2\n")
		fmt.Fprintf(os.Stderr, "  tabcopy paste -intelligent\n")
		fmt.Fprintf(os.Stderr, "  echo '{\"id\":\"1\",\"action\":\"copy\",\"allWindows\":true}' | tabcopy serve\n")

		if dir, err := logging.GetLogDirectory(); err == nil {
			fmt.Fprintf(os.Stderr, "\nLogs are written to %s\n", dir)
		}
	}

	flag.Parse()

	if flag.NArg() > 0 {
		opts.Command = flag.Arg(0)
		opts.Args = flag.Args()[1:]
	}
	return opts
}

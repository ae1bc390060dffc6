package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/entrhq/tabcopy/pkg/browser"
	"github.com/entrhq/tabcopy/pkg/bus"
	"github.com/entrhq/tabcopy/pkg/clipboard"
	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/lifecycle"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/offscreen"
	"github.com/entrhq/tabcopy/pkg/popup"
	"github.com/entrhq/tabcopy/pkg/relay"
	"github.com/entrhq/tabcopy/pkg/types"
)

// app is the wired set of components one command runs against.
type app struct {
	log        *logging.Logger
	host       *browser.Host
	supervisor *relay.Supervisor
	lifecycle  *lifecycle.Lifecycle
}

// newApp builds every component from cfg. The caller must call close.
func newApp(cfg *config.Config) (*app, error) {
	logger, err := logging.NewLogger("tabcopy")
	if err != nil {
		logger.Warnf("file logging unavailable: %v", err)
	}
	logger.SetQuiet(cfg.Logging.Quiet())
	logger.Infof("tabcopy v%s starting, session %s", version, logger.SessionID())

	b := bus.New(logger.With("bus"))
	clip := clipboard.NewSystem()

	documents := offscreen.NewLocalHost(b, clip, logger.With("offscreen"))
	helper, err := offscreen.NewManager(documents, cfg.Helper, logger.With("offscreen"))
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to create helper manager: %w", err)
	}

	host := browser.NewHost(cfg.Browser, logger.With("browser"))
	if err := host.Initialize(); err != nil {
		logger.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	supervisor, err := relay.NewSupervisor(host, helper, b, cfg.Copy, logger.With("relay"))
	if err != nil {
		_ = host.Shutdown()
		logger.Close()
		return nil, err
	}

	notifier := lifecycle.NewLogNotifier(logger.With("notice"))
	hooks := lifecycle.New(helper, host, notifier, cfg.Notice, logger.With("lifecycle"))

	return &app{
		log:        logger,
		host:       host,
		supervisor: supervisor,
		lifecycle:  hooks,
	}, nil
}

// close waits for pending clipboard writes and releases the browser.
func (a *app) close() {
	a.supervisor.Wait()
	if err := a.host.Shutdown(); err != nil {
		a.log.Warnf("browser shutdown: %v", err)
	}
	a.log.Close()
}

// run executes the command named in opts.
func run(ctx context.Context, cfg *config.Config, opts *Options) error {
	command, err := parseCommand(opts.Command, opts.Args)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	if err := a.lifecycle.OnStartup(ctx); err != nil {
		a.log.Warnf("%v", err)
	}
	if opts.PreviousVersion != "" {
		if err := a.lifecycle.OnInstalled(ctx, lifecycle.ReasonUpdate, opts.PreviousVersion, version); err != nil {
			a.log.Warnf("%v", err)
		}
	}

	switch opts.Command {
	case "serve":
		return a.supervisor.Serve(ctx, os.Stdin, os.Stdout)
	case "popup":
		return popup.Run(ctx, a.supervisor)
	case "notes":
		return a.lifecycle.OnNoticeClicked(ctx, lifecycle.UpdateNoticeID)
	default:
		result := a.supervisor.Dispatch(ctx, command)
		return report(os.Stdout, result)
	}
}

// parseCommand validates the command name and parses its flags. It returns
// the relay command for copy and paste, nil otherwise.
func parseCommand(name string, args []string) (types.Command, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	switch name {
	case "copy":
		all := fs.Bool("all", false, "Copy the tabs of every window")
		window := fs.Int("window", 0, "Copy the tabs of this window id")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		windowSet := false
		fs.Visit(func(f *flag.Flag) {
			if f.Name == "window" {
				windowSet = true
			}
		})
		return copyCommand(*all, *window, windowSet)

	case "paste":
		intelligent := fs.Bool("intelligent", false, "Find URLs anywhere in the clipboard text")
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		mode := types.ModeLineSplit
		if *intelligent {
			mode = types.ModeRegexExtract
		}
		return types.PasteCommand{Mode: mode}, nil

	case "serve", "popup", "notes":
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown command %q", name)
	}
}

// copyCommand builds the copy scope. A window id given on the command line
// must be positive; without one the current window is copied.
func copyCommand(all bool, window int, windowSet bool) (types.CopyCommand, error) {
	switch {
	case windowSet && window < 1:
		return types.CopyCommand{}, fmt.Errorf("invalid -window %d: window ids start at 1", window)
	case all:
		return types.CopyCommand{Scope: types.AllWindows()}, nil
	case windowSet:
		return types.CopyCommand{Scope: types.SingleWindow(window)}, nil
	default:
		return types.CopyCommand{Scope: types.CurrentWindow()}, nil
	}
}

// report prints result as a response envelope and turns failure into an error.
func report(w io.Writer, result types.RelayResult) error {
	data, err := json.Marshal(types.NewResponse("", result))
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(w, string(data))

	if !result.Success {
		return errors.New(result.ErrorMessage)
	}
	return nil
}

// Package relay implements the supervisor side of the clipboard relay.
//
// The supervisor turns copy and paste commands into tab lookups, tab
// creation and clipboard operations. It never touches the clipboard: every
// read and write is forwarded over the bus to the helper document, which is
// (re)created on demand before each operation.
//
// Copy does not wait for the clipboard write. The write runs as a detached
// task whose failures are only logged, so the caller learns how many tabs
// were formatted without waiting on the helper. Paste waits for the helper's
// paste-result reply; a helper that never answers stalls that paste until
// the caller's context ends.
package relay

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/tabcopy/pkg/bus"
	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/extract"
	"github.com/entrhq/tabcopy/pkg/format"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
)

// Host is the browser the supervisor reads tabs from and opens tabs in.
type Host interface {
	// AllTabs lists the tabs of every open window.
	AllTabs(ctx context.Context) ([]types.TabDescriptor, error)

	// WindowTabs lists the tabs of one window.
	WindowTabs(ctx context.Context, windowID int) ([]types.TabDescriptor, error)

	// CurrentWindow returns the id of the window the user is working in.
	CurrentWindow(ctx context.Context) (int, error)

	// OpenTab opens url in a new tab.
	OpenTab(ctx context.Context, url string) error
}

// Helper makes sure the clipboard helper document is alive.
type Helper interface {
	EnsureReady(ctx context.Context) error
}

// Supervisor handles copy and paste commands.
type Supervisor struct {
	host   Host
	helper Helper
	bus    *bus.Bus
	cfg    config.CopyConfig
	log    *logging.Logger

	mu      sync.Mutex
	pending map[string]*pendingRead

	tasks sync.WaitGroup
}

// NewSupervisor creates a supervisor and attaches it to the bus as the
// background target.
func NewSupervisor(host Host, helper Helper, b *bus.Bus, cfg config.CopyConfig, log *logging.Logger) (*Supervisor, error) {
	s := &Supervisor{
		host:    host,
		helper:  helper,
		bus:     b,
		cfg:     cfg,
		log:     log,
		pending: make(map[string]*pendingRead),
	}

	if err := b.Register(types.TargetBackground, s.handleRelay); err != nil {
		return nil, fmt.Errorf("failed to attach supervisor: %w", err)
	}
	return s, nil
}

// Dispatch runs a command and returns its single result.
func (s *Supervisor) Dispatch(ctx context.Context, cmd types.Command) types.RelayResult {
	switch c := cmd.(type) {
	case types.CopyCommand:
		return s.HandleCopy(ctx, c.Scope)
	case types.PasteCommand:
		return s.HandlePaste(ctx, c.Mode)
	default:
		s.log.Warnf("rejected command %T", cmd)
		return types.Failed(fmt.Sprintf("unsupported command %T", cmd))
	}
}

// HandleCopy copies the URLs of the tabs in scope to the clipboard.
// The count reflects the formatted tabs; the write itself is not awaited.
func (s *Supervisor) HandleCopy(ctx context.Context, scope types.Scope) (result types.RelayResult) {
	defer s.recoverInto(&result, "copy")

	tabs, err := s.resolveTabs(ctx, scope)
	if err != nil {
		s.log.Errorf("copy failed: %v", err)
		return types.Failed(err.Error())
	}

	payload := types.ClipboardPayload{
		Text:         format.ToText(tabs),
		ExtendedMime: s.cfg.ExtendedMime,
	}
	s.detach(ctx, "clipboard write", func(ctx context.Context) error {
		return s.writeClipboard(ctx, payload)
	})

	s.log.Infof("copied %d tabs from %s", len(tabs), scope)
	return types.Succeeded(len(tabs))
}

// HandlePaste opens a tab for every URL found in the clipboard.
func (s *Supervisor) HandlePaste(ctx context.Context, mode types.PasteMode) (result types.RelayResult) {
	defer s.recoverInto(&result, "paste")

	text, err := s.readClipboard(ctx)
	if err != nil {
		// Indistinguishable from an empty clipboard for the user
		s.log.Warnf("clipboard read unavailable: %v", err)
		text = ""
	}

	urls := extract.Extract(text, mode)
	if len(urls) == 0 {
		s.log.Infof("paste (%s): %v", mode, ErrNoURLFound)
		return types.Failed(NoURLFoundMessage)
	}

	opened := 0
	for _, url := range urls {
		if err := s.openTab(ctx, url); err != nil {
			s.log.Errorf("%v", err)
			continue
		}
		opened++
	}

	s.log.Infof("opened %d of %d URLs", opened, len(urls))
	return types.Succeeded(opened)
}

func (s *Supervisor) resolveTabs(ctx context.Context, scope types.Scope) ([]types.TabDescriptor, error) {
	var (
		tabs []types.TabDescriptor
		err  error
	)

	switch {
	case scope.Kind == types.ScopeAllWindows:
		tabs, err = s.host.AllTabs(ctx)
	case scope.WindowID != nil:
		tabs, err = s.host.WindowTabs(ctx, *scope.WindowID)
	default:
		var windowID int
		windowID, err = s.host.CurrentWindow(ctx)
		if err != nil {
			return nil, newError(KindResolution, "failed to determine current window: %w", err)
		}
		tabs, err = s.host.WindowTabs(ctx, windowID)
	}

	if err != nil {
		return nil, newError(KindResolution, "failed to list tabs for %s: %w", scope, err)
	}
	return tabs, nil
}

func (s *Supervisor) writeClipboard(ctx context.Context, payload types.ClipboardPayload) error {
	if err := s.helper.EnsureReady(ctx); err != nil {
		return newError(KindHelperUnavailable, "helper unavailable for write: %w", err)
	}
	if err := s.bus.Send(ctx, types.NewCopyMessage(payload)); err != nil {
		return newError(KindHelperUnavailable, "failed to send write to helper: %w", err)
	}
	return nil
}

func (s *Supervisor) openTab(ctx context.Context, url string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newError(KindTabCreation, "opening %s panicked: %v", url, r)
		}
	}()

	if err := s.host.OpenTab(ctx, url); err != nil {
		return newError(KindTabCreation, "failed to open %s: %w", url, err)
	}
	return nil
}

// recoverInto converts a panic in a command handler into a failed result so
// the listener keeps serving.
func (s *Supervisor) recoverInto(result *types.RelayResult, op string) {
	if r := recover(); r != nil {
		err := newError(KindInternal, "%s panicked: %v", op, r)
		s.log.Errorf("[%s] %v", err.Kind, err)
		*result = types.Failed(fmt.Sprintf("internal error during %s", op))
	}
}

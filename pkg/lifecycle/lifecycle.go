// Package lifecycle reacts to install, update and startup events.
package lifecycle

import (
	"context"
	"fmt"
	"sync"

	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/logging"
)

// InstallReason says why OnInstalled fired.
type InstallReason string

const (
	ReasonInstall InstallReason = "install"
	ReasonUpdate  InstallReason = "update"
)

// UpdateNoticeID identifies the update notification.
const UpdateNoticeID = "tabcopy-update"

// Notice is a user visible notification.
type Notice struct {
	ID      string
	Title   string
	Message string
}

// Notifier displays notices.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// Opener opens a URL in a new tab.
type Opener interface {
	OpenTab(ctx context.Context, url string) error
}

// Helper is the clipboard helper brought up at startup.
type Helper interface {
	EnsureReady(ctx context.Context) error
}

// Lifecycle wires the startup and update hooks.
type Lifecycle struct {
	helper   Helper
	opener   Opener
	notifier Notifier
	cfg      config.NoticeConfig
	log      *logging.Logger

	mu       sync.Mutex
	notified map[string]bool
}

// New creates the lifecycle hooks.
func New(helper Helper, opener Opener, notifier Notifier, cfg config.NoticeConfig, log *logging.Logger) *Lifecycle {
	return &Lifecycle{
		helper:   helper,
		opener:   opener,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		notified: make(map[string]bool),
	}
}

// OnStartup makes sure the clipboard helper exists before the first command.
func (l *Lifecycle) OnStartup(ctx context.Context) error {
	if err := l.helper.EnsureReady(ctx); err != nil {
		return fmt.Errorf("helper not ready at startup: %w", err)
	}
	l.log.Debugf("helper ready at startup")
	return nil
}

// OnInstalled shows the update notice once per version when an update
// changed the version. Fresh installs show nothing.
func (l *Lifecycle) OnInstalled(ctx context.Context, reason InstallReason, previous, current string) error {
	if reason != ReasonUpdate || !l.cfg.Enabled {
		return nil
	}
	if previous == "" || previous == current {
		return nil
	}

	l.mu.Lock()
	if l.notified[current] {
		l.mu.Unlock()
		return nil
	}
	l.notified[current] = true
	l.mu.Unlock()

	notice := Notice{
		ID:      UpdateNoticeID,
		Title:   fmt.Sprintf("tabcopy updated to %s", current),
		Message: fmt.Sprintf("Updated from %s. Open the notice to see what changed.", previous),
	}
	if err := l.notifier.Notify(ctx, notice); err != nil {
		return fmt.Errorf("failed to show update notice: %w", err)
	}
	l.log.Infof("update notice shown: %s -> %s", previous, current)
	return nil
}

// OnNoticeClicked opens the configured info URL for the update notice.
func (l *Lifecycle) OnNoticeClicked(ctx context.Context, id string) error {
	if id != UpdateNoticeID {
		return nil
	}
	if err := l.opener.OpenTab(ctx, l.cfg.URL); err != nil {
		return fmt.Errorf("failed to open %s: %w", l.cfg.URL, err)
	}
	return nil
}

// LogNotifier writes notices to a logger.
type LogNotifier struct {
	log *logging.Logger
}

// NewLogNotifier creates a notifier backed by log.
func NewLogNotifier(log *logging.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify logs the notice.
func (n *LogNotifier) Notify(_ context.Context, notice Notice) error {
	n.log.Infof("[%s] %s: %s", notice.ID, notice.Title, notice.Message)
	return nil
}

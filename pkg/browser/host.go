package browser

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/playwright-community/playwright-go"
)

// Host exposes the tabs of a Chromium instance driven through Playwright.
// Each browser context is reported as one window; window ids start at 1 in
// the order Playwright lists the contexts.
type Host struct {
	mu          sync.Mutex
	cfg         config.BrowserConfig
	log         *logging.Logger
	playwright  *playwright.Playwright
	browser     playwright.Browser
	initialized bool
}

// NewHost creates a host. Initialize must be called before use.
func NewHost(cfg config.BrowserConfig, log *logging.Logger) *Host {
	return &Host{
		cfg: cfg,
		log: log,
	}
}

// Initialize starts Playwright and connects to or launches the browser.
func (h *Host) Initialize() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.initialized {
		return nil
	}

	// Keep Playwright's driver output off the serve transport
	opts := &playwright.RunOptions{
		Verbose: false,
		Stdout:  io.Discard,
		Stderr:  io.Discard,
	}

	if err := playwright.Install(opts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(opts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := h.connect(pw)
	if err != nil {
		_ = pw.Stop()
		return err
	}

	h.playwright = pw
	h.browser = browser
	h.initialized = true
	return nil
}

func (h *Host) connect(pw *playwright.Playwright) (playwright.Browser, error) {
	if h.cfg.CDPEndpoint != "" {
		h.log.Infof("connecting to browser at %s", h.cfg.CDPEndpoint)
		browser, err := pw.Chromium.ConnectOverCDP(h.cfg.CDPEndpoint)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to %s: %w", h.cfg.CDPEndpoint, err)
		}
		return browser, nil
	}

	headless := h.cfg.Headless
	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: &headless,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	// A launched browser starts without windows
	if _, err := browser.NewContext(); err != nil {
		browser.Close()
		return nil, fmt.Errorf("failed to create window: %w", err)
	}
	return browser, nil
}

// AllTabs lists the tabs of every window.
func (h *Host) AllTabs(ctx context.Context) ([]types.TabDescriptor, error) {
	windows, err := h.windows(ctx)
	if err != nil {
		return nil, err
	}

	var tabs []types.TabDescriptor
	for i, window := range windows {
		tabs = append(tabs, snapshot(windowID(i), pageViews(window.Pages()))...)
	}
	return tabs, nil
}

// WindowTabs lists the tabs of one window.
func (h *Host) WindowTabs(ctx context.Context, id int) ([]types.TabDescriptor, error) {
	window, err := h.window(ctx, id)
	if err != nil {
		return nil, err
	}
	return snapshot(id, pageViews(window.Pages())), nil
}

// CurrentWindow returns the window holding the visible page, or the first window.
func (h *Host) CurrentWindow(ctx context.Context) (int, error) {
	windows, err := h.windows(ctx)
	if err != nil {
		return 0, err
	}
	if len(windows) == 0 {
		return 0, fmt.Errorf("browser has no open window")
	}

	for i, window := range windows {
		for _, page := range window.Pages() {
			if isVisible(page) {
				return windowID(i), nil
			}
		}
	}
	return windowID(0), nil
}

// OpenTab opens url in a new page of the current window.
func (h *Host) OpenTab(ctx context.Context, url string) error {
	id, err := h.CurrentWindow(ctx)
	if err != nil {
		return err
	}
	window, err := h.window(ctx, id)
	if err != nil {
		return err
	}

	page, err := window.NewPage()
	if err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}

	return navigate(page, url, h.cfg.Timeout)
}

// Shutdown disconnects from the browser and stops Playwright.
// A browser reached over CDP is left running.
func (h *Host) Shutdown() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		return nil
	}

	if h.browser != nil {
		if err := h.browser.Close(); err != nil {
			h.log.Warnf("failed to close browser: %v", err)
		}
	}
	if err := h.playwright.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}

	h.initialized = false
	return nil
}

func (h *Host) windows(ctx context.Context) ([]playwright.BrowserContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.initialized {
		return nil, fmt.Errorf("browser host not initialized")
	}
	return h.browser.Contexts(), nil
}

func (h *Host) window(ctx context.Context, id int) (playwright.BrowserContext, error) {
	windows, err := h.windows(ctx)
	if err != nil {
		return nil, err
	}
	index, err := windowIndex(id, len(windows))
	if err != nil {
		return nil, err
	}
	return windows[index], nil
}

func pageViews(pages []playwright.Page) []pageView {
	views := make([]pageView, len(pages))
	for i, page := range pages {
		views[i] = page
	}
	return views
}

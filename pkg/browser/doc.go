// Package browser reaches real browser tabs through Playwright.
//
// Host implements the tab primitives the relay supervisor needs: listing
// tabs per window, finding the current window and opening new tabs. It
// either launches its own Chromium or attaches to a running one over the
// Chrome DevTools Protocol:
//
//	chromium --remote-debugging-port=9222
//
//	host := browser.NewHost(config.BrowserConfig{CDPEndpoint: "http://localhost:9222"}, log)
//	if err := host.Initialize(); err != nil { ... }
//	defer host.Shutdown()
//
// # Windows
//
// Playwright has no notion of OS windows. Every browser context is treated
// as one window and numbered from 1 in the order Playwright reports them.
// The current window is the first one holding a visible page.
package browser

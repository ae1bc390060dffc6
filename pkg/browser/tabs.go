package browser

import (
	"fmt"
	"time"

	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/playwright-community/playwright-go"
)

// visibilityScript reports whether the page is the selected tab of its window.
const visibilityScript = "() => document.visibilityState === 'visible'"

// pageView is the part of playwright.Page used to describe a tab.
type pageView interface {
	URL() string
	Title() (string, error)
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

// navigablePage is the part of playwright.Page used to open a URL.
type navigablePage interface {
	Goto(url string, options ...playwright.PageGotoOptions) (playwright.Response, error)
	Close(options ...playwright.PageCloseOptions) error
}

// navigate points a freshly opened page at url. A page whose navigation
// fails is closed so no blank tab is left behind.
func navigate(page navigablePage, url string, timeout time.Duration) error {
	// Do not wait for the page to load, only for navigation to start
	waitUntil := playwright.WaitUntilState("commit")
	gotoOpts := playwright.PageGotoOptions{WaitUntil: &waitUntil}
	if timeout > 0 {
		ms := float64(timeout.Milliseconds())
		gotoOpts.Timeout = &ms
	}

	if _, err := page.Goto(url, gotoOpts); err != nil {
		if closeErr := page.Close(); closeErr != nil {
			return fmt.Errorf("navigation to %s failed: %w (closing page: %v)", url, err, closeErr)
		}
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// snapshot describes the pages of one window in order.
func snapshot(id int, pages []pageView) []types.TabDescriptor {
	tabs := make([]types.TabDescriptor, 0, len(pages))
	for _, page := range pages {
		// Title errors leave an empty title, the URL is still worth copying
		title, _ := page.Title()
		tabs = append(tabs, types.TabDescriptor{
			URL:         page.URL(),
			Title:       title,
			WindowID:    id,
			Highlighted: isVisible(page),
		})
	}
	return tabs
}

func isVisible(page pageView) bool {
	visible, err := page.Evaluate(visibilityScript)
	if err != nil {
		return false
	}
	v, ok := visible.(bool)
	return ok && v
}

func windowID(index int) int {
	return index + 1
}

func windowIndex(id, count int) (int, error) {
	if id < 1 || id > count {
		return 0, fmt.Errorf("no window with id %d (%d open)", id, count)
	}
	return id - 1, nil
}

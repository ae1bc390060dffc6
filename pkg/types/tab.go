package types

// TabDescriptor is a read-only snapshot of a browser tab as reported by the host.
type TabDescriptor struct {
	// URL is the address currently loaded in the tab.
	URL string `json:"url"`

	// Title is the document title of the tab.
	Title string `json:"title"`

	// WindowID identifies the window owning the tab.
	WindowID int `json:"windowId"`

	// Highlighted reports whether the tab is selected in its window.
	Highlighted bool `json:"highlighted"`
}

// ClipboardPayload is the text handed to the clipboard helper for one write.
type ClipboardPayload struct {
	Text         string `json:"text"`
	ExtendedMime bool   `json:"extendedMime"`
}

// RelayResult is the outcome of a single command.
type RelayResult struct {
	Success      bool   `json:"success"`
	Count        int    `json:"count"`
	ErrorMessage string `json:"error,omitempty"`
}

// Succeeded creates a successful result carrying the number of tabs handled.
func Succeeded(count int) RelayResult {
	return RelayResult{Success: true, Count: count}
}

// Failed creates a failed result with a user-visible message.
func Failed(message string) RelayResult {
	return RelayResult{Success: false, ErrorMessage: message}
}

// HelperState describes the lifecycle of the clipboard helper document.
type HelperState string

const (
	HelperAbsent   HelperState = "absent"   // HelperAbsent means no helper document is alive.
	HelperStarting HelperState = "starting" // HelperStarting means a helper document is being created.
	HelperReady    HelperState = "ready"    // HelperReady means the helper document accepts relay messages.
)

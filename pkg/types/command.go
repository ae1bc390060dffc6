package types

import "fmt"

// ScopeKind selects which windows a copy command reads tabs from.
type ScopeKind string

const (
	ScopeAllWindows   ScopeKind = "all_windows"   // ScopeAllWindows targets every open window.
	ScopeSingleWindow ScopeKind = "single_window" // ScopeSingleWindow targets one window.
)

// Scope is the set of tabs a copy command operates on.
// A single-window scope without a window id targets the host's current window.
type Scope struct {
	Kind     ScopeKind
	WindowID *int
}

// AllWindows returns a scope covering every open window.
func AllWindows() Scope {
	return Scope{Kind: ScopeAllWindows}
}

// SingleWindow returns a scope covering the window with the given id.
func SingleWindow(id int) Scope {
	return Scope{Kind: ScopeSingleWindow, WindowID: &id}
}

// CurrentWindow returns a scope covering whichever window the host considers current.
func CurrentWindow() Scope {
	return Scope{Kind: ScopeSingleWindow}
}

func (s Scope) String() string {
	switch {
	case s.Kind == ScopeAllWindows:
		return "all windows"
	case s.WindowID != nil:
		return fmt.Sprintf("window %d", *s.WindowID)
	default:
		return "current window"
	}
}

// PasteMode selects how clipboard text is turned into URLs.
type PasteMode string

const (
	ModeLineSplit    PasteMode = "line_split"    // ModeLineSplit treats every non-empty line as a URL.
	ModeRegexExtract PasteMode = "regex_extract" // ModeRegexExtract scans the text for URL-shaped substrings.
)

// Command is a user action handled by the relay supervisor.
// The concrete types are CopyCommand and PasteCommand.
type Command interface {
	Action() CommandAction
}

// CopyCommand copies the URLs of the tabs in Scope to the clipboard.
type CopyCommand struct {
	Scope Scope
}

// Action returns ActionCopy.
func (CopyCommand) Action() CommandAction { return ActionCopy }

// PasteCommand opens every URL found in the clipboard.
type PasteCommand struct {
	Mode PasteMode
}

// Action returns ActionPaste.
func (PasteCommand) Action() CommandAction { return ActionPaste }

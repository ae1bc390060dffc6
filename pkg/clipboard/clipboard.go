// Package clipboard provides the clipboard backends used by the helper document.
package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrHTMLUnsupported is returned when a backend wrote only the plain text flavour.
var ErrHTMLUnsupported = errors.New("html clipboard flavour not supported on this system")

// Clipboard reads and writes the system clipboard.
type Clipboard interface {
	// ReadText returns the current plain text contents.
	ReadText() (string, error)

	// WriteText replaces the contents with plain text.
	WriteText(text string) error

	// WriteHTML replaces the contents with an HTML flavour and its plain text fallback.
	WriteHTML(html, text string) error
}

// System implements Clipboard using github.com/atotto/clipboard.
// atotto only owns the text flavour, so HTML is never published and the
// plain text always stays readable.
type System struct {
	readAll  func() (string, error)
	writeAll func(text string) error
}

// NewSystem constructs the system clipboard backend.
func NewSystem() *System {
	return &System{
		readAll:  clipboard.ReadAll,
		writeAll: clipboard.WriteAll,
	}
}

// ReadText reads the clipboard.
func (s *System) ReadText() (string, error) {
	text, err := s.readAll()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// WriteText writes text to the clipboard.
func (s *System) WriteText(text string) error {
	if err := s.writeAll(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// WriteHTML writes the plain text and reports ErrHTMLUnsupported.
// xclip and wl-copy serve a single target per selection owner, so offering
// text/html through them would drop the text flavour paste reads.
func (s *System) WriteHTML(_, text string) error {
	if err := s.WriteText(text); err != nil {
		return err
	}
	return ErrHTMLUnsupported
}

// Memory is an in-process clipboard. It backs headless runs where no
// system clipboard exists.
type Memory struct {
	mu   sync.RWMutex
	text string
	html string
}

// NewMemory creates an empty in-process clipboard.
func NewMemory() *Memory {
	return &Memory{}
}

// ReadText returns the last written text.
func (m *Memory) ReadText() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.text, nil
}

// WriteText stores text and clears any HTML flavour.
func (m *Memory) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.html = ""
	return nil
}

// WriteHTML stores both flavours.
func (m *Memory) WriteHTML(html, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	m.html = html
	return nil
}

// HTML returns the last written HTML flavour.
func (m *Memory) HTML() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.html
}

var (
	_ Clipboard = (*System)(nil)
	_ Clipboard = (*Memory)(nil)
)

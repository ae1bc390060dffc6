package offscreen

import (
	"context"
	"errors"
	"strings"

	"github.com/entrhq/tabcopy/pkg/bus"
	"github.com/entrhq/tabcopy/pkg/clipboard"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
	"golang.org/x/net/html"
)

// Placeholder is written instead of an empty string; the clipboard is never
// set to empty text.
const Placeholder = " "

// Document is the helper context holding clipboard access.
// It answers copy and paste relay messages.
type Document struct {
	url  string
	clip clipboard.Clipboard
	bus  *bus.Bus
	log  *logging.Logger
}

// NewDocument creates a helper document. It receives nothing until its
// Handle method is registered on the bus.
func NewDocument(url string, clip clipboard.Clipboard, b *bus.Bus, log *logging.Logger) *Document {
	return &Document{
		url:  url,
		clip: clip,
		bus:  b,
		log:  log,
	}
}

// URL returns the document URL.
func (d *Document) URL() string {
	return d.url
}

// Handle processes one relay message addressed to the helper.
func (d *Document) Handle(ctx context.Context, msg types.RelayMessage) {
	switch msg.Action {
	case types.RelayCopy:
		d.Write(msg.Payload())

	case types.RelayPaste:
		text := d.Read()
		if err := d.bus.Send(ctx, types.NewPasteResultMessage(msg.ID, text)); err != nil {
			d.log.Errorf("failed to reply to paste %s: %v", msg.ID, err)
		}

	default:
		d.log.Warnf("ignoring unexpected relay action %q", msg.Action)
	}
}

// Write places the payload on the clipboard. Failures are logged only.
func (d *Document) Write(payload types.ClipboardPayload) {
	text := payload.Text
	if text == "" {
		text = Placeholder
	}

	if !payload.ExtendedMime {
		if err := d.clip.WriteText(text); err != nil {
			d.log.Errorf("clipboard write failed: %v", err)
			return
		}
		d.log.Debugf("wrote %d bytes of text to clipboard", len(text))
		return
	}

	err := d.clip.WriteHTML(htmlFlavour(text), text)
	switch {
	case errors.Is(err, clipboard.ErrHTMLUnsupported):
		d.log.Infof("%v, wrote %d bytes of plain text only", err, len(text))
	case err != nil:
		d.log.Errorf("clipboard html write failed: %v", err)
	default:
		d.log.Debugf("wrote %d bytes of text/html to clipboard", len(text))
	}
}

// Read returns the clipboard text, or "" when the clipboard is unreadable.
func (d *Document) Read() string {
	text, err := d.clip.ReadText()
	if err != nil {
		d.log.Warnf("clipboard read failed: %v", err)
		return ""
	}
	return text
}

// htmlFlavour renders text as escaped HTML, one line per <br>.
func htmlFlavour(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>\n")
}

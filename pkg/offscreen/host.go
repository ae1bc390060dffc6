package offscreen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/tabcopy/pkg/bus"
	"github.com/entrhq/tabcopy/pkg/clipboard"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
)

// ErrDocumentExists is returned by CreateDocument when a helper document is already alive.
var ErrDocumentExists = errors.New("only a single offscreen document may be created")

// Reason is a capability requested for a helper document.
type Reason string

// ReasonClipboard requests clipboard access.
const ReasonClipboard Reason = "CLIPBOARD"

// ContextType classifies an execution context reported by the host.
type ContextType string

const (
	ContextBackground ContextType = "BACKGROUND"         // ContextBackground is the supervisor itself.
	ContextOffscreen  ContextType = "OFFSCREEN_DOCUMENT" // ContextOffscreen is a helper document.
)

// ContextInfo describes one live execution context.
type ContextInfo struct {
	Type        ContextType
	DocumentURL string
}

// DocumentSpec is the request passed to the host when creating a helper document.
type DocumentSpec struct {
	URL           string
	Reasons       []Reason
	Justification string
}

// DocumentHost exposes the host primitives for enumerating contexts and
// creating helper documents.
type DocumentHost interface {
	// Contexts lists the live contexts of the given type.
	Contexts(ctx context.Context, contextType ContextType) ([]ContextInfo, error)

	// CreateDocument creates a helper document and returns once it accepts messages.
	CreateDocument(ctx context.Context, spec DocumentSpec) error
}

// LocalHost runs helper documents in-process, attached to a bus.
// At most one document is alive at a time, matching the browser restriction.
type LocalHost struct {
	mu      sync.Mutex
	bus     *bus.Bus
	clip    clipboard.Clipboard
	log     *logging.Logger
	doc     *Document
	created int
}

// NewLocalHost creates a host whose documents use clip for clipboard access.
func NewLocalHost(b *bus.Bus, clip clipboard.Clipboard, log *logging.Logger) *LocalHost {
	return &LocalHost{
		bus:  b,
		clip: clip,
		log:  log,
	}
}

// Contexts lists the live contexts of contextType.
func (h *LocalHost) Contexts(ctx context.Context, contextType ContextType) ([]ContextInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if contextType != ContextOffscreen || h.doc == nil {
		return nil, nil
	}
	return []ContextInfo{{Type: ContextOffscreen, DocumentURL: h.doc.URL()}}, nil
}

// CreateDocument starts a helper document and registers it on the bus.
func (h *LocalHost) CreateDocument(ctx context.Context, spec DocumentSpec) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if spec.URL == "" {
		return fmt.Errorf("document url is required")
	}
	if spec.Justification == "" {
		return fmt.Errorf("justification is required")
	}
	if !hasReason(spec.Reasons, ReasonClipboard) {
		return fmt.Errorf("document %s does not request %s", spec.URL, ReasonClipboard)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.doc != nil {
		return ErrDocumentExists
	}

	doc := NewDocument(spec.URL, h.clip, h.bus, h.log)
	if err := h.bus.Register(types.TargetOffscreen, doc.Handle); err != nil {
		return fmt.Errorf("failed to attach document: %w", err)
	}

	h.doc = doc
	h.created++
	h.log.Debugf("created helper document %s (%s)", spec.URL, spec.Justification)
	return nil
}

// CloseDocument tears the helper document down, as the browser may do at any time.
func (h *LocalHost) CloseDocument() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.doc == nil {
		return
	}
	h.bus.Unregister(types.TargetOffscreen)
	h.log.Debugf("closed helper document %s", h.doc.URL())
	h.doc = nil
}

// Created returns how many documents this host has created.
func (h *LocalHost) Created() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.created
}

func hasReason(reasons []Reason, want Reason) bool {
	for _, r := range reasons {
		if r == want {
			return true
		}
	}
	return false
}

var _ DocumentHost = (*LocalHost)(nil)

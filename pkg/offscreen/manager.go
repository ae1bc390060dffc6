// Package offscreen manages the clipboard helper document.
//
// The supervisor cannot touch the clipboard itself. It delegates every read
// and write to a helper document that the host creates on demand and may tear
// down at any time. Manager.EnsureReady must therefore be called before each
// relay operation; it derives the helper state from the host every time
// instead of caching it.
package offscreen

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/gobwas/glob"
)

// Manager creates the helper document lazily and at most once at a time.
type Manager struct {
	host    DocumentHost
	spec    DocumentSpec
	matcher glob.Glob
	log     *logging.Logger

	// mu makes the check-then-create sequence in EnsureReady atomic.
	// A caller arriving while the helper is Starting waits here and then
	// observes the created document.
	mu sync.Mutex

	stateMu sync.RWMutex
	state   types.HelperState
}

// NewManager creates a manager for the helper described by cfg.
func NewManager(host DocumentHost, cfg config.HelperConfig, log *logging.Logger) (*Manager, error) {
	matcher, err := cfg.Matcher()
	if err != nil {
		return nil, err
	}

	return &Manager{
		host: host,
		spec: DocumentSpec{
			URL:           cfg.Document,
			Reasons:       []Reason{ReasonClipboard},
			Justification: cfg.Justification,
		},
		matcher: matcher,
		log:     log,
		state:   types.HelperAbsent,
	}, nil
}

// EnsureReady makes sure exactly one helper document is alive.
func (m *Manager) EnsureReady(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	alive, err := m.alive(ctx)
	if err != nil {
		m.setState(types.HelperAbsent)
		return fmt.Errorf("failed to query helper document: %w", err)
	}
	if alive {
		m.setState(types.HelperReady)
		return nil
	}

	m.setState(types.HelperStarting)
	m.log.Debugf("creating helper document %s", m.spec.URL)

	err = m.host.CreateDocument(ctx, m.spec)
	if errors.Is(err, ErrDocumentExists) {
		// Created behind our back by another process of the host
		m.log.Warnf("helper document already existed at creation time")
		err = nil
	}
	if err != nil {
		m.setState(types.HelperAbsent)
		return fmt.Errorf("failed to create helper document: %w", err)
	}

	m.setState(types.HelperReady)
	return nil
}

// State returns the state observed by the last EnsureReady call.
// It may be stale: the host can close the helper at any time.
func (m *Manager) State() types.HelperState {
	m.stateMu.RLock()
	defer m.stateMu.RUnlock()
	return m.state
}

func (m *Manager) setState(state types.HelperState) {
	m.stateMu.Lock()
	defer m.stateMu.Unlock()
	m.state = state
}

func (m *Manager) alive(ctx context.Context) (bool, error) {
	contexts, err := m.host.Contexts(ctx, ContextOffscreen)
	if err != nil {
		return false, err
	}
	for _, c := range contexts {
		if m.matcher.Match(c.DocumentURL) {
			return true, nil
		}
	}
	return false, nil
}

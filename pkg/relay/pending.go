package relay

import (
	"context"

	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/google/uuid"
)

// pendingRead tracks a paste request waiting for the helper's paste-result
type pendingRead struct {
	id    string
	reply chan string
}

// readClipboard asks the helper for the clipboard text and waits for the reply.
// There is no timeout: only ctx ends the wait.
func (s *Supervisor) readClipboard(ctx context.Context) (string, error) {
	if err := s.helper.EnsureReady(ctx); err != nil {
		return "", newError(KindHelperUnavailable, "helper unavailable for read: %w", err)
	}

	id := uuid.New().String()
	reply := make(chan string, 1)

	s.setupPendingRead(id, reply)
	defer s.cleanupPendingRead(id)

	if err := s.bus.Send(ctx, types.NewPasteMessage(id)); err != nil {
		return "", newError(KindHelperUnavailable, "failed to send read to helper: %w", err)
	}

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case text := <-reply:
		return text, nil
	}
}

// handleRelay receives messages addressed to the background target
func (s *Supervisor) handleRelay(_ context.Context, msg types.RelayMessage) {
	if msg.Action != types.RelayPasteResult {
		s.log.Warnf("ignoring relay action %q", msg.Action)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pr, ok := s.pending[msg.ID]
	if !ok {
		// Reader already gave up
		s.log.Debugf("dropping paste-result %s with no pending read", msg.ID)
		return
	}

	// Non-blocking: a duplicate reply must not wedge the bus goroutine
	select {
	case pr.reply <- msg.Text:
	default:
	}
}

func (s *Supervisor) setupPendingRead(id string, reply chan string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[id] = &pendingRead{id: id, reply: reply}
}

func (s *Supervisor) cleanupPendingRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, id)
}

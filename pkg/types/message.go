package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownAction is returned when an envelope carries an action tag the receiver does not handle.
var ErrUnknownAction = errors.New("unknown action")

// CommandAction tags a command envelope.
type CommandAction string

const (
	ActionCopy  CommandAction = "copy"  // ActionCopy requests a copy of tab URLs.
	ActionPaste CommandAction = "paste" // ActionPaste requests opening clipboard URLs.
)

// WindowRef names a window in a copy request. An empty object means the current window.
type WindowRef struct {
	ID *int `json:"id,omitempty"`
}

// Request is the wire form of a command sent by the interactive surface.
type Request struct {
	// ID is echoed back in the matching Response.
	ID string `json:"id,omitempty"`

	Action CommandAction `json:"action"`

	// Window and AllWindows apply to copy requests.
	Window     *WindowRef `json:"window,omitempty"`
	AllWindows bool       `json:"allWindows,omitempty"`

	// Intelligent selects regex extraction for paste requests.
	Intelligent bool `json:"intelligent,omitempty"`
}

// Response is the wire form of a RelayResult.
type Response struct {
	ID      string `json:"id,omitempty"`
	Success bool   `json:"success"`
	Count   int    `json:"count,omitempty"`
	Error   string `json:"error,omitempty"`
}

// NewResponse converts a result into its wire form.
func NewResponse(id string, result RelayResult) Response {
	return Response{
		ID:      id,
		Success: result.Success,
		Count:   result.Count,
		Error:   result.ErrorMessage,
	}
}

// Command validates the request and converts it into a typed command.
func (r Request) Command() (Command, error) {
	switch r.Action {
	case ActionCopy:
		if r.AllWindows {
			return CopyCommand{Scope: AllWindows()}, nil
		}
		if r.Window != nil && r.Window.ID != nil {
			return CopyCommand{Scope: SingleWindow(*r.Window.ID)}, nil
		}
		return CopyCommand{Scope: CurrentWindow()}, nil

	case ActionPaste:
		mode := ModeLineSplit
		if r.Intelligent {
			mode = ModeRegexExtract
		}
		return PasteCommand{Mode: mode}, nil

	case "":
		return nil, fmt.Errorf("missing action: %w", ErrUnknownAction)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, r.Action)
	}
}

// DecodeRequest parses a JSON command envelope.
func DecodeRequest(data []byte) (Request, Command, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return req, nil, fmt.Errorf("failed to decode request: %w", err)
	}

	cmd, err := req.Command()
	if err != nil {
		return req, nil, err
	}
	return req, cmd, nil
}

// Target names the context a relay message is delivered to.
type Target string

const (
	TargetOffscreen  Target = "offscreen"  // TargetOffscreen is the clipboard helper document.
	TargetBackground Target = "background" // TargetBackground is the relay supervisor.
)

// RelayAction tags a relay message.
type RelayAction string

const (
	RelayCopy        RelayAction = "copy"         // RelayCopy asks the helper to write Text to the clipboard.
	RelayPaste       RelayAction = "paste"        // RelayPaste asks the helper to read the clipboard.
	RelayPasteResult RelayAction = "paste-result" // RelayPasteResult carries clipboard text back to the supervisor.
)

// RelayMessage is exchanged between the supervisor and the clipboard helper.
type RelayMessage struct {
	// ID correlates a paste request with its paste-result reply.
	ID string `json:"id,omitempty"`

	Target Target      `json:"target"`
	Action RelayAction `json:"action"`

	Text         string `json:"text,omitempty"`
	ExtendedMime bool   `json:"extendedMime,omitempty"`
}

// Validate checks that the target and action form a known pair.
func (m RelayMessage) Validate() error {
	switch m.Target {
	case TargetOffscreen:
		if m.Action == RelayCopy || m.Action == RelayPaste {
			return nil
		}
	case TargetBackground:
		if m.Action == RelayPasteResult {
			return nil
		}
	default:
		return fmt.Errorf("unknown target %q", m.Target)
	}
	return fmt.Errorf("%w: %q for target %q", ErrUnknownAction, m.Action, m.Target)
}

// Payload returns the clipboard payload carried by a copy message.
func (m RelayMessage) Payload() ClipboardPayload {
	return ClipboardPayload{Text: m.Text, ExtendedMime: m.ExtendedMime}
}

// NewCopyMessage creates a helper write request.
func NewCopyMessage(payload ClipboardPayload) RelayMessage {
	return RelayMessage{
		Target:       TargetOffscreen,
		Action:       RelayCopy,
		Text:         payload.Text,
		ExtendedMime: payload.ExtendedMime,
	}
}

// NewPasteMessage creates a helper read request correlated by id.
func NewPasteMessage(id string) RelayMessage {
	return RelayMessage{
		ID:     id,
		Target: TargetOffscreen,
		Action: RelayPaste,
	}
}

// NewPasteResultMessage creates the reply to a paste request.
func NewPasteResultMessage(id, text string) RelayMessage {
	return RelayMessage{
		ID:     id,
		Target: TargetBackground,
		Action: RelayPasteResult,
		Text:   text,
	}
}

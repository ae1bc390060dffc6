package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Command
		wantErr error
	}{
		{
			name:  "copy all windows",
			input: `{"action":"copy","window":{},"allWindows":true}`,
			want:  CopyCommand{Scope: AllWindows()},
		},
		{
			name:  "copy specific window",
			input: `{"action":"copy","window":{"id":7},"allWindows":false}`,
			want:  CopyCommand{Scope: SingleWindow(7)},
		},
		{
			name:  "copy empty window falls back to current",
			input: `{"action":"copy","window":{}}`,
			want:  CopyCommand{Scope: CurrentWindow()},
		},
		{
			name:  "paste line split",
			input: `{"action":"paste","intelligent":false}`,
			want:  PasteCommand{Mode: ModeLineSplit},
		},
		{
			name:  "paste regex",
			input: `{"action":"paste","intelligent":true}`,
			want:  PasteCommand{Mode: ModeRegexExtract},
		},
		{
			name:    "unknown action",
			input:   `{"action":"cut"}`,
			wantErr: ErrUnknownAction,
		},
		{
			name:    "missing action",
			input:   `{}`,
			wantErr: ErrUnknownAction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cmd, err := DecodeRequest([]byte(tt.input))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cmd)
		})
	}
}

func TestDecodeRequest_InvalidJSON(t *testing.T) {
	_, _, err := DecodeRequest([]byte(`{"action":`))
	assert.Error(t, err)
}

func TestDecodeRequest_KeepsID(t *testing.T) {
	req, _, err := DecodeRequest([]byte(`{"id":"r1","action":"paste"}`))
	require.NoError(t, err)
	assert.Equal(t, "r1", req.ID)
}

func TestRelayMessage_Validate(t *testing.T) {
	valid := []RelayMessage{
		NewCopyMessage(ClipboardPayload{Text: "a"}),
		NewPasteMessage("id"),
		NewPasteResultMessage("id", "text"),
	}
	for _, msg := range valid {
		assert.NoError(t, msg.Validate(), "%+v", msg)
	}

	invalid := []RelayMessage{
		{Target: TargetOffscreen, Action: RelayPasteResult},
		{Target: TargetBackground, Action: RelayCopy},
		{Target: "sidebar", Action: RelayCopy},
	}
	for _, msg := range invalid {
		assert.Error(t, msg.Validate(), "%+v", msg)
	}
}

func TestScope_String(t *testing.T) {
	assert.Equal(t, "all windows", AllWindows().String())
	assert.Equal(t, "window 3", SingleWindow(3).String())
	assert.Equal(t, "current window", CurrentWindow().String())
}

func TestNewResponse(t *testing.T) {
	resp := NewResponse("x", Failed("boom"))
	assert.Equal(t, Response{ID: "x", Success: false, Error: "boom"}, resp)

	resp = NewResponse("", Succeeded(4))
	assert.Equal(t, Response{Success: true, Count: 4}, resp)
}

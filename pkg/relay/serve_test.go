package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/entrhq/tabcopy/pkg/config"
	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeResponses(t *testing.T, out string) map[string]types.Response {
	t.Helper()

	responses := make(map[string]types.Response)
	decoder := json.NewDecoder(strings.NewReader(out))
	for decoder.More() {
		var resp types.Response
		require.NoError(t, decoder.Decode(&resp))
		responses[resp.ID] = resp
	}
	return responses
}

func TestServe(t *testing.T) {
	h := newHarness(t, config.CopyConfig{})

	input := strings.Join([]string{
		`{"id":"c1","action":"copy","window":{"id":2},"allWindows":false}`,
		``,
		`{"id":"bad","action":"cut"}`,
		`not json`,
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, h.sup.Serve(context.Background(), strings.NewReader(input), &out))
	h.sup.Wait()

	responses := decodeResponses(t, out.String())
	require.Len(t, responses, 3)

	assert.Equal(t, types.Response{ID: "c1", Success: true, Count: 1}, responses["c1"])

	assert.False(t, responses["bad"].Success)
	assert.Contains(t, responses["bad"].Error, "unknown action")

	assert.False(t, responses[""].Success)
	assert.Contains(t, responses[""].Error, "failed to decode request")

	text, err := h.clip.ReadText()
	require.NoError(t, err)
	assert.Equal(t, "http://two.test/c\n", text)
}

func TestServe_PasteNoURL(t *testing.T) {
	h := newHarness(t, config.CopyConfig{})

	var out bytes.Buffer
	require.NoError(t, h.sup.Serve(context.Background(), strings.NewReader(`{"id":"p1","action":"paste","intelligent":true}`), &out))

	responses := decodeResponses(t, out.String())
	assert.Equal(t, types.Response{ID: "p1", Success: false, Error: NoURLFoundMessage}, responses["p1"])
}

func TestServe_StopsOnCancelledContext(t *testing.T) {
	h := newHarness(t, config.CopyConfig{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := h.sup.Serve(ctx, strings.NewReader(`{"action":"copy"}`), &out)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestServe_CancelWhileReadBlocks(t *testing.T) {
	h := newHarness(t, config.CopyConfig{})

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() {
		done <- h.sup.Serve(ctx, pr, &out)
	}()

	// Input stays open; only cancellation can end Serve
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}

func TestServe_ReadsUntilEOF(t *testing.T) {
	h := newHarness(t, config.CopyConfig{})

	pr, pw := io.Pipe()
	go func() {
		_, _ = io.WriteString(pw, `{"id":"c1","action":"copy","allWindows":true}`+"\n")
		pw.Close()
	}()

	var out bytes.Buffer
	require.NoError(t, h.sup.Serve(context.Background(), pr, &out))
	h.sup.Wait()

	responses := decodeResponses(t, out.String())
	assert.Equal(t, types.Response{ID: "c1", Success: true, Count: 3}, responses["c1"])
}

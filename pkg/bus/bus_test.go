package bus

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/entrhq/tabcopy/pkg/logging"
	"github.com/entrhq/tabcopy/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBus_SendDelivers(t *testing.T) {
	b := New(logging.Discard("bus"))

	received := make(chan types.RelayMessage, 1)
	require.NoError(t, b.Register(types.TargetOffscreen, func(_ context.Context, msg types.RelayMessage) {
		received <- msg
	}))

	msg := types.NewPasteMessage("abc")
	require.NoError(t, b.Send(context.Background(), msg))

	select {
	case got := <-received:
		assert.Equal(t, msg, got)
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestBus_NoReceiver(t *testing.T) {
	b := New(logging.Discard("bus"))

	err := b.Send(context.Background(), types.NewPasteMessage("abc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoReceiver))
}

func TestBus_RejectsInvalidMessage(t *testing.T) {
	b := New(logging.Discard("bus"))
	var calls int32
	require.NoError(t, b.Register(types.TargetOffscreen, func(context.Context, types.RelayMessage) {
		atomic.AddInt32(&calls, 1)
	}))

	err := b.Send(context.Background(), types.RelayMessage{Target: types.TargetOffscreen, Action: "cut"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrUnknownAction))

	b.Wait()
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestBus_DuplicateRegister(t *testing.T) {
	b := New(logging.Discard("bus"))
	handler := func(context.Context, types.RelayMessage) {}

	require.NoError(t, b.Register(types.TargetBackground, handler))
	assert.Error(t, b.Register(types.TargetBackground, handler))

	b.Unregister(types.TargetBackground)
	assert.False(t, b.Registered(types.TargetBackground))
	assert.NoError(t, b.Register(types.TargetBackground, handler))
}

func TestBus_HandlerPanicIsContained(t *testing.T) {
	b := New(logging.Discard("bus"))
	require.NoError(t, b.Register(types.TargetOffscreen, func(context.Context, types.RelayMessage) {
		panic("boom")
	}))

	require.NoError(t, b.Send(context.Background(), types.NewPasteMessage("1")))
	b.Wait()

	// The bus keeps working after a handler panic
	require.NoError(t, b.Send(context.Background(), types.NewPasteMessage("2")))
	b.Wait()
}

func TestBus_DeliveryIgnoresSenderCancellation(t *testing.T) {
	b := New(logging.Discard("bus"))

	done := make(chan error, 1)
	require.NoError(t, b.Register(types.TargetOffscreen, func(ctx context.Context, _ types.RelayMessage) {
		time.Sleep(10 * time.Millisecond)
		done <- ctx.Err()
	}))

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, b.Send(ctx, types.NewCopyMessage(types.ClipboardPayload{Text: "x"})))
	cancel()

	assert.NoError(t, <-done)
}

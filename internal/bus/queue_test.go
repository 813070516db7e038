package bus

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"main/internal/codec"
)

func TestQueuePublishAndDrain(t *testing.T) {
	q := NewQueue(8)

	for i := 0; i < 5; i++ {
		require.NoError(t, q.TryPublish(Event{Kind: codec.KindTick, Payload: []byte{byte(i)}}))
	}
	q.Close()

	var got []byte
	q.Run(context.Background(), func(e Event) {
		got = append(got, e.Payload[0])
	})
	require.Equal(t, []byte{0, 1, 2, 3, 4}, got)
}

func TestQueueFullDropsEvent(t *testing.T) {
	q := NewQueue(1)
	require.NoError(t, q.TryPublish(Event{Kind: codec.KindSignal}))
	require.ErrorIs(t, q.TryPublish(Event{Kind: codec.KindSignal}), ErrQueueFull)
}

func TestQueueClosedRejectsPublish(t *testing.T) {
	q := NewQueue(1)
	q.Close()
	q.Close() // idempotent
	require.ErrorIs(t, q.TryPublish(Event{}), ErrQueueClosed)
}

func TestQueueRunStopsOnContextCancel(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		q.Run(ctx, func(Event) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

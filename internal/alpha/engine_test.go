package alpha

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"main/internal/model"
)

// recordingStrategy detects overlapping OnTick invocations and records tick
// order without any internal locking.
type recordingStrategy struct {
	id       string
	inFlight atomic.Int32
	overlaps atomic.Int32
	seen     []int64
}

func (r *recordingStrategy) AlphaID() string { return r.id }
func (r *recordingStrategy) Initialize()     {}
func (r *recordingStrategy) Shutdown()       {}
func (r *recordingStrategy) IsActive() bool  { return true }

func (r *recordingStrategy) OnTick(tick model.Tick) (model.Signal, bool) {
	if r.inFlight.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	r.seen = append(r.seen, tick.TimestampNs)
	time.Sleep(time.Microsecond)
	r.inFlight.Add(-1)

	return model.Signal{
		AlphaID:     r.id,
		Symbol:      tick.Symbol,
		Signal:      0.5,
		Confidence:  1,
		TimestampNs: tick.TimestampNs,
	}, true
}

func TestEngineFanOutCopies(t *testing.T) {
	e := NewEngine(2, 64)
	e.AddAlpha(&recordingStrategy{id: "rec"})

	const consumers = 4
	var mu sync.Mutex
	var got []model.Signal
	for i := 0; i < consumers; i++ {
		e.RegisterSignalCallback(func(sig model.Signal) {
			mu.Lock()
			got = append(got, sig)
			mu.Unlock()
		})
	}

	require.True(t, e.Start())
	e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: 1})
	e.Stop()

	require.Len(t, got, consumers)
	for _, sig := range got {
		require.Equal(t, "rec", sig.AlphaID)
	}

	_, numSignals := e.Stats()
	require.EqualValues(t, 1, numSignals)
}

func TestEnginePerStrategySerialization(t *testing.T) {
	const (
		numStrategies = 16
		numTicks      = 50
	)

	e := NewEngine(4, 1024)
	strategies := make([]*recordingStrategy, numStrategies)
	for i := range strategies {
		strategies[i] = &recordingStrategy{id: "rec"}
		e.AddAlpha(strategies[i])
	}
	require.True(t, e.Start())

	for i := 1; i <= numTicks; i++ {
		e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: int64(i)})
	}
	e.Stop()

	for i, s := range strategies {
		require.Zerof(t, s.overlaps.Load(), "strategy %d observed overlapping OnTick", i)
		require.Lenf(t, s.seen, numTicks, "strategy %d lost ticks", i)
		for j := 1; j < len(s.seen); j++ {
			require.Lessf(t, s.seen[j-1], s.seen[j], "strategy %d saw ticks out of order", i)
		}
	}
}

func TestEngineStopDrainsQueuedTasks(t *testing.T) {
	e := NewEngine(1, 1024)
	s := &recordingStrategy{id: "rec"}
	e.AddAlpha(s)
	require.True(t, e.Start())

	for i := 1; i <= 20; i++ {
		e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: int64(i)})
	}
	e.Stop()

	require.Len(t, s.seen, 20)
}

func TestEngineStartStopIdempotent(t *testing.T) {
	e := NewEngine(2, 16)
	e.AddAlpha(NewMomentum("mom", 3))

	require.True(t, e.Start())
	require.False(t, e.Start())

	e.Stop()
	e.Stop()

	// After stop, ProcessTick is a no-op.
	e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: 1})
	_, numSignals := e.Stats()
	require.Zero(t, numSignals)
}

func TestEngineProcessTickBeforeStartIsNoOp(t *testing.T) {
	e := NewEngine(2, 16)
	s := &recordingStrategy{id: "rec"}
	e.AddAlpha(s)

	e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: 1})
	require.Empty(t, s.seen)
}

func TestEngineSkipsInactiveStrategies(t *testing.T) {
	e := NewEngine(1, 16)
	mr := NewMeanReversion("mr", 3)
	e.AddAlpha(mr)
	mr.Shutdown() // deactivate after registration

	rec := &recordingStrategy{id: "rec"}
	e.AddAlpha(rec)

	require.True(t, e.Start())
	e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: 1})
	e.Stop()

	require.Len(t, rec.seen, 1)
	require.Empty(t, mr.prices)
}

func TestEngineDropsOnFullShard(t *testing.T) {
	block := make(chan struct{})
	e := NewEngine(1, 1)
	e.AddAlpha(&blockingStrategy{release: block})
	require.True(t, e.Start())

	// First tick occupies the worker, second fills the shard, third drops.
	for i := 1; i <= 3; i++ {
		e.ProcessTick(model.Tick{Symbol: "AAPL", Last: 100, TimestampNs: int64(i)})
	}

	require.Eventually(t, func() bool {
		return e.TicksDropped() > 0
	}, time.Second, time.Millisecond)

	close(block)
	e.Stop()
}

type blockingStrategy struct {
	release chan struct{}
	started atomic.Bool
}

func (b *blockingStrategy) AlphaID() string { return "blocking" }
func (b *blockingStrategy) Initialize()     {}
func (b *blockingStrategy) Shutdown()       {}
func (b *blockingStrategy) IsActive() bool  { return true }

func (b *blockingStrategy) OnTick(model.Tick) (model.Signal, bool) {
	if b.started.CompareAndSwap(false, true) {
		<-b.release
	}
	return model.Signal{}, false
}

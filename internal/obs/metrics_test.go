package obs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCountersAccumulate(t *testing.T) {
	m := NewMetrics()
	m.Inc(CounterPacketsReceived)
	m.Add(CounterPacketsReceived, 2)
	m.Inc(CounterOrdersRejected)

	require.EqualValues(t, 3, m.Get(CounterPacketsReceived))
	require.EqualValues(t, 1, m.Get(CounterOrdersRejected))
	require.Zero(t, m.Get(CounterOrdersApproved))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.Inc(CounterPacketsReceived)
	m.ObserveLatency(LatencyRiskEval, time.Millisecond)
	require.Zero(t, m.Get(CounterPacketsReceived))
	require.Empty(t, m.Snapshot().Counters)
}

func TestLatencyStats(t *testing.T) {
	m := NewMetrics()
	m.ObserveLatency(LatencyRiskEval, 10*time.Microsecond)
	m.ObserveLatency(LatencyRiskEval, 30*time.Microsecond)
	m.ObserveLatency(LatencyRiskEval, 20*time.Microsecond)

	snap := m.Snapshot().Latencies[LatencyRiskEval]
	require.EqualValues(t, 3, snap.Count)
	require.Equal(t, 10*time.Microsecond, snap.Min)
	require.Equal(t, 30*time.Microsecond, snap.Max)
	require.Equal(t, 20*time.Microsecond, snap.Avg)
}

func TestConcurrentObserve(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				m.Inc(CounterSignalsEmitted)
				m.ObserveLatency(LatencyTickHandling, time.Microsecond)
			}
		}()
	}
	wg.Wait()

	require.EqualValues(t, 8000, m.Get(CounterSignalsEmitted))
	require.EqualValues(t, 8000, m.Snapshot().Latencies[LatencyTickHandling].Count)
}

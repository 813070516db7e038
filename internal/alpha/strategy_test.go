package alpha

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"main/internal/model"
)

func tickAt(price float64, ts int64) model.Tick {
	return model.Tick{
		Symbol:      "AAPL",
		Bid:         price - 0.01,
		Ask:         price + 0.01,
		Last:        price,
		TimestampNs: ts,
	}
}

func feed(t *testing.T, s Strategy, prices []float64) (model.Signal, bool) {
	t.Helper()
	var (
		sig model.Signal
		ok  bool
	)
	for i, p := range prices {
		sig, ok = s.OnTick(tickAt(p, int64(i+1)))
	}
	return sig, ok
}

func TestMeanReversionZScore(t *testing.T) {
	s := NewMeanReversion("mr-test", 3)
	s.Initialize()

	prices := []float64{10, 10, 10, 13}
	for i, p := range prices[:3] {
		_, ok := s.OnTick(tickAt(p, int64(i+1)))
		require.Falsef(t, ok, "tick %d must not emit", i+1)
	}

	// Window is [10, 10, 13]: mean 11, population stddev sqrt(2).
	sig, ok := s.OnTick(tickAt(13, 4))
	require.True(t, ok)

	z := (13.0 - 11.0) / math.Sqrt(2)
	require.Equal(t, "mr-test", sig.AlphaID)
	require.Equal(t, "AAPL", sig.Symbol)
	require.InDelta(t, -1.0, sig.Signal, 1e-9) // clamp(-z) with z > 1
	require.InDelta(t, z/3.0, sig.Confidence, 1e-9)
	require.EqualValues(t, 4, sig.TimestampNs)
}

func TestMeanReversionWarmup(t *testing.T) {
	const window = 5
	s := NewMeanReversion("mr", window)
	s.Initialize()

	for i := 0; i < window-1; i++ {
		_, ok := s.OnTick(tickAt(100+float64(i), int64(i+1)))
		require.False(t, ok)
	}
}

func TestMeanReversionFlatWindowEmitsNothing(t *testing.T) {
	s := NewMeanReversion("mr", 3)
	s.Initialize()

	_, ok := feed(t, s, []float64{50, 50, 50, 50})
	require.False(t, ok)
}

func TestMeanReversionInactiveBeforeInitialize(t *testing.T) {
	s := NewMeanReversion("mr", 3)
	require.False(t, s.IsActive())

	_, ok := s.OnTick(tickAt(100, 1))
	require.False(t, ok)

	s.Initialize()
	require.True(t, s.IsActive())

	s.Shutdown()
	require.False(t, s.IsActive())
	_, ok = feed(t, s, []float64{10, 11, 12, 13})
	require.False(t, ok)
}

func TestMomentumConsistentUp(t *testing.T) {
	s := NewMomentum("mom-test", 3)
	s.Initialize()

	prices := []float64{100, 101, 102, 103}
	for i, p := range prices[:3] {
		_, ok := s.OnTick(tickAt(p, int64(i+1)))
		require.Falsef(t, ok, "tick %d must not emit", i+1)
	}

	sig, ok := s.OnTick(tickAt(103, 4))
	require.True(t, ok)

	c := 1.0/100.0 + 1.0/101.0 + 1.0/102.0
	require.InDelta(t, math.Tanh(c*10), sig.Signal, 1e-9)
	require.InDelta(t, 1.0, sig.Confidence, 1e-9)
}

func TestMomentumWarmupNeedsLookbackReturns(t *testing.T) {
	const lookback = 4
	s := NewMomentum("mom", lookback)
	s.Initialize()

	// One tick establishes prev, then lookback returns are needed: the
	// first lookback ticks emit nothing.
	for i := 0; i < lookback; i++ {
		_, ok := s.OnTick(tickAt(100+float64(i), int64(i+1)))
		require.False(t, ok)
	}
	_, ok := s.OnTick(tickAt(105, int64(lookback+1)))
	require.True(t, ok)
}

func TestMomentumMixedReturnsLowConfidence(t *testing.T) {
	s := NewMomentum("mom", 4)
	s.Initialize()

	// Two up moves, two down moves: consistency |2/4 - 0.5|*2 = 0.
	sig, ok := feed(t, s, []float64{100, 101, 100, 101, 100})
	require.True(t, ok)
	require.Zero(t, sig.Confidence)
}

func TestSignalsStayBounded(t *testing.T) {
	strategies := []Strategy{
		NewMeanReversion("mr", 3),
		NewMomentum("mom", 3),
	}
	prices := []float64{100, 1, 5000, 2, 9000, 1, 4, 80000, 3}

	for _, s := range strategies {
		s.Initialize()
		for i, p := range prices {
			sig, ok := s.OnTick(tickAt(p, int64(i+1)))
			if !ok {
				continue
			}
			require.GreaterOrEqual(t, sig.Signal, -1.0)
			require.LessOrEqual(t, sig.Signal, 1.0)
			require.GreaterOrEqual(t, sig.Confidence, 0.0)
			require.LessOrEqual(t, sig.Confidence, 1.0)
		}
	}
}

func TestFactory(t *testing.T) {
	mr, err := NewStrategy(TypeMeanReversion, "a1", 0)
	require.NoError(t, err)
	require.Equal(t, "a1", mr.AlphaID())

	mom, err := NewStrategy(TypeMomentum, "a2", 5)
	require.NoError(t, err)
	require.Equal(t, "a2", mom.AlphaID())

	_, err = NewStrategy("Arbitrage", "a3", 0)
	require.Error(t, err)
}

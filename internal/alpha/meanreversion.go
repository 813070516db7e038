package alpha

import (
	"math"

	"main/internal/model"
)

const (
	// DefaultWindowSize is the mean reversion rolling window.
	DefaultWindowSize = 20

	minStdDev = 1e-6
)

// MeanReversion trades against deviations from the rolling mean of last
// prices. It emits nothing until the window is full, and nothing when the
// window has no volatility.
type MeanReversion struct {
	alphaID      string
	window       int
	prices       []float64
	initialized  bool
	lastUpdateNs int64
}

// NewMeanReversion creates a mean reversion strategy with the given window.
// Non-positive windows fall back to the default.
func NewMeanReversion(alphaID string, window int) *MeanReversion {
	if window <= 0 {
		window = DefaultWindowSize
	}
	return &MeanReversion{
		alphaID: alphaID,
		window:  window,
		prices:  make([]float64, 0, window),
	}
}

func (m *MeanReversion) AlphaID() string {
	return m.alphaID
}

func (m *MeanReversion) Initialize() {
	m.prices = m.prices[:0]
	m.initialized = true
}

func (m *MeanReversion) Shutdown() {
	m.prices = m.prices[:0]
	m.initialized = false
}

func (m *MeanReversion) IsActive() bool {
	return m.initialized
}

func (m *MeanReversion) OnTick(tick model.Tick) (model.Signal, bool) {
	if !m.initialized {
		return model.Signal{}, false
	}

	price := tick.Last
	m.prices = append(m.prices, price)
	if len(m.prices) > m.window {
		m.prices = m.prices[1:]
	}
	if len(m.prices) < m.window {
		return model.Signal{}, false
	}

	mean := meanOf(m.prices)
	stdDev := populationStdDev(m.prices, mean)
	if stdDev < minStdDev {
		return model.Signal{}, false
	}

	z := (price - mean) / stdDev
	m.lastUpdateNs = tick.TimestampNs

	return model.Signal{
		AlphaID:     m.alphaID,
		Symbol:      tick.Symbol,
		Signal:      -z,
		Confidence:  math.Min(1.0, math.Abs(z)/3.0),
		TimestampNs: tick.TimestampNs,
	}.Clamped(), true
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// populationStdDev divides by N, not N-1.
func populationStdDev(values []float64, mean float64) float64 {
	acc := 0.0
	for _, v := range values {
		diff := v - mean
		acc += diff * diff
	}
	return math.Sqrt(acc / float64(len(values)))
}

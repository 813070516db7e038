package alpha

import (
	"math"

	"main/internal/model"
)

// DefaultLookback is the momentum return lookback.
const DefaultLookback = 10

// Momentum follows the direction of recent simple returns. The first tick
// only establishes the previous price; a full lookback of returns is
// required before any signal is emitted.
type Momentum struct {
	alphaID      string
	lookback     int
	returns      []float64
	lastPrice    float64
	hasLast      bool
	lastUpdateNs int64
}

// NewMomentum creates a momentum strategy with the given lookback.
// Non-positive lookbacks fall back to the default.
func NewMomentum(alphaID string, lookback int) *Momentum {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	return &Momentum{
		alphaID:  alphaID,
		lookback: lookback,
		returns:  make([]float64, 0, lookback),
	}
}

func (m *Momentum) AlphaID() string {
	return m.alphaID
}

func (m *Momentum) Initialize() {
	m.returns = m.returns[:0]
	m.hasLast = false
}

func (m *Momentum) Shutdown() {
	m.returns = m.returns[:0]
	m.hasLast = false
}

func (m *Momentum) IsActive() bool {
	return true
}

func (m *Momentum) OnTick(tick model.Tick) (model.Signal, bool) {
	price := tick.Last

	if m.hasLast && m.lastPrice != 0 {
		r := (price - m.lastPrice) / m.lastPrice
		m.returns = append(m.returns, r)
		if len(m.returns) > m.lookback {
			m.returns = m.returns[1:]
		}
	}
	m.lastPrice = price
	m.hasLast = true

	if len(m.returns) < m.lookback {
		return model.Signal{}, false
	}

	cumulative := 0.0
	positive := 0
	for _, r := range m.returns {
		cumulative += r
		if r > 0 {
			positive++
		}
	}

	consistency := math.Abs(float64(positive)/float64(len(m.returns))-0.5) * 2.0
	m.lastUpdateNs = tick.TimestampNs

	return model.Signal{
		AlphaID:     m.alphaID,
		Symbol:      tick.Symbol,
		Signal:      math.Tanh(cumulative * 10.0),
		Confidence:  consistency,
		TimestampNs: tick.TimestampNs,
	}.Clamped(), true
}

package risk

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/model"
	"main/internal/obs"
	"main/internal/state"
)

// MaxValidationTime is the per-order latency budget. Overruns raise a soft
// warning through the overrun hook; the order is still answered.
const MaxValidationTime = 50 * time.Microsecond

// OverrunFunc observes validations that blow the latency budget.
type OverrunFunc func(order model.Order, elapsed time.Duration)

// Guardian rejects unsafe orders before they reach the market and maintains
// the authoritative positions. Validation runs under a serializing mutex so
// each order is judged against a consistent book.
type Guardian struct {
	battery   *Battery
	positions *state.Manager

	validationMu sync.Mutex

	marksMu sync.RWMutex
	marks   map[string]float64

	initialNAV float64
	overrun    OverrunFunc
	metrics    *obs.Metrics

	validationCount atomic.Uint64
	approvedCount   atomic.Uint64
	rejectedCount   atomic.Uint64
}

// ValidateOrder runs the battery over one order and measures the elapsed
// time against the latency budget.
func (g *Guardian) ValidateOrder(order model.Order) Result {
	start := time.Now()
	g.validationCount.Add(1)

	g.validationMu.Lock()
	result := g.battery.ValidateAll(order)
	g.validationMu.Unlock()

	if result.Approved {
		g.approvedCount.Add(1)
	} else {
		g.rejectedCount.Add(1)
	}

	elapsed := time.Since(start)
	g.metrics.ObserveLatency(obs.LatencyRiskEval, elapsed)
	if elapsed > MaxValidationTime {
		g.overrun(order, elapsed)
	}
	return result
}

// UpdatePosition applies an executed quantity at a price to the position
// book.
func (g *Guardian) UpdatePosition(symbol string, executedQty, executedPrice float64) model.Position {
	return g.positions.UpdatePosition(symbol, executedQty, executedPrice)
}

// UpdateMarketPrice records a mark and refreshes the symbol's unrealized
// PnL.
func (g *Guardian) UpdateMarketPrice(symbol string, price float64) {
	g.marksMu.Lock()
	g.marks[symbol] = price
	g.marksMu.Unlock()

	g.positions.Mark(symbol, price)
}

// MarketPrice returns the last recorded mark for a symbol.
func (g *Guardian) MarketPrice(symbol string) (float64, bool) {
	g.marksMu.RLock()
	defer g.marksMu.RUnlock()
	price, ok := g.marks[symbol]
	return price, ok
}

// Positions exposes the position manager.
func (g *Guardian) Positions() *state.Manager {
	return g.positions
}

// InitialNAV returns the NAV the guardian was built with.
func (g *Guardian) InitialNAV() float64 {
	return g.initialNAV
}

func (g *Guardian) ValidationCount() uint64 { return g.validationCount.Load() }
func (g *Guardian) ApprovedCount() uint64   { return g.approvedCount.Load() }
func (g *Guardian) RejectedCount() uint64   { return g.rejectedCount.Load() }

func defaultOverrun(order model.Order, elapsed time.Duration) {
	logs.Warnf("order %s validation took %s, over the %s budget",
		order.OrderID, elapsed, MaxValidationTime)
}

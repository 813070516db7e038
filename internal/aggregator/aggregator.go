package aggregator

import (
	"sync"
	"time"

	"main/internal/model"
)

const (
	// MaxSignalsPerSymbol caps each symbol's buffer; overflow evicts FIFO.
	MaxSignalsPerSymbol = 1000
	// SignalExpiry is the default age-based eviction window.
	SignalExpiry = 60 * time.Second
)

// Aggregator buffers signals per symbol and collapses them into target
// positions through a pluggable policy. All operations serialize on one
// mutex over the per-symbol map.
type Aggregator struct {
	policy Policy

	mu           sync.Mutex
	signals      map[string][]model.Signal
	maxPerSymbol int
}

// New creates an aggregator with the given policy. maxPerSymbol caps each
// buffer; non-positive selects the default.
func New(policy Policy, maxPerSymbol int) *Aggregator {
	if maxPerSymbol <= 0 {
		maxPerSymbol = MaxSignalsPerSymbol
	}
	return &Aggregator{
		policy:       policy,
		signals:      make(map[string][]model.Signal),
		maxPerSymbol: maxPerSymbol,
	}
}

// Policy returns the configured aggregation policy.
func (a *Aggregator) Policy() Policy {
	return a.policy
}

// AddSignal appends to the symbol's buffer, evicting the oldest entry on
// overflow.
func (a *Aggregator) AddSignal(sig model.Signal) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf := append(a.signals[sig.Symbol], sig)
	if len(buf) > a.maxPerSymbol {
		buf = buf[1:]
	}
	a.signals[sig.Symbol] = buf
}

// AggregatedSignal returns the policy output for a symbol; ok is false when
// the symbol is unknown or its buffer is empty.
func (a *Aggregator) AggregatedSignal(symbol string) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	buf := a.signals[symbol]
	if len(buf) == 0 {
		return 0, false
	}
	return a.policy.Aggregate(buf), true
}

// TargetPortfolio produces one target position per symbol with a non-empty
// buffer, scaling the aggregate score into a quantity.
func (a *Aggregator) TargetPortfolio() []model.TargetPosition {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now().UnixNano()
	portfolio := make([]model.TargetPosition, 0, len(a.signals))
	for symbol, buf := range a.signals {
		if len(buf) == 0 {
			continue
		}
		portfolio = append(portfolio, model.TargetPosition{
			Symbol:         symbol,
			TargetQuantity: a.policy.Aggregate(buf) * 1000.0,
			TimestampNs:    now,
		})
	}
	return portfolio
}

// ClearOlderThan evicts every signal with a timestamp before ts.
func (a *Aggregator) ClearOlderThan(ts int64) {
	a.mu.Lock()
	defer a.mu.Unlock()

	for symbol, buf := range a.signals {
		kept := buf[:0]
		for _, sig := range buf {
			if sig.TimestampNs >= ts {
				kept = append(kept, sig)
			}
		}
		if len(kept) == 0 {
			delete(a.signals, symbol)
			continue
		}
		a.signals[symbol] = kept
	}
}

// BufferedSignals reports the total buffered signal count across symbols.
func (a *Aggregator) BufferedSignals() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	total := 0
	for _, buf := range a.signals {
		total += len(buf)
	}
	return total
}

package risk

import (
	"fmt"
	"sync"

	"main/internal/model"
	"main/internal/model/enum"
)

// DefaultMaxDrawdownPct halts buying at a 5% drawdown.
const DefaultMaxDrawdownPct = 0.05

// Drawdown blocks new buys once losses against start-of-day NAV exceed the
// limit. Sells stay permitted so the book can be reduced.
type Drawdown struct {
	toggle
	maxPct float64

	mu            sync.RWMutex
	startOfDayNAV float64
	currentPnL    float64
}

// NewDrawdown creates the check; a non-positive pct selects the default.
func NewDrawdown(maxPct float64) *Drawdown {
	if maxPct <= 0 {
		maxPct = DefaultMaxDrawdownPct
	}
	return &Drawdown{maxPct: maxPct}
}

func (c *Drawdown) Name() string             { return "DrawdownCheck" }
func (c *Drawdown) Kind() enum.ViolationKind { return enum.ViolationDrawdown }

// UpdatePnL records the current P&L.
func (c *Drawdown) UpdatePnL(pnl float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.currentPnL = pnl
}

// UpdateStartOfDayNAV records the drawdown baseline.
func (c *Drawdown) UpdateStartOfDayNAV(nav float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startOfDayNAV = nav
}

func (c *Drawdown) Validate(order model.Order) (bool, string) {
	c.mu.RLock()
	nav := c.startOfDayNAV
	pnl := c.currentPnL
	c.mu.RUnlock()

	if nav <= 0 {
		return true, ""
	}

	drawdown := -pnl / nav
	if drawdown > c.maxPct && order.Side == enum.OrderSideBuy {
		return false, fmt.Sprintf("strategy is in %.1f%% drawdown, exceeds limit of %.1f%%",
			drawdown*100, c.maxPct*100)
	}
	return true, ""
}

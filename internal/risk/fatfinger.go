package risk

import (
	"fmt"
	"math"
	"sync"

	"main/internal/model"
	"main/internal/model/enum"
)

// DefaultMaxADVPct caps an order at 5% of the symbol's average daily volume.
const DefaultMaxADVPct = 0.05

// FatFinger rejects abnormally large orders relative to the symbol's ADV.
// Symbols without ADV data are accepted.
type FatFinger struct {
	toggle
	maxADVPct float64

	mu  sync.RWMutex
	adv map[string]float64
}

// NewFatFinger creates the check; a non-positive pct selects the default.
func NewFatFinger(maxADVPct float64) *FatFinger {
	if maxADVPct <= 0 {
		maxADVPct = DefaultMaxADVPct
	}
	return &FatFinger{
		maxADVPct: maxADVPct,
		adv:       make(map[string]float64),
	}
}

func (c *FatFinger) Name() string             { return "FatFingerCheck" }
func (c *FatFinger) Kind() enum.ViolationKind { return enum.ViolationFatFinger }

// SetADV records the average daily volume for a symbol.
func (c *FatFinger) SetADV(symbol string, adv float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adv[symbol] = adv
}

func (c *FatFinger) Validate(order model.Order) (bool, string) {
	c.mu.RLock()
	adv, ok := c.adv[order.Symbol]
	c.mu.RUnlock()
	if !ok {
		return true, ""
	}

	maxQty := adv * c.maxADVPct
	if math.Abs(order.Quantity) > maxQty {
		return false, fmt.Sprintf("order quantity %.0f exceeds %.1f%% of ADV (%.0f)",
			order.Quantity, c.maxADVPct*100, maxQty)
	}
	return true, ""
}

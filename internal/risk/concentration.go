package risk

import (
	"fmt"
	"math"
	"sync"

	"main/internal/model"
	"main/internal/model/enum"
)

// DefaultMaxConcentrationPct caps a single symbol at 10% of NAV.
const DefaultMaxConcentrationPct = 0.10

// Concentration rejects orders that would push a symbol's position value
// past the NAV share limit.
type Concentration struct {
	toggle
	maxPct float64

	mu             sync.RWMutex
	positionValues map[string]float64
	totalNAV       float64
}

// NewConcentration creates the check; a non-positive pct selects the
// default.
func NewConcentration(maxPct float64) *Concentration {
	if maxPct <= 0 {
		maxPct = DefaultMaxConcentrationPct
	}
	return &Concentration{
		maxPct:         maxPct,
		positionValues: make(map[string]float64),
	}
}

func (c *Concentration) Name() string             { return "ConcentrationCheck" }
func (c *Concentration) Kind() enum.ViolationKind { return enum.ViolationConcentration }

// UpdatePosition records the current position value for a symbol.
func (c *Concentration) UpdatePosition(symbol string, value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.positionValues[symbol] = value
}

// UpdateTotalNAV records the portfolio NAV.
func (c *Concentration) UpdateTotalNAV(nav float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalNAV = nav
}

func (c *Concentration) Validate(order model.Order) (bool, string) {
	c.mu.RLock()
	nav := c.totalNAV
	current := c.positionValues[order.Symbol]
	c.mu.RUnlock()

	if nav <= 0 {
		return true, ""
	}

	newValue := current + order.SignedQuantity()*order.Price
	concentration := math.Abs(newValue) / nav
	if concentration > c.maxPct {
		return false, fmt.Sprintf("order would result in %.1f%% concentration in %s, exceeds limit of %.1f%%",
			concentration*100, order.Symbol, c.maxPct*100)
	}
	return true, ""
}

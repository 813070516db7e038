package risk

import (
	"main/internal/obs"
	"main/internal/state"
)

// DefaultInitialNAV seeds the guardian when no NAV is configured.
const DefaultInitialNAV = 1_000_000.0

// Builder assembles a guardian. Checks not added here are absent, not
// merely disabled.
type Builder struct {
	initialNAV    float64
	fatFinger     *FatFinger
	drawdown      *Drawdown
	concentration *Concentration
	overrun       OverrunFunc
	metrics       *obs.Metrics
}

// NewBuilder starts a guardian configuration with the default NAV.
func NewBuilder() *Builder {
	return &Builder{initialNAV: DefaultInitialNAV}
}

// WithInitialNAV overrides the starting NAV.
func (b *Builder) WithInitialNAV(nav float64) *Builder {
	if nav > 0 {
		b.initialNAV = nav
	}
	return b
}

// WithFatFinger enables the fat-finger check at the given ADV share.
func (b *Builder) WithFatFinger(maxADVPct float64) *Builder {
	b.fatFinger = NewFatFinger(maxADVPct)
	return b
}

// WithDrawdown enables the drawdown check at the given limit, baselined at
// the builder's NAV.
func (b *Builder) WithDrawdown(maxPct float64) *Builder {
	b.drawdown = NewDrawdown(maxPct)
	return b
}

// WithConcentration enables the concentration check at the given NAV share,
// seeded with the builder's NAV.
func (b *Builder) WithConcentration(maxPct float64) *Builder {
	b.concentration = NewConcentration(maxPct)
	return b
}

// WithOverrunHook overrides the latency overrun observer.
func (b *Builder) WithOverrunHook(fn OverrunFunc) *Builder {
	b.overrun = fn
	return b
}

// WithMetrics attaches an observability container.
func (b *Builder) WithMetrics(m *obs.Metrics) *Builder {
	b.metrics = m
	return b
}

// Build yields a ready guardian.
func (b *Builder) Build() *Guardian {
	g := &Guardian{
		battery:    &Battery{},
		positions:  state.NewManager(),
		marks:      make(map[string]float64),
		initialNAV: b.initialNAV,
		overrun:    b.overrun,
		metrics:    b.metrics,
	}
	if g.overrun == nil {
		g.overrun = defaultOverrun
	}

	if b.fatFinger != nil {
		g.battery.Add(b.fatFinger)
	}
	if b.drawdown != nil {
		b.drawdown.UpdateStartOfDayNAV(b.initialNAV)
		g.battery.Add(b.drawdown)
	}
	if b.concentration != nil {
		b.concentration.UpdateTotalNAV(b.initialNAV)
		g.battery.Add(b.concentration)
	}
	return g
}

// FatFinger returns the built fat-finger check for runtime ADV updates.
func (b *Builder) FatFinger() *FatFinger { return b.fatFinger }

// Drawdown returns the built drawdown check for runtime PnL updates.
func (b *Builder) Drawdown() *Drawdown { return b.drawdown }

// Concentration returns the built concentration check for runtime position
// updates.
func (b *Builder) Concentration() *Concentration { return b.concentration }

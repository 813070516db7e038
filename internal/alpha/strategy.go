package alpha

import "main/internal/model"

// Strategy is the capability contract every alpha implements. OnTick is the
// only hot-path method; the engine guarantees it is never invoked
// concurrently for the same strategy.
type Strategy interface {
	// AlphaID is stable for the strategy's lifetime.
	AlphaID() string
	// Initialize clears history and arms the strategy.
	Initialize()
	// Shutdown clears history and disarms the strategy.
	Shutdown()
	// IsActive reports whether the strategy should receive ticks.
	IsActive() bool
	// OnTick consumes one canonical tick and optionally emits a signal.
	OnTick(tick model.Tick) (model.Signal, bool)
}

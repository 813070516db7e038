package risk

import (
	"strings"
	"sync/atomic"

	"main/internal/model"
	"main/internal/model/enum"
)

// Check is the capability contract for a single pre-trade check.
type Check interface {
	// Validate accepts or rejects an order. The reason is empty on accept.
	Validate(order model.Order) (accepted bool, reason string)
	// Kind tags the violation this check raises.
	Kind() enum.ViolationKind
	Name() string
	Enabled() bool
	SetEnabled(enabled bool)
}

// toggle provides the shared enable/disable state.
type toggle struct {
	disabled atomic.Bool
}

func (t *toggle) Enabled() bool {
	return !t.disabled.Load()
}

func (t *toggle) SetEnabled(enabled bool) {
	t.disabled.Store(!enabled)
}

// Result is the outcome of running the battery over one order. Violations
// accumulate: several checks may fail in a single call.
type Result struct {
	Approved   bool
	Violations []enum.ViolationKind
	Reason     string
}

func (r *Result) addViolation(kind enum.ViolationKind, reason string) {
	r.Approved = false
	r.Violations = append(r.Violations, kind)
	if r.Reason != "" {
		r.Reason += "; "
	}
	r.Reason += reason
}

// ViolationNames renders the violation tags for logging.
func (r Result) ViolationNames() string {
	if len(r.Violations) == 0 {
		return ""
	}
	names := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		names[i] = v.String()
	}
	return strings.Join(names, ",")
}

package enum

// ViolationKind tags the risk check that rejected an order.
type ViolationKind uint8

const (
	ViolationNone ViolationKind = iota
	ViolationFatFinger
	ViolationDrawdown
	ViolationConcentration
	ViolationPositionLimit
)

func (v ViolationKind) String() string {
	switch v {
	case ViolationFatFinger:
		return "FAT_FINGER"
	case ViolationDrawdown:
		return "DRAWDOWN"
	case ViolationConcentration:
		return "CONCENTRATION"
	case ViolationPositionLimit:
		return "POSITION_LIMIT"
	default:
		return "NONE"
	}
}
